package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	crdb "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/marshalgen/config"
	"github.com/wippyai/marshalgen/gen"
	"github.com/wippyai/marshalgen/schema"
)

var fooSchema = filepath.Join("..", "..", "schema", "testdata", "foo.yaml")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBuildLogger(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
		dev   bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, true},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := buildLogger(config.LogConfig{Level: tt.level, Development: tt.dev})
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(tt.want-1))
			}
		})
	}

	_, err := buildLogger(config.LogConfig{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, crdb.FlattenHints(err), "debug, info, warn or error")
}

func TestGenerateWritesFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "generate", fooSchema, "-o", dir)
	require.NoError(t, err)

	header, err := os.ReadFile(filepath.Join(dir, "foo.h"))
	require.NoError(t, err)
	source, err := os.ReadFile(filepath.Join(dir, "foo.cpp"))
	require.NoError(t, err)

	assert.Contains(t, string(header), "struct IFoo {")
	assert.Contains(t, string(header), "struct BpFoo final : public IFoo {")
	assert.Contains(t, string(source), "#include \"foo.h\"")
	assert.Contains(t, string(source), "BnFoo::onTransact(")
}

func TestGenerateNamespaceAndStdout(t *testing.T) {
	out, err := run(t, "generate", fooSchema, "--stdout", "-n", "vendor::acme::V2_0")
	require.NoError(t, err)

	assert.Contains(t, out, "// foo.h\n")
	assert.Contains(t, out, "// foo.cpp\n")
	assert.Contains(t, out, "::vendor::acme::V2_0::Entry")
	assert.NotContains(t, out, "android::hardware::foo")
}

func TestGenerateConfigModes(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "marshalgen.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[generate]\nproxy_error_mode = \"return\"\nstub_error_mode = \"return\"\n"), 0o644))

	out, err := run(t, "--config", cfgPath, "generate", fooSchema, "--stdout")
	require.NoError(t, err)
	assert.NotContains(t, out, "goto _hidl_error;\n", "proxies and stubs return instead of jumping")
	assert.Contains(t, out, "return _hidl_err; }")
}

func TestGenerateErrors(t *testing.T) {
	t.Run("duplicate package", func(t *testing.T) {
		_, err := run(t, "generate", fooSchema, fooSchema, "--stdout")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than once")
	})

	t.Run("missing schema", func(t *testing.T) {
		_, err := run(t, "generate", "missing.yaml")
		require.Error(t, err)
	})

	t.Run("no arguments", func(t *testing.T) {
		_, err := run(t, "generate")
		require.Error(t, err)
	})

	t.Run("missing WIT resolve", func(t *testing.T) {
		_, err := run(t, "wit", filepath.Join(t.TempDir(), "resolve.json"))
		require.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		root := newRootCmd()
		root.SetArgs([]string{"--log-level", "loud", "generate", fooSchema})
		require.Error(t, root.ExecuteContext(context.Background()))
	})
}

func browseFixture(t *testing.T) *browseModel {
	t.Helper()
	pkg, err := schema.Load(fooSchema)
	require.NoError(t, err)
	g, err := gen.New(gen.DefaultOptions())
	require.NoError(t, err)
	return newBrowseModel(g, pkg)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestBrowseEntries(t *testing.T) {
	m := browseFixture(t)

	var titles []string
	for _, e := range m.entries {
		titles = append(titles, e.kind+" "+e.title)
	}
	assert.Equal(t, []string{
		"enum Color",
		"struct Entry",
		"arg IFoo.getEntries(count)",
		"result IFoo.getEntries -> entries",
		"arg IFoo.setNames(names)",
		"arg IFoo.registerCallback(cb)",
		"result IFoo.registerCallback -> ok",
		"arg ICallback.notify(color)",
	}, titles)
	assert.Len(t, m.visible, len(m.entries))
}

func TestBrowseShowsCode(t *testing.T) {
	m := browseFixture(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 200})

	m.Update(key("down"))
	m.Update(key("enter"))
	require.Equal(t, stateCode, m.state)
	require.NoError(t, m.err)

	view := m.View()
	assert.Contains(t, view, "struct Entry")
	assert.Contains(t, view, "// declaration")
	assert.Contains(t, view, "// read from parcel")
	assert.Contains(t, view, "_hidl_entry_parent")

	m.Update(key("esc"))
	assert.Equal(t, stateList, m.state)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBrowseFilter(t *testing.T) {
	m := browseFixture(t)

	m.Update(key("/"))
	require.Equal(t, stateFilter, m.state)
	m.Update(key("callback"))
	assert.Len(t, m.visible, 3)

	m.Update(key("enter"))
	assert.Equal(t, stateList, m.state)
	assert.Contains(t, m.View(), "IFoo.registerCallback(cb)")
	assert.NotContains(t, m.View(), "IFoo.getEntries")

	m.Update(key("/"))
	m.Update(key("zzz"))
	assert.Empty(t, m.visible)
	assert.Contains(t, m.View(), "No matching entries.")

	m.Update(key("esc"))
	_, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, stateList, m.state)
}
