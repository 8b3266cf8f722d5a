package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	crdb "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/marshalgen/formatter"
	"github.com/wippyai/marshalgen/gen"
	"github.com/wippyai/marshalgen/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newBrowseCmd(a *app) *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "browse <schema|resolve.json>",
		Short: "Browse the marshalling statements of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return crdb.WithHint(crdb.New("browse needs a terminal"),
					"use `marshalgen generate --stdout` to print generated code instead")
			}

			pkg, err := a.loadPackage(args[0], namespace)
			if err != nil {
				return err
			}
			g, err := a.cfg.Generator()
			if err != nil {
				return err
			}

			p := tea.NewProgram(newBrowseModel(g, pkg), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "C++ namespace overriding the one in the input")
	return cmd
}

// browseEntry is one marshallable thing of the package: a declared type or
// a method parameter.
type browseEntry struct {
	kind  string
	title string
	name  string
	typ   *types.Type
}

type browseState int

const (
	stateList browseState = iota
	stateFilter
	stateCode
)

type browseModel struct {
	gen      *gen.Generator
	pkg      *gen.Package
	entries  []browseEntry
	visible  []int
	filter   textinput.Model
	code     viewport.Model
	err      error
	selected int
	width    int
	height   int
	state    browseState
}

func newBrowseModel(g *gen.Generator, pkg *gen.Package) *browseModel {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter"
	filter.Width = 40

	m := &browseModel{
		gen:     g,
		pkg:     pkg,
		entries: packageEntries(pkg),
		filter:  filter,
		code:    viewport.New(80, 20),
		width:   80,
		height:  24,
	}
	m.applyFilter()
	return m
}

func packageEntries(pkg *gen.Package) []browseEntry {
	var entries []browseEntry
	for _, t := range pkg.Types {
		kind := "struct"
		if t.Kind() == types.KindEnum {
			kind = "enum"
		}
		entries = append(entries, browseEntry{
			kind:  kind,
			title: t.LocalName(),
			name:  varName(t.LocalName()),
			typ:   t,
		})
	}

	for _, iface := range pkg.Interfaces {
		for _, m := range iface.Methods {
			for _, p := range m.Args {
				entries = append(entries, browseEntry{
					kind:  "arg",
					title: iface.Name + "." + m.Name + "(" + p.Name + ")",
					name:  p.Name,
					typ:   p.Type,
				})
			}
			for _, p := range m.Results {
				entries = append(entries, browseEntry{
					kind:  "result",
					title: iface.Name + "." + m.Name + " -> " + p.Name,
					name:  p.Name,
					typ:   p.Type,
				})
			}
		}
	}
	return entries
}

func varName(s string) string {
	if s == "" {
		return "value"
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.code.Width = msg.Width
		m.code.Height = max(msg.Height-4, 1)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilter:
			return m.updateFilter(msg)
		case stateCode:
			return m.updateCode(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}

	case "/":
		m.state = stateFilter
		return m, m.filter.Focus()

	case "enter":
		if len(m.visible) == 0 {
			return m, nil
		}
		content, err := m.render(m.entries[m.visible[m.selected]])
		m.err = err
		m.code.SetContent(content)
		m.code.GotoTop()
		m.state = stateCode
	}
	return m, nil
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.filter.Blur()
		m.state = stateList
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *browseModel) updateCode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "enter":
		m.state = stateList
		m.err = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.code, cmd = m.code.Update(msg)
	return m, cmd
}

func (m *browseModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if query == "" || strings.Contains(strings.ToLower(e.title), query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

// render produces the declaration of declared types followed by the reader
// and writer statements of the entry.
func (m *browseModel) render(e browseEntry) (string, error) {
	var b strings.Builder

	if e.kind == "struct" || e.kind == "enum" {
		b.WriteString("// declaration\n")
		if err := e.typ.EmitDeclaration(formatter.New(&b), m.gen.Options().Dialect); err != nil {
			return "", err
		}
	}

	reader, err := m.gen.Snippet(e.typ, e.name, true)
	if err != nil {
		return "", err
	}
	writer, err := m.gen.Snippet(e.typ, e.name, false)
	if err != nil {
		return "", err
	}

	b.WriteString("// read from " + gen.SnippetBuffer + "\n")
	b.WriteString(reader)
	b.WriteString("// write to " + gen.SnippetBuffer + "\n")
	b.WriteString(writer)
	return b.String(), nil
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("marshalgen"))
	b.WriteString(" ")
	b.WriteString(m.pkg.Name)
	if m.pkg.Namespace != "" {
		b.WriteString(" (" + m.pkg.Namespace + ")")
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateList, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		if len(m.visible) == 0 {
			b.WriteString("No matching entries.\n")
		}
		for i, idx := range m.visible {
			e := m.entries[idx]
			if i == m.selected {
				b.WriteString(selectedStyle.Render(fmt.Sprintf("> %-7s %s %s", e.kind, e.title, e.typ)))
			} else {
				b.WriteString("  " + kindStyle.Render(fmt.Sprintf("%-7s", e.kind)) + " " + e.title + " " + typeStyle.Render(e.typ.String()))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter show code • / filter • q quit"))

	case stateCode:
		e := m.entries[m.visible[m.selected]]
		b.WriteString(kindStyle.Render(e.kind) + " " + e.title + "\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		} else {
			b.WriteString(codeStyle.Render(m.code.View()))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}
