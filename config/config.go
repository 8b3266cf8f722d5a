// Package config loads generator settings from a TOML or YAML file and
// MARSHALGEN_* environment variables.
package config

import (
	"strings"

	crdb "github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/wippyai/marshalgen/errmode"
	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/gen"
	"github.com/wippyai/marshalgen/types"
)

// EnvPrefix is prepended to environment variable names. Keys use
// underscores for dots: MARSHALGEN_GENERATE_PROXY_ERROR_MODE.
const EnvPrefix = "MARSHALGEN"

// Config is the complete generator configuration.
type Config struct {
	Dialect  types.Dialect  `mapstructure:"dialect"`
	Generate GenerateConfig `mapstructure:"generate"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
}

// GenerateConfig controls code generation.
type GenerateConfig struct {
	ProxyErrorMode string   `mapstructure:"proxy_error_mode"`
	StubErrorMode  string   `mapstructure:"stub_error_mode"`
	TypeHelpers    bool     `mapstructure:"type_helpers"`
	Includes       []string `mapstructure:"includes"`

	// Namespace overrides the namespace of loaded packages when set.
	Namespace string `mapstructure:"namespace"`
}

// OutputConfig says where generated files go.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) error {
	dialect := make(map[string]any)
	if err := mapstructure.Decode(types.DefaultDialect(), &dialect); err != nil {
		return crdb.Wrap(err, "flatten default dialect")
	}
	for key, value := range dialect {
		v.SetDefault("dialect."+key, value)
	}

	opts := gen.DefaultOptions()
	v.SetDefault("generate.proxy_error_mode", opts.ProxyMode.String())
	v.SetDefault("generate.stub_error_mode", opts.StubMode.String())
	v.SetDefault("generate.type_helpers", opts.TypeHelpers)
	v.SetDefault("generate.includes", opts.Includes)
	v.SetDefault("generate.namespace", "")

	v.SetDefault("output.dir", ".")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	return nil
}

// New returns a viper instance with defaults and environment binding. When
// path is not empty the file is read as well.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := SetDefaults(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, crdb.WithHint(
				crdb.Wrapf(err, "read config %s", path),
				"config files are TOML or YAML with dialect, generate, output and log sections")
		}
	}
	return v, nil
}

// Load reads the configuration at path, or defaults and environment only
// when path is empty.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper decodes and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, crdb.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that error modes parse and that the dialect names the
// identifiers generated code cannot do without.
func (c *Config) Validate() error {
	if _, err := errmode.Parse(c.Generate.ProxyErrorMode); err != nil {
		return errors.WithPath(err, "generate", "proxy_error_mode")
	}
	if _, err := errmode.Parse(c.Generate.StubErrorMode); err != nil {
		return errors.WithPath(err, "generate", "stub_error_mode")
	}

	required := []struct {
		key, value string
	}{
		{"prefix", c.Dialect.Prefix},
		{"err_var", c.Dialect.ErrVar},
		{"ok", c.Dialect.OK},
		{"error_label", c.Dialect.ErrorLabel},
		{"status_type", c.Dialect.StatusType},
		{"parcel_type", c.Dialect.ParcelType},
		{"read_buffer", c.Dialect.ReadBuffer},
		{"write_buffer", c.Dialect.WriteBuffer},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.InvalidInput(errors.PhaseConfig, []string{"dialect", r.key}, "must not be empty")
		}
	}
	return nil
}

// Options turns the configuration into generator options.
func (c *Config) Options() (gen.Options, error) {
	proxy, err := errmode.Parse(c.Generate.ProxyErrorMode)
	if err != nil {
		return gen.Options{}, errors.WithPath(err, "generate", "proxy_error_mode")
	}
	stub, err := errmode.Parse(c.Generate.StubErrorMode)
	if err != nil {
		return gen.Options{}, errors.WithPath(err, "generate", "stub_error_mode")
	}

	dialect := c.Dialect
	return gen.Options{
		Dialect:     &dialect,
		ProxyMode:   proxy,
		StubMode:    stub,
		TypeHelpers: c.Generate.TypeHelpers,
		Includes:    c.Generate.Includes,
	}, nil
}

// Generator builds a generator from the configuration.
func (c *Config) Generator() (*gen.Generator, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return gen.New(opts)
}
