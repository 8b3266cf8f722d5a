package main

import (
	crdb "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/marshalgen/config"
	"github.com/wippyai/marshalgen/gen"
)

// app holds the state shared by all subcommands once the root command has
// loaded the configuration.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "marshalgen",
		Short: "Generate parcel marshalling code",
		Long: `marshalgen turns package schemas into C++ headers and sources that
marshal structs, enums, strings, vectors, arrays and interface handles
through a parcel, together with client proxies and server stubs.

Examples:
  marshalgen generate foo.yaml -o out/      # schema to foo.h and foo.cpp
  marshalgen wit resolve.json -n acme::V1   # WIT resolve JSON to C++
  marshalgen browse foo.yaml                # inspect generated statements`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (TOML or YAML)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newGenerateCmd(a))
	root.AddCommand(newWitCmd(a))
	root.AddCommand(newBrowseCmd(a))
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	log, err := buildLogger(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	gen.SetLogger(log.Named("gen"))
	return nil
}

func buildLogger(c config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, crdb.WithHint(crdb.Wrapf(err, "log level %q", c.Level),
			"use debug, info, warn or error")
	}

	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zc.Build()
}
