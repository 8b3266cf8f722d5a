package main

import (
	"path/filepath"
	"strings"

	crdb "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/gen"
	"github.com/wippyai/marshalgen/schema"
	"github.com/wippyai/marshalgen/witimport"
)

type outputFlags struct {
	dir       string
	namespace string
	stdout    bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "out", "o", "", "output directory (default from config output.dir)")
	cmd.Flags().StringVarP(&f.namespace, "namespace", "n", "", "C++ namespace overriding the one in the input")
	cmd.Flags().BoolVar(&f.stdout, "stdout", false, "print generated files instead of writing them")
}

func newGenerateCmd(a *app) *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:   "generate <schema>...",
		Short: "Generate code from YAML or TOML package schemas",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgs := make([]*gen.Package, 0, len(args))
			for _, path := range args {
				pkg, err := a.loadSchema(path, flags.namespace)
				if err != nil {
					return err
				}
				pkgs = append(pkgs, pkg)
			}
			return a.generate(cmd, pkgs, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func newWitCmd(a *app) *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:   "wit <resolve.json>...",
		Short: "Generate code from WIT resolve JSON",
		Long: `Generate code for the records, enums, flags and named tuples of a
resolved WIT package. Produce the input with:

  wasm-tools component wit --json path/to/wit > resolve.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns := a.namespace(flags.namespace)
			pkgs := make([]*gen.Package, 0, len(args))
			for _, path := range args {
				pkg, err := witimport.LoadPackage(path, ns)
				if err != nil {
					return err
				}
				a.log.Debug("imported WIT package",
					zap.String("path", path),
					zap.String("package", pkg.Name),
					zap.Int("types", len(pkg.Types)))
				pkgs = append(pkgs, pkg)
			}
			return a.generate(cmd, pkgs, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

// namespace picks the flag value, then the configured override.
func (a *app) namespace(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.Generate.Namespace
}

// loadPackage reads a schema document or, for .json files, a WIT resolve.
func (a *app) loadPackage(path, namespace string) (*gen.Package, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return witimport.LoadPackage(path, a.namespace(namespace))
	}
	return a.loadSchema(path, namespace)
}

// loadSchema reads a schema document. The namespace is replaced before
// resolution because resolved type names are fully qualified.
func (a *app) loadSchema(path, namespace string) (*gen.Package, error) {
	doc, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if ns := a.namespace(namespace); ns != "" {
		doc.Namespace = ns
	}

	pkg, err := doc.Resolve()
	if err != nil {
		return nil, errors.WithPath(err, path)
	}
	a.log.Debug("loaded schema",
		zap.String("path", path),
		zap.String("package", pkg.Name),
		zap.Int("types", len(pkg.Types)),
		zap.Int("interfaces", len(pkg.Interfaces)))
	return pkg, nil
}

func (a *app) generate(cmd *cobra.Command, pkgs []*gen.Package, flags outputFlags) error {
	seen := make(map[string]bool, len(pkgs))
	for _, pkg := range pkgs {
		if seen[pkg.Name] {
			return crdb.WithHint(crdb.Newf("package %s given more than once", pkg.Name),
				"every package writes <name>.h and <name>.cpp, so package names must differ")
		}
		seen[pkg.Name] = true
	}

	g, err := a.cfg.Generator()
	if err != nil {
		return err
	}
	outs, err := g.GenerateAll(cmd.Context(), pkgs)
	if err != nil {
		return err
	}

	if flags.stdout {
		return printOutputs(cmd.OutOrStdout(), outs)
	}

	dir := flags.dir
	if dir == "" {
		dir = a.cfg.Output.Dir
	}
	return writeOutputs(a.log, dir, outs)
}
