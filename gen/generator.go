package gen

import (
	"bytes"
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/marshalgen/errmode"
	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/formatter"
	"github.com/wippyai/marshalgen/types"
)

// Options configures a Generator.
type Options struct {
	Dialect *types.Dialect

	// ProxyMode unwinds failures in client-side proxies. Proxies are plain
	// functions, so Break is rejected.
	ProxyMode errmode.Mode

	// StubMode unwinds failures inside a server-side dispatch case. Element
	// loops sit between a failure and the case, so Break is rejected here
	// too.
	StubMode errmode.Mode

	// TypeHelpers adds standalone embedded read/write functions for every
	// struct with embedded content.
	TypeHelpers bool

	// Includes are the headers the generated header pulls in.
	Includes []string
}

// DefaultIncludes are the HIDL runtime headers.
var DefaultIncludes = []string{
	"<hidl/HidlSupport.h>",
	"<hidl/HidlTransportSupport.h>",
	"<hwbinder/IBinder.h>",
	"<hwbinder/Parcel.h>",
	"<functional>",
}

// DefaultOptions returns options for the HIDL dialect: proxies and stubs
// both jump to a label in front of the function's return.
func DefaultOptions() Options {
	return Options{
		Dialect:     types.DefaultDialect(),
		ProxyMode:   errmode.Goto,
		StubMode:    errmode.Goto,
		TypeHelpers: true,
		Includes:    DefaultIncludes,
	}
}

// Generator turns packages into a header and a source file. A Generator
// holds no per-run state and may be used from multiple goroutines.
type Generator struct {
	opts Options
	d    *types.Dialect
}

// Output is the generated text of one package.
type Output struct {
	Package    string
	HeaderName string
	SourceName string
	Header     []byte
	Source     []byte
}

// New validates opts and returns a Generator.
func New(opts Options) (*Generator, error) {
	if opts.Dialect == nil {
		opts.Dialect = types.DefaultDialect()
	}
	if _, err := opts.ProxyMode.Statement(opts.Dialect.Vocabulary()); err != nil {
		return nil, err
	}
	if _, err := opts.StubMode.Statement(opts.Dialect.Vocabulary()); err != nil {
		return nil, err
	}
	if opts.ProxyMode == errmode.Break {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(opts.ProxyMode.String()).
			Detail("proxy error mode cannot be break: proxies have no enclosing loop or switch").
			Build()
	}
	if opts.StubMode == errmode.Break {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(opts.StubMode.String()).
			Detail("stub error mode cannot be break: a break inside an element loop does not leave the dispatch case").
			Build()
	}
	return &Generator{opts: opts, d: opts.Dialect}, nil
}

// Options returns the generator's configuration.
func (g *Generator) Options() Options {
	return g.opts
}

// Generate renders pkg into a fresh header and source buffer.
func (g *Generator) Generate(pkg *Package) (*Output, error) {
	if err := pkg.Validate(g.d); err != nil {
		return nil, err
	}

	out := &Output{
		Package:    pkg.Name,
		HeaderName: pkg.Name + ".h",
		SourceName: pkg.Name + ".cpp",
	}

	var header bytes.Buffer
	if err := g.EmitHeader(formatter.New(&header), pkg); err != nil {
		return nil, errors.WithPath(err, pkg.Name)
	}
	out.Header = header.Bytes()

	var source bytes.Buffer
	if err := g.EmitSource(formatter.New(&source), pkg); err != nil {
		return nil, errors.WithPath(err, pkg.Name)
	}
	out.Source = source.Bytes()

	Logger().Info("generated package",
		zap.String("package", pkg.Name),
		zap.Int("types", len(pkg.Types)),
		zap.Int("interfaces", len(pkg.Interfaces)),
		zap.Int("header_bytes", len(out.Header)),
		zap.Int("source_bytes", len(out.Source)))

	return out, nil
}

// GenerateAll renders every package concurrently. Each run writes to its
// own buffers; the type trees are shared read-only. The first error cancels
// the remaining runs. Outputs are returned in input order.
func (g *Generator) GenerateAll(ctx context.Context, pkgs []*Package) ([]*Output, error) {
	outs := make([]*Output, len(pkgs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, pkg := range pkgs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := g.Generate(pkg)
			if err != nil {
				return err
			}
			outs[i] = out
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}
