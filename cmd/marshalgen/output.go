package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	crdb "github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/wippyai/marshalgen/gen"
)

func writeOutputs(log *zap.Logger, dir string, outs []*gen.Output) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return crdb.Wrapf(err, "create output directory %s", dir)
	}

	for _, out := range outs {
		files := []struct {
			name string
			data []byte
		}{
			{out.HeaderName, out.Header},
			{out.SourceName, out.Source},
		}
		for _, f := range files {
			path := filepath.Join(dir, f.name)
			if err := os.WriteFile(path, f.data, 0o644); err != nil {
				return crdb.Wrapf(err, "write %s", path)
			}
			log.Info("wrote file", zap.String("path", path), zap.Int("bytes", len(f.data)))
		}
	}
	return nil
}

func printOutputs(w io.Writer, outs []*gen.Output) error {
	for _, out := range outs {
		if _, err := fmt.Fprintf(w, "// %s\n%s\n// %s\n%s\n", out.HeaderName, out.Header, out.SourceName, out.Source); err != nil {
			return crdb.Wrap(err, "print output")
		}
	}
	return nil
}
