package generate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/zodanno/pkg/parser"
	"github.com/cmmoran/zodanno/pkg/schema"
)

// Output is a rendered run, before or after it was written.
type Output struct {
	Path   string
	Module []byte
	// GoPath and GoModule are set when a Go manifest was requested.
	GoPath   string
	GoModule []byte
	Result   *schema.Result
}

// Render parses the input and renders every output in memory.
func Render(ctx context.Context, o *parser.Options) (*Output, error) {
	par, err := parser.NewWithOpts(o)
	if err != nil {
		return nil, err
	}
	if err = par.Parse(ctx); err != nil {
		return nil, err
	}
	module, err := par.GenerateFile()
	if err != nil {
		return nil, fmt.Errorf("render module: %w", err)
	}
	out := &Output{Path: par.Opts.OutputPath(), Module: module, Result: par.Results()}
	if par.Opts.GoPackage == "" {
		return out, nil
	}
	f, err := par.GenerateGoFile(module)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render go manifest: %w", err)
	}
	out.GoPath, out.GoModule = par.Opts.GoOutputPath(), buf.Bytes()
	return out, nil
}

// Generate renders and writes the outputs.
func Generate(ctx context.Context, o *parser.Options) (*Output, error) {
	out, err := Render(ctx, o)
	if err != nil {
		return nil, err
	}
	if err = writeFile(out.Path, out.Module); err != nil {
		return nil, err
	}
	if out.GoPath != "" {
		if err = writeFile(out.GoPath, out.GoModule); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// line keeps cmp from diffing individual lines character by character.
type line string

// Diff reports a line diff of two renderings, empty when they are equal.
func Diff(prev, next []byte) string {
	return cmp.Diff(lines(prev), lines(next))
}

func lines(b []byte) []line {
	parts := strings.Split(string(b), "\n")
	out := make([]line, len(parts))
	for i, p := range parts {
		out[i] = line(p)
	}
	return out
}
