package check

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cmmoran/zodanno/pkg/action/generate"
	"github.com/cmmoran/zodanno/pkg/parser"
)

var ErrStale = errors.New("generated schemas are out of date")

// Check renders in memory and compares against the files on disk. It returns
// the combined diff and ErrStale when anything differs.
func Check(ctx context.Context, o *parser.Options) (string, error) {
	out, err := generate.Render(ctx, o)
	if err != nil {
		return "", err
	}
	diff, err := compare(out.Path, out.Module)
	if err != nil {
		return "", err
	}
	if out.GoPath != "" {
		goDiff, err := compare(out.GoPath, out.GoModule)
		if err != nil {
			return "", err
		}
		diff += goDiff
	}
	if diff != "" {
		return diff, ErrStale
	}
	return "", nil
}

func compare(path string, want []byte) (string, error) {
	got, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Sprintf("%s: missing\n", path), nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if d := generate.Diff(got, want); d != "" {
		return fmt.Sprintf("%s (-on disk +generated):\n%s", path, d), nil
	}
	return "", nil
}
