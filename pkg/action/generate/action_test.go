package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/zodanno/pkg/parser"
)

const doc = `models:
  - name: Item
    fields:
      - name: sku
        type: String
        isRequired: true
        documentation: "@zod.length(8)"
`

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "models.yaml")
	require.NoError(t, os.WriteFile(input, []byte(doc), 0o644))

	o := parser.NewOptions()
	o.Input = input
	o.OutDir = filepath.Join(dir, "out")
	o.Dialect = "legacy"
	o.GoPackage = "schemas"

	out, err := Generate(context.Background(), o)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "out", "schemas.ts"), out.Path)

	written, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	require.Equal(t, out.Module, written)
	require.Contains(t, string(written), "sku: z.string().length(8),")

	goFile, err := os.ReadFile(filepath.Join(dir, "out", "schemas_gen.go"))
	require.NoError(t, err)
	require.Contains(t, string(goFile), "package schemas")
	require.Contains(t, string(goFile), `const Dialect = "legacy"`)
}

func TestGenerateErrors(t *testing.T) {
	o := parser.NewOptions()
	o.Input = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Generate(context.Background(), o)
	require.Error(t, err)

	o = parser.NewOptions()
	o.Dialect = "v9"
	_, err = Render(context.Background(), o)
	require.ErrorContains(t, err, "unknown dialect")
}

func TestDiff(ttt *testing.T) {
	prev := []byte("import { z } from 'zod';\n\nexport const ItemSchema = z.object({\n  sku: z.string().length(8).describe('stock keeping unit'),\n});\n")
	next := []byte("import { z } from 'zod';\n\nexport const ItemSchema = z.object({\n  sku: z.string().length(12).describe('stock keeping unit'),\n});\n")
	tests := []struct {
		name    string
		prev    []byte
		next    []byte
		want    []string
		wantNil bool
	}{
		{name: "equal", prev: prev, next: prev, wantNil: true},
		{
			name: "whole lines",
			prev: prev,
			next: next,
			want: []string{
				"sku: z.string().length(8).describe('stock keeping unit'),",
				"sku: z.string().length(12).describe('stock keeping unit'),",
			},
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := Diff(tt.prev, tt.next)
			if tt.wantNil {
				require.Empty(t, d)
				return
			}
			for _, w := range tt.want {
				require.Contains(t, d, w)
			}
		})
	}
}
