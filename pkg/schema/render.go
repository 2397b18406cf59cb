package schema

import (
	"bytes"
	"io"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/cmmoran/zodanno/pkg/annotation"
)

// GeneratedHeader opens every rendered file.
const GeneratedHeader = "Code generated by zodanno. DO NOT EDIT."

// Renderer prints a Result as a TypeScript module.
type Renderer struct {
	Suffix string
	// Source is mentioned in the file header when set.
	Source string
	// PluralExports adds `export const UsersSchema = z.array(UserSchema);`.
	PluralExports bool
	// TypeExports adds `export type User = z.infer<typeof UserSchema>;`.
	TypeExports bool
}

func (r *Renderer) name(s string) string {
	if r.Suffix == "" {
		return s + DefaultSuffix
	}
	return s + r.Suffix
}

// pluralize returns the plural of s, or "" when it has none.
func pluralize(s string) string {
	if inflection.Singular(s) != s {
		return ""
	}
	if p := inflection.Plural(s); p != s {
		return p
	}
	return ""
}

// Render writes the module for res to w.
func (r *Renderer) Render(w io.Writer, res *Result) error {
	var blocks []string

	head := "// " + GeneratedHeader
	if r.Source != "" {
		head += "\n// Source: " + r.Source
	}
	blocks = append(blocks, head)

	imports := []string{annotation.ZodImport + ";"}
	for _, ci := range res.Imports {
		stmt := strings.TrimSuffix(strings.TrimSpace(ci.ImportStatement), ";")
		if stmt == annotation.ZodImport {
			continue
		}
		imports = append(imports, stmt+";")
	}
	blocks = append(blocks, strings.Join(imports, "\n"))

	for _, e := range res.Enums {
		blocks = append(blocks, r.enumBlock(e.Name, e.Values))
	}
	for _, m := range res.Models {
		blocks = append(blocks, r.modelBlock(m))
	}

	_, err := io.WriteString(w, strings.Join(blocks, "\n\n")+"\n")
	return err
}

// Bytes renders res into memory.
func (r *Renderer) Bytes(res *Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) enumBlock(name string, values []string) string {
	items := make([]annotation.Value, 0, len(values))
	for _, v := range values {
		items = append(items, annotation.Str(v))
	}
	lines := []string{"export const " + r.name(name) + " = z.enum(" + annotation.Array(items...).String() + ");"}
	if r.TypeExports {
		lines = append(lines, "export type "+name+" = z.infer<typeof "+r.name(name)+">;")
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) modelBlock(m ModelResult) string {
	lines := []string{"export const " + r.name(m.Name) + " = " + m.Expression("  ") + ";"}
	if r.TypeExports {
		lines = append(lines, "export type "+m.Name+" = z.infer<typeof "+r.name(m.Name)+">;")
	}
	if r.PluralExports {
		if plural := pluralize(m.Name); plural != "" {
			lines = append(lines, "export const "+r.name(plural)+" = z.array("+r.name(m.Name)+");")
		}
	}
	return strings.Join(lines, "\n")
}

// Schemas maps every enum and model name to its one-line schema expression.
func (r *Renderer) Schemas(res *Result) map[string]string {
	out := make(map[string]string, len(res.Enums)+len(res.Models))
	for _, e := range res.Enums {
		items := make([]annotation.Value, 0, len(e.Values))
		for _, v := range e.Values {
			items = append(items, annotation.Str(v))
		}
		out[e.Name] = "z.enum(" + annotation.Array(items...).String() + ")"
	}
	for _, m := range res.Models {
		out[m.Name] = m.Expression("")
	}
	return out
}
