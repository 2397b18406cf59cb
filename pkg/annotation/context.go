package annotation

import "github.com/cmmoran/zodanno/internal/model"

// FieldContext identifies the field (or model, when FieldName is empty) whose
// comment is being processed.
type FieldContext struct {
	ModelName  string
	FieldName  string
	FieldType  string
	Comment    string
	IsOptional bool
	IsList     bool
}

// IsModel reports whether the context describes a model rather than a field.
func (c FieldContext) IsModel() bool { return c.FieldName == "" }

func (c FieldContext) logArgs() []any {
	if c.IsModel() {
		return []any{"model", c.ModelName}
	}
	return []any{"model", c.ModelName, "field", c.FieldName, "type", c.FieldType}
}

// FieldContextOf builds the context for a model field.
func FieldContextOf(m *model.Model, f *model.Field) FieldContext {
	return FieldContext{
		ModelName:  m.Name,
		FieldName:  f.Name,
		FieldType:  f.Type,
		Comment:    f.Documentation,
		IsOptional: !f.IsRequired,
		IsList:     f.IsList,
	}
}

// ModelContextOf builds the context for a model-level comment.
func ModelContextOf(m *model.Model) FieldContext {
	return FieldContext{ModelName: m.Name, Comment: m.Documentation}
}
