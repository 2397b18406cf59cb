package annotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/zodanno/internal/model"
)

func TestGenerateSchema(ttt *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		base      string
		fieldType string
		comment   string
		dialect   Dialect
		want      string
		valid     bool
		warnings  int
	}{
		{name: "no annotations", base: "z.string()", fieldType: model.TypeString, comment: "plain", dialect: DialectLegacy, want: "z.string()", valid: true},
		{name: "min max", base: "z.number().int()", fieldType: model.TypeInt, comment: "@zod.min(1).max(100)", dialect: DialectLegacy, want: "z.number().int().min(1).max(100)", valid: true},
		{name: "email modern", base: "z.string()", fieldType: model.TypeString, comment: "@zod.email()", dialect: DialectModern, want: "z.email()", valid: true},
		{name: "email legacy keeps base", base: "z.string()", fieldType: model.TypeString, comment: "@zod.email()", dialect: DialectLegacy, want: "z.string()", valid: true, warnings: 1},
		{name: "replacement keeps list and optional", base: "z.string().array().nullish()", fieldType: model.TypeString, comment: "@zod.uuid().min(3)", dialect: DialectModern, want: "z.uuid().array().min(3).nullish()", valid: true},
		{name: "format message", base: "z.string()", fieldType: model.TypeString, comment: "@zod.email('bad mail')", dialect: DialectModern, want: "z.email('bad mail')", valid: true},
		{name: "regex", base: "z.string()", fieldType: model.TypeString, comment: `@zod.regex(/^[a-z]+$/i, 'lowercase')`, dialect: DialectLegacy, want: "z.string().regex(/^[a-z]+$/i, 'lowercase')", valid: true},
		{name: "nonempty legacy", base: "z.string()", fieldType: model.TypeString, comment: "@zod.nonempty('required')", dialect: DialectLegacy, want: "z.string().nonempty('required')", valid: true},
		{name: "nonempty modern", base: "z.string()", fieldType: model.TypeString, comment: "@zod.nonempty('required')", dialect: DialectModern, want: "z.string().min(1, 'required')", valid: true},
		{name: "datetime legacy", base: "z.string()", fieldType: model.TypeString, comment: "@zod.iso.datetime()", dialect: DialectLegacy, want: "z.string().datetime()", valid: true},
		{name: "datetime modern", base: "z.string()", fieldType: model.TypeString, comment: "@zod.iso.datetime({ offset: true })", dialect: DialectModern, want: "z.iso.datetime({ offset: true })", valid: true},
		{name: "bigint literal", base: "z.bigint()", fieldType: model.TypeBigInt, comment: "@zod.min(10).max(20, 'too big')", dialect: DialectLegacy, want: "z.bigint().min(10n).max(20n, 'too big')", valid: true},
		{name: "enum", base: "z.string()", fieldType: model.TypeString, comment: "@zod.enum(['a', 'b'])", dialect: DialectLegacy, want: "z.enum(['a', 'b'])", valid: true},
		{name: "custom inferred", base: "z.unknown()", fieldType: model.TypeJSON, comment: `@zod.custom({"id": 1, "tags": ["x"]})`, dialect: DialectLegacy, want: "z.object({ id: z.number(), tags: z.array(z.string()) })", valid: true},
		{name: "custom use verbatim", base: "z.string()", fieldType: model.TypeString, comment: "@zod.custom.use(z.string().uuid())", dialect: DialectLegacy, want: "z.string().uuid()", valid: true},
		{name: "json modern", base: "z.unknown()", fieldType: model.TypeJSON, comment: "@zod.json()", dialect: DialectModern, want: "z.json()", valid: true},
		{name: "redundant optional dropped", base: "z.string().nullish()", fieldType: model.TypeString, comment: "@zod.trim().optional()", dialect: DialectLegacy, want: "z.string().trim().nullish()", valid: true},
		{name: "list element string methods", base: "z.string().array()", fieldType: model.TypeString, comment: "@zod.trim().regex(/^a/)", dialect: DialectLegacy, want: "z.string().trim().regex(/^a/).array()", valid: true},
		{name: "list element and list methods", base: "z.string().array().nullish()", fieldType: model.TypeString, comment: "@zod.toLowerCase().min(1).startsWith('a').max(5)", dialect: DialectModern, want: "z.string().toLowerCase().startsWith('a').array().min(1).max(5).nullish()", valid: true},
		{name: "list element number methods", base: "z.number().int().array()", fieldType: model.TypeInt, comment: "@zod.positive().max(10)", dialect: DialectLegacy, want: "z.number().int().positive().array().max(10)", valid: true},
		{name: "scalar keeps source order", base: "z.string()", fieldType: model.TypeString, comment: "@zod.min(1).trim()", dialect: DialectLegacy, want: "z.string().min(1).trim()", valid: true},
		{name: "default value", base: "z.boolean()", fieldType: model.TypeBoolean, comment: "@zod.default(false)", dialect: DialectLegacy, want: "z.boolean().default(false)", valid: true},
		{name: "multiple replacements", base: "z.string()", fieldType: model.TypeString, comment: "@zod.email().url()", dialect: DialectModern, want: "z.string()", valid: false},
		{name: "unknown rejected", opts: []Option{WithUnknownPolicy(UnknownReject)}, base: "z.string()", fieldType: model.TypeString, comment: "@zod.min(1).bogus(2)", dialect: DialectLegacy, want: "z.string().min(1)", valid: true},
		{
			name:      "unknown passthrough by default",
			base:      "z.string()",
			fieldType: model.TypeString,
			comment:   "@zod.min(1).bogus(2)",
			dialect:   DialectLegacy,
			want:      "z.string().min(1).bogus(2)",
			valid:     true,
			warnings:  1,
		},
		{
			name:      "auto uses detector",
			opts:      []Option{WithDetector(DetectorFunc(func() (Dialect, error) { return DialectModern, nil }))},
			base:      "z.string()",
			fieldType: model.TypeString,
			comment:   "@zod.email()",
			dialect:   DialectAuto,
			want:      "z.email()",
			valid:     true,
		},
		{
			name:      "auto falls back to legacy",
			opts:      []Option{WithDetector(DetectorFunc(func() (Dialect, error) { return "", errors.New("no package.json") }))},
			base:      "z.string()",
			fieldType: model.TypeString,
			comment:   "@zod.email()",
			dialect:   DialectAuto,
			want:      "z.string()",
			valid:     true,
			warnings:  1,
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := fieldCtx(tt.fieldType)
			p := New(tt.opts...)
			parsed := p.ParseAnnotations(Normalize(tt.comment), ctx)
			res := NewGenerator(tt.opts...).GenerateSchema(tt.base, parsed.Annotations, ctx, tt.dialect)
			require.Equal(t, tt.want, res.SchemaText)
			require.Equal(t, tt.valid, res.IsValid, "errors: %v", res.Errors)
			require.Len(t, res.Warnings, tt.warnings, "warnings: %v", res.Warnings)
			require.NotEqual(t, DialectAuto, res.Dialect)
		})
	}
}

func TestGenerateSchemaMultipleReplacementsError(t *testing.T) {
	ctx := fieldCtx(model.TypeString)
	parsed := New().ParseAnnotations("@zod.email().url()", ctx)
	res := NewGenerator().GenerateSchema("z.string()", parsed.Annotations, ctx, DialectModern)
	require.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	require.True(t, errors.Is(res.Errors[0], ErrMultipleReplacements))
	require.Contains(t, res.Errors[0].Error(), "multiple replacement methods detected")
	require.Empty(t, res.Imports)
}

func TestGenerateSchemaImports(t *testing.T) {
	ctx := fieldCtx(model.TypeString)
	parsed := New().ParseAnnotations("@zod.min(1).max(3).trim()", ctx)
	res := NewGenerator().GenerateSchema("z.string()", parsed.Annotations, ctx, DialectLegacy)
	require.Equal(t, []string{ZodImport}, res.Imports)
	require.Equal(t, DialectLegacy, res.Dialect)
}

func TestInferSchema(ttt *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{name: "null", in: Null(), want: "z.null()"},
		{name: "bool", in: Bool(true), want: "z.boolean()"},
		{name: "number", in: Float(1.5), want: "z.number()"},
		{name: "string", in: Str("x"), want: "z.string()"},
		{name: "empty array", in: Array(), want: "z.array(z.unknown())"},
		{name: "empty object", in: Object(), want: "z.object({})"},
		{name: "expression", in: RawExpression("z.string().email()"), want: "z.string().email()"},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, InferSchema(tt.in))
		})
	}
}
