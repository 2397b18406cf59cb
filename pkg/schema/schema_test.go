package schema

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/zodanno/internal/model"
	"github.com/cmmoran/zodanno/pkg/annotation"
)

func blogDoc() *model.Document {
	doc := &model.Document{
		Enums: []*model.Enum{{Name: "Role", Values: []string{"ADMIN", "USER"}}},
		Models: []*model.Model{
			{
				Name:          "User",
				Documentation: `@zod.import(["import { checkUser } from './checks'"]).refine(checkUser)`,
				Fields: []*model.Field{
					{Name: "id", Type: model.TypeInt, IsRequired: true},
					{Name: "email", Type: model.TypeString, IsRequired: true, Documentation: "Login address.\n@zod.email()"},
					{Name: "role", Type: "Role", IsRequired: true},
					{Name: "nickname", Type: model.TypeString, Documentation: "@zod.min(2)"},
					{Name: "slug", Type: model.TypeString, IsRequired: true, Documentation: `@zod.import(["import { slug } from './slug'"]).custom.use(slug)`},
					{Name: "posts", Type: "Post", IsRequired: true, IsList: true},
				},
			},
			{
				Name: "Post",
				Fields: []*model.Field{
					{Name: "title", Type: model.TypeString, IsRequired: true, Documentation: "@zod.min(1).max(200)"},
					{Name: "created-at", Type: model.TypeDateTime, IsRequired: true},
				},
			},
		},
	}
	doc.Resolve()
	return doc
}

func schemasOf(res *Result) map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, m := range res.Models {
		fields := make(map[string]string)
		for _, f := range m.Fields {
			fields[f.Name] = f.Schema
		}
		out[m.Name] = fields
	}
	return out
}

func TestResolverBaseType(ttt *testing.T) {
	doc := blogDoc()
	tests := []struct {
		name  string
		field model.Field
		want  string
	}{
		{name: "string", field: model.Field{Type: model.TypeString, IsRequired: true}, want: "z.string()"},
		{name: "int", field: model.Field{Type: model.TypeInt, IsRequired: true}, want: "z.number().int()"},
		{name: "bigint", field: model.Field{Type: model.TypeBigInt, IsRequired: true}, want: "z.bigint()"},
		{name: "decimal", field: model.Field{Type: model.TypeDecimal, IsRequired: true}, want: "z.number()"},
		{name: "datetime", field: model.Field{Type: model.TypeDateTime, IsRequired: true}, want: "z.coerce.date()"},
		{name: "bytes", field: model.Field{Type: model.TypeBytes, IsRequired: true}, want: "z.instanceof(Uint8Array)"},
		{name: "json", field: model.Field{Type: model.TypeJSON, IsRequired: true}, want: "z.unknown()"},
		{name: "unknown scalar", field: model.Field{Type: "Money", Kind: model.KindScalar, IsRequired: true}, want: "z.unknown()"},
		{name: "optional list", field: model.Field{Type: model.TypeBoolean, IsList: true}, want: "z.boolean().array().nullish()"},
		{name: "enum", field: model.Field{Type: "Role", Kind: model.KindEnum, IsRequired: true}, want: "RoleSchema"},
		{name: "object", field: model.Field{Type: "Post", Kind: model.KindObject, IsRequired: true}, want: "z.lazy(() => PostSchema)"},
		{name: "unresolved enum", field: model.Field{Type: "Role", IsRequired: true}, want: "RoleSchema"},
	}
	r := NewResolver(doc, "")
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := tt.field
			require.Equal(t, tt.want, r.BaseType(&f))
		})
	}

	custom := NewResolver(doc, "Validator")
	require.Equal(ttt, "z.lazy(() => PostValidator)", custom.BaseType(&model.Field{Type: "Post", Kind: model.KindObject, IsRequired: true}))
}

func TestProcess(t *testing.T) {
	p := NewProcessor(Config{Dialect: annotation.DialectModern, Workers: 2})
	res, err := p.Process(context.Background(), blogDoc())
	require.NoError(t, err)
	require.Equal(t, annotation.DialectModern, res.Dialect)
	require.Empty(t, res.Errors())

	want := map[string]map[string]string{
		"User": {
			"id":       "z.number().int()",
			"email":    "z.email()",
			"role":     "RoleSchema",
			"nickname": "z.string().min(2).nullish()",
			"slug":     "slug",
			"posts":    "z.lazy(() => PostSchema).array()",
		},
		"Post": {
			"title":      "z.string().min(1).max(200)",
			"created-at": "z.coerce.date()",
		},
	}
	if diff := cmp.Diff(want, schemasOf(res)); diff != "" {
		t.Fatalf("schemas mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, ".refine(checkUser)", res.Models[0].Chain)

	var sources []string
	for _, ci := range res.Imports {
		sources = append(sources, ci.Source)
	}
	require.Equal(t, []string{"./checks", "./slug"}, sources)
}

func TestProcessLegacy(t *testing.T) {
	p := NewProcessor(Config{Dialect: annotation.DialectLegacy})
	res, err := p.Process(context.Background(), blogDoc())
	require.NoError(t, err)
	require.Equal(t, "z.string()", res.Models[0].Fields[1].Schema)
	require.Len(t, res.Warnings(), 1)
}

func TestProcessDetector(t *testing.T) {
	p := NewProcessor(Config{
		Annotation: []annotation.Option{annotation.WithDetector(annotation.DetectorFunc(func() (annotation.Dialect, error) {
			return annotation.DialectModern, nil
		}))},
	})
	res, err := p.Process(context.Background(), blogDoc())
	require.NoError(t, err)
	require.Equal(t, annotation.DialectModern, res.Dialect)
	require.Equal(t, "z.email()", res.Models[0].Fields[1].Schema)
}

func TestProcessErrors(t *testing.T) {
	doc := &model.Document{Models: []*model.Model{{
		Name:          "Account",
		Documentation: `@zod.import(["import { x } from './x'"]).custom.use(x)`,
		Fields: []*model.Field{
			{Name: "code", Type: model.TypeString, IsRequired: true, Documentation: "@zod.min(1).bogus(2)"},
			nil,
			{Name: "uid", Type: model.TypeString, IsRequired: true, Documentation: "@zod.uuid().email()"},
		},
	}}}
	doc.Resolve()
	res, err := NewProcessor(Config{
		Dialect:    annotation.DialectModern,
		Annotation: []annotation.Option{annotation.WithUnknownPolicy(annotation.UnknownReject)},
	}).Process(context.Background(), doc)
	require.NoError(t, err)

	m := res.Models[0]
	require.Len(t, m.Errors, 1)
	require.ErrorContains(t, m.Errors[0], "custom.use is only valid on fields")
	require.Empty(t, m.Chain)

	require.Equal(t, "z.string().min(1)", m.Fields[0].Schema)
	require.ErrorIs(t, m.Fields[0].Errors[0], annotation.ErrUnknownMethod)
	require.Empty(t, m.Fields[1].Name)
	require.ErrorContains(t, m.Fields[1].Errors[0], "field 1 is nil")
	require.Equal(t, "z.string()", m.Fields[2].Schema)
	require.ErrorIs(t, m.Fields[2].Errors[0], annotation.ErrMultipleReplacements)

	require.Equal(t, "z.object({ code: z.string().min(1), uid: z.string() })", m.Expression(""))
	require.Len(t, res.Errors(), 4)
}

func TestProcessImportChain(t *testing.T) {
	doc := &model.Document{Models: []*model.Model{{
		Name:          "Page",
		Documentation: `@zod.import(["import { checkPage } from './checks'"]).refine(checkPage).min(1)`,
		Fields: []*model.Field{
			{Name: "slug", Type: model.TypeString, IsRequired: true, Documentation: `@zod.import(["import { slug } from './slug'"]).custom.use(slug).min(3)`},
			{Name: "note", Type: model.TypeString, IsRequired: true, Documentation: "@zod.trim().shout()"},
		},
	}}}
	doc.Resolve()
	res, err := NewProcessor(Config{Dialect: annotation.DialectLegacy}).Process(context.Background(), doc)
	require.NoError(t, err)

	m := res.Models[0]
	require.Equal(t, ".refine(checkPage)", m.Chain)
	require.Len(t, m.Errors, 1)
	require.ErrorIs(t, m.Errors[0], annotation.ErrNotOnModel)

	require.Equal(t, "slug.min(3)", m.Fields[0].Schema)
	require.Empty(t, m.Fields[0].Errors)

	require.Equal(t, "z.string().trim().shout()", m.Fields[1].Schema)
	require.Empty(t, m.Fields[1].Errors)
	require.Len(t, m.Fields[1].Warnings, 1)
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProcessor(Config{}).Process(ctx, blogDoc())
	require.ErrorIs(t, err, context.Canceled)
}
