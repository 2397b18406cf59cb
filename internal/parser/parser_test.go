package parser

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/zodanno/internal/model"
)

const fixtureDir = "testdata/models"

func TestParse(t *testing.T) {
	p := New(Config{
		Dir:               fixtureDir,
		FlattenEmbedded:   true,
		ExcludeDeprecated: true,
		ExcludeByTags:     []TagFilter{{Key: "zod", Value: "skip"}},
	})
	doc, err := p.Parse()
	require.NoError(t, err)
	require.Equal(t, "example.com/models", p.Module)

	var names []string
	for _, m := range doc.Models {
		names = append(names, m.Name)
	}
	require.Equal(t, []string{"Audit", "User", "Post"}, names)
	require.Equal(t, []*model.Enum{{Name: "Role", Values: []string{"ADMIN", "USER"}}}, doc.Enums)

	user := doc.FindModel("User")
	require.Equal(t, "User is a registered account.\n@zod.import([\"import { checkUser } from './checks'\"]).refine(checkUser)", user.Documentation)
	want := []*model.Field{
		{Name: "createdAt", Type: model.TypeDateTime, Kind: model.KindScalar, IsRequired: true, Documentation: "@zod.describe('creation time')"},
		{Name: "updatedAt", Type: model.TypeDateTime, Kind: model.KindScalar},
		{Name: "id", Type: model.TypeInt, Kind: model.KindScalar, IsRequired: true},
		{Name: "email", Type: model.TypeString, Kind: model.KindScalar, IsRequired: true, Documentation: "Login address.\n@zod.email()"},
		{Name: "role", Type: "Role", Kind: model.KindEnum, IsRequired: true},
		{Name: "tags", Type: model.TypeString, Kind: model.KindScalar, IsList: true},
		{Name: "avatar", Type: model.TypeBytes, Kind: model.KindScalar, IsRequired: true},
		{Name: "meta", Type: model.TypeJSON, Kind: model.KindScalar, IsRequired: true},
		{Name: "posts", Type: "Post", Kind: model.KindObject, IsRequired: true, IsList: true},
	}
	if diff := cmp.Diff(want, user.Fields); diff != "" {
		t.Fatalf("User fields mismatch (-want +got):\n%s", diff)
	}

	post := doc.FindModel("Post")
	require.Len(t, post.Fields, 2)
	require.Equal(t, "title", post.Fields[0].Name)
	require.Equal(t, "@zod.min(1).max(200)", post.Fields[0].Documentation)
	require.Equal(t, "Score", post.Fields[1].Name)
	require.Equal(t, model.TypeFloat, post.Fields[1].Type)
}

func TestParseWithoutFlattening(t *testing.T) {
	doc, err := New(Config{Dir: fixtureDir, ExcludeTypes: []string{"post", "LEGACY"}}).Parse()
	require.NoError(t, err)
	require.Nil(t, doc.FindModel("Post"))
	require.Nil(t, doc.FindModel("Legacy"))

	user := doc.FindModel("User")
	require.Equal(t, "Audit", user.Fields[0].Name)
	require.Equal(t, model.KindObject, user.Fields[0].Kind)

	var names []string
	for _, f := range user.Fields {
		names = append(names, f.Name)
	}
	require.Contains(t, names, "internal")
	require.NotContains(t, names, "Password")
	require.NotContains(t, names, "secret")
}

func TestTagHelpers(t *testing.T) {
	tag := reflect.StructTag(`json:"name,omitempty" gorm:"column:name;-"`)
	name, ok := jsonName(tag)
	require.True(t, ok)
	require.Equal(t, "name", name)
	require.True(t, jsonOmitEmpty(tag))
	require.True(t, fieldOmitted(tag, []TagFilter{{Key: "gorm", Value: "-"}}))
	require.False(t, fieldOmitted(tag, []TagFilter{{Key: "db", Value: "-"}}))
	require.True(t, tagSkipped(reflect.StructTag(`json:"-"`)))

	f, ok := ParseTagFilter(`gorm:"-"`)
	require.True(t, ok)
	require.Equal(t, TagFilter{Key: "gorm", Value: "-"}, f)
	_, ok = ParseTagFilter("nocolon")
	require.False(t, ok)
}
