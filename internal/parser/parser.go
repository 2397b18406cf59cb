// Package parser loads Go packages and turns their struct declarations into
// model documents. Doc comments on types and fields become documentation, so
// annotations can be written directly on Go structs.
package parser

import (
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"log/slog"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/cmmoran/zodanno/internal/model"
)

// Config controls which declarations become models.
//
// Dir               – directory to load packages from
// Patterns          – package patterns relative to Dir (default ./...)
// ExcludeTypes      – names of structs to skip (case-insensitive)
// ExcludeByTags     – filters to skip fields
// ExcludeDeprecated – skip structs and fields whose comment mentions "Deprecated"
// FlattenEmbedded   – lift embedded struct fields into the parent
type Config struct {
	Dir               string
	Patterns          []string
	ExcludeTypes      []string
	ExcludeByTags     []TagFilter
	ExcludeDeprecated bool
	FlattenEmbedded   bool
	Logger            *slog.Logger
}

// Parser holds state/results of a load run.
type Parser struct {
	Cfg Config
	// Module is the module path of Dir, when it lives in a module.
	Module string

	log       *slog.Logger
	structs   []*rawStruct
	byName    map[string]*rawStruct
	enums     []*model.Enum
	enumNames map[string]*model.Enum
}

type rawStruct struct {
	name       string
	comment    string
	deprecated bool
	fields     []*rawField
}

type rawField struct {
	name     string
	typ      types.Type
	tag      reflect.StructTag
	comment  string
	embedded bool
}

func New(cfg Config) *Parser {
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{"./..."}
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Parser{
		Cfg:       cfg,
		log:       log,
		byName:    make(map[string]*rawStruct),
		enumNames: make(map[string]*model.Enum),
	}
}

// Parse loads the configured packages and builds the model document.
func (p *Parser) Parse() (*model.Document, error) {
	if mod, err := modulePath(p.Cfg.Dir); err == nil {
		p.Module = mod
	} else {
		p.log.With("dir", p.Cfg.Dir, "error", err).Debug("not inside a module")
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Dir:  p.Cfg.Dir,
		Fset: token.NewFileSet(),
	}, p.Cfg.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("load packages: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			p.collectEnums(pkg, file)
			p.collectStructs(pkg, file)
		}
	}
	doc := p.build()
	p.log.With("module", p.Module, "models", len(doc.Models), "enums", len(doc.Enums)).Debug("loaded go models")
	return doc, nil
}

// collectEnums records string constants of named string types, in
// declaration order, as enum values.
func (p *Parser) collectEnums(pkg *packages.Package, file *ast.File) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for _, id := range vs.Names {
				c, ok := pkg.TypesInfo.Defs[id].(*types.Const)
				if !ok || c.Val().Kind() != constant.String {
					continue
				}
				named, ok := types.Unalias(c.Type()).(*types.Named)
				if !ok || named.Obj().Pkg() != pkg.Types {
					continue
				}
				name := named.Obj().Name()
				e := p.enumNames[name]
				if e == nil {
					e = &model.Enum{Name: name}
					p.enumNames[name] = e
					p.enums = append(p.enums, e)
				}
				e.Values = append(e.Values, constant.StringVal(c.Val()))
			}
		}
	}
}

func (p *Parser) collectStructs(pkg *packages.Package, file *ast.File) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		genComment := commentText(gen.Doc)

		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.Assign.IsValid() || ts.TypeParams != nil {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || !ast.IsExported(ts.Name.Name) {
				continue
			}

			typeComment := genComment
			if docTxt := commentText(ts.Doc); docTxt != "" && docTxt != typeComment {
				if typeComment == "" {
					typeComment = docTxt
				} else {
					typeComment += "\n" + docTxt
				}
			}

			raw := &rawStruct{
				name:       ts.Name.Name,
				comment:    typeComment,
				deprecated: isDeprecated(typeComment),
			}
			for _, fld := range st.Fields.List {
				raw.fields = append(raw.fields, p.rawFields(pkg, fld)...)
			}
			if _, dup := p.byName[raw.name]; dup {
				p.log.With("type", raw.name).Warn("duplicate type name across packages, keeping the first")
				continue
			}
			p.byName[raw.name] = raw
			p.structs = append(p.structs, raw)
		}
	}
}

func (p *Parser) rawFields(pkg *packages.Package, f *ast.Field) []*rawField {
	comment := commentText(f.Doc)
	if trailing := commentText(f.Comment); trailing != "" {
		if comment == "" {
			comment = trailing
		} else {
			comment += "\n" + trailing
		}
	}
	if p.Cfg.ExcludeDeprecated && isDeprecated(comment) {
		return nil
	}
	var tag reflect.StructTag
	if f.Tag != nil {
		tag = reflect.StructTag(strings.Trim(f.Tag.Value, "`"))
	}
	if fieldOmitted(tag, p.Cfg.ExcludeByTags) {
		return nil
	}
	typ := pkg.TypesInfo.TypeOf(f.Type)
	if len(f.Names) == 0 {
		return []*rawField{{
			name:     embeddedFieldName(f.Type),
			typ:      typ,
			tag:      tag,
			comment:  comment,
			embedded: true,
		}}
	}
	out := make([]*rawField, 0, len(f.Names))
	for _, id := range f.Names {
		if !ast.IsExported(id.Name) {
			continue
		}
		out = append(out, &rawField{name: id.Name, typ: typ, tag: tag, comment: comment})
	}
	return out
}

func (p *Parser) build() *model.Document {
	doc := &model.Document{Enums: p.enums}
	for _, rs := range p.structs {
		if p.Cfg.ExcludeDeprecated && rs.deprecated {
			continue
		}
		doc.Models = append(doc.Models, &model.Model{
			Name:          rs.name,
			Documentation: rs.comment,
			Fields:        p.fields(rs, map[string]bool{rs.name: true}),
		})
	}
	doc.Exclude(p.Cfg.ExcludeTypes...)
	doc.Resolve()
	return doc
}

// fields resolves rs's fields, flattening embedded structs when configured.
// seen guards against embedding cycles.
func (p *Parser) fields(rs *rawStruct, seen map[string]bool) []*model.Field {
	var out []*model.Field
	for _, rf := range rs.fields {
		if rf.embedded && p.Cfg.FlattenEmbedded {
			if _, named := jsonName(rf.tag); !named {
				out = append(out, p.flatten(rf, seen)...)
				continue
			}
		}
		if f := p.field(rf.name, rf.tag, rf.typ, rf.comment); f != nil {
			out = append(out, f)
		}
	}
	return dedupe(out)
}

func (p *Parser) flatten(rf *rawField, seen map[string]bool) []*model.Field {
	if inner, ok := p.byName[rf.name]; ok {
		if seen[inner.name] {
			return nil
		}
		seen[inner.name] = true
		defer delete(seen, inner.name)
		return p.fields(inner, seen)
	}
	// embedded struct from a package that was not loaded; no docs available
	st, ok := underlyingStruct(rf.typ)
	if !ok {
		if f := p.field(rf.name, rf.tag, rf.typ, rf.comment); f != nil {
			return []*model.Field{f}
		}
		return nil
	}
	var out []*model.Field
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		if !v.Exported() {
			continue
		}
		tag := reflect.StructTag(st.Tag(i))
		if fieldOmitted(tag, p.Cfg.ExcludeByTags) {
			continue
		}
		if f := p.field(v.Name(), tag, v.Type(), ""); f != nil {
			out = append(out, f)
		}
	}
	return out
}

func (p *Parser) field(name string, tag reflect.StructTag, t types.Type, comment string) *model.Field {
	if tagSkipped(tag) {
		return nil
	}
	if n, ok := jsonName(tag); ok {
		name = n
	}
	typ, list, optional := p.mapType(t)
	return &model.Field{
		Name:          name,
		Type:          typ,
		IsRequired:    !optional && !jsonOmitEmpty(tag),
		IsList:        list,
		Documentation: comment,
	}
}

// dedupe keeps the outermost declaration of each field name.
func dedupe(fields []*model.Field) []*model.Field {
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		out = append(out, f)
	}
	return out
}

// helpers
func embeddedFieldName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.StarExpr:
		return embeddedFieldName(t.X)
	case *ast.IndexExpr:
		return embeddedFieldName(t.X)
	}
	return ""
}

func commentText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range cg.List {
		txt := strings.TrimSpace(strings.Trim(strings.TrimPrefix(strings.TrimPrefix(c.Text, "//"), "/*"), "*/"))
		b.WriteString(txt)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func isDeprecated(comment string) bool {
	return strings.Contains(comment, "Deprecated") || strings.Contains(comment, "deprecated")
}
