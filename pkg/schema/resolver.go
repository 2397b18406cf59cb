// Package schema turns model documents into zod schema modules: it picks a
// base schema per field, applies annotations concurrently and renders the
// results as TypeScript or as a Go manifest.
package schema

import (
	"github.com/cmmoran/zodanno/internal/model"
)

// DefaultSuffix is appended to model and enum names to form schema names.
const DefaultSuffix = "Schema"

// BaseResolver picks the unannotated schema for a field.
type BaseResolver interface {
	BaseType(f *model.Field) string
}

// Resolver is the default BaseResolver. Enum fields refer to the enum's
// schema, model fields to a lazily evaluated model schema.
type Resolver struct {
	Doc    *model.Document
	Suffix string
}

func NewResolver(doc *model.Document, suffix string) *Resolver {
	return &Resolver{Doc: doc, Suffix: suffix}
}

// SchemaName returns the exported constant name for a model or enum.
func (r *Resolver) SchemaName(name string) string {
	if r.Suffix == "" {
		return name + DefaultSuffix
	}
	return name + r.Suffix
}

func (r *Resolver) BaseType(f *model.Field) string {
	s := r.core(f)
	if f.IsList {
		s += ".array()"
	}
	if !f.IsRequired {
		s += ".nullish()"
	}
	return s
}

func (r *Resolver) core(f *model.Field) string {
	kind := f.Kind
	if kind == "" && r.Doc != nil {
		switch {
		case r.Doc.FindEnum(f.Type) != nil:
			kind = model.KindEnum
		case r.Doc.FindModel(f.Type) != nil:
			kind = model.KindObject
		}
	}
	switch kind {
	case model.KindEnum:
		return r.SchemaName(f.Type)
	case model.KindObject:
		return "z.lazy(() => " + r.SchemaName(f.Type) + ")"
	}
	switch f.Type {
	case model.TypeString:
		return "z.string()"
	case model.TypeInt:
		return "z.number().int()"
	case model.TypeBigInt:
		return "z.bigint()"
	case model.TypeFloat, model.TypeDecimal:
		return "z.number()"
	case model.TypeBoolean:
		return "z.boolean()"
	case model.TypeDateTime:
		return "z.coerce.date()"
	case model.TypeJSON:
		return "z.unknown()"
	case model.TypeBytes:
		return "z.instanceof(Uint8Array)"
	}
	return "z.unknown()"
}
