package parser

import (
	"go/types"

	"github.com/cmmoran/zodanno/internal/model"
)

// wellKnown maps fully qualified named types to scalar tags.
var wellKnown = map[string]string{
	"time.Time":                model.TypeDateTime,
	"time.Duration":            model.TypeInt,
	"encoding/json.RawMessage": model.TypeJSON,
	"encoding/json.Number":     model.TypeFloat,
	"math/big.Int":             model.TypeBigInt,
	"math/big.Float":           model.TypeDecimal,
	"math/big.Rat":             model.TypeDecimal,
	"database/sql.NullString":  model.TypeString,
	"database/sql.NullInt64":   model.TypeInt,
	"database/sql.NullBool":    model.TypeBoolean,
	"database/sql.NullFloat64": model.TypeFloat,
	"database/sql.NullTime":    model.TypeDateTime,
}

// nullable lists well-known types that marshal to null when unset.
var nullable = map[string]bool{
	"database/sql.NullString":  true,
	"database/sql.NullInt64":   true,
	"database/sql.NullBool":    true,
	"database/sql.NullFloat64": true,
	"database/sql.NullTime":    true,
}

// mapType converts a Go type into a field type tag. Pointers make a field
// optional; slices and arrays (other than byte slices) make it a list.
func (p *Parser) mapType(t types.Type) (typ string, list, optional bool) {
	switch tt := types.Unalias(t).(type) {
	case *types.Pointer:
		typ, list, _ = p.mapType(tt.Elem())
		return typ, list, true
	case *types.Slice:
		if isByte(tt.Elem()) {
			return model.TypeBytes, false, false
		}
		typ, _, _ = p.mapType(tt.Elem())
		return typ, true, false
	case *types.Array:
		if isByte(tt.Elem()) {
			return model.TypeBytes, false, false
		}
		typ, _, _ = p.mapType(tt.Elem())
		return typ, true, false
	case *types.Map, *types.Interface, *types.Struct:
		return model.TypeJSON, false, false
	case *types.Named:
		return p.mapNamed(tt)
	case *types.Basic:
		return basicTag(tt), false, false
	}
	return model.TypeJSON, false, false
}

func (p *Parser) mapNamed(n *types.Named) (string, bool, bool) {
	obj := n.Obj()
	full := obj.Name()
	if obj.Pkg() != nil {
		full = obj.Pkg().Path() + "." + obj.Name()
	}
	if tag, ok := wellKnown[full]; ok {
		return tag, false, nullable[full]
	}
	if _, ok := p.enumNames[obj.Name()]; ok {
		return obj.Name(), false, false
	}
	if _, ok := p.byName[obj.Name()]; ok {
		return obj.Name(), false, false
	}
	// custom marshalers decide their own wire shape
	ms := types.NewMethodSet(types.NewPointer(n))
	switch {
	case ms.Lookup(nil, "MarshalJSON") != nil:
		return model.TypeJSON, false, false
	case ms.Lookup(nil, "MarshalText") != nil:
		return model.TypeString, false, false
	}
	if _, ok := n.Underlying().(*types.Struct); ok {
		return obj.Name(), false, false
	}
	return p.mapType(n.Underlying())
}

func basicTag(b *types.Basic) string {
	switch b.Kind() {
	case types.String:
		return model.TypeString
	case types.Bool:
		return model.TypeBoolean
	case types.Int, types.Int8, types.Int16, types.Int32, types.Int64,
		types.Uint, types.Uint8, types.Uint16, types.Uint32, types.Uint64:
		return model.TypeInt
	case types.Float32, types.Float64:
		return model.TypeFloat
	}
	return model.TypeJSON
}

func isByte(t types.Type) bool {
	b, ok := types.Unalias(t).(*types.Basic)
	return ok && b.Kind() == types.Byte
}

func underlyingStruct(t types.Type) (*types.Struct, bool) {
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	st, ok := t.Underlying().(*types.Struct)
	return st, ok
}
