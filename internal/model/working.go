package model

import "strings"

// Document is the full input to a generation run: every model and enum the
// source produced, in source order.
type Document struct {
	Models []*Model `json:"models" yaml:"models"`
	Enums  []*Enum  `json:"enums,omitempty" yaml:"enums,omitempty"`
}

func (d *Document) FindModel(name string) *Model {
	for _, m := range d.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (d *Document) FindEnum(name string) *Enum {
	for _, e := range d.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Resolve fills in field kinds that the source left blank. Scalars are
// recognised by tag, enums and models by name; anything else stays scalar so
// the resolver falls back to a reference.
func (d *Document) Resolve() {
	for _, m := range d.Models {
		for _, f := range m.Fields {
			if f == nil || f.Kind != "" {
				continue
			}
			switch {
			case IsScalar(f.Type):
				f.Kind = KindScalar
			case d.FindEnum(f.Type) != nil:
				f.Kind = KindEnum
			case d.FindModel(f.Type) != nil:
				f.Kind = KindObject
			default:
				f.Kind = KindScalar
			}
		}
	}
}

// Exclude drops models whose name matches any of names (case-insensitive).
// Fields that referenced a dropped model lose their kind so that Resolve
// treats them as unknown scalars.
func (d *Document) Exclude(names ...string) {
	if len(names) == 0 {
		return
	}
	out := d.Models[:0]
	for _, m := range d.Models {
		skip := false
		for _, n := range names {
			if strings.EqualFold(strings.TrimSpace(n), m.Name) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, m)
		}
	}
	d.Models = out
	for _, m := range d.Models {
		for _, f := range m.Fields {
			if f != nil && f.Kind == KindObject && d.FindModel(f.Type) == nil {
				f.Kind = ""
			}
		}
	}
}
