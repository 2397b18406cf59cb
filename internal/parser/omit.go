package parser

import (
	"reflect"
	"strings"
)

// TagFilter excludes a field when the struct tag matches Key and contains Value.
type TagFilter struct {
	Key   string `json:"key" yaml:"key" toml:"key" mapstructure:"key"`
	Value string `json:"value" yaml:"value" toml:"value" mapstructure:"value"`
}

// ParseTagFilter reads "key:value", e.g. `gorm:-` or `zod:skip`.
func ParseTagFilter(s string) (TagFilter, bool) {
	k, v, ok := strings.Cut(s, ":")
	k, v = strings.TrimSpace(k), strings.Trim(strings.TrimSpace(v), `"`)
	if !ok || k == "" || v == "" {
		return TagFilter{}, false
	}
	return TagFilter{Key: k, Value: v}, true
}

// fieldOmitted reports whether a field should be left out of its model
// based on configured tag filters.
func fieldOmitted(tag reflect.StructTag, filters []TagFilter) bool {
	if tag == "" {
		return false
	}
	for _, f := range filters {
		v, ok := tag.Lookup(f.Key)
		if !ok {
			continue
		}
		if containsTagPart(v, f.Value) {
			return true
		}
	}
	return false
}

// tagSkipped reports whether the field never reaches the wire: json:"-".
func tagSkipped(tag reflect.StructTag) bool {
	return tag.Get("json") == "-"
}

// jsonName returns the wire name from the json tag, if one is set.
func jsonName(tag reflect.StructTag) (string, bool) {
	v, ok := tag.Lookup("json")
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(v, ",")
	if name == "" || name == "-" {
		return "", false
	}
	return name, true
}

func jsonOmitEmpty(tag reflect.StructTag) bool {
	v, ok := tag.Lookup("json")
	if !ok {
		return false
	}
	_, opts, _ := strings.Cut(v, ",")
	return containsTagPart(opts, "omitempty") || containsTagPart(opts, "omitzero")
}

// containsTagPart splits a tag value on common delimiters and reports whether
// any fragment matches the expected value.
func containsTagPart(tagVal, expected string) bool {
	if tagVal == "" {
		return false
	}

	for _, part := range strings.FieldsFunc(tagVal, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		if part == expected {
			return true
		}
	}

	return false
}
