// Package source loads model documents from YAML or JSON files.
package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/zodanno/internal/model"
)

// Format of a model document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported model document %q (want .yaml, .yml or .json)", path)
}

// LoadFile reads a model document from path.
func LoadFile(path string) (*model.Document, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model document: %w", err)
	}
	doc, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode parses data, checks it and fills in field kinds.
func Decode(data []byte, f Format) (*model.Document, error) {
	var doc model.Document
	switch f {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("unmarshal yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("unmarshal json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	if err := Check(&doc); err != nil {
		return nil, err
	}
	doc.Resolve()
	return &doc, nil
}

// Check rejects documents with unnamed or duplicate models and fields.
func Check(doc *model.Document) error {
	models := make(map[string]bool, len(doc.Models))
	for i, m := range doc.Models {
		if m == nil || m.Name == "" {
			return fmt.Errorf("model %d has no name", i)
		}
		if models[m.Name] {
			return fmt.Errorf("duplicate model %s", m.Name)
		}
		models[m.Name] = true
		fields := make(map[string]bool, len(m.Fields))
		for j, f := range m.Fields {
			if f == nil {
				continue
			}
			if f.Name == "" || f.Type == "" {
				return fmt.Errorf("model %s: field %d needs a name and a type", m.Name, j)
			}
			if fields[f.Name] {
				return fmt.Errorf("model %s: duplicate field %s", m.Name, f.Name)
			}
			fields[f.Name] = true
		}
	}
	for i, e := range doc.Enums {
		if e == nil || e.Name == "" {
			return fmt.Errorf("enum %d has no name", i)
		}
		if len(e.Values) == 0 {
			return fmt.Errorf("enum %s has no values", e.Name)
		}
	}
	return nil
}
