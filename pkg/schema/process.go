package schema

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/zodanno/internal/model"
	"github.com/cmmoran/zodanno/pkg/annotation"
)

// FieldResult is the generated schema of one field.
type FieldResult struct {
	Name     string
	Schema   string
	Imports  []annotation.CustomImport
	Errors   []error
	Warnings []string
}

// ModelResult is the generated schema of one model.
type ModelResult struct {
	Name    string
	Chain   string // model-level validators appended to the object schema
	Fields  []FieldResult
	Imports []annotation.CustomImport
	Errors  []error
}

// Expression renders the model as a z.object(...) expression. With an empty
// indent it is printed on one line.
func (m ModelResult) Expression(indent string) string {
	var b strings.Builder
	b.WriteString("z.object({")
	n := 0
	for _, f := range m.Fields {
		if f.Name == "" {
			continue
		}
		if indent == "" {
			if n > 0 {
				b.WriteString(",")
			}
			b.WriteString(" ")
		} else {
			b.WriteString("\n")
			b.WriteString(indent)
		}
		b.WriteString(annotation.PropertyKey(f.Name))
		b.WriteString(": ")
		b.WriteString(f.Schema)
		if indent != "" {
			b.WriteString(",")
		}
		n++
	}
	switch {
	case n > 0 && indent == "":
		b.WriteString(" ")
	case n > 0:
		b.WriteString("\n")
	}
	b.WriteString("})")
	b.WriteString(m.Chain)
	return b.String()
}

// Result is the outcome of processing a whole document.
type Result struct {
	Dialect annotation.Dialect
	Enums   []*model.Enum
	Models  []ModelResult
	// Imports holds every custom import once, in document order.
	Imports []annotation.CustomImport
}

// Errors collects every model and field error in document order.
func (r *Result) Errors() []error {
	var out []error
	for _, m := range r.Models {
		out = append(out, m.Errors...)
		for _, f := range m.Fields {
			out = append(out, f.Errors...)
		}
	}
	return out
}

// Warnings collects every field warning in document order.
func (r *Result) Warnings() []string {
	var out []string
	for _, m := range r.Models {
		for _, f := range m.Fields {
			out = append(out, f.Warnings...)
		}
	}
	return out
}

// Config configures a Processor.
type Config struct {
	Resolver   BaseResolver
	Dialect    annotation.Dialect
	Workers    int // defaults to GOMAXPROCS
	Logger     *slog.Logger
	Annotation []annotation.Option
}

// Processor applies annotations to every field of a document.
type Processor struct {
	parser   *annotation.Parser
	gen      *annotation.Generator
	resolver BaseResolver
	dialect  annotation.Dialect
	workers  int
	log      *slog.Logger
}

func NewProcessor(cfg Config) *Processor {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	opts := append([]annotation.Option{annotation.WithLogger(log)}, cfg.Annotation...)
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	d := cfg.Dialect
	if d == "" {
		d = annotation.DialectAuto
	}
	return &Processor{
		parser:   annotation.New(opts...),
		gen:      annotation.NewGenerator(opts...),
		resolver: cfg.Resolver,
		dialect:  d,
		workers:  workers,
		log:      log,
	}
}

// Process generates schemas for every model in doc. Fields are handled
// concurrently; the result order follows the document. Per-field problems
// are reported in the result, only cancellation fails the call.
func (p *Processor) Process(ctx context.Context, doc *model.Document) (*Result, error) {
	resolver := p.resolver
	if resolver == nil {
		resolver = NewResolver(doc, "")
	}
	res := &Result{
		Dialect: p.gen.ResolveDialect(p.dialect),
		Enums:   doc.Enums,
		Models:  make([]ModelResult, len(doc.Models)),
	}
	p.log.With("dialect", string(res.Dialect), "models", len(doc.Models)).Debug("processing document")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, m := range doc.Models {
		res.Models[i] = ModelResult{Name: m.Name, Fields: make([]FieldResult, len(m.Fields))}
		mr := &res.Models[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mr.Chain, mr.Imports, mr.Errors = p.model(m)
			return nil
		})
		for j, f := range m.Fields {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				mr.Fields[j] = p.field(m, j, f, resolver, res.Dialect)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process models: %w", err)
	}

	set := annotation.NewImportSet()
	for _, m := range res.Models {
		set.Add(m.Imports...)
		for _, f := range m.Fields {
			set.Add(f.Imports...)
		}
	}
	res.Imports = set.Imports()
	return res, nil
}

func (p *Processor) model(m *model.Model) (string, []annotation.CustomImport, []error) {
	ctx := annotation.ModelContextOf(m)
	ec := p.parser.ExtractComment(ctx)
	if !ec.HasAnnotations {
		return "", nil, ec.ExtractionErrors
	}
	ir := p.parser.ParseCustomImports(ec.NormalizedComment, ctx)
	errs := append(ec.ExtractionErrors, ir.ParseErrors...)
	// only import directives and their validators apply to models
	segs, _ := p.parser.Segment(ec.NormalizedComment)
	for _, s := range segs {
		errs = append(errs, &annotation.AnnotationError{
			Class:    annotation.ClassValidation,
			Model:    m.Name,
			Method:   s.Method,
			Position: s.Position,
			Msg:      fmt.Sprintf("%s is ignored on a model comment", s.Method),
			Err:      annotation.ErrNotOnModel,
		})
	}
	var chain string
	if ir.CustomSchema != nil {
		chain = ir.CustomSchema.Chain
	}
	return chain, ir.Imports, errs
}

func (p *Processor) field(m *model.Model, idx int, f *model.Field, resolver BaseResolver, d annotation.Dialect) FieldResult {
	if f == nil {
		return FieldResult{Errors: []error{&annotation.AnnotationError{
			Class:    annotation.ClassExtraction,
			Model:    m.Name,
			Position: -1,
			Msg:      fmt.Sprintf("field %d is nil", idx),
		}}}
	}
	log := p.log.With("model", m.Name, "field", f.Name)
	ctx := annotation.FieldContextOf(m, f)
	base := resolver.BaseType(f)
	fr := FieldResult{Name: f.Name, Schema: base}

	ec := p.parser.ExtractComment(ctx)
	fr.Errors = append(fr.Errors, ec.ExtractionErrors...)
	if !ec.HasAnnotations {
		log.Debug("no annotations, using base schema")
		return fr
	}

	ir := p.parser.ParseCustomImports(ec.NormalizedComment, ctx)
	fr.Imports = ir.Imports
	fr.Errors = append(fr.Errors, ir.ParseErrors...)

	pr := p.parser.ParseAnnotations(ec.NormalizedComment, ctx)
	fr.Errors = append(fr.Errors, pr.ParseErrors...)
	anns := pr.Annotations
	if cs := ir.CustomSchema; cs != nil && cs.Method == "custom.use" {
		anns = append([]annotation.ParsedAnnotation{{
			Method:     cs.Method,
			Parameters: []annotation.Value{annotation.RawExpression(cs.Expression)},
			RawParams:  cs.Expression,
			RawMatch:   cs.Chain,
			Position:   -1,
		}}, anns...)
	}

	gr := p.gen.GenerateSchema(base, anns, ctx, d)
	fr.Schema = gr.SchemaText
	fr.Errors = append(fr.Errors, gr.Errors...)
	fr.Warnings = gr.Warnings
	if len(fr.Errors) > 0 {
		log.With("errors", len(fr.Errors)).Warn("field annotations reported errors")
	}
	log.With("schema", fr.Schema).Debug("generated field schema")
	return fr
}
