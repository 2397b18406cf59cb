// Package parser is the entry point for generating zod schemas: it loads a
// model document or Go package, runs the annotation pipeline over every
// field and renders the result.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/zodanno/internal/model"
	gosrc "github.com/cmmoran/zodanno/internal/parser"
	"github.com/cmmoran/zodanno/internal/source"
	"github.com/cmmoran/zodanno/pkg/annotation"
	"github.com/cmmoran/zodanno/pkg/schema"
)

var ErrNotParsed = errors.New("parse has not run")

// Parser holds the options and the results of one run.
type Parser struct {
	Opts   *Options
	Logger *slog.Logger

	doc    *model.Document
	result *schema.Result
}

func New(opts ...Option) (*Parser, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}
	return NewWithOpts(o)
}

func NewWithOpts(o *Options) (*Parser, error) {
	if o == nil {
		o = NewOptions()
	}
	if err := o.Normalize(); err != nil {
		return nil, err
	}
	return &Parser{Opts: o, Logger: slog.Default()}, nil
}

// Parse loads the input and generates every field schema.
func (p *Parser) Parse(ctx context.Context) error {
	doc, err := p.load()
	if err != nil {
		return err
	}
	p.doc = doc

	policy, err := annotation.ParseUnknownPolicy(p.Opts.UnknownMethods)
	if err != nil {
		return err
	}
	proc := schema.NewProcessor(schema.Config{
		Resolver: schema.NewResolver(doc, p.Opts.Suffix),
		Dialect:  annotation.Dialect(p.Opts.Dialect),
		Workers:  p.Opts.Workers,
		Logger:   p.Logger,
		Annotation: []annotation.Option{
			annotation.WithPrefix(p.Opts.Prefix),
			annotation.WithUnknownPolicy(policy),
			annotation.WithDetector(schema.PackageJSONDetector{Dir: p.Opts.OutDir}),
		},
	})
	res, err := proc.Process(ctx, doc)
	if err != nil {
		return err
	}
	p.result = res

	p.Logger.With(
		"input", p.Opts.Input,
		"dialect", string(res.Dialect),
		"models", len(res.Models),
		"enums", len(res.Enums),
		"errors", len(res.Errors()),
	).Info("generated schemas")
	return nil
}

func (p *Parser) load() (*model.Document, error) {
	st, err := os.Stat(p.Opts.Input)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	if st.IsDir() {
		gp := gosrc.New(gosrc.Config{
			Dir:               p.Opts.Input,
			ExcludeTypes:      p.Opts.ExcludeTypes,
			ExcludeByTags:     p.Opts.ExcludeByTags,
			ExcludeDeprecated: p.Opts.ExcludeDeprecated,
			FlattenEmbedded:   p.Opts.FlattenEmbedded,
			Logger:            p.Logger,
		})
		doc, err := gp.Parse()
		if err != nil {
			return nil, fmt.Errorf("load go package: %w", err)
		}
		return doc, nil
	}
	doc, err := source.LoadFile(p.Opts.Input)
	if err != nil {
		return nil, err
	}
	doc.Exclude(p.Opts.ExcludeTypes...)
	doc.Resolve()
	return doc, nil
}

// Document returns the loaded models.
func (p *Parser) Document() *model.Document { return p.doc }

// Results returns the generated schemas, nil before Parse.
func (p *Parser) Results() *schema.Result { return p.result }

func (p *Parser) renderer() *schema.Renderer {
	return &schema.Renderer{
		Suffix:        p.Opts.Suffix,
		Source:        p.Opts.Input,
		PluralExports: p.Opts.PluralExports,
		TypeExports:   p.Opts.TypeExports,
	}
}

// GenerateFile renders the TypeScript module.
func (p *Parser) GenerateFile() ([]byte, error) {
	if p.result == nil {
		return nil, ErrNotParsed
	}
	return p.renderer().Bytes(p.result)
}

// GenerateGoFile renders the Go manifest embedding module.
func (p *Parser) GenerateGoFile(module []byte) (*jen.File, error) {
	if p.result == nil {
		return nil, ErrNotParsed
	}
	if p.Opts.GoPackage == "" {
		return nil, errors.New("no go package configured")
	}
	return p.renderer().GoFile(p.Opts.GoPackage, p.result, module), nil
}
