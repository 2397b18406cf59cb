// Package annotation parses validation directives embedded in model and field
// documentation and turns them into zod method chains.
//
// A directive looks like
//
//	@zod.min(1).max(100)
//	@zod.regex(/^[a-z]+$/i, 'lowercase only')
//	@zod.import(["import { isSlug } from '../validators'"]).custom.use(isSlug)
//
// Comments are normalized, checked for balanced parentheses, segmented into
// calls, their parameters parsed into Values, validated against a method
// table and finally rendered by a Generator.
package annotation

import (
	"errors"
	"log/slog"
	"regexp"
	"slices"
)

// DefaultPrefix introduces every directive.
const DefaultPrefix = "@zod"

type config struct {
	prefix    string
	directive *regexp.Regexp
	importDir *regexp.Regexp
	rules     *Rules
	unknown   UnknownPolicy
	detector  DialectDetector
	logger    *slog.Logger
}

// Option configures a Parser or Generator.
type Option func(*config)

func WithPrefix(prefix string) Option          { return func(c *config) { c.prefix = prefix } }
func WithRules(r *Rules) Option                { return func(c *config) { c.rules = r } }
func WithUnknownPolicy(u UnknownPolicy) Option { return func(c *config) { c.unknown = u } }
func WithDetector(d DialectDetector) Option    { return func(c *config) { c.detector = d } }
func WithLogger(l *slog.Logger) Option         { return func(c *config) { c.logger = l } }

func newConfig(opts []Option) config {
	c := config{prefix: DefaultPrefix}
	for _, fn := range opts {
		fn(&c)
	}
	if c.prefix == "" {
		c.prefix = DefaultPrefix
	}
	if c.rules == nil {
		c.rules = DefaultRules()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.directive = directivePattern(c.prefix)
	c.importDir = regexp.MustCompile(regexp.QuoteMeta(c.prefix) + `\.import\s*\(`)
	return c
}

// Parser runs the extraction, segmentation, parameter and validation stages.
// It holds no per-call state and is safe for concurrent use.
type Parser struct {
	config
}

func New(opts ...Option) *Parser {
	return &Parser{config: newConfig(opts)}
}

// Prefix returns the directive prefix in use.
func (p *Parser) Prefix() string { return p.prefix }

// ParsedAnnotation is one validated method call.
type ParsedAnnotation struct {
	Method     string
	Parameters []Value
	RawParams  string
	RawMatch   string
	Position   int
	Unknown    bool // tolerated method missing from the rule table
}

// ParseResult is the outcome of ParseAnnotations. IsValid is false only when
// directives were present and none of them survived.
type ParseResult struct {
	Annotations []ParsedAnnotation
	ParseErrors []error
	IsValid     bool
}

// ParseAnnotations extracts, parses and validates every directive in a
// normalized comment. Structural problems are reported but do not stop a
// best-effort parse; a failing annotation is dropped without affecting the
// others.
func (p *Parser) ParseAnnotations(normalized string, ctx FieldContext) ParseResult {
	res := ParseResult{IsValid: true}
	if !p.hasDirective(normalized) {
		return res
	}
	segs, errs, skipped := p.segment(normalized)
	structural := CheckBalance(mask(normalized, skipped))
	if len(structural) > 0 {
		// the balance check already covers unmatched calls
		errs = slices.DeleteFunc(errs, func(err error) bool { return errors.Is(err, ErrUnbalanced) })
	}
	res.ParseErrors = append(res.ParseErrors, withContext(structural, ctx)...)
	res.ParseErrors = append(res.ParseErrors, withContext(errs, ctx)...)

	parsed := make([]ParsedAnnotation, 0, len(segs))
	for _, seg := range segs {
		params, err := ParseParameters(seg.RawParams)
		if err != nil {
			res.ParseErrors = append(res.ParseErrors,
				newError(ClassParse, ctx, seg.Method, seg.Position, err, "cannot parse parameters of %s", seg.Method))
			continue
		}
		parsed = append(parsed, ParsedAnnotation{
			Method:     seg.Method,
			Parameters: params,
			RawParams:  seg.RawParams,
			RawMatch:   seg.RawMatch,
			Position:   seg.Position,
		})
	}

	valid, verrs := p.validateChain(parsed, ctx)
	res.Annotations = valid
	res.ParseErrors = append(res.ParseErrors, verrs...)
	if len(valid) == 0 && len(res.ParseErrors) > 0 {
		res.IsValid = false
		p.logger.With(ctx.logArgs()...).With("errors", len(res.ParseErrors)).
			Warn("no valid annotations, using default schema")
	}
	return res
}

// mask blanks the given byte ranges so import directives, which
// ParseCustomImports checks, do not count toward the balance check.
func mask(s string, ranges [][2]int) string {
	if len(ranges) == 0 {
		return s
	}
	b := []byte(s)
	for _, r := range ranges {
		for i := r[0]; i < r[1] && i < len(b); i++ {
			b[i] = ' '
		}
	}
	return string(b)
}
