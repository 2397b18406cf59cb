package annotation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cmmoran/zodanno/internal/model"
)

// Generator renders validated annotations onto a field's base type. It is
// pure apart from logging and the optional dialect detector.
type Generator struct {
	config
}

func NewGenerator(opts ...Option) *Generator {
	return &Generator{config: newConfig(opts)}
}

// GenerateResult is the outcome of GenerateSchema. When IsValid is false
// SchemaText is the unmodified base type.
type GenerateResult struct {
	SchemaText string
	Imports    []string
	Errors     []error
	Warnings   []string
	Dialect    Dialect
	IsValid    bool
}

var optionalSuffixes = []string{".optional()", ".nullable()", ".nullish()"}

// bigintMethods take bigint literals on BigInt fields.
var bigintMethods = map[string]bool{
	"min": true, "max": true, "gt": true, "gte": true, "lt": true, "lte": true, "multipleOf": true,
}

// baseParts splits "z.string().array().optional()" into its core schema,
// list suffix and optionality suffix.
func baseParts(base string) (core, list, opt string) {
	core = strings.TrimSpace(base)
	for {
		trimmed := false
		for _, suf := range optionalSuffixes {
			if strings.HasSuffix(core, suf) {
				core = strings.TrimSuffix(core, suf)
				opt = suf + opt
				trimmed = true
			}
		}
		if !trimmed {
			break
		}
	}
	if strings.HasSuffix(core, ".array()") {
		core = strings.TrimSuffix(core, ".array()")
		list = ".array()"
	}
	return core, list, opt
}

// redundant reports whether a chained modifier is already implied by opt.
func redundant(fragment, opt string) bool {
	switch fragment {
	case ".optional()":
		return strings.Contains(opt, ".optional()") || strings.Contains(opt, ".nullish()")
	case ".nullable()":
		return strings.Contains(opt, ".nullable()") || strings.Contains(opt, ".nullish()")
	case ".nullish()":
		return strings.Contains(opt, ".nullish()")
	}
	return false
}

// GenerateSchema applies anns to base in source order. Chained methods are
// appended; at most one base-replacement method may substitute the base.
// On list fields, element methods (trim, regex, positive, ...) chain onto the
// item schema ahead of .array() and the rest chain onto the list.
// Methods the dialect lacks are skipped with a warning.
func (g *Generator) GenerateSchema(base string, anns []ParsedAnnotation, ctx FieldContext, d Dialect) GenerateResult {
	d = g.resolveDialect(d)
	res := GenerateResult{SchemaText: base, Dialect: d, IsValid: true}
	if len(anns) == 0 {
		return res
	}
	log := g.logger.With(ctx.logArgs()...).With("dialect", string(d))

	core, list, opt := baseParts(base)
	var (
		replacement string
		replacedBy  string
		elemChains  strings.Builder
		chains      strings.Builder
		emitted     int
		imports     = newOrderedSet()
	)
	for _, a := range anns {
		cfg, err := g.ValidateAnnotation(a, ctx)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		if cfg == nil {
			frag := "." + a.Method + "(" + strings.TrimSpace(a.RawParams) + ")"
			res.Warnings = append(res.Warnings, fmt.Sprintf("unknown method %s passed through as %s", a.Method, frag))
			log.With("method", a.Method).Warn("unknown method passed through")
			chains.WriteString(frag)
			imports.add(ZodImport)
			emitted++
			continue
		}
		out := cfg.Output(d)
		switch out.Kind {
		case Unsupported:
			msg := fmt.Sprintf("method %s is not supported in the %s dialect; keeping the base type", a.Method, d)
			res.Warnings = append(res.Warnings, msg)
			log.With("method", a.Method).Warn("method unsupported in dialect")
			continue
		case Chain:
			frag := "." + out.Name + "(" + joinArgs(out.Args, formatArgs(a.Parameters, ctx.FieldType == model.TypeBigInt && bigintMethods[a.Method])) + ")"
			if redundant(frag, opt) {
				log.With("method", a.Method).Debug("dropping modifier already implied by base type")
				continue
			}
			if cfg.Element && list != "" {
				elemChains.WriteString(frag)
			} else {
				chains.WriteString(frag)
			}
		case Replacement:
			if replacement != "" {
				res.Errors = append(res.Errors, newError(ClassValidation, ctx, a.Method, a.Position, ErrMultipleReplacements,
					"multiple replacement methods detected: %s and %s", replacedBy, a.Method))
				continue
			}
			replacement = replacementText(cfg, out, a)
			replacedBy = a.Method
		}
		imports.add(cfg.Import)
		emitted++
	}

	for _, err := range res.Errors {
		if errors.Is(err, ErrMultipleReplacements) {
			res.IsValid = false
			res.Imports = nil
			log.With("error", err).Warn("conflicting replacement methods, using default schema")
			return res
		}
	}
	if emitted == 0 {
		res.IsValid = len(res.Errors) == 0
		return res
	}
	head := core
	if replacement != "" {
		head = replacement
	}
	res.SchemaText = head + elemChains.String() + list + chains.String() + opt
	res.Imports = imports.items
	return res
}

func joinArgs(lead, args string) string {
	switch {
	case lead == "":
		return args
	case args == "":
		return lead
	}
	return lead + ", " + args
}

func replacementText(cfg *MethodConfig, out Output, a ParsedAnnotation) string {
	switch cfg.Method {
	case "custom.use":
		return strings.TrimSpace(a.RawParams)
	case "custom":
		return InferSchema(a.Parameters[0])
	}
	return out.Name + "(" + joinArgs(out.Args, formatArgs(a.Parameters, false)) + ")"
}

// InferSchema builds a schema whose shape matches a literal value.
// Passthrough expressions are assumed to already be schemas.
func InferSchema(v Value) string {
	switch v.Kind {
	case KindNull:
		return "z.null()"
	case KindUndefined:
		return "z.undefined()"
	case KindBool:
		return "z.boolean()"
	case KindInt, KindFloat:
		return "z.number()"
	case KindString:
		return "z.string()"
	case KindRegex:
		return "z.string().regex(" + formatValue(v) + ")"
	case KindArray:
		if len(v.Items) == 0 {
			return "z.array(z.unknown())"
		}
		return "z.array(" + InferSchema(v.Items[0]) + ")"
	case KindObject:
		var b strings.Builder
		b.WriteString("z.object({")
		for i, m := range v.Members {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(" ")
			b.WriteString(PropertyKey(m.Key))
			b.WriteString(": ")
			b.WriteString(InferSchema(m.Value))
		}
		if len(v.Members) > 0 {
			b.WriteString(" ")
		}
		b.WriteString("})")
		return b.String()
	}
	return v.Str
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet { return &orderedSet{seen: make(map[string]bool)} }

func (s *orderedSet) add(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}
