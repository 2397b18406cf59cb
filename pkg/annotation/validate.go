package annotation

import (
	"fmt"

	"github.com/cmmoran/zodanno/internal/model"
)

// UnknownPolicy decides what happens to methods absent from the rule table.
type UnknownPolicy int

const (
	// UnknownPassthrough keeps the call verbatim and logs a warning.
	UnknownPassthrough UnknownPolicy = iota
	// UnknownReject drops the annotation and reports an error.
	UnknownReject
)

// ParseUnknownPolicy accepts "passthrough" (the default) and "reject".
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch s {
	case "", "passthrough", "allow":
		return UnknownPassthrough, nil
	case "reject", "strict":
		return UnknownReject, nil
	}
	return UnknownPassthrough, fmt.Errorf("unknown method policy %q (want reject or passthrough)", s)
}

// ValidateAnnotation checks one annotation against the rule table. It
// returns the resolved row, or nil with a nil error for a tolerated unknown
// method.
func (c *config) ValidateAnnotation(a ParsedAnnotation, ctx FieldContext) (*MethodConfig, error) {
	cfg, exact, ok := c.rules.Resolve(a.Method, ctx.FieldType)
	if !ok {
		if c.unknown == UnknownPassthrough {
			return nil, nil
		}
		return nil, newError(ClassValidation, ctx, a.Method, a.Position, ErrUnknownMethod,
			"unknown method %q", a.Method)
	}
	if !exact && model.IsScalar(ctx.FieldType) {
		return nil, newError(ClassValidation, ctx, a.Method, a.Position, nil,
			"method %q is not compatible with field type %s", a.Method, ctx.FieldType)
	}
	if err := checkArity(cfg, a.Parameters); err != nil {
		return nil, newError(ClassValidation, ctx, a.Method, a.Position, err, "%s", err.Error())
	}
	if cfg.Check != nil && len(a.Parameters) > 0 {
		if err := cfg.Check(a.Parameters, ctx.FieldType); err != nil {
			return nil, newError(ClassValidation, ctx, a.Method, a.Position, err, "invalid parameters for %s", a.Method)
		}
	}
	return cfg, nil
}

func checkArity(cfg *MethodConfig, params []Value) error {
	n := len(params)
	switch cfg.Params {
	case ParamsNone:
		if n != 0 {
			return fmt.Errorf("%s takes no parameters, got %d", cfg.Method, n)
		}
	case ParamsRequired:
		if n == 0 {
			return fmt.Errorf("%s requires a parameter", cfg.Method)
		}
	case ParamsOptional:
		if n > 1 {
			return fmt.Errorf("%s takes at most one parameter, got %d", cfg.Method, n)
		}
	case ParamsMessage:
		if n > 1 {
			return fmt.Errorf("%s takes at most one parameter, got %d", cfg.Method, n)
		}
		if n == 1 && params[0].Kind != KindString {
			return fmt.Errorf("%s accepts only a string message, got %s", cfg.Method, params[0].Kind)
		}
	}
	if cfg.MaxParams > 0 && n > cfg.MaxParams {
		return fmt.Errorf("%s takes at most %d parameters, got %d", cfg.Method, cfg.MaxParams, n)
	}
	return nil
}

// validateChain keeps the valid annotations of one field. When none are
// valid the returned slice is empty and the caller falls back to the default
// schema.
func (c *config) validateChain(anns []ParsedAnnotation, ctx FieldContext) ([]ParsedAnnotation, []error) {
	var (
		valid []ParsedAnnotation
		errs  []error
	)
	for _, a := range anns {
		cfg, err := c.ValidateAnnotation(a, ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if cfg == nil {
			a.Unknown = true
			c.logger.With(ctx.logArgs()...).With("method", a.Method).Warn("passing through unknown method")
		}
		valid = append(valid, a)
	}
	if len(errs) > 0 && len(valid) > 0 {
		for _, err := range errs {
			c.logger.With(ctx.logArgs()...).With("error", err).Warn("dropping invalid annotation")
		}
	}
	return valid, errs
}
