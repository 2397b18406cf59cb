package annotation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorClass groups annotation failures by pipeline stage.
type ErrorClass int

const (
	ClassExtraction ErrorClass = iota
	ClassStructural
	ClassParse
	ClassValidation
)

func (c ErrorClass) String() string {
	switch c {
	case ClassExtraction:
		return "extraction"
	case ClassStructural:
		return "structural"
	case ClassParse:
		return "parse"
	case ClassValidation:
		return "validation"
	}
	return "unknown"
}

var (
	ErrUnbalanced           = errors.New("unbalanced parentheses")
	ErrUnknownMethod        = errors.New("unknown method")
	ErrMultipleReplacements = errors.New("multiple replacement methods detected")
	ErrUnsupportedDialect   = errors.New("method not supported in dialect")
	ErrNotOnModel           = errors.New("method not applied to models")
)

// AnnotationError carries the model/field context of a single failure.
// Position is a byte offset into the normalized comment, or -1.
type AnnotationError struct {
	Class    ErrorClass
	Model    string
	Field    string
	Method   string
	Position int
	Msg      string
	Err      error
}

func (e *AnnotationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Class.String())
	b.WriteString(" error")
	if e.Model != "" {
		b.WriteString(" in ")
		b.WriteString(e.Model)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
	}
	if e.Method != "" {
		fmt.Fprintf(&b, " (method %s)", e.Method)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil && !strings.Contains(e.Msg, e.Err.Error()) {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *AnnotationError) Unwrap() error { return e.Err }

func newError(class ErrorClass, ctx FieldContext, method string, pos int, err error, format string, args ...any) *AnnotationError {
	return &AnnotationError{
		Class:    class,
		Model:    ctx.ModelName,
		Field:    ctx.FieldName,
		Method:   method,
		Position: pos,
		Msg:      fmt.Sprintf(format, args...),
		Err:      err,
	}
}

// withContext stamps ctx onto annotation errors produced without one.
func withContext(errs []error, ctx FieldContext) []error {
	for _, err := range errs {
		var ae *AnnotationError
		if errors.As(err, &ae) && ae.Model == "" {
			ae.Model = ctx.ModelName
			ae.Field = ctx.FieldName
		}
	}
	return errs
}
