package annotation

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/cmmoran/zodanno/internal/model"
)

// ZodImport is the import every generated fragment depends on.
const ZodImport = "import { z } from 'zod'"

// ParamRule is the parameter arity class of a method.
type ParamRule int

const (
	ParamsNone     ParamRule = iota // exactly zero
	ParamsRequired                  // at least one
	ParamsOptional                  // zero or one
	ParamsMessage                   // zero or one, and it must be a string
)

// FragmentKind says how a method's output combines with the base type.
type FragmentKind int

const (
	Unsupported FragmentKind = iota
	Chain
	Replacement
)

// Output is the spelling of a method in one dialect.
type Output struct {
	Kind FragmentKind
	Name string // chained method name, or the full replacement callee (z.email)
	Args string // arguments emitted before the user's own
}

// MethodConfig is one row of the method table.
type MethodConfig struct {
	Method     string
	Params     ParamRule
	MaxParams  int      // 0 means unbounded
	FieldTypes []string // nil means any field type
	Import     string
	Legacy     Output
	Modern     Output
	// Element chains apply to each item of a list field rather than the list.
	Element bool
	// Check applies type-specific parameter rules on top of Params.
	Check func(params []Value, fieldType string) error
}

// Output returns the spelling for d, which must be concrete.
func (c *MethodConfig) Output(d Dialect) Output {
	if d == DialectModern {
		return c.Modern
	}
	return c.Legacy
}

// Compatible reports whether the row applies to fieldType.
func (c *MethodConfig) Compatible(fieldType string) bool {
	return c.FieldTypes == nil || slices.Contains(c.FieldTypes, fieldType)
}

// Rules is the method table keyed by method name; rows for one method are
// distinguished by field type.
type Rules struct {
	byMethod map[string][]*MethodConfig
}

func NewRules(rows ...*MethodConfig) *Rules {
	r := &Rules{byMethod: make(map[string][]*MethodConfig)}
	for _, row := range rows {
		r.Add(row)
	}
	return r
}

// Add registers a row; rows added later for the same method and field type
// take precedence.
func (r *Rules) Add(row *MethodConfig) {
	if row.Import == "" {
		row.Import = ZodImport
	}
	r.byMethod[row.Method] = append([]*MethodConfig{row}, r.byMethod[row.Method]...)
}

// Resolve finds the row for method on fieldType. When no row is compatible
// it falls back to any row with the method name and exact is false.
func (r *Rules) Resolve(method, fieldType string) (cfg *MethodConfig, exact bool, ok bool) {
	rows := r.byMethod[method]
	if len(rows) == 0 {
		return nil, false, false
	}
	if fieldType != "" {
		for _, row := range rows {
			if row.Compatible(fieldType) {
				return row, true, true
			}
		}
	}
	return rows[0], false, true
}

// Methods lists the registered method names.
func (r *Rules) Methods() []string {
	out := make([]string, 0, len(r.byMethod))
	for m := range r.byMethod {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

var (
	numericTypes = []string{model.TypeInt, model.TypeBigInt, model.TypeFloat, model.TypeDecimal}
	stringTypes  = []string{model.TypeString}
)

func chain(name string) Output { return Output{Kind: Chain, Name: name} }
func replace(name string) Output { return Output{Kind: Replacement, Name: name} }

func element(r *MethodConfig) *MethodConfig {
	r.Element = true
	return r
}

// both spells a method the same way in either dialect.
func both(o Output) (Output, Output) { return o, o }

func row(method string, params ParamRule, maxParams int, types []string, legacy, modern Output, check func([]Value, string) error) *MethodConfig {
	return &MethodConfig{
		Method:     method,
		Params:     params,
		MaxParams:  maxParams,
		FieldTypes: types,
		Legacy:     legacy,
		Modern:     modern,
		Check:      check,
	}
}

// DefaultRules returns the built-in method table.
func DefaultRules() *Rules {
	rows := make([]*MethodConfig, 0, 64)
	add := func(r *MethodConfig) { rows = append(rows, r) }

	lc, mc := both(chain("min"))
	add(row("min", ParamsRequired, 2, stringTypes, lc, mc, checkLength))
	add(row("min", ParamsRequired, 2, numericTypes, lc, mc, checkNumber))
	add(row("min", ParamsRequired, 2, []string{model.TypeDateTime}, lc, mc, checkAnyThenMessage))
	lc, mc = both(chain("max"))
	add(row("max", ParamsRequired, 2, stringTypes, lc, mc, checkLength))
	add(row("max", ParamsRequired, 2, numericTypes, lc, mc, checkNumber))
	add(row("max", ParamsRequired, 2, []string{model.TypeDateTime}, lc, mc, checkAnyThenMessage))
	lc, mc = both(chain("length"))
	add(row("length", ParamsRequired, 2, stringTypes, lc, mc, checkLength))
	lc, mc = both(chain("regex"))
	add(element(row("regex", ParamsRequired, 2, stringTypes, lc, mc, checkRegex)))
	for _, m := range []string{"includes", "startsWith", "endsWith"} {
		lc, mc = both(chain(m))
		add(element(row(m, ParamsRequired, 2, stringTypes, lc, mc, checkStringThenAny)))
	}
	for _, m := range []string{"trim", "toLowerCase", "toUpperCase"} {
		lc, mc = both(chain(m))
		add(element(row(m, ParamsNone, 0, stringTypes, lc, mc, nil)))
	}
	add(row("nonempty", ParamsMessage, 1, stringTypes, chain("nonempty"), Output{Kind: Chain, Name: "min", Args: "1"}, nil))

	// string formats are top-level schemas in the modern dialect only
	for _, m := range []string{"email", "url", "uuid", "cuid", "cuid2", "ulid", "nanoid", "ipv4", "ipv6", "base64", "emoji", "jwt"} {
		add(row(m, ParamsOptional, 1, stringTypes, Output{}, replace("z."+m), checkFormatOption))
	}
	add(element(row("datetime", ParamsOptional, 1, stringTypes, chain("datetime"), replace("z.iso.datetime"), checkFormatOption)))
	add(element(row("iso.datetime", ParamsOptional, 1, stringTypes, chain("datetime"), replace("z.iso.datetime"), checkFormatOption)))

	for _, m := range []string{"int", "positive", "negative", "nonnegative", "nonpositive", "finite", "safe"} {
		lc, mc = both(chain(m))
		add(element(row(m, ParamsMessage, 1, numericTypes, lc, mc, nil)))
	}
	for _, m := range []string{"gt", "gte", "lt", "lte", "multipleOf"} {
		lc, mc = both(chain(m))
		add(element(row(m, ParamsRequired, 2, numericTypes, lc, mc, checkNumber)))
	}

	for _, m := range []string{"optional", "nullable", "nullish"} {
		lc, mc = both(chain(m))
		add(row(m, ParamsNone, 0, nil, lc, mc, nil))
	}
	lc, mc = both(chain("default"))
	add(row("default", ParamsRequired, 1, nil, lc, mc, nil))
	lc, mc = both(chain("describe"))
	add(row("describe", ParamsRequired, 1, nil, lc, mc, checkString))

	lc, mc = both(replace("z.enum"))
	add(row("enum", ParamsRequired, 2, stringTypes, lc, mc, checkEnum))
	add(row("json", ParamsNone, 0, []string{model.TypeJSON}, Output{}, replace("z.json"), nil))
	lc, mc = both(replace("custom"))
	add(row("custom", ParamsRequired, 1, nil, lc, mc, nil))
	lc, mc = both(replace("custom.use"))
	add(row("custom.use", ParamsRequired, 1, nil, lc, mc, nil))

	return NewRules(rows...)
}

func message(params []Value, from int) error {
	if len(params) > from && params[from].Kind != KindString {
		return fmt.Errorf("parameter %d must be a string message, got %s", from, params[from].Kind)
	}
	return nil
}

// checkLength: a non-negative number and an optional string message.
func checkLength(params []Value, _ string) error {
	if !params[0].IsNumber() {
		return fmt.Errorf("expected a number, got %s", params[0].Kind)
	}
	if params[0].Number() < 0 {
		return errors.New("length must not be negative")
	}
	if params[0].Kind == KindFloat && math.Trunc(params[0].Float) != params[0].Float {
		return errors.New("length must be a whole number")
	}
	return message(params, 1)
}

// checkNumber: any number and an optional string message.
func checkNumber(params []Value, _ string) error {
	if !params[0].IsNumber() {
		return fmt.Errorf("expected a number, got %s", params[0].Kind)
	}
	return message(params, 1)
}

func checkAnyThenMessage(params []Value, _ string) error {
	return message(params, 1)
}

func checkRegex(params []Value, _ string) error {
	if params[0].Kind != KindRegex && params[0].Kind != KindString {
		return fmt.Errorf("expected a regular expression or string, got %s", params[0].Kind)
	}
	return message(params, 1)
}

func checkString(params []Value, _ string) error {
	if params[0].Kind != KindString {
		return fmt.Errorf("expected a string, got %s", params[0].Kind)
	}
	return nil
}

func checkStringThenAny(params []Value, _ string) error {
	return checkString(params, "")
}

// checkFormatOption: a message string or an options object.
func checkFormatOption(params []Value, _ string) error {
	if len(params) == 0 {
		return nil
	}
	switch params[0].Kind {
	case KindString, KindObject, KindRawObjectLiteral:
		return nil
	}
	return fmt.Errorf("expected a message or options object, got %s", params[0].Kind)
}

func checkEnum(params []Value, _ string) error {
	if params[0].Kind != KindArray {
		return fmt.Errorf("expected an array of values, got %s", params[0].Kind)
	}
	if len(params[0].Items) == 0 {
		return errors.New("enum needs at least one value")
	}
	for i, item := range params[0].Items {
		if item.Kind != KindString {
			return fmt.Errorf("enum value %d must be a string, got %s", i, item.Kind)
		}
	}
	return nil
}
