package annotation

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/goccy/go-json"
)

// maxValueDepth bounds nesting of array and object parameters.
const maxValueDepth = 32

var errTooDeep = fmt.Errorf("value nested deeper than %d", maxValueDepth)

var (
	intPattern   = regexp.MustCompile(`^-?\d+$`)
	floatPattern = regexp.MustCompile(`^-?(\d+\.\d*|\.\d+|\d+)([eE][+-]?\d+)?$`)
	flagPattern  = regexp.MustCompile(`^[dgimsuyv]*$`)
)

// ParseParameters converts the text between a call's parentheses into
// values. Blank text yields no values. Syntax that cannot be classified is
// kept as a string rather than rejected.
func ParseParameters(raw string) ([]Value, error) {
	return parseList(raw, 0)
}

func parseList(raw string, depth int) ([]Value, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts, err := splitTopLevel(raw)
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, len(parts))
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			if i == len(parts)-1 && i > 0 {
				break // trailing comma
			}
			return nil, fmt.Errorf("empty parameter at index %d", i)
		}
		v, err := classify(part, depth)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// splitTopLevel splits on commas that sit outside every bracket and literal.
func splitTopLevel(raw string) ([]string, error) {
	var (
		sc    scanner
		parts []string
		from  int
	)
	for i := 0; i < len(raw); i++ {
		if !sc.feed(raw[i]) {
			continue
		}
		if raw[i] == ',' && sc.depth() == 0 {
			parts = append(parts, raw[from:i])
			from = i + 1
		}
		if sc.depth() < 0 {
			return nil, fmt.Errorf("unexpected %q at offset %d", raw[i], i)
		}
	}
	if sc.inLiteral() {
		return nil, errors.New("unterminated string or regex literal")
	}
	if sc.depth() != 0 {
		return nil, errors.New("unbalanced brackets")
	}
	return append(parts, raw[from:]), nil
}

func classify(text string, depth int) (Value, error) {
	t := strings.TrimSpace(text)
	switch t {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "null":
		return Null(), nil
	case "undefined":
		return Undefined(), nil
	}
	switch {
	case intPattern.MatchString(t):
		if i, err := strconv.ParseInt(t, 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %s: %w", t, err)
		}
		return Float(f), nil
	case floatPattern.MatchString(t):
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %s: %w", t, err)
		}
		return Float(f), nil
	case isQuoted(t):
		return Str(unquote(t)), nil
	case strings.HasPrefix(t, "/"):
		if v, ok, err := parseRegex(t); ok {
			return v, err
		}
	case strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]"):
		return parseArray(t, depth)
	case strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}"):
		v, err := decodeJSON(t, depth)
		if errors.Is(err, errTooDeep) {
			return Value{}, err
		}
		if err == nil {
			return v, nil
		}
		return RawObjectLiteral(t), nil
	}
	if strings.Contains(t, "(") && CheckBalance(t) == nil {
		return RawExpression(t), nil
	}
	// bare identifiers and anything unrecognised pass through as strings
	return Str(t), nil
}

// isQuoted reports whether t is exactly one quoted string literal.
func isQuoted(t string) bool {
	if len(t) < 2 {
		return false
	}
	q := t[0]
	if q != '"' && q != '\'' && q != '`' {
		return false
	}
	var sc scanner
	for i := 0; i < len(t); i++ {
		sc.feed(t[i])
		if !sc.inLiteral() {
			return i == len(t)-1
		}
	}
	return false
}

func unquote(t string) string {
	body := t[1 : len(t)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i == len(body)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case 'u':
			if i+4 < len(body) {
				if r, err := strconv.ParseUint(body[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(r))
					i += 4
					continue
				}
			}
			b.WriteByte('u')
		case 'x':
			if i+2 < len(body) {
				if r, err := strconv.ParseUint(body[i+1:i+3], 16, 8); err == nil {
					b.WriteRune(rune(r))
					i += 2
					continue
				}
			}
			b.WriteByte('x')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}

// parseRegex reads a /pattern/flags literal. ok is false when t is not a
// regex literal at all.
func parseRegex(t string) (Value, bool, error) {
	var sc scanner
	end := -1
	for i := 0; i < len(t); i++ {
		sc.feed(t[i])
		if i > 0 && !sc.inLiteral() {
			end = i
			break
		}
	}
	if end < 1 {
		return Value{}, false, nil
	}
	pattern, flags := t[1:end], t[end+1:]
	if !flagPattern.MatchString(flags) {
		return Value{}, false, nil
	}
	if pattern == "" {
		return Value{}, true, errors.New("empty regular expression")
	}
	var opts regexp2.RegexOptions = regexp2.ECMAScript
	seen := map[rune]bool{}
	for _, f := range flags {
		if seen[f] {
			return Value{}, true, fmt.Errorf("duplicate regex flag %q", f)
		}
		seen[f] = true
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		}
	}
	if _, err := regexp2.Compile(pattern, opts); err != nil {
		return Value{}, true, fmt.Errorf("invalid regular expression /%s/: %w", pattern, err)
	}
	return Regex(pattern, flags), true, nil
}

// parseArray decodes an array parameter, first as JSON and then element by
// element so single-quoted strings and regex literals are accepted.
func parseArray(t string, depth int) (Value, error) {
	if depth >= maxValueDepth {
		return Value{}, errTooDeep
	}
	v, err := decodeJSON(t, depth)
	if err == nil || errors.Is(err, errTooDeep) {
		return v, err
	}
	items, err := parseList(t[1:len(t)-1], depth+1)
	if err != nil {
		return Value{}, fmt.Errorf("invalid array %s: %w", t, err)
	}
	if items == nil {
		items = []Value{}
	}
	return Array(items...), nil
}

// decodeJSON decodes a JSON document found at the given nesting depth into a
// Value, keeping object key order.
func decodeJSON(t string, depth int) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(t))
	dec.UseNumber()
	v, err := decodeToken(dec, depth)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func decodeToken(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch tv := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(tv), nil
	case string:
		return Str(tv), nil
	case json.Number:
		if i, err := tv.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := tv.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case json.Delim:
		if depth >= maxValueDepth {
			return Value{}, errTooDeep
		}
		switch tv {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeToken(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Array(items...), nil
		case '{':
			members := []Member{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", kt)
				}
				val, err := decodeToken(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				members = append(members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Object(members...), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}
