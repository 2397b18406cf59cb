package annotation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	urlLike   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	bareKey   = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	jsEscapes = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
)

// formatValue prints v as a TypeScript literal.
func formatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v, false)
	return b.String()
}

// formatArgs prints a parameter list. bigint turns integers into bigint
// literals for BigInt fields.
func formatArgs(params []Value, bigint bool) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		writeValue(&b, p, bigint && i == 0)
	}
	return b.String()
}

func writeValue(b *strings.Builder, v Value, bigint bool) {
	switch v.Kind {
	case KindNull:
		b.WriteString("null")
	case KindUndefined:
		b.WriteString("undefined")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case KindInt:
		b.WriteString(strconv.FormatInt(v.Int, 10))
		if bigint {
			b.WriteByte('n')
		}
	case KindFloat:
		b.WriteString(formatFloat(v.Float))
	case KindString:
		b.WriteString(quoteString(v.Str))
	case KindRegex:
		b.WriteByte('/')
		b.WriteString(v.Str)
		b.WriteByte('/')
		b.WriteString(v.Flags)
	case KindArray:
		b.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, item, false)
		}
		b.WriteByte(']')
	case KindObject:
		if len(v.Members) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{ ")
		for i, m := range v.Members {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(PropertyKey(m.Key))
			b.WriteString(": ")
			writeValue(b, m.Value, false)
		}
		b.WriteString(" }")
	case KindRawExpression, KindRawObjectLiteral:
		b.WriteString(v.Str)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// quoteString single-quotes s, or double-quotes it when it looks like a URL.
func quoteString(s string) string {
	q := "'"
	if urlLike.MatchString(s) {
		q = `"`
	}
	return q + strings.ReplaceAll(jsEscapes.Replace(s), q, `\`+q) + q
}

// PropertyKey prints k as an object property name, quoting it when it is not
// a plain identifier.
func PropertyKey(k string) string {
	if bareKey.MatchString(k) {
		return k
	}
	return quoteString(k)
}
