package annotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(ttt *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "single line", in: "  hello   world ", want: "hello world"},
		{name: "multi line", in: "first line\n\n   @zod.min(1)\r\n\t.max(5)  ", want: "first line @zod.min(1) .max(5)"},
		{name: "only blank lines", in: "\n \n\t\n", want: ""},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tt.in)
			require.Equal(t, tt.want, got)
			require.Equal(t, got, Normalize(got), "Normalize must be idempotent")
		})
	}
}

func TestCheckBalance(ttt *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantMsg string
	}{
		{name: "balanced", in: "@zod.min(1).max(100)"},
		{name: "no parens", in: "plain prose"},
		{name: "escaped parens in regex", in: `@zod.regex(/a\(b\)/)`},
		{name: "paren inside string", in: "@zod.describe('a (b')"},
		{name: "regex class with paren", in: "@zod.regex(/[(]+/)"},
		{name: "apostrophe in prose", in: "the user's name @zod.min(1)"},
		{name: "missing close", in: "@zod.min(1", wantMsg: "1 unmatched opening parenthesis(es)"},
		{name: "two missing", in: "@zod.refine((x", wantMsg: "2 unmatched opening parenthesis(es)"},
		{name: "extra close", in: "@zod.min(1))", wantMsg: "unmatched closing parenthesis at position 11"},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			errs := CheckBalance(tt.in)
			if tt.wantMsg == "" {
				require.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			require.True(t, errors.Is(errs[0], ErrUnbalanced))
			var ae *AnnotationError
			require.True(t, errors.As(errs[0], &ae))
			require.Equal(t, ClassStructural, ae.Class)
			require.Equal(t, tt.wantMsg, ae.Msg)
		})
	}
}

func TestValidateStructureSkipsPlainComments(t *testing.T) {
	p := New()
	require.Empty(t, p.ValidateStructure("an unbalanced ( remark"))
	require.Len(t, p.ValidateStructure("@zod.min(1 and ( more"), 1)
}
