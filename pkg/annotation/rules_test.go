package annotation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckLength(ttt *testing.T) {
	tests := []struct {
		name    string
		params  []Value
		wantErr string
	}{
		{name: "int", params: []Value{Int(8)}},
		{name: "whole float", params: []Value{Float(8)}},
		{name: "beyond int64", params: []Value{Float(1e20)}},
		{name: "fraction", params: []Value{Float(2.5)}, wantErr: "whole number"},
		{name: "negative", params: []Value{Int(-1)}, wantErr: "negative"},
		{name: "message", params: []Value{Int(1), Str("too short")}},
		{name: "bad message", params: []Value{Int(1), Int(2)}, wantErr: "string message"},
		{name: "not a number", params: []Value{Str("8")}, wantErr: "expected a number"},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := checkLength(tt.params, "")
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseAnnotationsLargeLength(t *testing.T) {
	res := New().ParseAnnotations("@zod.length(99999999999999999999)", fieldCtx("String"))
	require.True(t, res.IsValid, "errors: %v", res.ParseErrors)
	require.Len(t, res.Annotations, 1)
	require.Equal(t, KindFloat, res.Annotations[0].Parameters[0].Kind)
}

func TestElementMethods(t *testing.T) {
	rules := DefaultRules()
	for _, m := range []string{"trim", "regex", "startsWith", "positive", "multipleOf"} {
		cfg, _, ok := rules.Resolve(m, "")
		require.True(t, ok, m)
		require.True(t, cfg.Element, m)
	}
	for _, m := range []string{"min", "max", "length", "nonempty", "optional", "default", "describe"} {
		cfg, _, ok := rules.Resolve(m, "")
		require.True(t, ok, m)
		require.False(t, cfg.Element, m)
	}
}
