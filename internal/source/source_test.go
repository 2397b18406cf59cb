package source

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/zodanno/internal/model"
)

func TestLoadFile(t *testing.T) {
	fromYAML, err := LoadFile("testdata/blog.yaml")
	require.NoError(t, err)
	fromJSON, err := LoadFile("testdata/blog.json")
	require.NoError(t, err)

	if diff := cmp.Diff(fromYAML, fromJSON); diff != "" {
		t.Fatalf("yaml and json documents differ (-yaml +json):\n%s", diff)
	}

	user := fromYAML.FindModel("User")
	require.NotNil(t, user)
	require.Len(t, user.Fields, 4)
	require.Equal(t, model.KindScalar, user.Fields[0].Kind)
	require.Equal(t, model.KindEnum, user.Fields[2].Kind)
	require.Equal(t, model.KindObject, user.Fields[3].Kind)
	require.True(t, user.Fields[3].IsList)
	require.Equal(t, "Login address.\n@zod.email()\n", user.Fields[1].Documentation)
}

func TestDecodeErrors(ttt *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr string
	}{
		{name: "unknown key", data: "models:\n  - name: A\n    colour: red\n", format: FormatYAML, wantErr: "unmarshal yaml"},
		{name: "unnamed model", data: `{"models":[{"fields":[]}]}`, format: FormatJSON, wantErr: "model 0 has no name"},
		{name: "duplicate model", data: "models:\n  - name: A\n  - name: A\n", format: FormatYAML, wantErr: "duplicate model A"},
		{name: "field without type", data: "models:\n  - name: A\n    fields:\n      - name: x\n", format: FormatYAML, wantErr: "needs a name and a type"},
		{name: "empty enum", data: "enums:\n  - name: E\n", format: FormatYAML, wantErr: "enum E has no values"},
		{name: "bad json", data: `{"models": [`, format: FormatJSON, wantErr: "unmarshal json"},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tt.data), tt.format)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("models.YML")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, f)
	_, err = FormatOf("models.toml")
	require.Error(t, err)
}
