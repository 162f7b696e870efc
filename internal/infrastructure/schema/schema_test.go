package schema

import (
	"encoding/json"
	"testing"

	"github.com/lumio/backend/internal/domain/editor"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementTreeValidator(t *testing.T) {
	v := MustElementTreeValidator()

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "blank page", raw: "  "},
		{name: "empty list", raw: "[]"},
		{
			name: "body with text",
			raw: `[{"id":"__body","name":"Body","type":"__body","styles":{},"content":[
				{"id":"t1","name":"Text","type":"text","styles":{"color":"red"},"content":{"innerText":"Hi"}}
			]}]`,
		},
		{
			name: "null type",
			raw:  `[{"id":"x","name":"","type":null,"styles":{},"content":[]}]`,
		},
		{
			name:    "not json",
			raw:     `[{`,
			wantErr: "not valid JSON",
		},
		{
			name:    "not an array",
			raw:     `{"id":"x"}`,
			wantErr: "does not match",
		},
		{
			name:    "missing id",
			raw:     `[{"name":"Body","type":"__body","styles":{},"content":[]}]`,
			wantErr: "id",
		},
		{
			name:    "unknown type",
			raw:     `[{"id":"x","name":"X","type":"marquee","styles":{},"content":[]}]`,
			wantErr: "does not match",
		},
		{
			name: "nested violation",
			raw: `[{"id":"__body","name":"Body","type":"__body","styles":{},"content":[
				{"id":"l","name":"Link","type":"link","styles":{},"content":{"href":42}}
			]}]`,
			wantErr: "does not match",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.raw)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestElementTreeValidator_AcceptsEncodedState(t *testing.T) {
	state := editor.NewState("page")
	state, err := editor.Reduce(state, editor.AddElement(editor.BodyID, editor.Element{
		ID:      "v1",
		Name:    "Video",
		Type:    editor.TypeVideo,
		Styles:  editor.Styles{},
		Content: editor.LeafContent(editor.Leaf{"src": "https://www.youtube.com/embed/abc"}),
	}))
	require.NoError(t, err)

	raw, err := json.Marshal(state.Editor.Elements)
	require.NoError(t, err)
	assert.NoError(t, MustElementTreeValidator().Validate(string(raw)))
}
