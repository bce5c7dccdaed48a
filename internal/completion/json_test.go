package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", `Here you go: {"a":1}`, `{"a":1}`},
		{"trailing prose with braces", `{"a":{"b":2}} and {"c":3}`, `{"a":{"b":2}}`},
		{"brace in string", `{"t":"use } carefully"} done`, `{"t":"use } carefully"}`},
		{"escaped quote", `{"t":"say \"hi\" }"}`, `{"t":"say \"hi\" }"}`},
		{"unbalanced falls back", `{"a":{"b":1}`, `{"a":{"b":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONObject_None(t *testing.T) {
	for _, in := range []string{"", "no json here", "} backwards {"} {
		_, err := ExtractJSONObject(in)
		assert.ErrorIs(t, err, ErrNoJSON, in)
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON("Sure!\n```json\n{\"name\":\"Acme\"}\n```\nAnything else?", &v))
	assert.Equal(t, "Acme", v.Name)

	assert.Error(t, DecodeJSON(`{"name": }`, &v))
	assert.ErrorIs(t, DecodeJSON("nothing", &v), ErrNoJSON)
}
