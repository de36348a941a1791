package apiresponse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedirectURLShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    string
		wantOK  bool
	}{
		{"nested data url", Payload{"data": map[string]any{"url": "https://pay.example/x"}}, "https://pay.example/x", true},
		{"top level url", Payload{"url": "https://pay.example/y"}, "https://pay.example/y", true},
		{"nested wins over top level", Payload{"url": "b", "data": map[string]any{"url": "a"}}, "a", true},
		{"blank nested falls through", Payload{"url": "b", "data": map[string]any{"url": "  "}}, "b", true},
		{"missing", Payload{"success": true, "data": map[string]any{}}, "", false},
		{"data not an object", Payload{"data": "x"}, "", false},
		{"nil payload", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RedirectURL(tt.payload)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessagePriority(t *testing.T) {
	fieldErrs := Payload{
		"message":       "top level",
		"errorMessages": []any{map[string]any{"path": "invoiceId", "message": "invoice is required"}},
	}
	assert.Equal(t, "invoice is required", Message(fieldErrs, "fallback"))

	plain := Payload{"message": "top level", "errors": []any{"", "first string error"}}
	assert.Equal(t, "first string error", Message(plain, "fallback"))

	assert.Equal(t, "top level", Message(Payload{"message": "top level", "errors": []any{}}, "fallback"))
	assert.Equal(t, "fallback", Message(Payload{"message": ""}, "fallback"))
	assert.Equal(t, "fallback", Message(nil, "fallback"))
}

func TestTruthy(t *testing.T) {
	p := Payload{
		"yes":   true,
		"no":    false,
		"one":   float64(1),
		"zero":  float64(0),
		"str":   "ok",
		"empty": "",
		"obj":   map[string]any{},
		"null":  nil,
	}

	assert.True(t, Truthy(p, "yes"))
	assert.False(t, Truthy(p, "no"))
	assert.True(t, Truthy(p, "one"))
	assert.False(t, Truthy(p, "zero"))
	assert.True(t, Truthy(p, "str"))
	assert.False(t, Truthy(p, "empty"))
	assert.True(t, Truthy(p, "obj"))
	assert.False(t, Truthy(p, "null"))
	assert.False(t, Truthy(p, "missing"))
}
