package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret("  "))
	assert.Equal(t, "****", MaskSecret("abc"))
	assert.Equal(t, "****cdef", MaskSecret("sk_0123456789abcdef"))
}

func TestMaskURL(t *testing.T) {
	assert.Equal(t, "https://pay.example/****1234", MaskURL("https://pay.example/checkout/abcd1234"))
	assert.Equal(t, "https://pay.example/****=xyz", MaskURL("https://pay.example/c?session=xyz"))
	assert.Equal(t, "https://pay.example", MaskURL("https://pay.example"))
	assert.Equal(t, "****path", MaskURL("not a url path"))
	assert.Equal(t, "", MaskURL(""))
}
