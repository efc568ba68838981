package ld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJsonLdOptions_Copy(t *testing.T) {
	expected := JsonLdOptions{
		Base:           "base",
		CompactArrays:  true,
		ProcessingMode: JsonLd_1_1,
		DocumentLoader: NewDefaultDocumentLoader(nil),
		Policy:         PolicyStrict,
		Ordered:        true,
		Dedup:          true,
		SafeMode:       true,
	}
	assert.Equal(t, expected, *expected.Copy())
}

func TestNewJsonLdOptions_Defaults(t *testing.T) {
	opts := NewJsonLdOptions("http://example.com/")

	assert.Equal(t, "http://example.com/", opts.Base)
	assert.True(t, opts.CompactArrays)
	assert.Equal(t, JsonLd_1_1, opts.ProcessingMode)
	assert.Equal(t, PolicyStandard, opts.Policy)
	assert.True(t, opts.Ordered)
	assert.False(t, opts.Dedup)
	assert.False(t, opts.SafeMode)
}
