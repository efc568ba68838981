package ld

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stretchr/testify/assert"
)

func TestContext_Parse(t *testing.T) {
	expectedError := errors.New("failed")
	opts := NewJsonLdOptions("")
	opts.DocumentLoader = errorDocumentLoader{err: expectedError}

	t.Run("DocumentLoader can't resolve @context URL", func(t *testing.T) {
		ctx := NewContext(nil, opts)
		_, err := ctx.Parse("http://example.org/foo.ldjson")
		jsonLDError := new(JsonLdError)
		require.ErrorAs(t, err, &jsonLDError)
		assert.Equal(t, LoadingRemoteContextFailed, jsonLDError.Code)
		assert.ErrorIs(t, err, expectedError, "DocumentLoader error is not wrapped")
	})
	t.Run("DocumentLoader can't resolve @import", func(t *testing.T) {
		ctx := NewContext(nil, opts)
		_, err := ctx.Parse(map[string]interface{}{
			"@import": "http://example.org/foo.ldjson",
		})
		jsonLDError := new(JsonLdError)
		require.ErrorAs(t, err, &jsonLDError)
		assert.Equal(t, LoadingRemoteContextFailed, jsonLDError.Code)
		assert.ErrorIs(t, err, expectedError, "DocumentLoader error is not wrapped")
	})
}

type errorDocumentLoader struct {
	err error
}

func (l errorDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	return nil, l.err
}

func TestContext_Policy(t *testing.T) {
	t.Run("standard policy records a warning for an ignored @-like term", func(t *testing.T) {
		opts := NewJsonLdOptions("")
		ctx := NewContext(nil, opts)
		newCtx, err := ctx.Parse(map[string]interface{}{
			"@nope": "http://example.org/nope",
		})
		require.NoError(t, err)
		require.NotEmpty(t, newCtx.warnings.Warnings())
		assert.Equal(t, WarningIgnoredKeywordLike, newCtx.warnings.Warnings()[0].Code)
	})

	t.Run("strictest policy promotes a suspicious language tag into an error", func(t *testing.T) {
		opts := NewJsonLdOptions("")
		opts.Policy = PolicyStrictest
		ctx := NewContext(nil, opts)
		_, err := ctx.Parse(map[string]interface{}{
			"name": map[string]interface{}{
				"@id":       "http://schema.org/name",
				"@language": "not a tag!!",
			},
		})
		require.Error(t, err)
	})

	t.Run("strict policy rejects a compact IRI whose prefix isn't declared @prefix", func(t *testing.T) {
		opts := NewJsonLdOptions("")
		opts.Policy = PolicyStrict
		ctx := NewContext(nil, opts)
		localCtx := map[string]interface{}{
			"ex": map[string]interface{}{
				"@id":     "http://example.org/",
				"@prefix": false,
			},
		}
		ctx, err := ctx.Parse(localCtx)
		require.NoError(t, err)

		defined := make(map[string]bool)
		_, err = ctx.ExpandIri("ex:Thing", false, true, localCtx, defined)
		jsonLDError := new(JsonLdError)
		require.ErrorAs(t, err, &jsonLDError)
		assert.Equal(t, IRIConfusedWithPrefix, jsonLDError.Code)
	})
}
