// Copyright SecureKey Technologies Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blast-hardcheese/json-ld/ld/internal/jsoncanonicalizer"
)

func TestJSONCanonicalizerTransform(t *testing.T) {
	doc := `{
  "@id": "http://example.org/test#example",
  "@type": "ex:Foo",
  "ex:embed": {
    "@type": "ex:Bar",
    "ex:foo": "bar",
    "ex:values": [1, 2.5, {"f": {"f": "hi", "F": 5}, " ": 56.0}]
  }
}`

	var docMap map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &docMap))

	canonical, err := jsoncanonicalizer.Transform(docMap)
	require.NoError(t, err)
	assert.NotEmpty(t, canonical)

	// object key order in the input must not affect the canonical form
	reordered := `{
  "ex:embed": {
    "ex:values": [1, 2.5, {" ": 56.0, "f": {"F": 5, "f": "hi"}}],
    "ex:foo": "bar",
    "@type": "ex:Bar"
  },
  "@type": "ex:Foo",
  "@id": "http://example.org/test#example"
}`
	var reorderedMap map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(reordered), &reorderedMap))

	canonical2, err := jsoncanonicalizer.Transform(reorderedMap)
	require.NoError(t, err)
	assert.Equal(t, canonical, canonical2)
}

func TestDedupNodes(t *testing.T) {
	alice := map[string]interface{}{
		"@id":                    "http://example.org/alice",
		"http://schema.org/name": []interface{}{map[string]interface{}{"@value": "Alice"}},
	}
	aliceAgain := map[string]interface{}{
		"http://schema.org/name": []interface{}{map[string]interface{}{"@value": "Alice"}},
		"@id":                    "http://example.org/alice",
	}
	bob := map[string]interface{}{
		"@id":                    "http://example.org/bob",
		"http://schema.org/name": []interface{}{map[string]interface{}{"@value": "Bob"}},
	}

	result, err := dedupNodes([]interface{}{alice, bob, aliceAgain})
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, alice, result[0])
	assert.Equal(t, bob, result[1])
}

func TestDedupNodes_FewerThanTwoIsNoop(t *testing.T) {
	single := []interface{}{map[string]interface{}{"@id": "http://example.org/alice"}}
	result, err := dedupNodes(single)
	require.NoError(t, err)
	assert.Equal(t, single, result)
}
