// Copyright 2015-2017 Piprate Limited
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

package ld_test

import (
	"testing"

	. "github.com/blast-hardcheese/json-ld/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLdProcessor_Expand(t *testing.T) {
	proc := NewJsonLdProcessor()
	opts := NewJsonLdOptions("")

	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://xmlns.com/foaf/0.1/name",
		},
		"@id":  "http://example.com/people#alice",
		"name": "Alice",
	}

	expanded, err := proc.Expand(doc, opts)
	require.NoError(t, err)
	require.Len(t, expanded, 1)

	node := expanded[0].(map[string]interface{})
	assert.Equal(t, "http://example.com/people#alice", node["@id"])
	assert.Equal(t, "Alice", node["http://xmlns.com/foaf/0.1/name"].([]interface{})[0].(map[string]interface{})["@value"])
}

func TestJsonLdProcessor_Expand_Dedup(t *testing.T) {
	proc := NewJsonLdProcessor()
	opts := NewJsonLdOptions("")
	opts.Dedup = true

	doc := []interface{}{
		map[string]interface{}{
			"@context": map[string]interface{}{"name": "http://xmlns.com/foaf/0.1/name"},
			"@id":      "http://example.com/people#alice",
			"name":     "Alice",
		},
		map[string]interface{}{
			"@context": map[string]interface{}{"name": "http://xmlns.com/foaf/0.1/name"},
			"@id":      "http://example.com/people#alice",
			"name":     "Alice",
		},
	}

	expanded, err := proc.Expand(doc, opts)
	require.NoError(t, err)
	assert.Len(t, expanded, 1)
}

func TestJsonLdProcessor_ExpandWithWarnings(t *testing.T) {
	proc := NewJsonLdProcessor()
	opts := NewJsonLdOptions("")

	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://xmlns.com/foaf/0.1/name",
		},
		"@id":          "http://example.com/people#alice",
		"name":         "Alice",
		"undefinedKey": "dropped",
	}

	expanded, warnings, err := proc.ExpandWithWarnings(doc, opts)
	require.NoError(t, err)
	require.Len(t, expanded, 1)
	require.NotEmpty(t, warnings)
	assert.Equal(t, WarningUndefinedTerm, warnings[0].Code)
}

func TestJsonLdProcessor_ExpandWithWarnings_Relaxed(t *testing.T) {
	proc := NewJsonLdProcessor()
	opts := NewJsonLdOptions("")
	opts.Policy = PolicyRelaxed

	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://xmlns.com/foaf/0.1/name",
		},
		"@id":          "http://example.com/people#alice",
		"name":         "Alice",
		"undefinedKey": "kept",
	}

	expanded, warnings, err := proc.ExpandWithWarnings(doc, opts)
	require.NoError(t, err)
	require.Len(t, expanded, 1)
	assert.Empty(t, warnings)

	node := expanded[0].(map[string]interface{})
	assert.Equal(t, []interface{}{"kept"}, node["undefinedKey"])
}

func TestJsonLdProcessor_ExpandWithWarnings_Strictest(t *testing.T) {
	proc := NewJsonLdProcessor()
	opts := NewJsonLdOptions("")
	opts.Policy = PolicyStrictest

	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://xmlns.com/foaf/0.1/name",
		},
		"@id":          "http://example.com/people#alice",
		"name":         "Alice",
		"undefinedKey": "dropped",
	}

	_, _, err := proc.ExpandWithWarnings(doc, opts)
	require.Error(t, err)
}

func TestJsonLdProcessor_Compact(t *testing.T) {
	proc := NewJsonLdProcessor()
	opts := NewJsonLdOptions("")

	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://xmlns.com/foaf/0.1/name",
		},
		"@id":  "http://example.com/people#alice",
		"name": "Alice",
	}

	context := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://xmlns.com/foaf/0.1/name",
		},
	}

	compacted, err := proc.Compact(doc, context, opts)
	require.NoError(t, err)
	assert.Equal(t, "Alice", compacted["name"])
	assert.Equal(t, "http://example.com/people#alice", compacted["@id"])
}

func TestJsonLdProcessor_Flatten(t *testing.T) {
	proc := NewJsonLdProcessor()
	opts := NewJsonLdOptions("")

	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://xmlns.com/foaf/0.1/name",
			"knows": map[string]interface{}{
				"@id":   "http://xmlns.com/foaf/0.1/knows",
				"@type": "@id",
			},
		},
		"@id":  "http://example.com/people#alice",
		"name": "Alice",
		"knows": map[string]interface{}{
			"@id":  "http://example.com/people#bob",
			"name": "Bob",
		},
	}

	flattened, err := proc.Flatten(doc, nil, opts)
	require.NoError(t, err)

	nodes := flattened.([]interface{})
	assert.Len(t, nodes, 2)
}
