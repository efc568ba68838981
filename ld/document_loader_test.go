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

func TestLoadDocument(t *testing.T) {
	dl := NewDefaultDocumentLoader(nil)

	rd, _ := dl.LoadDocument("testdata/expand/0002-in.jsonld")

	assert.Equal(t, "t1", rd.Document.(map[string]interface{})["@type"])
}

func TestParseLinkHeader(t *testing.T) {
	rval := ParseLinkHeader("<remote-doc/0010-context.jsonld>; rel=\"http://www.w3.org/ns/json-ld#context\"")

	assert.Equal(
		t,
		map[string][]map[string]string{
			"http://www.w3.org/ns/json-ld#context": {{
				"target": "remote-doc/0010-context.jsonld",
				"rel":    "http://www.w3.org/ns/json-ld#context",
			}},
		},
		rval,
	)
}

func TestCachingDocumentLoaderLoadDocument(t *testing.T) {
	cl := NewCachingDocumentLoader(NewDefaultDocumentLoader(nil))

	_ = cl.PreloadWithMapping(map[string]string{
		"http://www.example.com/expand/0002-in.jsonld": "testdata/expand/0002-in.jsonld",
	})

	rd, _ := cl.LoadDocument("http://www.example.com/expand/0002-in.jsonld")

	assert.Equal(t, "t1", rd.Document.(map[string]interface{})["@type"])
}

func TestLayeredDocumentLoaderLoadDocument(t *testing.T) {
	dl, err := NewLayeredDocumentLoader(NewDefaultDocumentLoader(nil), 16, "")
	require.NoError(t, err)
	defer dl.Close()

	require.NoError(t, dl.PreloadWithMapping(map[string]string{
		"http://www.example.com/expand/0002-in.jsonld": "testdata/expand/0002-in.jsonld",
	}))

	// first load populates the in-memory and Badger tiers
	rd, err := dl.LoadDocument("http://www.example.com/expand/0002-in.jsonld")
	require.NoError(t, err)
	assert.Equal(t, "t1", rd.Document.(map[string]interface{})["@type"])

	// second load is served from cache; same content either way
	rd2, err := dl.LoadDocument("http://www.example.com/expand/0002-in.jsonld")
	require.NoError(t, err)
	assert.Equal(t, rd.Document, rd2.Document)
}
