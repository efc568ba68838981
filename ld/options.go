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

package ld

const (
	JsonLd_1_0 = "json-ld-1.0" //nolint:stylecheck
	JsonLd_1_1 = "json-ld-1.1" //nolint:stylecheck
)

// JsonLdOptions type as specified in the JSON-LD-API specification:
// http://www.w3.org/TR/json-ld-api/#the-jsonldoptions-type
//
// Framing and RDF-conversion options from the original IDL are not present
// here; this processor only implements context processing, expansion,
// compaction and flattening.
type JsonLdOptions struct { //nolint:stylecheck

	// Base options: http://www.w3.org/TR/json-ld-api/#idl-def-JsonLdOptions

	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-base
	Base string
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-compactArrays
	CompactArrays bool
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-expandContext
	ExpandContext interface{}
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-processingMode
	ProcessingMode string
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-documentLoader
	DocumentLoader DocumentLoader

	// Policy controls how strictly undefined terms and unrecognised
	// keyword-shaped keys are handled. Zero value behaves as PolicyStandard.
	Policy Policy

	// Ordered is carried through Copy, but no processing path reads it:
	// context and expansion traversal always visits keys in sorted order
	// (GetOrderedKeys), whatever its value, and input insertion order is
	// never followed.
	Ordered bool

	// Dedup, when true, removes structurally-equal top-level nodes from the
	// result of Expand using a hash-bucketed structural comparison.
	Dedup bool

	SafeMode bool
}

// NewJsonLdOptions creates and returns new instance of JsonLdOptions with the given base.
func NewJsonLdOptions(base string) *JsonLdOptions { //nolint:stylecheck
	return &JsonLdOptions{
		Base:           base,
		CompactArrays:  true,
		ProcessingMode: JsonLd_1_1,
		DocumentLoader: NewDefaultDocumentLoader(nil),
		Policy:         PolicyStandard,
		Ordered:        true,
		Dedup:          false,
		SafeMode:       false,
	}
}

// Copy creates a deep copy of JsonLdOptions object.
func (opt *JsonLdOptions) Copy() *JsonLdOptions {
	return &JsonLdOptions{
		Base:           opt.Base,
		CompactArrays:  opt.CompactArrays,
		ExpandContext:  opt.ExpandContext,
		ProcessingMode: opt.ProcessingMode,
		DocumentLoader: opt.DocumentLoader,
		Policy:         opt.Policy,
		Ordered:        opt.Ordered,
		Dedup:          opt.Dedup,
		SafeMode:       opt.SafeMode,
	}
}
