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

// Policy controls how strictly context processing and expansion react to
// input that is legal JSON but semantically dubious: undefined terms,
// unrecognised keyword-shaped keys, and other conditions that the base
// algorithms either silently drop or silently accept.
type Policy string

const (
	// PolicyRelaxed retains undefined compact IRIs and unknown keyword-shaped
	// keys in expanded output instead of dropping them. Loader and transport
	// failures are never downgraded; those always abort.
	PolicyRelaxed Policy = "relaxed"

	// PolicyStandard runs the algorithms as written: undefined terms and
	// unknown keyword-shaped keys are dropped, each recorded as a warning.
	PolicyStandard Policy = "standard"

	// PolicyStrict additionally rejects a compact IRI whose prefix term
	// exists but isn't declared @prefix true (Standard only records a
	// warning for it), and records a warning for an @language value that
	// fails a lenient BCP-47 shape check.
	PolicyStrict Policy = "strict"

	// PolicyStrictest runs the Strict ruleset but promotes every warning
	// that would otherwise be recorded into a hard error.
	PolicyStrictest Policy = "strictest"
)

func (p Policy) effective() Policy {
	if p == "" {
		return PolicyStandard
	}
	return p
}

func (p Policy) retainUndefined() bool {
	return p.effective() == PolicyRelaxed
}

func (p Policy) strict() bool {
	eff := p.effective()
	return eff == PolicyStrict || eff == PolicyStrictest
}

func (p Policy) promoteWarnings() bool {
	return p.effective() == PolicyStrictest
}
