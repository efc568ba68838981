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

import "fmt"

// WarningCode identifies the kind of non-fatal condition recorded in a
// Warning. Unlike ErrorCode, a warning never aborts processing on its own —
// Policy.Strictest is the only thing that turns one into an error.
type WarningCode string

const (
	WarningUndefinedTerm       WarningCode = "undefined term"
	WarningUnknownKeyword      WarningCode = "unknown keyword"
	WarningIgnoredKeywordLike  WarningCode = "ignored keyword-like value"
	WarningSuspiciousLanguage  WarningCode = "suspicious language tag"
	WarningSuspiciousIRIPrefix WarningCode = "suspicious compact IRI prefix"
)

// Warning is a non-fatal condition noticed during context processing or
// expansion. Term and IRI carry whatever context is available; either may be
// empty depending on the condition.
type Warning struct {
	Code    WarningCode
	Term    string
	IRI     string
	Message string
}

func (w Warning) String() string {
	if w.Term != "" {
		return fmt.Sprintf("%s: %s (%s)", w.Code, w.Message, w.Term)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// warningSink accumulates warnings for a single top-level operation. Under
// Policy.Strictest, add returns a JsonLdError instead of recording, since
// that policy promotes every warning condition to a hard failure.
type warningSink struct {
	policy   Policy
	warnings []Warning
}

func newWarningSink(policy Policy) *warningSink {
	return &warningSink{policy: policy}
}

func (s *warningSink) add(w Warning) error {
	if s == nil {
		return nil
	}
	if s.policy.promoteWarnings() {
		return NewJsonLdError(UnknownError, w.String())
	}
	s.warnings = append(s.warnings, w)
	return nil
}

// Warnings returns the warnings collected so far, in recording order.
func (s *warningSink) Warnings() []Warning {
	if s == nil {
		return nil
	}
	return s.warnings
}
