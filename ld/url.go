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

import (
	"net/url"
	"regexp"
	"strings"
)

// JsonLdUrl holds the pieces of a URL the IRI-resolution algorithm (RFC 3986
// §5.2, as referenced by the context-processing and expansion algorithms)
// needs to manipulate individually: root-relative resolution can't just call
// url.Parse, since a bare `//host/path` or dotless relative reference isn't
// always a valid net/url input on its own.
type JsonLdUrl struct { //nolint:stylecheck
	Href      string
	Protocol  string
	Host      string
	Auth      string
	User      string
	Password  string
	Hostname  string
	Port      string
	Relative  string
	Path      string
	Directory string
	File      string
	Query     string
	Hash      string

	// derived fields, not populated directly from the regex match
	Pathname       string
	NormalizedPath string
	Authority      string
}

// urlPattern mirrors the generic URI grammar from RFC 3986 Appendix B,
// extended with the userinfo/host/port breakdown the resolution algorithm
// needs. Capture group order must match the assignment table in ParseURL.
var urlPattern = regexp.MustCompile(`^(?:([^:/?#]+):)?(?://((?:(([^:@]*)(?::([^:@]*))?)?@)?([^:/?#]*)(?::(\d*))?))?((((?:[^?#/]*/)*)([^?#]*))(?:\?([^#]*))?(?:#(.*))?)`)

// ParseURL parses a string URL into JsonLdUrl struct.
func ParseURL(urlStr string) *JsonLdUrl {
	parsed := &JsonLdUrl{Href: urlStr}

	matches := urlPattern.FindStringSubmatch(urlStr)
	if matches == nil {
		return parsed
	}

	fields := []*string{
		&parsed.Protocol, &parsed.Host, &parsed.Auth, &parsed.User, &parsed.Password,
		&parsed.Hostname, &parsed.Port, &parsed.Relative, &parsed.Path, &parsed.Directory,
		&parsed.File, &parsed.Query, &parsed.Hash,
	}
	for i, dst := range fields {
		if group := matches[i+1]; group != "" {
			*dst = group
		}
	}

	// normalize to node.js API
	if parsed.Host != "" && parsed.Path == "" {
		parsed.Path = "/"
	}

	parsed.Pathname = parsed.Path
	parsed.resolveAuthority()
	parsed.NormalizedPath = removeDotSegments(parsed.Pathname, parsed.Authority != "")

	if parsed.Query != "" {
		parsed.Path += "?" + parsed.Query
	}
	if parsed.Protocol != "" {
		parsed.Protocol += ":"
	}
	if parsed.Hash != "" {
		parsed.Hash = "#" + parsed.Hash
	}

	return parsed
}

// resolveAuthority fills in Authority, handling the network-path-reference
// case ("//host/path" with no scheme) where the regex can't separate host
// from path on its own.
func (parsed *JsonLdUrl) resolveAuthority() {
	isBareNetworkPath := !strings.Contains(parsed.Href, ":") && strings.HasPrefix(parsed.Href, "//") && parsed.Host == ""
	if !isBareNetworkPath {
		parsed.Authority = parsed.Host
		if parsed.Auth != "" {
			parsed.Authority = parsed.Auth + "@" + parsed.Authority
		}
		return
	}

	rest := parsed.Pathname[2:]
	if idx := strings.Index(rest, "/"); idx == -1 {
		parsed.Authority, parsed.Pathname = rest, ""
	} else {
		parsed.Authority, parsed.Pathname = rest[:idx], rest[idx:]
	}
}

// removeDotSegments removes dot segments from a JsonLdUrl path per RFC 3986
// §5.2.4, reworked to operate on a pre-split slice of segments.
func removeDotSegments(path string, hasAuthority bool) string {
	segments := strings.Split(path, "/")
	kept := make([]string, 0, len(segments))

	for i, seg := range segments {
		switch {
		case seg == "." || (seg == "" && len(segments)-i > 1):
			continue
		case seg == "..":
			canPop := hasAuthority || (len(kept) > 0 && kept[len(kept)-1] != "..")
			if canPop {
				if len(kept) > 0 {
					kept = kept[:len(kept)-1]
				}
			} else {
				kept = append(kept, "..")
			}
		default:
			kept = append(kept, seg)
		}
	}

	var b strings.Builder
	if strings.HasPrefix(path, "/") {
		b.WriteByte('/')
	}
	b.WriteString(strings.Join(kept, "/"))
	return b.String()
}

// RemoveBase removes base URL from the given IRI.
func RemoveBase(baseobj interface{}, iri string) string {
	if baseobj == nil {
		return iri
	}

	base, ok := baseobj.(*JsonLdUrl)
	if !ok {
		base = ParseURL(baseobj.(string))
	}

	root := networkRoot(base, iri)
	if !strings.HasPrefix(iri, root) {
		return iri
	}

	rel := ParseURL(iri[len(root):])
	return relativizeSegments(base, rel)
}

func networkRoot(base *JsonLdUrl, iri string) string {
	if base.Href != "" {
		return base.Protocol + "//" + base.Authority
	}
	if !strings.HasPrefix(iri, "//") {
		// support network-path reference with empty base
		return "//"
	}
	return ""
}

func relativizeSegments(base, rel *JsonLdUrl) string {
	baseSegments := strings.Split(base.NormalizedPath, "/")
	iriSegments := strings.Split(rel.NormalizedPath, "/")

	keepLast := 1
	if rel.Hash != "" || rel.Query != "" {
		keepLast = 0
	}
	for len(baseSegments) > 0 && len(iriSegments) > keepLast && baseSegments[0] == iriSegments[0] {
		baseSegments = baseSegments[1:]
		iriSegments = iriSegments[1:]
	}

	var out strings.Builder

	if len(baseSegments) > 0 {
		// don't count the last segment if it isn't a path (doesn't end in '/');
		// don't count an empty first segment, it just means base began with '/'
		if !strings.HasSuffix(base.NormalizedPath, "/") || baseSegments[0] == "" {
			baseSegments = baseSegments[:len(baseSegments)-1]
		}
		for range baseSegments {
			out.WriteString("../")
		}
	}

	out.WriteString(strings.Join(iriSegments, "/"))
	if rel.Query != "" {
		out.WriteString("?" + rel.Query)
	}
	if rel.Hash != "" {
		out.WriteString(rel.Hash)
	}

	if out.Len() == 0 {
		return "./"
	}
	return out.String()
}

// Resolve the given path against the given base URI.
// Returns a full URI.
func Resolve(baseURI, pathToResolve string) string {
	if baseURI == "" {
		return pathToResolve
	}
	if strings.TrimSpace(pathToResolve) == "" {
		return baseURI
	}

	base, _ := url.Parse(baseURI)

	if strings.HasPrefix(pathToResolve, "?") {
		// drop fragment from uri if it has one
		base.Fragment = ""
		base.RawQuery = pathToResolve[1:]
		return base.String()
	}

	ref, _ := url.Parse(pathToResolve)
	resolved := base.ResolveReference(ref)
	// Go's url package doesn't discard unnecessary dot segments on its own.
	if resolved.Path != "" {
		resolved.Path = removeDotSegments(resolved.Path, true)
	}
	return resolved.String()
}
