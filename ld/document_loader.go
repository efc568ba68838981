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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/pquerna/cachecontrol"
)

const (
	// An HTTP Accept header that prefers JSONLD.
	acceptHeader = "application/ld+json, application/json;q=0.9, application/javascript;q=0.5, text/javascript;q=0.5, text/plain;q=0.2, */*;q=0.1"

	ApplicationJSONLDType = "application/ld+json"

	// JSON-LD link header rel
	linkHeaderRel = "http://www.w3.org/ns/json-ld#context"
)

// RemoteDocument is a document retrieved from a remote source.
type RemoteDocument struct {
	DocumentURL string
	Document    interface{}
	ContextURL  string
}

// DocumentLoader knows how to load remote documents.
type DocumentLoader interface {
	LoadDocument(u string) (*RemoteDocument, error)
}

// DocumentFromReader returns a document containing the contents of the JSON resource,
// streamed from the given Reader.
func DocumentFromReader(r io.Reader) (interface{}, error) {
	var document interface{}
	// Not calling dec.UseNumber() here: plain float64 decoding is the
	// default, and DeepCompare already tolerates a caller that turns it on
	// instead.
	if err := json.NewDecoder(r).Decode(&document); err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	return document, nil
}

// fetchResult carries what a single GET/read of a remote or local JSON-LD
// document needs to report back, before any caching policy is applied.
type fetchResult struct {
	doc          *RemoteDocument
	cacheable    bool
	neverExpires bool
	expires      time.Time
}

// fetchRemoteDocument retrieves u, preferring application/ld+json over
// plain JSON, and following a Link-header context/alternate redirection the
// way both DefaultDocumentLoader and RFC7324CachingDocumentLoader need to.
// A non-http(s) scheme is read as a local file and treated as permanently
// cacheable, since its content can't change out from under an HTTP cache
// validator.
func fetchRemoteDocument(client *http.Client, u string, follow func(string) (*RemoteDocument, error)) (*fetchResult, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Sprintf("error parsing URL: %s", u))
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fetchLocalFile(u)
	}
	return fetchHTTPDocument(client, u, follow)
}

func fetchLocalFile(u string) (*fetchResult, error) {
	file, err := os.Open(u)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	defer file.Close()

	body, err := DocumentFromReader(file)
	if err != nil {
		return nil, err
	}
	return &fetchResult{
		doc:          &RemoteDocument{DocumentURL: u, Document: body},
		cacheable:    true,
		neverExpires: true,
	}, nil
}

func fetchHTTPDocument(client *http.Client, u string, follow func(string) (*RemoteDocument, error)) (*fetchResult, error) {
	req, err := http.NewRequest("GET", u, http.NoBody)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	// We prefer application/ld+json, but fallback to application/json
	// or whatever is available
	req.Header.Add("Accept", acceptHeader)

	res, err := client.Do(req)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, NewJsonLdError(LoadingDocumentFailed,
			fmt.Sprintf("Bad response status code: %d", res.StatusCode))
	}

	remoteDoc := &RemoteDocument{DocumentURL: res.Request.URL.String()}
	contentType := res.Header.Get("Content-Type")

	if linkHeader := res.Header.Get("Link"); linkHeader != "" {
		links := ParseLinkHeader(linkHeader)

		contextLink := links[linkHeaderRel]
		if contextLink != nil && contentType != ApplicationJSONLDType &&
			(contentType == "application/json" || rApplicationJSON.MatchString(contentType)) {
			switch len(contextLink) {
			case 0:
			case 1:
				remoteDoc.ContextURL = contextLink[0]["target"]
			default:
				return nil, NewJsonLdError(MultipleContextLinkHeaders, nil)
			}
		}

		// If content-type is not application/ld+json, nor any other +json
		// and a link with rel=alternate and type='application/ld+json' is found,
		// use that instead. Cacheability below is still evaluated against u's
		// own response headers: the cache entry key is u, so its validator
		// has to come from u's response even though the body was redirected.
		if alt := links["alternate"]; len(alt) > 0 && alt[0]["type"] == ApplicationJSONLDType &&
			!rApplicationJSON.MatchString(contentType) {
			followed, followErr := follow(Resolve(u, alt[0]["target"]))
			if followErr != nil {
				return nil, NewJsonLdError(LoadingDocumentFailed, followErr)
			}
			remoteDoc = followed
		}
	}

	if remoteDoc.Document == nil {
		remoteDoc.Document, err = DocumentFromReader(res.Body)
		if err != nil {
			return nil, err
		}
	}

	cacheReasons, expires, ccErr := cachecontrol.CachableResponse(req, res, cachecontrol.Options{})
	return &fetchResult{
		doc:       remoteDoc,
		cacheable: ccErr == nil && len(cacheReasons) == 0,
		expires:   expires,
	}, nil
}

// DefaultDocumentLoader is a standard implementation of DocumentLoader
// which can retrieve documents via HTTP.
type DefaultDocumentLoader struct {
	httpClient *http.Client
}

// NewDefaultDocumentLoader creates a new instance of DefaultDocumentLoader
func NewDefaultDocumentLoader(httpClient *http.Client) *DefaultDocumentLoader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DefaultDocumentLoader{httpClient: httpClient}
}

// LoadDocument returns a RemoteDocument containing the contents of the JSON resource
// from the given URL.
func (dl *DefaultDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	result, err := fetchRemoteDocument(dl.httpClient, u, dl.LoadDocument)
	if err != nil {
		return nil, err
	}
	return result.doc, nil
}

var rSplitOnComma = regexp.MustCompile("(?:<[^>]*?>|\"[^\"]*?\"|[^,])+")
var rLinkHeader = regexp.MustCompile(`\s*<([^>]*?)>\s*(?:;\s*(.*))?`)
var rApplicationJSON = regexp.MustCompile(`^application/(\w*\+)?json$`)
var rParams = regexp.MustCompile("(.*?)=(?:(?:\"([^\"]*?)\")|([^\"]*?))\\s*(?:(?:;\\s*)|$)")

// ParseLinkHeader parses a link header. The results will be keyed by the value of "rel".
//
//	Link: <http://json-ld.org/contexts/person.jsonld>; \
//	  rel="http://www.w3.org/ns/json-ld#context"; type="application/ld+json"
//
//	Parses as: {
//	  'http://www.w3.org/ns/json-ld#context': [{
//	    target: http://json-ld.org/contexts/person.jsonld,
//	    rel:    http://www.w3.org/ns/json-ld#context,
//	    type:   application/ld+json
//	  }]
//	}
//
// Each "rel" maps to a list of entries, even when only one link carries it.
func ParseLinkHeader(header string) map[string][]map[string]string {
	links := make(map[string][]map[string]string)

	// split on unbracketed/unquoted commas
	entries := rSplitOnComma.FindAllString(header, -1)
	for _, entry := range entries {
		match := rLinkHeader.FindStringSubmatch(entry)
		if match == nil {
			continue
		}

		result := map[string]string{"target": match[1]}
		for _, param := range rParams.FindAllStringSubmatch(match[2], -1) {
			if param[2] == "" {
				result[param[1]] = param[3]
			} else {
				result[param[1]] = param[2]
			}
		}

		rel := result["rel"]
		links[rel] = append(links[rel], result)
	}
	return links
}

// CachingDocumentLoader is an overlay on top of DocumentLoader instance
// which allows caching documents as soon as they get retrieved
// from the underlying loader. You may also preload it with documents -
// this is useful for testing.
type CachingDocumentLoader struct {
	nextLoader DocumentLoader
	cache      map[string]*RemoteDocument
}

// NewCachingDocumentLoader creates a new instance of CachingDocumentLoader.
func NewCachingDocumentLoader(nextLoader DocumentLoader) *CachingDocumentLoader {
	return &CachingDocumentLoader{
		nextLoader: nextLoader,
		cache:      make(map[string]*RemoteDocument),
	}
}

// LoadDocument returns a RemoteDocument containing the contents of the JSON resource
// from the given URL.
func (cdl *CachingDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	if doc, cached := cdl.cache[u]; cached {
		return doc, nil
	}
	doc, err := cdl.nextLoader.LoadDocument(u)
	if err != nil {
		return nil, err
	}
	cdl.cache[u] = doc
	return doc, nil
}

// AddDocument populates the cache with the given document (doc) for the provided URL (u).
func (cdl *CachingDocumentLoader) AddDocument(u string, doc interface{}) {
	cdl.cache[u] = &RemoteDocument{DocumentURL: u, Document: doc}
}

// PreloadWithMapping populates the cache with a number of documents which may be loaded
// from location different from the original URL (most importantly, from local files).
//
// Example:
//
//	l.PreloadWithMapping(map[string]string{
//	    "http://www.example.com/context.json": "/home/me/cache/example_com_context.json",
//	})
func (cdl *CachingDocumentLoader) PreloadWithMapping(urlMap map[string]string) error {
	for srcURL, mappedURL := range urlMap {
		doc, err := cdl.nextLoader.LoadDocument(mappedURL)
		if err != nil {
			return err
		}
		cdl.cache[srcURL] = doc
	}
	return nil
}

type cachedRemoteDocument struct {
	remoteDocument *RemoteDocument
	expireTime     time.Time
	neverExpires   bool
}

func (c *cachedRemoteDocument) valid(now time.Time) bool {
	return c.neverExpires || c.expireTime.After(now)
}

// RFC7324CachingDocumentLoader respects RFC7324 caching headers in order to
// cache effectively
type RFC7324CachingDocumentLoader struct {
	httpClient *http.Client
	cache      map[string]*cachedRemoteDocument
}

// NewRFC7324CachingDocumentLoader creates a new RFC7324CachingDocumentLoader
func NewRFC7324CachingDocumentLoader(httpClient *http.Client) *RFC7324CachingDocumentLoader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RFC7324CachingDocumentLoader{
		httpClient: httpClient,
		cache:      make(map[string]*cachedRemoteDocument),
	}
}

// LoadDocument returns a RemoteDocument containing the contents of the JSON resource
// from the given URL.
func (rcdl *RFC7324CachingDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	if entry, ok := rcdl.cache[u]; ok && entry.valid(time.Now()) {
		return entry.remoteDocument, nil
	}

	result, err := fetchRemoteDocument(rcdl.httpClient, u, rcdl.LoadDocument)
	if err != nil {
		return nil, err
	}

	if result.cacheable {
		rcdl.cache[u] = &cachedRemoteDocument{
			remoteDocument: result.doc,
			expireTime:     result.expires,
			neverExpires:   result.neverExpires,
		}
	}
	return result.doc, nil
}
