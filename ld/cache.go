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
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/xxh3"
)

// LayeredDocumentLoader wraps another DocumentLoader with a two-tier cache:
// a bounded in-memory LRU in front of a Badger-backed store, so that
// immutable remote contexts survive process restarts instead of being
// re-fetched on every run. Plays the same role as the teacher's
// CachingDocumentLoader, with a real backing store instead of an
// unbounded map.
type LayeredDocumentLoader struct {
	next DocumentLoader

	mu  sync.Mutex
	lru *lru.Cache[uint64, *RemoteDocument]
	db  *badger.DB
}

// NewLayeredDocumentLoader creates a LayeredDocumentLoader delegating
// cache misses to next. dbPath is the Badger data directory; an empty
// path opens an in-memory store, so the zero-configuration case has no
// disk footprint, matching the ergonomics of the teacher's map-backed
// CachingDocumentLoader.
func NewLayeredDocumentLoader(next DocumentLoader, memCapacity int, dbPath string) (*LayeredDocumentLoader, error) {
	if memCapacity <= 0 {
		memCapacity = 256
	}

	memCache, err := lru.New[uint64, *RemoteDocument](memCapacity)
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbPath)
	if dbPath == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &LayeredDocumentLoader{next: next, lru: memCache, db: db}, nil
}

// Close releases the underlying Badger store.
func (l *LayeredDocumentLoader) Close() error {
	return l.db.Close()
}

func cacheKey(iri string) uint64 {
	return xxh3.HashString(iri)
}

// LoadDocument implements DocumentLoader.
func (l *LayeredDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	key := cacheKey(u)

	l.mu.Lock()
	if rd, found := l.lru.Get(key); found {
		l.mu.Unlock()
		return rd, nil
	}
	l.mu.Unlock()

	if rd, found, err := l.loadFromDB(key); err != nil {
		return nil, err
	} else if found {
		l.mu.Lock()
		l.lru.Add(key, rd)
		l.mu.Unlock()
		return rd, nil
	}

	rd, err := l.next.LoadDocument(u)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.lru.Add(key, rd)
	l.mu.Unlock()

	if err := l.storeInDB(key, rd); err != nil {
		return nil, err
	}

	return rd, nil
}

// AddDocument registers rd directly under iri, bypassing next. Mirrors the
// teacher's CachingDocumentLoader.AddDocument.
func (l *LayeredDocumentLoader) AddDocument(iri string, rd *RemoteDocument) error {
	key := cacheKey(iri)
	l.mu.Lock()
	l.lru.Add(key, rd)
	l.mu.Unlock()
	return l.storeInDB(key, rd)
}

// PreloadWithMapping loads a set of documents from local file paths and
// registers them under their mapped IRIs, for use in hermetic tests.
// Mirrors the teacher's CachingDocumentLoader.PreloadWithMapping.
func (l *LayeredDocumentLoader) PreloadWithMapping(urlMap map[string]string) error {
	for sourceURL, mappedURL := range urlMap {
		rd, err := l.next.LoadDocument(mappedURL)
		if err != nil {
			return err
		}
		rd.DocumentURL = sourceURL
		if err := l.AddDocument(sourceURL, rd); err != nil {
			return err
		}
	}
	return nil
}

type cachedDocument struct {
	ContextURL  string      `json:"contextUrl"`
	DocumentURL string      `json:"documentUrl"`
	Document    interface{} `json:"document"`
}

func (l *LayeredDocumentLoader) loadFromDB(key uint64) (*RemoteDocument, bool, error) {
	var rd *RemoteDocument
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyBytes(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var cd cachedDocument
			if err := json.Unmarshal(val, &cd); err != nil {
				return err
			}
			rd = &RemoteDocument{
				ContextURL:  cd.ContextURL,
				DocumentURL: cd.DocumentURL,
				Document:    cd.Document,
			}
			return nil
		})
	})
	return rd, rd != nil, err
}

func (l *LayeredDocumentLoader) storeInDB(key uint64, rd *RemoteDocument) error {
	data, err := json.Marshal(cachedDocument{
		ContextURL:  rd.ContextURL,
		DocumentURL: rd.DocumentURL,
		Document:    rd.Document,
	})
	if err != nil {
		return err
	}
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyBytes(key), data)
	})
}

func keyBytes(key uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(key >> (8 * i))
	}
	return b
}
