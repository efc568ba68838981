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
	"github.com/zeebo/xxh3"

	"github.com/blast-hardcheese/json-ld/ld/internal/jsoncanonicalizer"
)

// dedupNodes removes structurally-equal top-level nodes from an expanded
// document. JSON-LD treats the top level of an expanded document as an
// unordered set of node objects, so two entries that are DeepCompare-equal
// are duplicates. The comparison is order-sensitive for every array: two
// nodes whose values differ only in the order of a property's array are
// not treated as duplicates.
//
// Comparing every pair directly is O(n^2) in the number of top-level nodes.
// Instead each node is canonicalized (jsoncanonicalizer.Transform) and
// hashed (xxh3), bucketing candidates; DeepCompare only runs within a
// bucket to resolve the rare hash collision, so the common case is O(n).
func dedupNodes(nodes []interface{}) ([]interface{}, error) {
	if len(nodes) < 2 {
		return nodes, nil
	}

	buckets := make(map[uint64][]interface{}, len(nodes))
	result := make([]interface{}, 0, len(nodes))

	for _, node := range nodes {
		canonical, err := jsoncanonicalizer.Transform(node)
		if err != nil {
			// nodes that can't be canonicalized (e.g. hold a NaN or a Go type
			// Transform doesn't encode) are kept as-is; dedup is a
			// best-effort pass, never a reason to fail expansion.
			result = append(result, node)
			continue
		}

		hash := xxh3.HashString(canonical)
		duplicate := false
		for _, candidate := range buckets[hash] {
			if DeepCompare(node, candidate, true) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		buckets[hash] = append(buckets[hash], node)
		result = append(result, node)
	}

	return result, nil
}
