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
	"net/url"
	"os"
	"sort"
	"strings"
)

// keywordSet holds every reserved JSON-LD keyword. A set lookup reads better
// than a fifty-clause boolean chain and is what IsKeyword and IsRelativeIri
// both consult.
var keywordSet = map[string]bool{
	"@base": true, "@container": true, "@context": true, "@default": true,
	"@direction": true, "@embed": true, "@explicit": true, "@json": true,
	"@id": true, "@included": true, "@index": true, "@first": true,
	"@graph": true, "@import": true, "@language": true, "@list": true,
	"@nest": true, "@none": true, "@omitDefault": true, "@prefix": true,
	"@preserve": true, "@propagate": true, "@protected": true,
	"@requireAll": true, "@reverse": true, "@set": true, "@type": true,
	"@value": true, "@version": true, "@vocab": true,
}

// IsKeyword returns whether or not the given value is a keyword.
func IsKeyword(key interface{}) bool {
	str, isString := key.(string)
	return isString && keywordSet[str]
}

// IsRelativeIri returns true if the given value is a relative IRI, false if not.
func IsRelativeIri(value string) bool {
	return !IsKeyword(value) && !IsAbsoluteIri(value)
}

// IsAbsoluteIri returns true if the given value is an absolute IRI, false if not.
func IsAbsoluteIri(value string) bool {
	if strings.HasPrefix(value, "_:") {
		return true
	}
	parsed, err := url.Parse(value)
	return err == nil && parsed.IsAbs()
}

// --- document-model predicates -------------------------------------------
//
// These classify a raw map[string]interface{}/[]interface{} node the way
// the expansion, compaction and flattening algorithms all need to: by which
// keywords are present, not by Go type alone.

// objectKeys returns (m, true) if v is a JSON object, else (nil, false).
func objectKeys(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

// IsValue returns true if the given value is a JSON-LD value
func IsValue(v interface{}) bool {
	m, ok := objectKeys(v)
	if !ok {
		return false
	}
	_, hasValue := m["@value"]
	return hasValue
}

// IsList returns true if the given value is a @list.
func IsList(v interface{}) bool {
	m, ok := objectKeys(v)
	if !ok {
		return false
	}
	_, hasList := m["@list"]
	return hasList
}

// IsSubject returns true if the given value is a subject with properties.
//
// Note: A value is a subject if all of these hold true:
// 1. It is an Object.
// 2. It is not a @value, @set, or @list.
// 3. It has more than 1 key OR any existing key is not @id.
func IsSubject(v interface{}) bool {
	m, ok := objectKeys(v)
	if !ok {
		return false
	}
	for _, kw := range []string{"@value", "@set", "@list"} {
		if _, has := m[kw]; has {
			return false
		}
	}
	_, hasID := m["@id"]
	return len(m) > 1 || !hasID
}

// IsSubjectReference returns true if the given value is a subject reference.
//
// Note: A value is a subject reference if all of these hold True:
// 1. It is an Object.
// 2. It has a single key: @id.
func IsSubjectReference(v interface{}) bool {
	m, ok := objectKeys(v)
	if !ok {
		return false
	}
	_, hasID := m["@id"]
	return hasID && len(m) == 1
}

// IsGraph returns true if the given value is a graph.
//
// Note: A value is a graph if all of these hold true:
// 1. It is an object.
// 2. It has an `@graph` key.
// 3. It may have '@id' or '@index'
func IsGraph(v interface{}) bool {
	m, ok := objectKeys(v)
	if !ok {
		return false
	}
	if _, hasGraph := m["@graph"]; !hasGraph {
		return false
	}
	for k := range m {
		if k != "@id" && k != "@index" && k != "@graph" {
			return false
		}
	}
	return true
}

// IsSimpleGraph returns true if the given value is a simple @graph
func IsSimpleGraph(v interface{}) bool {
	if !IsGraph(v) {
		return false
	}
	m, _ := objectKeys(v)
	_, hasID := m["@id"]
	return !hasID
}

// IsBlankNodeValue returns true if the given value is a blank node.
func IsBlankNodeValue(v interface{}) bool {
	// Note: A value is a blank node if all of these hold true:
	// 1. It is an Object.
	// 2. If it has an @id key its value begins with '_:'.
	// 3. It has no keys OR is not a @value, @set, or @list.
	m, ok := objectKeys(v)
	if !ok {
		return false
	}
	if id, hasID := m["@id"]; hasID {
		idStr, _ := id.(string)
		return strings.HasPrefix(idStr, "_:")
	}
	if len(m) == 0 {
		return true
	}
	_, hasValue := m["@value"]
	_, hasSet := m["@set"]
	_, hasList := m["@list"]
	return !(hasValue || hasSet || hasList)
}

func isEmptyObject(v interface{}) bool {
	m, ok := objectKeys(v)
	return ok && len(m) == 0
}

// --- value comparison & mutation helpers ----------------------------------

// DeepCompare returns true if v1 equals v2.
func DeepCompare(v1, v2 interface{}, listOrderMatters bool) bool {
	if v1 == nil || v2 == nil {
		return v1 == nil && v2 == nil
	}

	if m1, ok1 := v1.(map[string]interface{}); ok1 {
		m2, ok2 := v2.(map[string]interface{})
		if !ok2 || len(m1) != len(m2) {
			return false
		}
		for _, key := range GetKeys(m1) {
			val2, present := m2[key]
			if !present || !DeepCompare(m1[key], val2, listOrderMatters) {
				return false
			}
		}
		return true
	}

	if l1, ok1 := v1.([]interface{}); ok1 {
		l2, ok2 := v2.([]interface{})
		if !ok2 || len(l1) != len(l2) {
			return false
		}
		if listOrderMatters {
			for i := range l1 {
				if !DeepCompare(l1[i], l2[i], listOrderMatters) {
					return false
				}
			}
			return true
		}
		// order-insensitive: match each l1 entry against an unused l2 slot so
		// duplicate entries on either side can't double-match a single slot.
		claimed := make([]bool, len(l2))
		for _, o1 := range l1 {
			matched := false
			for j, o2 := range l2 {
				if !claimed[j] && DeepCompare(o1, o2, listOrderMatters) {
					claimed[j] = true
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	}

	if v1 == v2 {
		return true
	}
	// encoding/json's Decoder.UseNumber mode represents numbers as
	// json.Number rather than float64; fall back to a normalized string
	// comparison so a json.Number and a float64 of the same value still match.
	return normalizeValue(v1) == normalizeValue(v2)
}

// normalizeValue allows comparisons between json.Number and float/integer values.
func normalizeValue(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%f", f)
	}
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return fmt.Sprintf("%f", f)
		}
	}
	return fmt.Sprintf("%s", v)
}

func deepContains(values []interface{}, value interface{}) bool {
	for _, item := range values {
		if DeepCompare(item, value, false) {
			return true
		}
	}
	return false
}

// CompareValues compares two JSON-LD values for equality.
// Two JSON-LD values will be considered equal if:
//
// 1. They are both primitives of the same type and value.
// 2. They are both @values with the same @value, @type, and @language, OR
// 3. They both have @ids they are the same.
func CompareValues(v1, v2 interface{}) bool {
	m1, isMap1 := v1.(map[string]interface{})
	m2, isMap2 := v2.(map[string]interface{})

	if !isMap1 && !isMap2 {
		return v1 == v2
	}

	if IsValue(v1) && IsValue(v2) {
		return m1["@value"] == m2["@value"] &&
			m1["@type"] == m2["@type"] &&
			m1["@language"] == m2["@language"] &&
			m1["@index"] == m2["@index"]
	}

	id1, hasID1 := m1["@id"]
	id2, hasID2 := m2["@id"]
	return isMap1 && isMap2 && hasID1 && hasID2 && id1 == id2
}

// Arrayify returns v, if v is an array, otherwise returns an array
// containing v as the only element.
func Arrayify(v interface{}) []interface{} {
	if av, isArray := v.([]interface{}); isArray {
		return av
	}
	return []interface{}{v}
}

// MergeValue adds a value to a subject. If the value is an array, all values in the array will be added.
func MergeValue(obj map[string]interface{}, key string, value interface{}) {
	if obj == nil {
		return
	}
	values, _ := obj[key].([]interface{})
	valueMap, isMap := value.(map[string]interface{})
	_, valueIsList := valueMap["@list"]
	if key == "@list" || (isMap && valueIsList) || !deepContains(values, value) {
		values = append(values, value)
	}
	obj[key] = values
}

// HasValue determines if the given value is a property of the given subject
func HasValue(subject interface{}, property string, value interface{}) bool {
	subjMap, ok := subject.(map[string]interface{})
	if !ok {
		return false
	}
	val, found := subjMap[property]
	if !found {
		return false
	}

	if IsList(val) {
		listItems, _ := val.(map[string]interface{})["@list"].([]interface{})
		return deepContainsCompare(listItems, value)
	}
	if valArray, isArray := val.([]interface{}); isArray {
		return deepContainsCompare(valArray, value)
	}
	if _, valueIsArray := value.([]interface{}); valueIsArray {
		// avoid matching the set of values with an array value parameter
		return false
	}
	return CompareValues(value, val)
}

func deepContainsCompare(values []interface{}, value interface{}) bool {
	for _, v := range values {
		if CompareValues(value, v) {
			return true
		}
	}
	return false
}

// AddValue adds a value to a subject. If the value is an array, all values in the
// array will be added.
//
// Options:
//
//	[propertyIsArray] True if the property is always an array, False if not (default: False).
//	[allowDuplicate] True to allow duplicates, False not to (uses a simple shallow comparison
//			of subject ID or value) (default: True).
func AddValue(subject interface{}, property string, value interface{}, propertyIsArray, valueAsArray, allowDuplicate,
	prependValue bool) {

	subjMap, _ := subject.(map[string]interface{})
	propVal, propertyFound := subjMap[property]

	switch {
	case valueAsArray:
		subjMap[property] = value
		return
	case isArrayValue(value):
		addArrayValue(subject, property, value.([]interface{}), propertyIsArray, valueAsArray, allowDuplicate, prependValue, propertyFound)
		return
	case propertyFound:
		addExistingValue(subjMap, property, propVal, value, propertyIsArray, allowDuplicate, prependValue)
	case propertyIsArray:
		subjMap[property] = []interface{}{value}
	default:
		subjMap[property] = value
	}
}

func isArrayValue(v interface{}) bool {
	_, ok := v.([]interface{})
	return ok
}

func addArrayValue(subject interface{}, property string, valueArray []interface{}, propertyIsArray, valueAsArray,
	allowDuplicate, prependValue, propertyFound bool) {
	subjMap, _ := subject.(map[string]interface{})
	if prependValue {
		if propertyIsArray {
			valueArray = append(append([]interface{}{}, subjMap[property].([]interface{})...), valueArray...)
		} else {
			valueArray = append([]interface{}{subjMap[property]}, valueArray...)
		}
		subjMap[property] = make([]interface{}, 0)
	} else if len(valueArray) == 0 && propertyIsArray && !propertyFound {
		subjMap[property] = make([]interface{}, 0)
	}
	for _, v := range valueArray {
		AddValue(subject, property, v, propertyIsArray, valueAsArray, allowDuplicate, prependValue)
	}
}

func addExistingValue(subjMap map[string]interface{}, property string, propVal, value interface{}, propertyIsArray,
	allowDuplicate, prependValue bool) {
	hasValue := !allowDuplicate && HasValue(subjMap, property, value)

	valArray, isArray := propVal.([]interface{})
	if !isArray && (!hasValue || propertyIsArray) {
		valArray = []interface{}{subjMap[property]}
		subjMap[property] = valArray
	}

	if hasValue {
		return
	}
	if prependValue {
		subjMap[property] = append([]interface{}{value}, valArray...)
	} else {
		subjMap[property] = append(valArray, value)
	}
}

// RemoveValue removes a value from a subject.
func RemoveValue(subject interface{}, property string, value interface{}, propertyIsArray bool) {
	subjMap, _ := subject.(map[string]interface{})
	propVal, propertyFound := subjMap[property]
	if !propertyFound {
		return
	}

	remaining := make([]interface{}, 0)
	for _, v := range Arrayify(propVal) {
		if !CompareValues(v, value) {
			remaining = append(remaining, v)
		}
	}

	switch {
	case len(remaining) == 0:
		delete(subjMap, property)
	case len(remaining) == 1 && !propertyIsArray:
		subjMap[property] = remaining[0]
	default:
		subjMap[property] = remaining
	}
}

// CloneDocument returns a cloned instance of the given document
func CloneDocument(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		clone := make(map[string]interface{}, len(v))
		for k, elem := range v {
			clone[k] = CloneDocument(elem)
		}
		return clone
	case []interface{}:
		clone := make([]interface{}, 0, len(v))
		for _, elem := range v {
			clone = append(clone, CloneDocument(elem))
		}
		return clone
	default:
		// This is a bit simplistic. Beware of string values, at least.
		return value
	}
}

// RemovePreserve removes the @preserve keywords as the last step of the framing algorithm.
//
// ctx: the active context used to compact the input
// input: the framed, compacted output
// bnodesToClear: list of bnodes to be pruned
// compactArrays: compactArrays flag
//
// Returns the resulting output.
func RemovePreserve(ctx *Context, input interface{}, bnodesToClear []string, compactArrays bool) (interface{}, error) {
	switch v := input.(type) {
	case []interface{}:
		output := make([]interface{}, 0)
		for _, item := range v {
			result, err := RemovePreserve(ctx, item, bnodesToClear, compactArrays)
			if err != nil {
				return nil, err
			}
			if result != nil {
				output = append(output, result)
			}
		}
		return output, nil
	case map[string]interface{}:
		return removePreserveFromObject(ctx, v, bnodesToClear, compactArrays)
	default:
		return input, nil
	}
}

func removePreserveFromObject(ctx *Context, v map[string]interface{}, bnodesToClear []string, compactArrays bool) (interface{}, error) {
	if preserveVal, present := v["@preserve"]; present {
		if preserveVal == "@null" {
			return nil, nil
		}
		return preserveVal, nil
	}

	if _, hasValue := v["@value"]; hasValue {
		return v, nil
	}

	if listVal, hasList := v["@list"]; hasList {
		cleaned, err := RemovePreserve(ctx, listVal, bnodesToClear, compactArrays)
		if err != nil {
			return nil, err
		}
		v["@list"] = cleaned
		return v, nil
	}

	idAlias, err := ctx.CompactIri("@id", nil, false, false)
	if err != nil {
		return nil, err
	}
	if id, hasID := v[idAlias]; hasID {
		for _, bnode := range bnodesToClear {
			if id == bnode {
				delete(v, idAlias)
			}
		}
	}

	graphAlias, err := ctx.CompactIri("@graph", nil, false, false)
	if err != nil {
		return nil, err
	}
	for prop, propVal := range v {
		result, err := RemovePreserve(ctx, propVal, bnodesToClear, compactArrays)
		if err != nil {
			return nil, err
		}
		resultList, isList := result.([]interface{})
		collapsible := compactArrays && isList && len(resultList) == 1 &&
			!ctx.HasContainerMapping(prop, "@set") && !ctx.HasContainerMapping(prop, "@list") && prop != graphAlias
		if collapsible {
			result = resultList[0]
		}
		v[prop] = result
	}
	return v, nil
}

// --- map/slice plumbing ----------------------------------------------------

// CompareShortestLeast compares two strings first based on length and then lexicographically.
func CompareShortestLeast(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func inArray(v interface{}, array []interface{}) bool {
	for _, x := range array {
		if v == x {
			return true
		}
	}
	return false
}

// GetKeys returns all keys in the given object
func GetKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// GetKeysString returns all keys in the given map[string]string
func GetKeysString(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// GetOrderedKeys returns all keys in the given object as a sorted list
func GetOrderedKeys(m map[string]interface{}) []string {
	keys := GetKeys(m)
	sort.Strings(keys)
	return keys
}

// PrintDocument prints a JSON-LD document. This is useful for debugging.
func PrintDocument(msg string, doc interface{}) {
	b, _ := json.MarshalIndent(doc, "", "  ")
	if msg != "" {
		_, _ = os.Stdout.WriteString(msg)
		_, _ = os.Stdout.WriteString("\n")
	}
	_, _ = os.Stdout.Write(b)
	_, _ = os.Stdout.WriteString("\n")
}
