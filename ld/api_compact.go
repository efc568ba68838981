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

// Compact runs the Compaction Algorithm (JSON-LD API §7) against element,
// turning expanded form back into the shorter form activeCtx's term
// definitions and @vocab/@base permit. It mirrors the recursive structure
// of JsonLdApi.expandElement/expandObject: arrays compact element-by-element,
// maps compact key-by-key, everything else passes through unchanged.
func (api *JsonLdApi) Compact(activeCtx *Context, activeProperty string, element interface{},
	compactArrays bool) (interface{}, error) {
	switch e := element.(type) {
	case []interface{}:
		return api.compactArray(activeCtx, activeProperty, e, compactArrays)
	case map[string]interface{}:
		return api.compactMap(activeCtx, activeProperty, e, compactArrays)
	default:
		return element, nil
	}
}

func (api *JsonLdApi) compactArray(activeCtx *Context, activeProperty string, elementList []interface{},
	compactArrays bool) (interface{}, error) {
	result := make([]interface{}, 0, len(elementList))
	for _, item := range elementList {
		compactedItem, err := api.Compact(activeCtx, activeProperty, item, compactArrays)
		if err != nil {
			return nil, err
		}
		if compactedItem != nil {
			result = append(result, compactedItem)
		}
	}
	if compactArrays && len(result) == 1 && len(activeCtx.GetContainer(activeProperty)) == 0 {
		return result[0], nil
	}
	return result, nil
}

func (api *JsonLdApi) compactMap(activeCtx *Context, activeProperty string, elem map[string]interface{},
	compactArrays bool) (interface{}, error) {
	if IsValue(elem) || IsSubjectReference(elem) {
		// step 4: a value object or a bare @id reference may collapse straight to a
		// scalar (string/number/bool); only fall through to the per-key loop
		// below when CompactValue leaves it as a map or list.
		short, err := api.compactValueObject(activeCtx, activeProperty, elem)
		if err == nil {
			return short, nil
		}
		if err != errNotScalar {
			return nil, err
		}
	}

	insideReverse := activeProperty == "@reverse"
	result := make(map[string]interface{})

	for _, expandedProperty := range GetOrderedKeys(elem) {
		expandedValue := elem[expandedProperty]

		switch {
		case expandedProperty == "@id" || expandedProperty == "@type":
			if err := api.compactIDOrType(activeCtx, expandedProperty, expandedValue, result); err != nil {
				return nil, err
			}
			continue

		case expandedProperty == "@reverse":
			if err := api.compactReverseEntry(activeCtx, expandedValue, compactArrays, result); err != nil {
				return nil, err
			}
			continue

		case expandedProperty == "@index" && activeCtx.HasContainerMapping(activeProperty, "@index"):
			continue

		case expandedProperty == "@index" || expandedProperty == "@value" || expandedProperty == "@language":
			alias, err := activeCtx.CompactIri(expandedProperty, nil, true, false)
			if err != nil {
				return nil, err
			}
			result[alias] = expandedValue
			continue
		}

		if err := api.compactPropertyEntry(activeCtx, expandedProperty, expandedValue, insideReverse,
			compactArrays, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// compactValueObject handles a value-object or @id-reference's scalar
// shortcut: step 4 of the Compaction Algorithm asks CompactValue whether
// the object collapses to a bare string/number/bool before the generic
// per-key loop ever runs.
func (api *JsonLdApi) compactValueObject(activeCtx *Context, activeProperty string,
	elem map[string]interface{}) (interface{}, error) {
	compactedValue, err := activeCtx.CompactValue(activeProperty, elem)
	if err != nil {
		return nil, err
	}
	if _, isMap := compactedValue.(map[string]interface{}); isMap {
		return nil, errNotScalar
	}
	if _, isList := compactedValue.([]interface{}); isList {
		return nil, errNotScalar
	}
	return compactedValue, nil
}

var errNotScalar = NewJsonLdError(SyntaxError, "value object did not collapse to a scalar")

// compactIDOrType compacts an @id or @type entry (step 7.1): a single IRI
// compacts directly, an array of @type IRIs compacts element-wise.
func (api *JsonLdApi) compactIDOrType(activeCtx *Context, expandedProperty string, expandedValue interface{},
	result map[string]interface{}) error {
	var compactedValue interface{}

	if expandedValueStr, isString := expandedValue.(string); isString {
		compacted, err := activeCtx.CompactIri(expandedValueStr, nil, expandedProperty == "@type", false)
		if err != nil {
			return err
		}
		compactedValue = compacted
	} else {
		types := make([]interface{}, 0)
		for _, expandedTypeVal := range expandedValue.([]interface{}) {
			compacted, err := activeCtx.CompactIri(expandedTypeVal.(string), nil, true, false)
			if err != nil {
				return err
			}
			types = append(types, compacted)
		}
		if len(types) == 1 {
			compactedValue = types[0]
		} else {
			compactedValue = types
		}
	}

	alias, err := activeCtx.CompactIri(expandedProperty, nil, true, false)
	if err != nil {
		return err
	}
	result[alias] = compactedValue
	return nil
}

// compactReverseEntry compacts an @reverse entry (step 7.2): the nested
// object is compacted as if under a reverse-sensitive active property, then
// its reverse-mapped keys are hoisted to the top level while everything
// else stays nested under the compacted @reverse alias.
func (api *JsonLdApi) compactReverseEntry(activeCtx *Context, expandedValue interface{}, compactArrays bool,
	result map[string]interface{}) error {
	compactedObject, err := api.Compact(activeCtx, "@reverse", expandedValue, compactArrays)
	if err != nil {
		return err
	}
	compactedValue := compactedObject.(map[string]interface{})

	for _, property := range GetKeys(compactedValue) {
		value := compactedValue[property]
		if !activeCtx.IsReverseProperty(property) {
			continue
		}

		valueList, isList := value.([]interface{})
		if (activeCtx.HasContainerMapping(property, "@set") || !compactArrays) && !isList {
			result[property] = []interface{}{value}
		}

		existing, present := result[property]
		switch {
		case !present:
			result[property] = value
		default:
			existingList, isExistingList := existing.([]interface{})
			if !isExistingList {
				existingList = []interface{}{existing}
			}
			if isList {
				existingList = append(existingList, valueList...)
			} else {
				existingList = append(existingList, value)
			}
			result[property] = existingList
		}
		delete(compactedValue, property)
	}

	if len(compactedValue) > 0 {
		alias, err := activeCtx.CompactIri("@reverse", nil, true, false)
		if err != nil {
			return err
		}
		result[alias] = compactedValue
	}
	return nil
}

// compactPropertyEntry handles steps 7.5-7.6: a regular (non-keyword)
// property whose expanded value is always an array, compacted item by item
// and folded into result according to whatever container mapping (@list,
// @set, @language, @index) the compacted active property carries.
func (api *JsonLdApi) compactPropertyEntry(activeCtx *Context, expandedProperty string, expandedValue interface{},
	insideReverse, compactArrays bool, result map[string]interface{}) error {
	expandedValueList, _ := expandedValue.([]interface{})

	if len(expandedValueList) == 0 {
		itemActiveProperty, err := activeCtx.CompactIri(expandedProperty, expandedValue, true, insideReverse)
		if err != nil {
			return err
		}
		if existing, present := result[itemActiveProperty]; !present {
			result[itemActiveProperty] = make([]interface{}, 0)
		} else if _, isList := existing.([]interface{}); !isList {
			result[itemActiveProperty] = []interface{}{existing}
		}
		return nil
	}

	for _, expandedItem := range expandedValueList {
		itemActiveProperty, err := activeCtx.CompactIri(expandedProperty, expandedItem, true, insideReverse)
		if err != nil {
			return err
		}
		container := ""
		for _, c := range []string{"@list", "@language", "@index", "@set"} {
			if activeCtx.HasContainerMapping(itemActiveProperty, c) {
				container = c
				break
			}
		}

		expandedItemMap, isMap := expandedItem.(map[string]interface{})
		list, containsList := expandedItemMap["@list"]
		isList := isMap && containsList

		elementToCompact := expandedItem
		if isList {
			elementToCompact = list
		}
		compactedItem, err := api.Compact(activeCtx, itemActiveProperty, elementToCompact, compactArrays)
		if err != nil {
			return err
		}

		if isList {
			compactedItem, err = wrapListItem(activeCtx, compactedItem, expandedItemMap, container, itemActiveProperty, result)
			if err != nil {
				return err
			}
		}

		switch container {
		case "@language", "@index":
			foldIntoContainerMap(result, itemActiveProperty, container, compactedItem, expandedItemMap)
		default:
			foldIntoResult(result, itemActiveProperty, expandedProperty, container, compactedItem, compactArrays)
		}
	}
	return nil
}

// wrapListItem implements step 7.6.4: a @list-valued item either gets
// wrapped in a fresh {"@list": [...]} object (optionally carrying @index),
// or, when the active property's own container mapping is already @list,
// is rejected if that slot is already occupied (you can't have two list
// objects sharing one container-mapped property).
func wrapListItem(activeCtx *Context, compactedItem interface{}, expandedItemMap map[string]interface{},
	container, itemActiveProperty string, result map[string]interface{}) (interface{}, error) {
	if _, isCompactedList := compactedItem.([]interface{}); !isCompactedList {
		compactedItem = []interface{}{compactedItem}
	}

	if container == "@list" {
		if _, present := result[itemActiveProperty]; present {
			return nil, NewJsonLdError(CompactionToListOfLists,
				"There cannot be two list objects associated with an active property that has a container mapping")
		}
		return compactedItem, nil
	}

	wrapper := make(map[string]interface{})
	listAlias, err := activeCtx.CompactIri("@list", nil, true, false)
	if err != nil {
		return nil, err
	}
	wrapper[listAlias] = compactedItem

	if indexVal, containsIndex := expandedItemMap["@index"]; containsIndex {
		indexAlias, err := activeCtx.CompactIri("@index", nil, true, false)
		if err != nil {
			return nil, err
		}
		wrapper[indexAlias] = indexVal
	}
	return wrapper, nil
}

// foldIntoContainerMap implements step 7.6.5: @language/@index container
// mappings group sibling values by language tag or index value into a
// single nested map instead of a flat array.
func foldIntoContainerMap(result map[string]interface{}, itemActiveProperty, container string,
	compactedItem interface{}, expandedItemMap map[string]interface{}) {
	mapObject, present := result[itemActiveProperty].(map[string]interface{})
	if !present {
		mapObject = make(map[string]interface{})
		result[itemActiveProperty] = mapObject
	}

	if compactedItemMap, isMap := compactedItem.(map[string]interface{}); container == "@language" && isMap {
		if v, containsValue := compactedItemMap["@value"]; containsValue {
			compactedItem = v
		}
	}

	mapKey := expandedItemMap[container].(string)
	existing, hasMapKey := mapObject[mapKey]
	if !hasMapKey {
		mapObject[mapKey] = compactedItem
		return
	}
	existingList, isList := existing.([]interface{})
	if !isList {
		existingList = []interface{}{existing}
	}
	mapObject[mapKey] = append(existingList, compactedItem)
}

// foldIntoResult implements step 7.6.6: the default fold for a compacted
// item with no @language/@index container mapping, wrapping in a
// single-element array when compactArrays is off or a @set/@list/@graph
// container demands it, and appending to any existing entry otherwise.
func foldIntoResult(result map[string]interface{}, itemActiveProperty, expandedProperty, container string,
	compactedItem interface{}, compactArrays bool) {
	_, isList := compactedItem.([]interface{})
	mustWrap := (!compactArrays || container == "@set" || container == "@list" ||
		expandedProperty == "@list" || expandedProperty == "@graph") && !isList
	if mustWrap {
		compactedItem = []interface{}{compactedItem}
	}

	existing, present := result[itemActiveProperty]
	if !present {
		result[itemActiveProperty] = compactedItem
		return
	}

	existingList, isExistingList := existing.([]interface{})
	if !isExistingList {
		existingList = []interface{}{existing}
	}
	if compactedItemList, isList := compactedItem.([]interface{}); isList {
		existingList = append(existingList, compactedItemList...)
	} else {
		existingList = append(existingList, compactedItem)
	}
	result[itemActiveProperty] = existingList
}
