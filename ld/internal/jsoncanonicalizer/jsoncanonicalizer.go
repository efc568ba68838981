//
//  Copyright 2006-2019 WebPKI.org (http://webpki.org).
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//      https://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package jsoncanonicalizer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Transform serializes v as canonical JSON per the rules this package's
// number formatter was written for: object keys sorted by the bytes of
// their UTF-8 encoding, no insignificant whitespace, and float64 values formatted
// with NumberToJSON. It's a minimal form of JCS sufficient to give two
// structurally-equal documents byte-identical output, which is all a
// dedup hash needs.
func Transform(v interface{}) (string, error) {
	var b strings.Builder
	if err := encode(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func encode(b *strings.Builder, v interface{}) error {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
		return nil
	case bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
		return nil
	case string:
		data, err := json.Marshal(t)
		if err != nil {
			return err
		}
		b.Write(data)
		return nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return err
		}
		return encodeFloat(b, f)
	case float64:
		return encodeFloat(b, t)
	case int:
		b.WriteString(strconv.Itoa(t))
		return nil
	case []interface{}:
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := encode(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			keyData, err := json.Marshal(k)
			if err != nil {
				return err
			}
			b.Write(keyData)
			b.WriteByte(':')
			if err := encode(b, t[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("jsoncanonicalizer: unsupported type %T", v)
	}
}

func encodeFloat(b *strings.Builder, f float64) error {
	s, err := NumberToJSON(f)
	if err != nil {
		return err
	}
	b.WriteString(s)
	return nil
}
