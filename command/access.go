/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package command

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The Read functions extract a typed property from an object.  Each
// returns false when x isn't an object, when the property is absent,
// or when the value has some other type.  None of them fail.

func property(x interface{}, name string) (interface{}, bool) {
	m, is := x.(map[string]interface{})
	if !is {
		return nil, false
	}
	v, have := m[name]
	return v, have
}

// ReadString returns the string value of the given property.
func ReadString(x interface{}, name string) (string, bool) {
	v, _ := property(x, name)
	s, is := v.(string)
	return s, is
}

// ReadObject returns the object value of the given property.
func ReadObject(x interface{}, name string) (map[string]interface{}, bool) {
	v, _ := property(x, name)
	m, is := v.(map[string]interface{})
	return m, is
}

// ReadBool returns the boolean value of the given property.
func ReadBool(x interface{}, name string) (bool, bool) {
	v, _ := property(x, name)
	b, is := v.(bool)
	return b, is
}

// ReadArray returns the array value of the given property.
func ReadArray(x interface{}, name string) ([]interface{}, bool) {
	v, _ := property(x, name)
	xs, is := v.([]interface{})
	return xs, is
}

func readStringOr(x interface{}, name, def string) string {
	if s, have := ReadString(x, name); have {
		return s
	}
	return def
}

// IsScalar reports whether x is null, a boolean, a number, or a
// string.
func IsScalar(x interface{}) bool {
	switch x.(type) {
	case nil, bool, string, json.Number,
		float64, float32, int, int64, int32, uint, uint64, uint32:
		return true
	}
	return false
}

// Stringify renders a value as a string argument or header value.
//
// Null becomes the empty string, a string is used as is, and
// anything else is rendered as JSON ("true", "42", "1.5", ...).
func Stringify(x interface{}) string {
	switch vv := x.(type) {
	case nil:
		return ""
	case string:
		return vv
	default:
		return jsonText(vv)
	}
}

// envValue is like Stringify except that null becomes "null".
func envValue(x interface{}) string {
	if s, is := x.(string); is {
		return s
	}
	return jsonText(x)
}

// jsonText renders x as compact JSON without HTML escaping.
func jsonText(x interface{}) string {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(x); err != nil {
		return fmt.Sprintf("%v", x)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
