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

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Comcast/wxrobot/command"

	yaml "gopkg.in/yaml.v2"
)

// ErrNotAnObject occurs when a command document isn't an object.
var ErrNotAnObject = errors.New("command document must be an object")

// ParseDeclarations parses a JSON or YAML command document.  The
// result is in the order that the document declares its commands.
//
// If the document declares a command more than once, the last
// declaration wins but keeps the first one's position.
func ParseDeclarations(body []byte) (command.Declarations, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmpty
	}

	var (
		ds  command.Declarations
		err error
	)
	switch body[0] {
	case '{':
		ds, err = parseJSON(body)
	default:
		ds, err = parseYAML(body)
	}
	if err != nil {
		return nil, err
	}

	return dedup(ds), nil
}

func dedup(ds command.Declarations) command.Declarations {
	acc := make(command.Declarations, 0, len(ds))
	at := make(map[string]int, len(ds))
	for _, d := range ds {
		if i, have := at[d.Name]; have {
			acc[i].Value = d.Value
			continue
		}
		at[d.Name] = len(acc)
		acc = append(acc, d)
	}
	return acc
}

// parseJSON streams the top-level object so that we see its
// properties in order.  Numbers are kept as json.Numbers, so "args"
// and "env" values keep their literal form.
func parseJSON(body []byte) (command.Declarations, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, is := tok.(json.Delim); !is || d != '{' {
		return nil, ErrNotAnObject
	}

	ds := make(command.Declarations, 0, 16)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, is := tok.(string)
		if !is {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v interface{}
		if err = dec.Decode(&v); err != nil {
			return nil, err
		}
		ds = append(ds, command.Declaration{Name: name, Value: v})
	}
	if _, err = dec.Token(); err != nil {
		return nil, err
	}

	return ds, nil
}

func parseYAML(body []byte) (command.Declarations, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}

	ds := make(command.Declarations, 0, len(doc))
	for _, item := range doc {
		name, is := item.Key.(string)
		if !is {
			name = fmt.Sprintf("%v", item.Key)
		}
		v, err := StringMaps(item.Value)
		if err != nil {
			return nil, err
		}
		ds = append(ds, command.Declaration{Name: name, Value: v})
	}
	return ds, nil
}

// StringMaps recursively converts map[interface{}]interface{} and
// yaml.MapSlice to map[string]interface{}.
//
// Had to go to this trouble because the YAML deserializer likes to
// make map[interface{}] instead of map[string] (and MapSlices all the
// way down once it's given a MapSlice).
func StringMaps(x interface{}) (interface{}, error) {
	switch vv := x.(type) {
	case yaml.MapSlice:
		m := make(map[string]interface{}, len(vv))
		for _, item := range vv {
			s, is := item.Key.(string)
			if !is {
				s = fmt.Sprintf("%v", item.Key)
			}
			val, err := StringMaps(item.Value)
			if err != nil {
				return nil, err
			}
			m[s] = val
		}
		return m, nil
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(vv))
		for thing, val := range vv {
			s, is := thing.(string)
			if !is {
				s = fmt.Sprintf("%v", thing)
			}
			val, err := StringMaps(val)
			if err != nil {
				return nil, err
			}
			m[s] = val
		}
		return m, nil
	case map[string]interface{}:
		for s, val := range vv {
			val, err := StringMaps(val)
			if err != nil {
				return nil, err
			}
			vv[s] = val
		}
		return vv, nil
	case []interface{}:
		for i, x := range vv {
			y, err := StringMaps(x)
			if err != nil {
				return nil, err
			}
			vv[i] = y
		}
		return vv, nil
	default:
		return x, nil
	}
}

// DumpDeclarations renders declarations as YAML in their order.
func DumpDeclarations(ds command.Declarations) ([]byte, error) {
	doc := make(yaml.MapSlice, 0, len(ds))
	for _, d := range ds {
		doc = append(doc, yaml.MapItem{Key: d.Name, Value: d.Value})
	}
	return yaml.Marshal(doc)
}

// ParseTable parses a command document and compiles it.
func ParseTable(body []byte) (command.Table, error) {
	ds, err := ParseDeclarations(body)
	if err != nil {
		return nil, err
	}
	return command.Parse(ds), nil
}

// LoadTable reads a command document from a file and compiles it.
func LoadTable(filename string) (command.Table, error) {
	body, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseTable(body)
}
