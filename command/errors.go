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

// These errors are user errors, reported when a declaration can't be
// compiled.  Parse logs them and drops the declaration.

// BadPattern occurs when a declaration's name doesn't compile as a
// regular expression.
type BadPattern struct {
	Name string
	Err  error
}

func (e *BadPattern) Error() string {
	return `command "` + e.Name + `" regex invalid: ` + e.Err.Error()
}

func (e *BadPattern) Unwrap() error {
	return e.Err
}

// NotAnObject occurs when a declaration isn't a JSON object.
type NotAnObject struct {
	Name  string
	Value interface{}
}

func (e *NotAnObject) Error() string {
	return `command "` + e.Name + `" configure must be a json object, but real is ` + jsonText(e.Value)
}

// MissingField occurs when a declaration lacks a required string
// property ("type" for all commands, "exec" for spawn, "url" for
// http).
type MissingField struct {
	Name  string
	Type  string
	Field string
}

func (e *MissingField) Error() string {
	if e.Type == "" {
		return `command "` + e.Name + `" requires ` + e.Field
	}
	return e.Type + ` command "` + e.Name + `" requires ` + e.Field
}

// UnknownType occurs when a declaration's "type" isn't one of "echo",
// "spawn", "http", or "help".
type UnknownType struct {
	Name string
	Type string
}

func (e *UnknownType) Error() string {
	return `command "` + e.Name + `" type "` + e.Type + `" invalid`
}
