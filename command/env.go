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

// Env is an environment: a map from variable names to values.
type Env map[string]string

// Copy makes a shallow copy of the Env.
func (e Env) Copy() Env {
	acc := make(Env, len(e))
	for k, v := range e {
		acc[k] = v
	}
	return acc
}

// Object returns the Env as a generic object.
func (e Env) Object() map[string]interface{} {
	acc := make(map[string]interface{}, len(e))
	for k, v := range e {
		acc[k] = v
	}
	return acc
}

// Environ returns the Env as KEY=VALUE strings for a process
// environment.
func (e Env) Environ() []string {
	acc := make([]string, 0, len(e))
	for k, v := range e {
		acc = append(acc, k+"="+v)
	}
	return acc
}

// ToEnv makes an Env from an object.  Scalar values are rendered with
// Stringify.  Other values are skipped.  If x isn't an object, the
// result is empty.
func ToEnv(x interface{}) Env {
	m, is := asObject(x)
	if !is {
		return Env{}
	}
	acc := make(Env, len(m))
	for k, v := range m {
		if IsScalar(v) {
			acc[k] = Stringify(v)
		}
	}
	return acc
}

func asObject(x interface{}) (map[string]interface{}, bool) {
	switch vv := x.(type) {
	case map[string]interface{}:
		return vv, true
	case Env:
		return vv.Object(), true
	case map[string]string:
		return Env(vv).Object(), true
	}
	return nil, false
}

// MergeEnvs returns a copy of base with the scalar (null, boolean,
// number, or string) properties of overlay added.  Properties of
// overlay with array or object values are skipped.
//
// If either base or overlay isn't an object (a map[string]interface{},
// an Env, or a map[string]string), base is returned as is.  Otherwise
// the result is a map[string]interface{}, and base isn't modified.
func MergeEnvs(base, overlay interface{}) interface{} {
	l, is := asObject(base)
	if !is {
		return base
	}
	r, is := asObject(overlay)
	if !is {
		return base
	}

	acc := make(map[string]interface{}, len(l)+len(r))
	for k, v := range l {
		acc[k] = v
	}
	for k, v := range r {
		if IsScalar(v) {
			acc[k] = v
		}
	}
	return acc
}
