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

// Match applies the Command's pattern to the message.
//
// If the pattern matches, the returned Env is a fresh copy of the
// static environment extended with EnvPrefix bound to the full match
// and a variable for each named group that participated in the match.
// A group's variable overwrites a static variable with the same name.
func (c *Command) Match(message string) (Env, bool) {
	loc := c.rule.FindStringSubmatchIndex(message)
	if loc == nil {
		return nil, false
	}

	env := c.env.Copy()
	env[EnvPrefix] = message[loc[0]:loc[1]]

	for i, name := range c.rule.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		from, to := loc[2*i], loc[2*i+1]
		if from < 0 {
			// Didn't participate.
			continue
		}
		env[EnvKey(name)] = message[from:to]
	}

	return env, true
}

// Pattern returns the source of the Command's regular expression.
func (c *Command) Pattern() string {
	return c.rule.String()
}
