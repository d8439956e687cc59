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
	"log"
	"regexp"
	"sort"
	"strings"
)

// EnvPrefix is the name of the environment variable that holds a
// message's full match.  Other variables a Command produces are named
// EnvPrefix + "_" + NAME.
const EnvPrefix = "WXWORK_ROBOT_CMD"

// Logf reports declarations that Parse drops.  Replace it to send
// those reports elsewhere.
var Logf = log.Printf

// EnvKey returns the environment variable name for the given static
// variable or capture group name.
func EnvKey(name string) string {
	return strings.ToUpper(EnvPrefix + "_" + name)
}

// Command is a compiled declaration.
//
// A Command is not modified after New returns it.
type Command struct {
	variant     Variant
	name        string
	env         Env
	rule        *regexp.Regexp
	hidden      bool
	description string
}

// New compiles the declaration x.  The name is the regular expression
// that messages must match.
func New(name string, x interface{}) (*Command, error) {
	v, err := ParseVariant(name, x)
	if err != nil {
		return nil, err
	}

	rule, err := regexp.Compile(name)
	if err != nil {
		return nil, &BadPattern{Name: name, Err: err}
	}

	env := make(Env)
	if m, have := ReadObject(x, "env"); have {
		for k, v := range m {
			env[EnvKey(k)] = envValue(v)
		}
	}

	hidden, _ := ReadBool(x, "hidden")

	return &Command{
		variant:     v,
		name:        name,
		env:         env,
		rule:        rule,
		hidden:      hidden,
		description: readStringOr(x, "description", ""),
	}, nil
}

// Name returns the declaration's name, which is also its pattern's
// source.
func (c *Command) Name() string {
	return c.name
}

// Variant returns what the Command does.
func (c *Command) Variant() Variant {
	return c.variant
}

// Kind is shorthand for c.Variant().Kind().
func (c *Command) Kind() Kind {
	return c.variant.Kind()
}

// Env returns a copy of the Command's static environment.
func (c *Command) Env() Env {
	return c.env.Copy()
}

// Hidden reports whether the Command should be left out of help
// listings.
func (c *Command) Hidden() bool {
	return c.hidden
}

// Description returns the declared description, which might be empty.
func (c *Command) Description() string {
	return c.description
}

// VisibleDescription returns what a help listing should show for the
// Command: its description, or its name if the description is empty.
// Returns false if the Command is hidden.
func (c *Command) VisibleDescription() (string, bool) {
	if c.hidden {
		return "", false
	}
	if c.description != "" {
		return c.description, true
	}
	return c.name, true
}

// Declaration is a named, not yet compiled, command declaration.
type Declaration struct {
	Name  string
	Value interface{}
}

// Declarations is an ordered document of declarations.
type Declarations []Declaration

// Table is an ordered list of Commands.  When more than one Command
// matches a message, the first one wins.
type Table []*Command

// Parse compiles a document of declarations.
//
// The document x can be Declarations, in which case the Table follows
// the given order, or a map[string]interface{}, in which case the
// Table is sorted by declaration name.  Anything else gives an empty
// Table.
//
// Declarations that don't compile are logged and skipped.
func Parse(x interface{}) Table {
	var ds Declarations
	switch vv := x.(type) {
	case Declarations:
		ds = vv
	case map[string]interface{}:
		ds = make(Declarations, 0, len(vv))
		for name, v := range vv {
			ds = append(ds, Declaration{Name: name, Value: v})
		}
		sort.Slice(ds, func(i, j int) bool {
			return ds[i].Name < ds[j].Name
		})
	default:
		return Table{}
	}

	t := make(Table, 0, len(ds))
	for _, d := range ds {
		c, err := New(d.Name, d.Value)
		if err != nil {
			Logf("dropping command: %v; declaration: %s", err, jsonText(d.Value))
			continue
		}
		t = append(t, c)
	}
	return t
}

// Find returns the first Command that matches the message along with
// the match's Env.  Returns nil if no Command matches.
func (t Table) Find(message string) (*Command, Env) {
	for _, c := range t {
		if env, matched := c.Match(message); matched {
			return c, env
		}
	}
	return nil, nil
}

// Visible returns the visible descriptions of the Table's Commands in
// order.
func (t Table) Visible() []string {
	acc := make([]string, 0, len(t))
	for _, c := range t {
		if s, ok := c.VisibleDescription(); ok {
			acc = append(acc, s)
		}
	}
	return acc
}
