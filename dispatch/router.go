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

package dispatch

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Comcast/wxrobot/command"
)

// ErrNoRunner occurs when a Router has no Runner for a matched
// Command's Kind.
var ErrNoRunner = errors.New("no runner for command kind")

// Runner executes a matched Command.
type Runner interface {
	Run(ctx context.Context, c *command.Command, env command.Env) (*Reply, error)
}

// RunnerFunc adapts a function to a Runner.
type RunnerFunc func(ctx context.Context, c *command.Command, env command.Env) (*Reply, error)

func (f RunnerFunc) Run(ctx context.Context, c *command.Command, env command.Env) (*Reply, error) {
	return f(ctx, c, env)
}

// Router dispatches messages over a Table.
//
// A Router can Dispatch concurrently.  SetTable replaces the whole
// Table; a Dispatch in progress keeps using the Table it started
// with.
type Router struct {
	sync.RWMutex
	table command.Table

	// Env is a base environment for every command.  Message
	// metadata overrides it, and the match's Env overrides both.
	Env map[string]interface{}

	Runners map[command.Kind]Runner

	// DefaultReply, if not empty, is the reply to a message that
	// matches nothing.
	DefaultReply string

	Debug bool
}

// NewRouter makes a Router with the standard Runners.
func NewRouter(table command.Table, httpTimeout, spawnTimeout time.Duration) (*Router, error) {
	h, err := NewHTTPRunner(httpTimeout)
	if err != nil {
		return nil, err
	}
	r := &Router{
		table: table,
	}
	r.Runners = map[command.Kind]Runner{
		command.KindEcho:  EchoRunner{},
		command.KindSpawn: &SpawnRunner{Timeout: spawnTimeout},
		command.KindHTTP:  h,
		command.KindHelp:  &HelpRunner{Table: r.Table},
	}
	return r, nil
}

// Table returns the current Table.
func (r *Router) Table() command.Table {
	r.RLock()
	defer r.RUnlock()
	return r.table
}

// SetTable replaces the Table.
func (r *Router) SetTable(t command.Table) {
	r.Lock()
	r.table = t
	r.Unlock()
	r.logf("SetTable %d commands", len(t))
}

func (r *Router) logf(format string, args ...interface{}) {
	if r.Debug {
		log.Printf("Router."+format, args...)
	}
}

// Dispatch runs the first Command that matches the message.
//
// Returns nil and no error if nothing matches and there's no
// DefaultReply.
func (r *Router) Dispatch(ctx context.Context, m *Message) (*Reply, error) {
	c, matched := r.Table().Find(m.Text)
	if c == nil {
		r.logf("Dispatch no match for %q", m.Text)
		if r.DefaultReply == "" {
			return nil, nil
		}
		reply := NewReply(command.Markdown, command.Render(r.DefaultReply, m.Env()))
		reply.To = m.Chat
		reply.InReplyTo = m.ID
		return reply, nil
	}

	r.logf("Dispatch %q matched %q", m.Text, c.Name())

	env := command.ToEnv(command.MergeEnvs(command.MergeEnvs(r.Env, m.Env()), matched))

	runner, have := r.Runners[c.Kind()]
	if !have {
		return nil, ErrNoRunner
	}

	reply, err := runner.Run(ctx, c, env)
	if err != nil {
		return nil, err
	}
	if reply != nil {
		reply.Command = c.Name()
		reply.To = m.Chat
		reply.InReplyTo = m.ID
	}
	return reply, nil
}

// EchoRunner replies with an Echo's rendered text.
type EchoRunner struct{}

func (EchoRunner) Run(ctx context.Context, c *command.Command, env command.Env) (*Reply, error) {
	echo, is := c.Variant().(command.Echo)
	if !is {
		return nil, ErrNoRunner
	}
	return NewReply(command.Markdown, command.Render(echo.Reply, env)), nil
}
