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

	"github.com/Comcast/wxrobot/command"
	"github.com/Comcast/wxrobot/tools"
)

// HelpRunner replies with a listing of the visible commands of the
// Table that Table returns.
type HelpRunner struct {
	Table func() command.Table
}

func (h *HelpRunner) Run(ctx context.Context, c *command.Command, env command.Env) (*Reply, error) {
	help, is := c.Variant().(command.Help)
	if !is {
		return nil, ErrNoRunner
	}
	text := tools.HelpMarkdown(h.Table(), command.Render(help.Prefix, env), command.Render(help.Suffix, env))
	return NewReply(command.Markdown, text), nil
}
