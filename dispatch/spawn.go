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
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Comcast/wxrobot/command"
	"github.com/Comcast/wxrobot/util"
)

// SpawnRunner runs a Spawn's process and replies with its output.
//
// The process's arguments are rendered with the Env, and the Env is
// added to the process's environment.
type SpawnRunner struct {
	// Timeout, if not zero, bounds the process's run time.
	Timeout time.Duration
}

func (s *SpawnRunner) Run(ctx context.Context, c *command.Command, env command.Env) (*Reply, error) {
	spawn, is := c.Variant().(command.Spawn)
	if !is {
		return nil, ErrNoRunner
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	args := command.RenderAll(spawn.Args(), env)
	util.Logf("SpawnRunner %s %s %q", c.Name(), spawn.Exec, args)

	cmd := exec.CommandContext(ctx, spawn.Exec, args...)
	if spawn.Cwd != "" {
		cmd.Dir = command.Render(spawn.Cwd, env)
	}
	cmd.Env = append(os.Environ(), env.Environ()...)
	// Don't wait forever for grandchildren holding our pipes.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("spawn %s: %w: %s", spawn.Exec, err, strings.TrimSpace(stderr.String()))
	}

	text := stdout.String()
	if spawn.Output != command.Image {
		text = strings.TrimRight(text, "\n")
	}
	return NewReply(spawn.Output, text), nil
}
