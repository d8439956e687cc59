/* Copyright 2019 Comcast Cable Communications Management, LLC
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

package sio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Comcast/wxrobot/dispatch"
)

// Stdio is a fairly simple Couplings that uses stdin for input and
// stdout for output.
//
// Each input line is a message.  A line that starts with '{' is
// parsed as a JSON dispatch.Message; any other line is the message's
// text.
type Stdio struct {
	// In is coupled to robot input.
	In io.Reader

	// Out is coupled to robot output.
	Out io.Writer

	// From is the sender for plain-text input lines.
	From string

	// ShellExpand enables input to include inline shell commands
	// delimited by '<<' and '>>'.  Use at your own risk, of
	// course!
	ShellExpand bool

	// Timestamps prepends a timestamp to each output line.
	Timestamps bool

	// EchoInput writes input lines (prepended with "input") to
	// the output.
	EchoInput bool

	// Tags prefixes tags indicating type of output ("input",
	// "reply").
	Tags bool

	// PadTags adds some padding to tags.
	PadTags bool

	// JSON writes replies as JSON rather than as their text.
	JSON bool

	// InputEOF will be closed on EOF from stdin.
	InputEOF chan bool

	WG sync.WaitGroup
}

// NewStdio creates a new Stdio.
//
// In and Out are initialized with os.Stdin and os.Stdout
// respectively.
func NewStdio(shellExpand bool) *Stdio {
	return &Stdio{
		In:          os.Stdin,
		Out:         os.Stdout,
		ShellExpand: shellExpand,
		InputEOF:    make(chan bool),
	}
}

// Start does nothing.
func (s *Stdio) Start(ctx context.Context) error {
	return nil
}

// Stop waits until IO is complete or was terminated via its context.
func (s *Stdio) Stop(ctx context.Context) error {
	s.WG.Wait()
	return nil
}

// parseLine makes a Message from an input line.  Returns nil for
// blank lines and comments.
func (s *Stdio) parseLine(line string) (*dispatch.Message, error) {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") || len(trimmed) == 0 {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var m dispatch.Message
		if err := json.Unmarshal([]byte(trimmed), &m); err != nil {
			return nil, err
		}
		return &m, nil
	}
	return &dispatch.Message{
		Text: trimmed,
		From: s.From,
	}, nil
}

// IO returns channels for reading from stdin and writing to stdout.
func (s *Stdio) IO(ctx context.Context) (chan *dispatch.Message, chan *dispatch.Reply, chan bool, error) {
	in := make(chan *dispatch.Message)
	done := make(chan bool)

	printf := func(tag, format string, args ...interface{}) {
		if s.PadTags {
			tag = fmt.Sprintf("% 10s", tag)
		}
		if s.Tags {
			format = tag + " " + format
		}
		if s.Timestamps {
			ts := fmt.Sprintf("%-31s", time.Now().UTC().Format(time.RFC3339Nano))
			format = ts + " " + format
		}

		fmt.Fprintf(s.Out, format, args...)
	}

	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		stdin := bufio.NewReader(s.In)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				line, err := stdin.ReadString('\n')
				if (err == io.EOF && line == "") || strings.TrimSpace(line) == "quit" {
					close(done)
					if s.InputEOF != nil {
						close(s.InputEOF)
					}
					return
				}
				if err != nil && err != io.EOF {
					log.Printf("stdin error %s", err)
					return
				}
				if s.EchoInput {
					printf("input", "%s\n", strings.TrimRight(line, "\r\n"))
				}
				if s.ShellExpand {
					if line, err = ShellExpand(line); err != nil {
						log.Printf("stdin error %s", err)
						return
					}
				}

				m, perr := s.parseLine(line)
				if perr != nil {
					fmt.Fprintf(os.Stderr, "bad input: %s\n", perr)
					continue
				}
				if m != nil {
					select {
					case <-ctx.Done():
						return
					case in <- m:
					}
				}
				if err == io.EOF {
					// Last line without a newline.
					close(done)
					if s.InputEOF != nil {
						close(s.InputEOF)
					}
					return
				}
			}
		}
	}()

	out := make(chan *dispatch.Reply)

	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-out:
				if r == nil {
					return
				}
				if s.JSON {
					printf("reply", "%s\n", JS(r))
				} else {
					printf("reply", "%s\n", r.Text)
				}
			}
		}
	}()

	return in, out, done, nil
}
