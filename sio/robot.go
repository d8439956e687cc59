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

package sio

import (
	"context"
	"log"

	"github.com/Comcast/wxrobot/command"
	"github.com/Comcast/wxrobot/dispatch"

	"github.com/google/uuid"
)

// RobotConf provides some basic Robot parameters.
type RobotConf struct {
	// HaltOnInputEOF will stop the Loop when the Couplings say
	// their input is done.
	HaltOnInputEOF bool

	// ReplyErrors sends a plain-text reply describing a command's
	// failure.  Otherwise failures are only logged.
	ReplyErrors bool
}

// Robot dispatches messages from its Couplings' input channel and
// sends replies to their output channel.
type Robot struct {
	Router *dispatch.Router

	Conf *RobotConf

	// Verbose turns on logging.
	Verbose bool

	in   chan *dispatch.Message
	out  chan *dispatch.Reply
	done chan bool
}

// NewRobot makes a Robot with IO from the given Couplings.
func NewRobot(ctx context.Context, conf *RobotConf, router *dispatch.Router, io Couplings) (*Robot, error) {
	if conf == nil {
		conf = &RobotConf{}
	}
	in, out, done, err := io.IO(ctx)
	if err != nil {
		return nil, err
	}
	return &Robot{
		Router: router,
		Conf:   conf,
		in:     in,
		out:    out,
		done:   done,
	}, nil
}

func (r *Robot) Logf(format string, args ...interface{}) {
	if r.Verbose {
		log.Printf(format, args...)
	}
}

// Process dispatches one message.  Returns nil if there's nothing to
// say.
func (r *Robot) Process(ctx context.Context, m *dispatch.Message) *dispatch.Reply {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.Logf("Robot.Process %s %s", m.ID, JShort(m.Text))
	reply, err := r.Router.Dispatch(ctx, m)
	if err != nil {
		log.Printf("Robot.Process %s %s error %v", m.ID, JShort(m.Text), err)
		if !r.Conf.ReplyErrors {
			return nil
		}
		reply = dispatch.NewReply(command.PlainText, err.Error())
		reply.To = m.Chat
		reply.InReplyTo = m.ID
	}
	return reply
}

// Loop processes messages until the context is done, the input
// channel is closed, or (with HaltOnInputEOF) input is done.
func (r *Robot) Loop(ctx context.Context) error {
	r.Logf("Robot.Loop starting")
	done := r.done
LOOP:
	for {
		select {
		case <-done:
			if r.Conf.HaltOnInputEOF {
				r.Logf("Robot.Loop shutting down (done)")
				break LOOP
			}
			done = nil
		case <-ctx.Done():
			r.Logf("Robot.Loop shutting down (ctx.Done)")
			break LOOP
		case m, ok := <-r.in:
			if !ok || m == nil {
				break LOOP
			}
			reply := r.Process(ctx, m)
			if reply == nil {
				continue
			}
			select {
			case <-ctx.Done():
			case r.out <- reply:
			}
		}
	}

	r.Logf("Robot.Loop done")
	return nil
}
