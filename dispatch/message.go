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

// Package dispatch routes chat messages to commands and runs them.
//
// A Router finds the first Command in its Table that matches a
// message and hands the Command and the match's Env to the Runner for
// the Command's Kind.  The Runners here do the IO that package
// command never does: spawning processes and making HTTP requests.
package dispatch

import (
	"github.com/Comcast/wxrobot/command"
)

// Message is an in-bound chat message.
type Message struct {
	// ID identifies the message.  A Robot assigns a random ID to a
	// message that doesn't have one.
	ID string `json:"id,omitempty"`

	// Text is what's matched against the Table.
	Text string `json:"text"`

	// From identifies the sender, if known.
	From string `json:"from,omitempty"`

	// Chat identifies the conversation, if known.
	Chat string `json:"chat,omitempty"`
}

// Env returns the message's metadata as environment variables.
func (m *Message) Env() command.Env {
	env := command.Env{
		"WXWORK_ROBOT_MSG_CONTENT": m.Text,
	}
	if m.ID != "" {
		env["WXWORK_ROBOT_MSG_ID"] = m.ID
	}
	if m.From != "" {
		env["WXWORK_ROBOT_MSG_FROM"] = m.From
	}
	if m.Chat != "" {
		env["WXWORK_ROBOT_MSG_CHAT_ID"] = m.Chat
	}
	return env
}

// Reply is an out-bound chat message.
type Reply struct {
	// Kind says how to present the Text.
	Kind command.OutputType `json:"-"`

	// Type is Kind's name ("markdown", "text", or "image").
	Type string `json:"type"`

	Text string `json:"text"`

	// Command is the name of the Command that produced the reply,
	// if any.
	Command string `json:"command,omitempty"`

	// To is the Message's Chat.
	To string `json:"to,omitempty"`

	// InReplyTo is the Message's ID.
	InReplyTo string `json:"inReplyTo,omitempty"`
}

// NewReply makes a Reply of the given kind.
func NewReply(kind command.OutputType, text string) *Reply {
	return &Reply{
		Kind: kind,
		Type: kind.String(),
		Text: text,
	}
}
