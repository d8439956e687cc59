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

// Package config loads robot settings and command declaration
// documents.
//
// Both kinds of documents can be JSON or YAML.  A document that
// starts with '{' is JSON; anything else is YAML.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/Comcast/wxrobot/command"

	"github.com/joho/godotenv"
	"github.com/jsccast/yaml"
)

var (
	// DefaultHTTPTimeout bounds an http command's request when the
	// Settings don't say otherwise.
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultSpawnTimeout bounds a spawn command's process when
	// the Settings don't say otherwise.
	DefaultSpawnTimeout = 30 * time.Second

	// DefaultBucket is the bbolt bucket for command documents.
	DefaultBucket = "commands"

	ErrEmpty = errors.New("empty document")
)

// Settings configures a robot.
type Settings struct {
	// Name identifies the robot.  When commands are stored in a
	// bbolt database, Name is the key of the robot's command
	// document.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// CommandsFilename is an optional file containing a command
	// declaration document.
	CommandsFilename string `json:"commands,omitempty" yaml:"commands,omitempty"`

	// BoltFilename is an optional bbolt database that holds
	// command declaration documents.
	BoltFilename string `json:"bolt,omitempty" yaml:"bolt,omitempty"`

	// Bucket is the bbolt bucket for command documents.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// HTTPTimeout is a duration string ("10s") for http
	// commands.
	HTTPTimeout string `json:"httpTimeout,omitempty" yaml:"httpTimeout,omitempty"`

	// SpawnTimeout is a duration string for spawn commands.
	SpawnTimeout string `json:"spawnTimeout,omitempty" yaml:"spawnTimeout,omitempty"`

	// DefaultReply, if not empty, is the reply to a message that
	// matches no command.
	DefaultReply string `json:"defaultReply,omitempty" yaml:"defaultReply,omitempty"`

	// Env is a base environment for every command.  Only scalar
	// values are used.
	Env map[string]interface{} `json:"env,omitempty" yaml:"env,omitempty"`

	// Dotenv is an optional file of KEY=VALUE lines that extends
	// the base environment.  Env overrides it.
	Dotenv string `json:"dotenv,omitempty" yaml:"dotenv,omitempty"`
}

// ParseSettings parses JSON or YAML Settings.
func ParseSettings(body []byte) (*Settings, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmpty
	}

	var s Settings
	var err error
	switch body[0] {
	case '{':
		err = json.Unmarshal(body, &s)
	default:
		err = yaml.Unmarshal(body, &s)
	}
	if err != nil {
		return nil, err
	}
	if s.Bucket == "" {
		s.Bucket = DefaultBucket
	}
	return &s, nil
}

// LoadSettings reads Settings from a file.
func LoadSettings(filename string) (*Settings, error) {
	body, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseSettings(body)
}

// Timeouts returns the http and spawn timeouts.
func (s *Settings) Timeouts() (httpTimeout time.Duration, spawnTimeout time.Duration, err error) {
	httpTimeout, spawnTimeout = DefaultHTTPTimeout, DefaultSpawnTimeout
	if s.HTTPTimeout != "" {
		if httpTimeout, err = time.ParseDuration(s.HTTPTimeout); err != nil {
			return
		}
	}
	if s.SpawnTimeout != "" {
		if spawnTimeout, err = time.ParseDuration(s.SpawnTimeout); err != nil {
			return
		}
	}
	return
}

// BaseEnv returns the base environment for every command: the
// Dotenv file's variables (if any) overridden by Env.
func (s *Settings) BaseEnv() (map[string]interface{}, error) {
	base := make(map[string]interface{})
	if s.Dotenv != "" {
		vars, err := godotenv.Read(s.Dotenv)
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			base[k] = v
		}
	}
	return command.MergeEnvs(base, s.Env).(map[string]interface{}), nil
}

// Dump renders the Settings as YAML.
func (s *Settings) Dump() ([]byte, error) {
	return yaml.Marshal(s)
}
