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
	"strings"
)

// DefaultEcho is the reply for echo and http commands that don't
// specify one.  It's also the default http "post" body.
const DefaultEcho = "Ok"

// Kind identifies a Variant.
type Kind int

const (
	KindEcho Kind = iota
	KindSpawn
	KindHTTP
	KindHelp
)

func (k Kind) String() string {
	switch k {
	case KindEcho:
		return "echo"
	case KindSpawn:
		return "spawn"
	case KindHTTP:
		return "http"
	case KindHelp:
		return "help"
	}
	return "unknown"
}

// Variant is what a Command does.  The set of implementations is
// closed: Echo, Spawn, HTTP, and Help.
type Variant interface {
	Kind() Kind

	variant()
}

// Echo replies with fixed (templated) text.
type Echo struct {
	Reply string
}

func (Echo) Kind() Kind { return KindEcho }
func (Echo) variant()   {}

// OutputType says how to present a Spawn's output.
type OutputType int

const (
	Markdown OutputType = iota
	PlainText
	Image
)

func (t OutputType) String() string {
	switch t {
	case PlainText:
		return "text"
	case Image:
		return "image"
	}
	return "markdown"
}

// ParseOutputType maps "text" and "image" (case-insensitively) to
// PlainText and Image.  Anything else is Markdown.
func ParseOutputType(s string) OutputType {
	switch strings.ToLower(s) {
	case "text":
		return PlainText
	case "image":
		return Image
	}
	return Markdown
}

// Spawn runs a process.
type Spawn struct {
	Exec   string
	Cwd    string
	Output OutputType

	args []string
}

func (Spawn) Kind() Kind { return KindSpawn }
func (Spawn) variant()   {}

// Args returns a copy of the process arguments.
func (s Spawn) Args() []string {
	acc := make([]string, len(s.args))
	copy(acc, s.args)
	return acc
}

// Method is an HTTP method for an HTTP command.
type Method int

const (
	// Auto means POST if the command has a post body and GET
	// otherwise.
	Auto Method = iota
	Get
	Post
	Delete
	Head
	Put
)

func (m Method) String() string {
	switch m {
	case Get:
		return "GET"
	case Post:
		return "POST"
	case Delete:
		return "DELETE"
	case Head:
		return "HEAD"
	case Put:
		return "PUT"
	}
	return "AUTO"
}

// ParseMethod maps a method name (case-insensitively) to a Method.
// Unknown names give Auto.
func ParseMethod(s string) Method {
	switch strings.ToLower(s) {
	case "get":
		return Get
	case "post":
		return Post
	case "delete":
		return Delete
	case "head":
		return Head
	case "put":
		return Put
	}
	return Auto
}

// HTTP makes an HTTP request.
type HTTP struct {
	URL         string
	Echo        string
	Post        string
	Method      Method
	ContentType string

	headers map[string]string
}

func (HTTP) Kind() Kind { return KindHTTP }
func (HTTP) variant()   {}

// Headers returns a copy of the request headers.
func (h HTTP) Headers() map[string]string {
	acc := make(map[string]string, len(h.headers))
	for k, v := range h.headers {
		acc[k] = v
	}
	return acc
}

// Help lists the visible commands between a prefix and a suffix.
type Help struct {
	Prefix string
	Suffix string
}

func (Help) Kind() Kind { return KindHelp }
func (Help) variant()   {}

// ParseVariant reads the variant-specific properties of the
// declaration x named name.
func ParseVariant(name string, x interface{}) (Variant, error) {
	if _, is := x.(map[string]interface{}); !is {
		return nil, &NotAnObject{Name: name, Value: x}
	}

	typ, have := ReadString(x, "type")
	if !have {
		return nil, &MissingField{Name: name, Field: "type"}
	}

	switch typ {
	case "echo":
		return Echo{
			Reply: readStringOr(x, "echo", DefaultEcho),
		}, nil

	case "spawn":
		exec, have := ReadString(x, "exec")
		if !have {
			return nil, &MissingField{Name: name, Type: typ, Field: "exec"}
		}
		var args []string
		if xs, have := ReadArray(x, "args"); have {
			args = make([]string, 0, len(xs))
			for _, v := range xs {
				args = append(args, Stringify(v))
			}
		}
		return Spawn{
			Exec:   exec,
			Cwd:    readStringOr(x, "cwd", ""),
			Output: ParseOutputType(readStringOr(x, "output_type", "")),
			args:   args,
		}, nil

	case "http":
		url, have := ReadString(x, "url")
		if !have {
			return nil, &MissingField{Name: name, Type: typ, Field: "url"}
		}
		headers := make(map[string]string)
		if m, have := ReadObject(x, "headers"); have {
			for k, v := range m {
				headers[k] = Stringify(v)
			}
		}
		return HTTP{
			URL:         url,
			Echo:        readStringOr(x, "echo", DefaultEcho),
			Post:        readStringOr(x, "post", DefaultEcho),
			Method:      ParseMethod(readStringOr(x, "method", "")),
			ContentType: readStringOr(x, "content_type", ""),
			headers:     headers,
		}, nil

	case "help":
		return Help{
			Prefix: readStringOr(x, "prefix", ""),
			Suffix: readStringOr(x, "suffix", ""),
		}, nil
	}

	return nil, &UnknownType{Name: name, Type: typ}
}
