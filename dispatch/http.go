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
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/Comcast/wxrobot/command"

	"golang.org/x/net/publicsuffix"
)

// HTTPResponseKey is the environment variable that holds an http
// command's response body when its echo text is rendered.
const HTTPResponseKey = "WXWORK_ROBOT_HTTP_RESPONSE"

// HTTPRunner makes an HTTP command's request and replies with the
// command's rendered echo text.
//
// The URL, post body, content type, and header values are rendered
// with the Env.
// Cookies persist across requests.
type HTTPRunner struct {
	Client *http.Client

	Debug bool
}

// NewHTTPRunner makes an HTTPRunner whose Client has a cookie jar
// and the given timeout.
func NewHTTPRunner(timeout time.Duration) (*HTTPRunner, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &HTTPRunner{
		Client: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}, nil
}

func (h *HTTPRunner) logf(format string, args ...interface{}) {
	if h.Debug {
		log.Printf(format, args...)
	}
}

// method resolves Auto: POST if the command has a post body (other
// than the default) and GET otherwise.
func method(cmd command.HTTP) string {
	if cmd.Method != command.Auto {
		return cmd.Method.String()
	}
	if cmd.Post != "" && cmd.Post != command.DefaultEcho {
		return http.MethodPost
	}
	return http.MethodGet
}

func (h *HTTPRunner) Run(ctx context.Context, c *command.Command, env command.Env) (*Reply, error) {
	cmd, is := c.Variant().(command.HTTP)
	if !is {
		return nil, ErrNoRunner
	}

	var (
		m    = method(cmd)
		url  = command.Render(cmd.URL, env)
		body io.Reader
	)
	if m == http.MethodPost || m == http.MethodPut {
		body = strings.NewReader(command.Render(cmd.Post, env))
	}

	req, err := http.NewRequestWithContext(ctx, m, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range cmd.Headers() {
		req.Header.Set(k, command.Render(v, env))
	}
	if cmd.ContentType != "" {
		req.Header.Set("Content-Type", command.Render(cmd.ContentType, env))
	}

	h.logf("HTTPRunner.Run %s %s", m, url)

	resp, err := h.Client.Do(req)
	if err != nil {
		h.logf("HTTPRunner.Run Do error %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	got, err := io.ReadAll(resp.Body)
	if err != nil {
		h.logf("HTTPRunner.Run ReadAll error %v", err)
		return nil, err
	}

	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		return nil, fmt.Errorf("%s %s: %s", m, url, resp.Status)
	}

	env = env.Copy()
	env[HTTPResponseKey] = string(got)

	return NewReply(command.Markdown, command.Render(cmd.Echo, env)), nil
}
