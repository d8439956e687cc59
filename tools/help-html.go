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

// Package tools renders command Tables for people.
package tools

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/Comcast/wxrobot/command"

	md "github.com/russross/blackfriday/v2"
)

// HelpMarkdown lists the Table's visible commands as Markdown, one
// list item per command, between the (optional) prefix and suffix.
func HelpMarkdown(t command.Table, prefix, suffix string) string {
	lines := make([]string, 0, len(t)+2)
	if prefix != "" {
		lines = append(lines, prefix)
	}
	for _, desc := range t.Visible() {
		lines = append(lines, "- "+desc)
	}
	if suffix != "" {
		lines = append(lines, suffix)
	}
	return strings.Join(lines, "\n")
}

// RenderHelpHTML writes an HTML fragment describing the Table's
// visible commands.
func RenderHelpHTML(t command.Table, out io.Writer) error {
	f := func(format string, args ...interface{}) error {
		_, err := fmt.Fprintf(out, format+"\n", args...)
		return err
	}

	if err := f(`<div class="commands"><table>`); err != nil {
		return err
	}
	for _, c := range t {
		desc, visible := c.VisibleDescription()
		if !visible {
			continue
		}
		f(`<tr class="command">`)
		f(`<td><code class="pattern">%s</code></td>`, html.EscapeString(c.Pattern()))
		f(`<td><span class="kind">%s</span></td>`, c.Kind())
		f(`<td><div class="doc">%s</div></td>`, md.Run([]byte(desc)))
		f(`</tr>`)
	}
	return f(`</table></div>`)
}

// RenderHelpPage writes a complete HTML page for the Table.
func RenderHelpPage(t command.Table, title string, out io.Writer, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/help.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, html.EscapeString(title))

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, html.EscapeString(title))

	if err := RenderHelpHTML(t, out); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, `
  </body>
</html>
`)
	return err
}
