package tools

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Comcast/wxrobot/command"
	. "github.com/Comcast/wxrobot/util/testutil"
)

func table() command.Table {
	return command.Parse(command.Declarations{
		{Name: `^deploy (?P<service>\S+)$`, Value: Dwimjs(`{"type":"spawn","exec":"deploy.sh","description":"Deploys a *service*"}`)},
		{Name: `^secret$`, Value: Dwimjs(`{"type":"echo","hidden":true,"description":"hush"}`)},
		{Name: `^ping$`, Value: Dwimjs(`{"type":"echo","echo":"pong"}`)},
	})
}

func TestHelpMarkdown(t *testing.T) {
	got := HelpMarkdown(table(), "Commands:", "Ask #ops for more.")
	want := "Commands:\n- Deploys a *service*\n- ^ping$\nAsk #ops for more."
	if got != want {
		t.Fatalf("got %q", got)
	}

	if got = HelpMarkdown(table(), "", ""); got != "- Deploys a *service*\n- ^ping$" {
		t.Fatalf("got %q", got)
	}

	if got = HelpMarkdown(nil, "", ""); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderHelpPage(t *testing.T) {
	out := &bytes.Buffer{}
	if err := RenderHelpPage(table(), "ops robot", out, []string{"help.css"}); err != nil {
		t.Fatal(err)
	}
	page := out.String()

	for _, want := range []string{
		"<title>ops robot</title>",
		`href="help.css"`,
		"<em>service</em>",
		`<span class="kind">spawn</span>`,
		"^deploy (?P&lt;service&gt;\\S+)$",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("missing %q in\n%s", want, page)
		}
	}
	if strings.Contains(page, "hush") {
		t.Fatal("hidden command rendered")
	}
}
