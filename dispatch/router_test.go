package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Comcast/wxrobot/command"
	. "github.com/Comcast/wxrobot/util/testutil"
)

func newRouter(t *testing.T, doc string) *Router {
	t.Helper()
	table := command.Parse(Dwimjs(doc))
	r, err := NewRouter(table, time.Second, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestDispatchEcho(t *testing.T) {
	r := newRouter(t, `{"^hi (?P<name>\\w+)$":{"type":"echo","echo":"Hello {{WXWORK_ROBOT_CMD_NAME}} from {{WXWORK_ROBOT_MSG_FROM}}"}}`)

	reply, err := r.Dispatch(context.Background(), &Message{Text: "hi bob", From: "alice", Chat: "c1"})
	if err != nil {
		t.Fatal(err)
	}
	if reply == nil {
		t.Fatal("no reply")
	}
	if reply.Text != "Hello bob from alice" || reply.Kind != command.Markdown || reply.Type != "markdown" {
		t.Fatal(JS(reply))
	}
	if reply.To != "c1" || reply.Command != `^hi (?P<name>\w+)$` {
		t.Fatal(JS(reply))
	}
}

func TestDispatchNoMatch(t *testing.T) {
	r := newRouter(t, `{"^hi$":{"type":"echo"}}`)
	ctx := context.Background()

	reply, err := r.Dispatch(ctx, &Message{Text: "bye"})
	if err != nil || reply != nil {
		t.Fatal(reply, err)
	}

	r.DefaultReply = "I don't understand {{WXWORK_ROBOT_MSG_CONTENT}}"
	reply, err = r.Dispatch(ctx, &Message{Text: "bye"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "I don't understand bye" || reply.Command != "" {
		t.Fatal(JS(reply))
	}
}

func TestDispatchEnvPrecedence(t *testing.T) {
	r := newRouter(t, `{"^x(?P<team>.*)$":{"type":"echo","echo":"{{WXWORK_ROBOT_CMD_TEAM}}/{{WXWORK_ROBOT_CMD_ZONE}}/{{WXWORK_ROBOT_MSG_FROM}}","env":{"zone":"z1"}}}`)
	r.Env = map[string]interface{}{
		"WXWORK_ROBOT_CMD_ZONE": "base",
		"WXWORK_ROBOT_MSG_FROM": "base",
		"WXWORK_ROBOT_CMD_TEAM": "base",
		"IGNORED":               []interface{}{1},
	}

	reply, err := r.Dispatch(context.Background(), &Message{Text: "xops", From: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "ops/z1/alice" {
		t.Fatal(reply.Text)
	}
}

func TestDispatchHelp(t *testing.T) {
	r := newRouter(t, `{
  "^help$":  {"type":"help","prefix":"Hi {{WXWORK_ROBOT_MSG_FROM}}:","description":"This help"},
  "^ping$":  {"type":"echo","echo":"pong","description":"Ping"},
  "^quiet$": {"type":"echo","hidden":true}
}`)
	reply, err := r.Dispatch(context.Background(), &Message{Text: "help", From: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	// A map document is sorted by name.
	if reply.Text != "Hi alice:\n- This help\n- Ping" {
		t.Fatalf("%q", reply.Text)
	}
}

func TestDispatchNoRunner(t *testing.T) {
	r := newRouter(t, `{"^hi$":{"type":"echo"}}`)
	delete(r.Runners, command.KindEcho)
	if _, err := r.Dispatch(context.Background(), &Message{Text: "hi"}); !errors.Is(err, ErrNoRunner) {
		t.Fatal(err)
	}
}

func TestDispatchCustomRunner(t *testing.T) {
	r := newRouter(t, `{"^hi$":{"type":"echo"}}`)
	r.Runners[command.KindEcho] = RunnerFunc(func(ctx context.Context, c *command.Command, env command.Env) (*Reply, error) {
		return NewReply(command.PlainText, "custom "+env[command.EnvPrefix]), nil
	})
	reply, err := r.Dispatch(context.Background(), &Message{Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "custom hi" || reply.Type != "text" {
		t.Fatal(JS(reply))
	}
}

func TestMessageEnv(t *testing.T) {
	env := (&Message{Text: "x"}).Env()
	if len(env) != 1 || env["WXWORK_ROBOT_MSG_CONTENT"] != "x" {
		t.Fatal(JS(env))
	}
}

func TestRouterSetTable(t *testing.T) {
	r := newRouter(t, `{"^help$":{"type":"help"},"^ping$":{"type":"echo","echo":"pong"}}`)
	ctx := context.Background()

	r.SetTable(command.Parse(Dwimjs(`{"^help$":{"type":"help"},"^pong$":{"type":"echo","echo":"ping"}}`)))

	if reply, err := r.Dispatch(ctx, &Message{Text: "ping"}); err != nil || reply != nil {
		t.Fatal(reply, err)
	}

	reply, err := r.Dispatch(ctx, &Message{Text: "pong"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "ping" {
		t.Fatal(JS(reply))
	}

	// The help listing follows the new Table too.
	if reply, err = r.Dispatch(ctx, &Message{Text: "help"}); err != nil {
		t.Fatal(err)
	}
	if reply.Text != "- ^help$\n- ^pong$" {
		t.Fatalf("%q", reply.Text)
	}
}
