package sio

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Comcast/wxrobot/command"
	"github.com/Comcast/wxrobot/dispatch"
	"github.com/Comcast/wxrobot/util/testutil"

	"go.uber.org/goleak"
)

func run(t *testing.T, doc, input string, configure func(*Stdio, *RobotConf)) string {
	t.Helper()

	router, err := dispatch.NewRouter(command.Parse(testutil.Dwimjs(doc)), time.Second, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	s := NewStdio(false)
	s.In = strings.NewReader(input)
	s.Out = out
	s.From = "tester"

	conf := &RobotConf{HaltOnInputEOF: true}
	if configure != nil {
		configure(s, conf)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	r, err := NewRobot(ctx, conf, router, s)
	if err != nil {
		t.Fatal(err)
	}
	if err = r.Loop(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err = s.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	return out.String()
}

func TestStdioRobot(t *testing.T) {
	doc := `{"^hi (?P<name>\\w+)$":{"type":"echo","echo":"hello {{WXWORK_ROBOT_CMD_NAME}} ({{WXWORK_ROBOT_MSG_FROM}})"}}`
	input := "# a comment\n\nhi bob\nnothing matches this\n{\"text\":\"hi carol\",\"from\":\"dave\"}\nhi eve"

	got := run(t, doc, input, nil)
	want := "hello bob (tester)\nhello carol (dave)\nhello eve (tester)\n"
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestStdioQuit(t *testing.T) {
	defer goleak.VerifyNone(t)

	doc := `{"^hi$":{"type":"echo"}}`
	got := run(t, doc, "hi\nquit\nhi\n", nil)
	if got != "Ok\n" {
		t.Fatalf("got %q", got)
	}
}

func TestStdioJSONTags(t *testing.T) {
	doc := `{"^hi$":{"type":"echo","echo":"a<b"}}`
	got := run(t, doc, `{"id":"m1","text":"hi"}`+"\n", func(s *Stdio, _ *RobotConf) {
		s.JSON = true
		s.Tags = true
		s.EchoInput = true
	})
	want := "input {\"id\":\"m1\",\"text\":\"hi\"}\n" +
		"reply {\"type\":\"markdown\",\"text\":\"a<b\",\"command\":\"^hi$\",\"inReplyTo\":\"m1\"}\n"
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestRobotReplyErrors(t *testing.T) {
	doc := `{"^fail$":{"type":"spawn","exec":"/nonexistent/program"}}`

	if got := run(t, doc, "fail\n", nil); got != "" {
		t.Fatalf("got %q", got)
	}

	got := run(t, doc, "fail\n", func(_ *Stdio, conf *RobotConf) {
		conf.ReplyErrors = true
	})
	if !strings.Contains(got, "/nonexistent/program") {
		t.Fatalf("got %q", got)
	}
}

func TestShellExpand(t *testing.T) {
	got, err := ShellExpand("say <<echo hi>> there")
	if err != nil {
		t.Skip(err)
	}
	if got != "say hi there" {
		t.Fatalf("got %q", got)
	}
}

func TestRobotProcessLogsShortText(t *testing.T) {
	router, err := dispatch.NewRouter(command.Parse(testutil.Dwimjs(`{"^x+$":{"type":"echo"}}`)), time.Second, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	defer log.SetOutput(os.Stderr)

	r := &Robot{Router: router, Conf: &RobotConf{}, Verbose: true}
	if reply := r.Process(context.Background(), &dispatch.Message{ID: "m1", Text: strings.Repeat("x", 100)}); reply == nil {
		t.Fatal("no reply")
	}
	if !strings.Contains(buf.String(), "Robot.Process m1 ") || !strings.Contains(buf.String(), "...") {
		t.Fatal(buf.String())
	}
	if strings.Contains(buf.String(), strings.Repeat("x", 100)) {
		t.Fatal(buf.String())
	}
}

func TestJShort(t *testing.T) {
	if got := JShort(strings.Repeat("x", 100)); len(got) != 73 {
		t.Fatal(len(got))
	}
	if got := JS(nil); got != "null" {
		t.Fatal(got)
	}
}

func TestRobotProcessAssignsID(t *testing.T) {
	router, err := dispatch.NewRouter(command.Parse(testutil.Dwimjs(`{"^hi$":{"type":"echo","echo":"{{WXWORK_ROBOT_MSG_ID}}"}}`)), time.Second, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	r := &Robot{Router: router, Conf: &RobotConf{}}

	m := &dispatch.Message{Text: "hi"}
	reply := r.Process(context.Background(), m)
	if m.ID == "" || reply == nil {
		t.Fatal(JS(m), JS(reply))
	}
	if reply.Text != m.ID || reply.InReplyTo != m.ID {
		t.Fatal(JS(reply))
	}

	m = &dispatch.Message{ID: "given", Text: "hi"}
	if reply = r.Process(context.Background(), m); reply.InReplyTo != "given" {
		t.Fatal(JS(reply))
	}
}
