package dispatch

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/Comcast/wxrobot/command"
)

func requireSh(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh")
	}
}

func TestSpawnRunner(t *testing.T) {
	requireSh(t)

	r := newRouter(t, `{"^greet (?P<name>\\w+)$":{"type":"spawn","exec":"sh",
          "args":["-c","echo \"$0 $WXWORK_ROBOT_CMD_NAME $WXWORK_ROBOT_CMD_GREETING\"","{{WXWORK_ROBOT_CMD_NAME}}"],
          "env":{"greeting":"hello"},"output_type":"text"}}`)

	reply, err := r.Dispatch(context.Background(), &Message{Text: "greet bob"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "bob bob hello" || reply.Kind != command.PlainText {
		t.Fatalf("%q %v", reply.Text, reply.Kind)
	}
}

func TestSpawnRunnerCwd(t *testing.T) {
	requireSh(t)

	dir := t.TempDir()
	r := newRouter(t, `{"^pwd$":{"type":"spawn","exec":"sh","args":["-c","pwd"],"cwd":"{{DIR}}"}}`)
	r.Env = map[string]interface{}{"DIR": dir}

	reply, err := r.Dispatch(context.Background(), &Message{Text: "pwd"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(reply.Text, strings.TrimPrefix(dir, "/private")) {
		t.Fatalf("%q", reply.Text)
	}
}

func TestSpawnRunnerFailure(t *testing.T) {
	requireSh(t)

	r := newRouter(t, `{"^fail$":{"type":"spawn","exec":"sh","args":["-c","echo oops >&2; exit 3"]}}`)
	_, err := r.Dispatch(context.Background(), &Message{Text: "fail"})
	if err == nil || !strings.Contains(err.Error(), "oops") {
		t.Fatal(err)
	}
}

func TestSpawnRunnerTimeout(t *testing.T) {
	requireSh(t)

	r := newRouter(t, `{"^slow$":{"type":"spawn","exec":"sh","args":["-c","sleep 5"]}}`)
	r.Runners[command.KindSpawn] = &SpawnRunner{Timeout: 50 * time.Millisecond}

	then := time.Now()
	if _, err := r.Dispatch(context.Background(), &Message{Text: "slow"}); err == nil {
		t.Fatal("expected an error")
	}
	if 4*time.Second < time.Since(then) {
		t.Fatal("timeout ignored")
	}
}
