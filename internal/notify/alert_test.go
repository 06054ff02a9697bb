package notify

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNotifySendArgs(t *testing.T) {
	a := AlertForTask(testTask())
	args := notifySendArgs(a, 30*time.Second)
	joined := strings.Join(args, " ")
	for _, want := range []string{"--app-name=remindd", "--expire-time=30000", "--action=complete=Done", "--action=dismiss=Later", "--wait"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in %q", want, joined)
		}
	}
	if args[len(args)-2] != "Task due" || args[len(args)-1] != a.Body {
		t.Fatalf("title/body must be the trailing args, got %q", args)
	}

	noActions := notifySendArgs(Alert{Title: "t", Body: "b"}, 0)
	if strings.Contains(strings.Join(noActions, " "), "--wait") {
		t.Fatal("did not expect --wait without actions")
	}
}

func TestExecAlerterReportsChosenAction(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("notify-send path is linux only")
	}
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}
	alerter := NewExecAlerter(time.Second, zerolog.Nop())
	alerter.command = func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "echo", ActionComplete)
	}

	got := make(chan ActionEvent, 1)
	task := testTask()
	if err := alerter.Show(t.Context(), AlertForTask(task), func(ev ActionEvent) { got <- ev }); err != nil {
		t.Fatalf("show: %v", err)
	}
	select {
	case ev := <-got:
		if ev.TaskID != task.ID || ev.Action != ActionComplete {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for action")
	}
}

func TestEscapeAppleScript(t *testing.T) {
	cases := map[string]string{
		`plain`:         `plain`,
		`say "hi"`:      `say \"hi\"`,
		`C:\temp\`:      `C:\\temp\\`,
		`end \"quoted"`: `end \\\"quoted\"`,
	}
	for in, want := range cases {
		if got := escapeAppleScript(in); got != want {
			t.Fatalf("escapeAppleScript(%q) = %q, want %q", in, got, want)
		}
	}
}
