package notify

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/remindd/internal/model"
)

const (
	ActionComplete = "complete"
	ActionDismiss  = "dismiss"
)

type Action struct {
	Key   string
	Label string
}

type Alert struct {
	TaskID  string
	Title   string
	Body    string
	Actions []Action
}

// ActionEvent is delivered when the user picks an action on an alert. It
// arrives on an arbitrary goroutine.
type ActionEvent struct {
	TaskID string
	Action string
}

type Alerter interface {
	Show(ctx context.Context, a Alert, onAction func(ActionEvent)) error
}

func AlertForTask(t model.Task) Alert {
	return Alert{
		TaskID: t.ID,
		Title:  "Task due",
		Body:   fmt.Sprintf("%s — %s", t.Name, t.DueDisplay()),
		Actions: []Action{
			{Key: ActionComplete, Label: "Done"},
			{Key: ActionDismiss, Label: "Later"},
		},
	}
}

type NoopAlerter struct{}

func (NoopAlerter) Show(context.Context, Alert, func(ActionEvent)) error { return nil }

// ExecAlerter shows desktop notifications through notify-send on linux and
// osascript on darwin. Only notify-send reports actions back.
type ExecAlerter struct {
	// Expire bounds how long notify-send waits for an action.
	Expire time.Duration
	Log    zerolog.Logger

	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewExecAlerter(expire time.Duration, log zerolog.Logger) *ExecAlerter {
	return &ExecAlerter{Expire: expire, Log: log, command: exec.CommandContext}
}

func (e *ExecAlerter) Show(ctx context.Context, a Alert, onAction func(ActionEvent)) error {
	switch runtime.GOOS {
	case "linux":
		return e.showNotifySend(a, onAction)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(a.Body), escapeAppleScript(a.Title))
		return e.cmd(ctx, "osascript", "-e", script).Run()
	default:
		return nil
	}
}

func (e *ExecAlerter) showNotifySend(a Alert, onAction func(ActionEvent)) error {
	// The alert outlives the tick that raised it, so it gets its own context.
	waitCtx := context.Background()
	cancel := context.CancelFunc(func() {})
	if e.Expire > 0 {
		waitCtx, cancel = context.WithTimeout(waitCtx, e.Expire)
	}

	cmd := e.cmd(waitCtx, "notify-send", notifySendArgs(a, e.Expire)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("notify-send stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("notify-send start: %w", err)
	}

	go func() {
		defer cancel()
		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			key := strings.TrimSpace(sc.Text())
			if key == "" {
				continue
			}
			if onAction != nil {
				onAction(ActionEvent{TaskID: a.TaskID, Action: key})
			}
		}
		if err := cmd.Wait(); err != nil && waitCtx.Err() == nil {
			e.Log.Debug().Err(err).Str("task_id", a.TaskID).Msg("notify-send exited with error")
		}
	}()
	return nil
}

func (e *ExecAlerter) cmd(ctx context.Context, name string, args ...string) *exec.Cmd {
	if e.command == nil {
		return exec.CommandContext(ctx, name, args...)
	}
	return e.command(ctx, name, args...)
}

func notifySendArgs(a Alert, expire time.Duration) []string {
	args := []string{"--app-name=remindd", "--urgency=normal"}
	if expire > 0 {
		args = append(args, fmt.Sprintf("--expire-time=%d", expire.Milliseconds()))
	}
	for _, act := range a.Actions {
		args = append(args, fmt.Sprintf("--action=%s=%s", act.Key, act.Label))
	}
	if len(a.Actions) > 0 {
		args = append(args, "--wait")
	}
	return append(args, a.Title, a.Body)
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
