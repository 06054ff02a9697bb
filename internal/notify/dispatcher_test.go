package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/remindd/internal/model"
)

type fakeAlerter struct {
	shown []Alert
	err   error
	panic bool
}

func (f *fakeAlerter) Show(_ context.Context, a Alert, _ func(ActionEvent)) error {
	if f.panic {
		panic("toast backend crashed")
	}
	f.shown = append(f.shown, a)
	return f.err
}

type fakeMailer struct {
	sent []Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, m Message) error {
	f.sent = append(f.sent, m)
	return f.err
}

func testTask() model.Task {
	task := model.NewTask("Pay rent", time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local))
	return task
}

func TestDispatchSendsBothChannels(t *testing.T) {
	alerter := &fakeAlerter{}
	mailer := &fakeMailer{}
	d := NewDispatcher(alerter, mailer, 6*time.Hour, zerolog.Nop())

	task := testTask()
	rep := d.Dispatch(t.Context(), task)
	if rep.AlertErr != nil || rep.MailErr != nil {
		t.Fatalf("unexpected errors: %+v", rep)
	}
	if len(alerter.shown) != 1 || alerter.shown[0].TaskID != task.ID {
		t.Fatalf("unexpected alerts: %+v", alerter.shown)
	}
	if alerter.shown[0].Body != "Pay rent — 09/02/2026" {
		t.Fatalf("unexpected alert body: %q", alerter.shown[0].Body)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].Subject != "Task reminder: Pay rent" {
		t.Fatalf("unexpected mail: %+v", mailer.sent)
	}
	if !strings.Contains(mailer.sent[0].Body, "6 hours") {
		t.Fatalf("expected cooldown in body: %q", mailer.sent[0].Body)
	}
}

func TestDispatchMailFailureDoesNotAffectAlert(t *testing.T) {
	alerter := &fakeAlerter{}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	d := NewDispatcher(alerter, mailer, 6*time.Hour, zerolog.Nop())

	rep := d.Dispatch(t.Context(), testTask())
	if rep.AlertErr != nil {
		t.Fatalf("unexpected alert error: %v", rep.AlertErr)
	}
	if rep.MailErr == nil || rep.MailErr.Error() != "smtp down" {
		t.Fatalf("expected mail error, got %v", rep.MailErr)
	}
	if len(alerter.shown) != 1 {
		t.Fatalf("expected alert shown, got %d", len(alerter.shown))
	}
}

func TestDispatchAlertFailureDoesNotBlockMail(t *testing.T) {
	for _, alerter := range []*fakeAlerter{{err: errors.New("no display")}, {panic: true}} {
		mailer := &fakeMailer{}
		d := NewDispatcher(alerter, mailer, 6*time.Hour, zerolog.Nop())
		rep := d.Dispatch(t.Context(), testTask())
		if rep.AlertErr == nil {
			t.Fatal("expected alert error to be reported")
		}
		if rep.MailErr != nil {
			t.Fatalf("unexpected mail error: %v", rep.MailErr)
		}
		if len(mailer.sent) != 1 {
			t.Fatalf("expected mail sent, got %d", len(mailer.sent))
		}
	}
}

func TestAlertForTaskCarriesCompleteAction(t *testing.T) {
	task := testTask()
	a := AlertForTask(task)
	if a.TaskID != task.ID {
		t.Fatalf("unexpected task id: %q", a.TaskID)
	}
	if len(a.Actions) != 2 || a.Actions[0].Key != ActionComplete || a.Actions[1].Key != ActionDismiss {
		t.Fatalf("unexpected actions: %+v", a.Actions)
	}
}
