package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/remindd/internal/model"
)

// Report carries the per-channel outcome of one dispatch. Neither error is
// fatal.
type Report struct {
	AlertErr error
	MailErr  error
}

type Dispatcher struct {
	alerter  Alerter
	mailer   Mailer
	onAction func(ActionEvent)
	cooldown time.Duration
	log      zerolog.Logger
}

func NewDispatcher(alerter Alerter, mailer Mailer, cooldown time.Duration, log zerolog.Logger) *Dispatcher {
	if alerter == nil {
		alerter = NoopAlerter{}
	}
	if mailer == nil {
		mailer = NoopMailer{}
	}
	return &Dispatcher{alerter: alerter, mailer: mailer, cooldown: cooldown, log: log}
}

// OnAction sets the callback for alert actions. It must be set before the
// first dispatch.
func (d *Dispatcher) OnAction(fn func(ActionEvent)) {
	d.onAction = fn
}

// Dispatch sends the alert and the email for t. The two channels are
// independent: a failure (or panic) in one never prevents the other.
func (d *Dispatcher) Dispatch(ctx context.Context, t model.Task) Report {
	var rep Report

	rep.AlertErr = guard(func() error {
		return d.alerter.Show(ctx, AlertForTask(t), d.onAction)
	})
	if rep.AlertErr != nil {
		d.log.Debug().Err(rep.AlertErr).Str("task_id", t.ID).Msg("alert failed")
	}

	rep.MailErr = guard(func() error {
		return d.mailer.Send(ctx, MessageForTask(t, d.cooldown))
	})
	if rep.MailErr != nil {
		d.log.Warn().Err(rep.MailErr).Str("task_id", t.ID).Str("task", t.Name).Msg("email reminder failed")
	}
	return rep
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notify: panic: %v", r)
		}
	}()
	return fn()
}
