package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/remindd/internal/model"
	"github.com/sandeepkv93/remindd/internal/notify"
	"github.com/sandeepkv93/remindd/internal/reminder"
	"github.com/sandeepkv93/remindd/internal/storage"
)

var (
	ErrNotRunning = errors.New("scheduler: loop not running")
	ErrStopped    = errors.New("scheduler: loop stopped")
)

const (
	DefaultInterval = time.Minute
	flushTimeout    = 10 * time.Second
)

type EventKind string

const (
	EventTasksChanged EventKind = "TasksChanged"
	EventWarning      EventKind = "Warning"
)

type Event struct {
	Kind  EventKind
	Tasks []model.Task
	Err   error
	At    time.Time
}

type Dispatcher interface {
	Dispatch(ctx context.Context, t model.Task) notify.Report
}

type Options struct {
	Interval    time.Duration
	EventBuffer int
	Clock       Clock
	Log         zerolog.Logger
}

type op struct {
	fn  func(ctx context.Context) error
	res chan error
}

// Loop is the single owner of the active task set. Ticks, task-list edits
// and alert actions all run on its goroutine.
type Loop struct {
	repo       storage.Repository
	dispatcher Dispatcher
	clock      Clock
	interval   time.Duration
	log        zerolog.Logger

	// owned by the loop goroutine once started
	tasks *model.TaskList
	dirty bool

	mu      sync.Mutex
	ops     chan op
	out     chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	cancel  context.CancelFunc
	started bool
	stopped bool
	dropped uint64
}

// New loads the persisted task set and returns a loop ready to Start.
func New(ctx context.Context, repo storage.Repository, dispatcher Dispatcher, opts Options) (*Loop, error) {
	if repo == nil {
		return nil, errors.New("scheduler: nil repository")
	}
	if dispatcher == nil {
		return nil, errors.New("scheduler: nil dispatcher")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 1
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	tasks, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return &Loop{
		repo:       repo,
		dispatcher: dispatcher,
		clock:      opts.Clock,
		interval:   opts.Interval,
		log:        opts.Log,
		tasks:      model.NewTaskList(tasks),
		ops:        make(chan op),
		out:        make(chan Event, opts.EventBuffer),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}, nil
}

func (l *Loop) Events() <-chan Event {
	return l.out
}

func (l *Loop) Dropped() uint64 {
	return atomic.LoadUint64(&l.dropped)
}

func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	ticker := l.clock.NewTicker(l.interval)
	go l.run(ctx, ticker)
}

// Stop ends the loop after a final save. An in-flight tick is cancelled.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	close(l.stopCh)
	l.cancel()
	l.mu.Unlock()
	<-l.doneCh
}

func (l *Loop) run(ctx context.Context, ticker Ticker) {
	defer close(l.doneCh)
	defer close(l.out)
	defer ticker.Stop()

	l.tick(ctx)
	for {
		select {
		case <-l.stopCh:
			l.flush()
			return
		case <-ticker.C():
			l.tick(ctx)
		case o := <-l.ops:
			o.res <- o.fn(ctx)
		}
	}
}

// tick evaluates every task once. Missed ticks are not replayed; the ticker
// drops them.
func (l *Loop) tick(ctx context.Context) {
	now := l.clock.Now()
	for _, t := range l.tasks.Snapshot() {
		if ctx.Err() != nil {
			return
		}
		d := reminder.Evaluate(t, now)
		if !d.Fires() {
			continue
		}

		rep := l.dispatcher.Dispatch(ctx, t)
		if rep.MailErr != nil {
			l.warn(fmt.Errorf("email reminder for %q failed: %w", t.Name, rep.MailErr))
		}

		current, ok := l.tasks.FindByID(t.ID)
		if !ok {
			continue
		}
		reminder.Apply(&current, d, now)
		l.tasks.Replace(current)
		l.log.Info().
			Str("task_id", current.ID).
			Str("task", current.Name).
			Str("decision", string(d)).
			Time("next_reminder", *current.NextReminder).
			Msg("reminder fired")
		l.commit(ctx)
	}
}

// commit persists the whole set and notifies observers. A failed save keeps
// the in-memory state and is retried on the next commit.
func (l *Loop) commit(ctx context.Context) {
	if err := l.repo.Save(ctx, l.tasks.Snapshot()); err != nil {
		l.dirty = true
		l.log.Error().Err(err).Msg("persist tasks")
		l.warn(fmt.Errorf("saving tasks failed: %w", err))
	} else {
		l.dirty = false
	}
	l.publish(Event{Kind: EventTasksChanged, Tasks: l.tasks.Sorted(), At: l.clock.Now()})
}

func (l *Loop) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := l.repo.Save(ctx, l.tasks.Snapshot()); err != nil {
		l.log.Error().Err(err).Bool("dirty", l.dirty).Msg("final save failed")
		return
	}
	l.dirty = false
}

func (l *Loop) warn(err error) {
	l.publish(Event{Kind: EventWarning, Err: err, At: l.clock.Now()})
}

func (l *Loop) publish(ev Event) {
	select {
	case l.out <- ev:
	default:
		atomic.AddUint64(&l.dropped, 1)
	}
}

// do runs fn on the loop goroutine and waits for it. ctx bounds only the
// wait for the loop to accept fn; an accepted fn always runs to completion
// and its result is always returned.
func (l *Loop) do(ctx context.Context, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	started, stopped := l.started, l.stopped
	l.mu.Unlock()
	if !started {
		return ErrNotRunning
	}
	if stopped {
		return ErrStopped
	}

	o := op{fn: fn, res: make(chan error, 1)}
	select {
	case l.ops <- o:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.doneCh:
		return ErrStopped
	}
	return <-o.res
}
