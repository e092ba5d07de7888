// Package timer implements the study/break countdown.
//
// A Timer counts a fixed number of seconds down to zero. While running it
// keeps exactly one tick scheduled on its Clock; Pause, Reset and SetTotal
// cancel that tick before they return, so no decrement can land afterwards.
// Reaching zero moves the timer to Completed and calls the completion hook
// once.
package timer

import (
	"sync"
	"time"
)

// Interval is the time between two ticks.
const Interval = time.Second

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// Completion is delivered to the owner when a countdown reaches zero.
type Completion struct {
	TotalSeconds    int    `json:"totalSeconds"`
	DurationMinutes int    `json:"durationMinutes"`
	Subject         string `json:"subject"`
}

type Snapshot struct {
	TotalSeconds     int    `json:"totalSeconds"`
	RemainingSeconds int    `json:"remainingSeconds"`
	Running          bool   `json:"running"`
	Completed        bool   `json:"completed"`
	State            State  `json:"state"`
	Subject          string `json:"subject"`
}

type Option func(*Timer)

func WithClock(clock Clock) Option {
	return func(t *Timer) {
		if clock != nil {
			t.clock = clock
		}
	}
}

func WithSubject(subject string) Option {
	return func(t *Timer) {
		t.subject = subject
	}
}

// WithOnComplete sets the hook called when the countdown reaches zero. The
// hook runs on the clock's callback goroutine without the timer lock held.
func WithOnComplete(fn func(Completion)) Option {
	return func(t *Timer) {
		t.onComplete = fn
	}
}

type Timer struct {
	mu         sync.Mutex
	clock      Clock
	onComplete func(Completion)

	total     int
	remaining int
	running   bool
	completed bool
	// started is set from Start until Reset, SetTotal or completion.
	started bool
	subject string

	// generation invalidates ticks that fired but have not taken the lock yet.
	generation uint64
	pending    Stopper
}

// New returns an idle timer for total seconds. It panics if total is not
// positive.
func New(total int, opts ...Option) *Timer {
	if total <= 0 {
		panic("timer: non-positive total duration")
	}
	t := &Timer{
		clock:     SystemClock{},
		total:     total,
		remaining: total,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins or resumes the countdown. It does nothing when the timer is
// already running or has no time left.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running || t.remaining == 0 {
		return
	}
	t.running = true
	t.started = true
	t.completed = false
	t.generation++
	t.schedule(t.generation)
}

// Pause stops the countdown and keeps the remaining time.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false
	t.cancel()
}

// Reset returns the timer to idle with the full duration remaining.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancel()
	t.running = false
	t.started = false
	t.completed = false
	t.remaining = t.total
}

// SetTotal switches to a new duration and resets the timer. It panics if
// total is not positive.
func (t *Timer) SetTotal(total int) {
	if total <= 0 {
		panic("timer: non-positive total duration")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancel()
	t.total = total
	t.remaining = total
	t.running = false
	t.started = false
	t.completed = false
}

// SetSubject changes the label reported with the next completion.
func (t *Timer) SetSubject(subject string) {
	t.mu.Lock()
	t.subject = subject
	t.mu.Unlock()
}

// Close cancels any scheduled tick. The timer keeps its state.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = false
	t.cancel()
}

func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{
		TotalSeconds:     t.total,
		RemainingSeconds: t.remaining,
		Running:          t.running,
		Completed:        t.completed,
		State:            t.state(),
		Subject:          t.subject,
	}
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state()
}

func (t *Timer) state() State {
	switch {
	case t.running:
		return StateRunning
	case t.completed:
		return StateCompleted
	case t.started:
		return StatePaused
	default:
		return StateIdle
	}
}

// schedule must be called with t.mu held.
func (t *Timer) schedule(generation uint64) {
	t.pending = t.clock.AfterFunc(Interval, func() {
		t.tick(generation)
	})
}

// cancel must be called with t.mu held.
func (t *Timer) cancel() {
	t.generation++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

func (t *Timer) tick(generation uint64) {
	t.mu.Lock()
	if generation != t.generation || !t.running {
		t.mu.Unlock()
		return
	}

	t.remaining--
	if t.remaining > 0 {
		t.schedule(generation)
		t.mu.Unlock()
		return
	}

	t.remaining = 0
	t.running = false
	t.started = false
	t.completed = true
	t.pending = nil
	t.generation++
	event := Completion{
		TotalSeconds:    t.total,
		DurationMinutes: minutes(t.total),
		Subject:         t.subject,
	}
	hook := t.onComplete
	t.mu.Unlock()

	if hook != nil {
		hook(event)
	}
}

// minutes rounds a duration down to whole minutes, never below one.
func minutes(seconds int) int {
	m := seconds / 60
	if m < 1 {
		return 1
	}
	return m
}
