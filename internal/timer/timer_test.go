package timer_test

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studysync/backend/internal/timer"
	"studysync/backend/internal/timer/timertest"
)

type completionRecorder struct {
	mu     sync.Mutex
	events []timer.Completion
}

func (r *completionRecorder) record(c timer.Completion) {
	r.mu.Lock()
	r.events = append(r.events, c)
	r.mu.Unlock()
}

func (r *completionRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestTimer(total int) (*timer.Timer, *timertest.ManualClock, *completionRecorder) {
	clock := timertest.NewManualClock()
	rec := &completionRecorder{}
	tm := timer.New(total, timer.WithClock(clock), timer.WithOnComplete(rec.record), timer.WithSubject("Physics"))
	return tm, clock, rec
}

func TestNewTimerIsIdle(t *testing.T) {
	for _, total := range []int{1, 5, 60, 1500} {
		tm, _, _ := newTestTimer(total)
		snap := tm.Snapshot()
		assert.Equal(t, total, snap.RemainingSeconds)
		assert.Equal(t, total, snap.TotalSeconds)
		assert.False(t, snap.Running)
		assert.False(t, snap.Completed)
		assert.Equal(t, timer.StateIdle, snap.State)
	}
}

func TestNewTimerPanicsOnNonPositiveTotal(t *testing.T) {
	assert.Panics(t, func() { timer.New(0) })
	assert.Panics(t, func() { timer.New(-3) })
}

func TestCountdownCompletes(t *testing.T) {
	tm, clock, rec := newTestTimer(5)

	tm.Start()
	clock.Tick(5)

	snap := tm.Snapshot()
	assert.Equal(t, 0, snap.RemainingSeconds)
	assert.True(t, snap.Completed)
	assert.False(t, snap.Running)
	assert.Equal(t, timer.StateCompleted, snap.State)

	clock.Tick(1)
	assert.Equal(t, 0, tm.Snapshot().RemainingSeconds)
	assert.Equal(t, 0, clock.Pending())

	require.Equal(t, 1, rec.count())
	assert.Equal(t, timer.Completion{TotalSeconds: 5, DurationMinutes: 1, Subject: "Physics"}, rec.events[0])
}

func TestPauseKeepsRemaining(t *testing.T) {
	tm, clock, _ := newTestTimer(10)

	tm.Start()
	clock.Tick(3)
	tm.Pause()
	assert.Equal(t, 7, tm.Snapshot().RemainingSeconds)
	assert.Equal(t, 0, clock.Pending())

	clock.Tick(2)
	snap := tm.Snapshot()
	assert.Equal(t, 7, snap.RemainingSeconds)
	assert.Equal(t, timer.StatePaused, snap.State)

	tm.Start()
	clock.Tick(1)
	assert.Equal(t, 6, tm.Snapshot().RemainingSeconds)
}

func TestPauseBeforeFirstTickIsPaused(t *testing.T) {
	tm, clock, _ := newTestTimer(10)

	tm.Start()
	tm.Pause()

	snap := tm.Snapshot()
	assert.Equal(t, 10, snap.RemainingSeconds)
	assert.Equal(t, timer.StatePaused, snap.State)
	assert.Equal(t, 0, clock.Pending())

	tm.Reset()
	assert.Equal(t, timer.StateIdle, tm.State())

	tm.Start()
	tm.Pause()
	tm.SetTotal(20)
	assert.Equal(t, timer.StateIdle, tm.State())
}

func TestResetRestoresTotal(t *testing.T) {
	tm, clock, _ := newTestTimer(10)

	tm.Start()
	clock.Tick(2)
	tm.Reset()

	snap := tm.Snapshot()
	assert.Equal(t, 10, snap.RemainingSeconds)
	assert.False(t, snap.Running)
	assert.False(t, snap.Completed)
	assert.Equal(t, 0, clock.Pending())
}

func TestSetTotalWhileRunning(t *testing.T) {
	tm, clock, _ := newTestTimer(300)

	tm.Start()
	clock.Tick(4)
	tm.SetTotal(25 * 60)

	snap := tm.Snapshot()
	assert.Equal(t, 1500, snap.RemainingSeconds)
	assert.Equal(t, 1500, snap.TotalSeconds)
	assert.False(t, snap.Running)
	assert.False(t, snap.Completed)

	clock.Tick(3)
	assert.Equal(t, 1500, tm.Snapshot().RemainingSeconds)
}

func TestStartTwiceIsIdempotent(t *testing.T) {
	once, onceClock, _ := newTestTimer(10)
	twice, twiceClock, _ := newTestTimer(10)

	once.Start()
	twice.Start()
	twice.Start()
	assert.Equal(t, 1, twiceClock.Pending())

	onceClock.Tick(4)
	twiceClock.Tick(4)
	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestStartAfterCompletionIsNoop(t *testing.T) {
	tm, clock, rec := newTestTimer(2)

	tm.Start()
	clock.Tick(2)
	tm.Start()
	clock.Tick(3)

	assert.Equal(t, timer.StateCompleted, tm.State())
	assert.Equal(t, 1, rec.count())

	tm.Reset()
	tm.Start()
	clock.Tick(2)
	assert.Equal(t, 2, rec.count())
}

func TestCompletionHookRunsWithoutLock(t *testing.T) {
	clock := timertest.NewManualClock()
	var tm *timer.Timer
	var seen timer.Snapshot
	tm = timer.New(1, timer.WithClock(clock), timer.WithOnComplete(func(timer.Completion) {
		seen = tm.Snapshot()
	}))

	tm.Start()
	clock.Tick(1)
	assert.True(t, seen.Completed)
}

func TestInvariantsHoldForRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tm, clock, rec := newTestTimer(4)
	completions := 0

	for i := 0; i < 2000; i++ {
		before := tm.Snapshot()
		switch rng.Intn(6) {
		case 0:
			tm.Start()
		case 1:
			tm.Pause()
		case 2:
			tm.Reset()
		case 3:
			tm.SetTotal(1 + rng.Intn(5))
		default:
			clock.Tick(1)
		}
		snap := tm.Snapshot()

		require.GreaterOrEqual(t, snap.RemainingSeconds, 0)
		require.LessOrEqual(t, snap.RemainingSeconds, snap.TotalSeconds)
		require.False(t, snap.Running && snap.Completed)
		require.LessOrEqual(t, clock.Pending(), 1)
		if !snap.Running {
			require.Equal(t, 0, clock.Pending())
		}
		if snap.State == timer.StateIdle {
			require.Equal(t, snap.TotalSeconds, snap.RemainingSeconds)
		}
		if !before.Completed && snap.Completed {
			completions++
		}
	}

	assert.Equal(t, completions, rec.count())
}
