// Package focus implements the two-mode countdown used for focus sessions.
package focus

import (
	"fmt"
	"sync"
	"time"
)

type Mode int

const (
	ModeFocus Mode = iota
	ModeBreak
)

const (
	FocusDuration = 1500 // seconds
	BreakDuration = 300
)

func (m Mode) String() string {
	if m == ModeBreak {
		return "Break"
	}
	return "Focus"
}

// Duration returns the full length of m in seconds.
func (m Mode) Duration() int {
	if m == ModeBreak {
		return BreakDuration
	}
	return FocusDuration
}

// Scheduler drives fn every d until the returned cancel func is called.
type Scheduler interface {
	Every(d time.Duration, fn func()) (cancel func())
}

// Snapshot is a consistent read of the timer.
type Snapshot struct {
	Mode      Mode
	Running   bool
	Remaining int
}

func (s Snapshot) Duration() int { return s.Mode.Duration() }

// Progress is the elapsed fraction of the current mode, in [0, 1].
func (s Snapshot) Progress() float64 {
	d := s.Duration()
	return float64(d-s.Remaining) / float64(d)
}

// Timer is a countdown state machine that owns its tick source. At most
// one source is active at a time; ticks from a cancelled source are dropped.
type Timer struct {
	mu        sync.Mutex
	mode      Mode
	running   bool
	remaining int

	sched  Scheduler
	cancel func()
	gen    uint64

	onChange   func(Snapshot)
	onComplete func(Mode)
}

type Option func(*Timer)

// WithScheduler replaces the wall-clock ticker.
func WithScheduler(s Scheduler) Option {
	return func(t *Timer) { t.sched = s }
}

// OnChange is called after every state change, outside the timer's lock.
func OnChange(fn func(Snapshot)) Option {
	return func(t *Timer) { t.onChange = fn }
}

// OnComplete is called when a countdown reaches zero.
func OnComplete(fn func(Mode)) Option {
	return func(t *Timer) { t.onComplete = fn }
}

func New(opts ...Option) *Timer {
	t := &Timer{
		mode:      ModeFocus,
		remaining: FocusDuration,
		sched:     TickerScheduler{},
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Timer) snapshotLocked() Snapshot {
	return Snapshot{Mode: t.mode, Running: t.running, Remaining: t.remaining}
}

// Start begins counting down. It does nothing if already running or if the
// countdown has finished.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.running || t.remaining == 0 {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.gen++
	gen := t.gen
	t.cancel = t.sched.Every(time.Second, func() { t.tick(gen) })
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.changed(snap)
}

func (t *Timer) Pause() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.stopLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.changed(snap)
}

// Toggle starts a paused timer or pauses a running one.
func (t *Timer) Toggle() {
	if t.Snapshot().Running {
		t.Pause()
		return
	}
	t.Start()
}

// Tick advances the countdown by one second if running.
func (t *Timer) Tick() {
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()
	t.tick(gen)
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if !t.running || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.remaining--
	done := t.remaining <= 0
	if done {
		t.remaining = 0
		t.stopLocked()
	}
	snap := t.snapshotLocked()
	mode := t.mode
	t.mu.Unlock()

	t.changed(snap)
	if done && t.onComplete != nil {
		t.onComplete(mode)
	}
}

// Reset stops the timer and restores the full duration of the current mode.
func (t *Timer) Reset() {
	t.mu.Lock()
	t.stopLocked()
	t.remaining = t.mode.Duration()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.changed(snap)
}

// SwitchMode always resets the clock, even when switching to the current
// mode mid-countdown.
func (t *Timer) SwitchMode(m Mode) {
	t.mu.Lock()
	t.stopLocked()
	t.mode = m
	t.remaining = m.Duration()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.changed(snap)
}

// Close cancels the tick source. The timer keeps its remaining time.
func (t *Timer) Close() {
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()
}

func (t *Timer) stopLocked() {
	t.running = false
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Timer) changed(s Snapshot) {
	if t.onChange != nil {
		t.onChange(s)
	}
}

// Format renders seconds as M:SS.
func Format(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// TickerScheduler is the default tick source for New. It runs fn on a
// time.Ticker in its own goroutine.
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
