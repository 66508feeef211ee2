package focus

import (
	"math/rand"
	"sync"
	"testing"
	"time"
)

// fakeScheduler records tick sources and lets the test fire them by hand.
type fakeScheduler struct {
	mu      sync.Mutex
	sources []*fakeSource
}

type fakeSource struct {
	fn        func()
	cancelled bool
}

func (f *fakeScheduler) Every(_ time.Duration, fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	src := &fakeSource{fn: fn}
	f.sources = append(f.sources, src)
	return func() {
		f.mu.Lock()
		src.cancelled = true
		f.mu.Unlock()
	}
}

func (f *fakeScheduler) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sources {
		if !s.cancelled {
			n++
		}
	}
	return n
}

// fire calls every active source once, like a real second elapsing.
func (f *fakeScheduler) fire() {
	f.mu.Lock()
	var fns []func()
	for _, s := range f.sources {
		if !s.cancelled {
			fns = append(fns, s.fn)
		}
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func newTestTimer(t *testing.T, opts ...Option) (*Timer, *fakeScheduler) {
	t.Helper()
	fs := &fakeScheduler{}
	tm := New(append([]Option{WithScheduler(fs)}, opts...)...)
	t.Cleanup(tm.Close)
	return tm, fs
}

// ============================================================
// Transitions
// ============================================================

func TestInitialState(t *testing.T) {
	tm, fs := newTestTimer(t)
	s := tm.Snapshot()
	if s.Mode != ModeFocus || s.Running || s.Remaining != FocusDuration {
		t.Fatalf("unexpected initial snapshot: %+v", s)
	}
	if fs.active() != 0 {
		t.Fatal("no tick source before start")
	}
}

func TestStartTickPause(t *testing.T) {
	tm, fs := newTestTimer(t)
	tm.Start()
	if !tm.Snapshot().Running || fs.active() != 1 {
		t.Fatal("start should run with one tick source")
	}

	fs.fire()
	fs.fire()
	if got := tm.Snapshot().Remaining; got != FocusDuration-2 {
		t.Fatalf("expected %d, got %d", FocusDuration-2, got)
	}

	tm.Pause()
	if tm.Snapshot().Running || fs.active() != 0 {
		t.Fatal("pause should stop and cancel the tick source")
	}
	fs.fire()
	if got := tm.Snapshot().Remaining; got != FocusDuration-2 {
		t.Fatal("paused timer must not tick")
	}
}

func TestDoubleStartKeepsOneSource(t *testing.T) {
	tm, fs := newTestTimer(t)
	tm.Start()
	tm.Start()
	if fs.active() != 1 {
		t.Fatalf("expected 1 tick source, got %d", fs.active())
	}
	fs.fire()
	if got := tm.Snapshot().Remaining; got != FocusDuration-1 {
		t.Fatalf("double start must not double-decrement, got %d", got)
	}
}

func TestLateTickFromCancelledSourceIsDropped(t *testing.T) {
	tm, fs := newTestTimer(t)
	tm.Start()
	stale := fs.sources[0].fn
	tm.Pause()
	tm.Start()

	stale()
	fs.fire()
	if got := tm.Snapshot().Remaining; got != FocusDuration-1 {
		t.Fatalf("stale source must be ignored, got %d", got)
	}
}

func TestCompletionStopsWithoutAdvancing(t *testing.T) {
	var completed []Mode
	tm, fs := newTestTimer(t, OnComplete(func(m Mode) { completed = append(completed, m) }))
	tm.SwitchMode(ModeBreak)
	tm.Start()
	for i := 0; i < BreakDuration+5; i++ {
		fs.fire()
	}
	s := tm.Snapshot()
	if s.Remaining != 0 || s.Running {
		t.Fatalf("expected halted at zero, got %+v", s)
	}
	if s.Mode != ModeBreak {
		t.Fatal("completion must not switch modes")
	}
	if fs.active() != 0 {
		t.Fatal("tick source should be cancelled at zero")
	}
	if len(completed) != 1 || completed[0] != ModeBreak {
		t.Fatalf("expected one completion, got %v", completed)
	}

	tm.Start()
	if tm.Snapshot().Running {
		t.Fatal("start at zero is a no-op")
	}
}

func TestResetRestoresDuration(t *testing.T) {
	tm, fs := newTestTimer(t)
	tm.Start()
	fs.fire()
	tm.Reset()
	s := tm.Snapshot()
	if s.Running || s.Remaining != FocusDuration || fs.active() != 0 {
		t.Fatalf("unexpected after reset: %+v active=%d", s, fs.active())
	}
}

func TestSwitchModeLosesProgress(t *testing.T) {
	tm, fs := newTestTimer(t)
	tm.Start()
	fs.fire()
	tm.SwitchMode(ModeBreak)
	if s := tm.Snapshot(); s.Mode != ModeBreak || s.Remaining != BreakDuration || s.Running {
		t.Fatalf("unexpected after switch: %+v", s)
	}
	tm.SwitchMode(ModeFocus)
	if s := tm.Snapshot(); s.Remaining != FocusDuration {
		t.Fatalf("switching back must reset, got %+v", s)
	}
	if fs.active() != 0 {
		t.Fatal("switch should cancel the tick source")
	}
}

func TestCloseCancelsSource(t *testing.T) {
	tm, fs := newTestTimer(t)
	tm.Start()
	tm.Close()
	if fs.active() != 0 {
		t.Fatal("close should cancel the tick source")
	}
}

func TestToggle(t *testing.T) {
	tm, _ := newTestTimer(t)
	tm.Toggle()
	if !tm.Snapshot().Running {
		t.Fatal("toggle should start")
	}
	tm.Toggle()
	if tm.Snapshot().Running {
		t.Fatal("toggle should pause")
	}
}

func TestOnChange(t *testing.T) {
	var snaps []Snapshot
	tm, fs := newTestTimer(t, OnChange(func(s Snapshot) { snaps = append(snaps, s) }))
	tm.Start()
	fs.fire()
	tm.Pause()
	if len(snaps) != 3 {
		t.Fatalf("expected 3 change notifications, got %d", len(snaps))
	}
}

// ============================================================
// Invariants
// ============================================================

func TestRandomSequenceStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tm, fs := newTestTimer(t)
	for i := 0; i < 20000; i++ {
		switch rng.Intn(10) {
		case 0:
			tm.Start()
		case 1:
			tm.Pause()
		case 2:
			tm.Reset()
		case 3:
			tm.SwitchMode(Mode(rng.Intn(2)))
		default:
			fs.fire()
		}
		s := tm.Snapshot()
		if s.Remaining < 0 || s.Remaining > s.Duration() {
			t.Fatalf("step %d: remaining %d outside [0, %d]", i, s.Remaining, s.Duration())
		}
		if n := fs.active(); n > 1 {
			t.Fatalf("step %d: %d tick sources active", i, n)
		}
		if s.Running != (fs.active() == 1) {
			t.Fatalf("step %d: running=%v but %d sources", i, s.Running, fs.active())
		}
	}
}

func TestProgress(t *testing.T) {
	s := Snapshot{Mode: ModeFocus, Remaining: FocusDuration}
	if s.Progress() != 0 {
		t.Fatal("fresh timer progress should be 0")
	}
	s.Remaining = 0
	if s.Progress() != 1 {
		t.Fatal("finished timer progress should be 1")
	}
	s = Snapshot{Mode: ModeBreak, Remaining: 150}
	if s.Progress() != 0.5 {
		t.Fatalf("expected 0.5, got %f", s.Progress())
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{300, "5:00"},
		{1500, "25:00"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := Format(tt.secs); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestTickerSchedulerCancel(t *testing.T) {
	var mu sync.Mutex
	n := 0
	cancel := TickerScheduler{}.Every(time.Millisecond, func() {
		mu.Lock()
		n++
		mu.Unlock()
	})
	time.Sleep(20 * time.Millisecond)
	cancel()
	cancel()
	mu.Lock()
	after := n
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if after == 0 {
		t.Fatal("expected some ticks before cancel")
	}
	if n > after+1 {
		t.Fatalf("ticks continued after cancel: %d -> %d", after, n)
	}
}
