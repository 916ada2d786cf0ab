package pomodoro

import (
	"errors"
	"strings"
	"testing"

	"github.com/sadopc/momentum/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type notification struct {
	title string
	body  string
}

type recordingNotifier struct {
	granted   bool
	requests  int
	delivered []notification
}

func (r *recordingNotifier) RequestPermission() bool {
	r.requests++
	return r.granted
}

func (r *recordingNotifier) Notify(title, body string) {
	r.delivered = append(r.delivered, notification{title, body})
}

type recordingPlayer struct {
	plays int
	err   error
}

func (r *recordingPlayer) Play() error {
	r.plays++
	return r.err
}

func newTestTimer(t *testing.T, s Settings) (*Timer, *recordingNotifier, *recordingPlayer) {
	t.Helper()
	st := newTestStore(t)
	if err := SaveSettings(st, s); err != nil {
		t.Fatal(err)
	}
	n := &recordingNotifier{granted: true}
	p := &recordingPlayer{}
	tm, err := New(st, n, p)
	if err != nil {
		t.Fatal(err)
	}
	return tm, n, p
}

func tickN(tm *Timer, n int) {
	for i := 0; i < n; i++ {
		tm.Tick()
	}
}

// ============================================================
// Construction
// ============================================================

func TestNewDefaults(t *testing.T) {
	n := &recordingNotifier{granted: true}
	tm, err := New(newTestStore(t), n, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tm.State() != StateStopped {
		t.Fatalf("expected stopped, got %s", tm.State())
	}
	if tm.TimeLeft() != 1500 {
		t.Fatalf("expected 1500s, got %d", tm.TimeLeft())
	}
	if tm.Settings() != DefaultSettings() {
		t.Fatalf("expected default settings, got %+v", tm.Settings())
	}
	if n.requests != 1 {
		t.Fatalf("permission should be requested once, got %d", n.requests)
	}
	if !tm.NotificationsOn() {
		t.Fatal("granted permission should enable notifications")
	}
}

func TestNewLoadsPersistedSettings(t *testing.T) {
	st := newTestStore(t)
	st.SetSetting(SettingsKey, `{"work":50,"break":10,"autoWork":false,"autoBreak":true}`)

	tm, err := New(st, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := Settings{WorkMinutes: 50, BreakMinutes: 10, AutoStartWork: false, AutoStartBreak: true}
	if tm.Settings() != want {
		t.Fatalf("got %+v, want %+v", tm.Settings(), want)
	}
	if tm.TimeLeft() != 3000 {
		t.Fatalf("expected 3000s, got %d", tm.TimeLeft())
	}
}

func TestNewCorruptSettingsFallsBack(t *testing.T) {
	st := newTestStore(t)
	st.SetSetting(SettingsKey, `{not json`)

	tm, err := New(st, nil, nil)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if tm == nil {
		t.Fatal("timer should still be usable")
	}
	if tm.Settings() != DefaultSettings() || tm.TimeLeft() != 1500 {
		t.Fatalf("expected defaults, got %+v / %d", tm.Settings(), tm.TimeLeft())
	}
}

func TestNewDeniedPermission(t *testing.T) {
	n := &recordingNotifier{granted: false}
	st := newTestStore(t)
	SaveSettings(st, Settings{WorkMinutes: 1, BreakMinutes: 1, AutoStartWork: true, AutoStartBreak: true})
	tm, _ := New(st, n, nil)

	tm.ToggleStartPause()
	tickN(tm, 60)

	if tm.State() != StateBreak {
		t.Fatalf("expected break, got %s", tm.State())
	}
	if len(n.delivered) != 0 {
		t.Fatalf("denied permission should suppress notifications, got %d", len(n.delivered))
	}
	if n.requests != 1 {
		t.Fatalf("permission must not be re-requested, got %d", n.requests)
	}
}

// ============================================================
// Toggle / reset
// ============================================================

func TestToggleStartPause(t *testing.T) {
	tm, _, _ := newTestTimer(t, DefaultSettings())

	if got := tm.ToggleStartPause(); got != StateWork {
		t.Fatalf("expected work, got %s", got)
	}
	tickN(tm, 10)
	if tm.TimeLeft() != 1490 {
		t.Fatalf("expected 1490, got %d", tm.TimeLeft())
	}

	// Pause freezes the countdown.
	if got := tm.ToggleStartPause(); got != StateStopped {
		t.Fatalf("expected stopped, got %s", got)
	}
	tickN(tm, 10)
	if tm.TimeLeft() != 1490 {
		t.Fatalf("countdown should freeze while stopped, got %d", tm.TimeLeft())
	}

	// Resume continues from the frozen value.
	tm.ToggleStartPause()
	tm.Tick()
	if tm.TimeLeft() != 1489 {
		t.Fatalf("expected 1489, got %d", tm.TimeLeft())
	}
}

func TestToggleFromBreakPausesThenStartsWork(t *testing.T) {
	tm, _, _ := newTestTimer(t, Settings{WorkMinutes: 1, BreakMinutes: 2, AutoStartWork: true, AutoStartBreak: true})
	tm.ToggleStartPause()
	tickN(tm, 60)
	if tm.State() != StateBreak {
		t.Fatalf("expected break, got %s", tm.State())
	}
	tickN(tm, 5)

	tm.ToggleStartPause()
	if tm.State() != StateStopped {
		t.Fatalf("expected stopped, got %s", tm.State())
	}
	// Starting again always enters work, keeping the frozen countdown.
	tm.ToggleStartPause()
	if tm.State() != StateWork {
		t.Fatalf("expected work, got %s", tm.State())
	}
	if tm.TimeLeft() != 115 {
		t.Fatalf("expected 115, got %d", tm.TimeLeft())
	}
}

func TestResetFromEveryState(t *testing.T) {
	tm, _, _ := newTestTimer(t, Settings{WorkMinutes: 1, BreakMinutes: 1, AutoStartWork: true, AutoStartBreak: true})

	tm.Reset()
	if tm.State() != StateStopped || tm.TimeLeft() != 60 {
		t.Fatalf("reset from stopped: %s/%d", tm.State(), tm.TimeLeft())
	}

	tm.ToggleStartPause()
	tickN(tm, 30)
	tm.Reset()
	if tm.State() != StateStopped || tm.TimeLeft() != 60 {
		t.Fatalf("reset from work: %s/%d", tm.State(), tm.TimeLeft())
	}

	tm.ToggleStartPause()
	tickN(tm, 70)
	if tm.State() != StateBreak {
		t.Fatalf("expected break, got %s", tm.State())
	}
	tm.Reset()
	if tm.State() != StateStopped || tm.TimeLeft() != 60 {
		t.Fatalf("reset from break: %s/%d", tm.State(), tm.TimeLeft())
	}
}

// ============================================================
// Settings
// ============================================================

func TestSaveSettingsAllBounds(t *testing.T) {
	tm, _, _ := newTestTimer(t, DefaultSettings())
	tm.ToggleStartPause()

	for w := MinWorkMinutes; w <= MaxWorkMinutes; w++ {
		for b := MinBreakMinutes; b <= MaxBreakMinutes; b += 7 {
			if err := tm.SaveSettings(Settings{WorkMinutes: w, BreakMinutes: b}); err != nil {
				t.Fatalf("SaveSettings(%d, %d): %v", w, b, err)
			}
			if tm.TimeLeft() != w*60 || tm.State() != StateStopped {
				t.Fatalf("after SaveSettings(%d, %d): %s/%d", w, b, tm.State(), tm.TimeLeft())
			}
		}
	}
}

func TestSaveSettingsPersists(t *testing.T) {
	st := newTestStore(t)
	tm, _ := New(st, nil, nil)

	want := Settings{WorkMinutes: 40, BreakMinutes: 8, AutoStartWork: false, AutoStartBreak: false}
	if err := tm.SaveSettings(want); err != nil {
		t.Fatal(err)
	}

	reloaded, err := New(st, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Settings() != want {
		t.Fatalf("got %+v, want %+v", reloaded.Settings(), want)
	}
}

func TestSaveSettingsRejectsOutOfRange(t *testing.T) {
	tm, _, _ := newTestTimer(t, DefaultSettings())
	tm.ToggleStartPause()
	tickN(tm, 3)

	bad := []Settings{
		{WorkMinutes: 0, BreakMinutes: 5},
		{WorkMinutes: 61, BreakMinutes: 5},
		{WorkMinutes: 25, BreakMinutes: 0},
		{WorkMinutes: 25, BreakMinutes: 31},
		{WorkMinutes: -5, BreakMinutes: -1},
	}
	for _, s := range bad {
		err := tm.SaveSettings(s)
		if !errors.Is(err, ErrInvalidSettings) {
			t.Fatalf("SaveSettings(%+v): expected ErrInvalidSettings, got %v", s, err)
		}
	}
	if tm.State() != StateWork || tm.TimeLeft() != 1497 {
		t.Fatalf("rejected settings must not touch runtime: %s/%d", tm.State(), tm.TimeLeft())
	}
}

type failingStorage struct{ err error }

func (f failingStorage) GetSetting(string) (string, error) { return "", f.err }
func (f failingStorage) SetSetting(string, string) error   { return f.err }

func TestSaveSettingsWriteFailure(t *testing.T) {
	boom := errors.New("disk full")
	tm, err := New(failingStorage{err: boom}, nil, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}

	err = tm.SaveSettings(Settings{WorkMinutes: 10, BreakMinutes: 2})
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if tm.Settings() != DefaultSettings() {
		t.Fatalf("failed write must keep old settings, got %+v", tm.Settings())
	}
}

// ============================================================
// Countdown and transitions
// ============================================================

func TestTickWhenStopped(t *testing.T) {
	tm, _, _ := newTestTimer(t, DefaultSettings())
	if tr := tm.Tick(); tr != nil {
		t.Fatal("stopped timer should not transition")
	}
	if tm.TimeLeft() != 1500 {
		t.Fatalf("stopped timer should not count, got %d", tm.TimeLeft())
	}
}

func TestCountdownMonotonic(t *testing.T) {
	tm, _, _ := newTestTimer(t, Settings{WorkMinutes: 2, BreakMinutes: 1})
	tm.ToggleStartPause()

	prev := tm.TimeLeft()
	for i := 0; i < 119; i++ {
		tm.Tick()
		if tm.TimeLeft() != prev-1 {
			t.Fatalf("tick %d: expected %d, got %d", i, prev-1, tm.TimeLeft())
		}
		if tm.TimeLeft() < 0 {
			t.Fatal("countdown went negative")
		}
		prev = tm.TimeLeft()
	}
	if tm.TimeLeft() != 1 {
		t.Fatalf("expected 1 second left, got %d", tm.TimeLeft())
	}
}

func TestWorkToBreakAutoStart(t *testing.T) {
	tm, n, p := newTestTimer(t, Settings{WorkMinutes: 1, BreakMinutes: 3, AutoStartWork: true, AutoStartBreak: true})
	tm.ToggleStartPause()

	tickN(tm, 59)
	tr := tm.Tick()
	if tr == nil {
		t.Fatal("expected a transition at zero")
	}
	if tr.From != StateWork || tr.To != StateBreak {
		t.Fatalf("unexpected transition %+v", tr)
	}
	if tm.State() != StateBreak || tm.TimeLeft() != 180 {
		t.Fatalf("expected break/180, got %s/%d", tm.State(), tm.TimeLeft())
	}
	if len(n.delivered) != 1 || n.delivered[0].title != "Work Session Complete" {
		t.Fatalf("unexpected notifications %+v", n.delivered)
	}
	if strings.Contains(n.delivered[0].body, "Click Start to begin.") {
		t.Fatalf("auto-start body should not ask for a click: %q", n.delivered[0].body)
	}
	if p.plays != 1 {
		t.Fatalf("expected one sound, got %d", p.plays)
	}
}

func TestWorkToBreakManualStart(t *testing.T) {
	tm, n, _ := newTestTimer(t, Settings{WorkMinutes: 1, BreakMinutes: 3, AutoStartWork: true, AutoStartBreak: false})
	tm.ToggleStartPause()
	tickN(tm, 60)

	if tm.State() != StateStopped || tm.TimeLeft() != 180 {
		t.Fatalf("expected stopped/180, got %s/%d", tm.State(), tm.TimeLeft())
	}
	if len(n.delivered) != 1 || !strings.HasSuffix(n.delivered[0].body, "Click Start to begin.") {
		t.Fatalf("manual body should ask for a click: %+v", n.delivered)
	}

	// Stopped timers stay put.
	tickN(tm, 10)
	if tm.TimeLeft() != 180 {
		t.Fatalf("expected frozen 180, got %d", tm.TimeLeft())
	}
}

func TestBreakToWorkManualStart(t *testing.T) {
	tm, n, _ := newTestTimer(t, Settings{WorkMinutes: 2, BreakMinutes: 1, AutoStartWork: false, AutoStartBreak: true})
	tm.ToggleStartPause()
	tickN(tm, 120)
	if tm.State() != StateBreak {
		t.Fatalf("expected break, got %s", tm.State())
	}
	tickN(tm, 60)

	if tm.State() != StateStopped || tm.TimeLeft() != 120 {
		t.Fatalf("expected stopped/120, got %s/%d", tm.State(), tm.TimeLeft())
	}
	last := n.delivered[len(n.delivered)-1]
	if last.title != "Break Time Over" || !strings.HasSuffix(last.body, "Click Start to begin.") {
		t.Fatalf("unexpected notification %+v", last)
	}
}

func TestDefaultFullCycle(t *testing.T) {
	tm, n, p := newTestTimer(t, DefaultSettings())
	tm.ToggleStartPause()

	tickN(tm, 1500)
	if tm.State() != StateBreak || tm.TimeLeft() != 300 {
		t.Fatalf("after work: %s/%d", tm.State(), tm.TimeLeft())
	}

	tickN(tm, 300)
	if tm.State() != StateWork || tm.TimeLeft() != 1500 {
		t.Fatalf("after break: %s/%d", tm.State(), tm.TimeLeft())
	}
	if len(n.delivered) != 2 || p.plays != 2 {
		t.Fatalf("expected 2 notifications and sounds, got %d/%d", len(n.delivered), p.plays)
	}
}

func TestSoundFailureIsSwallowed(t *testing.T) {
	tm, _, p := newTestTimer(t, Settings{WorkMinutes: 1, BreakMinutes: 1, AutoStartWork: true, AutoStartBreak: true})
	p.err = errors.New("no audio device")
	tm.ToggleStartPause()

	tr := func() *Transition {
		var last *Transition
		for i := 0; i < 60; i++ {
			if got := tm.Tick(); got != nil {
				last = got
			}
		}
		return last
	}()
	if tr == nil || tm.State() != StateBreak {
		t.Fatalf("transition should fire despite sound failure, state %s", tm.State())
	}
}

// ============================================================
// Display helpers
// ============================================================

func TestLabel(t *testing.T) {
	tm, _, _ := newTestTimer(t, Settings{WorkMinutes: 1, BreakMinutes: 1, AutoStartWork: true, AutoStartBreak: true})
	if tm.Label() != "Pomodoro" {
		t.Fatalf("got %q", tm.Label())
	}
	tm.ToggleStartPause()
	if tm.Label() != "Work Time" {
		t.Fatalf("got %q", tm.Label())
	}
	tickN(tm, 60)
	if tm.Label() != "Break Time" {
		t.Fatalf("got %q", tm.Label())
	}
}

func TestProgress(t *testing.T) {
	tm, _, _ := newTestTimer(t, Settings{WorkMinutes: 1, BreakMinutes: 2, AutoStartWork: true, AutoStartBreak: true})
	if tm.Progress() != 0 {
		t.Fatalf("fresh timer progress %v", tm.Progress())
	}
	tm.ToggleStartPause()
	tickN(tm, 30)
	if tm.Progress() != 0.5 {
		t.Fatalf("expected 0.5, got %v", tm.Progress())
	}
	tickN(tm, 30)
	if tm.Progress() != 0 {
		t.Fatalf("new break should start at 0, got %v", tm.Progress())
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{1500, "25:00"},
		{3600, "60:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.secs); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
