package pomodoro

import (
	"fmt"
	"log"
	"time"
)

// State is the timer's current phase.
type State string

const (
	StateStopped State = "stopped"
	StateWork    State = "work"
	StateBreak   State = "break"
)

const clickStartSuffix = " Click Start to begin."

// Transition describes a phase change fired by a countdown reaching zero.
type Transition struct {
	From  State
	To    State
	Title string
	Body  string
}

// Timer is the pomodoro state machine. It owns no goroutines: a driver
// calls Tick once per elapsed second while Running reports true.
// A Timer is not safe for concurrent use.
type Timer struct {
	storage  Storage
	notifier NotificationSink
	player   AudioSink

	settings Settings
	state    State
	timeLeft int

	notify bool
}

// New builds a stopped timer, loads the persisted settings and asks the
// notifier for permission. Nil sinks are replaced with no-ops.
//
// If the settings cannot be read the timer falls back to the defaults and
// the error is returned together with the usable timer.
func New(st Storage, notifier NotificationSink, player AudioSink) (*Timer, error) {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if player == nil {
		player = nopPlayer{}
	}

	settings, err := LoadSettings(st)
	t := &Timer{
		storage:  st,
		notifier: notifier,
		player:   player,
		settings: settings,
		state:    StateStopped,
		timeLeft: settings.WorkSeconds(),
	}
	t.notify = notifier.RequestPermission()

	if err != nil {
		return t, fmt.Errorf("load pomodoro settings: %w", err)
	}
	return t, nil
}

func (t *Timer) State() State          { return t.state }
func (t *Timer) TimeLeft() int         { return t.timeLeft }
func (t *Timer) Settings() Settings    { return t.settings }
func (t *Timer) Running() bool         { return t.state != StateStopped }
func (t *Timer) NotificationsOn() bool { return t.notify }

// Remaining is TimeLeft as a duration.
func (t *Timer) Remaining() time.Duration {
	return time.Duration(t.timeLeft) * time.Second
}

// ToggleStartPause starts a work phase from stopped, or freezes the
// countdown if a phase is running. It returns the new state.
func (t *Timer) ToggleStartPause() State {
	if t.state == StateStopped {
		t.state = StateWork
	} else {
		t.state = StateStopped
	}
	return t.state
}

// Reset discards the current phase and rewinds to a full work period.
func (t *Timer) Reset() {
	t.timeLeft = t.settings.WorkSeconds()
	t.state = StateStopped
}

// SaveSettings validates and persists s, then stops the timer and rewinds
// it to the new work duration. Nothing changes if validation or the write
// fails.
func (t *Timer) SaveSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := SaveSettings(t.storage, s); err != nil {
		return err
	}
	t.settings = s
	t.timeLeft = s.WorkSeconds()
	t.state = StateStopped
	return nil
}

// Tick advances the countdown by one second. When the countdown hits zero
// the phase transition fires in the same call and is returned.
func (t *Timer) Tick() *Transition {
	if t.state == StateStopped {
		return nil
	}
	if t.timeLeft > 0 {
		t.timeLeft--
	}
	if t.timeLeft > 0 {
		return nil
	}
	return t.advance()
}

func (t *Timer) advance() *Transition {
	tr := &Transition{From: t.state}

	switch t.state {
	case StateWork:
		t.timeLeft = t.settings.BreakSeconds()
		tr.To = StateStopped
		if t.settings.AutoStartBreak {
			tr.To = StateBreak
		}
		tr.Title = "Work Session Complete"
		tr.Body = "Time for a break!"
		if !t.settings.AutoStartBreak {
			tr.Body += clickStartSuffix
		}

	case StateBreak:
		t.timeLeft = t.settings.WorkSeconds()
		tr.To = StateStopped
		if t.settings.AutoStartWork {
			tr.To = StateWork
		}
		tr.Title = "Break Time Over"
		tr.Body = "Time to get back to work!"
		if !t.settings.AutoStartWork {
			tr.Body += clickStartSuffix
		}

	default:
		return nil
	}

	t.state = tr.To
	t.emit(tr)
	return tr
}

func (t *Timer) emit(tr *Transition) {
	if t.notify {
		t.notifier.Notify(tr.Title, tr.Body)
	}
	if err := t.player.Play(); err != nil {
		log.Printf("pomodoro: play sound: %v", err)
	}
}

// Label is the heading shown above the countdown.
func (t *Timer) Label() string {
	switch t.state {
	case StateWork:
		return "Work Time"
	case StateBreak:
		return "Break Time"
	}
	return "Pomodoro"
}

// Progress is the elapsed share of the running phase, in [0, 1].
// A stopped timer measures against the work duration.
func (t *Timer) Progress() float64 {
	total := t.settings.WorkSeconds()
	if t.state == StateBreak {
		total = t.settings.BreakSeconds()
	}
	if total <= 0 {
		return 0
	}
	p := float64(total-t.timeLeft) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
