// Package notify provides the desktop notification and sound sinks the
// pomodoro timer fires on phase transitions.
package notify

import (
	"io"
	"log"

	"github.com/gen2brain/beeep"
	"github.com/sadopc/momentum/internal/config"
)

// Desktop shows system notifications through the platform notifier.
type Desktop struct {
	enabled bool
	icon    string
	send    func(title, body, icon string) error
}

func NewDesktop(enabled bool) *Desktop {
	return &Desktop{enabled: enabled, send: beeep.Notify}
}

// RequestPermission reports whether notifications may be shown.
func (d *Desktop) RequestPermission() bool {
	return d.enabled
}

// Notify delivers in the background; failures are logged and dropped.
func (d *Desktop) Notify(title, body string) {
	go func() {
		if err := d.send(title, body, d.icon); err != nil {
			log.Printf("notify: %v", err)
		}
	}()
}

// Beep plays a short tone on the system speaker.
type Beep struct {
	beep func(freq float64, duration int) error
}

func NewBeep() *Beep {
	return &Beep{beep: beeep.Beep}
}

func (b *Beep) Play() error {
	return b.beep(beeep.DefaultFreq, beeep.DefaultDuration)
}

// Bell rings the terminal bell.
type Bell struct {
	w io.Writer
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Play() error {
	_, err := io.WriteString(b.w, "\a")
	return err
}

// Nop satisfies both sinks and does nothing.
type Nop struct{}

func (Nop) RequestPermission() bool { return false }
func (Nop) Notify(string, string)   {}
func (Nop) Play() error             { return nil }

// Notifier is the notification half of a sink pair.
type Notifier interface {
	RequestPermission() bool
	Notify(title, body string)
}

// Player is the audio half of a sink pair.
type Player interface {
	Play() error
}

// FromConfig picks the sinks selected in the config file.
func FromConfig(cfg config.Config, terminal io.Writer) (Notifier, Player) {
	var n Notifier = Nop{}
	if cfg.Notifications {
		n = NewDesktop(true)
	}

	var p Player
	switch cfg.Sound {
	case config.SoundBeep:
		p = NewBeep()
	case config.SoundBell:
		p = NewBell(terminal)
	default:
		p = Nop{}
	}
	return n, p
}
