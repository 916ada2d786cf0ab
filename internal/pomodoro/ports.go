package pomodoro

// Storage is the durable key-value pair the timer keeps its settings in.
// A key that was never written must be reported as store.ErrNotFound.
type Storage interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// NotificationSink displays system notifications on phase transitions.
type NotificationSink interface {
	// RequestPermission is called once when the timer is built. A false
	// result disables notifications for the lifetime of the timer.
	RequestPermission() bool
	// Notify must not block the caller.
	Notify(title, body string)
}

// AudioSink plays the transition sound.
type AudioSink interface {
	Play() error
}

type nopNotifier struct{}

func (nopNotifier) RequestPermission() bool { return false }
func (nopNotifier) Notify(string, string)   {}

type nopPlayer struct{}

func (nopPlayer) Play() error { return nil }
