package pomodoro

// Schedule enforces a single live countdown callback for a Timer.
//
// Drivers call Observe after every event that may have touched the timer.
// Whenever the watched (state, timeLeft) pair differs from the last one
// seen, the previous callback is cancelled by bumping the generation, and
// a new one should be armed if the timer is running. A fired callback is
// only honoured if its generation is still current.
type Schedule struct {
	gen      int
	state    State
	timeLeft int
	seen     bool
}

// Observe compares the timer against the last observed pair. It returns
// the generation to tag a new callback with and whether one must be armed.
func (s *Schedule) Observe(t *Timer) (gen int, arm bool) {
	if s.seen && s.state == t.State() && s.timeLeft == t.TimeLeft() {
		return s.gen, false
	}
	s.seen = true
	s.state = t.State()
	s.timeLeft = t.TimeLeft()
	s.gen++
	return s.gen, t.Running()
}

// Current reports whether a callback tagged with gen is still armed.
func (s *Schedule) Current(gen int) bool {
	return s.seen && gen == s.gen
}

// Cancel drops any armed callback.
func (s *Schedule) Cancel() {
	s.gen++
	s.seen = false
}
