package mock

import (
	"sync"
	"time"
)

// Time is a settable clock. Once set it keeps moving at wall-clock speed.
type Time struct {
	mu    sync.Mutex
	base  time.Time
	setAt time.Time
}

func NewTime() *Time {
	now := time.Now()
	return &Time{
		base:  now,
		setAt: now,
	}
}

// SetCurrentTime moves the clock to currentTime.
func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.base = currentTime
	t.setAt = time.Now()
}

// Reset returns the clock to wall time.
func (t *Time) Reset() {
	t.SetCurrentTime(time.Now())
}

func (t *Time) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.base.Add(time.Since(t.setAt))
}
