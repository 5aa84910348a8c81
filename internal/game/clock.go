package game

import (
	"sync"
	"time"
)

// Clock arms at most one single-fire deadline timer per room. A fired timer
// reports the question index it was armed for, so the manager can drop fires
// that lost a race against a manual advance.
type Clock struct {
	mu     sync.Mutex
	timers map[string]*roomTimer
}

type roomTimer struct {
	timer         *time.Timer
	questionIndex int
}

// NewClock creates an empty clock.
func NewClock() *Clock {
	return &Clock{timers: make(map[string]*roomTimer)}
}

// Schedule arms the room's timer to call onExpire(questionIndex) at deadline,
// replacing any previously armed timer. onExpire runs on the timer goroutine
// and must do its own serialization.
func (c *Clock) Schedule(roomID string, questionIndex int, deadline time.Time, onExpire func(questionIndex int)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.timers[roomID]; ok {
		existing.timer.Stop()
	}

	d := time.Until(deadline)
	if d < 0 {
		d = 0
	}

	rt := &roomTimer{questionIndex: questionIndex}
	rt.timer = time.AfterFunc(d, func() {
		// Drop the fire if this timer was already replaced or cancelled.
		c.mu.Lock()
		current, ok := c.timers[roomID]
		if !ok || current != rt {
			c.mu.Unlock()
			return
		}
		delete(c.timers, roomID)
		c.mu.Unlock()

		onExpire(questionIndex)
	})
	c.timers[roomID] = rt
}

// Cancel disarms the room's pending timer, if any. Safe to call when nothing
// is armed.
func (c *Clock) Cancel(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rt, ok := c.timers[roomID]; ok {
		rt.timer.Stop()
		delete(c.timers, roomID)
	}
}
