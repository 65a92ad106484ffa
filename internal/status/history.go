package status

import "time"

// historyCapacity bounds how many recent events the web page shows.
const historyCapacity = 20

// RecentEvent is one entry in the recent-event history.
type RecentEvent struct {
	Time   time.Time
	Kind   string // "MODE_CHANGE" or "OVERRIDE_CHANGE"
	Detail string
}

// history is a fixed-capacity ring of recent events, oldest
// overwritten first. Not safe for concurrent use — the Tracker's lock
// covers it.
type history struct {
	buf      []RecentEvent
	capacity int
	head     int // next write position
	count    int
}

func newHistory(capacity int) *history {
	return &history{
		buf:      make([]RecentEvent, capacity),
		capacity: capacity,
	}
}

func (h *history) push(ev RecentEvent) {
	h.buf[h.head] = ev
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}
}

// newestFirst returns a copy of the entries, most recent first.
func (h *history) newestFirst() []RecentEvent {
	if h.count == 0 {
		return nil
	}
	result := make([]RecentEvent, h.count)
	for i := 0; i < h.count; i++ {
		result[i] = h.buf[(h.head-1-i+h.capacity)%h.capacity]
	}
	return result
}

func (h *history) len() int {
	return h.count
}
