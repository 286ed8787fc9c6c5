package landing

import "time"

// ErrorLifetime is how long a transient error stays visible.
const ErrorLifetime = 3000 * time.Millisecond

// TransientError is a single user-visible failure message. ID distinguishes
// occurrences so a stale dismissal cannot clear a newer message.
type TransientError struct {
	ID   uint64
	Text string
}

// Banner holds at most one visible TransientError.
type Banner struct {
	seq     uint64
	current TransientError
	visible bool
}

// Show replaces whatever is visible with text and returns the new occurrence.
// The caller schedules Expire(ID) after ErrorLifetime.
func (b *Banner) Show(text string) TransientError {
	b.seq++
	b.current = TransientError{ID: b.seq, Text: text}
	b.visible = true
	return b.current
}

// Expire clears the banner if id is the visible occurrence and reports whether
// anything was cleared.
func (b *Banner) Expire(id uint64) bool {
	if !b.visible || b.current.ID != id {
		return false
	}
	b.visible = false
	b.current = TransientError{}
	return true
}

// Current returns the visible error, if any.
func (b Banner) Current() (TransientError, bool) {
	return b.current, b.visible
}
