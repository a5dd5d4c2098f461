// Package history holds the process-lifetime application state that the
// request handlers share: the conversation log and the auto-speak flag.
// Both are explicit, concurrency-safe objects passed by reference instead
// of ambient globals.
package history

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Entry is one user/assistant exchange in the conversation log.
type Entry struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Assistant string `json:"assistant"`
	Timestamp int    `json:"timestamp"`
}

// Log is an append-only, mutex-guarded conversation log. Appends happen
// from request handlers; reads may come from any goroutine.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{}
}

// Append records one exchange and returns the stored entry. The timestamp
// is the entry's ordinal position.
func (l *Log) Append(user, assistant string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := Entry{
		ID:        uuid.NewString(),
		User:      user,
		Assistant: assistant,
		Timestamp: len(l.entries),
	}
	l.entries = append(l.entries, e)
	return e
}

// Last returns up to n newest entries in chronological order. n <= 0
// yields an empty slice.
func (l *Log) Last(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 {
		return []Entry{}
	}
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]Entry, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// Len returns the total number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear resets the log.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// AutoSpeak is the process-wide voice-response toggle. Workers read it at
// the moment they run; flipping it does not affect a task already speaking.
type AutoSpeak struct {
	enabled atomic.Bool
}

// NewAutoSpeak creates the flag with the given initial state.
func NewAutoSpeak(initial bool) *AutoSpeak {
	a := &AutoSpeak{}
	a.enabled.Store(initial)
	return a
}

// Enabled reports the current state.
func (a *AutoSpeak) Enabled() bool {
	return a.enabled.Load()
}

// Toggle sets the flag to *explicit when non-nil, otherwise flips the
// current state. Returns the new state.
func (a *AutoSpeak) Toggle(explicit *bool) bool {
	if explicit != nil {
		a.enabled.Store(*explicit)
		return *explicit
	}
	for {
		old := a.enabled.Load()
		if a.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
