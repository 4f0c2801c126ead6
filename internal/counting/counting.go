// Package counting implements the counting-game rules for the monitored
// channel: strict decimal form, strict increment, and an author lock.
package counting

import (
	"strconv"
	"sync"
)

// State is the whole memory of the game. The zero value means no count
// has been accepted yet.
type State struct {
	Count    uint64
	AuthorID string
	Started  bool
}

type RejectReason string

const (
	ReasonNotNumeric    RejectReason = "not_numeric"
	ReasonOutOfRange    RejectReason = "out_of_range"
	ReasonNotPositive   RejectReason = "not_positive"
	ReasonOutOfSequence RejectReason = "out_of_sequence"
	ReasonSameAuthor    RejectReason = "same_author"
)

type Outcome struct {
	Accepted bool
	Next     State
	Reason   RejectReason
}

// Evaluate decides whether text is the legal next count. It is pure:
// rejection leaves Next equal to the input state, acceptance carries the
// updated state. Rule order only determines which reason is reported.
func Evaluate(state State, authorID string, text string) Outcome {
	if !isASCIIDigits(text) {
		return reject(state, ReasonNotNumeric)
	}
	value, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return reject(state, ReasonOutOfRange)
	}
	if value == 0 {
		return reject(state, ReasonNotPositive)
	}
	if state.Started {
		if value != state.Count+1 {
			return reject(state, ReasonOutOfSequence)
		}
		if authorID == state.AuthorID {
			return reject(state, ReasonSameAuthor)
		}
	}
	return Outcome{
		Accepted: true,
		Next:     State{Count: value, AuthorID: authorID, Started: true},
	}
}

func reject(state State, reason RejectReason) Outcome {
	return Outcome{Next: state, Reason: reason}
}

// Content is evaluated raw: any non-digit byte, including whitespace,
// signs, and non-ASCII digits, fails the strict-form rule.
func isASCIIDigits(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}

// Tracker owns the state for one channel. Apply evaluates and commits
// under a single lock so concurrent delivery cannot interleave an
// evaluation with a stale state.
type Tracker struct {
	mu    sync.Mutex
	state State
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Apply(authorID string, text string) Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := Evaluate(t.state, authorID, text)
	if out.Accepted {
		t.state = out.Next
	}
	return out
}

// Seed installs a recovered state. Used only at startup, before the
// gateway delivers events.
func (t *Tracker) Seed(state State) {
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
}

func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
