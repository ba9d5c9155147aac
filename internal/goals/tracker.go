// Package goals implements the ordered checkpoint sequence and the session score.
package goals

import (
	"github.com/drillsim/drillsim/pkg/core"
)

// State of one goal relative to the sequence
type State uint8

const (
	Inert State = iota
	Active
	Completed
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "inert"
	}
}

// Tracker walks an ordered goal list. The index never decreases and
// completion is terminal.
type Tracker struct {
	goals     []core.GoalSpec
	index     int
	completed bool
	score     int
}

// NewTracker creates a tracker with the first goal active.
// An empty list starts out completed.
func NewTracker(goals []core.GoalSpec) *Tracker {
	g := make([]core.GoalSpec, len(goals))
	copy(g, goals)
	return &Tracker{goals: g, completed: len(g) == 0}
}

// Len returns the number of goals
func (t *Tracker) Len() int {
	return len(t.goals)
}

// Index returns the active goal index, or Len() once completed
func (t *Tracker) Index() int {
	return t.index
}

// Active returns the currently active goal
func (t *Tracker) Active() (core.GoalSpec, bool) {
	if t.completed {
		return core.GoalSpec{}, false
	}
	return t.goals[t.index], true
}

// StateOf returns the state of goal i
func (t *Tracker) StateOf(i int) State {
	switch {
	case t.completed:
		return Completed
	case i == t.index:
		return Active
	default:
		return Inert
	}
}

// Completed reports whether the last goal has been reached
func (t *Tracker) Completed() bool {
	return t.completed
}

// Reach triggers the goal at index i. Anything other than the active goal is
// ignored. It returns true when the trigger advanced the sequence.
func (t *Tracker) Reach(i int) bool {
	if t.completed || i != t.index {
		return false
	}
	if t.index+1 < len(t.goals) {
		t.index++
	} else {
		t.index = len(t.goals)
		t.completed = true
	}
	return true
}

// AddScore adds points to the session score
func (t *Tracker) AddScore(points int) {
	t.score += points
}

// Score returns the accumulated score
func (t *Tracker) Score() int {
	return t.score
}
