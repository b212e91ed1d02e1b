// Package lifecycle implements the transition-table-driven status state
// machine shared by provider and booking lifecycles. The tables are the
// single authority on which transitions are legal; nothing else in the
// codebase switch-cases on status pairs.
package lifecycle

import (
	"fmt"
)

// TransitionTable maps a state to the set of states it may move to. A state
// missing from the table, or mapped to an empty slice, is terminal.
type TransitionTable map[string][]string

// InvalidTransitionError reports a transition not present in the table. It
// carries the explicit (from, to) pair so callers can surface an actionable
// message.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// Transition validates a requested state change against the table and
// returns the new state. It has no side effects; appending the history entry
// is the caller's job, and only on success.
func Transition(table TransitionTable, current, requested string) (string, error) {
	for _, allowed := range table[current] {
		if allowed == requested {
			return requested, nil
		}
	}
	return "", &InvalidTransitionError{From: current, To: requested}
}

// CanTransition reports whether the table allows current -> requested.
func CanTransition(table TransitionTable, current, requested string) bool {
	_, err := Transition(table, current, requested)
	return err == nil
}

// AllowedFrom returns a copy of the states reachable from current. Callers
// use it to offer only legal transitions.
func AllowedFrom(table TransitionTable, current string) []string {
	allowed := table[current]
	out := make([]string, len(allowed))
	copy(out, allowed)
	return out
}
