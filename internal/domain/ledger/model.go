package ledger

import "errors"

// ErrUnauthenticated is returned when a ledger mutation is attempted
// without an authenticated user id.
var ErrUnauthenticated = errors.New("an authenticated user is required")

// Ledger is the set of class ids a user is currently checked into.
// An empty ledger and a missing ledger record mean the same thing.
type Ledger struct {
	UserID   string
	ClassIDs []string
}

// Contains reports whether the user is checked into the given class.
// INVARIANT: Ledger fields are not mutated
func (l *Ledger) Contains(classID string) bool {
	for _, id := range l.ClassIDs {
		if id == classID {
			return true
		}
	}
	return false
}

// CheckIn adds a class id to the set. Adding an already-present id is a
// no-op; returns true if the set changed.
func (l *Ledger) CheckIn(classID string) bool {
	if l.Contains(classID) {
		return false
	}
	l.ClassIDs = append(l.ClassIDs, classID)
	return true
}

// Cancel removes a class id from the set. Removing an absent id is a
// no-op; returns true if the set changed.
func (l *Ledger) Cancel(classID string) bool {
	for i, id := range l.ClassIDs {
		if id == classID {
			l.ClassIDs = append(l.ClassIDs[:i], l.ClassIDs[i+1:]...)
			return true
		}
	}
	return false
}
