// Package callback provides a small subscriber list used to fan out
// parameterless notifications, such as atlas reorganize events.
//
// Subscribers are identified by the ID returned from Add rather than by
// comparing functions, since Go closures are not comparable.
//
// A List is not safe for concurrent use.
package callback

// ID identifies a subscriber registered with a List.
// The zero ID is never returned by Add.
type ID uint64

type subscriber struct {
	id ID
	fn func()
}

// List is an ordered list of subscribers.
// The zero value is an empty list ready to use.
type List struct {
	subs   []subscriber
	lastID ID
}

// Add appends fn to the list and returns its ID.
// Adding the same function twice registers it twice.
func (l *List) Add(fn func()) ID {
	l.lastID++
	l.subs = append(l.subs, subscriber{id: l.lastID, fn: fn})
	return l.lastID
}

// Remove removes the subscriber with the given ID.
// It reports whether a subscriber was removed.
func (l *List) Remove(id ID) bool {
	for i := range l.subs {
		if l.subs[i].id != id {
			continue
		}
		// Copy instead of reslicing in place: a pass in progress holds
		// the old backing array and must keep seeing its snapshot.
		subs := make([]subscriber, 0, len(l.subs)-1)
		subs = append(subs, l.subs[:i]...)
		l.subs = append(subs, l.subs[i+1:]...)
		return true
	}
	return false
}

// Invoke calls every subscriber in registration order.
//
// The set of subscribers is fixed when Invoke starts. Subscribers removed
// during the pass are still called in this pass, and subscribers added
// during the pass are first called by the next Invoke.
func (l *List) Invoke() {
	snapshot := l.subs[:len(l.subs):len(l.subs)]
	for _, s := range snapshot {
		s.fn()
	}
}

// Len returns the number of registered subscribers.
func (l *List) Len() int {
	return len(l.subs)
}

// Reset removes all subscribers.
func (l *List) Reset() {
	l.subs = nil
}
