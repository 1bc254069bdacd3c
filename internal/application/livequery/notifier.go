package livequery

import (
	"context"
	"sync"
)

// Collection names published by the orchestrators. Clients long-poll a
// collection and refetch its full snapshot whenever the version moves.
const (
	CollectionTemplates     = "templates"
	CollectionClasses       = "classes"
	CollectionCheckins      = "checkins"
	CollectionProfiles      = "profiles"
	CollectionMemberships   = "memberships"
	CollectionNotifications = "notifications"
	CollectionProducts      = "products"
)

// Notifier tracks a monotonically increasing version per collection and
// wakes long-poll waiters when a collection changes. Writers call Bump
// after committing; readers poll Wait with the last version they saw.
type Notifier struct {
	mu          sync.Mutex
	collections map[string]*collection
}

type collection struct {
	version uint64
	changed chan struct{} // closed and replaced on every bump
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{collections: make(map[string]*collection)}
}

func (n *Notifier) get(name string) *collection {
	c, ok := n.collections[name]
	if !ok {
		c = &collection{changed: make(chan struct{})}
		n.collections[name] = c
	}
	return c
}

// Bump advances the collection's version and wakes every waiter.
// POST: Version(name) is strictly greater than before
func (n *Notifier) Bump(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	c := n.get(name)
	c.version++
	close(c.changed)
	c.changed = make(chan struct{})
}

// Version returns the collection's current version. Unknown collections
// start at zero.
func (n *Notifier) Version(name string) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.get(name).version
}

// Wait blocks until the collection's version exceeds since, then returns
// the new version. Returns immediately when the caller is already behind.
// The context bounds the wait; its error is returned on expiry so callers
// can distinguish timeout from change.
func (n *Notifier) Wait(ctx context.Context, name string, since uint64) (uint64, error) {
	for {
		n.mu.Lock()
		c := n.get(name)
		version := c.version
		changed := c.changed
		n.mu.Unlock()

		if version > since {
			return version, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return version, ctx.Err()
		}
	}
}
