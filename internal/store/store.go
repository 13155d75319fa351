// Package store holds the application state and notifies subscribers
// on every update. All access happens on the UI event loop; the store
// itself does no persistence — callers write through storage before
// publishing, so in-memory state never runs ahead of the saved
// snapshot.
package store

import (
	"github.com/tokswap/tokswap/internal/model"
	"github.com/tokswap/tokswap/internal/order"
)

// FilterAll and FilterUntagged are the reserved filter scopes. Any
// other non-empty filter value is a tag ID.
const (
	FilterAll      = "all"
	FilterUntagged = "untagged"
)

// State is the full application state. Treat values returned by
// GetState as read-only snapshots; all changes go through SetState.
type State struct {
	Accounts    []model.Account
	Tags        []model.Tag
	Orders      order.Orders
	FilterTagID string // "", FilterAll, FilterUntagged, or a tag ID
	ActiveToken string
	Filter      string // free-text substring filter on email

	// Derived O(1) indices, rebuilt when their source changes.
	AccountByToken map[string]model.Account
	TagByID        map[string]model.Tag
}

// Patch is a partial state update. Nil fields are left untouched;
// set fields are shallow-merged into the current state.
type Patch struct {
	Accounts    *[]model.Account
	Tags        *[]model.Tag
	Orders      *order.Orders
	FilterTagID *string
	ActiveToken *string
	Filter      *string
}

// Listener receives the full state after every update, in
// subscription order.
type Listener func(State)

// Store is a minimal observable state container.
type Store struct {
	state     State
	listeners []entry
	nextID    int

	notifying bool
	queue     []func(State) Patch
}

type entry struct {
	id int
	fn Listener
}

// New creates a Store with the given initial state and builds the
// derived indices.
func New(initial State) *Store {
	initial.AccountByToken = model.BuildAccountMap(initial.Accounts)
	initial.TagByID = model.BuildTagMap(initial.Tags)
	return &Store{state: initial}
}

// GetState returns the current state snapshot.
func (s *Store) GetState() State {
	return s.state
}

// SetState merges the patch into the current state and notifies every
// subscriber. Calls made from inside a listener are queued and
// processed after the current notification cycle completes, so no
// mutation interleaves with a running publish.
func (s *Store) SetState(p Patch) {
	s.SetStateFunc(func(State) Patch { return p })
}

// SetStateFunc computes a patch from the state current at apply time,
// then merges and publishes it like SetState. The updater must be
// pure.
func (s *Store) SetStateFunc(update func(State) Patch) {
	if s.notifying {
		s.queue = append(s.queue, update)
		return
	}
	s.apply(update(s.state))
	s.publish()
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.apply(next(s.state))
		s.publish()
	}
}

// Subscribe registers a listener and returns its unsubscribe func.
func (s *Store) Subscribe(fn Listener) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, entry{id: id, fn: fn})
	return func() {
		for i, e := range s.listeners {
			if e.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) apply(p Patch) {
	if p.Accounts != nil {
		s.state.Accounts = *p.Accounts
		s.state.AccountByToken = model.BuildAccountMap(s.state.Accounts)
	}
	if p.Tags != nil {
		s.state.Tags = *p.Tags
		s.state.TagByID = model.BuildTagMap(s.state.Tags)
	}
	if p.Orders != nil {
		s.state.Orders = *p.Orders
	}
	if p.FilterTagID != nil {
		s.state.FilterTagID = *p.FilterTagID
	}
	if p.ActiveToken != nil {
		s.state.ActiveToken = *p.ActiveToken
	}
	if p.Filter != nil {
		s.state.Filter = *p.Filter
	}
}

func (s *Store) publish() {
	s.notifying = true
	// Snapshot the listener list so subscribes from inside a
	// listener don't receive the notification that registered them.
	current := make([]entry, len(s.listeners))
	copy(current, s.listeners)
	for _, e := range current {
		e.fn(s.state)
	}
	s.notifying = false
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T { return &v }
