// Package reconcile keeps a rendered account list in sync with a
// computed display sequence using minimal structural change. Items
// are keyed by token so a card keeps its identity (and any in-flight
// input or reorder state) across re-renders.
package reconcile

import "github.com/tokswap/tokswap/internal/model"

// Component is a rendered card for one account. Update propagates new
// field values into the existing presentation without recreating it.
type Component interface {
	Update(model.Account)
}

// Mount is the rendered list the reconciler mutates. Indices refer to
// the list's current child order.
type Mount interface {
	InsertAt(index int, c Component)
	RemoveAt(index int)
	Move(from, to int)
	// Clear empties the list and shows the empty-state placeholder.
	Clear()
}

// ReorderController is the reorder behavior attached to a non-empty
// list (the drag handle, or the keyboard reorder mode in a terminal).
// On every completed gesture it reports the gesture's endpoints and
// the final per-item token order.
type ReorderController interface {
	Attach(commit func(oldIndex, newIndex int, tokens []string))
	Detach()
}

// Ops counts the structural operations of one Apply pass. An
// unchanged sequence must produce zero inserts, removes and moves.
type Ops struct {
	Inserts int
	Removes int
	Moves   int
	Updates int
}

// Reconciler diffs display sequences against the rendered list.
type Reconciler struct {
	mount   Mount
	factory func(model.Account) Component
	sorter  ReorderController

	// onReorder receives the captured token order of a completed,
	// effective gesture. The caller persists it and republishes.
	onReorder func(tokens []string)

	components map[string]Component
	keys       []string
	attached   bool
}

// New creates a Reconciler over the given mount. factory builds a
// card for an account not rendered yet; sorter may be nil when the
// surface has no reorder behavior.
func New(mount Mount, factory func(model.Account) Component, sorter ReorderController, onReorder func([]string)) *Reconciler {
	return &Reconciler{
		mount:      mount,
		factory:    factory,
		sorter:     sorter,
		onReorder:  onReorder,
		components: make(map[string]Component),
	}
}

// Keys returns the currently rendered token order.
func (r *Reconciler) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Apply transforms the rendered list into the new sequence and
// returns the operation counts.
func (r *Reconciler) Apply(seq []model.Account) Ops {
	var ops Ops

	if len(seq) == 0 {
		if len(r.keys) > 0 || len(r.components) > 0 {
			ops.Removes = len(r.keys)
		}
		r.components = make(map[string]Component)
		r.keys = nil
		r.mount.Clear()
		if r.attached && r.sorter != nil {
			r.sorter.Detach()
		}
		r.attached = false
		return ops
	}

	wasEmpty := len(r.keys) == 0

	newKeys := make(map[string]bool, len(seq))
	for _, acc := range seq {
		newKeys[acc.Token] = true
	}

	// Remove cards whose key is gone.
	for i := len(r.keys) - 1; i >= 0; i-- {
		key := r.keys[i]
		if newKeys[key] {
			continue
		}
		r.mount.RemoveAt(i)
		r.keys = append(r.keys[:i], r.keys[i+1:]...)
		delete(r.components, key)
		ops.Removes++
	}

	// Walk the target sequence: update in place, reposition only
	// when the current position is wrong, insert what is missing.
	for idx, acc := range seq {
		if c, ok := r.components[acc.Token]; ok {
			c.Update(acc)
			ops.Updates++
			cur := r.indexOf(acc.Token)
			if cur != idx {
				r.mount.Move(cur, idx)
				r.keys = moveKey(r.keys, cur, idx)
				ops.Moves++
			}
			continue
		}
		c := r.factory(acc)
		r.mount.InsertAt(idx, c)
		r.keys = insertKey(r.keys, idx, acc.Token)
		r.components[acc.Token] = c
		ops.Inserts++
	}

	// Attach the reorder behavior once, on the empty→non-empty
	// transition.
	if wasEmpty && !r.attached && r.sorter != nil {
		r.sorter.Attach(r.commit)
		r.attached = true
	}

	return ops
}

// commit receives a completed reorder gesture. A gesture that ends
// where it started performs no persistence write.
func (r *Reconciler) commit(oldIndex, newIndex int, tokens []string) {
	if oldIndex == newIndex {
		return
	}
	r.keys = append([]string(nil), tokens...)
	if r.onReorder != nil {
		r.onReorder(tokens)
	}
}

func (r *Reconciler) indexOf(key string) int {
	for i, k := range r.keys {
		if k == key {
			return i
		}
	}
	return -1
}

func insertKey(keys []string, i int, key string) []string {
	keys = append(keys, "")
	copy(keys[i+1:], keys[i:])
	keys[i] = key
	return keys
}

func moveKey(keys []string, from, to int) []string {
	key := keys[from]
	keys = append(keys[:from], keys[from+1:]...)
	return insertKey(keys, to, key)
}
