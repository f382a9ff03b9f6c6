// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// ForAllStatements is the tag of listeners that observe every statement.
const ForAllStatements Tag = iota + 1

type (
	// Tag is the statement category a listener is registered under.
	Tag int

	// Listener observes statements. HandleEvent returns true when the
	// listener fully handled the statement; later listeners and the default
	// execution are then skipped. BeginEvent and EndEvent bracket every
	// statement regardless of who handled it.
	Listener interface {
		BeginEvent(ctx context.Context, sc *Context, cmd *Command)
		HandleEvent(ctx context.Context, sc *Context, cmd *Command) bool
		EndEvent(ctx context.Context, sc *Context, cmd *Command)
		// Identity is a stable name used to recognize a listener across
		// registrations.
		Identity() string
	}

	// Registry holds listeners per tag. Pinned listeners belong to the shell
	// itself and survive RemoveListeners.
	//
	// Dispatch reads a per-tag snapshot that is built lazily and kept until
	// ClearCaches or AddListener drops it. RemoveListeners leaves the snapshot
	// in place, so callers that bulk-remove must clear the caches afterwards.
	Registry struct {
		mu        sync.Mutex
		pinned    map[Tag][]Listener
		listeners map[Tag][]Listener
		cache     map[Tag][]Listener
	}
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case ForAllStatements:
		return "for-all-statements"
	default:
		return fmt.Sprintf("tag(%d)", int(t))
	}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		pinned:    make(map[Tag][]Listener),
		listeners: make(map[Tag][]Listener),
		cache:     make(map[Tag][]Listener),
	}
}

// Pin adds a listener that RemoveListeners never removes. Pinning a second
// listener with the same identity under the same tag is a no-op.
func (r *Registry) Pin(tag Tag, l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.pinned[tag] {
		if p.Identity() == l.Identity() {
			return
		}
	}
	r.pinned[tag] = append(slices.Clone(r.pinned[tag]), l)
	delete(r.cache, tag)
}

// AddListener appends l to the listeners of tag.
func (r *Registry) AddListener(tag Tag, l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listeners[tag] = append(slices.Clone(r.listeners[tag]), l)
	delete(r.cache, tag)
}

// Listeners returns the listeners currently registered under tag, pinned
// listeners first. The returned slice is a copy.
func (r *Registry) Listeners(tag Tag) []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current(tag)
}

// RemoveListeners removes every non-pinned listener registered under tag.
func (r *Registry) RemoveListeners(tag Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.listeners, tag)
}

// ClearCaches drops all dispatch snapshots.
func (r *Registry) ClearCaches() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.cache)
}

// dispatchList returns the snapshot used to dispatch a statement.
func (r *Registry) dispatchList(tag Tag) []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[tag]; ok {
		return cached
	}
	list := r.current(tag)
	r.cache[tag] = list
	return list
}

func (r *Registry) current(tag Tag) []Listener {
	list := make([]Listener, 0, len(r.pinned[tag])+len(r.listeners[tag]))
	list = append(list, r.pinned[tag]...)
	list = append(list, r.listeners[tag]...)
	return list
}
