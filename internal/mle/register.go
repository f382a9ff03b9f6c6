// SPDX-License-Identifier: MPL-2.0

package mle

import (
	"reflect"

	"github.com/mlesh/mlesh/internal/shell"
)

// ListenerRegistry is the part of *shell.Registry the registrar needs.
type ListenerRegistry interface {
	Listeners(tag shell.Tag) []shell.Listener
	AddListener(tag shell.Tag, l shell.Listener)
	RemoveListeners(tag shell.Tag)
	ClearCaches()
}

// Register installs l under shell.ForAllStatements, replacing any listener
// registered by an earlier call.
//
// All removable listeners are taken out and the caches cleared. Each removed
// listener is then added back unless it carries ListenerIdentity or a
// listener of the same type survived the removal, so repeated calls never
// duplicate entries. Finally l is added.
func Register(r ListenerRegistry, l shell.Listener) {
	before := r.Listeners(shell.ForAllStatements)
	r.RemoveListeners(shell.ForAllStatements)
	r.ClearCaches()

	remaining := make(map[reflect.Type]struct{})
	for _, kept := range r.Listeners(shell.ForAllStatements) {
		remaining[reflect.TypeOf(kept)] = struct{}{}
	}

	for _, old := range before {
		if old.Identity() == ListenerIdentity {
			continue
		}
		if _, ok := remaining[reflect.TypeOf(old)]; ok {
			continue
		}
		r.AddListener(shell.ForAllStatements, old)
	}
	r.AddListener(shell.ForAllStatements, l)
}
