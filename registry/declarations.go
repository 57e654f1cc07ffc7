/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
)

// Declare registers options for an item model by type name. The name may be
// qualified ("testmodels.Order") or bare ("Order"). Declaring the same name
// twice is an error to prevent accidental overrides.
func (r *Registry) Declare(name string, opts ItemOptions) error {
	if name == "" {
		return fmt.Errorf("type registry: empty item type name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("type registry: item type %q already declared", name)
	}
	r.byName[name] = opts.clone()
	return nil
}

// Declared returns the options declared under name.
func (r *Registry) Declared(name string) (ItemOptions, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	opts, ok := r.byName[name]
	if !ok {
		return ItemOptions{}, false
	}
	return opts.clone(), true
}

// Names returns every item type name declared with Declare, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
