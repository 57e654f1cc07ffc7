/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package itemstore

import (
	"context"
	"reflect"
	"sort"

	"github.com/suparena/itemstore/container"
	"github.com/suparena/itemstore/datastore"
)

// ContainerFor returns the memoizing container provider for item model T,
// creating it on first use. T and *T get separate providers over the same
// configuration.
func ContainerFor[T any](s *Store) *container.Provider[T] {
	typ := reflect.TypeFor[T]()

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, exists := s.providers[typ]; exists {
		return p.(*container.Provider[T])
	}

	p := container.NewProvider[T](s.containers)
	s.providers[typ] = p
	return p
}

// Container is a convenience function returning the memoized container of T.
func Container[T any](ctx context.Context, s *Store) (datastore.ContainerHandle, error) {
	return ContainerFor[T](s).Container(ctx)
}

// ProviderTypes lists the item models with a container provider, sorted by
// name.
func (s *Store) ProviderTypes() []reflect.Type {
	s.mu.Lock()
	defer s.mu.Unlock()

	types := make([]reflect.Type, 0, len(s.providers))
	for t := range s.providers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	return types
}
