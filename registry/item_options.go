/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/suparena/itemstore/storagemodels"
)

// ItemOptions holds the storage options declared for one item model. Zero
// values mean "not declared" and leave the decision to the facet defaults.
type ItemOptions struct {
	ContainerName    string
	PartitionKeyPath string
	UniqueKeys       []storagemodels.UniqueKey
	// TimeToLive is the default TTL in seconds; nil when not declared.
	TimeToLive *int
	// Throughput is nil when not declared.
	Throughput              *storagemodels.ThroughputSpec
	SyncContainerProperties bool
}

func (o ItemOptions) clone() ItemOptions {
	out := o
	if o.UniqueKeys != nil {
		out.UniqueKeys = storagemodels.UniqueKeyPolicy{Keys: o.UniqueKeys}.Clone().Keys
	}
	if o.TimeToLive != nil {
		ttl := *o.TimeToLive
		out.TimeToLive = &ttl
	}
	if o.Throughput != nil {
		tp := *o.Throughput
		out.Throughput = &tp
	}
	return out
}

// overlay returns o with every declared field of top applied on top of it.
func (o ItemOptions) overlay(top ItemOptions) ItemOptions {
	out := o.clone()
	top = top.clone()
	if top.ContainerName != "" {
		out.ContainerName = top.ContainerName
	}
	if top.PartitionKeyPath != "" {
		out.PartitionKeyPath = top.PartitionKeyPath
	}
	if top.UniqueKeys != nil {
		out.UniqueKeys = top.UniqueKeys
	}
	if top.TimeToLive != nil {
		out.TimeToLive = top.TimeToLive
	}
	if top.Throughput != nil {
		out.Throughput = top.Throughput
	}
	out.SyncContainerProperties = out.SyncContainerProperties || top.SyncContainerProperties
	return out
}

// Registry associates item models with their declared ItemOptions.
//
// Declarations are expected during initialization; lookups may run
// concurrently with them.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]*ItemOptions
	byName map[string]ItemOptions
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]*ItemOptions),
		byName: make(map[string]ItemOptions),
	}
}

// Configure returns a Builder that declares options for item model T.
func Configure[T any](r *Registry) *Builder {
	t := storagemodels.KeyFor[T]()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byType[t]; !ok {
		r.byType[t] = &ItemOptions{}
	}
	return &Builder{r: r, t: t}
}

// Lookup returns the options declared for t. Options declared by type name
// are applied first and options declared through Configure override them.
func (r *Registry) Lookup(t storagemodels.TypeKey) (ItemOptions, bool) {
	t = storagemodels.NormalizeKey(t)
	if t == nil {
		return ItemOptions{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	named, hasName := r.byName[t.String()]
	if !hasName {
		named, hasName = r.byName[t.Name()]
	}
	typed, hasType := r.byType[t]

	switch {
	case hasName && hasType:
		return named.overlay(*typed), true
	case hasType:
		return typed.clone(), true
	case hasName:
		return named.clone(), true
	}
	return ItemOptions{}, false
}

// Builder declares ItemOptions for one item model.
type Builder struct {
	r *Registry
	t reflect.Type
}

func (b *Builder) update(fn func(*ItemOptions)) *Builder {
	b.r.mu.Lock()
	defer b.r.mu.Unlock()
	fn(b.r.byType[b.t])
	return b
}

// WithContainer stores the item model in the named container.
func (b *Builder) WithContainer(name string) *Builder {
	return b.update(func(o *ItemOptions) { o.ContainerName = name })
}

// WithPartitionKey sets the partition key path, e.g. "/customerId".
func (b *Builder) WithPartitionKey(path string) *Builder {
	return b.update(func(o *ItemOptions) { o.PartitionKeyPath = path })
}

// WithUniqueKey adds a unique key made of the given paths.
func (b *Builder) WithUniqueKey(paths ...string) *Builder {
	return b.update(func(o *ItemOptions) {
		o.UniqueKeys = append(o.UniqueKeys, storagemodels.UniqueKey{Paths: slices.Clone(paths)})
	})
}

// WithDefaultTimeToLive sets the container default TTL. A negative duration
// enables TTL without a default expiry.
func (b *Builder) WithDefaultTimeToLive(d time.Duration) *Builder {
	ttl := int(d / time.Second)
	if d < 0 {
		ttl = -1
	}
	return b.update(func(o *ItemOptions) { o.TimeToLive = &ttl })
}

// WithTimeToLiveOff disables TTL on the container.
func (b *Builder) WithTimeToLiveOff() *Builder {
	ttl := 0
	return b.update(func(o *ItemOptions) { o.TimeToLive = &ttl })
}

// WithManualThroughput provisions a fixed ru request units per second.
func (b *Builder) WithManualThroughput(ru int32) *Builder {
	tp := storagemodels.ManualThroughput(ru)
	return b.update(func(o *ItemOptions) { o.Throughput = &tp })
}

// WithAutoscaleThroughput provisions autoscale throughput up to maxRU.
func (b *Builder) WithAutoscaleThroughput(maxRU int32) *Builder {
	tp := storagemodels.AutoscaleThroughput(maxRU)
	return b.update(func(o *ItemOptions) { o.Throughput = &tp })
}

// WithServerlessThroughput creates the container without dedicated throughput.
func (b *Builder) WithServerlessThroughput() *Builder {
	tp := storagemodels.ServerlessThroughput()
	return b.update(func(o *ItemOptions) { o.Throughput = &tp })
}

// WithSyncableContainerProperties reconciles the live container with the
// declared options whenever it is provisioned.
func (b *Builder) WithSyncableContainerProperties() *Builder {
	return b.update(func(o *ItemOptions) { o.SyncContainerProperties = true })
}
