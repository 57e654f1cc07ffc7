/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"reflect"
	"slices"
)

// TypeKey identifies an item model. It is the reflected Go type with any
// pointer indirection removed, so *Order and Order share one key.
type TypeKey = reflect.Type

// KeyFor returns the TypeKey of item model T.
func KeyFor[T any]() TypeKey {
	return NormalizeKey(reflect.TypeFor[T]())
}

// NormalizeKey strips pointer indirections from t.
func NormalizeKey(t reflect.Type) TypeKey {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// UniqueKey is a group of paths whose combined values must be unique
// within a logical partition.
type UniqueKey struct {
	Paths []string `json:"paths" yaml:"paths"`
}

// UniqueKeyPolicy is the set of unique keys of a container.
type UniqueKeyPolicy struct {
	Keys []UniqueKey `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// IsZero reports whether the policy declares no unique keys.
func (p UniqueKeyPolicy) IsZero() bool {
	return len(p.Keys) == 0
}

// Equal compares two policies key by key and path by path.
func (p UniqueKeyPolicy) Equal(o UniqueKeyPolicy) bool {
	return slices.EqualFunc(p.Keys, o.Keys, func(a, b UniqueKey) bool {
		return slices.Equal(a.Paths, b.Paths)
	})
}

// Clone returns a deep copy of the policy.
func (p UniqueKeyPolicy) Clone() UniqueKeyPolicy {
	if p.Keys == nil {
		return UniqueKeyPolicy{}
	}
	keys := make([]UniqueKey, len(p.Keys))
	for i, k := range p.Keys {
		keys[i] = UniqueKey{Paths: slices.Clone(k.Paths)}
	}
	return UniqueKeyPolicy{Keys: keys}
}

// ItemConfiguration is the resolved storage configuration of one item model.
// Values are built once per TypeKey and shared by pointer; they must not be
// modified after construction.
type ItemConfiguration struct {
	// ItemType is the model the configuration was resolved for. It is nil for
	// configurations that were declared without a Go type.
	ItemType TypeKey
	// ContainerName is the container holding items of this model.
	ContainerName string
	// PartitionKeyPath is the JSON path of the partition key, e.g. "/customerId".
	PartitionKeyPath string
	// UniqueKeyPolicy is applied at container creation only.
	UniqueKeyPolicy UniqueKeyPolicy
	// Throughput is the container throughput.
	Throughput ThroughputSpec
	// TimeToLiveSeconds is the container default TTL: 0 is off, -1 is on
	// without a default expiry, n > 0 expires items after n seconds.
	TimeToLiveSeconds int
	// SyncContainerProperties reconciles the live container with this
	// configuration on every provisioning call.
	SyncContainerProperties bool
}

// ContainerSpec returns the creation parameters for the configured container.
func (c *ItemConfiguration) ContainerSpec() ContainerSpec {
	return ContainerSpec{
		Name:              c.ContainerName,
		PartitionKeyPath:  c.PartitionKeyPath,
		UniqueKeyPolicy:   c.UniqueKeyPolicy.Clone(),
		TimeToLiveSeconds: c.TimeToLiveSeconds,
		Throughput:        c.Throughput,
	}
}

// ItemTypeName returns a printable name for the configured item type.
func (c *ItemConfiguration) ItemTypeName() string {
	if c.ItemType == nil {
		return c.ContainerName
	}
	return c.ItemType.String()
}

// ContainerSpec holds the parameters used to create a container.
type ContainerSpec struct {
	Name              string
	PartitionKeyPath  string
	UniqueKeyPolicy   UniqueKeyPolicy
	TimeToLiveSeconds int
	Throughput        ThroughputSpec
}

// ContainerProperties is the live state of a remote container.
type ContainerProperties struct {
	ID                string
	PartitionKeyPath  string
	UniqueKeyPolicy   UniqueKeyPolicy
	TimeToLiveSeconds int
	Throughput        ThroughputSpec
}
