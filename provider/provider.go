/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package provider

import (
	"github.com/suparena/itemstore/registry"
	"github.com/suparena/itemstore/storagemodels"
)

// Facet names one configuration attribute of an item model.
type Facet string

const (
	FacetContainerName    Facet = "containerName"
	FacetPartitionKeyPath Facet = "partitionKeyPath"
	FacetUniqueKeyPolicy  Facet = "uniqueKeyPolicy"
	FacetTimeToLive       Facet = "defaultTimeToLive"
	FacetThroughput       Facet = "throughput"
	FacetSyncPolicy       Facet = "syncContainerProperties"
)

// ContainerNameProvider resolves the container an item model is stored in.
type ContainerNameProvider interface {
	ContainerName(t storagemodels.TypeKey) (string, error)
}

// PartitionKeyPathProvider resolves the partition key path of an item model.
type PartitionKeyPathProvider interface {
	PartitionKeyPath(t storagemodels.TypeKey) (string, error)
}

// UniqueKeyPolicyProvider resolves the unique keys of an item model.
type UniqueKeyPolicyProvider interface {
	UniqueKeyPolicy(t storagemodels.TypeKey) (storagemodels.UniqueKeyPolicy, error)
}

// DefaultTimeToLiveProvider resolves the container default TTL in seconds.
type DefaultTimeToLiveProvider interface {
	DefaultTimeToLive(t storagemodels.TypeKey) (int, error)
}

// ThroughputProvider resolves the container throughput.
type ThroughputProvider interface {
	Throughput(t storagemodels.TypeKey) (storagemodels.ThroughputSpec, error)
}

// SyncPolicyProvider decides whether container properties are reconciled
// with the remote database on every provisioning call.
type SyncPolicyProvider interface {
	ShouldSync(t storagemodels.TypeKey) (bool, error)
}

// Facets bundles the six resolvers consumed by the configuration aggregator.
// Resolvers must be deterministic per type and free of side effects that
// are not idempotent, since they may run more than once under contention.
type Facets struct {
	ContainerName    ContainerNameProvider
	PartitionKeyPath PartitionKeyPathProvider
	UniqueKeyPolicy  UniqueKeyPolicyProvider
	TimeToLive       DefaultTimeToLiveProvider
	Throughput       ThroughputProvider
	SyncPolicy       SyncPolicyProvider
}

// Defaults holds repository-wide fallbacks used when an item model declares
// nothing for a facet.
type Defaults struct {
	// DefaultContainerID is the shared container for item models without a
	// container of their own.
	DefaultContainerID string
	// ContainerPerItemType stores each undeclared model in a container named
	// after its type instead of DefaultContainerID.
	ContainerPerItemType bool
	// DefaultTimeToLive in seconds; nil means -1.
	DefaultTimeToLive *int
	// DefaultThroughput; nil means manual 400.
	DefaultThroughput *storagemodels.ThroughputSpec
	// SyncAllContainerProperties turns on synchronization for every model.
	SyncAllContainerProperties bool
}

// DefaultContainerID is used when Defaults.DefaultContainerID is empty.
const DefaultContainerID = "items"

// DefaultPartitionKeyPath is used when an item model declares no partition key.
const DefaultPartitionKeyPath = "/id"

// NewDefaultFacets returns the registry-, metadata- and defaults-driven
// implementation of every facet. reg may be nil.
func NewDefaultFacets(reg *registry.Registry, defaults Defaults) Facets {
	if reg == nil {
		reg = registry.New()
	}
	if defaults.DefaultContainerID == "" {
		defaults.DefaultContainerID = DefaultContainerID
	}
	d := &defaultProvider{reg: reg, defaults: defaults}
	return Facets{
		ContainerName:    d,
		PartitionKeyPath: d,
		UniqueKeyPolicy:  d,
		TimeToLive:       d,
		Throughput:       d,
		SyncPolicy:       d,
	}
}

// WithDefaults returns f with every nil resolver replaced by its default.
func (f Facets) WithDefaults(reg *registry.Registry, defaults Defaults) Facets {
	d := NewDefaultFacets(reg, defaults)
	if f.ContainerName == nil {
		f.ContainerName = d.ContainerName
	}
	if f.PartitionKeyPath == nil {
		f.PartitionKeyPath = d.PartitionKeyPath
	}
	if f.UniqueKeyPolicy == nil {
		f.UniqueKeyPolicy = d.UniqueKeyPolicy
	}
	if f.TimeToLive == nil {
		f.TimeToLive = d.TimeToLive
	}
	if f.Throughput == nil {
		f.Throughput = d.Throughput
	}
	if f.SyncPolicy == nil {
		f.SyncPolicy = d.SyncPolicy
	}
	return f
}

type defaultProvider struct {
	reg      *registry.Registry
	defaults Defaults
}

func (d *defaultProvider) declared(t storagemodels.TypeKey) registry.ItemOptions {
	opts, _ := d.reg.Lookup(t)
	return opts
}
