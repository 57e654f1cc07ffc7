/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package configuration

import (
	"sync"

	"go.uber.org/zap"

	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/provider"
	"github.com/suparena/itemstore/storagemodels"
)

// Provider resolves and caches one ItemConfiguration per item model.
//
// A miss resolves all facets outside of any lock and commits the result
// with sync.Map.LoadOrStore. Racing callers for an unseen type may each run
// the resolvers, but only the first committed value is kept and every
// caller receives that same pointer. Entries are never updated or removed.
type Provider struct {
	facets provider.Facets
	items  sync.Map // storagemodels.TypeKey -> *storagemodels.ItemConfiguration
	logger *zap.Logger
}

// Option is a functional option for configuring the Provider.
type Option func(*Provider)

// WithLogger sets the logger used for cache misses.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// New creates a Provider over the given facets. Nil facets fall back to the
// default resolvers with an empty registry.
func New(facets provider.Facets, opts ...Option) *Provider {
	p := &Provider{
		facets: facets.WithDefaults(nil, provider.Defaults{}),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetOptions returns the configuration of item model T.
func GetOptions[T any](p *Provider) (*storagemodels.ItemConfiguration, error) {
	return p.Get(storagemodels.KeyFor[T]())
}

// Get returns the configuration for t, resolving it on first use.
func (p *Provider) Get(t storagemodels.TypeKey) (*storagemodels.ItemConfiguration, error) {
	t = storagemodels.NormalizeKey(t)
	if t == nil {
		return nil, errors.NewConfigurationResolutionError("<nil>", "itemType",
			errors.NewValidationError("itemType", "item type must not be nil"))
	}
	if cached, ok := p.items.Load(t); ok {
		return cached.(*storagemodels.ItemConfiguration), nil
	}

	cfg, err := p.resolve(t)
	if err != nil {
		return nil, err
	}

	actual, loaded := p.items.LoadOrStore(t, cfg)
	if !loaded {
		p.logger.Debug("resolved item configuration",
			zap.Stringer("itemType", t),
			zap.String("container", cfg.ContainerName),
			zap.String("partitionKeyPath", cfg.PartitionKeyPath),
			zap.Stringer("throughput", cfg.Throughput),
			zap.Int("ttl", cfg.TimeToLiveSeconds),
			zap.Bool("sync", cfg.SyncContainerProperties))
	}
	return actual.(*storagemodels.ItemConfiguration), nil
}

func (p *Provider) resolve(t storagemodels.TypeKey) (*storagemodels.ItemConfiguration, error) {
	fail := func(facet provider.Facet, err error) error {
		return errors.NewConfigurationResolutionError(t.String(), string(facet), err)
	}

	containerName, err := p.facets.ContainerName.ContainerName(t)
	if err != nil {
		return nil, fail(provider.FacetContainerName, err)
	}
	partitionKeyPath, err := p.facets.PartitionKeyPath.PartitionKeyPath(t)
	if err != nil {
		return nil, fail(provider.FacetPartitionKeyPath, err)
	}
	uniqueKeys, err := p.facets.UniqueKeyPolicy.UniqueKeyPolicy(t)
	if err != nil {
		return nil, fail(provider.FacetUniqueKeyPolicy, err)
	}
	ttl, err := p.facets.TimeToLive.DefaultTimeToLive(t)
	if err != nil {
		return nil, fail(provider.FacetTimeToLive, err)
	}
	throughput, err := p.facets.Throughput.Throughput(t)
	if err != nil {
		return nil, fail(provider.FacetThroughput, err)
	}
	sync, err := p.facets.SyncPolicy.ShouldSync(t)
	if err != nil {
		return nil, fail(provider.FacetSyncPolicy, err)
	}

	return &storagemodels.ItemConfiguration{
		ItemType:                t,
		ContainerName:           containerName,
		PartitionKeyPath:        partitionKeyPath,
		UniqueKeyPolicy:         uniqueKeys.Clone(),
		Throughput:              throughput,
		TimeToLiveSeconds:       ttl,
		SyncContainerProperties: sync,
	}, nil
}

// Cached reports whether a configuration for t has been committed.
func (p *Provider) Cached(t storagemodels.TypeKey) bool {
	_, ok := p.items.Load(storagemodels.NormalizeKey(t))
	return ok
}

// Len returns the number of committed configurations.
func (p *Provider) Len() int {
	n := 0
	p.items.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
