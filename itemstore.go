/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package itemstore

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/suparena/itemstore/config"
	"github.com/suparena/itemstore/configuration"
	"github.com/suparena/itemstore/container"
	"github.com/suparena/itemstore/datastore"
	"github.com/suparena/itemstore/datastore/cosmos"
	"github.com/suparena/itemstore/datastore/ddb"
	"github.com/suparena/itemstore/provider"
	"github.com/suparena/itemstore/registry"
	"github.com/suparena/itemstore/storagemodels"
)

// Store wires the item registry, the configuration aggregator and the
// container service around one backend client.
type Store struct {
	registry   *registry.Registry
	defaults   provider.Defaults
	configs    *configuration.Provider
	containers *container.Service
	logger     *zap.Logger

	mu        sync.Mutex
	providers map[reflect.Type]any // *container.Provider[T]
}

type storeOptions struct {
	registry   *registry.Registry
	defaults   provider.Defaults
	facets     provider.Facets
	logger     *zap.Logger
	tracer     trace.Tracer
	autoCreate bool
}

// Option is a functional option for configuring the Store.
type Option func(*storeOptions)

// WithRegistry sets the registry holding declared item options.
func WithRegistry(reg *registry.Registry) Option {
	return func(o *storeOptions) {
		o.registry = reg
	}
}

// WithDefaults sets the repository-wide defaults.
func WithDefaults(defaults provider.Defaults) Option {
	return func(o *storeOptions) {
		o.defaults = defaults
	}
}

// WithFacets replaces individual facet resolvers. Nil resolvers keep their
// defaults.
func WithFacets(facets provider.Facets) Option {
	return func(o *storeOptions) {
		o.facets = facets
	}
}

// WithLogger sets the logger of the store and its components.
func WithLogger(logger *zap.Logger) Option {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// WithTracer sets the tracer used for provisioning spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *storeOptions) {
		o.tracer = tracer
	}
}

// WithAutoCreate controls whether missing containers are created.
func WithAutoCreate(enabled bool) Option {
	return func(o *storeOptions) {
		o.autoCreate = enabled
	}
}

// New creates a Store over client.
func New(client datastore.ContainerClient, opts ...Option) *Store {
	o := &storeOptions{
		logger:     zap.NewNop(),
		autoCreate: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = registry.New()
	}

	facets := o.facets.WithDefaults(o.registry, o.defaults)
	configs := configuration.New(facets, configuration.WithLogger(o.logger))

	serviceOpts := []container.Option{
		container.WithLogger(o.logger),
		container.WithAutoCreate(o.autoCreate),
	}
	if o.tracer != nil {
		serviceOpts = append(serviceOpts, container.WithTracer(o.tracer))
	}

	return &Store{
		registry:   o.registry,
		defaults:   o.defaults,
		configs:    configs,
		containers: container.NewService(configs, client, serviceOpts...),
		logger:     o.logger,
		providers:  make(map[reflect.Type]any),
	}
}

// NewFromOptions builds the backend client selected by opts and a Store
// using the options' defaults and item declarations.
func NewFromOptions(ctx context.Context, opts *config.Options, extra ...Option) (*Store, error) {
	defaults, err := opts.Defaults()
	if err != nil {
		return nil, err
	}
	reg, err := opts.Registry()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithRegistry(reg),
		WithDefaults(defaults),
		WithAutoCreate(opts.AutoCreate),
	}
	o := &storeOptions{logger: zap.NewNop()}
	for _, opt := range append(base, extra...) {
		opt(o)
	}

	client, err := NewClient(ctx, opts, o.logger)
	if err != nil {
		return nil, err
	}
	return New(client, append(base, extra...)...), nil
}

// NewClient creates the ContainerClient for the configured backend.
func NewClient(ctx context.Context, opts *config.Options, logger *zap.Logger) (datastore.ContainerClient, error) {
	switch opts.Backend {
	case config.BackendCosmos:
		azClient, err := cosmos.NewCosmosClient(cosmos.Settings{
			ConnectionString: opts.Cosmos.ConnectionString,
			Endpoint:         opts.Cosmos.Endpoint,
			Key:              opts.Cosmos.Key,
		})
		if err != nil {
			return nil, err
		}
		clientOpts := []cosmos.Option{cosmos.WithLogger(logger)}
		tp, err := opts.CosmosDatabaseThroughput()
		if err != nil {
			return nil, err
		}
		if tp != nil {
			clientOpts = append(clientOpts, cosmos.WithDatabaseThroughput(*tp))
		}
		return cosmos.New(azClient, opts.Cosmos.DatabaseID, clientOpts...), nil
	case config.BackendDynamoDB:
		api, err := ddb.NewDynamoDBClient(ctx, ddb.Settings{
			Region:    opts.DynamoDB.Region,
			AccessKey: opts.DynamoDB.AccessKey,
			SecretKey: opts.DynamoDB.SecretKey,
			Endpoint:  opts.DynamoDB.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return ddb.New(api, ddb.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}

// Registry returns the registry of declared item options.
func (s *Store) Registry() *registry.Registry { return s.registry }

// Configurations returns the configuration aggregator.
func (s *Store) Configurations() *configuration.Provider { return s.configs }

// Containers returns the container provisioning service.
func (s *Store) Containers() *container.Service { return s.containers }

// GetOptions returns the resolved configuration of item model T.
func GetOptions[T any](s *Store) (*storagemodels.ItemConfiguration, error) {
	return configuration.GetOptions[T](s.configs)
}

// GetContainer returns the container of item model T.
func GetContainer[T any](ctx context.Context, s *Store, forceSync bool) (datastore.ContainerHandle, error) {
	return container.GetContainer[T](ctx, s.containers, forceSync)
}

// ResolveDeclared returns the configuration of an item declared by name
// only.
func (s *Store) ResolveDeclared(name string) (*storagemodels.ItemConfiguration, error) {
	return provider.ResolveDeclared(s.registry, s.defaults, name)
}

// ProvisionDeclared gets or creates the container of an item declared by
// name only.
func (s *Store) ProvisionDeclared(ctx context.Context, name string, forceSync bool) (datastore.ContainerHandle, error) {
	cfg, err := s.ResolveDeclared(name)
	if err != nil {
		return nil, err
	}
	return s.containers.Provision(ctx, cfg, forceSync)
}
