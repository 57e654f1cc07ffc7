/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cosmos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/suparena/itemstore/datastore"
	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/storagemodels"
)

// Settings holds what is needed to reach a Cosmos DB account.
type Settings struct {
	// ConnectionString takes precedence over Endpoint and Key.
	ConnectionString string
	Endpoint         string
	// Key is the account key. Without it the default Azure credential
	// chain is used.
	Key string
}

// NewCosmosClient builds an azcosmos client from a connection string, an
// account key, or the default Azure credential.
func NewCosmosClient(s Settings) (*azcosmos.Client, error) {
	switch {
	case s.ConnectionString != "":
		client, err := azcosmos.NewClientFromConnectionString(s.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("creating cosmos client from connection string: %w", err)
		}
		return client, nil
	case s.Endpoint == "":
		return nil, errors.NewValidationError("endpoint", "a cosmos endpoint or connection string is required")
	case s.Key != "":
		cred, err := azcosmos.NewKeyCredential(s.Key)
		if err != nil {
			return nil, fmt.Errorf("creating cosmos key credential: %w", err)
		}
		client, err := azcosmos.NewClientWithKey(s.Endpoint, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("creating cosmos client: %w", err)
		}
		return client, nil
	default:
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("loading Azure credentials: %w", err)
		}
		client, err := azcosmos.NewClient(s.Endpoint, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("creating cosmos client: %w", err)
		}
		return client, nil
	}
}

// CosmosContainerClient implements datastore.ContainerClient on one Cosmos
// DB database. Handles are *azcosmos.ContainerClient.
type CosmosContainerClient struct {
	client             *azcosmos.Client
	databaseID         string
	databaseThroughput *storagemodels.ThroughputSpec
	logger             *zap.Logger

	group        singleflight.Group
	openDatabase func(ctx context.Context) (*azcosmos.DatabaseClient, error)

	mu       sync.Mutex
	database *azcosmos.DatabaseClient
}

var _ datastore.ContainerClient = (*CosmosContainerClient)(nil)

// Option is a functional option for configuring the client.
type Option func(*CosmosContainerClient)

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *CosmosContainerClient) {
		c.logger = logger
	}
}

// WithDatabaseThroughput provisions shared throughput when the database is
// created. Containers without their own throughput then share it.
func WithDatabaseThroughput(tp storagemodels.ThroughputSpec) Option {
	return func(c *CosmosContainerClient) {
		c.databaseThroughput = &tp
	}
}

// New creates a container client for databaseID. The database is created
// on first use when missing.
func New(client *azcosmos.Client, databaseID string, opts ...Option) *CosmosContainerClient {
	c := &CosmosContainerClient{
		client:     client,
		databaseID: databaseID,
		logger:     zap.NewNop(),
	}
	c.openDatabase = c.createDatabase
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// databaseTimeout bounds the shared database creation call.
const databaseTimeout = 2 * time.Minute

// databaseClient returns the database, creating it if absent. Concurrent
// first callers share one creation and each waits on its own context. A
// failure is not remembered, so the next call tries again.
func (c *CosmosContainerClient) databaseClient(ctx context.Context) (*azcosmos.DatabaseClient, error) {
	c.mu.Lock()
	db := c.database
	c.mu.Unlock()
	if db != nil {
		return db, nil
	}

	ch := c.group.DoChan("database", func() (any, error) {
		c.mu.Lock()
		db := c.database
		c.mu.Unlock()
		if db != nil {
			return db, nil
		}

		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), databaseTimeout)
		defer cancel()
		db, err := c.openDatabase(shared)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.database = db
		c.mu.Unlock()
		return db, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*azcosmos.DatabaseClient), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// createDatabase creates the database with the optional shared throughput.
// A conflict means it already exists.
func (c *CosmosContainerClient) createDatabase(ctx context.Context) (*azcosmos.DatabaseClient, error) {
	var createOpts *azcosmos.CreateDatabaseOptions
	if c.databaseThroughput != nil {
		tp, err := toThroughputProperties(*c.databaseThroughput)
		if err != nil {
			return nil, err
		}
		createOpts = &azcosmos.CreateDatabaseOptions{ThroughputProperties: tp}
	}
	_, err := c.client.CreateDatabase(ctx, azcosmos.DatabaseProperties{ID: c.databaseID}, createOpts)
	if err != nil && !isConflict(err) {
		return nil, fmt.Errorf("creating database %s: %w", c.databaseID, err)
	}
	if err == nil {
		c.logger.Info("created cosmos database", zap.String("database", c.databaseID))
	}

	db, err := c.client.NewDatabase(c.databaseID)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", c.databaseID, err)
	}
	return db, nil
}

// CreateContainerIfNotExists creates the container for spec. A conflict
// means it already exists and is not an error.
func (c *CosmosContainerClient) CreateContainerIfNotExists(ctx context.Context, spec storagemodels.ContainerSpec) (datastore.ContainerHandle, error) {
	db, err := c.databaseClient(ctx)
	if err != nil {
		return nil, err
	}

	props := toContainerProperties(spec)
	var createOpts *azcosmos.CreateContainerOptions
	if spec.Throughput.Mode != storagemodels.ThroughputServerless {
		tp, err := toThroughputProperties(spec.Throughput)
		if err != nil {
			return nil, err
		}
		createOpts = &azcosmos.CreateContainerOptions{ThroughputProperties: tp}
	}

	_, err = db.CreateContainer(ctx, props, createOpts)
	switch {
	case err == nil:
		c.logger.Debug("created cosmos container",
			zap.String("database", c.databaseID),
			zap.String("container", spec.Name),
			zap.Stringer("throughput", spec.Throughput))
	case isConflict(err):
	default:
		return nil, fmt.Errorf("creating container %s: %w", spec.Name, err)
	}

	container, err := db.NewContainer(spec.Name)
	if err != nil {
		return nil, fmt.Errorf("opening container %s: %w", spec.Name, err)
	}
	return container, nil
}

// OpenContainer returns a handle to an existing container.
func (c *CosmosContainerClient) OpenContainer(ctx context.Context, name string) (datastore.ContainerHandle, error) {
	db, err := c.client.NewDatabase(c.databaseID)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", c.databaseID, err)
	}
	container, err := db.NewContainer(name)
	if err != nil {
		return nil, fmt.Errorf("opening container %s: %w", name, err)
	}
	if _, err := container.Read(ctx, nil); err != nil {
		if isNotFound(err) {
			return nil, errors.NewNotFoundError("container", name)
		}
		return nil, fmt.Errorf("reading container %s: %w", name, err)
	}
	return container, nil
}

// ReadContainerProperties reads the container definition and its
// dedicated throughput.
func (c *CosmosContainerClient) ReadContainerProperties(ctx context.Context, handle datastore.ContainerHandle) (*storagemodels.ContainerProperties, error) {
	container, err := containerClient(handle)
	if err != nil {
		return nil, err
	}

	resp, err := container.Read(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("reading container %s: %w", container.ID(), err)
	}
	props := fromContainerProperties(resp.ContainerProperties)

	throughput, err := readThroughput(ctx, container)
	if err != nil {
		return nil, err
	}
	props.Throughput = throughput
	return &props, nil
}

// ReplaceContainerProperties replaces the default time to live and keeps
// every other setting of the live container.
func (c *CosmosContainerClient) ReplaceContainerProperties(ctx context.Context, handle datastore.ContainerHandle, props storagemodels.ContainerProperties) error {
	container, err := containerClient(handle)
	if err != nil {
		return err
	}

	resp, err := container.Read(ctx, nil)
	if err != nil {
		return fmt.Errorf("reading container %s: %w", container.ID(), err)
	}
	if resp.ContainerProperties == nil {
		return errors.NewNotFoundError("container", container.ID())
	}
	live := *resp.ContainerProperties
	live.DefaultTimeToLive = toTimeToLive(props.TimeToLiveSeconds)

	if _, err := container.Replace(ctx, live, nil); err != nil {
		return fmt.Errorf("replacing container %s: %w", container.ID(), err)
	}
	return nil
}

// ReplaceThroughput changes the dedicated throughput within its mode.
func (c *CosmosContainerClient) ReplaceThroughput(ctx context.Context, handle datastore.ContainerHandle, throughput storagemodels.ThroughputSpec) error {
	container, err := containerClient(handle)
	if err != nil {
		return err
	}

	current, err := readThroughput(ctx, container)
	if err != nil {
		return err
	}
	if err := checkThroughputChange(current, throughput); err != nil {
		return fmt.Errorf("container %s: %w", container.ID(), err)
	}
	if throughput.Mode == storagemodels.ThroughputServerless {
		return nil
	}

	tp, err := toThroughputProperties(throughput)
	if err != nil {
		return err
	}
	if _, err := container.ReplaceThroughput(ctx, *tp, nil); err != nil {
		return fmt.Errorf("replacing throughput of %s: %w", container.ID(), err)
	}
	return nil
}

// readThroughput reports containers without dedicated throughput as
// serverless.
func readThroughput(ctx context.Context, container *azcosmos.ContainerClient) (storagemodels.ThroughputSpec, error) {
	resp, err := container.ReadThroughput(ctx, nil)
	if err != nil {
		if noDedicatedThroughput(err) {
			return storagemodels.ServerlessThroughput(), nil
		}
		return storagemodels.ThroughputSpec{}, fmt.Errorf("reading throughput of %s: %w", container.ID(), err)
	}
	return fromThroughputProperties(resp.ThroughputProperties), nil
}

func containerClient(handle datastore.ContainerHandle) (*azcosmos.ContainerClient, error) {
	container, ok := handle.(*azcosmos.ContainerClient)
	if !ok {
		return nil, errors.NewValidationError("handle", fmt.Sprintf("%T is not a cosmos container", handle))
	}
	return container, nil
}
