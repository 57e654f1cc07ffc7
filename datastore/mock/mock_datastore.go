/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory ContainerClient for testing
package mock

import (
	"context"
	"sync"

	"github.com/suparena/itemstore/datastore"
	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/storagemodels"
)

// Operation names a ContainerClient method for call counting and error injection
type Operation string

const (
	OpCreate            Operation = "create"
	OpOpen              Operation = "open"
	OpRead              Operation = "read"
	OpReplace           Operation = "replace"
	OpReplaceThroughput Operation = "replace-throughput"
)

// Container is the handle returned by the mock client
type Container struct {
	name string
}

// ID returns the container name
func (c *Container) ID() string { return c.name }

type containerState struct {
	handle *Container
	props  storagemodels.ContainerProperties
}

// Client is a mock implementation of datastore.ContainerClient for testing
type Client struct {
	mu         sync.RWMutex
	containers map[string]*containerState
	calls      map[Operation]int
	errs       map[Operation]error
	creations  int
	createHook func(spec storagemodels.ContainerSpec)
}

var _ datastore.ContainerClient = (*Client)(nil)

// New creates a new mock Client without containers
func New() *Client {
	return &Client{
		containers: make(map[string]*containerState),
		calls:      make(map[Operation]int),
		errs:       make(map[Operation]error),
	}
}

// WithError makes every call of op return err; a nil err clears it
func (m *Client) WithError(op Operation, err error) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, op)
	} else {
		m.errs[op] = err
	}
	return m
}

// WithCreateHook runs fn at the start of every create call, outside the lock
func (m *Client) WithCreateHook(fn func(spec storagemodels.ContainerSpec)) *Client {
	m.createHook = fn
	return m
}

func (m *Client) begin(op Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	return m.errs[op]
}

// CreateContainerIfNotExists creates the container unless it already exists
func (m *Client) CreateContainerIfNotExists(ctx context.Context, spec storagemodels.ContainerSpec) (datastore.ContainerHandle, error) {
	if m.createHook != nil {
		m.createHook(spec)
	}
	if err := m.begin(OpCreate); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.containers[spec.Name]; ok {
		return existing.handle, nil
	}
	state := &containerState{
		handle: &Container{name: spec.Name},
		props: storagemodels.ContainerProperties{
			ID:                spec.Name,
			PartitionKeyPath:  spec.PartitionKeyPath,
			UniqueKeyPolicy:   spec.UniqueKeyPolicy.Clone(),
			TimeToLiveSeconds: spec.TimeToLiveSeconds,
			Throughput:        spec.Throughput,
		},
	}
	m.containers[spec.Name] = state
	m.creations++
	return state.handle, nil
}

// OpenContainer returns the handle of an existing container
func (m *Client) OpenContainer(ctx context.Context, name string) (datastore.ContainerHandle, error) {
	if err := m.begin(OpOpen); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.containers[name]
	if !ok {
		return nil, errors.NewNotFoundError("container", name)
	}
	return state.handle, nil
}

// ReadContainerProperties returns a copy of the stored properties
func (m *Client) ReadContainerProperties(ctx context.Context, handle datastore.ContainerHandle) (*storagemodels.ContainerProperties, error) {
	if err := m.begin(OpRead); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.containers[handle.ID()]
	if !ok {
		return nil, errors.NewNotFoundError("container", handle.ID())
	}
	props := state.props
	props.UniqueKeyPolicy = props.UniqueKeyPolicy.Clone()
	return &props, nil
}

// ReplaceContainerProperties updates the default TTL
func (m *Client) ReplaceContainerProperties(ctx context.Context, handle datastore.ContainerHandle, props storagemodels.ContainerProperties) error {
	if err := m.begin(OpReplace); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.containers[handle.ID()]
	if !ok {
		return errors.NewNotFoundError("container", handle.ID())
	}
	state.props.TimeToLiveSeconds = props.TimeToLiveSeconds
	return nil
}

// ReplaceThroughput updates the container throughput
func (m *Client) ReplaceThroughput(ctx context.Context, handle datastore.ContainerHandle, throughput storagemodels.ThroughputSpec) error {
	if err := m.begin(OpReplaceThroughput); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.containers[handle.ID()]
	if !ok {
		return errors.NewNotFoundError("container", handle.ID())
	}
	state.props.Throughput = throughput
	return nil
}

// Helper methods for testing

// Seed stores a container as if it had been created remotely
func (m *Client) Seed(props storagemodels.ContainerProperties) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.containers[props.ID] = &containerState{
		handle: &Container{name: props.ID},
		props:  props,
	}
}

// SetThroughput simulates a remote throughput change
func (m *Client) SetThroughput(name string, throughput storagemodels.ThroughputSpec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.containers[name]; ok {
		state.props.Throughput = throughput
	}
}

// SetTimeToLive simulates a remote TTL change
func (m *Client) SetTimeToLive(name string, seconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.containers[name]; ok {
		state.props.TimeToLiveSeconds = seconds
	}
}

// Properties returns the stored properties of a container
func (m *Client) Properties(name string) (storagemodels.ContainerProperties, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.containers[name]
	if !ok {
		return storagemodels.ContainerProperties{}, false
	}
	return state.props, true
}

// Calls returns how often op was invoked
func (m *Client) Calls(op Operation) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// Creations returns how many containers were actually created
func (m *Client) Creations() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creations
}

// Count returns the number of stored containers
func (m *Client) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.containers)
}

// Reset removes all containers, counters and injected errors
func (m *Client) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.containers = make(map[string]*containerState)
	m.calls = make(map[Operation]int)
	m.errs = make(map[Operation]error)
	m.creations = 0
}
