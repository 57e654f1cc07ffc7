/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package container

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/suparena/itemstore/datastore"
	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/storagemodels"
)

// Provider lazily provisions and memoizes the container of item model T.
// Concurrent first calls share one provisioning; failures are not cached.
// A caller that gives up does not cancel the shared call for the others.
type Provider[T any] struct {
	service *Service
	group   singleflight.Group
	timeout time.Duration

	mu     sync.RWMutex
	handle datastore.ContainerHandle
}

// DefaultProvisionTimeout bounds a shared provisioning call. It runs
// detached from the cancellation of the caller that started it.
const DefaultProvisionTimeout = 5 * time.Minute

// ProviderOption is a functional option for configuring a Provider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	timeout time.Duration
}

// WithProvisionTimeout sets the bound of a shared provisioning call.
func WithProvisionTimeout(d time.Duration) ProviderOption {
	return func(o *providerOptions) {
		o.timeout = d
	}
}

// NewProvider returns a typed provider over s.
func NewProvider[T any](s *Service, opts ...ProviderOption) *Provider[T] {
	o := providerOptions{timeout: DefaultProvisionTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &Provider[T]{service: s, timeout: o.timeout}
}

// ItemType returns the key of T.
func (p *Provider[T]) ItemType() storagemodels.TypeKey {
	return storagemodels.KeyFor[T]()
}

// Container returns the memoized handle, provisioning it on first use.
func (p *Provider[T]) Container(ctx context.Context) (datastore.ContainerHandle, error) {
	p.mu.RLock()
	handle := p.handle
	p.mu.RUnlock()
	if handle != nil {
		return handle, nil
	}
	return p.load(ctx, "get", false)
}

// Refresh provisions the container with a forced sync and replaces the
// memoized handle.
func (p *Provider[T]) Refresh(ctx context.Context) (datastore.ContainerHandle, error) {
	return p.load(ctx, "refresh", true)
}

func (p *Provider[T]) load(ctx context.Context, key string, forceSync bool) (datastore.ContainerHandle, error) {
	if ctx.Err() != nil {
		// Report the cancellation the way the service does, without a remote call.
		return GetContainer[T](ctx, p.service, forceSync)
	}

	// The shared call outlives any single caller; each caller waits on its
	// own context.
	ch := p.group.DoChan(key, func() (any, error) {
		if !forceSync {
			p.mu.RLock()
			handle := p.handle
			p.mu.RUnlock()
			if handle != nil {
				return handle, nil
			}
		}

		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()
		handle, err := GetContainer[T](shared, p.service, forceSync)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.handle = handle
		p.mu.Unlock()
		return handle, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(datastore.ContainerHandle), nil
	case <-ctx.Done():
		return nil, p.cancelled(ctx)
	}
}

// cancelled wraps the caller's context error like the service does.
func (p *Provider[T]) cancelled(ctx context.Context) error {
	name := ""
	if cfg, err := p.service.configs.Get(p.ItemType()); err == nil {
		name = cfg.ContainerName
	}
	return errors.NewContainerProvisioningError(name, p.service.firstOperation(), ctx.Err())
}
