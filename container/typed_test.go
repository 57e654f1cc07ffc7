/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package container_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/itemstore/container"
	"github.com/suparena/itemstore/datastore"
	"github.com/suparena/itemstore/datastore/mock"
	"github.com/suparena/itemstore/datastore/testmodels"
	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/registry"
	"github.com/suparena/itemstore/storagemodels"
)

func TestProviderSharesInFlightProvisioning(t *testing.T) {
	const callers = 32
	svc, client := newService(t, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	client.WithCreateHook(func(storagemodels.ContainerSpec) {
		once.Do(func() { close(entered) })
		<-release
	})

	p := container.NewProvider[testmodels.Order](svc)
	assert.Equal(t, storagemodels.KeyFor[testmodels.Order](), p.ItemType())

	handles := make([]datastore.ContainerHandle, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := p.Container(context.Background())
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}

	<-entered
	close(release)
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Same(t, handles[0], handles[i])
	}
	assert.Equal(t, 1, client.Calls(mock.OpCreate))
	assert.Equal(t, 1, client.Creations())
}

func TestProviderCancelledCallerDoesNotFailOthers(t *testing.T) {
	svc, client := newService(t, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	client.WithCreateHook(func(storagemodels.ContainerSpec) {
		once.Do(func() { close(entered) })
		<-release
	})

	p := container.NewProvider[testmodels.Order](svc)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := p.Container(first)
		firstErr <- err
	}()
	<-entered

	type result struct {
		handle datastore.ContainerHandle
		err    error
	}
	second := make(chan result, 1)
	go func() {
		h, err := p.Container(context.Background())
		second <- result{h, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	err := <-firstErr
	require.Error(t, err)
	assert.True(t, errors.IsContainerProvisioning(err))
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "items", res.handle.ID())
	assert.Equal(t, 1, client.Calls(mock.OpCreate))

	// The shared call completed and its handle is memoized.
	again, err := p.Container(context.Background())
	require.NoError(t, err)
	assert.Same(t, res.handle, again)
	assert.Equal(t, 1, client.Calls(mock.OpCreate))
}

func TestProviderAlreadyCancelledContext(t *testing.T) {
	svc, client := newService(t, nil)
	p := container.NewProvider[testmodels.Order](svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Container(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsContainerProvisioning(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, client.Calls(mock.OpCreate))
}

func TestProviderSharedCallIsBounded(t *testing.T) {
	svc, client := newService(t, nil)
	release := make(chan struct{})
	defer close(release)
	client.WithCreateHook(func(storagemodels.ContainerSpec) {
		select {
		case <-release:
		case <-time.After(50 * time.Millisecond):
		}
	})

	p := container.NewProvider[testmodels.Order](svc, container.WithProvisionTimeout(10*time.Millisecond))
	_, err := p.Container(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProviderRetriesAfterFailure(t *testing.T) {
	svc, client := newService(t, nil)
	boom := stderrors.New("throttled")
	client.WithError(mock.OpCreate, boom)

	p := container.NewProvider[testmodels.Order](svc)

	_, err := p.Container(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsContainerProvisioning(err))
	assert.ErrorIs(t, err, boom)

	client.WithError(mock.OpCreate, nil)
	handle, err := p.Container(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "items", handle.ID())

	_, err = p.Container(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, client.Calls(mock.OpCreate))
}

func TestProviderRefreshForcesSync(t *testing.T) {
	svc, client := newService(t, func(reg *registry.Registry) {
		registry.Configure[testmodels.AuditEvent](reg).
			WithContainer("audit").
			WithAutoscaleThroughput(4000)
	})
	p := container.NewProvider[testmodels.AuditEvent](svc)

	first, err := p.Container(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, client.Calls(mock.OpRead))

	client.SetThroughput("audit", storagemodels.AutoscaleThroughput(1000))

	refreshed, err := p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID(), refreshed.ID())
	assert.Equal(t, 1, client.Calls(mock.OpRead))
	assert.Equal(t, 1, client.Calls(mock.OpReplaceThroughput))

	props, _ := client.Properties("audit")
	assert.Equal(t, storagemodels.AutoscaleThroughput(4000), props.Throughput)
	assert.Equal(t, "/stream", props.PartitionKeyPath)
}
