/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct{ ID string }

func TestKeyFor(t *testing.T) {
	want := reflect.TypeOf(sample{})
	assert.Equal(t, want, KeyFor[sample]())
	assert.Equal(t, want, KeyFor[*sample]())
	assert.Equal(t, want, KeyFor[**sample]())
	assert.Nil(t, NormalizeKey(nil))
}

func TestUniqueKeyPolicy(t *testing.T) {
	p := UniqueKeyPolicy{Keys: []UniqueKey{
		{Paths: []string{"/name", "/phone"}},
		{Paths: []string{"/email"}},
	}}

	clone := p.Clone()
	assert.True(t, p.Equal(clone))
	clone.Keys[0].Paths[0] = "/other"
	assert.False(t, p.Equal(clone))
	assert.Equal(t, "/name", p.Keys[0].Paths[0])

	reordered := UniqueKeyPolicy{Keys: []UniqueKey{p.Keys[1], p.Keys[0]}}
	assert.False(t, p.Equal(reordered))

	assert.True(t, UniqueKeyPolicy{}.IsZero())
	assert.True(t, UniqueKeyPolicy{}.Equal(UniqueKeyPolicy{Keys: []UniqueKey{}}))
	assert.True(t, UniqueKeyPolicy{}.Clone().IsZero())
}

func TestItemConfiguration(t *testing.T) {
	cfg := &ItemConfiguration{
		ItemType:          KeyFor[sample](),
		ContainerName:     "samples",
		PartitionKeyPath:  "/id",
		UniqueKeyPolicy:   UniqueKeyPolicy{Keys: []UniqueKey{{Paths: []string{"/email"}}}},
		Throughput:        DefaultThroughput(),
		TimeToLiveSeconds: -1,
	}

	spec := cfg.ContainerSpec()
	assert.Equal(t, "samples", spec.Name)
	assert.Equal(t, "/id", spec.PartitionKeyPath)
	assert.Equal(t, -1, spec.TimeToLiveSeconds)
	assert.Equal(t, ManualThroughput(400), spec.Throughput)
	spec.UniqueKeyPolicy.Keys[0].Paths[0] = "/changed"
	assert.Equal(t, "/email", cfg.UniqueKeyPolicy.Keys[0].Paths[0])

	assert.Equal(t, "storagemodels.sample", cfg.ItemTypeName())
	cfg.ItemType = nil
	assert.Equal(t, "samples", cfg.ItemTypeName())
}

func TestParseThroughputMode(t *testing.T) {
	for _, m := range []ThroughputMode{ThroughputManual, ThroughputAutoscale, ThroughputServerless} {
		parsed, err := ParseThroughputMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	_, err := ParseThroughputMode("burst")
	assert.Error(t, err)
}

func TestThroughputSpecString(t *testing.T) {
	assert.Equal(t, "manual(400)", DefaultThroughput().String())
	assert.Equal(t, "autoscale(4000)", AutoscaleThroughput(4000).String())
	assert.Equal(t, "serverless", ServerlessThroughput().String())
}
