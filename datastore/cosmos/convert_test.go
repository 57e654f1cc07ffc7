/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cosmos

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/storagemodels"
)

func TestContainerPropertiesConversion(t *testing.T) {
	spec := storagemodels.ContainerSpec{
		Name:             "customers",
		PartitionKeyPath: "/tenantId",
		UniqueKeyPolicy: storagemodels.UniqueKeyPolicy{Keys: []storagemodels.UniqueKey{
			{Paths: []string{"/name", "/phone"}},
			{Paths: []string{"/email"}},
		}},
		TimeToLiveSeconds: 3600,
		Throughput:        storagemodels.ManualThroughput(400),
	}

	props := toContainerProperties(spec)
	assert.Equal(t, "customers", props.ID)
	assert.Equal(t, []string{"/tenantId"}, props.PartitionKeyDefinition.Paths)
	require.NotNil(t, props.DefaultTimeToLive)
	assert.EqualValues(t, 3600, *props.DefaultTimeToLive)
	require.NotNil(t, props.UniqueKeyPolicy)
	assert.Len(t, props.UniqueKeyPolicy.UniqueKeys, 2)

	back := fromContainerProperties(&props)
	assert.Equal(t, storagemodels.ContainerProperties{
		ID:                "customers",
		PartitionKeyPath:  "/tenantId",
		UniqueKeyPolicy:   spec.UniqueKeyPolicy,
		TimeToLiveSeconds: 3600,
	}, back)
}

func TestContainerPropertiesWithoutUniqueKeys(t *testing.T) {
	props := toContainerProperties(storagemodels.ContainerSpec{Name: "orders", PartitionKeyPath: "/customerId"})
	assert.Nil(t, props.UniqueKeyPolicy)
	assert.Nil(t, props.DefaultTimeToLive)

	assert.Equal(t, storagemodels.ContainerProperties{}, fromContainerProperties(nil))
}

func TestTimeToLiveConversion(t *testing.T) {
	for _, seconds := range []int{0, -1, 1, 86400} {
		t.Run(fmt.Sprint(seconds), func(t *testing.T) {
			assert.Equal(t, seconds, fromTimeToLive(toTimeToLive(seconds)))
		})
	}
	assert.Nil(t, toTimeToLive(0), "ttl off is an absent setting")
}

func TestThroughputConversion(t *testing.T) {
	manual, err := toThroughputProperties(storagemodels.ManualThroughput(400))
	require.NoError(t, err)
	assert.Equal(t, storagemodels.ManualThroughput(400), fromThroughputProperties(manual))

	autoscale, err := toThroughputProperties(storagemodels.AutoscaleThroughput(4000))
	require.NoError(t, err)
	assert.Equal(t, storagemodels.AutoscaleThroughput(4000), fromThroughputProperties(autoscale))

	_, err = toThroughputProperties(storagemodels.ServerlessThroughput())
	assert.True(t, errors.IsUnsupported(err))

	assert.Equal(t, storagemodels.ServerlessThroughput(), fromThroughputProperties(nil))
}

func TestCheckThroughputChange(t *testing.T) {
	tests := []struct {
		name    string
		current storagemodels.ThroughputSpec
		desired storagemodels.ThroughputSpec
		wantErr bool
	}{
		{"ManualScaleUp", storagemodels.ManualThroughput(400), storagemodels.ManualThroughput(1000), false},
		{"AutoscaleMax", storagemodels.AutoscaleThroughput(1000), storagemodels.AutoscaleThroughput(4000), false},
		{"ManualToAutoscale", storagemodels.ManualThroughput(400), storagemodels.AutoscaleThroughput(4000), true},
		{"AutoscaleToManual", storagemodels.AutoscaleThroughput(4000), storagemodels.ManualThroughput(400), true},
		{"SharedToDedicated", storagemodels.ServerlessThroughput(), storagemodels.ManualThroughput(400), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkThroughputChange(tt.current, tt.desired)
			if tt.wantErr {
				assert.True(t, errors.IsUnsupported(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusClassification(t *testing.T) {
	conflict := fmt.Errorf("create: %w", &azcore.ResponseError{StatusCode: http.StatusConflict})
	notFound := &azcore.ResponseError{StatusCode: http.StatusNotFound}
	badRequest := &azcore.ResponseError{StatusCode: http.StatusBadRequest}

	assert.True(t, isConflict(conflict))
	assert.False(t, isConflict(notFound))
	assert.True(t, isNotFound(notFound))
	assert.True(t, noDedicatedThroughput(notFound))
	assert.True(t, noDedicatedThroughput(badRequest))
	assert.False(t, noDedicatedThroughput(conflict))
	assert.False(t, isConflict(fmt.Errorf("plain")))
}

func TestNewCosmosClientRequiresEndpoint(t *testing.T) {
	_, err := NewCosmosClient(Settings{})
	assert.True(t, errors.IsValidationError(err))
}
