/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/storagemodels"
)

// mockDynamoAPI is a testify mock for the API interface
type mockDynamoAPI struct {
	mock.Mock
}

func (m *mockDynamoAPI) CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sdk.CreateTableOutput), args.Error(1)
}

func (m *mockDynamoAPI) DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sdk.DescribeTableOutput), args.Error(1)
}

func (m *mockDynamoAPI) UpdateTable(ctx context.Context, params *sdk.UpdateTableInput, optFns ...func(*sdk.Options)) (*sdk.UpdateTableOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sdk.UpdateTableOutput), args.Error(1)
}

func (m *mockDynamoAPI) DescribeTimeToLive(ctx context.Context, params *sdk.DescribeTimeToLiveInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTimeToLiveOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sdk.DescribeTimeToLiveOutput), args.Error(1)
}

func (m *mockDynamoAPI) UpdateTimeToLive(ctx context.Context, params *sdk.UpdateTimeToLiveInput, optFns ...func(*sdk.Options)) (*sdk.UpdateTimeToLiveOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sdk.UpdateTimeToLiveOutput), args.Error(1)
}

func activeTable(name, key string, billing types.BillingMode, rcu int64) *sdk.DescribeTableOutput {
	table := &types.TableDescription{
		TableName:   aws.String(name),
		TableStatus: types.TableStatusActive,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(key), KeyType: types.KeyTypeHash},
		},
		BillingModeSummary: &types.BillingModeSummary{BillingMode: billing},
	}
	if billing == types.BillingModeProvisioned {
		table.ProvisionedThroughput = &types.ProvisionedThroughputDescription{
			ReadCapacityUnits:  aws.Int64(rcu),
			WriteCapacityUnits: aws.Int64(rcu),
		}
	}
	return &sdk.DescribeTableOutput{Table: table}
}

func ttlStatus(status types.TimeToLiveStatus) *sdk.DescribeTimeToLiveOutput {
	return &sdk.DescribeTimeToLiveOutput{
		TimeToLiveDescription: &types.TimeToLiveDescription{
			AttributeName:    aws.String(TimeToLiveAttribute),
			TimeToLiveStatus: status,
		},
	}
}

func TestCreateTableInput(t *testing.T) {
	t.Run("Manual", func(t *testing.T) {
		input, err := createTableInput(storagemodels.ContainerSpec{
			Name:             "orders",
			PartitionKeyPath: "/customerId",
			Throughput:       storagemodels.ManualThroughput(400),
		})
		require.NoError(t, err)

		assert.Equal(t, "orders", aws.ToString(input.TableName))
		assert.Equal(t, types.BillingModeProvisioned, input.BillingMode)
		assert.EqualValues(t, 400, aws.ToInt64(input.ProvisionedThroughput.ReadCapacityUnits))
		assert.EqualValues(t, 400, aws.ToInt64(input.ProvisionedThroughput.WriteCapacityUnits))
		require.Len(t, input.KeySchema, 1)
		assert.Equal(t, "customerId", aws.ToString(input.KeySchema[0].AttributeName))
		assert.Equal(t, types.KeyTypeHash, input.KeySchema[0].KeyType)
		assert.Equal(t, types.ScalarAttributeTypeS, input.AttributeDefinitions[0].AttributeType)
	})

	t.Run("OnDemand", func(t *testing.T) {
		for _, tp := range []storagemodels.ThroughputSpec{
			storagemodels.AutoscaleThroughput(4000),
			storagemodels.ServerlessThroughput(),
		} {
			input, err := createTableInput(storagemodels.ContainerSpec{
				Name:             "events",
				PartitionKeyPath: "/stream",
				Throughput:       tp,
			})
			require.NoError(t, err)
			assert.Equal(t, types.BillingModePayPerRequest, input.BillingMode, tp.String())
			assert.Nil(t, input.ProvisionedThroughput)
		}
	})

	t.Run("UniqueKeysUnsupported", func(t *testing.T) {
		_, err := createTableInput(storagemodels.ContainerSpec{
			Name:             "customers",
			PartitionKeyPath: "/tenantId",
			UniqueKeyPolicy:  storagemodels.UniqueKeyPolicy{Keys: []storagemodels.UniqueKey{{Paths: []string{"/email"}}}},
		})
		assert.True(t, errors.IsUnsupported(err))
	})
}

func TestAttributeName(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "/id", want: "id"},
		{path: "/customerId", want: "customerId"},
		{path: "/address/zip", wantErr: true},
		{path: "id", wantErr: true},
		{path: "/", wantErr: true},
		{path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := attributeName(tt.path)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateContainerIfNotExists(t *testing.T) {
	ctx := context.Background()

	t.Run("NewTableWithTimeToLive", func(t *testing.T) {
		api := &mockDynamoAPI{}
		api.On("CreateTable", mock.Anything, mock.Anything).Return(&sdk.CreateTableOutput{}, nil).Once()
		api.On("DescribeTable", mock.Anything, mock.Anything).
			Return(activeTable("events", "stream", types.BillingModePayPerRequest, 0), nil)
		api.On("UpdateTimeToLive", mock.Anything, mock.MatchedBy(func(in *sdk.UpdateTimeToLiveInput) bool {
			return aws.ToString(in.TimeToLiveSpecification.AttributeName) == TimeToLiveAttribute &&
				aws.ToBool(in.TimeToLiveSpecification.Enabled)
		})).Return(&sdk.UpdateTimeToLiveOutput{}, nil).Once()

		handle, err := New(api).CreateContainerIfNotExists(ctx, storagemodels.ContainerSpec{
			Name:              "events",
			PartitionKeyPath:  "/stream",
			TimeToLiveSeconds: -1,
			Throughput:        storagemodels.ServerlessThroughput(),
		})
		require.NoError(t, err)
		assert.Equal(t, Table{Name: "events"}, handle)
		api.AssertExpectations(t)
	})

	t.Run("ExistingTable", func(t *testing.T) {
		api := &mockDynamoAPI{}
		api.On("CreateTable", mock.Anything, mock.Anything).
			Return(nil, &types.ResourceInUseException{Message: aws.String("Table already exists")}).Once()
		api.On("DescribeTable", mock.Anything, mock.Anything).
			Return(activeTable("orders", "customerId", types.BillingModeProvisioned, 400), nil).Once()

		handle, err := New(api).CreateContainerIfNotExists(ctx, storagemodels.ContainerSpec{
			Name:              "orders",
			PartitionKeyPath:  "/customerId",
			TimeToLiveSeconds: -1,
			Throughput:        storagemodels.ManualThroughput(400),
		})
		require.NoError(t, err)
		assert.Equal(t, "orders", handle.ID())
		api.AssertExpectations(t)
		api.AssertNotCalled(t, "UpdateTimeToLive", mock.Anything, mock.Anything)
	})

	t.Run("ExistingTableStillCreating", func(t *testing.T) {
		creating := activeTable("orders", "customerId", types.BillingModeProvisioned, 400)
		creating.Table.TableStatus = types.TableStatusCreating

		api := &mockDynamoAPI{}
		api.On("CreateTable", mock.Anything, mock.Anything).
			Return(nil, &types.ResourceInUseException{Message: aws.String("Table already exists")}).Once()
		api.On("DescribeTable", mock.Anything, mock.Anything).Return(creating, nil).Twice()
		api.On("DescribeTable", mock.Anything, mock.Anything).
			Return(activeTable("orders", "customerId", types.BillingModeProvisioned, 400), nil).Once()

		client := New(api, WithWaitDelay(time.Millisecond))
		handle, err := client.CreateContainerIfNotExists(ctx, storagemodels.ContainerSpec{
			Name:             "orders",
			PartitionKeyPath: "/customerId",
			Throughput:       storagemodels.ManualThroughput(400),
		})
		require.NoError(t, err)
		assert.Equal(t, "orders", handle.ID())
		api.AssertNumberOfCalls(t, "DescribeTable", 3)
	})

	t.Run("ExistingTableNeverActive", func(t *testing.T) {
		creating := activeTable("orders", "customerId", types.BillingModeProvisioned, 400)
		creating.Table.TableStatus = types.TableStatusCreating

		api := &mockDynamoAPI{}
		api.On("CreateTable", mock.Anything, mock.Anything).
			Return(nil, &types.ResourceInUseException{Message: aws.String("Table already exists")}).Once()
		api.On("DescribeTable", mock.Anything, mock.Anything).Return(creating, nil)

		client := New(api, WithWaitDelay(time.Millisecond), WithWaitTimeout(20*time.Millisecond))
		_, err := client.CreateContainerIfNotExists(ctx, storagemodels.ContainerSpec{
			Name:             "orders",
			PartitionKeyPath: "/customerId",
			Throughput:       storagemodels.ManualThroughput(400),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "waiting for table orders")
	})

	t.Run("CreateFails", func(t *testing.T) {
		boom := stderrors.New("limit exceeded")
		api := &mockDynamoAPI{}
		api.On("CreateTable", mock.Anything, mock.Anything).Return(nil, boom).Once()

		_, err := New(api).CreateContainerIfNotExists(ctx, storagemodels.ContainerSpec{
			Name:             "orders",
			PartitionKeyPath: "/customerId",
		})
		assert.ErrorIs(t, err, boom)
	})
}

func TestOpenContainer(t *testing.T) {
	api := &mockDynamoAPI{}
	api.On("DescribeTable", mock.Anything, mock.MatchedBy(func(in *sdk.DescribeTableInput) bool {
		return aws.ToString(in.TableName) == "missing"
	})).Return(nil, &types.ResourceNotFoundException{Message: aws.String("not found")})
	api.On("DescribeTable", mock.Anything, mock.Anything).
		Return(activeTable("orders", "customerId", types.BillingModeProvisioned, 400), nil)

	client := New(api)

	_, err := client.OpenContainer(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))

	handle, err := client.OpenContainer(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", handle.ID())
}

func TestReadContainerProperties(t *testing.T) {
	api := &mockDynamoAPI{}
	api.On("DescribeTable", mock.Anything, mock.Anything).
		Return(activeTable("orders", "customerId", types.BillingModeProvisioned, 1000), nil)
	api.On("DescribeTimeToLive", mock.Anything, mock.Anything).
		Return(ttlStatus(types.TimeToLiveStatusEnabled), nil)

	props, err := New(api).ReadContainerProperties(context.Background(), Table{Name: "orders"})
	require.NoError(t, err)
	assert.Equal(t, &storagemodels.ContainerProperties{
		ID:                "orders",
		PartitionKeyPath:  "/customerId",
		TimeToLiveSeconds: -1,
		Throughput:        storagemodels.ManualThroughput(1000),
	}, props)
}

func TestReplaceContainerProperties(t *testing.T) {
	t.Run("Disable", func(t *testing.T) {
		api := &mockDynamoAPI{}
		api.On("DescribeTimeToLive", mock.Anything, mock.Anything).
			Return(ttlStatus(types.TimeToLiveStatusEnabled), nil)
		api.On("UpdateTimeToLive", mock.Anything, mock.MatchedBy(func(in *sdk.UpdateTimeToLiveInput) bool {
			return !aws.ToBool(in.TimeToLiveSpecification.Enabled)
		})).Return(&sdk.UpdateTimeToLiveOutput{}, nil).Once()

		err := New(api).ReplaceContainerProperties(context.Background(), Table{Name: "orders"},
			storagemodels.ContainerProperties{ID: "orders", TimeToLiveSeconds: 0})
		require.NoError(t, err)
		api.AssertExpectations(t)
	})

	t.Run("AlreadyEnabled", func(t *testing.T) {
		api := &mockDynamoAPI{}
		api.On("DescribeTimeToLive", mock.Anything, mock.Anything).
			Return(ttlStatus(types.TimeToLiveStatusEnabled), nil)

		err := New(api).ReplaceContainerProperties(context.Background(), Table{Name: "orders"},
			storagemodels.ContainerProperties{ID: "orders", TimeToLiveSeconds: 3600})
		require.NoError(t, err)
		api.AssertNotCalled(t, "UpdateTimeToLive", mock.Anything, mock.Anything)
	})
}

func TestReplaceThroughput(t *testing.T) {
	t.Run("ProvisionedCapacity", func(t *testing.T) {
		api := &mockDynamoAPI{}
		api.On("DescribeTable", mock.Anything, mock.Anything).
			Return(activeTable("orders", "customerId", types.BillingModeProvisioned, 400), nil)
		api.On("UpdateTable", mock.Anything, mock.MatchedBy(func(in *sdk.UpdateTableInput) bool {
			return in.BillingMode == types.BillingModeProvisioned &&
				aws.ToInt64(in.ProvisionedThroughput.ReadCapacityUnits) == 1000
		})).Return(&sdk.UpdateTableOutput{}, nil).Once()

		err := New(api).ReplaceThroughput(context.Background(), Table{Name: "orders"}, storagemodels.ManualThroughput(1000))
		require.NoError(t, err)
		api.AssertExpectations(t)
	})

	t.Run("OnDemandUnchanged", func(t *testing.T) {
		api := &mockDynamoAPI{}
		api.On("DescribeTable", mock.Anything, mock.Anything).
			Return(activeTable("events", "stream", types.BillingModePayPerRequest, 0), nil)

		err := New(api).ReplaceThroughput(context.Background(), Table{Name: "events"}, storagemodels.AutoscaleThroughput(4000))
		require.NoError(t, err)
		api.AssertNotCalled(t, "UpdateTable", mock.Anything, mock.Anything)
	})

	t.Run("SwitchToOnDemand", func(t *testing.T) {
		api := &mockDynamoAPI{}
		api.On("DescribeTable", mock.Anything, mock.Anything).
			Return(activeTable("orders", "customerId", types.BillingModeProvisioned, 400), nil)
		api.On("UpdateTable", mock.Anything, mock.MatchedBy(func(in *sdk.UpdateTableInput) bool {
			return in.BillingMode == types.BillingModePayPerRequest && in.ProvisionedThroughput == nil
		})).Return(&sdk.UpdateTableOutput{}, nil).Once()

		err := New(api).ReplaceThroughput(context.Background(), Table{Name: "orders"}, storagemodels.ServerlessThroughput())
		require.NoError(t, err)
		api.AssertExpectations(t)
	})
}
