/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.uber.org/zap"

	"github.com/suparena/itemstore/datastore"
	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/storagemodels"
)

// TimeToLiveAttribute is the item attribute DynamoDB expires items by.
const TimeToLiveAttribute = "ttl"

// DefaultWaitTimeout bounds the wait for a new table to become ACTIVE.
const DefaultWaitTimeout = 2 * time.Minute

// API is the subset of the DynamoDB client used for table provisioning.
type API interface {
	CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
	UpdateTable(ctx context.Context, params *sdk.UpdateTableInput, optFns ...func(*sdk.Options)) (*sdk.UpdateTableOutput, error)
	DescribeTimeToLive(ctx context.Context, params *sdk.DescribeTimeToLiveInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTimeToLiveOutput, error)
	UpdateTimeToLive(ctx context.Context, params *sdk.UpdateTimeToLiveInput, optFns ...func(*sdk.Options)) (*sdk.UpdateTimeToLiveOutput, error)
}

var _ API = (*sdk.Client)(nil)

// Table is the container handle of the DynamoDB backend.
type Table struct {
	Name string
}

// ID returns the table name.
func (t Table) ID() string { return t.Name }

// DynamodbContainerClient implements datastore.ContainerClient with one
// DynamoDB table per container.
type DynamodbContainerClient struct {
	api         API
	logger      *zap.Logger
	waitTimeout time.Duration
	waitDelay   time.Duration
}

var _ datastore.ContainerClient = (*DynamodbContainerClient)(nil)

// Option is a functional option for configuring the client.
type Option func(*DynamodbContainerClient)

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *DynamodbContainerClient) {
		c.logger = logger
	}
}

// WithWaitTimeout sets how long table creation waits for ACTIVE.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *DynamodbContainerClient) {
		c.waitTimeout = d
	}
}

// WithWaitDelay fixes the polling interval while waiting for a table. The
// SDK's backoff is used when unset.
func WithWaitDelay(d time.Duration) Option {
	return func(c *DynamodbContainerClient) {
		c.waitDelay = d
	}
}

// New wraps a DynamoDB API client.
func New(api API, opts ...Option) *DynamodbContainerClient {
	c := &DynamodbContainerClient{
		api:         api,
		logger:      zap.NewNop(),
		waitTimeout: DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Settings holds what is needed to reach DynamoDB.
type Settings struct {
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the service endpoint, e.g. DynamoDB Local.
	Endpoint string
}

// NewDynamoDBClient initializes an instrumented DynamoDB client. Static
// credentials are used when both keys are set, otherwise the default chain.
func NewDynamoDBClient(ctx context.Context, s Settings) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(s.Region)}
	if s.AccessKey != "" && s.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions)

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
		}
	}), nil
}

// CreateContainerIfNotExists creates the table for spec and waits until it
// is ACTIVE. An existing table is returned as is.
func (c *DynamodbContainerClient) CreateContainerIfNotExists(ctx context.Context, spec storagemodels.ContainerSpec) (datastore.ContainerHandle, error) {
	input, err := createTableInput(spec)
	if err != nil {
		return nil, err
	}

	_, err = c.api.CreateTable(ctx, input)
	if err != nil {
		var inUse *types.ResourceInUseException
		if !stderrors.As(err, &inUse) {
			return nil, fmt.Errorf("CreateTable failed: %w", err)
		}
		// Another caller may have created it a moment ago.
		if err := c.waitActive(ctx, spec.Name); err != nil {
			return nil, err
		}
		return Table{Name: spec.Name}, nil
	}

	if err := c.waitActive(ctx, spec.Name); err != nil {
		return nil, err
	}
	c.logger.Debug("created dynamodb table",
		zap.String("table", spec.Name),
		zap.Stringer("throughput", spec.Throughput))

	if spec.TimeToLiveSeconds != 0 {
		if err := c.setTimeToLive(ctx, spec.Name, true); err != nil {
			return nil, err
		}
	}
	return Table{Name: spec.Name}, nil
}

// OpenContainer returns the handle of an existing table.
func (c *DynamodbContainerClient) OpenContainer(ctx context.Context, name string) (datastore.ContainerHandle, error) {
	if _, err := c.describe(ctx, name); err != nil {
		return nil, err
	}
	return Table{Name: name}, nil
}

// ReadContainerProperties describes the table and its TTL setting.
func (c *DynamodbContainerClient) ReadContainerProperties(ctx context.Context, handle datastore.ContainerHandle) (*storagemodels.ContainerProperties, error) {
	name := handle.ID()
	table, err := c.describe(ctx, name)
	if err != nil {
		return nil, err
	}
	enabled, err := c.timeToLiveEnabled(ctx, name)
	if err != nil {
		return nil, err
	}

	props := &storagemodels.ContainerProperties{
		ID:         name,
		Throughput: throughputOf(table),
	}
	for _, k := range table.KeySchema {
		if k.KeyType == types.KeyTypeHash {
			props.PartitionKeyPath = "/" + aws.ToString(k.AttributeName)
		}
	}
	if enabled {
		props.TimeToLiveSeconds = -1
	}
	return props, nil
}

// ReplaceContainerProperties enables or disables TTL. DynamoDB has no
// default expiry, so only whether TTL is on is applied.
func (c *DynamodbContainerClient) ReplaceContainerProperties(ctx context.Context, handle datastore.ContainerHandle, props storagemodels.ContainerProperties) error {
	name := handle.ID()
	enabled, err := c.timeToLiveEnabled(ctx, name)
	if err != nil {
		return err
	}
	want := props.TimeToLiveSeconds != 0
	if enabled == want {
		return nil
	}
	return c.setTimeToLive(ctx, name, want)
}

// ReplaceThroughput switches the billing mode or the provisioned capacity.
func (c *DynamodbContainerClient) ReplaceThroughput(ctx context.Context, handle datastore.ContainerHandle, throughput storagemodels.ThroughputSpec) error {
	name := handle.ID()
	table, err := c.describe(ctx, name)
	if err != nil {
		return err
	}
	current := throughputOf(table)

	input := &sdk.UpdateTableInput{TableName: aws.String(name)}
	switch throughput.Mode {
	case storagemodels.ThroughputManual:
		if current == throughput {
			return nil
		}
		input.BillingMode = types.BillingModeProvisioned
		input.ProvisionedThroughput = provisioned(throughput.RequestUnits)
	default:
		if current.Mode == storagemodels.ThroughputServerless {
			return nil
		}
		input.BillingMode = types.BillingModePayPerRequest
	}

	if _, err := c.api.UpdateTable(ctx, input); err != nil {
		return fmt.Errorf("UpdateTable failed: %w", err)
	}
	return nil
}

// waitActive blocks until the table is ACTIVE or the wait timeout passes.
func (c *DynamodbContainerClient) waitActive(ctx context.Context, name string) error {
	waiter := sdk.NewTableExistsWaiter(c.api, func(o *sdk.TableExistsWaiterOptions) {
		if c.waitDelay > 0 {
			o.MinDelay = c.waitDelay
			o.MaxDelay = c.waitDelay
		}
	})
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(name)}, c.waitTimeout); err != nil {
		return fmt.Errorf("waiting for table %s: %w", name, err)
	}
	return nil
}

func (c *DynamodbContainerClient) describe(ctx context.Context, name string) (*types.TableDescription, error) {
	out, err := c.api.DescribeTable(ctx, &sdk.DescribeTableInput{TableName: aws.String(name)})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if stderrors.As(err, &notFound) {
			return nil, errors.NewNotFoundError("table", name)
		}
		return nil, fmt.Errorf("DescribeTable failed: %w", err)
	}
	if out.Table == nil {
		return nil, errors.NewNotFoundError("table", name)
	}
	return out.Table, nil
}

func (c *DynamodbContainerClient) timeToLiveEnabled(ctx context.Context, name string) (bool, error) {
	out, err := c.api.DescribeTimeToLive(ctx, &sdk.DescribeTimeToLiveInput{TableName: aws.String(name)})
	if err != nil {
		return false, fmt.Errorf("DescribeTimeToLive failed: %w", err)
	}
	if out.TimeToLiveDescription == nil {
		return false, nil
	}
	switch out.TimeToLiveDescription.TimeToLiveStatus {
	case types.TimeToLiveStatusEnabled, types.TimeToLiveStatusEnabling:
		return true, nil
	}
	return false, nil
}

func (c *DynamodbContainerClient) setTimeToLive(ctx context.Context, name string, enabled bool) error {
	_, err := c.api.UpdateTimeToLive(ctx, &sdk.UpdateTimeToLiveInput{
		TableName: aws.String(name),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String(TimeToLiveAttribute),
			Enabled:       aws.Bool(enabled),
		},
	})
	if err != nil {
		return fmt.Errorf("UpdateTimeToLive failed: %w", err)
	}
	return nil
}

// createTableInput maps a container spec onto a single-key table.
func createTableInput(spec storagemodels.ContainerSpec) (*sdk.CreateTableInput, error) {
	if !spec.UniqueKeyPolicy.IsZero() {
		return nil, fmt.Errorf("dynamodb table %s: unique keys: %w", spec.Name, errors.ErrUnsupported)
	}
	key, err := attributeName(spec.PartitionKeyPath)
	if err != nil {
		return nil, err
	}

	input := &sdk.CreateTableInput{
		TableName: aws.String(spec.Name),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(key), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(key), KeyType: types.KeyTypeHash},
		},
	}
	if spec.Throughput.Mode == storagemodels.ThroughputManual {
		input.BillingMode = types.BillingModeProvisioned
		input.ProvisionedThroughput = provisioned(spec.Throughput.RequestUnits)
	} else {
		input.BillingMode = types.BillingModePayPerRequest
	}
	return input, nil
}

// attributeName turns "/customerId" into "customerId". Nested paths cannot
// be key attributes.
func attributeName(path string) (string, error) {
	name, ok := strings.CutPrefix(path, "/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", errors.NewValidationError("partitionKeyPath",
			fmt.Sprintf("%q is not a top-level attribute path", path))
	}
	return name, nil
}

func provisioned(ru int32) *types.ProvisionedThroughput {
	return &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(int64(ru)),
		WriteCapacityUnits: aws.Int64(int64(ru)),
	}
}

// throughputOf reports on-demand tables as serverless.
func throughputOf(table *types.TableDescription) storagemodels.ThroughputSpec {
	if table.BillingModeSummary != nil && table.BillingModeSummary.BillingMode == types.BillingModePayPerRequest {
		return storagemodels.ServerlessThroughput()
	}
	if table.ProvisionedThroughput == nil || aws.ToInt64(table.ProvisionedThroughput.ReadCapacityUnits) == 0 {
		return storagemodels.ServerlessThroughput()
	}
	return storagemodels.ManualThroughput(int32(aws.ToInt64(table.ProvisionedThroughput.ReadCapacityUnits)))
}
