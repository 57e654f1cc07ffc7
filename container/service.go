/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package container

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/suparena/itemstore/datastore"
	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/storagemodels"
)

// Operation names used in ContainerProvisioningError.
const (
	OpCreate            = "create"
	OpOpen              = "open"
	OpRead              = "read"
	OpReplace           = "replace"
	OpReplaceThroughput = "replace-throughput"
)

const tracerName = "github.com/suparena/itemstore/container"

// OptionsSource supplies the resolved configuration of an item model.
// *configuration.Provider implements it.
type OptionsSource interface {
	Get(t storagemodels.TypeKey) (*storagemodels.ItemConfiguration, error)
}

// Service gets or creates the container of an item model and optionally
// reconciles its properties with the resolved configuration.
type Service struct {
	configs    OptionsSource
	client     datastore.ContainerClient
	logger     *zap.Logger
	tracer     trace.Tracer
	autoCreate bool
}

// Option is a functional option for configuring the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used for provisioning spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithAutoCreate controls whether missing containers are created. When
// disabled the service only opens existing containers.
func WithAutoCreate(enabled bool) Option {
	return func(s *Service) {
		s.autoCreate = enabled
	}
}

// NewService creates a provisioning service.
func NewService(configs OptionsSource, client datastore.ContainerClient, opts ...Option) *Service {
	s := &Service{
		configs:    configs,
		client:     client,
		logger:     zap.NewNop(),
		tracer:     otel.Tracer(tracerName),
		autoCreate: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetContainer returns the container of item model T.
func GetContainer[T any](ctx context.Context, s *Service, forceSync bool) (datastore.ContainerHandle, error) {
	return s.Get(ctx, storagemodels.KeyFor[T](), forceSync)
}

// Get returns the container of item type t. Configuration errors are
// returned unchanged; backend failures are wrapped in a
// ContainerProvisioningError.
func (s *Service) Get(ctx context.Context, t storagemodels.TypeKey, forceSync bool) (datastore.ContainerHandle, error) {
	cfg, err := s.configs.Get(t)
	if err != nil {
		return nil, err
	}
	return s.Provision(ctx, cfg, forceSync)
}

// Provision gets or creates the container described by cfg.
func (s *Service) Provision(ctx context.Context, cfg *storagemodels.ItemConfiguration, forceSync bool) (datastore.ContainerHandle, error) {
	ctx, span := s.tracer.Start(ctx, "container.Get")
	defer span.End()

	span.SetAttributes(
		attribute.String("container", cfg.ContainerName),
		attribute.String("item_type", cfg.ItemTypeName()),
		attribute.Bool("force_sync", forceSync),
	)

	handle, err := s.provision(ctx, cfg, forceSync)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "container provisioning failed")
		return nil, err
	}
	return handle, nil
}

func (s *Service) provision(ctx context.Context, cfg *storagemodels.ItemConfiguration, forceSync bool) (datastore.ContainerHandle, error) {
	name := cfg.ContainerName
	if err := ctx.Err(); err != nil {
		return nil, errors.NewContainerProvisioningError(name, s.firstOperation(), err)
	}

	var (
		handle datastore.ContainerHandle
		err    error
	)
	if s.autoCreate {
		handle, err = s.client.CreateContainerIfNotExists(ctx, cfg.ContainerSpec())
		if err != nil {
			return nil, errors.NewContainerProvisioningError(name, OpCreate, err)
		}
		s.logger.Debug("container ready",
			zap.String("container", name),
			zap.String("item_type", cfg.ItemTypeName()))
	} else {
		handle, err = s.client.OpenContainer(ctx, name)
		if err != nil {
			return nil, errors.NewContainerProvisioningError(name, OpOpen, err)
		}
	}

	if cfg.SyncContainerProperties || forceSync {
		if err := s.sync(ctx, handle, cfg); err != nil {
			return nil, err
		}
	}
	return handle, nil
}

func (s *Service) firstOperation() string {
	if s.autoCreate {
		return OpCreate
	}
	return OpOpen
}

// sync reconciles the mutable properties of the live container with cfg.
func (s *Service) sync(ctx context.Context, handle datastore.ContainerHandle, cfg *storagemodels.ItemConfiguration) error {
	name := cfg.ContainerName
	live, err := s.client.ReadContainerProperties(ctx, handle)
	if err != nil {
		return errors.NewContainerProvisioningError(name, OpRead, err)
	}

	if live.PartitionKeyPath != cfg.PartitionKeyPath {
		return errors.NewContainerProvisioningError(name, OpReplace,
			errors.NewValidationError("partitionKeyPath",
				"live container is partitioned by "+live.PartitionKeyPath+
					", configuration declares "+cfg.PartitionKeyPath+"; the partition key cannot be changed"))
	}

	if !live.UniqueKeyPolicy.Equal(cfg.UniqueKeyPolicy) {
		s.logger.Warn("unique key policy differs from live container and will not be changed",
			zap.String("container", name),
			zap.Any("declared", cfg.UniqueKeyPolicy.Keys),
			zap.Any("live", live.UniqueKeyPolicy.Keys))
	}

	if live.TimeToLiveSeconds != cfg.TimeToLiveSeconds {
		props := *live
		props.TimeToLiveSeconds = cfg.TimeToLiveSeconds
		if err := s.client.ReplaceContainerProperties(ctx, handle, props); err != nil {
			return errors.NewContainerProvisioningError(name, OpReplace, err)
		}
		s.logger.Info("replaced container default time to live",
			zap.String("container", name),
			zap.Int("from", live.TimeToLiveSeconds),
			zap.Int("to", cfg.TimeToLiveSeconds))
	}

	if !throughputConsistent(cfg.Throughput, live.Throughput) {
		if err := s.client.ReplaceThroughput(ctx, handle, cfg.Throughput); err != nil {
			return errors.NewContainerProvisioningError(name, OpReplaceThroughput, err)
		}
		s.logger.Info("replaced container throughput",
			zap.String("container", name),
			zap.Stringer("from", live.Throughput),
			zap.Stringer("to", cfg.Throughput))
	}
	return nil
}

// throughputConsistent reports whether the live throughput satisfies the
// declared one. A container without dedicated throughput reads back as
// serverless.
func throughputConsistent(declared, live storagemodels.ThroughputSpec) bool {
	if declared.Mode == storagemodels.ThroughputServerless {
		return live.Mode == storagemodels.ThroughputServerless
	}
	return declared == live
}
