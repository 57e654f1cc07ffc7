/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/itemstore/storagemodels"
)

// ContainerHandle references a remote container. Repository operations
// type-assert it to the backend's native client.
type ContainerHandle interface {
	ID() string
}

// ContainerClient is the remote document-database capability consumed by
// container provisioning.
type ContainerClient interface {
	// CreateContainerIfNotExists returns the container named by spec,
	// creating it first when absent. An existing container is not an error.
	CreateContainerIfNotExists(ctx context.Context, spec storagemodels.ContainerSpec) (ContainerHandle, error)

	// OpenContainer returns a handle without creating anything.
	OpenContainer(ctx context.Context, name string) (ContainerHandle, error)

	ReadContainerProperties(ctx context.Context, handle ContainerHandle) (*storagemodels.ContainerProperties, error)

	// ReplaceContainerProperties applies the mutable container settings of
	// props. Backends never alter the partition key or unique keys.
	ReplaceContainerProperties(ctx context.Context, handle ContainerHandle, props storagemodels.ContainerProperties) error

	ReplaceThroughput(ctx context.Context, handle ContainerHandle, throughput storagemodels.ThroughputSpec) error
}
