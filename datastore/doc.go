/*
Package datastore defines the remote container capability used by itemstore.

The main interface is ContainerClient:

	type ContainerClient interface {
	    CreateContainerIfNotExists(ctx context.Context, spec storagemodels.ContainerSpec) (ContainerHandle, error)
	    OpenContainer(ctx context.Context, name string) (ContainerHandle, error)
	    ReadContainerProperties(ctx context.Context, handle ContainerHandle) (*storagemodels.ContainerProperties, error)
	    ReplaceContainerProperties(ctx context.Context, handle ContainerHandle, props storagemodels.ContainerProperties) error
	    ReplaceThroughput(ctx context.Context, handle ContainerHandle, throughput storagemodels.ThroughputSpec) error
	}

Implementations:
  - cosmos: Azure Cosmos DB, handles are *azcosmos.ContainerClient
  - ddb: Amazon DynamoDB, one table per container
  - mock: in-memory implementation for testing

Creation relies on the backend's own create-if-not-exists semantics, so no
in-process lock per container name is needed even across processes.
*/
package datastore
