/*
Package itemstore resolves and provisions the storage configuration of Go
item models in a document database.

For every item model it determines once:
  - the container name
  - the partition key path
  - the unique key policy
  - the default time to live
  - the throughput
  - whether container properties are kept in sync

Configurations are cached for the life of the process and used to get or
create the remote container.

Key Features:
  - Type-safe access using Go generics
  - Struct tags, zero-value methods and a fluent registry for declaring options
  - Azure Cosmos DB and Amazon DynamoDB backends, plus an in-memory mock
  - Optional reconciliation of time to live and throughput
  - Semantic error types for configuration and provisioning failures
  - YAML and environment based configuration with a provisioning CLI

Basic Usage:

	reg := registry.New()
	registry.Configure[Order](reg).
	    WithContainer("orders").
	    WithManualThroughput(400).
	    WithSyncableContainerProperties()

	azClient, _ := cosmos.NewCosmosClient(cosmos.Settings{Endpoint: endpoint, Key: key})
	store := itemstore.New(cosmos.New(azClient, "shop"), itemstore.WithRegistry(reg))

	cfg, err := itemstore.GetOptions[Order](store)
	handle, err := itemstore.GetContainer[Order](ctx, store, false)
	orders := handle.(*azcosmos.ContainerClient)
*/
package itemstore
