/*
Package storagemodels defines the value types shared by the itemstore packages.

Key Types:

ItemConfiguration:
The resolved storage configuration of one item model:

	cfg := &ItemConfiguration{
	    ItemType:                storagemodels.KeyFor[Order](),
	    ContainerName:           "orders",
	    PartitionKeyPath:        "/customerId",
	    Throughput:              storagemodels.ManualThroughput(400),
	    TimeToLiveSeconds:       -1,
	    SyncContainerProperties: true,
	}

ThroughputSpec:
Manual, autoscale or serverless request capacity:

	storagemodels.ManualThroughput(1000)
	storagemodels.AutoscaleThroughput(4000)
	storagemodels.ServerlessThroughput()

ContainerSpec and ContainerProperties:
Creation parameters handed to a backend, and the live state read back from it.

TypeKey:
Item models are keyed by their reflected type with pointers stripped:

	storagemodels.KeyFor[Order]() == storagemodels.KeyFor[*Order]()
*/
package storagemodels
