/*
Package configuration aggregates the storage facets of an item model into a
single cached ItemConfiguration.

	configs := configuration.New(provider.NewDefaultFacets(reg, defaults))

	cfg, err := configuration.GetOptions[Order](configs)
	// cfg.ContainerName == "orders", cfg.PartitionKeyPath == "/customerId"

Each item type is resolved at most once per winning commit and then served
from an append-only cache for the life of the Provider. Concurrent first
lookups may resolve redundantly; all of them return the committed pointer.
A failing facet returns a ConfigurationResolutionError and leaves the cache
untouched, so later calls retry the resolution.

The Provider is meant to be constructed once by the application root and
shared, not kept in a package variable.
*/
package configuration
