/*
Package registry holds the storage options declared for item models.

Options are declared two ways and merged on lookup.

Typed declarations use a fluent builder keyed by the Go type:

	reg := registry.New()
	registry.Configure[Order](reg).
	    WithContainer("orders").
	    WithPartitionKey("/customerId").
	    WithManualThroughput(400).
	    WithSyncableContainerProperties()

Named declarations come from configuration files and are keyed by type name:

	reg.Declare("Order", registry.ItemOptions{ContainerName: "orders"})

When both exist, the typed declaration wins field by field. Undeclared
fields are left to the facet providers, which fall back to item methods,
struct tags and repository defaults.

The registry is thread-safe and should be populated during initialization.
*/
package registry
