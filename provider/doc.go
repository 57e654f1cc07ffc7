/*
Package provider resolves the individual storage facets of an item model.

Each facet has its own interface so that callers can replace one resolver
without touching the others:

	facets := provider.NewDefaultFacets(reg, provider.Defaults{})
	facets.Throughput = myThroughputFromFeatureFlags{}

The default resolvers look, in order, at the registry, at methods on the
item model's zero value, at struct tags and at repository defaults:

	type Order struct {
	    ID         string `json:"id"`
	    CustomerID string `json:"customerId" itemstore:"partitionKey"`
	    Email      string `json:"email" itemstore:"uniqueKey=email"`
	}

	func (Order) ContainerName() string { return "orders" }

Resolvers must be deterministic per type. The configuration aggregator may
call them more than once for the same type when callers race.
*/
package provider
