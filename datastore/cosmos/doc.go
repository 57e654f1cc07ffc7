/*
Package cosmos provides an Azure Cosmos DB implementation of the ContainerClient interface.

Containers live in a single database which is created on first use:

	azClient, err := cosmos.NewCosmosClient(cosmos.Settings{Endpoint: endpoint, Key: key})
	if err != nil {
	    return err
	}
	client := cosmos.New(azClient, "shop", cosmos.WithLogger(logger))

Handles returned by the client are *azcosmos.ContainerClient values that
repositories can use directly for item operations.

Throughput:
  - Manual and autoscale throughput are set at creation and can be scaled
    within their mode.
  - Switching between manual and autoscale is not supported by the data-plane
    SDK and returns errors.ErrUnsupported.
  - Containers without dedicated throughput, on serverless accounts or
    sharing database throughput, read back as serverless.
*/
package cosmos
