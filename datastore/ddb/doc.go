/*
Package ddb provides a DynamoDB implementation of the ContainerClient interface.

Each container is a table:
  - The partition key path "/customerId" becomes the HASH key "customerId"
    of type S. Nested paths are rejected.
  - Manual throughput maps to PROVISIONED billing with equal read and write
    capacity. Autoscale and serverless map to PAY_PER_REQUEST.
  - A default time to live other than 0 enables TTL on the "ttl" attribute.
    Tables report -1 when TTL is on and 0 when it is off.
  - Unique keys are not supported.

Creating a client:

	api, err := ddb.NewDynamoDBClient(ctx, ddb.Settings{Region: "us-east-1"})
	if err != nil {
	    return err
	}
	client := ddb.New(api, ddb.WithLogger(logger))

The SDK client is instrumented with OpenTelemetry through otelaws.
*/
package ddb
