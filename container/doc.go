/*
Package container provisions the remote container of an item model.

A Service combines an OptionsSource, normally *configuration.Provider, with a
datastore.ContainerClient:

	svc := container.NewService(configs, client, container.WithLogger(logger))
	handle, err := container.GetContainer[Order](ctx, svc, false)

Containers are created when missing unless WithAutoCreate(false) is given.
When the configuration enables property sync, or forceSync is set, the live
default time to live and throughput are replaced if they differ. The
partition key of an existing container cannot change and a mismatch is an
error. Unique keys are only applied at creation.

Provider[T] memoizes the handle for one item model and shares a single
in-flight provisioning between concurrent callers.
*/
package container
