/*
Package errors provides semantic error types for the itemstore library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound                = errors.New("resource not found")
	    ErrAlreadyExists           = errors.New("resource already exists")
	    ErrInvalidInput            = errors.New("invalid input")
	    ErrUnsupported             = errors.New("unsupported by backend")
	    ErrConfigurationResolution = errors.New("item configuration resolution failed")
	    ErrContainerProvisioning   = errors.New("container provisioning failed")
	)

Usage:

	container, err := itemstore.GetContainer[Order](ctx, store, false)
	if err != nil {
	    if errors.IsConfigurationResolution(err) {
	        // The Order model is misconfigured; retrying will not help.
	        return nil, err
	    }
	    if errors.IsContainerProvisioning(err) {
	        // The store rejected the call; retrying the whole call is safe.
	        return nil, err
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewValidationError("partitionKeyPath", "must start with '/'")
	err := errors.NewConfigurationResolutionError("main.Order", "partitionKeyPath", err)
	err := errors.NewContainerProvisioningError("orders", "create", storeErr)

The typed errors implement Unwrap, so the underlying cause stays reachable
through errors.Is and errors.As.
*/
package errors
