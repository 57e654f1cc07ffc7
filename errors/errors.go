/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a container or database does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned by backends when a create call hits an existing resource
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput is returned when a resolved facet value fails validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupported is returned when a backend cannot apply a requested setting
	ErrUnsupported = errors.New("unsupported by backend")

	// ErrConfigurationResolution matches every ConfigurationResolutionError
	ErrConfigurationResolution = errors.New("item configuration resolution failed")

	// ErrContainerProvisioning matches every ContainerProvisioningError
	ErrContainerProvisioning = errors.New("container provisioning failed")
)

// NotFoundError represents an error when a remote resource is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when a remote resource already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an invalid facet or option value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConfigurationResolutionError is returned when a facet resolver fails for an
// item type. Nothing is cached for the type when it occurs.
type ConfigurationResolutionError struct {
	ItemType string
	Facet    string
	Err      error
}

func (e *ConfigurationResolutionError) Error() string {
	return fmt.Sprintf("resolving %s for item type %s: %v", e.Facet, e.ItemType, e.Err)
}

func (e *ConfigurationResolutionError) Is(target error) bool {
	return target == ErrConfigurationResolution
}

func (e *ConfigurationResolutionError) Unwrap() error {
	return e.Err
}

// ContainerProvisioningError wraps a store failure while creating, opening
// or synchronizing a container. Retrying the whole call is safe.
type ContainerProvisioningError struct {
	Container string
	Operation string
	Err       error
}

func (e *ContainerProvisioningError) Error() string {
	return fmt.Sprintf("container %q: %s failed: %v", e.Container, e.Operation, e.Err)
}

func (e *ContainerProvisioningError) Is(target error) bool {
	return target == ErrContainerProvisioning
}

func (e *ContainerProvisioningError) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resourceType, key string) error {
	return &NotFoundError{Type: resourceType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(resourceType, key string) error {
	return &AlreadyExistsError{Type: resourceType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConfigurationResolutionError creates a new ConfigurationResolutionError
func NewConfigurationResolutionError(itemType, facet string, err error) error {
	return &ConfigurationResolutionError{ItemType: itemType, Facet: facet, Err: err}
}

// NewContainerProvisioningError creates a new ContainerProvisioningError
func NewContainerProvisioningError(container, operation string, err error) error {
	return &ContainerProvisioningError{Container: container, Operation: operation, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnsupported checks if an error reports a setting the backend cannot apply
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// IsConfigurationResolution checks if an error came from configuration resolution
func IsConfigurationResolution(err error) bool {
	return errors.Is(err, ErrConfigurationResolution)
}

// IsContainerProvisioning checks if an error came from container provisioning
func IsContainerProvisioning(err error) bool {
	return errors.Is(err, ErrContainerProvisioning)
}
