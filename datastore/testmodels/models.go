package testmodels

import "github.com/go-openapi/strfmt"

// Order is partitioned by customer through its struct tag.
type Order struct {

	// Unique identifier for the order.
	// Required: true
	ID string `json:"id"`

	// Owning customer.
	// Required: true
	CustomerID string `json:"customerId" itemstore:"partitionKey"`

	// Order total in cents.
	Total int64 `json:"total"`

	// Timestamp when the order was placed.
	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"createdAt,omitempty"`
}

// Customer names its own container and declares two unique keys.
type Customer struct {

	// Unique identifier for the customer.
	// Required: true
	ID string `json:"id"`

	// Tenant owning the customer.
	TenantID string `json:"tenantId" itemstore:"partitionKey"`

	// Login email, unique per tenant.
	Email string `json:"email" itemstore:"uniqueKey=email"`

	// Display name and phone are unique together.
	Name  string `json:"name" itemstore:"uniqueKey=contact"`
	Phone string `json:"phone,omitempty" itemstore:"uniqueKey=contact"`

	// Timestamp when the customer was last updated.
	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"updatedAt,omitempty"`
}

// ContainerName implements provider.ContainerNamer.
func (Customer) ContainerName() string { return "customers" }

// AuditEvent declares its partition key path through a method.
type AuditEvent struct {
	ID       string          `json:"id"`
	Stream   string          `json:"stream"`
	Payload  string          `json:"payload"`
	Occurred strfmt.DateTime `json:"occurred"`
}

// PartitionKeyPath implements provider.PartitionKeyPather.
func (AuditEvent) PartitionKeyPath() string { return "/stream" }

// Product carries no storage metadata and resolves to the defaults.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
