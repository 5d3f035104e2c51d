// Package queue defines the event types exchanged over RabbitMQ and the
// consumer that drains them.
package queue

import "time"

// ContractCreatedQueue is the durable queue contract events are
// published to and consumed from.
const ContractCreatedQueue = "contract.created"

// ContractCreatedEvent is emitted after a rental contract is committed.
// It carries enough denormalized detail for downstream consumers
// (notifications, reporting) to act without a database round trip.
type ContractCreatedEvent struct {
	ContractID    uint64    `json:"contract_id"`
	PropertyID    uint64    `json:"property_id"`
	PropertyTitle string    `json:"property_title"`
	TenantID      uint64    `json:"tenant_id"`
	OwnerID       uint64    `json:"owner_id"`
	StartDate     string    `json:"start_date"` // YYYY-MM-DD
	EndDate       string    `json:"end_date"`
	MonthlyRent   float64   `json:"monthly_rent"`
	CreatedAt     time.Time `json:"created_at"`
}
