package models

import "time"

// Event types
const (
	EventTypeOrdersSynced          = "ORDERS_SYNCED"
	EventTypeRegistrationsSynced   = "REGISTRATIONS_SYNCED"
	EventTypeRegistrationMoved     = "REGISTRATION_TRANSFERRED"
	EventTypeOrderPaymentStatusSet = "ORDER_PAYMENT_STATUS_SET"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrdersSyncedEvent published after a successful order sync run
type OrdersSyncedEvent struct {
	BaseEvent
	SyncRunID    string `json:"sync_run_id"`
	OrderCount   int    `json:"order_count"`
	ProductCount int    `json:"product_count"`
}

// RegistrationsSyncedEvent published after a registration derivation run
type RegistrationsSyncedEvent struct {
	BaseEvent
	SyncRunID string `json:"sync_run_id"`
	Synced    int    `json:"synced"`
}

// RegistrationMovedEvent published when a player is transferred between programs
type RegistrationMovedEvent struct {
	BaseEvent
	RegistrationID    int64  `json:"registration_id"`
	NewRegistrationID int64  `json:"new_registration_id"`
	PlayerName        string `json:"player_name"`
	FromProgram       string `json:"from_program"`
	ToProgram         string `json:"to_program"`
}

// OrderPaymentStatusSetEvent published when an operator flips an order's
// payment status
type OrderPaymentStatusSetEvent struct {
	BaseEvent
	OrderID       int64  `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
}
