package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Order mirrors one WooCommerce order synced into the local store.
// Vendor-owned fields are overwritten on every sync; PaymentStatus and
// HasInstallments are locally owned and only seeded on first insert.
type Order struct {
	ID                 int64          `db:"id" json:"id"`
	OrderID            int64          `db:"order_id" json:"order_id"`
	OrderNumber        string         `db:"order_number" json:"order_number"`
	DateCreated        time.Time      `db:"date_created" json:"date_created"`
	Status             string         `db:"status" json:"status"`
	CustomerFirstName  string         `db:"customer_first_name" json:"customer_first_name"`
	CustomerLastName   string         `db:"customer_last_name" json:"customer_last_name"`
	CustomerEmail      string         `db:"customer_email" json:"customer_email"`
	CustomerPhone      string         `db:"customer_phone" json:"customer_phone"`
	Total              string         `db:"total" json:"total"`
	PaymentMethod      string         `db:"payment_method" json:"payment_method"`
	PaymentMethodTitle string         `db:"payment_method_title" json:"payment_method_title"`
	Products           types.JSONText `db:"products" json:"products"`
	PaymentStatus      string         `db:"payment_status" json:"payment_status"`
	HasInstallments    bool           `db:"has_installments" json:"has_installments"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// LineItem is one entry of an order's products payload. The payload is kept
// as raw JSON on the row and parsed where needed, so a malformed payload
// breaks only the order it belongs to.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

// Product mirrors one WooCommerce product. Only used to decide whether a
// program is currently active (status "publish").
type Product struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProductStatusPublished marks a product visible in the shop.
const ProductStatusPublished = "publish"

// RegistrationStatus is the roster state machine.
type RegistrationStatus string

const (
	RegistrationActive         RegistrationStatus = "active"
	RegistrationRemoved        RegistrationStatus = "removed"
	RegistrationTransferredOut RegistrationStatus = "transferred_out"
)

var validRegistrationTransitions = map[RegistrationStatus]map[RegistrationStatus]bool{
	RegistrationActive:         {RegistrationRemoved: true, RegistrationTransferredOut: true},
	RegistrationRemoved:        {RegistrationActive: true},
	RegistrationTransferredOut: {RegistrationActive: true},
}

// CanTransition reports whether the roster state machine allows from -> to.
func (s RegistrationStatus) CanTransition(to RegistrationStatus) bool {
	return validRegistrationTransitions[s][to]
}

// Valid reports whether s is one of the three known states.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationActive, RegistrationRemoved, RegistrationTransferredOut:
		return true
	}
	return false
}

// Registration sources
const (
	SourceOrder    = "order"
	SourceManual   = "manual"
	SourceTransfer = "transfer"
)

// Order payment statuses (locally owned)
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// PaymentMethodWoo tags registrations derived from synced orders.
const PaymentMethodWoo = "woocommerce"

// Registration is the canonical roster entity: one player enrolled in one
// program. OrderID is null for manually added players.
type Registration struct {
	ID            int64              `db:"id" json:"id"`
	ProgramName   string             `db:"program_name" json:"program_name"`
	PlayerName    string             `db:"player_name" json:"player_name"`
	PlayerEmail   string             `db:"player_email" json:"player_email"`
	PlayerPhone   string             `db:"player_phone" json:"player_phone"`
	OrderID       *int64             `db:"order_id" json:"order_id"`
	Source        string             `db:"source" json:"source"`
	PaymentMethod string             `db:"payment_method" json:"payment_method"`
	PaymentStatus string             `db:"payment_status" json:"payment_status"`
	Amount        string             `db:"amount" json:"amount"`
	Status        RegistrationStatus `db:"status" json:"status"`
	Notes         string             `db:"notes" json:"notes"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
}

// Program workflow statuses (operator maintained, independent of products).
const (
	ProgramOpenRegistration = "open_registration"
	ProgramInProgress       = "in_progress"
	ProgramCompleted        = "completed"
	ProgramArchived         = "archived"
)

// ProgramSetting is operator-maintained metadata keyed by canonical program name.
type ProgramSetting struct {
	ID           int64      `db:"id" json:"id"`
	ProgramName  string     `db:"program_name" json:"program_name"`
	Status       string     `db:"status" json:"status"`
	DisplayOrder int        `db:"display_order" json:"display_order"`
	StartDate    *time.Time `db:"start_date" json:"start_date"`
	Notes        string     `db:"notes" json:"notes"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ProgramColor is the color assigned to a program in roster views.
type ProgramColor struct {
	ID          int64  `db:"id" json:"id"`
	ProgramName string `db:"program_name" json:"program_name"`
	Color       string `db:"color" json:"color"`
}

// EmailTemplate is stored template text; the service never sends mail.
type EmailTemplate struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	TemplateHTML string    `db:"template_html" json:"template_html"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Installment statuses
const (
	InstallmentPending = "pending"
	InstallmentPaid    = "paid"
)

// Installment is one scheduled partial payment against an order's total.
// The parent order's has_installments flag is kept consistent on every
// create and delete.
type Installment struct {
	ID                int64      `db:"id" json:"id"`
	OrderID           int64      `db:"order_id" json:"order_id"`
	InstallmentNumber int        `db:"installment_number" json:"installment_number"`
	AmountDue         string     `db:"amount_due" json:"amount_due"`
	AmountPaid        string     `db:"amount_paid" json:"amount_paid"`
	DueDate           *time.Time `db:"due_date" json:"due_date"`
	PaidDate          *time.Time `db:"paid_date" json:"paid_date"`
	Status            string     `db:"status" json:"status"`
	Notes             string     `db:"notes" json:"notes"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// Credit statuses
const (
	CreditActive = "active"
	CreditUsed   = "used"
)

// Credit is a standalone store-credit ledger entry. The active -> used
// transition is one-way; credits never expire automatically.
type Credit struct {
	ID            int64      `db:"id" json:"id"`
	PlayerName    string     `db:"player_name" json:"player_name"`
	PlayerEmail   string     `db:"player_email" json:"player_email"`
	Amount        float64    `db:"amount" json:"amount"`
	Reason        string     `db:"reason" json:"reason"`
	CreatedBy     string     `db:"created_by" json:"created_by"`
	Status        string     `db:"status" json:"status"`
	UsedBy        *string    `db:"used_by" json:"used_by,omitempty"`
	UsedAt        *time.Time `db:"used_at" json:"used_at,omitempty"`
	UsedOnProgram *string    `db:"used_on_program" json:"used_on_program,omitempty"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
