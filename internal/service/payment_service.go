package service

import (
	"context"
	"time"

	"rinkops/internal/broker"
	"rinkops/internal/models"
	"rinkops/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentStore is the slice of the store the payment tracking uses.
type PaymentStore interface {
	GetOrderByOrderID(ctx context.Context, orderID int64) (*models.Order, error)
	SetOrderPaymentStatus(ctx context.Context, orderID int64, paymentStatus string) error
	ListInstallments(ctx context.Context, orderID int64) ([]models.Installment, error)
	CreateInstallment(ctx context.Context, inst *models.Installment) error
	UpdateInstallment(ctx context.Context, inst *models.Installment) error
	DeleteInstallment(ctx context.Context, id int64) error
}

// PaymentService tracks operator-owned payment state: the per-order
// paid/unpaid flag and payment installments.
type PaymentService struct {
	store          PaymentStore
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(st PaymentStore, eventPublisher *broker.EventPublisher) *PaymentService {
	return &PaymentService{
		store:          st,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// SetOrderPaymentStatus flips an order's paid/unpaid flag and cascades the
// value to every registration derived from that order.
func (ps *PaymentService) SetOrderPaymentStatus(ctx context.Context, orderID int64, paymentStatus string) error {
	ctx, span := util.StartSpan(ctx, "PaymentService.SetOrderPaymentStatus")
	defer span.End()

	if orderID <= 0 {
		return validationError("order_id is required")
	}
	if paymentStatus != models.PaymentStatusPaid && paymentStatus != models.PaymentStatusUnpaid {
		return validationError("payment_status must be %q or %q", models.PaymentStatusPaid, models.PaymentStatusUnpaid)
	}

	if err := ps.store.SetOrderPaymentStatus(ctx, orderID, paymentStatus); err != nil {
		return storeError("failed to update payment status", err)
	}

	event := &models.OrderPaymentStatusSetEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPaymentStatusSet,
			Timestamp: time.Now(),
		},
		OrderID:       orderID,
		PaymentStatus: paymentStatus,
	}
	if err := ps.eventPublisher.PublishOrderPaymentStatusSet(ctx, event); err != nil {
		ps.logger.Error("Failed to publish OrderPaymentStatusSet event", zap.Error(err))
	}

	ps.logger.Info("Order payment status updated",
		zap.Int64("order_id", orderID),
		zap.String("payment_status", paymentStatus))
	return nil
}

// InstallmentRequest creates or updates an installment; ID zero means create.
type InstallmentRequest struct {
	ID                int64      `json:"id"`
	OrderID           int64      `json:"order_id"`
	InstallmentNumber int        `json:"installment_number"`
	AmountDue         string     `json:"amount_due"`
	AmountPaid        string     `json:"amount_paid"`
	DueDate           *time.Time `json:"due_date"`
	PaidDate          *time.Time `json:"paid_date"`
	Status            string     `json:"status"`
	Notes             string     `json:"notes"`
}

// SaveInstallment creates or updates one installment. Creation raises the
// parent order's has_installments flag inside the store transaction.
func (ps *PaymentService) SaveInstallment(ctx context.Context, req *InstallmentRequest) (*models.Installment, error) {
	if req.OrderID <= 0 {
		return nil, validationError("order_id is required")
	}
	if req.InstallmentNumber <= 0 {
		return nil, validationError("installment_number is required")
	}
	if req.AmountDue == "" {
		return nil, validationError("amount_due is required")
	}

	inst := &models.Installment{
		ID:                req.ID,
		OrderID:           req.OrderID,
		InstallmentNumber: req.InstallmentNumber,
		AmountDue:         req.AmountDue,
		AmountPaid:        req.AmountPaid,
		DueDate:           req.DueDate,
		PaidDate:          req.PaidDate,
		Status:            req.Status,
		Notes:             req.Notes,
	}
	if inst.AmountPaid == "" {
		inst.AmountPaid = "0"
	}
	if inst.Status == "" {
		inst.Status = models.InstallmentPending
	}

	if inst.ID > 0 {
		if err := ps.store.UpdateInstallment(ctx, inst); err != nil {
			return nil, storeError("failed to update installment", err)
		}
		return inst, nil
	}

	if _, err := ps.store.GetOrderByOrderID(ctx, inst.OrderID); err != nil {
		return nil, notFoundError("order not found", err)
	}
	if err := ps.store.CreateInstallment(ctx, inst); err != nil {
		return nil, storeError("failed to create installment", err)
	}
	return inst, nil
}

// ListInstallments returns an order's installments in sequence order.
func (ps *PaymentService) ListInstallments(ctx context.Context, orderID int64) ([]models.Installment, error) {
	if orderID <= 0 {
		return nil, validationError("order_id is required")
	}
	installments, err := ps.store.ListInstallments(ctx, orderID)
	if err != nil {
		return nil, storeError("failed to list installments", err)
	}
	return installments, nil
}

// DeleteInstallment removes an installment; the store lowers the parent
// order's has_installments flag when the last one goes.
func (ps *PaymentService) DeleteInstallment(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationError("installment id is required")
	}
	if err := ps.store.DeleteInstallment(ctx, id); err != nil {
		return storeError("failed to delete installment", err)
	}
	return nil
}
