package service

import (
	"context"
	"strings"

	"rinkops/internal/models"
	"rinkops/internal/util"

	"go.uber.org/zap"
)

// CreditStore is the slice of the store the credit ledger uses.
type CreditStore interface {
	ListCredits(ctx context.Context) ([]models.Credit, error)
	CreateCredit(ctx context.Context, credit *models.Credit) error
	MarkCreditUsed(ctx context.Context, id int64, usedBy, usedOnProgram, notes string) error
	DeleteCredit(ctx context.Context, id int64) error
}

// CreditService manages the customer credit ledger.
type CreditService struct {
	store  CreditStore
	logger *zap.Logger
}

// NewCreditService creates a new credit service
func NewCreditService(st CreditStore) *CreditService {
	return &CreditService{store: st, logger: util.GetLogger()}
}

// ListCredits returns all credits, newest first.
func (cs *CreditService) ListCredits(ctx context.Context) ([]models.Credit, error) {
	credits, err := cs.store.ListCredits(ctx)
	if err != nil {
		return nil, storeError("failed to list credits", err)
	}
	return credits, nil
}

// AddCreditRequest creates a new credit entry.
type AddCreditRequest struct {
	PlayerName  string  `json:"player_name" binding:"required"`
	PlayerEmail string  `json:"player_email"`
	Amount      float64 `json:"amount" binding:"required"`
	Reason      string  `json:"reason" binding:"required"`
	CreatedBy   string  `json:"created_by" binding:"required"`
}

// AddCredit creates an active credit.
func (cs *CreditService) AddCredit(ctx context.Context, req *AddCreditRequest) (*models.Credit, error) {
	if strings.TrimSpace(req.PlayerName) == "" {
		return nil, validationError("player_name is required")
	}
	if req.Amount <= 0 {
		return nil, validationError("amount must be greater than zero")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, validationError("reason is required")
	}
	if strings.TrimSpace(req.CreatedBy) == "" {
		return nil, validationError("created_by is required")
	}

	credit := &models.Credit{
		PlayerName:  strings.TrimSpace(req.PlayerName),
		PlayerEmail: req.PlayerEmail,
		Amount:      req.Amount,
		Reason:      req.Reason,
		CreatedBy:   req.CreatedBy,
		Status:      models.CreditActive,
	}
	if err := cs.store.CreateCredit(ctx, credit); err != nil {
		return nil, storeError("failed to add credit", err)
	}

	cs.logger.Info("Credit added",
		zap.Int64("credit_id", credit.ID),
		zap.String("player", credit.PlayerName),
		zap.Float64("amount", credit.Amount))
	return credit, nil
}

// UseCredit marks a credit as used. The transition is one-way; using a
// credit twice fails.
func (cs *CreditService) UseCredit(ctx context.Context, id int64, usedBy, usedOnProgram, notes string) error {
	if strings.TrimSpace(usedBy) == "" {
		return validationError("used_by is required")
	}
	if err := cs.store.MarkCreditUsed(ctx, id, strings.TrimSpace(usedBy), usedOnProgram, notes); err != nil {
		return conflictError("failed to use credit %d: %v", id, err)
	}
	return nil
}

// DeleteCredit removes a credit entry.
func (cs *CreditService) DeleteCredit(ctx context.Context, id int64) error {
	if err := cs.store.DeleteCredit(ctx, id); err != nil {
		return notFoundError("failed to delete credit", err)
	}
	return nil
}
