package store

import (
	"context"
	"fmt"
	"time"

	"rinkops/internal/models"
)

// ListCredits retrieves all credits, newest first
func (s *Store) ListCredits(ctx context.Context) ([]models.Credit, error) {
	var credits []models.Credit
	err := s.db.SelectContext(ctx, &credits,
		"SELECT * FROM customer_credits ORDER BY created_at DESC")
	return credits, err
}

// CreateCredit inserts a new active credit and fills in its ID.
func (s *Store) CreateCredit(ctx context.Context, credit *models.Credit) error {
	err := s.db.GetContext(ctx, &credit.ID, `
		INSERT INTO customer_credits (player_name, player_email, amount, reason, created_by, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		credit.PlayerName, credit.PlayerEmail, credit.Amount,
		credit.Reason, credit.CreatedBy, models.CreditActive)
	if err != nil {
		return fmt.Errorf("failed to create credit: %w", err)
	}
	return nil
}

// MarkCreditUsed transitions a credit from active to used. The WHERE clause
// enforces the one-way transition: a credit already used stays used.
func (s *Store) MarkCreditUsed(ctx context.Context, id int64, usedBy, usedOnProgram, notes string) error {
	var program, noteVal *string
	if usedOnProgram != "" {
		program = &usedOnProgram
	}
	if notes != "" {
		noteVal = &notes
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE customer_credits
		SET status = $1, used_by = $2, used_at = $3, used_on_program = $4, notes = $5
		WHERE id = $6 AND status = $7`,
		models.CreditUsed, usedBy, time.Now().UTC(), program, noteVal, id, models.CreditActive)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("credit %d not found or already used", id)
	}
	return nil
}

// DeleteCredit removes a credit entry
func (s *Store) DeleteCredit(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM customer_credits WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("credit not found: %d", id)
	}
	return nil
}
