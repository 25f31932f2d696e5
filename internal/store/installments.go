package store

import (
	"context"
	"database/sql"
	"fmt"

	"rinkops/internal/models"
)

// ListInstallments retrieves an order's installments in sequence order
func (s *Store) ListInstallments(ctx context.Context, orderID int64) ([]models.Installment, error) {
	var installments []models.Installment
	err := s.db.SelectContext(ctx, &installments,
		"SELECT * FROM order_installments WHERE order_id = $1 ORDER BY installment_number ASC",
		orderID)
	return installments, err
}

// CreateInstallment inserts an installment and raises the parent order's
// has_installments flag in the same transaction.
func (s *Store) CreateInstallment(ctx context.Context, inst *models.Installment) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, &inst.ID, `
		INSERT INTO order_installments (
			order_id, installment_number, amount_due, amount_paid,
			due_date, paid_date, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		inst.OrderID, inst.InstallmentNumber, inst.AmountDue, inst.AmountPaid,
		inst.DueDate, inst.PaidDate, inst.Status, inst.Notes)
	if err != nil {
		return fmt.Errorf("failed to create installment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE orders SET has_installments = TRUE, updated_at = NOW() WHERE order_id = $1",
		inst.OrderID)
	if err != nil {
		return fmt.Errorf("failed to set has_installments: %w", err)
	}

	return tx.Commit()
}

// UpdateInstallment updates an existing installment's fields
func (s *Store) UpdateInstallment(ctx context.Context, inst *models.Installment) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE order_installments
		SET installment_number = $1, amount_due = $2, amount_paid = $3,
		    due_date = $4, paid_date = $5, status = $6, notes = $7
		WHERE id = $8`,
		inst.InstallmentNumber, inst.AmountDue, inst.AmountPaid,
		inst.DueDate, inst.PaidDate, inst.Status, inst.Notes, inst.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("installment not found: %d", inst.ID)
	}
	return nil
}

// DeleteInstallment removes an installment and recomputes the parent
// order's has_installments flag in the same transaction.
func (s *Store) DeleteInstallment(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.GetContext(ctx, &orderID,
		"SELECT order_id FROM order_installments WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("installment not found: %d", id)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM order_installments WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete installment: %w", err)
	}

	// Recompute rather than toggle so the flag self-heals if it ever drifts.
	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET has_installments = EXISTS (
			SELECT 1 FROM order_installments WHERE order_id = $1
		), updated_at = NOW()
		WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("failed to recompute has_installments: %w", err)
	}

	return tx.Commit()
}
