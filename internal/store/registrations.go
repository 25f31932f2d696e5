package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rinkops/internal/models"
)

const insertRegistrationSQL = `
	INSERT INTO program_registrations (
		program_name, player_name, player_email, player_phone,
		order_id, source, payment_method, payment_status, amount, status, notes
	) VALUES (
		:program_name, :player_name, :player_email, :player_phone,
		:order_id, :source, :payment_method, :payment_status, :amount, :status, :notes
	)
	RETURNING id`

// CreateRegistration inserts a single registration and fills in its ID.
func (s *Store) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	rows, err := s.db.NamedQueryContext(ctx, insertRegistrationSQL, reg)
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&reg.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CreateRegistrations inserts a batch of derived registrations in one
// transaction and returns how many were written.
func (s *Store) CreateRegistrations(ctx context.Context, regs []models.Registration) (int, error) {
	if len(regs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for i := range regs {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO program_registrations (
				program_name, player_name, player_email, player_phone,
				order_id, source, payment_method, payment_status, amount, status, notes
			) VALUES (
				:program_name, :player_name, :player_email, :player_phone,
				:order_id, :source, :payment_method, :payment_status, :amount, :status, :notes
			)`, &regs[i]); err != nil {
			return 0, fmt.Errorf("failed to insert registration for order %v: %w", regs[i].OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(regs), nil
}

// RegistrationPair is an (order, program) key already present among derived
// registrations.
type RegistrationPair struct {
	OrderID     int64  `db:"order_id"`
	ProgramName string `db:"program_name"`
}

// GetRegistrationPairs returns every (order_id, program_name) pair with a
// non-null order id. The derivation engine uses this set to stay additive.
func (s *Store) GetRegistrationPairs(ctx context.Context) ([]RegistrationPair, error) {
	var pairs []RegistrationPair
	err := s.db.SelectContext(ctx, &pairs,
		"SELECT order_id, program_name FROM program_registrations WHERE order_id IS NOT NULL")
	return pairs, err
}

// GetRegistrationByID retrieves a registration by ID
func (s *Store) GetRegistrationByID(ctx context.Context, id int64) (*models.Registration, error) {
	var reg models.Registration
	err := s.db.GetContext(ctx, &reg, "SELECT * FROM program_registrations WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("registration not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListRegistrationsByProgram retrieves a program's roster in enrollment
// order, optionally including removed and transferred-out rows.
func (s *Store) ListRegistrationsByProgram(ctx context.Context, programName string, includeRemoved bool) ([]models.Registration, error) {
	query := "SELECT * FROM program_registrations WHERE program_name = $1"
	if !includeRemoved {
		query += " AND status = 'active'"
	}
	query += " ORDER BY created_at ASC"

	var regs []models.Registration
	err := s.db.SelectContext(ctx, &regs, query, programName)
	return regs, err
}

// ListProgramNames returns the distinct program names present in the roster.
func (s *Store) ListProgramNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		"SELECT DISTINCT program_name FROM program_registrations ORDER BY program_name")
	return names, err
}

// ProgramCount aggregates roster size per program.
type ProgramCount struct {
	ProgramName string `db:"program_name"`
	Total       int    `db:"total"`
	Active      int    `db:"active"`
}

// GetProgramCounts returns per-program registration totals and active counts.
func (s *Store) GetProgramCounts(ctx context.Context) ([]ProgramCount, error) {
	var counts []ProgramCount
	err := s.db.SelectContext(ctx, &counts, `
		SELECT program_name,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status = 'active') AS active
		FROM program_registrations
		GROUP BY program_name
		ORDER BY program_name`)
	return counts, err
}

// UpdateRegistrationStatus updates a registration's roster status
func (s *Store) UpdateRegistrationStatus(ctx context.Context, id int64, status models.RegistrationStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE program_registrations SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("registration not found: %d", id)
	}
	return nil
}

// UpdateRegistrationContact updates the player contact fields
func (s *Store) UpdateRegistrationContact(ctx context.Context, id int64, name, email, phone string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE program_registrations
		SET player_name = $1, player_email = $2, player_phone = $3
		WHERE id = $4`, name, email, phone, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("registration not found: %d", id)
	}
	return nil
}

// TransferRegistration performs the two-step move as one transaction: insert
// the destination row, then mark the source transferred_out. Either both
// writes commit or neither does, so a half-completed transfer cannot be
// reported as success.
func (s *Store) TransferRegistration(ctx context.Context, src *models.Registration, targetProgram string) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	note := fmt.Sprintf("Transferred from %q on %s", src.ProgramName, time.Now().Format("2006-01-02"))

	var newID int64
	err = tx.GetContext(ctx, &newID, `
		INSERT INTO program_registrations (
			program_name, player_name, player_email, player_phone,
			order_id, source, payment_method, payment_status, amount, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		targetProgram, src.PlayerName, src.PlayerEmail, src.PlayerPhone,
		src.OrderID, models.SourceTransfer, src.PaymentMethod, src.PaymentStatus,
		src.Amount, models.RegistrationActive, note)
	if err != nil {
		return 0, fmt.Errorf("failed to insert destination registration: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE program_registrations SET status = $1 WHERE id = $2",
		models.RegistrationTransferredOut, src.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark source registration transferred_out: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("source registration not found: %d", src.ID)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transfer: %w", err)
	}
	return newID, nil
}
