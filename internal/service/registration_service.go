package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rinkops/internal/broker"
	"rinkops/internal/models"
	"rinkops/internal/program"
	"rinkops/internal/store"
	"rinkops/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegistrationStore is the slice of the store the roster logic uses.
type RegistrationStore interface {
	GetOrders(ctx context.Context) ([]models.Order, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetRegistrationPairs(ctx context.Context) ([]store.RegistrationPair, error)
	CreateRegistrations(ctx context.Context, regs []models.Registration) (int, error)
	CreateRegistration(ctx context.Context, reg *models.Registration) error
	GetRegistrationByID(ctx context.Context, id int64) (*models.Registration, error)
	ListRegistrationsByProgram(ctx context.Context, programName string, includeRemoved bool) ([]models.Registration, error)
	ListProgramNames(ctx context.Context) ([]string, error)
	GetProgramCounts(ctx context.Context) ([]store.ProgramCount, error)
	UpdateRegistrationStatus(ctx context.Context, id int64, status models.RegistrationStatus) error
	UpdateRegistrationContact(ctx context.Context, id int64, name, email, phone string) error
	TransferRegistration(ctx context.Context, src *models.Registration, targetProgram string) (int64, error)
}

// RegistrationService derives registrations from synced orders and manages
// the roster state machine.
type RegistrationService struct {
	store          RegistrationStore
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(st RegistrationStore, eventPublisher *broker.EventPublisher) *RegistrationService {
	return &RegistrationService{
		store:          st,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

func pairKey(orderID int64, programName string) string {
	return fmt.Sprintf("%d|%s", orderID, programName)
}

// SyncRegistrations scans every synced order and inserts a registration for
// each program line item not yet represented by an (order_id, program_name)
// pair. The run is additive only: repeated runs over an unchanged order set
// insert nothing, and existing registrations are never mutated. Returns the
// number of newly inserted registrations; zero is a normal outcome.
func (s *RegistrationService) SyncRegistrations(ctx context.Context) (int, error) {
	ctx, span := util.StartSpan(ctx, "RegistrationService.SyncRegistrations")
	defer span.End()

	runID := uuid.New().String()

	orders, err := s.store.GetOrders(ctx)
	if err != nil {
		util.DerivationRunsTotal.WithLabelValues("store_error").Inc()
		return 0, storeError("failed to load orders", err)
	}

	pairs, err := s.store.GetRegistrationPairs(ctx)
	if err != nil {
		util.DerivationRunsTotal.WithLabelValues("store_error").Inc()
		return 0, storeError("failed to load existing registrations", err)
	}

	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		seen[pairKey(p.OrderID, p.ProgramName)] = true
	}

	var candidates []models.Registration
	for i := range orders {
		candidates = append(candidates, s.deriveFromOrder(&orders[i], seen)...)
	}

	inserted, err := s.store.CreateRegistrations(ctx, candidates)
	if err != nil {
		util.DerivationRunsTotal.WithLabelValues("store_error").Inc()
		return 0, storeError("failed to insert registrations", err)
	}

	util.DerivationRunsTotal.WithLabelValues("success").Inc()
	util.RegistrationsSyncedTotal.Add(float64(inserted))

	if inserted > 0 {
		event := &models.RegistrationsSyncedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeRegistrationsSynced,
				Timestamp: time.Now(),
			},
			SyncRunID: runID,
			Synced:    inserted,
		}
		if err := s.eventPublisher.PublishRegistrationsSynced(ctx, event); err != nil {
			s.logger.Error("Failed to publish RegistrationsSynced event", zap.Error(err))
		}
	}

	s.logger.Info("Registration sync completed",
		zap.String("sync_run_id", runID),
		zap.Int("synced", inserted))

	return inserted, nil
}

// deriveFromOrder extracts registration candidates from one order's line
// items, updating seen with every pair it claims. A malformed line-item
// payload skips the order, never the batch.
func (s *RegistrationService) deriveFromOrder(order *models.Order, seen map[string]bool) []models.Registration {
	var items []models.LineItem
	if err := json.Unmarshal(order.Products, &items); err != nil {
		util.RegistrationsSkippedTotal.WithLabelValues("unparseable").Inc()
		s.logger.Warn("Skipping order with unparseable line items",
			zap.Int64("order_id", order.OrderID),
			zap.Error(err))
		return nil
	}

	playerName := strings.TrimSpace(order.CustomerFirstName + " " + order.CustomerLastName)

	var regs []models.Registration
	for _, item := range items {
		programName := program.Normalize(item.Name)
		if programName == "" {
			util.RegistrationsSkippedTotal.WithLabelValues("empty_name").Inc()
			continue
		}
		if !program.IsProgram(programName) {
			util.RegistrationsSkippedTotal.WithLabelValues("not_a_program").Inc()
			continue
		}

		key := pairKey(order.OrderID, programName)
		if seen[key] {
			util.RegistrationsSkippedTotal.WithLabelValues("already_synced").Inc()
			continue
		}
		seen[key] = true

		amount := item.Total
		if amount == "" {
			amount = order.Total
		}

		orderID := order.OrderID
		regs = append(regs, models.Registration{
			ProgramName:   programName,
			PlayerName:    playerName,
			PlayerEmail:   order.CustomerEmail,
			PlayerPhone:   order.CustomerPhone,
			OrderID:       &orderID,
			Source:        models.SourceOrder,
			PaymentMethod: models.PaymentMethodWoo,
			PaymentStatus: order.PaymentStatus,
			Amount:        amount,
			Status:        models.RegistrationActive,
			Notes:         fmt.Sprintf("Order #%s", order.OrderNumber),
		})
	}
	return regs
}

// AddRegistrationRequest is a manual roster addition.
type AddRegistrationRequest struct {
	ProgramName   string `json:"program_name" binding:"required"`
	PlayerName    string `json:"player_name" binding:"required"`
	PlayerEmail   string `json:"player_email"`
	PlayerPhone   string `json:"player_phone"`
	PaymentMethod string `json:"payment_method"`
	Amount        string `json:"amount"`
	Notes         string `json:"notes"`
}

// AddRegistration inserts a manually-entered player (no originating order).
func (s *RegistrationService) AddRegistration(ctx context.Context, req *AddRegistrationRequest) (*models.Registration, error) {
	if strings.TrimSpace(req.ProgramName) == "" {
		return nil, validationError("program_name is required")
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		return nil, validationError("player_name is required")
	}

	reg := &models.Registration{
		ProgramName:   program.Normalize(req.ProgramName),
		PlayerName:    strings.TrimSpace(req.PlayerName),
		PlayerEmail:   req.PlayerEmail,
		PlayerPhone:   req.PlayerPhone,
		OrderID:       nil,
		Source:        models.SourceManual,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusPaid,
		Amount:        req.Amount,
		Status:        models.RegistrationActive,
		Notes:         req.Notes,
	}

	if err := s.store.CreateRegistration(ctx, reg); err != nil {
		return nil, storeError("failed to add registration", err)
	}
	return reg, nil
}

// UpdateContact updates a registration's player contact fields.
func (s *RegistrationService) UpdateContact(ctx context.Context, id int64, name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return validationError("player_name is required")
	}
	if err := s.store.UpdateRegistrationContact(ctx, id, strings.TrimSpace(name), email, phone); err != nil {
		return notFoundError("failed to update registration", err)
	}
	return nil
}

// Remove soft-deletes an active registration. Reversible via Restore.
func (s *RegistrationService) Remove(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.RegistrationRemoved)
}

// Restore returns a removed or transferred-out registration to active.
// Restoring a transferred-out row does not retract the destination
// registration the transfer created.
func (s *RegistrationService) Restore(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.RegistrationActive)
}

func (s *RegistrationService) transition(ctx context.Context, id int64, to models.RegistrationStatus) error {
	reg, err := s.store.GetRegistrationByID(ctx, id)
	if err != nil {
		return notFoundError("registration not found", err)
	}

	if !reg.Status.CanTransition(to) {
		return conflictError("cannot change registration %d from %s to %s", id, reg.Status, to)
	}

	if err := s.store.UpdateRegistrationStatus(ctx, id, to); err != nil {
		return storeError("failed to update registration status", err)
	}

	s.logger.Info("Registration status changed",
		zap.Int64("registration_id", id),
		zap.String("from", string(reg.Status)),
		zap.String("to", string(to)))
	return nil
}

// Transfer moves a player to another program: a new active registration is
// created at the target (source=transfer, provenance note) and the original
// is marked transferred_out. Both writes happen in one store transaction;
// on error nothing is applied and the caller gets an explicit failure.
func (s *RegistrationService) Transfer(ctx context.Context, id int64, targetProgram string) (*models.Registration, error) {
	ctx, span := util.StartSpan(ctx, "RegistrationService.Transfer")
	defer span.End()

	targetProgram = program.Normalize(targetProgram)
	if targetProgram == "" {
		return nil, validationError("target_program is required")
	}

	src, err := s.store.GetRegistrationByID(ctx, id)
	if err != nil {
		util.TransfersFailedTotal.WithLabelValues("not_found").Inc()
		return nil, notFoundError("registration not found", err)
	}

	if src.ProgramName == targetProgram {
		return nil, validationError("registration %d is already in %q", id, targetProgram)
	}
	if !src.Status.CanTransition(models.RegistrationTransferredOut) {
		util.TransfersFailedTotal.WithLabelValues("invalid_state").Inc()
		return nil, conflictError("cannot transfer registration %d in status %s", id, src.Status)
	}

	newID, err := s.store.TransferRegistration(ctx, src, targetProgram)
	if err != nil {
		util.TransfersFailedTotal.WithLabelValues("store_error").Inc()
		return nil, storeError("transfer failed, no changes were applied", err)
	}

	util.TransfersTotal.Inc()

	event := &models.RegistrationMovedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeRegistrationMoved,
			Timestamp: time.Now(),
		},
		RegistrationID:    src.ID,
		NewRegistrationID: newID,
		PlayerName:        src.PlayerName,
		FromProgram:       src.ProgramName,
		ToProgram:         targetProgram,
	}
	if err := s.eventPublisher.PublishRegistrationMoved(ctx, event); err != nil {
		s.logger.Error("Failed to publish RegistrationMoved event", zap.Error(err))
	}

	s.logger.Info("Registration transferred",
		zap.Int64("registration_id", src.ID),
		zap.Int64("new_registration_id", newID),
		zap.String("from", src.ProgramName),
		zap.String("to", targetProgram))

	moved, err := s.store.GetRegistrationByID(ctx, newID)
	if err != nil {
		// The transfer committed; failing the read should not mask that.
		s.logger.Warn("Transfer committed but reading the new row failed", zap.Error(err))
		return &models.Registration{ID: newID, ProgramName: targetProgram}, nil
	}
	return moved, nil
}

// Roster returns a program's registrations, optionally including removed
// and transferred-out rows.
func (s *RegistrationService) Roster(ctx context.Context, programName string, includeRemoved bool) ([]models.Registration, error) {
	if strings.TrimSpace(programName) == "" {
		return nil, validationError("program name is required")
	}
	regs, err := s.store.ListRegistrationsByProgram(ctx, programName, includeRemoved)
	if err != nil {
		return nil, storeError("failed to load roster", err)
	}
	return regs, nil
}

// ProgramSummary is one row of the program overview.
type ProgramSummary struct {
	ProgramName string `json:"program_name"`
	Category    string `json:"category"`
	Total       int    `json:"total"`
	Active      int    `json:"active"`
	// ProductActive is true when the matching shop product is published.
	ProductActive bool `json:"product_active"`
}

// ProgramSummaries aggregates the roster per program. With activeOnly set,
// programs whose product is not published are filtered out.
func (s *RegistrationService) ProgramSummaries(ctx context.Context, activeOnly bool) ([]ProgramSummary, error) {
	counts, err := s.store.GetProgramCounts(ctx)
	if err != nil {
		return nil, storeError("failed to aggregate programs", err)
	}

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, storeError("failed to load products", err)
	}

	published := make(map[string]bool, len(products))
	for _, p := range products {
		if p.Status == models.ProductStatusPublished {
			published[program.Normalize(p.Name)] = true
		}
	}

	summaries := make([]ProgramSummary, 0, len(counts))
	for _, c := range counts {
		active := published[c.ProgramName]
		if activeOnly && !active {
			continue
		}
		summaries = append(summaries, ProgramSummary{
			ProgramName:   c.ProgramName,
			Category:      program.Classify(c.ProgramName).String(),
			Total:         c.Total,
			Active:        c.Active,
			ProductActive: active,
		})
	}
	return summaries, nil
}

// TransferTargets lists programs a registration could move to: every known
// program name except the current one and anything merchandise-shaped.
func (s *RegistrationService) TransferTargets(ctx context.Context, currentProgram string) ([]string, error) {
	names, err := s.store.ListProgramNames(ctx)
	if err != nil {
		return nil, storeError("failed to list programs", err)
	}

	targets := make([]string, 0, len(names))
	for _, name := range names {
		if name == currentProgram || !program.IsProgram(name) {
			continue
		}
		targets = append(targets, name)
	}
	return targets, nil
}
