package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rinkops/internal/models"
	"rinkops/internal/store"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRosterStore keeps the roster in memory with the same contract the SQL
// store honors.
type fakeRosterStore struct {
	orders   []models.Order
	products []models.Product
	regs     []models.Registration
	nextID   int64
}

func (f *fakeRosterStore) GetOrders(ctx context.Context) ([]models.Order, error) {
	return f.orders, nil
}

func (f *fakeRosterStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeRosterStore) GetRegistrationPairs(ctx context.Context) ([]store.RegistrationPair, error) {
	var pairs []store.RegistrationPair
	for _, r := range f.regs {
		if r.OrderID != nil {
			pairs = append(pairs, store.RegistrationPair{OrderID: *r.OrderID, ProgramName: r.ProgramName})
		}
	}
	return pairs, nil
}

func (f *fakeRosterStore) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	f.nextID++
	reg.ID = f.nextID
	reg.CreatedAt = time.Now()
	f.regs = append(f.regs, *reg)
	return nil
}

func (f *fakeRosterStore) CreateRegistrations(ctx context.Context, regs []models.Registration) (int, error) {
	for i := range regs {
		if err := f.CreateRegistration(ctx, &regs[i]); err != nil {
			return 0, err
		}
	}
	return len(regs), nil
}

func (f *fakeRosterStore) GetRegistrationByID(ctx context.Context, id int64) (*models.Registration, error) {
	for i := range f.regs {
		if f.regs[i].ID == id {
			reg := f.regs[i]
			return &reg, nil
		}
	}
	return nil, errors.New("registration not found")
}

func (f *fakeRosterStore) ListRegistrationsByProgram(ctx context.Context, programName string, includeRemoved bool) ([]models.Registration, error) {
	var out []models.Registration
	for _, r := range f.regs {
		if r.ProgramName != programName {
			continue
		}
		if !includeRemoved && r.Status != models.RegistrationActive {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRosterStore) ListProgramNames(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, r := range f.regs {
		if !seen[r.ProgramName] {
			seen[r.ProgramName] = true
			names = append(names, r.ProgramName)
		}
	}
	return names, nil
}

func (f *fakeRosterStore) GetProgramCounts(ctx context.Context) ([]store.ProgramCount, error) {
	byName := make(map[string]*store.ProgramCount)
	var order []string
	for _, r := range f.regs {
		c, ok := byName[r.ProgramName]
		if !ok {
			c = &store.ProgramCount{ProgramName: r.ProgramName}
			byName[r.ProgramName] = c
			order = append(order, r.ProgramName)
		}
		c.Total++
		if r.Status == models.RegistrationActive {
			c.Active++
		}
	}
	counts := make([]store.ProgramCount, 0, len(order))
	for _, name := range order {
		counts = append(counts, *byName[name])
	}
	return counts, nil
}

func (f *fakeRosterStore) UpdateRegistrationStatus(ctx context.Context, id int64, status models.RegistrationStatus) error {
	for i := range f.regs {
		if f.regs[i].ID == id {
			f.regs[i].Status = status
			return nil
		}
	}
	return errors.New("registration not found")
}

func (f *fakeRosterStore) UpdateRegistrationContact(ctx context.Context, id int64, name, email, phone string) error {
	for i := range f.regs {
		if f.regs[i].ID == id {
			f.regs[i].PlayerName = name
			f.regs[i].PlayerEmail = email
			f.regs[i].PlayerPhone = phone
			return nil
		}
	}
	return errors.New("registration not found")
}

func (f *fakeRosterStore) TransferRegistration(ctx context.Context, src *models.Registration, targetProgram string) (int64, error) {
	moved := *src
	moved.ProgramName = targetProgram
	moved.Source = models.SourceTransfer
	moved.Status = models.RegistrationActive
	moved.Notes = fmt.Sprintf("Transferred from %q", src.ProgramName)
	if err := f.CreateRegistration(ctx, &moved); err != nil {
		return 0, err
	}
	if err := f.UpdateRegistrationStatus(ctx, src.ID, models.RegistrationTransferredOut); err != nil {
		return 0, err
	}
	return moved.ID, nil
}

func seedOrder(orderID int64, number, first, last, total string, items string) models.Order {
	return models.Order{
		OrderID:           orderID,
		OrderNumber:       number,
		Status:            "processing",
		CustomerFirstName: first,
		CustomerLastName:  last,
		CustomerEmail:     "jane@example.com",
		Total:             total,
		PaymentStatus:     models.PaymentStatusPaid,
		Products:          types.JSONText(items),
	}
}

func TestSyncRegistrationsDerivesProgramsOnly(t *testing.T) {
	st := &fakeRosterStore{
		orders: []models.Order{
			seedOrder(500, "500", "Jane", "Doe", "275.00",
				`[{"name":"Beginner Hockey 1.0 - 2 SPOTS LEFT","quantity":1,"total":"250.00"},
				  {"name":"Team Hoodie - Large","quantity":1,"total":"25.00"}]`),
		},
	}
	svc := NewRegistrationService(st, noopPublisher())

	synced, err := svc.SyncRegistrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced, "merchandise line items must not become registrations")

	require.Len(t, st.regs, 1)
	reg := st.regs[0]
	assert.Equal(t, "Beginner Hockey 1.0", reg.ProgramName)
	assert.Equal(t, "Jane Doe", reg.PlayerName)
	assert.Equal(t, "250.00", reg.Amount)
	assert.Equal(t, models.SourceOrder, reg.Source)
	assert.Equal(t, models.PaymentMethodWoo, reg.PaymentMethod)
	assert.Equal(t, models.PaymentStatusPaid, reg.PaymentStatus)
	assert.Equal(t, models.RegistrationActive, reg.Status)
	require.NotNil(t, reg.OrderID)
	assert.Equal(t, int64(500), *reg.OrderID)
	assert.Equal(t, "Order #500", reg.Notes)
}

func TestSyncRegistrationsIsAdditive(t *testing.T) {
	st := &fakeRosterStore{
		orders: []models.Order{
			seedOrder(500, "500", "Jane", "Doe", "250.00",
				`[{"name":"Beginner Hockey 1.0 - 2 SPOTS LEFT","quantity":1,"total":"250.00"}]`),
		},
	}
	svc := NewRegistrationService(st, noopPublisher())

	synced, err := svc.SyncRegistrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	// Operator edits survive re-runs because the pair is already claimed.
	st.regs[0].PlayerName = "Janet Doe"

	synced, err = svc.SyncRegistrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, synced)
	require.Len(t, st.regs, 1)
	assert.Equal(t, "Janet Doe", st.regs[0].PlayerName)
}

func TestSyncRegistrationsDedupesWithinBatch(t *testing.T) {
	// Two identical program line items on the same order produce one row.
	st := &fakeRosterStore{
		orders: []models.Order{
			seedOrder(501, "501", "Sam", "Lee", "500.00",
				`[{"name":"Powerskating Level 2","quantity":1,"total":"250.00"},
				  {"name":"Powerskating Level 2 - FULL","quantity":1,"total":"250.00"}]`),
		},
	}
	svc := NewRegistrationService(st, noopPublisher())

	synced, err := svc.SyncRegistrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
}

func TestSyncRegistrationsSkipsUnparseableOrder(t *testing.T) {
	st := &fakeRosterStore{
		orders: []models.Order{
			seedOrder(502, "502", "Bad", "Payload", "0.00", `{"not":"a list"`),
			seedOrder(503, "503", "Good", "Order", "250.00",
				`[{"name":"Shooting Clinic","quantity":1,"total":"250.00"}]`),
		},
	}
	svc := NewRegistrationService(st, noopPublisher())

	synced, err := svc.SyncRegistrations(context.Background())
	require.NoError(t, err, "a malformed payload skips the order, not the batch")
	assert.Equal(t, 1, synced)
	require.Len(t, st.regs, 1)
	assert.Equal(t, "Shooting Clinic", st.regs[0].ProgramName)
}

func TestSyncRegistrationsFallsBackToOrderTotal(t *testing.T) {
	st := &fakeRosterStore{
		orders: []models.Order{
			seedOrder(504, "504", "No", "ItemTotal", "199.00",
				`[{"name":"Goalie School","quantity":1,"total":""}]`),
		},
	}
	svc := NewRegistrationService(st, noopPublisher())

	_, err := svc.SyncRegistrations(context.Background())
	require.NoError(t, err)
	require.Len(t, st.regs, 1)
	assert.Equal(t, "199.00", st.regs[0].Amount)
}

func TestTransferCreatesNewRowAndMarksSource(t *testing.T) {
	st := &fakeRosterStore{}
	svc := NewRegistrationService(st, noopPublisher())

	src, err := svc.AddRegistration(context.Background(), &AddRegistrationRequest{
		ProgramName: "Beginner Hockey 1.0",
		PlayerName:  "Jane Doe",
		Amount:      "250.00",
	})
	require.NoError(t, err)

	moved, err := svc.Transfer(context.Background(), src.ID, "Beginner Hockey 2.0")
	require.NoError(t, err)

	assert.Equal(t, "Beginner Hockey 2.0", moved.ProgramName)
	assert.Equal(t, models.RegistrationActive, moved.Status)
	assert.Equal(t, models.SourceTransfer, moved.Source)
	require.Len(t, st.regs, 2, "a transfer adds a row, it never moves one")

	original, err := st.GetRegistrationByID(context.Background(), src.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationTransferredOut, original.Status)
}

func TestTransferRejectsSameProgram(t *testing.T) {
	st := &fakeRosterStore{}
	svc := NewRegistrationService(st, noopPublisher())

	src, err := svc.AddRegistration(context.Background(), &AddRegistrationRequest{
		ProgramName: "Beginner Hockey 1.0",
		PlayerName:  "Jane Doe",
	})
	require.NoError(t, err)

	_, err = svc.Transfer(context.Background(), src.ID, "Beginner Hockey 1.0 - 3 SPOTS LEFT")
	require.Error(t, err, "target normalizes to the current program")
	assert.Equal(t, KindValidation, KindOf(err))
	require.Len(t, st.regs, 1)
}

func TestTransferRejectsNonActiveRegistration(t *testing.T) {
	st := &fakeRosterStore{}
	svc := NewRegistrationService(st, noopPublisher())

	src, err := svc.AddRegistration(context.Background(), &AddRegistrationRequest{
		ProgramName: "Beginner Hockey 1.0",
		PlayerName:  "Jane Doe",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(context.Background(), src.ID))

	_, err = svc.Transfer(context.Background(), src.ID, "Beginner Hockey 2.0")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestRemoveRestoreLifecycle(t *testing.T) {
	st := &fakeRosterStore{}
	svc := NewRegistrationService(st, noopPublisher())

	reg, err := svc.AddRegistration(context.Background(), &AddRegistrationRequest{
		ProgramName: "Powerskating Level 1",
		PlayerName:  "Sam Lee",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), reg.ID))

	err = svc.Remove(context.Background(), reg.ID)
	require.Error(t, err, "removing a removed registration is a conflict")
	assert.Equal(t, KindConflict, KindOf(err))

	require.NoError(t, svc.Restore(context.Background(), reg.ID))
	restored, err := st.GetRegistrationByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationActive, restored.Status)
}

func TestAddRegistrationValidation(t *testing.T) {
	svc := NewRegistrationService(&fakeRosterStore{}, noopPublisher())

	_, err := svc.AddRegistration(context.Background(), &AddRegistrationRequest{PlayerName: "Jane"})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.AddRegistration(context.Background(), &AddRegistrationRequest{ProgramName: "Beginner Hockey 1.0"})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestProgramSummariesActiveOnlyFollowsPublishedProducts(t *testing.T) {
	st := &fakeRosterStore{
		products: []models.Product{
			{ProductID: 1, Name: "Beginner Hockey 1.0 - 2 SPOTS LEFT", Status: "publish"},
			{ProductID: 2, Name: "Powerskating Level 1", Status: "draft"},
		},
	}
	svc := NewRegistrationService(st, noopPublisher())

	_, err := svc.AddRegistration(context.Background(), &AddRegistrationRequest{
		ProgramName: "Beginner Hockey 1.0", PlayerName: "Jane Doe"})
	require.NoError(t, err)
	_, err = svc.AddRegistration(context.Background(), &AddRegistrationRequest{
		ProgramName: "Powerskating Level 1", PlayerName: "Sam Lee"})
	require.NoError(t, err)

	all, err := svc.ProgramSummaries(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	active, err := svc.ProgramSummaries(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Beginner Hockey 1.0", active[0].ProgramName)
	assert.True(t, active[0].ProductActive)
	assert.Equal(t, "Beginner Hockey", active[0].Category)
}

func TestTransferTargetsExcludeCurrentAndMerchandise(t *testing.T) {
	st := &fakeRosterStore{}
	svc := NewRegistrationService(st, noopPublisher())

	for _, name := range []string{"Beginner Hockey 1.0", "Powerskating Level 1", "Team Hoodie"} {
		_, err := svc.AddRegistration(context.Background(), &AddRegistrationRequest{
			ProgramName: name, PlayerName: "Someone"})
		require.NoError(t, err)
	}

	targets, err := svc.TransferTargets(context.Background(), "Beginner Hockey 1.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"Powerskating Level 1"}, targets)
}
