package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
	"github.com/lumakara/studio-backend/pkg/enums"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
)

type stubRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newStubRepo() *stubRepo {
	return &stubRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now().UTC()
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *stubRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.FindByID(ctx, id)
}

func (s *stubRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	for _, order := range s.orders {
		if order.OrderNumber == orderNumber {
			copied := *order
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) List(ctx context.Context, query ListQuery) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if query.Status != nil && order.Status != *query.Status {
			continue
		}
		out = append(out, *order)
	}
	return out, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"]; ok {
		order.Status = v.(enums.OrderStatus)
	}
	if v, ok := updates["cancelled_at"]; ok {
		t := v.(time.Time)
		order.CancelledAt = &t
	}
	if v, ok := updates["drive_link"]; ok {
		link := v.(string)
		order.DriveLink = &link
	}
	if v, ok := updates["notes"]; ok {
		notes := v.(string)
		order.Notes = &notes
	}
	return nil
}

func (s *stubRepo) FindStalePendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.Status == enums.OrderStatusPending && order.CreatedAt.Before(cutoff) {
			out = append(out, *order)
		}
	}
	return out, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type stubCatalog struct {
	categories map[uuid.UUID]*models.Category
	tiers      map[uuid.UUID]*models.PriceTier
}

func (s *stubCatalog) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalog) FindTierByID(ctx context.Context, id uuid.UUID) (*models.PriceTier, error) {
	if t, ok := s.tiers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubDefaults struct{ pct int }

func (s stubDefaults) DefaultDPPercent(ctx context.Context) int { return s.pct }

func newTestService(t *testing.T, repo *stubRepo, cat *stubCatalog) Service {
	t.Helper()
	if cat == nil {
		cat = &stubCatalog{categories: map[uuid.UUID]*models.Category{}, tiers: map[uuid.UUID]*models.PriceTier{}}
	}
	svc, err := NewService(repo, cat, stubTx{}, stubDefaults{pct: 30}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func seedOrder(repo *stubRepo, status enums.OrderStatus) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "LMK-20260101-TEST01",
		CustomerName:  "Sari",
		CustomerEmail: "sari@example.com",
		CategoryID:    uuid.New(),
		TotalPrice:    5_000_000,
		DPPercent:     30,
		DPAmount:      1_500_000,
		Status:        status,
		PaymentStatus: enums.OrderPaymentStatusUnpaid,
		Channel:       enums.OrderChannelOnline,
		CreatedAt:     time.Now().UTC(),
	}
	repo.orders[order.ID] = order
	return order
}

func TestCreateResolvesPriceAndDP(t *testing.T) {
	repo := newStubRepo()
	catID := uuid.New()
	cat := &stubCatalog{
		categories: map[uuid.UUID]*models.Category{
			catID: {ID: catID, Name: "Wedding", Slug: "wedding", BasePrice: 5_000_000, IsActive: true},
		},
		tiers: map[uuid.UUID]*models.PriceTier{},
	}
	svc := newTestService(t, repo, cat)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerName:  "Sari",
		CustomerEmail: "Sari@Example.com",
		CategoryID:    catID.String(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.TotalPrice != 5_000_000 || order.DPAmount != 1_500_000 {
		t.Fatalf("total=%d dp=%d, want 5000000/1500000", order.TotalPrice, order.DPAmount)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("status = %s, want PENDING", order.Status)
	}
	if order.CustomerEmail != "sari@example.com" {
		t.Fatalf("email not normalized: %s", order.CustomerEmail)
	}
	if !strings.HasPrefix(order.OrderNumber, "LMK-") {
		t.Fatalf("order number %q missing prefix", order.OrderNumber)
	}
}

func TestCreateUnknownCategoryIsNotFound(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerName:  "Sari",
		CustomerEmail: "sari@example.com",
		CategoryID:    uuid.NewString(),
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdvanceStageMovesOneStep(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)
	order := seedOrder(repo, enums.OrderStatusPending)

	updated, err := svc.AdvanceStage(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != enums.OrderStatusConsultation {
		t.Fatalf("status = %s, want CONSULTATION", updated.Status)
	}
}

func TestAdvanceStageFromTerminalFails(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	for _, status := range []enums.OrderStatus{enums.OrderStatusDone, enums.OrderStatusCancelled} {
		order := seedOrder(repo, status)
		_, err := svc.AdvanceStage(context.Background(), order.ID)
		coded := pkgerrors.As(err)
		if coded == nil || coded.Code() != pkgerrors.CodeInvalidTransition {
			t.Fatalf("status %s: expected invalid transition, got %v", status, err)
		}
		if repo.orders[order.ID].Status != status {
			t.Fatalf("status %s: order mutated to %s", status, repo.orders[order.ID].Status)
		}
	}
}

func TestSetStageAllowsJumps(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)
	order := seedOrder(repo, enums.OrderStatusPending)

	updated, err := svc.SetStage(context.Background(), order.ID, enums.OrderStatusFinishing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != enums.OrderStatusFinishing {
		t.Fatalf("status = %s, want FINISHING", updated.Status)
	}
}

func TestSetStageCannotLeaveTerminal(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)
	order := seedOrder(repo, enums.OrderStatusCancelled)

	_, err := svc.SetStage(context.Background(), order.ID, enums.OrderStatusSession)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestCancelStampsCancelledAt(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)
	order := seedOrder(repo, enums.OrderStatusSession)

	updated, err := svc.Cancel(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != enums.OrderStatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", updated.Status)
	}
	if updated.CancelledAt == nil {
		t.Fatal("cancelled_at not stamped")
	}
}

func TestExpireStalePendingCancelsOldOrders(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	old := seedOrder(repo, enums.OrderStatusPending)
	old.CreatedAt = time.Now().UTC().Add(-11 * 24 * time.Hour)
	fresh := seedOrder(repo, enums.OrderStatusPending)
	inProgress := seedOrder(repo, enums.OrderStatusSession)
	inProgress.CreatedAt = old.CreatedAt

	result, err := svc.ExpireStalePending(context.Background(), time.Now().UTC().Add(-10*24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Cancelled != 1 {
		t.Fatalf("cancelled = %d, want 1", result.Cancelled)
	}
	if repo.orders[old.ID].Status != enums.OrderStatusCancelled {
		t.Fatal("stale order not cancelled")
	}
	if repo.orders[fresh.ID].Status != enums.OrderStatusPending {
		t.Fatal("fresh order should stay PENDING")
	}
	if repo.orders[inProgress.ID].Status != enums.OrderStatusSession {
		t.Fatal("in-progress order should be untouched")
	}
}
