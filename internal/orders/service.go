package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/internal/pricing"
	"github.com/lumakara/studio-backend/pkg/db"
	"github.com/lumakara/studio-backend/pkg/db/models"
	"github.com/lumakara/studio-backend/pkg/enums"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
	pkgpagination "github.com/lumakara/studio-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// catalogReader is the slice of the catalog repository the order flow needs.
type catalogReader interface {
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindTierByID(ctx context.Context, id uuid.UUID) (*models.PriceTier, error)
}

// defaultsProvider yields the studio-wide default down payment percent.
type defaultsProvider interface {
	DefaultDPPercent(ctx context.Context) int
}

type service struct {
	repo     Repository
	catalog  catalogReader
	tx       txRunner
	defaults defaultsProvider
	logg     *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, catalog catalogReader, tx txRunner, defaults defaultsProvider, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, catalog: catalog, tx: tx, defaults: defaults, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	categoryID, err := uuid.Parse(input.CategoryID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category id")
	}

	category, err := s.catalog.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	var tier *models.PriceTier
	var tierID *uuid.UUID
	if input.PriceTierID != nil && *input.PriceTierID != "" {
		parsed, err := uuid.Parse(*input.PriceTierID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid price tier id")
		}
		tier, err = s.catalog.FindTierByID(ctx, parsed)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price tier not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price tier")
		}
		tierID = &parsed
	}

	dpPercent := s.defaultDPPercent(ctx)
	if input.DPPercent != nil {
		dpPercent = *input.DPPercent
	}

	quote, err := pricing.Resolve(category, tier, dpPercent)
	if err != nil {
		return nil, err
	}

	channel := enums.OrderChannelOnline
	if input.Channel != "" {
		parsed, err := enums.ParseOrderChannel(input.Channel)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order channel")
		}
		channel = parsed
	}

	order := &models.Order{
		OrderNumber:   newOrderNumber(time.Now().UTC()),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone: input.CustomerPhone,
		CategoryID:    categoryID,
		PriceTierID:   tierID,
		TotalPrice:    quote.TotalPrice,
		DPPercent:     quote.DPPercent,
		DPAmount:      quote.DPAmount,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.OrderPaymentStatusUnpaid,
		Channel:       channel,
		Notes:         input.Notes,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_orders_order_number") {
			// one retry with a fresh suffix covers the rare collision
			order.OrderNumber = newOrderNumber(time.Now().UTC())
			if created, err = s.repo.Create(ctx, order); err == nil {
				return created, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.logg.Info(s.logg.WithOrderNumber(ctx, created.OrderNumber), "order created")
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*OrderList, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := ListQuery{
		Status:        params.Status,
		PaymentStatus: params.PaymentStatus,
		Query:         strings.TrimSpace(params.Query),
		Limit:         pkgpagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	return &OrderList{Orders: rows, NextCursor: nextCursor}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.Order, error) {
	updates := map[string]any{}
	if input.CustomerName != nil {
		updates["customer_name"] = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerEmail != nil {
		updates["customer_email"] = strings.ToLower(strings.TrimSpace(*input.CustomerEmail))
	}
	if input.CustomerPhone != nil {
		updates["customer_phone"] = *input.CustomerPhone
	}
	if input.DriveLink != nil {
		updates["drive_link"] = *input.DriveLink
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	return s.Get(ctx, id)
}

func (s *service) AdvanceStage(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, func(order *models.Order) (enums.OrderStatus, map[string]any, error) {
		next, ok := order.Status.Next()
		if !ok {
			return "", nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("order in %s cannot advance", order.Status)).
				WithDetails(map[string]any{"status": order.Status})
		}
		return next, map[string]any{"status": next}, nil
	})
}

func (s *service) SetStage(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	return s.transition(ctx, id, func(order *models.Order) (enums.OrderStatus, map[string]any, error) {
		if order.Status.IsTerminal() && order.Status != status {
			return "", nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("order in %s cannot change stage", order.Status)).
				WithDetails(map[string]any{"status": order.Status})
		}
		updates := map[string]any{"status": status}
		if status == enums.OrderStatusCancelled && order.CancelledAt == nil {
			updates["cancelled_at"] = time.Now().UTC()
		}
		return status, updates, nil
	})
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, func(order *models.Order) (enums.OrderStatus, map[string]any, error) {
		if order.Status.IsTerminal() {
			return "", nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("order in %s cannot be cancelled", order.Status)).
				WithDetails(map[string]any{"status": order.Status})
		}
		return enums.OrderStatusCancelled, map[string]any{
			"status":       enums.OrderStatusCancelled,
			"cancelled_at": time.Now().UTC(),
		}, nil
	})
}

func (s *service) SetDriveLink(ctx context.Context, id uuid.UUID, url string) (*models.Order, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "drive link required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"drive_link": url}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set drive link")
	}
	return s.Get(ctx, id)
}

// ExpireStalePending cancels unpaid PENDING orders created before cutoff.
// Each failure is collected so one bad row does not stop the sweep.
func (s *service) ExpireStalePending(ctx context.Context, cutoff time.Time) (*StaleOrderResult, error) {
	stale, err := s.repo.FindStalePendingBefore(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find stale orders")
	}

	result := &StaleOrderResult{Cutoff: cutoff}
	var errs error
	for _, order := range stale {
		if _, err := s.Cancel(ctx, order.ID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("cancel %s: %w", order.OrderNumber, err))
			continue
		}
		result.Cancelled++
	}
	return result, errs
}

// transition runs the stage change inside a transaction with the order row
// locked, so concurrent admin edits serialize.
func (s *service) transition(ctx context.Context, id uuid.UUID, decide func(*models.Order) (enums.OrderStatus, map[string]any, error)) (*models.Order, error) {
	var next enums.OrderStatus
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		target, updates, err := decide(order)
		if err != nil {
			return err
		}
		next = target
		if order.Status == target && target != enums.OrderStatusCancelled {
			return nil
		}
		if err := repo.Update(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": id.String(), "status": next})
	s.logg.Info(ctx, "order stage changed")
	return s.Get(ctx, id)
}

func (s *service) defaultDPPercent(ctx context.Context) int {
	if s.defaults == nil {
		return 30
	}
	return s.defaults.DefaultDPPercent(ctx)
}

// newOrderNumber yields a human-facing id like LMK-20260115-4F2A1C.
func newOrderNumber(now time.Time) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// fall back to the clock; uniqueness is still enforced by the DB
		return fmt.Sprintf("LMK-%s-%06d", now.Format("20060102"), now.UnixNano()%1000000)
	}
	return fmt.Sprintf("LMK-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
