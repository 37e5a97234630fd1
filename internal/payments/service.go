package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/internal/orders"
	"github.com/lumakara/studio-backend/pkg/db"
	"github.com/lumakara/studio-backend/pkg/db/models"
	"github.com/lumakara/studio-backend/pkg/enums"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
	midtransclient "github.com/lumakara/studio-backend/pkg/midtrans"
)

const (
	// ProviderMidtrans is the provider tag stored on gateway payments.
	ProviderMidtrans = "midtrans"
	// ProviderManual is the provider tag stored on offline payments.
	ProviderManual = "manual"

	// fullPaymentSuffix disambiguates the gateway order id when a second
	// (remainder) transaction is opened for the same order.
	fullPaymentSuffix = "-FULL"

	// notificationDedupTTL bounds how long a processed notification key is
	// remembered; the unique (provider, external_id) constraint backstops it.
	notificationDedupTTL = 72 * time.Hour
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// gateway is the slice of the Midtrans wrapper the service depends on.
type gateway interface {
	CreateTransaction(ctx context.Context, orderNumber string, grossAmount int64, customer midtransclient.CustomerDetails, item midtransclient.CheckoutItem) (*midtransclient.Checkout, error)
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}

// dedupGuard remembers processed notification keys.
type dedupGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
}

type service struct {
	repo    Repository
	orders  orders.Repository
	tx      txRunner
	gateway gateway
	dedup   dedupGuard
	logg    *logger.Logger
}

// NewService builds a payments service with the required dependencies.
func NewService(repo Repository, ordersRepo orders.Repository, tx txRunner, gw gateway, dedup dedupGuard, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if gw == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if dedup == nil {
		return nil, fmt.Errorf("dedup guard required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, orders: ordersRepo, tx: tx, gateway: gw, dedup: dedup, logg: logg}, nil
}

func (s *service) CreateCheckout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	orderID, err := uuid.Parse(input.OrderID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	paymentType, err := enums.ParsePaymentType(input.PaymentType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment type")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancelled order cannot be paid")
	}

	settled, err := s.repo.SumSettledByOrder(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum settled payments")
	}

	gatewayOrderID := order.OrderNumber
	var amount int64
	switch paymentType {
	case enums.PaymentTypeDownPayment:
		if settled > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "down payment already settled")
		}
		amount = order.DPAmount
	case enums.PaymentTypeFullPayment:
		amount = order.RemainingAmount(settled)
		if settled > 0 {
			gatewayOrderID += fullPaymentSuffix
		}
	}
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no outstanding balance")
	}

	phone := ""
	if order.CustomerPhone != nil {
		phone = *order.CustomerPhone
	}
	checkout, err := s.gateway.CreateTransaction(ctx, gatewayOrderID, amount,
		midtransclient.CustomerDetails{
			Name:  order.CustomerName,
			Email: order.CustomerEmail,
			Phone: phone,
		},
		midtransclient.CheckoutItem{
			ID:    order.ID.String(),
			Name:  fmt.Sprintf("Photo session %s", order.OrderNumber),
			Price: amount,
		})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open gateway checkout")
	}

	payment := &models.Payment{
		OrderID:     order.ID,
		Provider:    ProviderMidtrans,
		Type:        paymentType,
		Status:      enums.PaymentStatusPending,
		GrossAmount: amount,
		SnapToken:   &checkout.Token,
	}
	if payment, err = s.repo.Create(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record pending payment")
	}

	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	s.logg.Info(ctx, "checkout opened")

	return &CheckoutResult{
		Payment:     payment,
		Token:       checkout.Token,
		RedirectURL: checkout.RedirectURL,
	}, nil
}

func (s *service) HandleNotification(ctx context.Context, payload NotificationPayload) error {
	if payload.OrderID == "" || payload.StatusCode == "" || payload.GrossAmount == "" || payload.SignatureKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification payload incomplete")
	}

	if !s.gateway.VerifySignature(payload.OrderID, payload.StatusCode, payload.GrossAmount, payload.SignatureKey) {
		return pkgerrors.New(pkgerrors.CodeSignature, "notification signature mismatch")
	}

	status, err := mapTransactionStatus(payload.TransactionStatus, payload.FraudStatus)
	if err != nil {
		return err
	}

	gross, err := parseGrossAmount(payload.GrossAmount)
	if err != nil {
		return err
	}

	dedupKey := s.dedup.IdempotencyKey("midtrans", strings.Join([]string{
		payload.OrderID, payload.StatusCode, payload.GrossAmount, payload.TransactionID,
	}, ":"))
	first, err := s.dedup.SetNX(ctx, dedupKey, 1, notificationDedupTTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notification dedup guard")
	}
	if !first {
		return nil
	}

	orderNumber := strings.TrimSuffix(payload.OrderID, fullPaymentSuffix)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		paymentsRepo := s.repo.WithTx(tx)

		order, err := ordersRepo.FindByOrderNumber(ctx, orderNumber)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found for notification")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if _, err := ordersRepo.FindByIDForUpdate(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}

		if err := s.upsertGatewayPayment(ctx, paymentsRepo, order, payload, status, gross); err != nil {
			return err
		}
		return s.recomputeOrderPaymentStatus(ctx, ordersRepo, paymentsRepo, order, status)
	})
	if err != nil {
		return err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"orderNumber": orderNumber,
		"txStatus":    payload.TransactionStatus,
	})
	s.logg.Info(ctx, "gateway notification processed")
	return nil
}

func (s *service) RecordManualPayment(ctx context.Context, input ManualPaymentInput) (*models.Payment, error) {
	orderID, err := uuid.Parse(input.OrderID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	paymentType, err := enums.ParsePaymentType(input.PaymentType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment type")
	}
	if input.GrossAmount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gross amount must be positive")
	}

	var payment *models.Payment
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		paymentsRepo := s.repo.WithTx(tx)

		order, err := ordersRepo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeValidation, "cancelled order cannot be paid")
		}

		externalID := uuid.NewString()
		if input.Reference != nil && *input.Reference != "" {
			externalID = *input.Reference
		}
		now := time.Now().UTC()
		payment = &models.Payment{
			OrderID:     order.ID,
			Provider:    ProviderManual,
			ExternalID:  &externalID,
			Type:        paymentType,
			Status:      enums.PaymentStatusSettled,
			GrossAmount: input.GrossAmount,
			PaidAt:      &now,
		}
		if payment, err = paymentsRepo.Create(ctx, payment); err != nil {
			if db.IsUniqueViolation(err, "uq_payments_provider_external_id") {
				return pkgerrors.New(pkgerrors.CodeConflict, "payment reference already recorded")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record manual payment")
		}
		return s.recomputeOrderPaymentStatus(ctx, ordersRepo, paymentsRepo, order, enums.PaymentStatusSettled)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	payments, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return payments, nil
}

// upsertGatewayPayment records the notification against an existing gateway
// payment when one matches, otherwise inserts a new row. A concurrent insert
// of the same (provider, external_id) is treated as already processed.
func (s *service) upsertGatewayPayment(ctx context.Context, repo Repository, order *models.Order, payload NotificationPayload, status enums.PaymentStatus, gross int64) error {
	updates := map[string]any{
		"status":      status,
		"raw_status":  payload.TransactionStatus,
		"external_id": payload.TransactionID,
	}
	if status == enums.PaymentStatusSettled {
		updates["paid_at"] = time.Now().UTC()
	}

	if payload.TransactionID != "" {
		existing, err := repo.FindByProviderExternalID(ctx, ProviderMidtrans, payload.TransactionID)
		if err == nil {
			return repo.Update(ctx, existing.ID, updates)
		}
		if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find gateway payment")
		}
	}

	// adopt the pending checkout row for this order when one is still open
	open, err := repo.ListByOrder(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order payments")
	}
	for _, p := range open {
		if p.Provider == ProviderMidtrans && p.Status == enums.PaymentStatusPending && p.ExternalID == nil {
			return repo.Update(ctx, p.ID, updates)
		}
	}

	paymentType := enums.PaymentTypeDownPayment
	if strings.HasSuffix(payload.OrderID, fullPaymentSuffix) {
		paymentType = enums.PaymentTypeFullPayment
	}
	externalID := payload.TransactionID
	payment := &models.Payment{
		OrderID:     order.ID,
		Provider:    ProviderMidtrans,
		ExternalID:  &externalID,
		Type:        paymentType,
		Status:      status,
		GrossAmount: gross,
		RawStatus:   &payload.TransactionStatus,
	}
	if status == enums.PaymentStatusSettled {
		now := time.Now().UTC()
		payment.PaidAt = &now
	}
	if _, err := repo.Create(ctx, payment); err != nil {
		if db.IsUniqueViolation(err, "uq_payments_provider_external_id") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record gateway payment")
	}
	return nil
}

// recomputeOrderPaymentStatus derives the order-level payment status from the
// settled total. Settlement never advances the order stage.
func (s *service) recomputeOrderPaymentStatus(ctx context.Context, ordersRepo orders.Repository, paymentsRepo Repository, order *models.Order, lastStatus enums.PaymentStatus) error {
	settled, err := paymentsRepo.SumSettledByOrder(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum settled payments")
	}

	var next enums.OrderPaymentStatus
	switch {
	case settled >= order.TotalPrice && order.TotalPrice > 0:
		next = enums.OrderPaymentStatusPaid
	case settled > 0:
		next = enums.OrderPaymentStatusDPPaid
	default:
		switch lastStatus {
		case enums.PaymentStatusPending:
			next = enums.OrderPaymentStatusPending
		case enums.PaymentStatusFailed:
			next = enums.OrderPaymentStatusFailed
		case enums.PaymentStatusExpired:
			next = enums.OrderPaymentStatusExpired
		case enums.PaymentStatusRefunded:
			next = enums.OrderPaymentStatusRefunded
		default:
			next = enums.OrderPaymentStatusUnpaid
		}
	}

	if order.PaymentStatus == next {
		return nil
	}
	if err := ordersRepo.Update(ctx, order.ID, map[string]any{"payment_status": next}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order payment status")
	}
	return nil
}

func mapTransactionStatus(transactionStatus, fraudStatus string) (enums.PaymentStatus, error) {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return enums.PaymentStatusPending, nil
		}
		return enums.PaymentStatusSettled, nil
	case "settlement":
		return enums.PaymentStatusSettled, nil
	case "pending":
		return enums.PaymentStatusPending, nil
	case "deny", "cancel":
		return enums.PaymentStatusFailed, nil
	case "expire":
		return enums.PaymentStatusExpired, nil
	case "refund", "partial_refund":
		return enums.PaymentStatusRefunded, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown transaction status %q", transactionStatus))
	}
}

func parseGrossAmount(value string) (int64, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid gross amount")
	}
	return amount.Round(0).IntPart(), nil
}
