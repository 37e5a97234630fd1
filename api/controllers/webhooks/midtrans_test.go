package webhooks

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	paymentsvc "github.com/lumakara/studio-backend/internal/payments"
	"github.com/lumakara/studio-backend/pkg/db/models"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
)

type testPaymentsService struct {
	notifyFn func(ctx context.Context, payload paymentsvc.NotificationPayload) error
}

func (s *testPaymentsService) CreateCheckout(context.Context, paymentsvc.CheckoutInput) (*paymentsvc.CheckoutResult, error) {
	return nil, nil
}

func (s *testPaymentsService) HandleNotification(ctx context.Context, payload paymentsvc.NotificationPayload) error {
	if s.notifyFn != nil {
		return s.notifyFn(ctx, payload)
	}
	return nil
}

func (s *testPaymentsService) RecordManualPayment(context.Context, paymentsvc.ManualPaymentInput) (*models.Payment, error) {
	return nil, nil
}

func (s *testPaymentsService) ListByOrder(context.Context, uuid.UUID) ([]models.Payment, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestMidtransDeliversPayload(t *testing.T) {
	var got paymentsvc.NotificationPayload
	svc := &testPaymentsService{
		notifyFn: func(ctx context.Context, payload paymentsvc.NotificationPayload) error {
			got = payload
			return nil
		},
	}

	body := strings.NewReader(`{
		"order_id": "LMK-20260315-AB12CD",
		"status_code": "200",
		"gross_amount": "1500000.00",
		"signature_key": "abc",
		"transaction_id": "tx-1",
		"transaction_status": "settlement",
		"unexpected_extra_field": true
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/midtrans", body)
	resp := httptest.NewRecorder()

	Midtrans(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.OrderID != "LMK-20260315-AB12CD" || got.TransactionStatus != "settlement" {
		t.Fatalf("payload not delivered: %+v", got)
	}
}

func TestMidtransSignatureFailureIsUnauthorized(t *testing.T) {
	svc := &testPaymentsService{
		notifyFn: func(ctx context.Context, payload paymentsvc.NotificationPayload) error {
			return pkgerrors.New(pkgerrors.CodeSignature, "signature mismatch")
		},
	}

	body := strings.NewReader(`{"order_id":"x","status_code":"200","gross_amount":"1","signature_key":"bad","transaction_id":"t","transaction_status":"settlement"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/midtrans", body)
	resp := httptest.NewRecorder()

	Midtrans(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMidtransRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/midtrans", strings.NewReader("{not json"))
	resp := httptest.NewRecorder()

	Midtrans(&testPaymentsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
