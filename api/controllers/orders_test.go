package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	ordersvc "github.com/lumakara/studio-backend/internal/orders"
	"github.com/lumakara/studio-backend/pkg/db/models"
	"github.com/lumakara/studio-backend/pkg/enums"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
)

type testOrdersService struct {
	createFn  func(ctx context.Context, input ordersvc.CreateOrderInput) (*models.Order, error)
	advanceFn func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	setFn     func(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

func (s *testOrdersService) Create(ctx context.Context, input ordersvc.CreateOrderInput) (*models.Order, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, nil
}

func (s *testOrdersService) Get(context.Context, uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *testOrdersService) GetByNumber(context.Context, string) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *testOrdersService) List(context.Context, ordersvc.ListParams) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{}, nil
}

func (s *testOrdersService) Update(context.Context, uuid.UUID, ordersvc.UpdateOrderInput) (*models.Order, error) {
	return nil, nil
}

func (s *testOrdersService) AdvanceStage(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.advanceFn != nil {
		return s.advanceFn(ctx, id)
	}
	return nil, nil
}

func (s *testOrdersService) SetStage(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if s.setFn != nil {
		return s.setFn(ctx, id, status)
	}
	return nil, nil
}

func (s *testOrdersService) Cancel(context.Context, uuid.UUID) (*models.Order, error) {
	return nil, nil
}

func (s *testOrdersService) SetDriveLink(context.Context, uuid.UUID, string) (*models.Order, error) {
	return nil, nil
}

func (s *testOrdersService) ExpireStalePending(context.Context, time.Time) (*ordersvc.StaleOrderResult, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestAdminAdvanceOrderSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &testOrdersService{
		advanceFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			if id != orderID {
				t.Fatalf("unexpected order id %s", id)
			}
			return &models.Order{ID: orderID, Status: enums.OrderStatusConsultation}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/"+orderID.String()+"/advance", nil)
	req = addRouteParam(req, "id", orderID.String())
	resp := httptest.NewRecorder()

	AdminAdvanceOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data models.Order `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Status != enums.OrderStatusConsultation {
		t.Fatalf("status = %s, want CONSULTATION", envelope.Data.Status)
	}
}

func TestAdminAdvanceOrderTerminalIsBadRequest(t *testing.T) {
	svc := &testOrdersService{
		advanceFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "order is in a terminal stage")
		},
	}

	orderID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/"+orderID+"/advance", nil)
	req = addRouteParam(req, "id", orderID)
	resp := httptest.NewRecorder()

	AdminAdvanceOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInvalidTransition) {
		t.Fatalf("code = %s, want INVALID_TRANSITION", envelope.Error.Code)
	}
}

func TestAdminSetOrderStageRejectsUnknownStatus(t *testing.T) {
	orderID := uuid.NewString()
	body := strings.NewReader(`{"status":"SHIPPED"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/"+orderID+"/stage", body)
	req = addRouteParam(req, "id", orderID)
	resp := httptest.NewRecorder()

	AdminSetOrderStage(&testOrdersService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPublicCreateOrderValidatesBody(t *testing.T) {
	body := strings.NewReader(`{"customer_name":"A"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
	resp := httptest.NewRecorder()

	PublicCreateOrder(&testOrdersService{}, nil, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPublicCreateOrderForcesOnlineChannel(t *testing.T) {
	var got ordersvc.CreateOrderInput
	svc := &testOrdersService{
		createFn: func(ctx context.Context, input ordersvc.CreateOrderInput) (*models.Order, error) {
			got = input
			return &models.Order{ID: uuid.New(), OrderNumber: "LMK-20260315-AB12CD"}, nil
		},
	}

	body := strings.NewReader(`{
		"customer_name": "Citra Ayu",
		"customer_email": "citra@example.com",
		"category_id": "` + uuid.NewString() + `"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
	resp := httptest.NewRecorder()

	PublicCreateOrder(svc, nil, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.Channel != string(enums.OrderChannelOnline) {
		t.Fatalf("channel = %q, want ONLINE", got.Channel)
	}
}
