package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lumakara/studio-backend/api/responses"
	"github.com/lumakara/studio-backend/api/validators"
	ordersvc "github.com/lumakara/studio-backend/internal/orders"
	paymentsvc "github.com/lumakara/studio-backend/internal/payments"
	"github.com/lumakara/studio-backend/pkg/enums"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
	"github.com/lumakara/studio-backend/pkg/pagination"
)

// publicCreateOrderRequest is the public booking form. When payment_type is
// present a hosted checkout is opened in the same call so the frontend can
// show the payment popup right after booking.
type publicCreateOrderRequest struct {
	CustomerName  string  `json:"customer_name" validate:"required,min=2,max=160"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerPhone *string `json:"customer_phone" validate:"omitempty,min=6,max=32"`
	CategoryID    string  `json:"category_id" validate:"required,uuid"`
	PriceTierID   *string `json:"price_tier_id" validate:"omitempty,uuid"`
	DPPercent     *int    `json:"dp_percent" validate:"omitempty,min=0,max=100"`
	Notes         *string `json:"notes" validate:"omitempty,max=4000"`
	PaymentType   *string `json:"payment_type" validate:"omitempty,oneof=DOWN_PAYMENT FULL_PAYMENT"`
}

type publicCreateOrderResponse struct {
	Order       any    `json:"order"`
	Token       string `json:"token,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// PublicCreateOrder books an order from the public site. The channel is
// always ONLINE here; offline orders go through the back office.
func PublicCreateOrder(orders ordersvc.Service, payments paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orders == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload publicCreateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.Create(r.Context(), ordersvc.CreateOrderInput{
			CustomerName:  payload.CustomerName,
			CustomerEmail: payload.CustomerEmail,
			CustomerPhone: payload.CustomerPhone,
			CategoryID:    payload.CategoryID,
			PriceTierID:   payload.PriceTierID,
			DPPercent:     payload.DPPercent,
			Channel:       string(enums.OrderChannelOnline),
			Notes:         payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := publicCreateOrderResponse{Order: order}
		if payload.PaymentType != nil && payments != nil {
			checkout, err := payments.CreateCheckout(r.Context(), paymentsvc.CheckoutInput{
				OrderID:     order.ID.String(),
				PaymentType: *payload.PaymentType,
			})
			if err != nil {
				// the order itself stands; surface the checkout failure
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			result.Token = checkout.Token
			result.RedirectURL = checkout.RedirectURL
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AdminListOrders pages through orders with optional filters.
func AdminListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := ordersvc.ListParams{
			Query:  strings.TrimSpace(r.URL.Query().Get("q")),
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			Limit:  limit,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("payment_status")); raw != "" {
			status, err := enums.ParseOrderPaymentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status filter"))
				return
			}
			params.PaymentStatus = &status
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminCreateOrder records an order from the back office, typically OFFLINE.
func AdminCreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		var payload ordersvc.CreateOrderInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func AdminGetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminUpdateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload ordersvc.UpdateOrderInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Update(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminAdvanceOrder moves the order exactly one stage forward.
func AdminAdvanceOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.AdvanceStage(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type setStageRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminSetOrderStage jumps the order to any non-terminal-locked stage, for
// corrections when a step was recorded out of order.
func AdminSetOrderStage(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload setStageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}
		order, err := svc.SetStage(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminCancelOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Cancel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type manualPaymentRequest struct {
	PaymentType string  `json:"payment_type" validate:"required,oneof=DOWN_PAYMENT FULL_PAYMENT"`
	GrossAmount int64   `json:"gross_amount" validate:"required,min=1"`
	Reference   *string `json:"reference" validate:"omitempty,max=200"`
}

// AdminRecordOrderPayment records a payment taken at the studio.
func AdminRecordOrderPayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload manualPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := svc.RecordManualPayment(r.Context(), paymentsvc.ManualPaymentInput{
			OrderID:     id.String(),
			PaymentType: payload.PaymentType,
			GrossAmount: payload.GrossAmount,
			Reference:   payload.Reference,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

func AdminListOrderPayments(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payments, err := svc.ListByOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payments)
	}
}

// AdminCreateOrderCheckout opens a hosted checkout for an existing order.
func AdminCreateOrderCheckout(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload struct {
			PaymentType string `json:"payment_type" validate:"required,oneof=DOWN_PAYMENT FULL_PAYMENT"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		checkout, err := svc.CreateCheckout(r.Context(), paymentsvc.CheckoutInput{
			OrderID:     id.String(),
			PaymentType: payload.PaymentType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, checkout)
	}
}
