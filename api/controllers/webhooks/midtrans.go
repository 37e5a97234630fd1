package webhooks

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/lumakara/studio-backend/api/responses"
	paymentsvc "github.com/lumakara/studio-backend/internal/payments"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
)

// Midtrans receives payment notifications from the gateway. The body is
// decoded loosely since the gateway adds fields over time; the service
// verifies the signature before trusting anything in it.
func Midtrans(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		var payload paymentsvc.NotificationPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode notification"))
			return
		}

		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{
				"gateway_order_id":   payload.OrderID,
				"transaction_status": payload.TransactionStatus,
			})
		}

		if err := svc.HandleNotification(ctx, payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
