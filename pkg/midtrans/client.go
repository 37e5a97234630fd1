package midtrans

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/lumakara/studio-backend/pkg/config"
	"github.com/lumakara/studio-backend/pkg/logger"
)

var errServerKeyRequired = errors.New("midtrans server key is required")

// CustomerDetails carries the order's customer fields into the hosted checkout.
type CustomerDetails struct {
	Name  string
	Email string
	Phone string
}

// CheckoutItem describes the single line the studio checkout carries.
type CheckoutItem struct {
	ID    string
	Name  string
	Price int64
}

// Checkout is the hosted-checkout handle returned by the gateway.
type Checkout struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// snapAPI is the surface of the Snap SDK the client depends on.
type snapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// Client wraps the Midtrans Snap SDK with centralized configuration,
// logging, and notification signature verification.
type Client struct {
	snap      snapAPI
	serverKey string
	clientKey string
	logger    *logger.Logger
}

// NewClient initializes the Midtrans wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.MidtransConfig, logg *logger.Logger) (*Client, error) {
	serverKey := strings.TrimSpace(cfg.ServerKey)
	if serverKey == "" {
		return nil, errServerKeyRequired
	}

	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}

	var sc snap.Client
	sc.New(serverKey, env)

	c := &Client{
		snap:      &sc,
		serverKey: serverKey,
		clientKey: strings.TrimSpace(cfg.ClientKey),
		logger:    logg,
	}

	if logg != nil {
		logg.Info(ctx, "midtrans client initialized")
	}
	return c, nil
}

// CreateTransaction opens a hosted-checkout transaction for the given order
// number and amount, returning the snap token and redirect URL.
func (c *Client) CreateTransaction(ctx context.Context, orderNumber string, grossAmount int64, customer CustomerDetails, item CheckoutItem) (*Checkout, error) {
	if c == nil || c.snap == nil {
		return nil, errors.New("midtrans client not initialized")
	}
	if orderNumber == "" {
		return nil, errors.New("order number is required")
	}
	if grossAmount <= 0 {
		return nil, errors.New("gross amount must be positive")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderNumber,
			GrossAmt: grossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.Name,
			Email: customer.Email,
			Phone: customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    item.ID,
				Name:  truncate(item.Name, 50),
				Price: item.Price,
				Qty:   1,
			},
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
	}

	resp, mErr := c.snap.CreateTransaction(req)
	if mErr != nil {
		return nil, mErr
	}

	if c.logger != nil {
		logCtx := c.logger.WithOrderNumber(ctx, orderNumber)
		c.logger.Info(logCtx, "midtrans transaction created")
	}
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// VerifySignature checks a notification's signature key:
// hex(sha512(order_id + status_code + gross_amount + server_key)), compared in
// constant time. Malformed or mismatched signatures return false.
func (c *Client) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	if c == nil {
		return false
	}
	return VerifySignature(orderID, statusCode, grossAmount, c.serverKey, signature)
}

// VerifySignature is the raw form used by tests and callers holding the key.
func VerifySignature(orderID, statusCode, grossAmount, serverKey, signature string) bool {
	signature = strings.ToLower(strings.TrimSpace(signature))
	if signature == "" {
		return false
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// ClientKey returns the public key the frontend embeds for Snap.js.
func (c *Client) ClientKey() string {
	if c == nil {
		return ""
	}
	return c.clientKey
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
