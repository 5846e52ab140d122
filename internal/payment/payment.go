// Package payment describes the regional card gateway the service will
// eventually redirect checkouts to. Only an inert stub exists today.
package payment

import (
	"context"
	"errors"

	"github.com/bobarin/voicescript/internal/models"
)

// ErrNotImplemented is returned by every gateway call on the stub.
var ErrNotImplemented = errors.New("payment gateway integration is not implemented")

// Order is what a checkout would charge.
type Order struct {
	ID          string
	Amount      int64 // minor units
	Currency    string
	Description string
	Email       string
}

// CallbackOutcome is the verified result of a gateway callback.
type CallbackOutcome struct {
	OrderID  string
	Approved bool
	Reason   string
}

// Gateway is the capability a real integration must provide.
type Gateway interface {
	Checkout(ctx context.Context, order Order) (redirectURL string, err error)
	VerifyCallback(ctx context.Context, payload map[string]string) (CallbackOutcome, error)
}

// Credentials are the merchant settings read from the environment.
type Credentials struct {
	MerchantID string
	SecretKey  string
	Endpoint   string
}

// Stub holds the credentials but never talks to the gateway: no signing,
// no callback verification.
type Stub struct {
	creds    Credentials
	demoMode bool
}

var _ Gateway = (*Stub)(nil)

func NewStub(creds Credentials, demoMode bool) *Stub {
	return &Stub{creds: creds, demoMode: demoMode}
}

// Status is "todo" when payments would be live (demo off and a merchant
// configured), otherwise "disabled".
func (s *Stub) Status() models.PaymentStatus {
	if !s.demoMode && s.creds.MerchantID != "" {
		return models.PaymentStatusTodo
	}
	return models.PaymentStatusDisabled
}

func (s *Stub) Checkout(ctx context.Context, order Order) (string, error) {
	return "", ErrNotImplemented
}

func (s *Stub) VerifyCallback(ctx context.Context, payload map[string]string) (CallbackOutcome, error) {
	return CallbackOutcome{}, ErrNotImplemented
}
