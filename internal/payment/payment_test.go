package payment_test

import (
	"context"
	"testing"

	"github.com/bobarin/voicescript/internal/models"
	"github.com/bobarin/voicescript/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		demo     bool
		merchant string
		want     models.PaymentStatus
	}{
		{"demo on, no merchant", true, "", models.PaymentStatusDisabled},
		{"demo on, merchant", true, "m-1", models.PaymentStatusDisabled},
		{"demo off, no merchant", false, "", models.PaymentStatusDisabled},
		{"demo off, merchant", false, "m-1", models.PaymentStatusTodo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := payment.NewStub(payment.Credentials{MerchantID: tt.merchant}, tt.demo)
			assert.Equal(t, tt.want, stub.Status())
		})
	}
}

func TestStubNeverTalksToGateway(t *testing.T) {
	t.Parallel()

	stub := payment.NewStub(payment.Credentials{MerchantID: "m-1", SecretKey: "s", Endpoint: "https://pay.example"}, false)

	url, err := stub.Checkout(context.Background(), payment.Order{ID: "o-1", Amount: 4900, Currency: "MAD"})
	require.ErrorIs(t, err, payment.ErrNotImplemented)
	assert.Empty(t, url)

	outcome, err := stub.VerifyCallback(context.Background(), map[string]string{"oid": "o-1"})
	require.ErrorIs(t, err, payment.ErrNotImplemented)
	assert.False(t, outcome.Approved)
}
