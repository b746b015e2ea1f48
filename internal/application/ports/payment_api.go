package ports

import (
	"context"

	"github.com/yuzvak/storefront-client/internal/domain/checkout"
)

// PaymentAPI is the remote payment service that issues confirmation secrets
// for created orders.
type PaymentAPI interface {
	CreateIntent(ctx context.Context, orderID string) (checkout.PaymentIntent, error)
}

type ConfirmResult struct {
	Status checkout.IntentStatus
	Reason string
}

// PaymentProcessor is the external processor that authorizes the buyer's
// instrument against a confirmation secret. Tokenization internals stay on
// the processor's side.
type PaymentProcessor interface {
	ConfirmPayment(ctx context.Context, clientSecret string, card checkout.Card, billing checkout.BuyerInfo) (ConfirmResult, error)
}
