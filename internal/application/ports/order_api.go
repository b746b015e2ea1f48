package ports

import (
	"context"

	"github.com/yuzvak/storefront-client/internal/domain/checkout"
)

type CreateOrderRequest struct {
	CartID        string
	Items         []checkout.OrderItem
	BuyerInfo     checkout.BuyerInfo
	PaymentMethod checkout.PaymentMethod
}

// OrderAPI is the remote order service. 4xx responses surface as
// *errors.ValidationError with field-keyed messages.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (orderID string, err error)
}
