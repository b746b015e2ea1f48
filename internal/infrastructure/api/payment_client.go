package api

import (
	"context"
	"net/http"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	"github.com/yuzvak/storefront-client/internal/domain/checkout"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

type PaymentClient struct {
	client *Client
}

func NewPaymentClient(baseURL string, tokens ports.TokenSource, log *logger.Logger) *PaymentClient {
	return &PaymentClient{
		client: NewClient(baseURL, tokens, log),
	}
}

type createIntentPayload struct {
	OrderID string `json:"order_id"`
}

type createIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

func (c *PaymentClient) CreateIntent(ctx context.Context, orderID string) (checkout.PaymentIntent, error) {
	var resp createIntentResponse
	if err := c.client.do(ctx, http.MethodPost, "/payments/intent/", createIntentPayload{OrderID: orderID}, &resp); err != nil {
		return checkout.PaymentIntent{}, err
	}
	return checkout.PaymentIntent{
		ClientSecret: resp.ClientSecret,
		Status:       checkout.IntentStatusRequiresConfirmation,
	}, nil
}
