package api

import (
	"context"
	"net/http"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	"github.com/yuzvak/storefront-client/internal/domain/checkout"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

type OrderClient struct {
	client *Client
}

func NewOrderClient(baseURL string, tokens ports.TokenSource, log *logger.Logger) *OrderClient {
	return &OrderClient{
		client: NewClient(baseURL, tokens, log),
	}
}

type createOrderPayload struct {
	CartID        string               `json:"cart_id,omitempty"`
	Items         []checkout.OrderItem `json:"items"`
	BuyerInfo     checkout.BuyerInfo   `json:"user_info"`
	PaymentMethod string               `json:"payment_method"`
}

type createOrderResponse struct {
	OrderID string `json:"order_id"`
}

func (c *OrderClient) CreateOrder(ctx context.Context, req ports.CreateOrderRequest) (string, error) {
	payload := createOrderPayload{
		CartID:        req.CartID,
		Items:         req.Items,
		BuyerInfo:     req.BuyerInfo,
		PaymentMethod: string(req.PaymentMethod),
	}

	var resp createOrderResponse
	if err := c.client.do(ctx, http.MethodPost, "/orders/", payload, &resp); err != nil {
		return "", err
	}
	return resp.OrderID, nil
}
