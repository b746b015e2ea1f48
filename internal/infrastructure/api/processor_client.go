package api

import (
	"context"
	"net/http"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	"github.com/yuzvak/storefront-client/internal/domain/checkout"
	domainErrors "github.com/yuzvak/storefront-client/internal/domain/errors"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

// ProcessorClient talks to the external payment processor's confirmation
// endpoint. Card tokenization stays on the processor's side; this client
// only hands over the confirmation secret and instrument details.
type ProcessorClient struct {
	client    *Client
	publicKey string
}

func NewProcessorClient(baseURL, publicKey string, log *logger.Logger) *ProcessorClient {
	return &ProcessorClient{
		client:    NewClient(baseURL, nil, log),
		publicKey: publicKey,
	}
}

type confirmPayload struct {
	ClientSecret string             `json:"client_secret"`
	PublicKey    string             `json:"public_key"`
	Card         confirmCard        `json:"card"`
	Billing      checkout.BuyerInfo `json:"billing_details"`
}

type confirmCard struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	CVC      string `json:"cvc"`
}

type confirmResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (c *ProcessorClient) ConfirmPayment(ctx context.Context, clientSecret string, card checkout.Card, billing checkout.BuyerInfo) (ports.ConfirmResult, error) {
	payload := confirmPayload{
		ClientSecret: clientSecret,
		PublicKey:    c.publicKey,
		Card: confirmCard{
			Number:   card.Number,
			ExpMonth: card.ExpMonth,
			ExpYear:  card.ExpYear,
			CVC:      card.CVC,
		},
		Billing: billing,
	}

	var resp confirmResponse
	err := c.client.do(ctx, http.MethodPost, "/v1/payment_intents/confirm", payload, &resp)
	if err != nil {
		if domainErrors.IsNetwork(err) {
			return ports.ConfirmResult{}, err
		}
		// The processor reports declines through regular 4xx responses;
		// those are payment failures, not validation issues.
		return ports.ConfirmResult{}, &domainErrors.PaymentError{Reason: err.Error()}
	}

	switch resp.Status {
	case "succeeded":
		return ports.ConfirmResult{Status: checkout.IntentStatusSucceeded}, nil
	default:
		return ports.ConfirmResult{
			Status: checkout.IntentStatusFailed,
			Reason: resp.Error,
		}, nil
	}
}
