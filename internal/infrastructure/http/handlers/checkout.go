package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yuzvak/storefront-client/internal/application/use_cases"
	"github.com/yuzvak/storefront-client/internal/domain/checkout"
	"github.com/yuzvak/storefront-client/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

type CheckoutHandler struct {
	saga *use_cases.CheckoutSaga
	log  *logger.Logger
}

func NewCheckoutHandler(saga *use_cases.CheckoutSaga, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		saga: saga,
		log:  log,
	}
}

type checkoutRequestBody struct {
	Items         []checkout.OrderItem `json:"items"`
	BuyerInfo     checkout.BuyerInfo   `json:"user_info"`
	PaymentMethod string               `json:"payment_method"`
	Card          *cardBody            `json:"card,omitempty"`
}

type cardBody struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	CVC      string `json:"cvc"`
}

type checkoutResponseBody struct {
	OrderID string `json:"order_id"`
	Stage   string `json:"stage"`
}

func (h *CheckoutHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body checkoutRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"body": "request body must be valid JSON",
		})
		return
	}

	req := use_cases.CheckoutRequest{
		Items:         body.Items,
		BuyerInfo:     body.BuyerInfo,
		PaymentMethod: checkout.PaymentMethod(body.PaymentMethod),
	}
	if body.Card != nil {
		req.Card = checkout.Card{
			Number:   body.Card.Number,
			ExpMonth: body.Card.ExpMonth,
			ExpYear:  body.Card.ExpYear,
			CVC:      body.Card.CVC,
		}
	}

	result, err := h.saga.Run(r.Context(), req)
	if err != nil {
		h.log.Warn("Checkout failed",
			"stage", result.Stage.String(),
			"order_id", result.OrderID,
			"error", err,
		)
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, checkoutResponseBody{
		OrderID: result.OrderID,
		Stage:   result.Stage.String(),
	})
}
