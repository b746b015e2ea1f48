package use_cases

import (
	"context"
	"errors"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	"github.com/yuzvak/storefront-client/internal/application/session"
	"github.com/yuzvak/storefront-client/internal/domain/checkout"
	domainErrors "github.com/yuzvak/storefront-client/internal/domain/errors"
	"github.com/yuzvak/storefront-client/internal/infrastructure/monitoring"
	"github.com/yuzvak/storefront-client/internal/pkg/clock"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

type CheckoutRequest struct {
	Items         []checkout.OrderItem
	BuyerInfo     checkout.BuyerInfo
	PaymentMethod checkout.PaymentMethod
	Card          checkout.Card
}

type CheckoutResult struct {
	SessionID string
	OrderID   string
	Stage     checkout.Stage
}

// CheckoutSaga sequences order creation, payment-intent acquisition and
// processor confirmation. Stages only move forward; any failure terminates
// the attempt and the caller starts a fresh saga if they want to retry.
// There is no compensating transaction: an order created before a payment
// failure stays behind on the remote side (logged, never cleaned up here).
type CheckoutSaga struct {
	orders    ports.OrderAPI
	payments  ports.PaymentAPI
	processor ports.PaymentProcessor
	store     ports.KeyValueStore
	sess      *session.Context
	clk       clock.Clock
	log       *logger.Logger
}

func NewCheckoutSaga(
	orders ports.OrderAPI,
	payments ports.PaymentAPI,
	processor ports.PaymentProcessor,
	store ports.KeyValueStore,
	sess *session.Context,
	clk clock.Clock,
	log *logger.Logger,
) *CheckoutSaga {
	return &CheckoutSaga{
		orders:    orders,
		payments:  payments,
		processor: processor,
		store:     store,
		sess:      sess,
		clk:       clk,
		log:       log,
	}
}

// Run executes one checkout attempt end to end. Every path lands on exactly
// one of COMPLETED or FAILED; the returned result carries the terminal stage
// alongside any error.
func (s *CheckoutSaga) Run(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	monitoring.CheckoutAttemptsTotal.Inc()

	mode := checkout.ModeGuest
	if s.sess.IsAuthenticated() {
		mode = checkout.ModeAuthenticated
	}

	buyer, err := s.resolveBuyer(req, mode)
	if err != nil {
		monitoring.CheckoutFailureTotal.WithLabelValues(checkout.StageInit.String()).Inc()
		return &CheckoutResult{Stage: checkout.StageFailed}, err
	}

	sess := checkout.NewSession(mode, buyer, req.PaymentMethod, s.clk.Now())
	result := &CheckoutResult{SessionID: sess.ID, Stage: sess.Stage}
	log := s.log.WithField("checkout_session", sess.ID)

	if err := s.validate(req, buyer); err != nil {
		sess.Fail(err.Error())
		result.Stage = sess.Stage
		monitoring.CheckoutFailureTotal.WithLabelValues(checkout.StageInit.String()).Inc()
		return result, err
	}

	// ORDER_CREATING
	if err := sess.Advance(checkout.StageOrderCreating); err != nil {
		return result, err
	}

	cartID, err := s.sess.CartID(ctx)
	if err != nil {
		log.Warn("Failed to load cart id, creating order without one", "error", err)
	}

	orderID, err := s.orders.CreateOrder(ctx, ports.CreateOrderRequest{
		CartID:        cartID,
		Items:         req.Items,
		BuyerInfo:     buyer,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		log.Error("Order creation failed", "error", err)
		sess.Fail(err.Error())
		result.Stage = sess.Stage
		monitoring.CheckoutFailureTotal.WithLabelValues(checkout.StageOrderCreating.String()).Inc()
		return result, err
	}

	if err := sess.Advance(checkout.StageOrderCreated); err != nil {
		return result, err
	}
	sess.OrderID = orderID
	result.OrderID = orderID
	log.Info("Order created", "order_id", orderID, "mode", string(mode))

	if !req.PaymentMethod.RequiresConfirmation() {
		return s.complete(ctx, sess, result, log)
	}

	// PAYMENT_INITIATING
	if err := sess.Advance(checkout.StagePaymentInitiating); err != nil {
		return result, err
	}

	intent, err := s.payments.CreateIntent(ctx, orderID)
	if err == nil && intent.ClientSecret == "" {
		err = domainErrors.ErrMissingClientSecret
	}
	if err != nil {
		// The order already exists remotely in CREATED status; nothing
		// here cancels it. Known consistency gap, surfaced to operators.
		log.Warn("Payment initiation failed after order creation, order left behind",
			"order_id", orderID,
			"error", err,
		)
		sess.Fail(err.Error())
		result.Stage = sess.Stage
		monitoring.CheckoutFailureTotal.WithLabelValues(checkout.StagePaymentInitiating.String()).Inc()
		return result, err
	}

	// PAYMENT_CONFIRMING
	if err := sess.Advance(checkout.StagePaymentConfirming); err != nil {
		return result, err
	}

	confirm, err := s.processor.ConfirmPayment(ctx, intent.ClientSecret, req.Card, buyer)
	if err == nil && confirm.Status != checkout.IntentStatusSucceeded {
		reason := confirm.Reason
		if reason == "" {
			reason = "payment was not confirmed"
		}
		err = &domainErrors.PaymentError{Reason: reason}
	}
	if err != nil {
		log.Warn("Payment confirmation failed, order status left to remote services",
			"order_id", orderID,
			"error", err,
		)
		sess.Fail(err.Error())
		result.Stage = sess.Stage
		monitoring.CheckoutFailureTotal.WithLabelValues(checkout.StagePaymentConfirming.String()).Inc()
		return result, err
	}

	return s.complete(ctx, sess, result, log)
}

func (s *CheckoutSaga) resolveBuyer(req CheckoutRequest, mode checkout.Mode) (checkout.BuyerInfo, error) {
	buyer := req.BuyerInfo

	if mode == checkout.ModeAuthenticated && buyer == (checkout.BuyerInfo{}) {
		profile, err := s.sess.Profile()
		if err != nil {
			return buyer, err
		}
		buyer.Name = profile.Name
		buyer.Email = profile.Email
		buyer.Address = profile.Address
		buyer.City = profile.City
		buyer.Country = profile.Country
		buyer.PostalCode = profile.PostalCode
	}

	return buyer, nil
}

// validate rejects locally, before any service is contacted.
func (s *CheckoutSaga) validate(req CheckoutRequest, buyer checkout.BuyerInfo) error {
	fields := make(map[string]string)

	if req.PaymentMethod == "" {
		fields["payment_method"] = domainErrors.ErrPaymentMethodRequired.Error()
	}
	if len(req.Items) == 0 {
		fields["items"] = domainErrors.ErrEmptyCart.Error()
	}
	for field, msg := range buyer.Validate() {
		fields[field] = msg
	}

	if len(fields) > 0 {
		return &domainErrors.ValidationError{Fields: fields}
	}
	return nil
}

func (s *CheckoutSaga) complete(ctx context.Context, sess *checkout.Session, result *CheckoutResult, log *logger.Logger) (*CheckoutResult, error) {
	if err := sess.Advance(checkout.StageCompleted); err != nil {
		return result, err
	}
	result.Stage = sess.Stage

	if err := s.store.Delete(ctx, ports.KeyGuestInfo, ports.KeyCartID); err != nil &&
		!errors.Is(err, domainErrors.ErrKeyNotFound) {
		log.Warn("Failed to clear transient checkout state", "error", err)
	}

	monitoring.CheckoutSuccessTotal.Inc()
	log.Info("Checkout completed", "order_id", sess.OrderID)

	return result, nil
}
