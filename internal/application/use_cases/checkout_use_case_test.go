package use_cases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	"github.com/yuzvak/storefront-client/internal/application/session"
	"github.com/yuzvak/storefront-client/internal/domain/checkout"
	domainErrors "github.com/yuzvak/storefront-client/internal/domain/errors"
	"github.com/yuzvak/storefront-client/internal/infrastructure/storage"
	"github.com/yuzvak/storefront-client/internal/pkg/clock"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

// callRecorder tracks the order remote operations were invoked in.
type callRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *callRecorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *callRecorder) sequence() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type mockOrderAPI struct {
	rec     *callRecorder
	orderID string
	err     error
}

func (m *mockOrderAPI) CreateOrder(ctx context.Context, req ports.CreateOrderRequest) (string, error) {
	m.rec.record("create_order")
	if m.err != nil {
		return "", m.err
	}
	return m.orderID, nil
}

type mockPaymentAPI struct {
	rec    *callRecorder
	secret string
	err    error
}

func (m *mockPaymentAPI) CreateIntent(ctx context.Context, orderID string) (checkout.PaymentIntent, error) {
	m.rec.record("create_intent")
	if m.err != nil {
		return checkout.PaymentIntent{}, m.err
	}
	return checkout.PaymentIntent{
		ClientSecret: m.secret,
		Status:       checkout.IntentStatusRequiresConfirmation,
	}, nil
}

type mockProcessor struct {
	rec    *callRecorder
	result ports.ConfirmResult
	err    error
}

func (m *mockProcessor) ConfirmPayment(ctx context.Context, clientSecret string, card checkout.Card, billing checkout.BuyerInfo) (ports.ConfirmResult, error) {
	m.rec.record("confirm_payment")
	if m.err != nil {
		return ports.ConfirmResult{}, m.err
	}
	return m.result, nil
}

type stubAuthAPI struct {
	profile ports.Profile
}

func (s *stubAuthAPI) Login(ctx context.Context, email, password string) (ports.TokenPair, error) {
	return ports.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *stubAuthAPI) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return "access2", nil
}

func (s *stubAuthAPI) Profile(ctx context.Context) (ports.Profile, error) {
	return s.profile, nil
}

func (s *stubAuthAPI) Signup(ctx context.Context, req ports.SignupRequest) error {
	return nil
}

func (s *stubAuthAPI) VerifyOTP(ctx context.Context, email, code string) (ports.TokenPair, ports.Profile, error) {
	return ports.TokenPair{}, ports.Profile{}, nil
}

func (s *stubAuthAPI) ResendOTP(ctx context.Context, email string) error {
	return nil
}

type sagaFixture struct {
	saga      *CheckoutSaga
	orders    *mockOrderAPI
	payments  *mockPaymentAPI
	processor *mockProcessor
	store     *storage.MemoryStore
	sess      *session.Context
	rec       *callRecorder
}

func newSagaFixture(t *testing.T) *sagaFixture {
	t.Helper()

	rec := &callRecorder{}
	orders := &mockOrderAPI{rec: rec, orderID: "42"}
	payments := &mockPaymentAPI{rec: rec, secret: "cs_test"}
	processor := &mockProcessor{rec: rec, result: ports.ConfirmResult{Status: checkout.IntentStatusSucceeded}}
	store := storage.NewMemoryStore()
	log := logger.NewLogger()
	clk := clock.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	sess := session.NewContext(context.Background(), &stubAuthAPI{}, store, clk, log)

	return &sagaFixture{
		saga:      NewCheckoutSaga(orders, payments, processor, store, sess, clk, log),
		orders:    orders,
		payments:  payments,
		processor: processor,
		store:     store,
		sess:      sess,
		rec:       rec,
	}
}

func guestRequest(method checkout.PaymentMethod) CheckoutRequest {
	return CheckoutRequest{
		Items: []checkout.OrderItem{
			{ProductID: "p1", Quantity: 1, UnitPrice: 19.99},
		},
		BuyerInfo: checkout.BuyerInfo{
			Name:       "Ada",
			Email:      "ada@example.com",
			Address:    "1 Main St",
			City:       "London",
			Country:    "GB",
			PostalCode: "N1",
		},
		PaymentMethod: method,
		Card:          checkout.Card{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "123"},
	}
}

func TestRun_MissingPaymentMethodRejectsLocally(t *testing.T) {
	f := newSagaFixture(t)

	req := guestRequest("")
	result, err := f.saga.Run(context.Background(), req)

	var validationErr *domainErrors.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := validationErr.Fields["payment_method"]; !ok {
		t.Errorf("expected payment_method field error, got %v", validationErr.Fields)
	}
	if result.Stage != checkout.StageFailed {
		t.Errorf("expected FAILED, got %s", result.Stage)
	}
	if len(f.rec.sequence()) != 0 {
		t.Errorf("local rejection must not contact any service, calls=%v", f.rec.sequence())
	}
}

func TestRun_GuestMissingBuyerInfoRejectsLocally(t *testing.T) {
	f := newSagaFixture(t)

	req := guestRequest(checkout.PaymentMethodCOD)
	req.BuyerInfo = checkout.BuyerInfo{}
	_, err := f.saga.Run(context.Background(), req)

	var validationErr *domainErrors.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(f.rec.sequence()) != 0 {
		t.Errorf("expected no service calls, got %v", f.rec.sequence())
	}
}

func TestRun_CODSkipsPaymentEntirely(t *testing.T) {
	f := newSagaFixture(t)
	f.store.Set(context.Background(), ports.KeyGuestInfo, `{"name":"Ada"}`)

	result, err := f.saga.Run(context.Background(), guestRequest(checkout.PaymentMethodCOD))
	if err != nil {
		t.Fatal(err)
	}

	if result.Stage != checkout.StageCompleted {
		t.Errorf("expected COMPLETED, got %s", result.Stage)
	}
	if result.OrderID != "42" {
		t.Errorf("expected order id 42, got %q", result.OrderID)
	}

	seq := f.rec.sequence()
	if len(seq) != 1 || seq[0] != "create_order" {
		t.Errorf("COD must only create the order, calls=%v", seq)
	}

	if _, err := f.store.Get(context.Background(), ports.KeyGuestInfo); !errors.Is(err, domainErrors.ErrKeyNotFound) {
		t.Error("completion must clear transient guest info")
	}
	if _, err := f.store.Get(context.Background(), ports.KeyCartID); !errors.Is(err, domainErrors.ErrKeyNotFound) {
		t.Error("completion must clear the cart id")
	}
}

func TestRun_CardPaymentFullPath(t *testing.T) {
	f := newSagaFixture(t)

	result, err := f.saga.Run(context.Background(), guestRequest(checkout.PaymentMethodCard))
	if err != nil {
		t.Fatal(err)
	}

	if result.Stage != checkout.StageCompleted {
		t.Errorf("expected COMPLETED, got %s", result.Stage)
	}

	want := []string{"create_order", "create_intent", "confirm_payment"}
	seq := f.rec.sequence()
	if len(seq) != len(want) {
		t.Fatalf("expected %v, got %v", want, seq)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("stage order violated: expected %v, got %v", want, seq)
		}
	}
}

func TestRun_OrderCreationFailureStopsSaga(t *testing.T) {
	f := newSagaFixture(t)
	f.orders.err = &domainErrors.NetworkError{Op: "create order", Err: errors.New("connection refused")}

	result, err := f.saga.Run(context.Background(), guestRequest(checkout.PaymentMethodCard))
	if !domainErrors.IsNetwork(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if result.Stage != checkout.StageFailed {
		t.Errorf("expected FAILED, got %s", result.Stage)
	}

	seq := f.rec.sequence()
	if len(seq) != 1 {
		t.Errorf("nothing after order creation may run, calls=%v", seq)
	}
}

func TestRun_IntentFailureLeavesOrderBehind(t *testing.T) {
	f := newSagaFixture(t)
	f.payments.err = &domainErrors.NetworkError{Op: "create intent", Err: errors.New("timeout")}

	result, err := f.saga.Run(context.Background(), guestRequest(checkout.PaymentMethodCard))
	if !domainErrors.IsNetwork(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if result.Stage != checkout.StageFailed {
		t.Errorf("expected FAILED, got %s", result.Stage)
	}
	if result.OrderID != "42" {
		t.Errorf("the created order id must be reported, got %q", result.OrderID)
	}

	for _, call := range f.rec.sequence() {
		if call == "confirm_payment" {
			t.Error("confirmation must never run after a failed intent")
		}
	}
}

func TestRun_EmptyClientSecretFailsSaga(t *testing.T) {
	f := newSagaFixture(t)
	f.payments.secret = ""

	result, err := f.saga.Run(context.Background(), guestRequest(checkout.PaymentMethodCard))
	if !errors.Is(err, domainErrors.ErrMissingClientSecret) {
		t.Fatalf("expected ErrMissingClientSecret, got %v", err)
	}
	if result.Stage != checkout.StageFailed {
		t.Errorf("expected FAILED, got %s", result.Stage)
	}
}

func TestRun_DeclineTerminatesWithPaymentError(t *testing.T) {
	f := newSagaFixture(t)
	f.processor.result = ports.ConfirmResult{
		Status: checkout.IntentStatusFailed,
		Reason: "card declined",
	}

	result, err := f.saga.Run(context.Background(), guestRequest(checkout.PaymentMethodCard))

	var paymentErr *domainErrors.PaymentError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("expected PaymentError, got %v", err)
	}
	if paymentErr.Reason != "card declined" {
		t.Errorf("expected the processor's reason, got %q", paymentErr.Reason)
	}
	if result.Stage != checkout.StageFailed {
		t.Errorf("expected FAILED, got %s", result.Stage)
	}
}

func TestRun_FailureLeavesGuestStateForRestart(t *testing.T) {
	f := newSagaFixture(t)
	f.store.Set(context.Background(), ports.KeyGuestInfo, `{"name":"Ada"}`)
	f.payments.err = &domainErrors.NetworkError{Op: "create intent", Err: errors.New("timeout")}

	if _, err := f.saga.Run(context.Background(), guestRequest(checkout.PaymentMethodCard)); err == nil {
		t.Fatal("expected failure")
	}

	if _, err := f.store.Get(context.Background(), ports.KeyGuestInfo); err != nil {
		t.Error("a failed checkout must keep guest info so the flow can restart")
	}
}

func TestRun_AuthenticatedBuyerFromProfile(t *testing.T) {
	rec := &callRecorder{}
	orders := &mockOrderAPI{rec: rec, orderID: "42"}
	payments := &mockPaymentAPI{rec: rec, secret: "cs_test"}
	processor := &mockProcessor{rec: rec, result: ports.ConfirmResult{Status: checkout.IntentStatusSucceeded}}
	store := storage.NewMemoryStore()
	log := logger.NewLogger()
	clk := clock.NewMockClock(time.Now().UTC())

	auth := &stubAuthAPI{profile: ports.Profile{
		ID:         "u1",
		Name:       "Ada",
		Email:      "ada@example.com",
		Address:    "1 Main St",
		City:       "London",
		Country:    "GB",
		PostalCode: "N1",
	}}
	sess := session.NewContext(context.Background(), auth, store, clk, log)
	if err := sess.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	saga := NewCheckoutSaga(orders, payments, processor, store, sess, clk, log)

	req := guestRequest(checkout.PaymentMethodCOD)
	req.BuyerInfo = checkout.BuyerInfo{}
	result, err := saga.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("profile-backed buyer info should pass validation: %v", err)
	}
	if result.Stage != checkout.StageCompleted {
		t.Errorf("expected COMPLETED, got %s", result.Stage)
	}
}

func TestRun_EveryPathTerminates(t *testing.T) {
	cases := []struct {
		name string
		prep func(*sagaFixture)
	}{
		{"success_card", func(f *sagaFixture) {}},
		{"success_cod", func(f *sagaFixture) {}},
		{"order_fails", func(f *sagaFixture) {
			f.orders.err = errors.New("boom")
		}},
		{"intent_fails", func(f *sagaFixture) {
			f.payments.err = errors.New("boom")
		}},
		{"confirm_errors", func(f *sagaFixture) {
			f.processor.err = &domainErrors.NetworkError{Op: "confirm", Err: errors.New("boom")}
		}},
		{"confirm_declined", func(f *sagaFixture) {
			f.processor.result = ports.ConfirmResult{Status: checkout.IntentStatusFailed, Reason: "declined"}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSagaFixture(t)
			tc.prep(f)

			method := checkout.PaymentMethodCard
			if tc.name == "success_cod" {
				method = checkout.PaymentMethodCOD
			}

			result, _ := f.saga.Run(context.Background(), guestRequest(method))
			if !result.Stage.IsTerminal() {
				t.Errorf("saga left suspended in %s", result.Stage)
			}
		})
	}
}
