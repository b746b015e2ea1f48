package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	domainErrors "github.com/yuzvak/storefront-client/internal/domain/errors"
	"github.com/yuzvak/storefront-client/internal/infrastructure/storage"
	"github.com/yuzvak/storefront-client/internal/pkg/clock"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

type mockAuthAPI struct {
	loginErr     error
	refreshErr   error
	profileErr   error
	profileCalls int
	refreshCalls int
	profile      ports.Profile
}

func (m *mockAuthAPI) Login(ctx context.Context, email, password string) (ports.TokenPair, error) {
	if m.loginErr != nil {
		return ports.TokenPair{}, m.loginErr
	}
	return ports.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}, nil
}

func (m *mockAuthAPI) Refresh(ctx context.Context, refreshToken string) (string, error) {
	m.refreshCalls++
	if m.refreshErr != nil {
		return "", m.refreshErr
	}
	return "access-2", nil
}

func (m *mockAuthAPI) Profile(ctx context.Context) (ports.Profile, error) {
	m.profileCalls++
	if m.profileErr != nil {
		return ports.Profile{}, m.profileErr
	}
	return m.profile, nil
}

func (m *mockAuthAPI) Signup(ctx context.Context, req ports.SignupRequest) error {
	return nil
}

func (m *mockAuthAPI) VerifyOTP(ctx context.Context, email, code string) (ports.TokenPair, ports.Profile, error) {
	return ports.TokenPair{AccessToken: "access-otp", RefreshToken: "refresh-otp"}, m.profile, nil
}

func (m *mockAuthAPI) ResendOTP(ctx context.Context, email string) error {
	return nil
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) Invalidate() {
	m.calls++
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestNewContext_EagerProfileResolution(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	store := storage.NewMemoryStore()
	auth := &mockAuthAPI{profile: ports.Profile{ID: "u1", Name: "Ada"}}

	store.Set(context.Background(), ports.KeyAccessToken, signedToken(t, now.Add(time.Hour)))
	store.Set(context.Background(), ports.KeyRefreshToken, "refresh-1")

	sess := NewContext(context.Background(), auth, store, clk, logger.NewLogger())

	if !sess.IsAuthenticated() {
		t.Fatal("expected authenticated session from stored credential")
	}
	if auth.profileCalls != 1 {
		t.Errorf("expected one eager profile fetch, got %d", auth.profileCalls)
	}
	profile, err := sess.Profile()
	if err != nil || profile.Name != "Ada" {
		t.Errorf("expected resolved profile, got %+v, %v", profile, err)
	}
}

func TestNewContext_ExpiredTokenStartsAnonymous(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	store := storage.NewMemoryStore()
	auth := &mockAuthAPI{}

	store.Set(context.Background(), ports.KeyAccessToken, signedToken(t, now.Add(-time.Hour)))

	sess := NewContext(context.Background(), auth, store, clk, logger.NewLogger())

	if sess.IsAuthenticated() {
		t.Error("expired credential must not authenticate the session")
	}
	if auth.profileCalls != 0 {
		t.Error("no profile fetch should happen for an expired credential")
	}
}

func TestNewContext_NoStoredCredential(t *testing.T) {
	sess := NewContext(context.Background(), &mockAuthAPI{}, storage.NewMemoryStore(),
		clock.NewMockClock(time.Now().UTC()), logger.NewLogger())

	if sess.IsAuthenticated() {
		t.Error("expected anonymous session")
	}
	if _, err := sess.Profile(); !errors.Is(err, domainErrors.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestLogin_StoresTokensAndProfile(t *testing.T) {
	store := storage.NewMemoryStore()
	auth := &mockAuthAPI{profile: ports.Profile{ID: "u1", Name: "Ada"}}
	sess := NewContext(context.Background(), auth, store, clock.NewMockClock(time.Now().UTC()), logger.NewLogger())

	if err := sess.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	if !sess.IsAuthenticated() {
		t.Error("expected authenticated session after login")
	}
	if access, _ := store.Get(context.Background(), ports.KeyAccessToken); access != "access-1" {
		t.Errorf("access token not persisted, got %q", access)
	}
	if refresh, _ := store.Get(context.Background(), ports.KeyRefreshToken); refresh != "refresh-1" {
		t.Errorf("refresh token not persisted, got %q", refresh)
	}
}

func TestLogout_TearsDownEverything(t *testing.T) {
	store := storage.NewMemoryStore()
	auth := &mockAuthAPI{}
	sess := NewContext(context.Background(), auth, store, clock.NewMockClock(time.Now().UTC()), logger.NewLogger())

	if err := sess.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	inv := &mockInvalidator{}
	sess.RegisterInvalidator(inv)
	navigated := false
	sess.OnLogout(func() { navigated = true })

	sess.Logout(context.Background())

	if sess.IsAuthenticated() {
		t.Error("expected anonymous session after logout")
	}
	if _, err := store.Get(context.Background(), ports.KeyAccessToken); !errors.Is(err, domainErrors.ErrKeyNotFound) {
		t.Error("access token must be cleared from storage")
	}
	if inv.calls != 1 {
		t.Errorf("registered caches must be invalidated once, got %d", inv.calls)
	}
	if !navigated {
		t.Error("navigation hook must fire")
	}
	if _, err := sess.Profile(); err == nil {
		t.Error("profile must be cleared")
	}
}

func TestHandleAuthError_RefreshSucceeds(t *testing.T) {
	store := storage.NewMemoryStore()
	auth := &mockAuthAPI{}
	sess := NewContext(context.Background(), auth, store, clock.NewMockClock(time.Now().UTC()), logger.NewLogger())

	if err := sess.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	access, err := sess.HandleAuthError(context.Background())
	if err != nil {
		t.Fatalf("expected refresh to succeed, got %v", err)
	}
	if access != "access-2" {
		t.Errorf("expected refreshed token, got %q", access)
	}
	if !sess.IsAuthenticated() {
		t.Error("a successful refresh must keep the session alive")
	}
	if stored, _ := store.Get(context.Background(), ports.KeyAccessToken); stored != "access-2" {
		t.Errorf("refreshed token must be persisted, got %q", stored)
	}
}

func TestHandleAuthError_RefreshFailureLogsOut(t *testing.T) {
	store := storage.NewMemoryStore()
	auth := &mockAuthAPI{refreshErr: &domainErrors.AuthError{Op: "refresh"}}
	sess := NewContext(context.Background(), auth, store, clock.NewMockClock(time.Now().UTC()), logger.NewLogger())

	if err := sess.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	inv := &mockInvalidator{}
	sess.RegisterInvalidator(inv)

	_, err := sess.HandleAuthError(context.Background())
	if !domainErrors.IsAuth(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if sess.IsAuthenticated() {
		t.Error("failed refresh must tear the session down")
	}
	if inv.calls != 1 {
		t.Error("teardown must invalidate registered caches")
	}
}

func TestHandleAuthError_AnonymousSession(t *testing.T) {
	sess := NewContext(context.Background(), &mockAuthAPI{}, storage.NewMemoryStore(),
		clock.NewMockClock(time.Now().UTC()), logger.NewLogger())

	if _, err := sess.HandleAuthError(context.Background()); !domainErrors.IsAuth(err) {
		t.Errorf("expected AuthError without a refresh token, got %v", err)
	}
}

func TestVerifyOTP_EstablishesSession(t *testing.T) {
	store := storage.NewMemoryStore()
	auth := &mockAuthAPI{profile: ports.Profile{ID: "u1", Name: "Ada"}}
	sess := NewContext(context.Background(), auth, store, clock.NewMockClock(time.Now().UTC()), logger.NewLogger())

	if err := sess.VerifyOTP(context.Background(), "ada@example.com", "123456"); err != nil {
		t.Fatal(err)
	}

	if !sess.IsAuthenticated() {
		t.Error("expected authenticated session after OTP verification")
	}
	profile, err := sess.Profile()
	if err != nil || profile.ID != "u1" {
		t.Errorf("expected profile from OTP response, got %+v, %v", profile, err)
	}
}

func TestCartID_MintedOnceAndPersisted(t *testing.T) {
	store := storage.NewMemoryStore()
	sess := NewContext(context.Background(), &mockAuthAPI{}, store,
		clock.NewMockClock(time.Now().UTC()), logger.NewLogger())

	first, err := sess.CartID(context.Background())
	if err != nil || first == "" {
		t.Fatalf("expected a minted cart id, got %q, %v", first, err)
	}

	second, err := sess.CartID(context.Background())
	if err != nil || second != first {
		t.Errorf("cart id must be stable, got %q then %q", first, second)
	}

	if stored, _ := store.Get(context.Background(), ports.KeyCartID); stored != first {
		t.Errorf("cart id must be persisted, got %q", stored)
	}
}
