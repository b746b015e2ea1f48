package session

import (
	"context"
	"errors"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	domainErrors "github.com/yuzvak/storefront-client/internal/domain/errors"
	"github.com/yuzvak/storefront-client/internal/pkg/clock"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

// Invalidator is anything holding per-user cached state that must be dropped
// on logout. The wishlist set cache registers itself here.
type Invalidator interface {
	Invalidate()
}

// Context owns the bearer credential and the resolved user profile. It is
// the single point of session teardown: every downstream 401 funnels into
// HandleAuthError, nothing else touches the stored tokens.
type Context struct {
	auth  ports.AuthAPI
	store ports.KeyValueStore
	clk   clock.Clock
	log   *logger.Logger

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	profile      *ports.Profile

	invalidators []Invalidator
	onLogout     func()
}

func NewContext(ctx context.Context, auth ports.AuthAPI, store ports.KeyValueStore, clk clock.Clock, log *logger.Logger) *Context {
	sc := &Context{
		auth:  auth,
		store: store,
		clk:   clk,
		log:   log,
	}

	access, err := store.Get(ctx, ports.KeyAccessToken)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrKeyNotFound) {
			log.Warn("Failed to read stored credential", "error", err)
		}
		return sc
	}
	refresh, err := store.Get(ctx, ports.KeyRefreshToken)
	if err != nil && !errors.Is(err, domainErrors.ErrKeyNotFound) {
		log.Warn("Failed to read stored refresh token", "error", err)
	}

	sc.accessToken = access
	sc.refreshToken = refresh

	if sc.tokenExpired(access) {
		log.Info("Stored credential expired, starting anonymous")
		sc.accessToken = ""
		return sc
	}

	profile, err := auth.Profile(ctx)
	if err != nil {
		log.Warn("Failed to resolve profile from stored credential", "error", err)
		if domainErrors.IsAuth(err) {
			sc.accessToken = ""
			sc.refreshToken = ""
			_ = store.Delete(ctx, ports.KeyAccessToken, ports.KeyRefreshToken)
		}
		return sc
	}
	sc.profile = &profile

	return sc
}

// tokenExpired inspects the unverified exp claim; signature verification is
// the backend's job. A token that does not parse is treated as expired.
func (c *Context) tokenExpired(token string) bool {
	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(c.clk.Now())
}

// RegisterInvalidator adds per-user cached state to be cleared on logout.
func (c *Context) RegisterInvalidator(inv Invalidator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidators = append(c.invalidators, inv)
}

// OnLogout sets the navigation hook fired after teardown.
func (c *Context) OnLogout(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLogout = fn
}

func (c *Context) Login(ctx context.Context, email, password string) error {
	tokens, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := c.storeTokens(ctx, tokens); err != nil {
		return err
	}

	profile, err := c.auth.Profile(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.profile = &profile
	c.mu.Unlock()

	return nil
}

func (c *Context) Signup(ctx context.Context, req ports.SignupRequest) error {
	return c.auth.Signup(ctx, req)
}

// VerifyOTP completes signup: the backend returns tokens and a resolved
// profile on a correct code.
func (c *Context) VerifyOTP(ctx context.Context, email, code string) error {
	tokens, profile, err := c.auth.VerifyOTP(ctx, email, code)
	if err != nil {
		return err
	}

	if err := c.storeTokens(ctx, tokens); err != nil {
		return err
	}

	c.mu.Lock()
	c.profile = &profile
	c.mu.Unlock()

	return nil
}

func (c *Context) ResendOTP(ctx context.Context, email string) error {
	return c.auth.ResendOTP(ctx, email)
}

func (c *Context) storeTokens(ctx context.Context, tokens ports.TokenPair) error {
	if err := c.store.Set(ctx, ports.KeyAccessToken, tokens.AccessToken); err != nil {
		return err
	}
	if err := c.store.Set(ctx, ports.KeyRefreshToken, tokens.RefreshToken); err != nil {
		return err
	}

	c.mu.Lock()
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	c.mu.Unlock()

	return nil
}

// Logout clears the credential and profile, invalidates registered caches,
// and fires the navigation hook. Safe to call on an anonymous session.
func (c *Context) Logout(ctx context.Context) {
	if err := c.store.Delete(ctx, ports.KeyAccessToken, ports.KeyRefreshToken); err != nil {
		c.log.Warn("Failed to clear stored credential", "error", err)
	}

	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.profile = nil
	invalidators := c.invalidators
	onLogout := c.onLogout
	c.mu.Unlock()

	for _, inv := range invalidators {
		inv.Invalidate()
	}

	c.log.Info("Session terminated")

	if onLogout != nil {
		onLogout()
	}
}

// Token implements ports.TokenSource.
func (c *Context) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken, nil
}

// HandleAuthError implements ports.TokenSource: one refresh attempt, then
// full teardown. Returns the new access token when the refresh succeeds.
func (c *Context) HandleAuthError(ctx context.Context) (string, error) {
	c.mu.RLock()
	refresh := c.refreshToken
	c.mu.RUnlock()

	if refresh == "" {
		c.Logout(ctx)
		return "", &domainErrors.AuthError{Op: "token refresh"}
	}

	access, err := c.auth.Refresh(ctx, refresh)
	if err != nil {
		c.log.Info("Credential refresh failed, tearing down session", "error", err)
		c.Logout(ctx)
		return "", &domainErrors.AuthError{Op: "token refresh"}
	}

	if err := c.store.Set(ctx, ports.KeyAccessToken, access); err != nil {
		c.log.Warn("Failed to persist refreshed credential", "error", err)
	}

	c.mu.Lock()
	c.accessToken = access
	c.mu.Unlock()

	return access, nil
}

func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken != ""
}

func (c *Context) Profile() (ports.Profile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.profile == nil {
		return ports.Profile{}, domainErrors.ErrNotAuthenticated
	}
	return *c.profile, nil
}

// CartID returns the durable cart identifier, minting one on first use.
func (c *Context) CartID(ctx context.Context) (string, error) {
	id, err := c.store.Get(ctx, ports.KeyCartID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, domainErrors.ErrKeyNotFound) {
		return "", err
	}

	id = uuid.NewString()
	if err := c.store.Set(ctx, ports.KeyCartID, id); err != nil {
		return "", err
	}
	return id, nil
}
