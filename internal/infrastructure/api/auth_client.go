package api

import (
	"context"
	"net/http"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

// AuthClient never goes through a token source: login and refresh must not
// trigger the 401 teardown they themselves implement. Profile takes the
// bearer token explicitly via bearer.
type AuthClient struct {
	client *Client
	bearer bearerFunc
}

// bearerFunc supplies the current access token for the profile call.
type bearerFunc func(ctx context.Context) (string, error)

func NewAuthClient(baseURL string, bearer bearerFunc, log *logger.Logger) *AuthClient {
	return &AuthClient{
		client: NewClient(baseURL, nil, log),
		bearer: bearer,
	}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (c *AuthClient) Login(ctx context.Context, email, password string) (ports.TokenPair, error) {
	var resp tokenResponse
	err := c.client.do(ctx, http.MethodPost, "/auth/jwt/create/", loginPayload{Email: email, Password: password}, &resp)
	if err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{AccessToken: resp.Access, RefreshToken: resp.Refresh}, nil
}

type refreshPayload struct {
	Refresh string `json:"refresh"`
}

func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var resp tokenResponse
	err := c.client.do(ctx, http.MethodPost, "/auth/jwt/refresh/", refreshPayload{Refresh: refreshToken}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Access, nil
}

func (c *AuthClient) Profile(ctx context.Context) (ports.Profile, error) {
	var token string
	if c.bearer != nil {
		token, _ = c.bearer(ctx)
	}

	var profile ports.Profile
	if err := c.client.doWithToken(ctx, http.MethodGet, "/auth/users/me/", token, nil, &profile); err != nil {
		return ports.Profile{}, err
	}
	return profile, nil
}

type signupPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *AuthClient) Signup(ctx context.Context, req ports.SignupRequest) error {
	return c.client.do(ctx, http.MethodPost, "/auth/signup/", signupPayload{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}, nil)
}

type verifyOTPPayload struct {
	Email   string `json:"email"`
	OTPCode string `json:"otp_code"`
}

type verifyOTPResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    ports.Profile `json:"user"`
}

func (c *AuthClient) VerifyOTP(ctx context.Context, email, code string) (ports.TokenPair, ports.Profile, error) {
	var resp verifyOTPResponse
	err := c.client.do(ctx, http.MethodPost, "/auth/verify-otp/", verifyOTPPayload{Email: email, OTPCode: code}, &resp)
	if err != nil {
		return ports.TokenPair{}, ports.Profile{}, err
	}
	return ports.TokenPair{AccessToken: resp.Access, RefreshToken: resp.Refresh}, resp.User, nil
}

type resendOTPPayload struct {
	Email string `json:"email"`
}

func (c *AuthClient) ResendOTP(ctx context.Context, email string) error {
	return c.client.do(ctx, http.MethodPost, "/auth/resend-otp/", resendOTPPayload{Email: email}, nil)
}
