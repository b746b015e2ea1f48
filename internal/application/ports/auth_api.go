package ports

import (
	"context"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

type SignupRequest struct {
	Username string
	Email    string
	Password string
}

// AuthAPI is the remote authentication service.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Profile(ctx context.Context) (Profile, error)

	Signup(ctx context.Context, req SignupRequest) error
	VerifyOTP(ctx context.Context, email, code string) (TokenPair, Profile, error)
	ResendOTP(ctx context.Context, email string) error
}
