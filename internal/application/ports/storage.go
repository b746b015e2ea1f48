package ports

import (
	"context"
)

// Keys used in durable storage. Nothing else is persisted.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyCartID       = "cart_id"
	KeyGuestInfo    = "guest_info"
)

// KeyValueStore is the durable session storage: bearer credential, cart
// identifier, and transient guest checkout info. Get returns
// errors.ErrKeyNotFound for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
