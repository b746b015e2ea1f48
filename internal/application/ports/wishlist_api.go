package ports

import (
	"context"
)

type ToggleStatus string

const (
	ToggleStatusAdded   ToggleStatus = "added"
	ToggleStatusRemoved ToggleStatus = "removed"
)

// WishlistAPI is the remote owner of the membership set.
type WishlistAPI interface {
	// FetchSet returns every product id currently in the user's wishlist,
	// empty slice on none.
	FetchSet(ctx context.Context) ([]string, error)

	// Toggle flips membership for one product and returns the state the
	// server actually landed on.
	Toggle(ctx context.Context, productID string) (ToggleStatus, error)
}
