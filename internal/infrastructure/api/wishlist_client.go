package api

import (
	"context"
	"net/http"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

type WishlistClient struct {
	client *Client
}

func NewWishlistClient(baseURL string, tokens ports.TokenSource, log *logger.Logger) *WishlistClient {
	return &WishlistClient{
		client: NewClient(baseURL, tokens, log),
	}
}

type wishlistProduct struct {
	ID string `json:"id"`
}

func (c *WishlistClient) FetchSet(ctx context.Context) ([]string, error) {
	var products []wishlistProduct
	if err := c.client.do(ctx, http.MethodGet, "/wishlist/", nil, &products); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

type toggleResponse struct {
	Status string `json:"status"`
}

func (c *WishlistClient) Toggle(ctx context.Context, productID string) (ports.ToggleStatus, error) {
	var resp toggleResponse
	if err := c.client.do(ctx, http.MethodPost, "/like-product/"+productID+"/", nil, &resp); err != nil {
		return "", err
	}

	if resp.Status == "liked" {
		return ports.ToggleStatusAdded, nil
	}
	return ports.ToggleStatusRemoved, nil
}
