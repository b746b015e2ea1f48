package handlers

import (
	"net/http"

	"github.com/yuzvak/storefront-client/internal/application/use_cases"
	"github.com/yuzvak/storefront-client/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

type WishlistHandler struct {
	cache   *use_cases.SetCache
	toggler *use_cases.Toggler
	log     *logger.Logger
}

func NewWishlistHandler(cache *use_cases.SetCache, toggler *use_cases.Toggler, log *logger.Logger) *WishlistHandler {
	return &WishlistHandler{
		cache:   cache,
		toggler: toggler,
		log:     log,
	}
}

type wishlistResponse struct {
	ProductIDs []string `json:"product_ids"`
}

func (h *WishlistHandler) HandleGetWishlist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	force := r.URL.Query().Get("force") == "true"

	ids, err := h.cache.Fetch(r.Context(), force)
	if err != nil {
		h.log.Error("Wishlist fetch failed", "error", err, "force", force)
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, wishlistResponse{ProductIDs: ids})
}

type toggleResult struct {
	ProductID string `json:"product_id"`
	InSet     bool   `json:"in_wishlist"`
}

func (h *WishlistHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	productID := r.URL.Query().Get("product_id")
	if productID == "" {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"product_id": "product_id is required",
		})
		return
	}

	if _, err := h.toggler.Toggle(r.Context(), productID); err != nil {
		h.log.Warn("Wishlist toggle rejected", "product_id", productID, "error", err)
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, toggleResult{
		ProductID: productID,
		InSet:     h.cache.Contains(productID),
	})
}
