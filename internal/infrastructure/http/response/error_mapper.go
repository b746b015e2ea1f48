package response

import (
	"errors"
	"net/http"

	domainErrors "github.com/yuzvak/storefront-client/internal/domain/errors"
)

// WriteDomainError translates taxonomy errors to HTTP. Validation failures
// keep their field map so forms can render per-field messages.
func WriteDomainError(w http.ResponseWriter, err error) {
	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		WriteValidationError(w, "Validation failed", validationErr.Fields)
		return
	}

	var authErr *domainErrors.AuthError
	if errors.As(err, &authErr) {
		WriteJSON(w, http.StatusUnauthorized, Error(StatusUnauthorized, "Authentication required", authErr.Error()))
		return
	}
	if errors.Is(err, domainErrors.ErrNotAuthenticated) {
		WriteJSON(w, http.StatusUnauthorized, Error(StatusUnauthorized, "Authentication required", err.Error()))
		return
	}

	var paymentErr *domainErrors.PaymentError
	if errors.As(err, &paymentErr) {
		WriteJSON(w, http.StatusPaymentRequired, Error(StatusPaymentFailed, "Payment failed", paymentErr.Reason))
		return
	}

	var networkErr *domainErrors.NetworkError
	if errors.As(err, &networkErr) {
		WriteJSON(w, http.StatusBadGateway, Error(StatusUpstreamError, "Upstream service unavailable", networkErr.Error()))
		return
	}

	WriteJSON(w, http.StatusInternalServerError, Error(StatusInternalError, "Internal server error", err.Error()))
}
