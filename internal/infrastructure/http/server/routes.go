package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yuzvak/storefront-client/internal/infrastructure/http/middleware"
	"github.com/yuzvak/storefront-client/internal/infrastructure/monitoring"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", s.healthHandler.HandleHealth)

	mux.HandleFunc("/wishlist", s.wishlistHandler.HandleGetWishlist)
	mux.HandleFunc("/wishlist/toggle", s.wishlistHandler.HandleToggle)
	mux.HandleFunc("/checkout", s.checkoutHandler.HandleCheckout)

	mux.HandleFunc("/auth/login", s.authHandler.HandleLogin)
	mux.HandleFunc("/auth/logout", s.authHandler.HandleLogout)
	mux.HandleFunc("/auth/signup", s.authHandler.HandleSignup)
	mux.HandleFunc("/auth/verify-otp", s.authHandler.HandleVerifyOTP)
	mux.HandleFunc("/auth/resend-otp", s.authHandler.HandleResendOTP)

	handler := middleware.NewRecoveryMiddleware(s.logger)(mux)
	handler = middleware.NewLoggingMiddleware(s.logger)(handler)
	handler = monitoring.WrapHandler(handler)
	handler = s.corsMiddleware(handler)
	handler = s.timeoutMiddleware(handler)

	return handler
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "300")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, 90*time.Second, "Request timeout")
}
