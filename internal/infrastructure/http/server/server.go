package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yuzvak/storefront-client/internal/application/session"
	"github.com/yuzvak/storefront-client/internal/application/use_cases"
	"github.com/yuzvak/storefront-client/internal/config"
	"github.com/yuzvak/storefront-client/internal/infrastructure/http/handlers"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

type Server struct {
	server          *http.Server
	logger          *logger.Logger
	healthHandler   *handlers.HealthHandler
	wishlistHandler *handlers.WishlistHandler
	checkoutHandler *handlers.CheckoutHandler
	authHandler     *handlers.AuthHandler
}

func NewServer(
	cfg *config.Config,
	sess *session.Context,
	cache *use_cases.SetCache,
	toggler *use_cases.Toggler,
	saga *use_cases.CheckoutSaga,
	redisClient *redis.Client,
	log *logger.Logger,
) *Server {
	wishlistHandler := handlers.NewWishlistHandler(cache, toggler, log)
	checkoutHandler := handlers.NewCheckoutHandler(saga, log)
	authHandler := handlers.NewAuthHandler(sess, log)
	healthHandler := handlers.NewHealthHandler(redisClient, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server:          server,
		logger:          log,
		healthHandler:   healthHandler,
		wishlistHandler: wishlistHandler,
		checkoutHandler: checkoutHandler,
		authHandler:     authHandler,
	}
}

func (s *Server) ListenAndServe() error {
	s.server.Handler = s.setupRoutes()

	s.logger.Info("Starting HTTP server", "address", s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
