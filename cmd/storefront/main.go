package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	"github.com/yuzvak/storefront-client/internal/application/session"
	"github.com/yuzvak/storefront-client/internal/application/use_cases"
	"github.com/yuzvak/storefront-client/internal/config"
	"github.com/yuzvak/storefront-client/internal/infrastructure/api"
	"github.com/yuzvak/storefront-client/internal/infrastructure/http/server"
	"github.com/yuzvak/storefront-client/internal/infrastructure/storage"
	"github.com/yuzvak/storefront-client/internal/pkg/clock"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	log := logger.NewLogger()
	log.Info("Starting Storefront Client")

	cfg, configErr := config.LoadConfig(*configPath)
	if configErr != nil {
		log.Fatal("Failed to load configuration", "error", configErr)
	}

	clk := clock.NewRealClock()

	var store ports.KeyValueStore
	var redisClient *redis.Client
	if cfg.Storage.Backend == "redis" {
		conn, err := storage.NewConnection(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		defer conn.Close()
		redisClient = conn.GetClient()
		store = storage.NewRedisStore(conn, "default")
	} else {
		store = storage.NewMemoryStore()
	}

	// The auth client needs the session's token for profile lookups, and
	// the session needs the auth client; the closure breaks the knot.
	var sess *session.Context
	authClient := api.NewAuthClient(cfg.Backends.AuthURL, func(ctx context.Context) (string, error) {
		if sess == nil {
			return "", nil
		}
		return sess.Token(ctx)
	}, log)
	sess = session.NewContext(context.Background(), authClient, store, clk, log)
	sess.OnLogout(func() {
		log.Info("Session ended, client should navigate to the auth surface")
	})

	wishlistClient := api.NewWishlistClient(cfg.Backends.StoreURL, sess, log)
	cache := use_cases.NewSetCache(wishlistClient, clk, log, cfg.Cache.TTL())
	sess.RegisterInvalidator(cache)
	toggler := use_cases.NewToggler(cache, wishlistClient, log)

	orderClient := api.NewOrderClient(cfg.Backends.StoreURL, sess, log)
	paymentClient := api.NewPaymentClient(cfg.Backends.PaymentURL, sess, log)
	processorClient := api.NewProcessorClient(cfg.Processor.URL, cfg.Processor.PublicKey, log)
	saga := use_cases.NewCheckoutSaga(orderClient, paymentClient, processorClient, store, sess, clk, log)

	httpServer := server.NewServer(cfg, sess, cache, toggler, saga, redisClient, log)

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigChan
		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		log.Info("Shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}

		serverStopCtx()
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed", "error", err)
	}

	<-serverCtx.Done()
	log.Info("Server stopped")
}
