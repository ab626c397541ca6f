package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/cache"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/commerce"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/server"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/service"
)

func main() {
	logger := logging.NewLoggerV2("storefront")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", logging.Fields{"error": err.Error()})
	}

	logging.Init(logging.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})

	conn := commerce.Resolve(cfg.Commerce)
	gateway := commerce.NewGateway(conn)

	readiness := map[string]handlers.ReadinessCheck{}
	if cfg.Redis.Enabled {
		responseCache := cache.NewRedisCache(cfg.Redis)
		defer responseCache.Close()

		gateway = commerce.NewCachedGateway(gateway, responseCache)
		readiness["redis"] = responseCache.Ping
	}

	var eventPublisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		eventPublisher = events.NewKafkaPublisher(cfg.Kafka, logging.NewLoggerV2("events"))
	}
	defer eventPublisher.Close()

	h := handlers.NewHandlers(
		service.NewCatalogService(gateway),
		service.NewCartService(gateway),
		service.NewCouponService(gateway),
		service.NewOrderService(gateway, eventPublisher),
		service.NewPaymentService(gateway, eventPublisher),
		newSessionStore(cfg.Session, logger),
		conn.Mode(),
		cfg,
	)
	for name, check := range readiness {
		h.AddReadinessCheck(name, check)
	}

	srv := server.New(h, cfg)

	go func() {
		logger.Info("Server starting", logging.Fields{
			"port":          cfg.Server.Port,
			"commerce_mode": conn.Mode(),
			"redis_enabled": cfg.Redis.Enabled,
			"kafka_enabled": cfg.Kafka.Enabled,
		})
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", logging.Fields{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
	}

	logger.Info("Server exited")
}

// newSessionStore signs the session cart cookie. Without a configured key
// every restart invalidates existing session carts.
func newSessionStore(cfg config.SessionConfig, logger *logging.LoggerV2) sessions.Store {
	key := []byte(cfg.Key)
	if len(key) == 0 {
		logger.Warn("No session key configured, using a random key")
		key = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
