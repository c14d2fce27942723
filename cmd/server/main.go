package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/category"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/identity"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/session"
	"storefront-be/internal/transport"
	"storefront-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Swapped in tests.
var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		return user.ErrMissingSecret
	}

	database := initDBFunc(cfg)
	defer database.Close()

	rdb := session.NewRedisClient(cfg)
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := newServer(ctx, cfg, database, rdb)

	logger.L().Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
	return startServerFunc(ctx, ":"+cfg.AppPort, handler)
}

// newServer wires repositories, services and middleware into one handler.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB, rdb *redis.Client) http.Handler {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	secure := cfg.AppEnv == "production"

	categorySvc := category.NewService(category.NewRepository(database))
	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo, categorySvc)
	cartSvc := cart.NewService(cart.NewRepository(database), productRepo, m)
	orderSvc := order.NewService(order.NewRepository(database), cartSvc, m)
	userSvc := user.NewService(user.NewRepository(database), cfg.JWTSecret)

	sessions := session.NewStore(rdb, cfg.SessionTTL)
	owners := identity.NewResolver(sessions, cfg.SessionCookie, cfg.SessionTTL, secure)

	h := &transport.Handler{
		Users:         userSvc,
		Categories:    categorySvc,
		Products:      productSvc,
		Carts:         cartSvc,
		Orders:        orderSvc,
		Owners:        owners,
		Metrics:       m,
		SecureCookies: secure,
	}
	router := transport.NewRouter(h, transport.RouterConfig{CORSOrigins: cfg.CORSOrigins})

	limiter := middleware.NewRateLimiter(ctx)

	// Outermost first: request id, access log, auth, rate limit.
	var handler http.Handler = router
	handler = limiter.Middleware(handler)
	handler = middleware.AuthMiddleware(cfg.JWTSecret, secure)(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)
	return handler
}

func startServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
