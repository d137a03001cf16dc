package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ithesk/axeweb/domain"
	"github.com/ithesk/axeweb/internal/config"
	httpx "github.com/ithesk/axeweb/internal/http"
	"github.com/ithesk/axeweb/internal/http/handlers"
	"github.com/ithesk/axeweb/internal/http/middleware"
	"github.com/ithesk/axeweb/internal/infrastructure/auth"
	"github.com/ithesk/axeweb/internal/infrastructure/clock"
	"github.com/ithesk/axeweb/internal/infrastructure/database"
	"github.com/ithesk/axeweb/internal/infrastructure/notifications"
	"github.com/ithesk/axeweb/internal/infrastructure/repositories"
	"github.com/ithesk/axeweb/internal/services"
)

// Run wires the portal and serves it until interrupted.
func Run(cfg *config.Config, log *zap.Logger) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	clk := clock.New()

	messaging, err := buildMessaging(cfg, log)
	if err != nil {
		return err
	}

	orders, err := buildOrders(cfg, log)
	if err != nil {
		return err
	}

	sessions, err := buildSessions(cfg, clk)
	if err != nil {
		return err
	}

	tokenSvc := auth.NewJWTService(cfg.TokenSecret, cfg.TokenIssuer, cfg.TokenTTL)

	verificationSvc := services.NewVerificationService(messaging, clk, services.VerificationConfig{
		CodeLength:  cfg.CodeLength,
		TTL:         cfg.CodeTTL,
		MaxAttempts: cfg.MaxAttempts,
	}, log)
	defer verificationSvc.Close()

	sessionSvc := services.NewSessionService(orders, sessions, messaging, clk, cfg.SessionTTL, log)

	authH := handlers.NewAuthHandlers(verificationSvc, sessionSvc, tokenSvc)
	portalH := handlers.NewPortalHandlers(sessionSvc, clk, cfg.SignatureWidth, cfg.SignatureHeight)
	authMW := middleware.NewAuthMW(tokenSvc, sessions)

	r := httpx.BuildRouter(authH, portalH, authMW)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildMessaging(cfg *config.Config, log *zap.Logger) (domain.MessagingService, error) {
	switch cfg.MessagingProvider {
	case "twilio":
		return notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, log), nil
	case "gateway":
		return notifications.NewGatewayService(cfg.MessagingBaseURL, log), nil
	}
	return nil, fmt.Errorf("unknown messaging provider %q", cfg.MessagingProvider)
}

func buildOrders(cfg *config.Config, log *zap.Logger) (domain.OrderRepository, error) {
	switch cfg.OrdersSource {
	case "database":
		gdb, err := database.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(gdb); err != nil {
			return nil, err
		}
		return repositories.NewOrderRepository(gdb), nil
	case "gateway":
		return repositories.NewOrderGateway(cfg.OrdersBaseURL, log), nil
	}
	return nil, fmt.Errorf("unknown orders source %q", cfg.OrdersSource)
}

func buildSessions(cfg *config.Config, clk domain.Clock) (domain.SessionRepository, error) {
	switch cfg.SessionStore {
	case "redis":
		rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(context.Background()); err != nil {
			return nil, err
		}
		return repositories.NewRedisSessionRepository(rdb.Client, cfg.SessionTTL, clk), nil
	case "memory":
		return repositories.NewMemorySessionRepository(clk), nil
	}
	return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}
