package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bookoro/api"
	"bookoro/config"
	"bookoro/internal/repository"
	"bookoro/internal/service/auth"
	"bookoro/internal/service/booking"
	"bookoro/internal/service/flights"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Tokens   *auth.TokenManager
	Users    repository.UserRepository
	Auth     auth.AuthUseCase
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Logger   *zap.Logger
}

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(deps.Logger))

	authRequired := api.RequireAuth(deps.Tokens)
	adminRequired := api.RequireAdmin(deps.Users)

	api.NewAuthHandler(deps.Auth).Register(router.Group("/auth"), authRequired)
	api.NewFlightHandler(deps.Flights).Register(router.Group("/flights"), authRequired, adminRequired)

	bookingsGroup := router.Group("/bookings")
	bookingsGroup.Use(authRequired)
	api.NewBookingHandler(deps.Bookings).Register(bookingsGroup)

	return router
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, deps Deps) error {
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(deps),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
