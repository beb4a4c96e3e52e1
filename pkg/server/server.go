package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticshandler "github.com/de-tools/booking-atlas/pkg/handlers/analytics"
	authhandler "github.com/de-tools/booking-atlas/pkg/handlers/auth"
	bookinghandler "github.com/de-tools/booking-atlas/pkg/handlers/booking"
	"github.com/de-tools/booking-atlas/pkg/handlers/render"
	"github.com/de-tools/booking-atlas/pkg/models/api"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	atlasmiddleware "github.com/de-tools/booking-atlas/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

// AuthService issues sessions and verifies the tokens it issued.
type AuthService interface {
	authhandler.Authenticator
	atlasmiddleware.TokenVerifier
}

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Auth      AuthService
	Bookings  bookinghandler.Service
	Analytics analyticshandler.Service
	Logger    zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

// ConfigureRouter mounts every API route on a fresh chi router.
func ConfigureRouter(config Config) http.Handler {
	deps := config.Dependencies
	authHandler := authhandler.NewHandler(deps.Auth)
	bookingHandler := bookinghandler.NewHandler(deps.Bookings)
	analyticsHandler := analyticshandler.NewHandler(deps.Analytics)

	authenticate := atlasmiddleware.Authenticate(deps.Auth)
	staff := atlasmiddleware.RequireRole(domain.RoleAdmin, domain.RoleSalesPerson)
	adminOnly := atlasmiddleware.RequireRole(domain.RoleAdmin)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(atlasmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, http.StatusOK, api.MessageResponse{Message: "ok"})
	})

	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/demo-login", authHandler.DemoLogin)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/verify", authHandler.Verify)
			r.Post("/logout", authHandler.Logout)
		})
	})

	router.Route("/api/bookings", func(r chi.Router) {
		r.Use(authenticate, staff)
		r.Get("/", bookingHandler.List)
		r.Post("/", bookingHandler.Create)
		r.Get("/search", bookingHandler.Search)
		r.Get("/stats", bookingHandler.Stats)
		r.Get("/{id}", bookingHandler.Get)
		r.Put("/{id}", bookingHandler.Update)
		r.Delete("/{id}", bookingHandler.Delete)
		r.With(adminOnly).Delete("/{id}/hard-delete", bookingHandler.HardDelete)
	})

	router.Route("/api/analytics", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/dashboard", analyticsHandler.Dashboard)
		r.Get("/kpis", analyticsHandler.KPIs)
		r.Get("/trends", analyticsHandler.Trends)
		r.Get("/projects", analyticsHandler.Projects)
		r.Get("/property-types", analyticsHandler.PropertyTypes)
		r.Get("/charts/{kind}", analyticsHandler.Chart)
		r.Get("/export", analyticsHandler.Export)
	})

	return router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
