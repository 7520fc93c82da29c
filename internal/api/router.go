package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dibyajyoti630/RedZone/internal/api/handlers/http/contacts"
	"github.com/Dibyajyoti630/RedZone/internal/api/handlers/http/proximity"
	"github.com/Dibyajyoti630/RedZone/internal/api/handlers/http/system"
	"github.com/Dibyajyoti630/RedZone/internal/api/handlers/http/zones"
	"github.com/Dibyajyoti630/RedZone/internal/config"
	"github.com/Dibyajyoti630/RedZone/internal/middleware"
	"github.com/Dibyajyoti630/RedZone/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service) *Server {
	zoneHandler := zones.NewHandler(logger, svc.ZoneService, svc.ModerationService)
	contactHandler := contacts.NewHandler(logger, svc.ContactService)
	proximityHandler := proximity.NewHandler(logger, svc.ProximityService)
	systemHandler := system.NewHandler(logger, !cfg.SMSEnabled())

	r := InitRouter(cfg, zoneHandler, contactHandler, proximityHandler, systemHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(
	cfg *config.Config,
	zoneHandler *zones.Handler,
	contactHandler *contacts.Handler,
	proximityHandler *proximity.Handler,
	systemHandler *system.Handler,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	auth := middleware.Auth(cfg.Auth.JWTSecret, logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/zones", func(zr chi.Router) {
			// reads are open; the mobile map renders without a login
			zr.Get("/recent", zoneHandler.ZoneRecent)
			zr.Get("/{id}", zoneHandler.ZoneGet)

			zr.Group(func(ar chi.Router) {
				ar.Use(auth)
				ar.Post("/", zoneHandler.ZoneCreate)
				ar.Get("/", zoneHandler.ZoneList)
				ar.Put("/{id}/approve", zoneHandler.ZoneApprove)
				ar.Put("/{id}/reject", zoneHandler.ZoneReject)
				ar.Put("/{id}/safe-now", zoneHandler.ZoneSafeNow)
			})
		})

		api.Route("/contacts", func(cr chi.Router) {
			cr.Use(auth)
			cr.Post("/notify", contactHandler.ContactNotify)
			cr.Get("/me", contactHandler.ContactMe)
			cr.Delete("/me", contactHandler.ContactDeleteMe)
			cr.Put("/me/request-removal", contactHandler.ContactRequestRemoval)
			cr.Get("/", contactHandler.ContactList)
			cr.Delete("/{id}", contactHandler.ContactDelete)
		})

		api.Route("/proximity", func(pr chi.Router) {
			pr.Use(middleware.Limit(10, 20, 5*time.Minute, logger))
			pr.Post("/check", proximityHandler.ProximityCheck)
		})

		api.Get("/health", systemHandler.SystemHealth)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
