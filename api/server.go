package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"itsm-desk/api/routegroups"
	"itsm-desk/config"
	"itsm-desk/core/assets"
	"itsm-desk/core/assistant"
	"itsm-desk/core/audits"
	"itsm-desk/core/catalog"
	"itsm-desk/core/dashboard"
	"itsm-desk/core/incidents"
	"itsm-desk/core/nonconformities"
	"itsm-desk/core/problems"
	"itsm-desk/core/rbac"
	"itsm-desk/core/reports"
	"itsm-desk/core/risks"
	"itsm-desk/core/sla"
	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

type ServerDeps struct {
	Services        *catalog.Catalog
	SLAs            *sla.Manager
	Incidents       *incidents.Incidents
	Requests        *incidents.Requests
	Audits          *audits.Manager
	NonConformities *nonconformities.Manager
	Risks           *risks.Register
	Assets          *assets.Inventory
	Problems        *problems.Manager
	Dashboard       *dashboard.Service
	Reports         *reports.Generator
	Assistant       *assistant.Service
	Activity        store.ActivityStore
}

// BackgroundWorker runs alongside the HTTP server and stops with it.
type BackgroundWorker interface {
	StartWithContext(ctx context.Context)
	StopWithContext(ctx context.Context) error
}

type Server struct {
	cfg              *config.AppConfig
	router           chi.Router
	policy           *rbac.Policy
	logger           *utils.Logger
	deps             ServerDeps
	assistantLimiter *requestLimiter
}

func NewServer(cfg *config.AppConfig, policy *rbac.Policy, deps ServerDeps, logger *utils.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		policy: policy,
		logger: logger,
		deps:   deps,
	}
	if cfg != nil && cfg.Security.AssistantRatePerMin > 0 {
		s.assistantLimiter = newLimiter(cfg.Security.AssistantRatePerMin, time.Minute)
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Use(s.recoverMiddleware)
	s.router.Use(s.securityHeadersMiddleware)
	s.router.Use(s.actorMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.payloadLimitMiddleware)

	s.router.MethodFunc("GET", "/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h := s.newRouteHandlers()
	g := routegroups.Guards{
		RequirePermission: func(p string) func(http.HandlerFunc) http.HandlerFunc { return s.requirePermission(rbac.Permission(p)) },
	}
	s.router.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Use(s.jsonMiddleware)
		apiRouter.MethodFunc("GET", "/me", s.requirePermission(rbac.PermAppView)(h.me.Me))
		apiRouter.MethodFunc("GET", "/assistant/status", s.requirePermission(rbac.PermAssistantUse)(h.assistant.Status))
		apiRouter.MethodFunc("POST", "/assistant/chat", s.requirePermission(rbac.PermAssistantUse)(s.assistantRateLimit(h.assistant.Chat)))
		routegroups.RegisterRecords(apiRouter, g, h.modules)
		routegroups.RegisterDashboard(apiRouter, g, h.dashboard)
		routegroups.RegisterReports(apiRouter, g, h.reports)
		routegroups.RegisterLogs(apiRouter, g, h.logs)
	})
}

// ListenAndServe serves until ctx is done, then shuts down within the
// configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", s.cfg.ListenAddr)
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
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Printf("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
