package routegroups

import (
	"github.com/go-chi/chi/v5"
	"itsm-desk/api/handlers"
)

func RegisterDashboard(apiRouter chi.Router, g Guards, dashboard *handlers.DashboardHandler) {
	apiRouter.Route("/dashboard", func(r chi.Router) {
		r.MethodFunc("GET", "/kpis", g.ActorPerm("dashboard.view", dashboard.KPIs))
		r.MethodFunc("GET", "/alerts", g.ActorPerm("dashboard.view", dashboard.Alerts))
		r.MethodFunc("POST", "/alerts/{id}/dismiss", g.ActorPerm("dashboard.manage", dashboard.Dismiss))
		r.MethodFunc("GET", "/charts", g.ActorPerm("dashboard.view", dashboard.Charts))
	})
}

func RegisterReports(apiRouter chi.Router, g Guards, reports *handlers.ReportsHandler) {
	apiRouter.Route("/reports", func(r chi.Router) {
		r.MethodFunc("GET", "/metrics", g.ActorPerm("reports.view", reports.Metrics))
		r.MethodFunc("POST", "/generate", g.ActorPerm("reports.export", reports.Generate))
	})
}

func RegisterLogs(apiRouter chi.Router, g Guards, logs *handlers.LogsHandler) {
	apiRouter.Route("/logs", func(logsRouter chi.Router) {
		logsRouter.MethodFunc("GET", "/", g.ActorPerm("logs.view", logs.List))
		logsRouter.MethodFunc("GET", "/export", g.ActorPerm("logs.view", logs.Export))
	})
}
