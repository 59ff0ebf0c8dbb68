package api

import (
	"itsm-desk/api/handlers"
	"itsm-desk/api/routegroups"
)

type routeHandlers struct {
	me        *handlers.MeHandler
	modules   routegroups.ModuleHandlers
	dashboard *handlers.DashboardHandler
	reports   *handlers.ReportsHandler
	assistant *handlers.AssistantHandler
	logs      *handlers.LogsHandler
}

func (s *Server) newRouteHandlers() routeHandlers {
	d := s.deps
	return routeHandlers{
		me: handlers.NewMeHandler(s.policy, s.enforceRoles()),
		modules: routegroups.ModuleHandlers{
			Services:        handlers.NewServicesHandler(d.Services, s.logger),
			SLAs:            handlers.NewSLAsHandler(d.SLAs, s.logger),
			Incidents:       handlers.NewIncidentsHandler(d.Incidents, d.Assistant, s.logger),
			Requests:        handlers.NewRequestsHandler(d.Requests, s.logger),
			Audits:          handlers.NewAuditsHandler(d.Audits, s.logger),
			NonConformities: handlers.NewNonConformitiesHandler(d.NonConformities, s.logger),
			Risks:           handlers.NewRisksHandler(d.Risks, d.Assistant, s.logger),
			Assets:          handlers.NewAssetsHandler(d.Assets, s.logger),
			Problems:        handlers.NewProblemsHandler(d.Problems, s.logger),
		},
		dashboard: handlers.NewDashboardHandler(d.Dashboard, s.logger),
		reports:   handlers.NewReportsHandler(d.Reports, s.cfg.Reports, s.logger),
		assistant: handlers.NewAssistantHandler(d.Assistant, s.logger),
		logs:      handlers.NewLogsHandler(d.Activity, s.logger),
	}
}
