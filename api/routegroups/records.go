package routegroups

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"itsm-desk/api/handlers"
)

// CRUD is the part of a records handler every module route group shares.
type CRUD interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

func registerCRUD(r chi.Router, g Guards, module string, h CRUD) {
	r.MethodFunc("GET", "/", g.ActorPerm(module+".view", h.List))
	r.MethodFunc("POST", "/", g.ActorPerm(module+".manage", h.Create))
	r.MethodFunc("GET", "/export", g.ActorPerm("reports.export", h.Export))
	r.MethodFunc("GET", "/{id}", g.ActorPerm(module+".view", h.Get))
	r.MethodFunc("PUT", "/{id}", g.ActorPerm(module+".manage", h.Update))
}

type ModuleHandlers struct {
	Services        *handlers.ServicesHandler
	SLAs            *handlers.SLAsHandler
	Incidents       *handlers.IncidentsHandler
	Requests        *handlers.RequestsHandler
	Audits          *handlers.AuditsHandler
	NonConformities CRUD
	Risks           *handlers.RisksHandler
	Assets          *handlers.AssetsHandler
	Problems        *handlers.ProblemsHandler
}

func RegisterRecords(apiRouter chi.Router, g Guards, h ModuleHandlers) {
	apiRouter.Route("/services", func(r chi.Router) {
		registerCRUD(r, g, "services", h.Services)
		r.MethodFunc("DELETE", "/{id}", g.ActorPerm("services.delete", h.Services.Delete))
	})
	apiRouter.Route("/slas", func(r chi.Router) {
		r.MethodFunc("GET", "/critical", g.ActorPerm("slas.view", h.SLAs.Critical))
		registerCRUD(r, g, "slas", h.SLAs)
	})
	apiRouter.Route("/incidents", func(r chi.Router) {
		registerCRUD(r, g, "incidents", h.Incidents)
		r.MethodFunc("POST", "/{id}/status", g.ActorPerm("incidents.manage", h.Incidents.SetStatus))
		r.MethodFunc("POST", "/{id}/summary", g.ActorPerm("assistant.use", h.Incidents.Summary))
	})
	apiRouter.Route("/requests", func(r chi.Router) {
		registerCRUD(r, g, "requests", h.Requests)
		r.MethodFunc("POST", "/{id}/status", g.ActorPerm("requests.manage", h.Requests.SetStatus))
	})
	apiRouter.Route("/audits", func(r chi.Router) {
		registerCRUD(r, g, "audits", h.Audits)
		r.MethodFunc("GET", "/{id}/report", g.ActorPerm("reports.export", h.Audits.Report))
	})
	apiRouter.Route("/nonconformities", func(r chi.Router) {
		registerCRUD(r, g, "nonconformities", h.NonConformities)
	})
	apiRouter.Route("/risks", func(r chi.Router) {
		r.MethodFunc("GET", "/matrix", g.ActorPerm("risks.view", h.Risks.Matrix))
		registerCRUD(r, g, "risks", h.Risks)
		r.MethodFunc("POST", "/{id}/mitigation", g.ActorPerm("assistant.use", h.Risks.Mitigation))
	})
	apiRouter.Route("/assets", func(r chi.Router) {
		r.MethodFunc("GET", "/stats", g.ActorPerm("assets.view", h.Assets.Stats))
		registerCRUD(r, g, "assets", h.Assets)
	})
	apiRouter.Route("/problems", func(r chi.Router) {
		r.MethodFunc("GET", "/stats", g.ActorPerm("problems.view", h.Problems.Stats))
		registerCRUD(r, g, "problems", h.Problems)
	})
}
