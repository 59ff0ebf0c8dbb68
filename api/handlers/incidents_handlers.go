package handlers

import (
	"net/http"

	"itsm-desk/core/assistant"
	"itsm-desk/core/incidents"
	"itsm-desk/core/problems"
	"itsm-desk/core/reports"
	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

type statusPayload struct {
	Status string `json:"status"`
}

type IncidentsHandler struct {
	*RecordsHandler[store.Incident, incidents.IncidentPayload]
	incidents *incidents.Incidents
	assistant *assistant.Service
}

func NewIncidentsHandler(inc *incidents.Incidents, ai *assistant.Service, logger *utils.Logger) *IncidentsHandler {
	return &IncidentsHandler{
		RecordsHandler: NewRecordsHandler[store.Incident, incidents.IncidentPayload](inc, reports.IncidentsTable, logger),
		incidents:      inc,
		assistant:      ai,
	}
}

func (h *IncidentsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusPayload
	if err := decodeJSON(r, &payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	item, err := h.incidents.SetStatus(r.Context(), actorName(r), urlParam(r, "id"), payload.Status)
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Summary asks the assistant for a short summary. Assistant failures still
// answer 200 with the fallback text.
func (h *IncidentsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	inc, err := h.incidents.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeJSON(w, http.StatusOK, h.assistant.SummarizeIncident(r.Context(), *inc))
}

type RequestsHandler struct {
	*RecordsHandler[store.Request, incidents.RequestPayload]
	requests *incidents.Requests
}

func NewRequestsHandler(req *incidents.Requests, logger *utils.Logger) *RequestsHandler {
	return &RequestsHandler{
		RecordsHandler: NewRecordsHandler[store.Request, incidents.RequestPayload](req, reports.RequestsTable, logger),
		requests:       req,
	}
}

func (h *RequestsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusPayload
	if err := decodeJSON(r, &payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	item, err := h.requests.SetStatus(r.Context(), actorName(r), urlParam(r, "id"), payload.Status)
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type ProblemsHandler struct {
	*RecordsHandler[store.Problem, problems.Payload]
	problems *problems.Manager
}

func NewProblemsHandler(m *problems.Manager, logger *utils.Logger) *ProblemsHandler {
	return &ProblemsHandler{
		RecordsHandler: NewRecordsHandler[store.Problem, problems.Payload](m, reports.ProblemsTable, logger),
		problems:       m,
	}
}

func (h *ProblemsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.problems.Stats(r.Context())
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
