package handlers

import (
	"errors"
	"net/http"

	"itsm-desk/core/dashboard"
	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

const chartsCSP = "default-src 'self'; script-src 'self' 'unsafe-inline' https://go-echarts.github.io; object-src 'none'; frame-ancestors 'self'"

type DashboardHandler struct {
	dashboard *dashboard.Service
	logger    *utils.Logger
}

func NewDashboardHandler(svc *dashboard.Service, logger *utils.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: svc, logger: logger}
}

func (h *DashboardHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Overview(r.URL.Query().Get("period"))
	if errors.Is(err, dashboard.ErrUnknownPeriod) {
		writeErrorCode(w, http.StatusBadRequest, "dashboard.invalid", err.Error())
		return
	}
	if err != nil {
		respondError(w, h.logger, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *DashboardHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	items, err := h.dashboard.Alerts(r.Context())
	if err != nil {
		respondError(w, h.logger, "dashboard", err)
		return
	}
	if items == nil {
		items = []store.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *DashboardHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	err := h.dashboard.Dismiss(r.Context(), actorName(r), id)
	if errors.Is(err, dashboard.ErrAlertNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, h.logger, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed", "id": id})
}

func (h *DashboardHandler) Charts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", chartsCSP)
	if err := h.dashboard.RenderCharts(w); err != nil {
		h.logger.Errorf("dashboard charts: %v", err)
	}
}
