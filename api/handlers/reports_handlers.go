package handlers

import (
	"net/http"
	"strings"

	"itsm-desk/config"
	"itsm-desk/core/reports"
	"itsm-desk/core/utils"
)

type ReportsHandler struct {
	generator *reports.Generator
	cfg       config.ReportsConfig
	logger    *utils.Logger
}

func NewReportsHandler(gen *reports.Generator, cfg config.ReportsConfig, logger *utils.Logger) *ReportsHandler {
	return &ReportsHandler{generator: gen, cfg: cfg, logger: logger}
}

func (h *ReportsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.generator.AvailableMetrics(r.Context())
	if err != nil {
		respondError(w, h.logger, "reports", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":          metrics,
		"periods":        reports.Periods,
		"default_period": h.cfg.DefaultPeriod,
		"default_format": h.cfg.DefaultFormat,
	})
}

// Generate builds a KPI report. Period and format fall back to the configured
// defaults; an empty metric list is rejected.
func (h *ReportsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req reports.KPIRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Period) == "" {
		req.Period = h.cfg.DefaultPeriod
	}
	if strings.TrimSpace(req.Format) == "" {
		req.Format = h.cfg.DefaultFormat
	}
	doc, err := h.generator.KPIReport(r.Context(), req)
	if err != nil {
		if r.Context().Err() != nil {
			h.logger.Printf("report generation cancelled: %v", err)
			return
		}
		respondError(w, h.logger, "reports", err)
		return
	}
	writeDocument(w, doc)
}
