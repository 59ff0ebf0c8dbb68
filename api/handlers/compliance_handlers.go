package handlers

import (
	"net/http"

	"itsm-desk/core/assistant"
	"itsm-desk/core/audits"
	"itsm-desk/core/nonconformities"
	"itsm-desk/core/reports"
	"itsm-desk/core/risks"
	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

type AuditsHandler struct {
	*RecordsHandler[store.Audit, audits.Payload]
	audits *audits.Manager
}

func NewAuditsHandler(m *audits.Manager, logger *utils.Logger) *AuditsHandler {
	return &AuditsHandler{
		RecordsHandler: NewRecordsHandler[store.Audit, audits.Payload](m, reports.AuditsTable, logger),
		audits:         m,
	}
}

func (h *AuditsHandler) Report(w http.ResponseWriter, r *http.Request) {
	audit, err := h.audits.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	doc, err := reports.AuditReport(*audit, utils.NowUTC())
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeDocument(w, doc)
}

func NewNonConformitiesHandler(m *nonconformities.Manager, logger *utils.Logger) *RecordsHandler[store.NonConformity, nonconformities.Payload] {
	return NewRecordsHandler[store.NonConformity, nonconformities.Payload](m, reports.NonConformitiesTable, logger)
}

type RisksHandler struct {
	*RecordsHandler[store.Risk, risks.Payload]
	register  *risks.Register
	assistant *assistant.Service
}

func NewRisksHandler(reg *risks.Register, ai *assistant.Service, logger *utils.Logger) *RisksHandler {
	return &RisksHandler{
		RecordsHandler: NewRecordsHandler[store.Risk, risks.Payload](reg, reports.RisksTable, logger),
		register:       reg,
		assistant:      ai,
	}
}

func (h *RisksHandler) Matrix(w http.ResponseWriter, r *http.Request) {
	m, err := h.register.Matrix(r.Context())
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *RisksHandler) Mitigation(w http.ResponseWriter, r *http.Request) {
	risk, err := h.register.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeJSON(w, http.StatusOK, h.assistant.SuggestMitigation(r.Context(), *risk))
}
