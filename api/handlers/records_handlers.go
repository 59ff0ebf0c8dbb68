package handlers

import (
	"context"
	"net/http"

	"itsm-desk/core/records"
	"itsm-desk/core/reports"
	"itsm-desk/core/utils"
)

// RecordStore is the controller surface every module exposes.
type RecordStore[T any, P any] interface {
	Module() string
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, actor string, p P) (T, error)
	Update(ctx context.Context, actor, id string, p P) (T, error)
}

type RecordsHandler[T any, P any] struct {
	records RecordStore[T, P]
	table   func([]T) reports.Table
	logger  *utils.Logger
}

func NewRecordsHandler[T any, P any](records RecordStore[T, P], table func([]T) reports.Table, logger *utils.Logger) *RecordsHandler[T, P] {
	return &RecordsHandler[T, P]{records: records, table: table, logger: logger}
}

func (h *RecordsHandler[T, P]) module() string {
	return h.records.Module()
}

func (h *RecordsHandler[T, P]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.records.List(r.Context())
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *RecordsHandler[T, P]) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.records.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *RecordsHandler[T, P]) Create(w http.ResponseWriter, r *http.Request) {
	var payload P
	if err := decodeJSON(r, &payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	item, err := h.records.Create(r.Context(), actorName(r), payload)
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *RecordsHandler[T, P]) Update(w http.ResponseWriter, r *http.Request) {
	var payload P
	if err := decodeJSON(r, &payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	item, err := h.records.Update(r.Context(), actorName(r), urlParam(r, "id"), payload)
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Export renders the whole collection with the columns named in ?fields=.
// The format defaults to PDF.
func (h *RecordsHandler[T, P]) Export(w http.ResponseWriter, r *http.Request) {
	format, err := reports.ParseFormat(records.Or(r.URL.Query().Get("format"), string(reports.FormatPDF)))
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	items, err := h.records.List(r.Context())
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	table, err := h.table(items).Select(selectedFields(r))
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	doc, err := reports.RenderTable(table, format, utils.NowUTC())
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeDocument(w, doc)
}
