package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"itsm-desk/core/auth"
	"itsm-desk/core/records"
	"itsm-desk/core/reports"
	"itsm-desk/core/utils"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

func actorName(r *http.Request) string {
	return auth.ActorFrom(r.Context()).Name()
}

// respondError maps core sentinel errors onto status codes. Anything
// unrecognised is a storage failure.
func respondError(w http.ResponseWriter, logger *utils.Logger, module string, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, records.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, records.ErrInvalid):
		writeErrorCode(w, http.StatusBadRequest, module+".invalid", err.Error())
	case errors.Is(err, reports.ErrNoSelection),
		errors.Is(err, reports.ErrUnknownField),
		errors.Is(err, reports.ErrUnknownFormat),
		errors.Is(err, reports.ErrNoMetrics),
		errors.Is(err, reports.ErrUnknownMetric),
		errors.Is(err, reports.ErrUnknownPeriod):
		writeErrorCode(w, http.StatusBadRequest, "reports.invalid", err.Error())
	default:
		logger.Errorf("%s: %v", module, err)
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func writeDocument(w http.ResponseWriter, doc *reports.Document) {
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.Header().Set("ETag", `"`+doc.Checksum()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

// selectedFields returns nil when the fields parameter is absent and an
// empty selection when it is present but blank.
func selectedFields(r *http.Request) []string {
	q := r.URL.Query()
	if !q.Has("fields") {
		return nil
	}
	fields := []string{}
	for _, raw := range q["fields"] {
		fields = append(fields, utils.SplitCSV(raw)...)
	}
	return fields
}

func confirmed(r *http.Request) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("confirm"))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
