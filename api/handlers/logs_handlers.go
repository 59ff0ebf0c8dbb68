package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

type LogsHandler struct {
	activity store.ActivityStore
	logger   *utils.Logger
}

func NewLogsHandler(activity store.ActivityStore, logger *utils.Logger) *LogsHandler {
	return &LogsHandler{activity: activity, logger: logger}
}

func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.activity == nil {
		writeJSON(w, http.StatusOK, map[string]any{"items": []store.ActivityRecord{}})
		return
	}
	filter := parseLogFilter(r)
	items, err := h.activity.List(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, "logs", err)
		return
	}
	if items == nil {
		items = []store.ActivityRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"filter": filter,
	})
}

func (h *LogsHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.activity == nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	filter := parseLogFilter(r)
	if filter.Limit <= 0 || filter.Limit > 5000 {
		filter.Limit = 5000
	}
	items, err := h.activity.List(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, "logs", err)
		return
	}
	filename := "activity_" + time.Now().UTC().Format("20060102_150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"time", "username", "module", "action", "details"})
	for i := range items {
		_ = writer.Write([]string{
			items[i].CreatedAt.UTC().Format(time.RFC3339),
			strings.TrimSpace(items[i].Username),
			items[i].Module,
			strings.TrimSpace(items[i].Action),
			strings.TrimSpace(items[i].Details),
		})
	}
	writer.Flush()
}

func parseLogFilter(r *http.Request) store.ActivityFilter {
	q := r.URL.Query()
	since := time.Now().UTC().Add(-30 * 24 * time.Hour)
	if rawSince := strings.TrimSpace(q.Get("since")); rawSince != "" {
		if parsed, err := utils.ParseDateTime(rawSince); err == nil && !parsed.IsZero() {
			since = parsed.UTC()
		}
	}
	var until *time.Time
	if rawTo := strings.TrimSpace(q.Get("to")); rawTo != "" {
		if parsed, err := utils.ParseDateTime(rawTo); err == nil && !parsed.IsZero() {
			t := parsed.UTC()
			until = &t
		}
	}
	limit := 1000
	if rawLimit := strings.TrimSpace(q.Get("limit")); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 5000 {
		limit = 5000
	}
	return store.ActivityFilter{
		Module: strings.ToLower(strings.TrimSpace(q.Get("module"))),
		Action: strings.ToLower(strings.TrimSpace(q.Get("action"))),
		User:   strings.ToLower(strings.TrimSpace(q.Get("user"))),
		Query:  strings.ToLower(strings.TrimSpace(q.Get("q"))),
		Since:  since,
		To:     until,
		Limit:  limit,
	}
}
