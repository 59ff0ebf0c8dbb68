package handlers

import (
	"errors"
	"net/http"

	"itsm-desk/core/assistant"
	"itsm-desk/core/utils"
)

type chatPayload struct {
	Messages []assistant.Message `json:"messages"`
}

type AssistantHandler struct {
	assistant *assistant.Service
	logger    *utils.Logger
}

func NewAssistantHandler(svc *assistant.Service, logger *utils.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: svc, logger: logger}
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var payload chatPayload
	if err := decodeJSON(r, &payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	reply, err := h.assistant.Chat(r.Context(), payload.Messages)
	if errors.Is(err, assistant.ErrInvalidTranscript) {
		writeErrorCode(w, http.StatusBadRequest, "assistant.invalid", err.Error())
		return
	}
	if err != nil {
		respondError(w, h.logger, "assistant", err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *AssistantHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"configured": h.assistant.Configured()})
}
