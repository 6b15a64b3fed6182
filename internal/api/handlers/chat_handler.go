package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/services"
)

// ChatHandler handles assistant conversation requests.
type ChatHandler struct {
	service services.ChatServiceProvider
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service services.ChatServiceProvider) *ChatHandler {
	return &ChatHandler{service: service}
}

// ChatPayload is the body of a send-message request.
type ChatPayload struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
}

// Send appends a user message and returns the assistant reply. Remote
// generation failures degrade to the local classifier and still return 200.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	var payload ChatPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}
	if payload.ConversationID == "" {
		payload.ConversationID = "default"
	}

	reply, err := h.service.SendMessage(r.Context(), clientID, payload.ConversationID, payload.Message)
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("Chat request failed")
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, reply)
}

// History returns the conversation so far.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		conversationID = "default"
	}
	respondJSON(w, http.StatusOK, h.service.GetConversation(clientID, conversationID))
}
