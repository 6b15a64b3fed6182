package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/models"
	"github.com/nmoreau/argus-soc/internal/services"
	ws "github.com/nmoreau/argus-soc/internal/websocket"
)

// EventHandler handles HTTP requests for security events.
type EventHandler struct {
	service services.EventServiceProvider
	hub     *ws.Hub
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider, hub *ws.Hub) *EventHandler {
	return &EventHandler{service: service, hub: hub}
}

// GetForClient lists a tenant's events, newest first.
func (h *EventHandler) GetForClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 50 // Default limit
	}

	events, err := h.service.GetEventsForClient(clientID, limit)
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to retrieve events")
		http.Error(w, "Failed to retrieve events", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Create records a new security event and pushes it to subscribed dashboards.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	event.ClientID = clientID

	created, err := h.service.CreateEvent(event)
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to create event")
		http.Error(w, "Failed to create event: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.hub.BroadcastTo(clientID, ws.NewEventMessage(created))
	respondJSON(w, http.StatusCreated, created)
}

// Classify sets the analyst classification label on an event.
func (h *EventHandler) Classify(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	var payload struct {
		Label    string `json:"label"`
		Status   string `json:"status"`
		Comments string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := h.service.UpdateEventClassification(eventID, payload.Label, payload.Status, payload.Comments)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to classify event")
		http.Error(w, "Failed to classify event: "+err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// Delete removes an event.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if err := h.service.DeleteEvent(eventID); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to delete event")
		http.Error(w, "Failed to delete event", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
