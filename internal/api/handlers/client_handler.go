package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/models"
	"github.com/nmoreau/argus-soc/internal/services"
)

// ClientHandler handles HTTP requests for tenant management.
type ClientHandler struct {
	service services.ClientServiceProvider
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(service services.ClientServiceProvider) *ClientHandler {
	return &ClientHandler{service: service}
}

// ClientPayload defines the body for create/update requests.
type ClientPayload struct {
	Name         string                `json:"name"`
	ContactEmail string                `json:"contactEmail"`
	Settings     models.ClientSettings `json:"settings"`
}

// GetAll lists every tenant.
func (h *ClientHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.GetAllClients()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list clients")
		http.Error(w, "Failed to retrieve clients", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, clients)
}

// Get retrieves one tenant by ID.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	client, err := h.service.GetClientByID(id)
	if err != nil {
		log.Warn().Err(err).Str("client_id", id).Msg("Client not found")
		http.Error(w, "Client not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// Create registers a new tenant.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ClientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Name == "" {
		http.Error(w, "Client name is required", http.StatusBadRequest)
		return
	}

	client, err := h.service.CreateClient(payload.Name, payload.ContactEmail, payload.Settings)
	if err != nil {
		log.Error().Err(err).Str("name", payload.Name).Msg("Failed to create client")
		http.Error(w, "Failed to create client", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, client)
}

// Update modifies a tenant's details.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload ClientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	client, err := h.service.UpdateClient(id, models.Client{
		Name:         payload.Name,
		ContactEmail: payload.ContactEmail,
		Settings:     payload.Settings,
	})
	if err != nil {
		log.Error().Err(err).Str("client_id", id).Msg("Failed to update client")
		http.Error(w, "Failed to update client", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// Delete removes a tenant and, via cascade, its assets and events.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteClient(id); err != nil {
		log.Error().Err(err).Str("client_id", id).Msg("Failed to delete client")
		http.Error(w, "Failed to delete client", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
