package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/models"
	"github.com/nmoreau/argus-soc/internal/services"
)

// ScheduleHandler handles HTTP requests for recurring report schedules.
type ScheduleHandler struct {
	service services.ScheduleServiceProvider
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(service services.ScheduleServiceProvider) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// GetForClient lists a tenant's report schedules.
func (h *ScheduleHandler) GetForClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	schedules, err := h.service.GetSchedulesForClient(clientID)
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to list schedules")
		http.Error(w, "Failed to retrieve schedules", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, schedules)
}

// Create adds a report schedule for a tenant.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	var schedule models.ReportSchedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	schedule.ClientID = clientID

	created, err := h.service.CreateSchedule(schedule)
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to create schedule")
		http.Error(w, "Failed to create schedule: "+err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update modifies a schedule.
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	var schedule models.ReportSchedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateSchedule(scheduleID, schedule)
	if err != nil {
		log.Error().Err(err).Str("schedule_id", scheduleID).Msg("Failed to update schedule")
		http.Error(w, "Failed to update schedule: "+err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a schedule.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	if err := h.service.DeleteSchedule(scheduleID); err != nil {
		log.Error().Err(err).Str("schedule_id", scheduleID).Msg("Failed to delete schedule")
		http.Error(w, "Failed to delete schedule", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
