package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/models"
	"github.com/nmoreau/argus-soc/internal/report"
	"github.com/nmoreau/argus-soc/internal/services"
)

// ReportHandler handles on-screen report data and PDF export requests.
type ReportHandler struct {
	service services.ReportServiceProvider
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service services.ReportServiceProvider) *ReportHandler {
	return &ReportHandler{service: service}
}

// Get returns the aggregated ReportData for the window given by the from/to
// query parameters (RFC 3339 or yyyy-MM-dd).
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	window, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.service.GenerateReport(clientID, window)
	if err != nil {
		if errors.Is(err, report.ErrInvalidWindow) {
			http.Error(w, "A valid report window is required", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to generate report")
		http.Error(w, "Failed to generate report", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// GetPDF returns the serialized PDF for download.
func (h *ReportHandler) GetPDF(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	window, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filename, doc, err := h.service.GenerateReportPDF(clientID, window)
	if err != nil {
		if errors.Is(err, report.ErrInvalidWindow) {
			http.Error(w, "A valid report window is required", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to export report PDF")
		http.Error(w, "Failed to export report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(doc)
}

// parseWindow reads the from/to query parameters. Missing parameters yield a
// zero endpoint, which the report core rejects as an invalid window.
func parseWindow(r *http.Request) (models.ReportWindow, error) {
	var window models.ReportWindow
	var err error
	if from := r.URL.Query().Get("from"); from != "" {
		if window.From, err = parseTime(from); err != nil {
			return models.ReportWindow{}, fmt.Errorf("invalid from parameter")
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if window.To, err = parseTime(to); err != nil {
			return models.ReportWindow{}, fmt.Errorf("invalid to parameter")
		}
	}
	return window, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
