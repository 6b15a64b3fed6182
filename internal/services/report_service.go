package services

import (
	"fmt"
	"time"

	"github.com/nmoreau/argus-soc/internal/models"
	"github.com/nmoreau/argus-soc/internal/report"
	"github.com/nmoreau/argus-soc/internal/telemetry"
)

// ReportServiceProvider defines the interface for report generation.
type ReportServiceProvider interface {
	GenerateReport(clientID string, window models.ReportWindow) (models.ReportData, error)
	GenerateReportPDF(clientID string, window models.ReportWindow) (string, []byte, error)
}

// ReportService assembles report data from the row store and serializes it.
// Aggregation itself is pure; this service only does the fetching around it.
type ReportService struct {
	clientSvc  ClientServiceProvider
	assetSvc   AssetServiceProvider
	eventSvc   EventServiceProvider
	collector  *telemetry.Collector
	serializer *report.PDFSerializer
}

// NewReportService creates a new ReportService.
func NewReportService(clientSvc ClientServiceProvider, assetSvc AssetServiceProvider, eventSvc EventServiceProvider, collector *telemetry.Collector) *ReportService {
	return &ReportService{
		clientSvc:  clientSvc,
		assetSvc:   assetSvc,
		eventSvc:   eventSvc,
		collector:  collector,
		serializer: report.NewPDFSerializer(),
	}
}

// GenerateReport fetches the client's rows and aggregates them over the
// window. A missing window endpoint fails before any row is fetched; a store
// failure renders no partial report.
func (s *ReportService) GenerateReport(clientID string, window models.ReportWindow) (models.ReportData, error) {
	if window.From.IsZero() || window.To.IsZero() {
		return models.ReportData{}, report.ErrInvalidWindow
	}

	events, err := s.eventSvc.GetEventsInWindow(clientID, window)
	if err != nil {
		return models.ReportData{}, fmt.Errorf("failed to fetch events: %w", err)
	}
	assets, err := s.assetSvc.GetAssetsForClient(clientID)
	if err != nil {
		return models.ReportData{}, fmt.Errorf("failed to fetch assets: %w", err)
	}

	snap := s.collector.Snapshot(window.To.Sub(window.From))
	return report.Aggregate(events, assets, window, report.Telemetry{
		AvgResponseTimeMs: snap.AvgResponseTimeMs,
		UptimePercent:     snap.UptimePercent,
	})
}

// GenerateReportPDF aggregates and serializes a client report, returning the
// download filename and document bytes.
func (s *ReportService) GenerateReportPDF(clientID string, window models.ReportWindow) (string, []byte, error) {
	client, err := s.clientSvc.GetClientByID(clientID)
	if err != nil {
		return "", nil, err
	}

	data, err := s.GenerateReport(clientID, window)
	if err != nil {
		return "", nil, err
	}

	doc, err := s.serializer.Serialize(data, client.Name, window)
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize report: %w", err)
	}

	return report.Filename(client.Name, time.Now()), doc, nil
}
