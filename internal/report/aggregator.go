package report

import (
	"errors"
	"math"
	"sort"

	"github.com/nmoreau/argus-soc/internal/models"
)

// ErrInvalidWindow is returned when a report window is missing an endpoint.
// No aggregation is attempted in that case.
var ErrInvalidWindow = errors.New("report window requires both a start and end time")

// Telemetry carries the operational figures injected into the compliance
// section. Values come from the telemetry collector, keeping Aggregate pure.
type Telemetry struct {
	AvgResponseTimeMs float64
	UptimePercent     float64
}

const topListLimit = 10

// Severity weights used by the risk score.
const (
	weightCritical = 10
	weightHigh     = 5
	weightMedium   = 2
)

// Aggregate turns raw event and asset rows into the ReportData structure
// consumed by the dashboard tabs and the PDF serializer. Events outside the
// inclusive [From, To] window are ignored; every downstream count derives
// from the filtered set. The function is pure and idempotent.
func Aggregate(events []models.Event, assets []models.Asset, window models.ReportWindow, tel Telemetry) (models.ReportData, error) {
	if window.From.IsZero() || window.To.IsZero() {
		return models.ReportData{}, ErrInvalidWindow
	}

	filtered := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.Timestamp.Before(window.From) || e.Timestamp.After(window.To) {
			continue
		}
		filtered = append(filtered, e)
	}

	breakdown := severityBreakdown(filtered)
	assetSummary := summarizeAssets(assets)

	data := models.ReportData{
		Summary: models.ExecutiveSummary{
			TotalEvents:     len(filtered),
			CriticalCount:   breakdown.Critical,
			HighCount:       breakdown.High,
			AssetsMonitored: len(assets),
			RiskScore:       riskScore(breakdown, len(filtered)),
		},
		SeverityBreakdown: breakdown,
		AssetSummary:      assetSummary,
		TopEvents:         topEvents(filtered),
		VulnerableAssets:  rankVulnerableAssets(assets),
		Recommendations:   Recommend(breakdown, assetSummary, 0),
		Compliance: models.ComplianceMetrics{
			EventsProcessed:   len(filtered),
			AvgResponseTimeMs: tel.AvgResponseTimeMs,
			UptimePercent:     tel.UptimePercent,
		},
	}
	return data, nil
}

// severityBreakdown counts events per bucket. Unrecognized severities are
// dropped from the histogram but remain part of the total event count.
func severityBreakdown(events []models.Event) models.SeverityBreakdown {
	var b models.SeverityBreakdown
	for _, e := range events {
		switch e.Severity {
		case models.SeverityCritical:
			b.Critical++
		case models.SeverityHigh:
			b.High++
		case models.SeverityMedium:
			b.Medium++
		case models.SeverityLow:
			b.Low++
		case models.SeverityInfo:
			b.Info++
		}
	}
	return b
}

// riskScore computes the 0-100 weighted severity score:
// min(100, round((critical*10 + high*5 + medium*2) / max(1, total) * 100)).
func riskScore(b models.SeverityBreakdown, total int) int {
	weighted := b.Critical*weightCritical + b.High*weightHigh + b.Medium*weightMedium
	divisor := total
	if divisor < 1 {
		divisor = 1
	}
	score := int(math.Round(float64(weighted) / float64(divisor) * 100))
	if score > 100 {
		score = 100
	}
	return score
}

// topEvents returns the critical and high severity events, newest first,
// capped at ten entries.
func topEvents(events []models.Event) []models.Event {
	top := make([]models.Event, 0)
	for _, e := range events {
		if e.Severity == models.SeverityCritical || e.Severity == models.SeverityHigh {
			top = append(top, e)
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Timestamp.After(top[j].Timestamp)
	})
	if len(top) > topListLimit {
		top = top[:topListLimit]
	}
	return top
}

// rankVulnerableAssets returns assets carrying at least one vulnerability,
// ordered by critical vulnerability count descending, capped at ten entries.
func rankVulnerableAssets(assets []models.Asset) []models.VulnerableAsset {
	ranked := make([]models.VulnerableAsset, 0)
	for _, a := range assets {
		if len(a.Vulnerabilities) == 0 {
			continue
		}
		ranked = append(ranked, models.VulnerableAsset{
			Name:          a.Name,
			IPAddress:     a.IPAddress,
			Status:        a.Status,
			CriticalVulns: a.CriticalVulnCount(),
			TotalVulns:    len(a.Vulnerabilities),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CriticalVulns > ranked[j].CriticalVulns
	})
	if len(ranked) > topListLimit {
		ranked = ranked[:topListLimit]
	}
	return ranked
}

func summarizeAssets(assets []models.Asset) models.AssetSummary {
	var s models.AssetSummary
	s.Total = len(assets)
	for _, a := range assets {
		switch a.Status {
		case models.AssetStatusOnline:
			s.Online++
		case models.AssetStatusOffline:
			s.Offline++
		}
		if len(a.Vulnerabilities) > 0 {
			s.Vulnerable++
		}
	}
	return s
}
