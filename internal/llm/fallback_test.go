package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nmoreau/argus-soc/internal/models"
)

func sampleEvents() []models.Event {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return []models.Event{
		{AlertName: "Outbound beacon", Severity: models.SeverityCritical, Timestamp: base},
		{AlertName: "Privilege escalation", Severity: models.SeverityCritical, Timestamp: base.Add(time.Hour)},
		{AlertName: "Port scan", Severity: models.SeverityMedium, Timestamp: base.Add(2 * time.Hour)},
	}
}

func TestFallbackEventSummary(t *testing.T) {
	reply := Fallback("what alerts happened today?", sampleEvents(), nil)
	assert.Contains(t, reply, "3 security events")
	assert.Contains(t, reply, "2 are critical or high severity")
}

func TestFallbackAssetSummary(t *testing.T) {
	assets := []models.Asset{
		{Name: "web-01", Vulnerabilities: []models.Vulnerability{{CVEID: "CVE-2026-1"}, {CVEID: "CVE-2026-2"}}},
		{Name: "db-01"},
	}
	reply := Fallback("show me the vulnerability picture", nil, assets)
	assert.Contains(t, reply, "2 assets are being monitored")
	assert.Contains(t, reply, "1 assets have known vulnerabilities")
	assert.Contains(t, reply, "2 findings")
}

func TestFallbackClassification(t *testing.T) {
	newest := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		event models.Event
		want  string
	}{
		{"critical malware", models.Event{AlertName: "Malware dropper found", Severity: models.SeverityCritical, Timestamp: newest}, verdictMalware},
		{"high intrusion", models.Event{AlertName: "Intrusion attempt blocked", Severity: models.SeverityHigh, Timestamp: newest}, verdictIntrusion},
		{"attack in type field", models.Event{Type: "attack", AlertName: "Odd traffic", Severity: models.SeverityHigh, Timestamp: newest}, verdictIntrusion},
		{"critical other", models.Event{AlertName: "Data exfil pattern", Severity: models.SeverityCritical, Timestamp: newest}, verdictThreat},
		{"low severity", models.Event{AlertName: "Routine login", Severity: models.SeverityLow, Timestamp: newest}, verdictNormal},
		{"info severity", models.Event{AlertName: "Heartbeat", Severity: models.SeverityInfo, Timestamp: newest}, verdictNormal},
		{"medium severity", models.Event{AlertName: "Odd DNS", Severity: models.SeverityMedium, Timestamp: newest}, verdictInvestigation},
		{"missing severity", models.Event{AlertName: "Unknown", Timestamp: newest}, verdictInvestigation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Stale events must not win over the most recent one
			events := append(sampleEvents(), tc.event)
			reply := Fallback("please classify this", events, nil)
			assert.Contains(t, reply, tc.want)
		})
	}
}

func TestFallbackClassificationNoEvents(t *testing.T) {
	reply := Fallback("analyze the latest", nil, nil)
	assert.Contains(t, reply, "No events")
}

func TestFallbackRecommendationsCapped(t *testing.T) {
	assets := []models.Asset{
		{Name: "web-01", Status: models.AssetStatusOffline,
			Vulnerabilities: []models.Vulnerability{{CVEID: "CVE-2026-1"}}},
	}
	var events []models.Event
	for i := 0; i < 10; i++ {
		events = append(events, models.Event{Severity: models.SeverityHigh})
	}
	events = append(events, models.Event{Severity: models.SeverityCritical})

	reply := Fallback("any advice?", events, assets)
	assert.Contains(t, reply, "1. ")
	assert.Contains(t, reply, "5. ")
	assert.NotContains(t, reply, "6. ")
}

func TestFallbackDefaultMenu(t *testing.T) {
	reply := Fallback("hello there", nil, nil)
	assert.Contains(t, reply, "I can help")
}
