package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nmoreau/argus-soc/internal/models"
)

func TestBuildContextCounts(t *testing.T) {
	ctx := BuildContext(sampleEvents(), []models.Asset{{Name: "web-01"}})
	assert.Contains(t, ctx, "3 security events")
	assert.Contains(t, ctx, "1 monitored assets")
}

func TestBuildContextLimitsRecentEvents(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var events []models.Event
	for i := 0; i < 8; i++ {
		events = append(events, models.Event{
			AlertName: "alert-" + string(rune('a'+i)),
			Severity:  models.SeverityLow,
			Host:      "host",
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
	}

	ctx := BuildContext(events, nil)
	// Only the five most recent events appear
	assert.Equal(t, 5, strings.Count(ctx, "- alert-"))
	assert.Contains(t, ctx, "alert-h")
	assert.NotContains(t, ctx, "alert-a")
}

func TestBuildContextLimitsAssets(t *testing.T) {
	var assets []models.Asset
	for i := 0; i < 7; i++ {
		assets = append(assets, models.Asset{Name: "asset", IPAddress: "10.0.0.1", Status: models.AssetStatusOnline})
	}
	ctx := BuildContext(nil, assets)
	assert.Equal(t, 5, strings.Count(ctx, "- asset ("))
	assert.Contains(t, ctx, "7 monitored assets")
}

func TestBuildContextCallouts(t *testing.T) {
	assets := []models.Asset{
		{Name: "db-01", Status: models.AssetStatusOnline,
			Vulnerabilities: []models.Vulnerability{{CVEID: "CVE-2026-9", Severity: models.SeverityCritical}}},
		{Name: "web-02", Status: models.AssetStatusOffline},
	}
	ctx := BuildContext(nil, assets)
	assert.Contains(t, ctx, "1 assets carry critical vulnerabilities")
	assert.Contains(t, ctx, "1 assets are currently offline")
}

func TestBuildContextIncludesEventDetail(t *testing.T) {
	events := []models.Event{{
		AlertName: "Beaconing detected",
		Severity:  models.SeverityHigh,
		Host:      "web-01",
		Status:    "open",
		Comments:  "escalated to tier 2",
		Timestamp: time.Date(2026, 1, 10, 14, 30, 0, 0, time.UTC),
	}}
	ctx := BuildContext(events, nil)
	assert.Contains(t, ctx, "Beaconing detected")
	assert.Contains(t, ctx, "[high]")
	assert.Contains(t, ctx, "web-01")
	assert.Contains(t, ctx, "2026-01-10 14:30")
	assert.Contains(t, ctx, "escalated to tier 2")
}
