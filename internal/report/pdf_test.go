package report

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/argus-soc/internal/models"
)

func fixedClockSerializer() *PDFSerializer {
	return &PDFSerializer{now: func() time.Time {
		return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	}}
}

func sampleReport() models.ReportData {
	return models.ReportData{
		Summary: models.ExecutiveSummary{
			TotalEvents: 12, CriticalCount: 2, HighCount: 3, AssetsMonitored: 4, RiskScore: 61,
		},
		SeverityBreakdown: models.SeverityBreakdown{Critical: 2, High: 3, Medium: 4, Low: 2, Info: 1},
		AssetSummary:      models.AssetSummary{Total: 4, Online: 3, Offline: 1, Vulnerable: 2},
		TopEvents: []models.Event{
			{Timestamp: time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC), Severity: models.SeverityCritical,
				AlertName: "Suspicious PowerShell execution chain detected on host", Host: "web-01"},
		},
		VulnerableAssets: []models.VulnerableAsset{
			{Name: "db-01", IPAddress: "10.0.0.5", Status: models.AssetStatusOnline, CriticalVulns: 2, TotalVulns: 6},
		},
		Recommendations: []string{"Patch db-01", "Rotate credentials"},
		Compliance:      models.ComplianceMetrics{EventsProcessed: 12, AvgResponseTimeMs: 85, UptimePercent: 99.9},
	}
}

func TestSerializeProducesPDF(t *testing.T) {
	s := fixedClockSerializer()
	out, err := s.Serialize(sampleReport(), "Acme Corp", testWindow)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output must be a PDF document")
	assert.NotEmpty(t, out)
}

func TestSerializeSinglePageForEmptyReport(t *testing.T) {
	s := fixedClockSerializer()
	doc := s.build(models.ReportData{}, "Acme Corp", testWindow)
	require.NoError(t, doc.pdf.Error())
	assert.Equal(t, 1, doc.pdf.PageCount())
}

func TestSerializePaginatesLongEventTable(t *testing.T) {
	data := sampleReport()
	data.TopEvents = nil
	for i := 0; i < 120; i++ {
		data.TopEvents = append(data.TopEvents, models.Event{
			Timestamp: time.Date(2026, 1, 1, i%24, 0, 0, 0, time.UTC),
			Severity:  models.SeverityHigh,
			AlertName: fmt.Sprintf("Repeated brute force attempt %d", i),
			Host:      fmt.Sprintf("host-%02d", i%10),
		})
	}

	s := fixedClockSerializer()
	doc := s.build(data, "Acme Corp", testWindow)
	require.NoError(t, doc.pdf.Error())
	assert.Greater(t, doc.pdf.PageCount(), 1, "a table longer than one page must paginate")
}

func TestFilename(t *testing.T) {
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "security-report-acme-corp-2026-02-01.pdf", Filename("Acme Corp", date))
	assert.Equal(t, "security-report-st-laurent-co-2026-02-01.pdf", Filename("  St. Laurent & Co  ", date))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 30))
	long := "An alert name that is clearly longer than thirty characters"
	got := truncate(long, 30)
	assert.Len(t, []rune(got), 33)
	assert.Equal(t, long[:30]+"...", got)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, percentage(0, 0))
	assert.Equal(t, 50, percentage(1, 2))
	assert.Equal(t, 33, percentage(1, 3))
	assert.Equal(t, 100, percentage(3, 3))
}
