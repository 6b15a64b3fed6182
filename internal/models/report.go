package models

import "time"

// ReportWindow is the inclusive time range a report covers.
type ReportWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ReportData is the derived report structure consumed by the dashboard tabs
// and the PDF serializer. It is recomputed on every request and never persisted.
type ReportData struct {
	Summary           ExecutiveSummary  `json:"summary"`
	SeverityBreakdown SeverityBreakdown `json:"severityBreakdown"`
	AssetSummary      AssetSummary      `json:"assetSummary"`
	TopEvents         []Event           `json:"topEvents"`
	VulnerableAssets  []VulnerableAsset `json:"vulnerableAssets"`
	Recommendations   []string          `json:"recommendations"`
	Compliance        ComplianceMetrics `json:"compliance"`
}

// ExecutiveSummary holds the headline numbers for a report.
type ExecutiveSummary struct {
	TotalEvents     int `json:"totalEvents"`
	CriticalCount   int `json:"criticalCount"`
	HighCount       int `json:"highCount"`
	AssetsMonitored int `json:"assetsMonitored"`
	RiskScore       int `json:"riskScore"` // 0-100
}

// SeverityBreakdown counts events per severity bucket. Events with an
// unrecognized severity are excluded here but still counted in TotalEvents.
type SeverityBreakdown struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

// Total sums all five buckets.
func (b SeverityBreakdown) Total() int {
	return b.Critical + b.High + b.Medium + b.Low + b.Info
}

// AssetSummary counts assets by state.
type AssetSummary struct {
	Total      int `json:"total"`
	Online     int `json:"online"`
	Offline    int `json:"offline"`
	Vulnerable int `json:"vulnerable"`
}

// VulnerableAsset is one row of the vulnerable-assets ranking.
type VulnerableAsset struct {
	Name          string `json:"name"`
	IPAddress     string `json:"ipAddress"`
	Status        string `json:"status"`
	CriticalVulns int    `json:"criticalVulns"`
	TotalVulns    int    `json:"totalVulns"`
}

// ComplianceMetrics reports operational figures for the compliance section.
// Response time and uptime come from the telemetry collector, not from the
// event rows.
type ComplianceMetrics struct {
	EventsProcessed   int     `json:"eventsProcessed"`
	AvgResponseTimeMs float64 `json:"avgResponseTimeMs"`
	UptimePercent     float64 `json:"uptimePercent"`
}
