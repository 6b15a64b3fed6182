package llm

import (
	"fmt"
	"strings"

	"github.com/nmoreau/argus-soc/internal/models"
	"github.com/nmoreau/argus-soc/internal/report"
)

// fallbackRecommendationCap limits the advisory list in chat replies.
const fallbackRecommendationCap = 5

// Classification verdicts produced by the local classifier.
const (
	verdictMalware       = "True Positive - Malware Detection"
	verdictIntrusion     = "True Positive - Intrusion Attempt"
	verdictThreat        = "True Positive - Security Threat"
	verdictNormal        = "True Negative - Normal Activity"
	verdictInvestigation = "Requires Investigation"
)

// Fallback synthesizes an assistant reply locally when the remote completion
// call is unavailable. Routing is keyword-based over the user message.
func Fallback(message string, events []models.Event, assets []models.Asset) string {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, "event", "alert", "incident"):
		return eventSummary(events)
	case containsAny(lower, "asset", "system", "vulnerability"):
		return assetSummary(assets)
	case containsAny(lower, "classify", "analyze"):
		return classifyLatest(events)
	case containsAny(lower, "recommend", "suggest", "advice"):
		return recommendations(events, assets)
	default:
		return "I can help you review security events, check asset and vulnerability status, " +
			"classify recent alerts, or suggest next steps. Ask me about events, assets, " +
			"classifications or recommendations."
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func eventSummary(events []models.Event) string {
	attention := 0
	for _, e := range events {
		if e.Severity == models.SeverityCritical || e.Severity == models.SeverityHigh {
			attention++
		}
	}
	return fmt.Sprintf("There are %d security events on record. %d are critical or high severity and require attention.",
		len(events), attention)
}

func assetSummary(assets []models.Asset) string {
	vulnerable := 0
	totalVulns := 0
	for _, a := range assets {
		if len(a.Vulnerabilities) > 0 {
			vulnerable++
		}
		totalVulns += len(a.Vulnerabilities)
	}
	return fmt.Sprintf("%d assets are being monitored. %d assets have known vulnerabilities (%d findings in total).",
		len(assets), vulnerable, totalVulns)
}

// classifyLatest applies the deterministic decision tree to the most recent
// event.
func classifyLatest(events []models.Event) string {
	if len(events) == 0 {
		return "No events are available to classify."
	}

	latest := events[0]
	for _, e := range events[1:] {
		if e.Timestamp.After(latest.Timestamp) {
			latest = e
		}
	}

	verdict := classify(latest)
	return fmt.Sprintf("Latest event %q (%s): %s", latest.AlertName, latest.Severity, verdict)
}

func classify(e models.Event) string {
	name := strings.ToLower(e.AlertName + " " + e.Type)
	switch e.Severity {
	case models.SeverityCritical, models.SeverityHigh:
		if strings.Contains(name, "malware") {
			return verdictMalware
		}
		if strings.Contains(name, "intrusion") || strings.Contains(name, "attack") {
			return verdictIntrusion
		}
		return verdictThreat
	case models.SeverityLow, models.SeverityInfo:
		return verdictNormal
	default:
		return verdictInvestigation
	}
}

func recommendations(events []models.Event, assets []models.Asset) string {
	var breakdown models.SeverityBreakdown
	for _, e := range events {
		switch e.Severity {
		case models.SeverityCritical:
			breakdown.Critical++
		case models.SeverityHigh:
			breakdown.High++
		case models.SeverityMedium:
			breakdown.Medium++
		case models.SeverityLow:
			breakdown.Low++
		case models.SeverityInfo:
			breakdown.Info++
		}
	}

	var summary models.AssetSummary
	summary.Total = len(assets)
	for _, a := range assets {
		if a.Status == models.AssetStatusOffline {
			summary.Offline++
		}
		if len(a.Vulnerabilities) > 0 {
			summary.Vulnerable++
		}
	}

	recs := report.Recommend(breakdown, summary, fallbackRecommendationCap)
	var b strings.Builder
	b.WriteString("Recommended next steps:\n")
	for i, rec := range recs {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
	}
	return strings.TrimRight(b.String(), "\n")
}
