package report

import "github.com/nmoreau/argus-soc/internal/models"

// Advisory strings appended when their thresholds are met, in fixed order.
const (
	recCriticalAttention  = "Immediate attention required: critical severity events detected in the reporting period"
	recPatchVulnerable    = "Schedule patching for assets with known vulnerabilities"
	recInvestigateOffline = "Investigate offline assets to confirm they are not compromised or misconfigured"
	recReviewRules        = "High volume of high severity alerts: review detection and monitoring rules for tuning"
)

// generalAdvice is always appended after the conditional items.
var generalAdvice = []string{
	"Maintain a regular vulnerability scanning cadence across all monitored assets",
	"Review and update incident response procedures",
	"Ensure security awareness training is current for all staff",
}

// highAlertThreshold is the high-severity count above which rule tuning is
// recommended.
const highAlertThreshold = 5

// Recommend builds the ordered advisory list for a report. Conditional items
// are appended first when their thresholds are met, followed by the fixed
// general-advice tail. A max of 0 leaves the list uncapped; the chat
// assistant uses max=5.
func Recommend(b models.SeverityBreakdown, assets models.AssetSummary, max int) []string {
	recs := make([]string, 0, 4+len(generalAdvice))
	if b.Critical > 0 {
		recs = append(recs, recCriticalAttention)
	}
	if assets.Vulnerable > 0 {
		recs = append(recs, recPatchVulnerable)
	}
	if assets.Offline > 0 {
		recs = append(recs, recInvestigateOffline)
	}
	if b.High > highAlertThreshold {
		recs = append(recs, recReviewRules)
	}
	recs = append(recs, generalAdvice...)
	if max > 0 && len(recs) > max {
		recs = recs[:max]
	}
	return recs
}
