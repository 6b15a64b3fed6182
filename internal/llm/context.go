package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nmoreau/argus-soc/internal/models"
)

// How many recent events and assets are summarized into the system context.
const (
	contextEventLimit = 5
	contextAssetLimit = 5
)

// BuildContext summarizes the client's current security posture into the text
// block prepended as system context to a completion request.
func BuildContext(events []models.Event, assets []models.Asset) string {
	var b strings.Builder

	b.WriteString("You are a security operations assistant for a SOC dashboard.\n")
	b.WriteString("Answer using the client data below. Be concise and factual.\n\n")
	b.WriteString(fmt.Sprintf("CURRENT DATA: %d security events, %d monitored assets\n\n", len(events), len(assets)))

	recent := make([]models.Event, len(events))
	copy(recent, events)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp)
	})
	if len(recent) > contextEventLimit {
		recent = recent[:contextEventLimit]
	}

	if len(recent) > 0 {
		b.WriteString("RECENT EVENTS:\n")
		for _, e := range recent {
			b.WriteString(fmt.Sprintf("- %s [%s] on %s at %s, status: %s",
				e.AlertName, e.Severity, e.Host, e.Timestamp.Format("2006-01-02 15:04"), e.Status))
			if e.Comments != "" {
				b.WriteString(fmt.Sprintf(" (%s)", e.Comments))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(assets) > 0 {
		b.WriteString("ASSETS:\n")
		shown := assets
		if len(shown) > contextAssetLimit {
			shown = shown[:contextAssetLimit]
		}
		for _, a := range shown {
			b.WriteString(fmt.Sprintf("- %s (%s) %s, %d vulnerabilities\n",
				a.Name, a.IPAddress, a.Status, len(a.Vulnerabilities)))
		}
		b.WriteString("\n")
	}

	highRisk := 0
	offline := 0
	for _, a := range assets {
		if a.CriticalVulnCount() > 0 {
			highRisk++
		}
		if a.Status == models.AssetStatusOffline {
			offline++
		}
	}
	if highRisk > 0 {
		b.WriteString(fmt.Sprintf("NOTE: %d assets carry critical vulnerabilities.\n", highRisk))
	}
	if offline > 0 {
		b.WriteString(fmt.Sprintf("NOTE: %d assets are currently offline.\n", offline))
	}

	return b.String()
}
