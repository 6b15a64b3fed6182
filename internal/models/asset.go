package models

import "time"

// Asset status values.
const (
	AssetStatusOnline      = "online"
	AssetStatusOffline     = "offline"
	AssetStatusMaintenance = "maintenance"
)

// Asset represents a monitored host belonging to a client.
type Asset struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"clientId"`
	Name            string          `json:"name"`
	IPAddress       string          `json:"ipAddress"`
	Status          string          `json:"status"` // online, offline, maintenance
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Vulnerability is a single CVE finding attached to an asset.
type Vulnerability struct {
	CVEID       string `json:"cveId"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// ValidAssetStatus reports whether s is one of the enumerated asset states.
func ValidAssetStatus(s string) bool {
	switch s {
	case AssetStatusOnline, AssetStatusOffline, AssetStatusMaintenance:
		return true
	}
	return false
}

// CriticalVulnCount returns the number of critical-severity vulnerabilities
// on the asset.
func (a Asset) CriticalVulnCount() int {
	n := 0
	for _, v := range a.Vulnerabilities {
		if v.Severity == SeverityCritical {
			n++
		}
	}
	return n
}
