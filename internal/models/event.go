package models

import "time"

// Severity buckets for security events and vulnerabilities.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

// Analyst classification labels (true/false positive/negative).
const (
	LabelTruePositive  = "TP"
	LabelTrueNegative  = "TN"
	LabelFalsePositive = "FP"
	LabelFalseNegative = "FN"
)

// Event represents a single detected security occurrence for a client.
type Event struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Timestamp time.Time `json:"timestamp"`
	Severity  string    `json:"severity"` // critical, high, medium, low, info or empty
	Type      string    `json:"type"`
	AlertName string    `json:"alertName"`
	Host      string    `json:"host"`
	Label     string    `json:"label"` // TP, TN, FP, FN or empty when unclassified
	Status    string    `json:"status"`
	Comments  string    `json:"comments"`

	// Optional forensic attributes, carried through unvalidated.
	ProcessName     *string `json:"processName,omitempty"`
	ProcessPath     *string `json:"processPath,omitempty"`
	FileHash        *string `json:"fileHash,omitempty"`
	SourceIP        *string `json:"sourceIp,omitempty"`
	SourcePort      *int    `json:"sourcePort,omitempty"`
	DestinationIP   *string `json:"destinationIp,omitempty"`
	DestinationPort *int    `json:"destinationPort,omitempty"`
	Protocol        *string `json:"protocol,omitempty"`
	RegistryKey     *string `json:"registryKey,omitempty"`
	MitreTactic     *string `json:"mitreTactic,omitempty"`
	MitreTechnique  *string `json:"mitreTechnique,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// ValidSeverity reports whether s is one of the five severity buckets. The
// empty string is allowed on rows (unspecified) but excluded here.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

// ValidLabel reports whether l is one of the four classification labels.
func ValidLabel(l string) bool {
	switch l {
	case LabelTruePositive, LabelTrueNegative, LabelFalsePositive, LabelFalseNegative:
		return true
	}
	return false
}
