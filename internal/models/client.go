package models

import "time"

// Client represents a tenant organization whose security data is viewed independently.
type Client struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	ContactEmail string         `json:"contactEmail"`
	Settings     ClientSettings `json:"settings"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// ClientSettings holds per-tenant preferences. Stored as JSON text in the
// database; missing or malformed settings fall back to DefaultClientSettings.
type ClientSettings struct {
	Timezone        string `json:"timezone"`
	ReportRecipient string `json:"reportRecipient"`
	RetentionDays   int    `json:"retentionDays"`
}

// DefaultClientSettings returns the settings applied when a client row has no
// stored settings payload.
func DefaultClientSettings() ClientSettings {
	return ClientSettings{
		Timezone:      "UTC",
		RetentionDays: 90,
	}
}
