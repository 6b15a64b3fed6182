package models

import "time"

// ReportSchedule describes a recurring PDF report generation job for a client.
type ReportSchedule struct {
	ID             string     `json:"id"`
	ClientID       string     `json:"clientId"`
	Name           string     `json:"name"`
	CronExpression string     `json:"cronExpression"`
	WindowDays     int        `json:"windowDays"` // trailing window the report covers
	Active         bool       `json:"active"`
	LastRunAt      *time.Time `json:"lastRunAt,omitempty"`
	NextRunAt      *time.Time `json:"nextRunAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
