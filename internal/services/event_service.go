package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmoreau/argus-soc/internal/models"
)

// EventServiceProvider defines the interface for security event services.
type EventServiceProvider interface {
	GetEventsForClient(clientID string, limit int) ([]models.Event, error)
	GetEventsInWindow(clientID string, window models.ReportWindow) ([]models.Event, error)
	GetEventByID(id string) (models.Event, error)
	CreateEvent(event models.Event) (models.Event, error)
	UpdateEventClassification(id, label, status, comments string) (models.Event, error)
	DeleteEvent(id string) error
}

// EventService provides business logic for security event management.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

const eventColumns = `id, client_id, timestamp, severity, type, alert_name, host, label, status, comments,
	process_name, process_path, file_hash, source_ip, source_port, destination_ip, destination_port,
	protocol, registry_key, mitre_tactic, mitre_technique, created_at`

// GetEventsForClient lists a tenant's events, newest first.
func (s *EventService) GetEventsForClient(clientID string, limit int) ([]models.Event, error) {
	rows, err := s.db.Query(
		"SELECT "+eventColumns+" FROM events WHERE client_id = ? ORDER BY timestamp DESC LIMIT ?",
		clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// GetEventsInWindow lists a tenant's events inside the inclusive window,
// newest first.
func (s *EventService) GetEventsInWindow(clientID string, window models.ReportWindow) ([]models.Event, error) {
	rows, err := s.db.Query(
		"SELECT "+eventColumns+" FROM events WHERE client_id = ? AND timestamp >= ? AND timestamp <= ? ORDER BY timestamp DESC",
		clientID, window.From, window.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// GetEventByID retrieves a single event.
func (s *EventService) GetEventByID(id string) (models.Event, error) {
	row := s.db.QueryRow("SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	event, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Event{}, fmt.Errorf("event with ID %s not found", id)
		}
		return models.Event{}, err
	}
	return event, nil
}

// CreateEvent records a new security event. The severity and label, when set,
// must be valid enumeration values.
func (s *EventService) CreateEvent(event models.Event) (models.Event, error) {
	if event.Severity != "" && !models.ValidSeverity(event.Severity) {
		return models.Event{}, fmt.Errorf("invalid severity %q", event.Severity)
	}
	if event.Label != "" && !models.ValidLabel(event.Label) {
		return models.Event{}, fmt.Errorf("invalid classification label %q", event.Label)
	}

	event.ID = uuid.New().String()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO events (id, client_id, timestamp, severity, type, alert_name, host, label, status, comments,
			process_name, process_path, file_hash, source_ip, source_port, destination_ip, destination_port,
			protocol, registry_key, mitre_tactic, mitre_technique)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Event{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(event.ID, event.ClientID, event.Timestamp, event.Severity, event.Type, event.AlertName,
		event.Host, event.Label, event.Status, event.Comments,
		event.ProcessName, event.ProcessPath, event.FileHash, event.SourceIP, event.SourcePort,
		event.DestinationIP, event.DestinationPort, event.Protocol, event.RegistryKey,
		event.MitreTactic, event.MitreTechnique)
	if err != nil {
		return models.Event{}, err
	}
	return s.GetEventByID(event.ID)
}

// UpdateEventClassification sets the analyst classification for an event.
func (s *EventService) UpdateEventClassification(id, label, status, comments string) (models.Event, error) {
	if label != "" && !models.ValidLabel(label) {
		return models.Event{}, fmt.Errorf("invalid classification label %q", label)
	}

	_, err := s.db.Exec("UPDATE events SET label = ?, status = ?, comments = ? WHERE id = ?",
		label, status, comments, id)
	if err != nil {
		return models.Event{}, err
	}
	return s.GetEventByID(id)
}

// DeleteEvent removes an event.
func (s *EventService) DeleteEvent(id string) error {
	_, err := s.db.Exec("DELETE FROM events WHERE id = ?", id)
	return err
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(row rowScanner) (models.Event, error) {
	var e models.Event
	var severity, eventType, alertName, host, label, status, comments sql.NullString
	err := row.Scan(&e.ID, &e.ClientID, &e.Timestamp, &severity, &eventType, &alertName, &host, &label,
		&status, &comments,
		&e.ProcessName, &e.ProcessPath, &e.FileHash, &e.SourceIP, &e.SourcePort,
		&e.DestinationIP, &e.DestinationPort, &e.Protocol, &e.RegistryKey,
		&e.MitreTactic, &e.MitreTechnique, &e.CreatedAt)
	if err != nil {
		return models.Event{}, err
	}
	e.Severity = severity.String
	e.Type = eventType.String
	e.AlertName = alertName.String
	e.Host = host.String
	e.Label = label.String
	e.Status = status.String
	e.Comments = comments.String
	return e, nil
}
