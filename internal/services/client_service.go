package services

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/models"
)

// ClientServiceProvider defines the interface for client (tenant) services.
type ClientServiceProvider interface {
	GetAllClients() ([]models.Client, error)
	GetClientByID(id string) (models.Client, error)
	CreateClient(name, contactEmail string, settings models.ClientSettings) (models.Client, error)
	UpdateClient(id string, client models.Client) (models.Client, error)
	DeleteClient(id string) error
}

// ClientService provides business logic for tenant management.
type ClientService struct {
	db *sql.DB
}

// NewClientService creates a new ClientService.
func NewClientService(db *sql.DB) *ClientService {
	return &ClientService{db: db}
}

// GetAllClients lists every tenant, newest first.
func (s *ClientService) GetAllClients() ([]models.Client, error) {
	rows, err := s.db.Query(`
		SELECT id, name, contact_email, settings_json, created_at
		FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// GetClientByID retrieves a single tenant.
func (s *ClientService) GetClientByID(id string) (models.Client, error) {
	row := s.db.QueryRow(`
		SELECT id, name, contact_email, settings_json, created_at
		FROM clients WHERE id = ?`, id)
	client, err := scanClient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Client{}, fmt.Errorf("client with ID %s not found", id)
		}
		return models.Client{}, err
	}
	return client, nil
}

// CreateClient registers a new tenant.
func (s *ClientService) CreateClient(name, contactEmail string, settings models.ClientSettings) (models.Client, error) {
	if settings == (models.ClientSettings{}) {
		settings = models.DefaultClientSettings()
	}
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to encode settings: %w", err)
	}

	client := models.Client{
		ID:           uuid.New().String(),
		Name:         name,
		ContactEmail: contactEmail,
		Settings:     settings,
	}

	stmt, err := s.db.Prepare("INSERT INTO clients (id, name, contact_email, settings_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return models.Client{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(client.ID, client.Name, client.ContactEmail, string(settingsJSON)); err != nil {
		return models.Client{}, err
	}
	return s.GetClientByID(client.ID)
}

// UpdateClient updates a tenant's name, contact and settings.
func (s *ClientService) UpdateClient(id string, client models.Client) (models.Client, error) {
	settingsJSON, err := json.Marshal(client.Settings)
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to encode settings: %w", err)
	}

	stmt, err := s.db.Prepare("UPDATE clients SET name = ?, contact_email = ?, settings_json = ? WHERE id = ?")
	if err != nil {
		return models.Client{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(client.Name, client.ContactEmail, string(settingsJSON), id); err != nil {
		return models.Client{}, err
	}
	return s.GetClientByID(id)
}

// DeleteClient removes a tenant. Assets and events cascade via foreign keys.
func (s *ClientService) DeleteClient(id string) error {
	_, err := s.db.Exec("DELETE FROM clients WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (models.Client, error) {
	var client models.Client
	var settingsJSON sql.NullString
	if err := row.Scan(&client.ID, &client.Name, &client.ContactEmail, &settingsJSON, &client.CreatedAt); err != nil {
		return models.Client{}, err
	}

	client.Settings = models.DefaultClientSettings()
	if settingsJSON.Valid && settingsJSON.String != "" {
		if err := json.Unmarshal([]byte(settingsJSON.String), &client.Settings); err != nil {
			// Malformed settings fall back to defaults instead of failing the row
			log.Warn().Str("client_id", client.ID).Err(err).Msg("Malformed client settings, using defaults")
			client.Settings = models.DefaultClientSettings()
		}
	}
	return client, nil
}
