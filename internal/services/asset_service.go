package services

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/models"
)

// AssetServiceProvider defines the interface for asset services.
type AssetServiceProvider interface {
	GetAssetsForClient(clientID string) ([]models.Asset, error)
	GetAssetByID(id string) (models.Asset, error)
	CreateAsset(asset models.Asset) (models.Asset, error)
	UpdateAsset(id string, asset models.Asset) (models.Asset, error)
	DeleteAsset(id string) error
}

// AssetService provides business logic for asset inventory management.
type AssetService struct {
	db *sql.DB
}

// NewAssetService creates a new AssetService.
func NewAssetService(db *sql.DB) *AssetService {
	return &AssetService{db: db}
}

// GetAssetsForClient lists a tenant's assets, newest first.
func (s *AssetService) GetAssetsForClient(clientID string) ([]models.Asset, error) {
	rows, err := s.db.Query(`
		SELECT id, client_id, name, ip_address, status, vulnerabilities_json, created_at
		FROM assets WHERE client_id = ? ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// GetAssetByID retrieves a single asset.
func (s *AssetService) GetAssetByID(id string) (models.Asset, error) {
	row := s.db.QueryRow(`
		SELECT id, client_id, name, ip_address, status, vulnerabilities_json, created_at
		FROM assets WHERE id = ?`, id)
	asset, err := scanAsset(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Asset{}, fmt.Errorf("asset with ID %s not found", id)
		}
		return models.Asset{}, err
	}
	return asset, nil
}

// CreateAsset registers a new asset for a tenant.
func (s *AssetService) CreateAsset(asset models.Asset) (models.Asset, error) {
	if !models.ValidAssetStatus(asset.Status) {
		return models.Asset{}, fmt.Errorf("invalid asset status %q", asset.Status)
	}

	vulnsJSON, err := json.Marshal(asset.Vulnerabilities)
	if err != nil {
		return models.Asset{}, fmt.Errorf("failed to encode vulnerabilities: %w", err)
	}

	asset.ID = uuid.New().String()

	stmt, err := s.db.Prepare(`
		INSERT INTO assets (id, client_id, name, ip_address, status, vulnerabilities_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Asset{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(asset.ID, asset.ClientID, asset.Name, asset.IPAddress, asset.Status, string(vulnsJSON)); err != nil {
		return models.Asset{}, err
	}
	return s.GetAssetByID(asset.ID)
}

// UpdateAsset updates an asset's details and vulnerability list.
func (s *AssetService) UpdateAsset(id string, asset models.Asset) (models.Asset, error) {
	if !models.ValidAssetStatus(asset.Status) {
		return models.Asset{}, fmt.Errorf("invalid asset status %q", asset.Status)
	}

	vulnsJSON, err := json.Marshal(asset.Vulnerabilities)
	if err != nil {
		return models.Asset{}, fmt.Errorf("failed to encode vulnerabilities: %w", err)
	}

	stmt, err := s.db.Prepare(`
		UPDATE assets SET name = ?, ip_address = ?, status = ?, vulnerabilities_json = ? WHERE id = ?`)
	if err != nil {
		return models.Asset{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(asset.Name, asset.IPAddress, asset.Status, string(vulnsJSON), id); err != nil {
		return models.Asset{}, err
	}
	return s.GetAssetByID(id)
}

// DeleteAsset removes an asset.
func (s *AssetService) DeleteAsset(id string) error {
	_, err := s.db.Exec("DELETE FROM assets WHERE id = ?", id)
	return err
}

func scanAsset(row rowScanner) (models.Asset, error) {
	var asset models.Asset
	var vulnsJSON sql.NullString
	if err := row.Scan(&asset.ID, &asset.ClientID, &asset.Name, &asset.IPAddress, &asset.Status, &vulnsJSON, &asset.CreatedAt); err != nil {
		return models.Asset{}, err
	}

	asset.Vulnerabilities = []models.Vulnerability{}
	if vulnsJSON.Valid && vulnsJSON.String != "" {
		if err := json.Unmarshal([]byte(vulnsJSON.String), &asset.Vulnerabilities); err != nil {
			// A malformed payload must not make downstream aggregation panic
			log.Warn().Str("asset_id", asset.ID).Err(err).Msg("Malformed vulnerability list, treating as empty")
			asset.Vulnerabilities = []models.Vulnerability{}
		}
	}
	return asset, nil
}
