package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/models"
	"github.com/nmoreau/argus-soc/internal/services"
)

// AssetHandler handles HTTP requests for the asset inventory.
type AssetHandler struct {
	service services.AssetServiceProvider
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(service services.AssetServiceProvider) *AssetHandler {
	return &AssetHandler{service: service}
}

// GetForClient lists the assets of one tenant.
func (h *AssetHandler) GetForClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	assets, err := h.service.GetAssetsForClient(clientID)
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to list assets")
		http.Error(w, "Failed to retrieve assets", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, assets)
}

// Create registers an asset under a tenant.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	var asset models.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	asset.ClientID = clientID

	created, err := h.service.CreateAsset(asset)
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to create asset")
		http.Error(w, "Failed to create asset: "+err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update modifies an asset.
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetId")
	var asset models.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateAsset(assetID, asset)
	if err != nil {
		log.Error().Err(err).Str("asset_id", assetID).Msg("Failed to update asset")
		http.Error(w, "Failed to update asset: "+err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes an asset.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetId")
	if err := h.service.DeleteAsset(assetID); err != nil {
		log.Error().Err(err).Str("asset_id", assetID).Msg("Failed to delete asset")
		http.Error(w, "Failed to delete asset", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
