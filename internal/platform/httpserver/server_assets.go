package httpserver

import (
	"encoding/json"
	"net/http"

	registryhttp "yieldbook/contexts/yield-core/asset-registry-service/transport/http"
)

func (s *Server) handleRegisterAsset(w http.ResponseWriter, r *http.Request) {
	admin := adminID(r)
	if admin == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_admin", "X-Admin-Id header is required")
		return
	}

	var req registryhttp.RegisterAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	dto, err := s.registry.Handler.RegisterAssetHandler(r.Context(), admin, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.ListAssetsHandler(r.Context())
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	dto, err := s.registry.Handler.GetAssetHandler(r.Context(), r.PathValue("asset_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleSetAssetActive(w http.ResponseWriter, r *http.Request) {
	admin := adminID(r)
	if admin == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_admin", "X-Admin-Id header is required")
		return
	}

	var req registryhttp.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	dto, err := s.registry.Handler.SetActiveHandler(r.Context(), admin, r.PathValue("asset_id"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	dto, err := s.registry.Handler.GetPolicyHandler(r.Context())
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleSetCostCeiling(w http.ResponseWriter, r *http.Request) {
	admin := adminID(r)
	if admin == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_admin", "X-Admin-Id header is required")
		return
	}

	var req registryhttp.SetCostCeilingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	dto, err := s.registry.Handler.SetCostCeilingHandler(r.Context(), admin, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleTransferAdmin(w http.ResponseWriter, r *http.Request) {
	admin := adminID(r)
	if admin == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_admin", "X-Admin-Id header is required")
		return
	}

	var req registryhttp.TransferAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	dto, err := s.registry.Handler.TransferAdminHandler(r.Context(), admin, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}
