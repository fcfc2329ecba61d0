package httpserver

import (
	"encoding/json"
	"net/http"

	ledgerhttp "yieldbook/contexts/yield-core/distribution-ledger-service/transport/http"
)

func (s *Server) handlePostIncome(w http.ResponseWriter, r *http.Request) {
	admin := adminID(r)
	if admin == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_admin", "X-Admin-Id header is required")
		return
	}

	var req ledgerhttp.PostIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	dto, err := s.ledger.Handler.PostIncomeHandler(r.Context(), admin, r.PathValue("asset_id"), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (s *Server) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ListPeriodsHandler(r.Context(), r.PathValue("asset_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	dto, err := s.ledger.Handler.GetPeriodHandler(r.Context(), r.PathValue("asset_id"), r.PathValue("period"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleClaimPeriod(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_owner", "X-Owner-Id header is required")
		return
	}

	dto, err := s.ledger.Handler.ClaimPeriodHandler(r.Context(), owner, r.PathValue("asset_id"), r.PathValue("period"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleAccrue(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.AccrueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	dto, err := s.ledger.Handler.AccrueHandler(r.Context(), r.PathValue("asset_id"), r.PathValue("period"), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleSettlePeriod(w http.ResponseWriter, r *http.Request) {
	admin := adminID(r)
	if admin == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_admin", "X-Admin-Id header is required")
		return
	}

	dto, err := s.ledger.Handler.SettlePeriodHandler(r.Context(), admin, r.PathValue("asset_id"), r.PathValue("period"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleClaimAll(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_owner", "X-Owner-Id header is required")
		return
	}

	resp, err := s.ledger.Handler.ClaimAllHandler(r.Context(), owner, r.PathValue("asset_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAutoDistribute(w http.ResponseWriter, r *http.Request) {
	admin := adminID(r)
	if admin == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_admin", "X-Admin-Id header is required")
		return
	}

	var req ledgerhttp.AutoDistributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	dto, err := s.ledger.Handler.AutoDistributeHandler(r.Context(), admin, r.PathValue("asset_id"), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleUnclaimed(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.UnclaimedHandler(r.Context(), r.PathValue("asset_id"), r.PathValue("owner_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClaimExists(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ClaimExistsHandler(
		r.Context(),
		r.PathValue("asset_id"),
		r.PathValue("owner_id"),
		r.PathValue("period"),
	)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ListClaimsHandler(r.Context(), r.PathValue("asset_id"), r.PathValue("owner_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
