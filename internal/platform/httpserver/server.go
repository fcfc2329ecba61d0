package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	assetregistry "yieldbook/contexts/yield-core/asset-registry-service"
	registryerrors "yieldbook/contexts/yield-core/asset-registry-service/domain/errors"
	registryhttp "yieldbook/contexts/yield-core/asset-registry-service/transport/http"
	distributionledger "yieldbook/contexts/yield-core/distribution-ledger-service"
	ledgererrors "yieldbook/contexts/yield-core/distribution-ledger-service/domain/errors"
	ledgerhttp "yieldbook/contexts/yield-core/distribution-ledger-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "yieldbook/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	registry assetregistry.Module
	ledger   distributionledger.Module
}

func New(
	registry assetregistry.Module,
	ledger distributionledger.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		registry: registry,
		ledger:   ledger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/assets", s.handleRegisterAsset)
	s.mux.HandleFunc("GET /v1/assets", s.handleListAssets)
	s.mux.HandleFunc("GET /v1/assets/{asset_id}", s.handleGetAsset)
	s.mux.HandleFunc("POST /v1/assets/{asset_id}/active", s.handleSetAssetActive)
	s.mux.HandleFunc("GET /v1/policy", s.handleGetPolicy)
	s.mux.HandleFunc("PUT /v1/policy/ceiling", s.handleSetCostCeiling)
	s.mux.HandleFunc("POST /v1/policy/admin", s.handleTransferAdmin)

	s.mux.HandleFunc("POST /v1/assets/{asset_id}/periods", s.handlePostIncome)
	s.mux.HandleFunc("GET /v1/assets/{asset_id}/periods", s.handleListPeriods)
	s.mux.HandleFunc("GET /v1/assets/{asset_id}/periods/{period}", s.handleGetPeriod)
	s.mux.HandleFunc("POST /v1/assets/{asset_id}/periods/{period}/claim", s.handleClaimPeriod)
	s.mux.HandleFunc("POST /v1/assets/{asset_id}/periods/{period}/accrue", s.handleAccrue)
	s.mux.HandleFunc("POST /v1/assets/{asset_id}/periods/{period}/settle", s.handleSettlePeriod)
	s.mux.HandleFunc("POST /v1/assets/{asset_id}/claims", s.handleClaimAll)
	s.mux.HandleFunc("POST /v1/assets/{asset_id}/distribute", s.handleAutoDistribute)
	s.mux.HandleFunc("GET /v1/assets/{asset_id}/owners/{owner_id}/unclaimed", s.handleUnclaimed)
	s.mux.HandleFunc("GET /v1/assets/{asset_id}/owners/{owner_id}/claims", s.handleListClaims)
	s.mux.HandleFunc("GET /v1/assets/{asset_id}/owners/{owner_id}/periods/{period}/claim", s.handleClaimExists)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrUnauthorizedAdmin):
		writeRegistryError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, registryerrors.ErrAssetNotFound):
		writeRegistryError(w, http.StatusNotFound, "asset_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrAssetExists):
		writeRegistryError(w, http.StatusConflict, "asset_exists", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidAssetInput),
		errors.Is(err, registryerrors.ErrInvalidPolicyInput):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrUnauthorizedAdmin):
		writeLedgerError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, ledgererrors.ErrAssetNotFound),
		errors.Is(err, ledgererrors.ErrPeriodNotFound):
		writeLedgerError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrAssetInactive):
		writeLedgerError(w, http.StatusConflict, "asset_inactive", err.Error())
	case errors.Is(err, ledgererrors.ErrPeriodExists):
		writeLedgerError(w, http.StatusConflict, "period_exists", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadyClaimed):
		writeLedgerError(w, http.StatusConflict, "already_claimed", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadyAccrued):
		writeLedgerError(w, http.StatusConflict, "already_accrued", err.Error())
	case errors.Is(err, ledgererrors.ErrNoYieldAvailable):
		writeLedgerError(w, http.StatusConflict, "no_yield_available", err.Error())
	case errors.Is(err, ledgererrors.ErrNoShareBalance),
		errors.Is(err, ledgererrors.ErrInvalidLedgerInput):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrCostCeilingExceeded):
		writeLedgerError(w, http.StatusUnprocessableEntity, "cost_ceiling_exceeded", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func adminID(r *http.Request) string {
	return r.Header.Get("X-Admin-Id")
}

func ownerID(r *http.Request) string {
	return r.Header.Get("X-Owner-Id")
}
