package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"yieldbook/contexts/yield-core/asset-registry-service/application"
	"yieldbook/contexts/yield-core/asset-registry-service/domain/entities"
	httptransport "yieldbook/contexts/yield-core/asset-registry-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterAssetHandler(
	ctx context.Context,
	adminID string,
	req httptransport.RegisterAssetRequest,
) (httptransport.AssetDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	asset, err := h.Service.RegisterAsset(ctx, adminID, req.AssetID, req.TotalShares)
	if err != nil {
		logger.Warn("asset registry http register failed",
			"event", "asset_registry_http_register_failed",
			"module", "yield-core/asset-registry-service",
			"layer", "adapter",
			"asset_id", strings.TrimSpace(req.AssetID),
			"error", err.Error(),
		)
		return httptransport.AssetDTO{}, err
	}
	return assetDTO(asset), nil
}

func (h Handler) SetActiveHandler(
	ctx context.Context,
	adminID string,
	assetID string,
	req httptransport.SetActiveRequest,
) (httptransport.AssetDTO, error) {
	if err := h.Service.SetActive(ctx, adminID, assetID, req.Active); err != nil {
		return httptransport.AssetDTO{}, err
	}
	asset, err := h.Service.GetAsset(ctx, assetID)
	if err != nil {
		return httptransport.AssetDTO{}, err
	}
	return assetDTO(asset), nil
}

func (h Handler) GetAssetHandler(ctx context.Context, assetID string) (httptransport.AssetDTO, error) {
	asset, err := h.Service.GetAsset(ctx, assetID)
	if err != nil {
		return httptransport.AssetDTO{}, err
	}
	return assetDTO(asset), nil
}

func (h Handler) ListAssetsHandler(ctx context.Context) (httptransport.ListAssetsResponse, error) {
	assets, err := h.Service.ListAssets(ctx)
	if err != nil {
		return httptransport.ListAssetsResponse{}, err
	}
	resp := httptransport.ListAssetsResponse{
		Assets: make([]httptransport.AssetDTO, 0, len(assets)),
	}
	for _, asset := range assets {
		resp.Assets = append(resp.Assets, assetDTO(asset))
	}
	return resp, nil
}

func (h Handler) GetPolicyHandler(ctx context.Context) (httptransport.PolicyDTO, error) {
	policy, err := h.Service.Policy(ctx)
	if err != nil {
		return httptransport.PolicyDTO{}, err
	}
	return policyDTO(policy), nil
}

func (h Handler) SetCostCeilingHandler(
	ctx context.Context,
	adminID string,
	req httptransport.SetCostCeilingRequest,
) (httptransport.PolicyDTO, error) {
	policy, err := h.Service.SetCostCeiling(ctx, adminID, req.CostCeilingUnits)
	if err != nil {
		return httptransport.PolicyDTO{}, err
	}
	return policyDTO(policy), nil
}

func (h Handler) TransferAdminHandler(
	ctx context.Context,
	adminID string,
	req httptransport.TransferAdminRequest,
) (httptransport.PolicyDTO, error) {
	policy, err := h.Service.TransferAdmin(ctx, adminID, req.NewAdminID)
	if err != nil {
		return httptransport.PolicyDTO{}, err
	}
	return policyDTO(policy), nil
}

func assetDTO(asset entities.Asset) httptransport.AssetDTO {
	dto := httptransport.AssetDTO{
		ID:          asset.ID,
		TotalShares: asset.TotalShares,
		Active:      asset.Active,
		CreatedAt:   asset.CreatedAt.UTC().Format(time.RFC3339),
	}
	if asset.LastDistributionAt != nil {
		dto.LastDistributionAt = asset.LastDistributionAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func policyDTO(policy entities.DistributionPolicy) httptransport.PolicyDTO {
	return httptransport.PolicyDTO{
		AdminID:           policy.AdminID,
		CostCeilingUnits:  policy.CostCeilingUnits,
		PerOwnerCostUnits: policy.PerOwnerCostUnits,
		UpdatedAt:         policy.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
