package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"yieldbook/contexts/yield-core/asset-registry-service/domain/entities"
	domainerrors "yieldbook/contexts/yield-core/asset-registry-service/domain/errors"
	"yieldbook/contexts/yield-core/asset-registry-service/ports"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (s Service) RegisterAsset(
	ctx context.Context,
	adminID string,
	assetID string,
	totalShares int64,
) (entities.Asset, error) {
	logger := ResolveLogger(s.Logger)
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return entities.Asset{}, err
	}

	assetID = strings.TrimSpace(assetID)
	if assetID == "" || totalShares <= 0 {
		logger.Warn("asset registration invalid input",
			"event", "asset_register_invalid_input",
			"module", "yield-core/asset-registry-service",
			"layer", "application",
			"asset_id", assetID,
			"total_shares", totalShares,
		)
		return entities.Asset{}, domainerrors.ErrInvalidAssetInput
	}

	now := s.now()
	asset := entities.Asset{
		ID:          assetID,
		TotalShares: totalShares,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.CreateAsset(ctx, asset); err != nil {
		if err == domainerrors.ErrAssetExists {
			logger.Warn("asset already registered",
				"event", "asset_register_duplicate",
				"module", "yield-core/asset-registry-service",
				"layer", "application",
				"asset_id", assetID,
			)
			return entities.Asset{}, err
		}
		logger.Error("asset registration failed",
			"event", "asset_register_failed",
			"module", "yield-core/asset-registry-service",
			"layer", "application",
			"asset_id", assetID,
			"error", err.Error(),
		)
		return entities.Asset{}, err
	}

	logger.Info("asset registered",
		"event", "asset_registered",
		"module", "yield-core/asset-registry-service",
		"layer", "application",
		"asset_id", assetID,
		"total_shares", totalShares,
	)
	return asset, nil
}

func (s Service) SetActive(ctx context.Context, adminID string, assetID string, active bool) error {
	logger := ResolveLogger(s.Logger)
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}

	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return domainerrors.ErrInvalidAssetInput
	}
	if err := s.Repo.SetAssetActive(ctx, assetID, active, s.now()); err != nil {
		logger.Warn("asset active flag update failed",
			"event", "asset_set_active_failed",
			"module", "yield-core/asset-registry-service",
			"layer", "application",
			"asset_id", assetID,
			"active", active,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("asset active flag updated",
		"event", "asset_set_active",
		"module", "yield-core/asset-registry-service",
		"layer", "application",
		"asset_id", assetID,
		"active", active,
	)
	return nil
}

func (s Service) GetAsset(ctx context.Context, assetID string) (entities.Asset, error) {
	return s.Repo.GetAsset(ctx, strings.TrimSpace(assetID))
}

func (s Service) ListAssets(ctx context.Context) ([]entities.Asset, error) {
	return s.Repo.ListAssets(ctx)
}

// TouchDistribution records the completion time of a batch distribution.
// Invoked by the distribution ledger through its AssetDirectory port.
func (s Service) TouchDistribution(ctx context.Context, assetID string, at time.Time) error {
	return s.Repo.TouchDistribution(ctx, strings.TrimSpace(assetID), at.UTC())
}

func (s Service) Policy(ctx context.Context) (entities.DistributionPolicy, error) {
	return s.Repo.GetPolicy(ctx)
}

func (s Service) SetCostCeiling(ctx context.Context, adminID string, units int64) (entities.DistributionPolicy, error) {
	logger := ResolveLogger(s.Logger)
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return entities.DistributionPolicy{}, err
	}
	if units <= 0 {
		return entities.DistributionPolicy{}, domainerrors.ErrInvalidPolicyInput
	}

	policy, err := s.Repo.GetPolicy(ctx)
	if err != nil {
		return entities.DistributionPolicy{}, err
	}
	policy.CostCeilingUnits = units
	policy.UpdatedAt = s.now()
	if err := s.Repo.SavePolicy(ctx, policy); err != nil {
		logger.Error("cost ceiling update failed",
			"event", "policy_set_ceiling_failed",
			"module", "yield-core/asset-registry-service",
			"layer", "application",
			"ceiling_units", units,
			"error", err.Error(),
		)
		return entities.DistributionPolicy{}, err
	}
	logger.Info("cost ceiling updated",
		"event", "policy_set_ceiling",
		"module", "yield-core/asset-registry-service",
		"layer", "application",
		"ceiling_units", units,
	)
	return policy, nil
}

func (s Service) TransferAdmin(ctx context.Context, adminID string, newAdminID string) (entities.DistributionPolicy, error) {
	logger := ResolveLogger(s.Logger)
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return entities.DistributionPolicy{}, err
	}
	newAdminID = strings.TrimSpace(newAdminID)
	if newAdminID == "" {
		return entities.DistributionPolicy{}, domainerrors.ErrInvalidPolicyInput
	}

	policy, err := s.Repo.GetPolicy(ctx)
	if err != nil {
		return entities.DistributionPolicy{}, err
	}
	previous := policy.AdminID
	policy.AdminID = newAdminID
	policy.UpdatedAt = s.now()
	if err := s.Repo.SavePolicy(ctx, policy); err != nil {
		logger.Error("admin transfer failed",
			"event", "policy_transfer_admin_failed",
			"module", "yield-core/asset-registry-service",
			"layer", "application",
			"new_admin_id", newAdminID,
			"error", err.Error(),
		)
		return entities.DistributionPolicy{}, err
	}
	logger.Info("distribution admin transferred",
		"event", "policy_admin_transferred",
		"module", "yield-core/asset-registry-service",
		"layer", "application",
		"previous_admin_id", previous,
		"new_admin_id", newAdminID,
	)
	return policy, nil
}

func (s Service) requireAdmin(ctx context.Context, adminID string) error {
	policy, err := s.Repo.GetPolicy(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(adminID) == "" || strings.TrimSpace(adminID) != policy.AdminID {
		ResolveLogger(s.Logger).Warn("admin check rejected caller",
			"event", "asset_registry_unauthorized",
			"module", "yield-core/asset-registry-service",
			"layer", "application",
			"caller_id", strings.TrimSpace(adminID),
		)
		return domainerrors.ErrUnauthorizedAdmin
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
