package ports

import (
	"context"
	"time"

	"yieldbook/contexts/yield-core/asset-registry-service/domain/entities"
)

// Repository owns asset rows and the distribution policy record.
type Repository interface {
	CreateAsset(ctx context.Context, asset entities.Asset) error
	GetAsset(ctx context.Context, assetID string) (entities.Asset, error)
	ListAssets(ctx context.Context) ([]entities.Asset, error)
	SetAssetActive(ctx context.Context, assetID string, active bool, at time.Time) error
	TouchDistribution(ctx context.Context, assetID string, at time.Time) error

	GetPolicy(ctx context.Context) (entities.DistributionPolicy, error)
	SavePolicy(ctx context.Context, policy entities.DistributionPolicy) error
}

type Clock interface {
	Now() time.Time
}
