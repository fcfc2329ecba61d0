package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"yieldbook/contexts/yield-core/asset-registry-service/domain/entities"
	domainerrors "yieldbook/contexts/yield-core/asset-registry-service/domain/errors"
	"yieldbook/contexts/yield-core/asset-registry-service/ports"
)

const (
	defaultCostCeilingUnits  = 500
	defaultPerOwnerCostUnits = 10
)

type Store struct {
	mu sync.RWMutex

	assets map[string]entities.Asset
	policy entities.DistributionPolicy
}

func NewStore(adminID string) *Store {
	return &Store{
		assets: make(map[string]entities.Asset),
		policy: entities.DistributionPolicy{
			AdminID:           strings.TrimSpace(adminID),
			CostCeilingUnits:  defaultCostCeilingUnits,
			PerOwnerCostUnits: defaultPerOwnerCostUnits,
			UpdatedAt:         time.Now().UTC(),
		},
	}
}

func (s *Store) CreateAsset(_ context.Context, asset entities.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assets[asset.ID]; exists {
		return domainerrors.ErrAssetExists
	}
	s.assets[asset.ID] = asset
	return nil
}

func (s *Store) GetAsset(_ context.Context, assetID string) (entities.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	asset, exists := s.assets[strings.TrimSpace(assetID)]
	if !exists {
		return entities.Asset{}, domainerrors.ErrAssetNotFound
	}
	return asset, nil
}

func (s *Store) ListAssets(_ context.Context) ([]entities.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assets := make([]entities.Asset, 0, len(s.assets))
	for _, asset := range s.assets {
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].ID < assets[j].ID
	})
	return assets, nil
}

func (s *Store) SetAssetActive(_ context.Context, assetID string, active bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, exists := s.assets[assetID]
	if !exists {
		return domainerrors.ErrAssetNotFound
	}
	asset.Active = active
	asset.UpdatedAt = at.UTC()
	s.assets[assetID] = asset
	return nil
}

func (s *Store) TouchDistribution(_ context.Context, assetID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, exists := s.assets[assetID]
	if !exists {
		return domainerrors.ErrAssetNotFound
	}
	touched := at.UTC()
	asset.LastDistributionAt = &touched
	asset.UpdatedAt = touched
	s.assets[assetID] = asset
	return nil
}

func (s *Store) GetPolicy(_ context.Context) (entities.DistributionPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy, nil
}

func (s *Store) SavePolicy(_ context.Context, policy entities.DistributionPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = policy
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
