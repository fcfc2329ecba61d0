package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"yieldbook/contexts/yield-core/asset-registry-service/domain/entities"
	domainerrors "yieldbook/contexts/yield-core/asset-registry-service/domain/errors"
	"yieldbook/contexts/yield-core/asset-registry-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// policyRowID pins the distribution policy to a single row.
const policyRowID = "distribution-policy"

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateAsset(ctx context.Context, asset entities.Asset) error {
	if strings.TrimSpace(asset.ID) == "" || asset.TotalShares <= 0 {
		return domainerrors.ErrInvalidAssetInput
	}

	row := assetModelFromEntity(asset)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn("asset insert unique conflict",
				"event", "asset_repo_create_unique_conflict",
				"module", "yield-core/asset-registry-service",
				"layer", "adapter",
				"asset_id", asset.ID,
			)
			return domainerrors.ErrAssetExists
		}
		return r.logError("asset_repo_create_failed", err, "asset_id", asset.ID)
	}
	return nil
}

func (r *Repository) GetAsset(ctx context.Context, assetID string) (entities.Asset, error) {
	var row assetModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(assetID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Asset{}, domainerrors.ErrAssetNotFound
		}
		return entities.Asset{}, r.logError("asset_repo_get_failed", err, "asset_id", strings.TrimSpace(assetID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListAssets(ctx context.Context) ([]entities.Asset, error) {
	var rows []assetModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("asset_repo_list_failed", err)
	}
	assets := make([]entities.Asset, 0, len(rows))
	for _, row := range rows {
		assets = append(assets, row.toEntity())
	}
	return assets, nil
}

func (r *Repository) SetAssetActive(ctx context.Context, assetID string, active bool, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&assetModel{}).
		Where("id = ?", strings.TrimSpace(assetID)).
		Updates(map[string]any{
			"active":     active,
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return r.logError("asset_repo_set_active_failed", result.Error, "asset_id", strings.TrimSpace(assetID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAssetNotFound
	}
	return nil
}

func (r *Repository) TouchDistribution(ctx context.Context, assetID string, at time.Time) error {
	touched := at.UTC()
	result := r.db.WithContext(ctx).
		Model(&assetModel{}).
		Where("id = ?", strings.TrimSpace(assetID)).
		Updates(map[string]any{
			"last_distribution_at": &touched,
			"updated_at":           touched,
		})
	if result.Error != nil {
		return r.logError("asset_repo_touch_distribution_failed", result.Error, "asset_id", strings.TrimSpace(assetID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAssetNotFound
	}
	return nil
}

func (r *Repository) GetPolicy(ctx context.Context) (entities.DistributionPolicy, error) {
	var row policyModel
	err := r.db.WithContext(ctx).
		Where("id = ?", policyRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Bootstrap seeds the policy row; an empty table means the
			// process is misconfigured rather than a domain-level miss.
			return entities.DistributionPolicy{}, r.logError("asset_repo_policy_missing", err)
		}
		return entities.DistributionPolicy{}, r.logError("asset_repo_get_policy_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) SavePolicy(ctx context.Context, policy entities.DistributionPolicy) error {
	row := policyModelFromEntity(policy)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"admin_id",
				"cost_ceiling_units",
				"per_owner_cost_units",
				"updated_at",
			}),
		}).
		Create(&row).
		Error
	if err != nil {
		return r.logError("asset_repo_save_policy_failed", err, "admin_id", policy.AdminID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "yield-core/asset-registry-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("asset registry repository failure", fields...)
	return err
}

type assetModel struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	TotalShares        int64      `gorm:"column:total_shares"`
	Active             bool       `gorm:"column:active"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	LastDistributionAt *time.Time `gorm:"column:last_distribution_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (assetModel) TableName() string {
	return "assets"
}

func assetModelFromEntity(asset entities.Asset) assetModel {
	return assetModel{
		ID:                 strings.TrimSpace(asset.ID),
		TotalShares:        asset.TotalShares,
		Active:             asset.Active,
		CreatedAt:          asset.CreatedAt.UTC(),
		LastDistributionAt: normalizeOptionalTime(asset.LastDistributionAt),
		UpdatedAt:          asset.UpdatedAt.UTC(),
	}
}

func (m assetModel) toEntity() entities.Asset {
	return entities.Asset{
		ID:                 m.ID,
		TotalShares:        m.TotalShares,
		Active:             m.Active,
		CreatedAt:          m.CreatedAt.UTC(),
		LastDistributionAt: normalizeOptionalTime(m.LastDistributionAt),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
}

type policyModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	AdminID           string    `gorm:"column:admin_id"`
	CostCeilingUnits  int64     `gorm:"column:cost_ceiling_units"`
	PerOwnerCostUnits int64     `gorm:"column:per_owner_cost_units"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (policyModel) TableName() string {
	return "distribution_policy"
}

func policyModelFromEntity(policy entities.DistributionPolicy) policyModel {
	return policyModel{
		ID:                policyRowID,
		AdminID:           strings.TrimSpace(policy.AdminID),
		CostCeilingUnits:  policy.CostCeilingUnits,
		PerOwnerCostUnits: policy.PerOwnerCostUnits,
		UpdatedAt:         policy.UpdatedAt.UTC(),
	}
}

func (m policyModel) toEntity() entities.DistributionPolicy {
	return entities.DistributionPolicy{
		AdminID:           m.AdminID,
		CostCeilingUnits:  m.CostCeilingUnits,
		PerOwnerCostUnits: m.PerOwnerCostUnits,
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	t := value.UTC()
	return &t
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
