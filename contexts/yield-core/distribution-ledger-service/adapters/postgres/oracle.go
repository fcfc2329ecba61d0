package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"yieldbook/contexts/yield-core/distribution-ledger-service/ports"

	"gorm.io/gorm"
)

// BalanceOracle reads the share_balances projection maintained by the
// external ownership registry. The ledger never writes this table.
type BalanceOracle struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewBalanceOracle(db *gorm.DB, logger *slog.Logger) *BalanceOracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &BalanceOracle{
		db:     db,
		logger: logger,
	}
}

func (o *BalanceOracle) Balance(ctx context.Context, assetID string, ownerID string) (int64, error) {
	var row shareBalanceModel
	err := o.db.WithContext(ctx).
		Where("asset_id = ?", strings.TrimSpace(assetID)).
		Where("owner_id = ?", strings.TrimSpace(ownerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		o.logger.Error("share balance lookup failed",
			"event", "ledger_oracle_balance_failed",
			"module", "yield-core/distribution-ledger-service",
			"layer", "adapter",
			"asset_id", strings.TrimSpace(assetID),
			"owner_id", strings.TrimSpace(ownerID),
			"error", err.Error(),
		)
		return 0, err
	}
	return row.Balance, nil
}

type shareBalanceModel struct {
	AssetID string `gorm:"column:asset_id;primaryKey"`
	OwnerID string `gorm:"column:owner_id;primaryKey"`
	Balance int64  `gorm:"column:balance"`
}

func (shareBalanceModel) TableName() string {
	return "share_balances"
}

var _ ports.BalanceOracle = (*BalanceOracle)(nil)
