package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"yieldbook/contexts/yield-core/distribution-ledger-service/domain/entities"
	domainerrors "yieldbook/contexts/yield-core/distribution-ledger-service/domain/errors"
	"yieldbook/contexts/yield-core/distribution-ledger-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

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

func (r *Repository) CommitPeriod(ctx context.Context, period entities.Period, envelope ports.EventEnvelope) error {
	row := periodModelFromEntity(period)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrPeriodExists
			}
			return err
		}
		return appendOutboxTx(tx, envelope)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrPeriodExists) {
			return domainerrors.ErrPeriodExists
		}
		return r.logError("ledger_repo_commit_period_failed", err,
			"asset_id", period.AssetID,
			"period", period.Label,
		)
	}
	return nil
}

func (r *Repository) GetPeriod(ctx context.Context, assetID string, label string) (entities.Period, error) {
	var row periodModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", strings.TrimSpace(assetID)).
		Where("period_label = ?", strings.TrimSpace(label)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Period{}, domainerrors.ErrPeriodNotFound
		}
		return entities.Period{}, r.logError("ledger_repo_get_period_failed", err,
			"asset_id", strings.TrimSpace(assetID),
			"period", strings.TrimSpace(label),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPeriods(ctx context.Context, assetID string) ([]entities.Period, error) {
	var rows []periodModel
	if err := r.db.WithContext(ctx).
		Where("asset_id = ?", strings.TrimSpace(assetID)).
		Order("period_label ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_periods_failed", err, "asset_id", strings.TrimSpace(assetID))
	}
	periods := make([]entities.Period, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, row.toEntity())
	}
	return periods, nil
}

func (r *Repository) MarkPeriodSettled(ctx context.Context, assetID string, label string, at time.Time) error {
	settled := at.UTC()
	result := r.db.WithContext(ctx).
		Model(&periodModel{}).
		Where("asset_id = ?", strings.TrimSpace(assetID)).
		Where("period_label = ?", strings.TrimSpace(label)).
		Updates(map[string]any{
			"settled":    true,
			"settled_at": &settled,
		})
	if result.Error != nil {
		return r.logError("ledger_repo_settle_period_failed", result.Error,
			"asset_id", strings.TrimSpace(assetID),
			"period", strings.TrimSpace(label),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPeriodNotFound
	}
	return nil
}

func (r *Repository) CommitClaim(ctx context.Context, claim entities.ClaimRecord, envelope ports.EventEnvelope) error {
	row := claimModelFromEntity(claim)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The claim unique key only guards the pull path; an accrual mark
		// committed after the caller's entitlement check still owns the slot,
		// so re-check it inside the transaction.
		var markCount int64
		if err := tx.Model(&accrualMarkModel{}).
			Where("asset_id = ? AND owner_id = ? AND period_label = ?", claim.AssetID, claim.OwnerID, claim.PeriodLabel).
			Count(&markCount).Error; err != nil {
			return err
		}
		if markCount > 0 {
			return domainerrors.ErrAlreadyClaimed
		}

		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyClaimed
			}
			return err
		}
		return appendOutboxTx(tx, envelope)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyClaimed) {
			return domainerrors.ErrAlreadyClaimed
		}
		return r.logError("ledger_repo_commit_claim_failed", err,
			"asset_id", claim.AssetID,
			"owner_id", claim.OwnerID,
			"period", claim.PeriodLabel,
		)
	}
	return nil
}

func (r *Repository) GetClaim(ctx context.Context, assetID string, ownerID string, label string) (entities.ClaimRecord, bool, error) {
	var row claimModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", strings.TrimSpace(assetID)).
		Where("owner_id = ?", strings.TrimSpace(ownerID)).
		Where("period_label = ?", strings.TrimSpace(label)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ClaimRecord{}, false, nil
		}
		return entities.ClaimRecord{}, false, r.logError("ledger_repo_get_claim_failed", err,
			"asset_id", strings.TrimSpace(assetID),
			"owner_id", strings.TrimSpace(ownerID),
			"period", strings.TrimSpace(label),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListClaimsByOwner(ctx context.Context, assetID string, ownerID string) ([]entities.ClaimRecord, error) {
	var rows []claimModel
	if err := r.db.WithContext(ctx).
		Where("asset_id = ?", strings.TrimSpace(assetID)).
		Where("owner_id = ?", strings.TrimSpace(ownerID)).
		Order("period_label ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_claims_failed", err,
			"asset_id", strings.TrimSpace(assetID),
			"owner_id", strings.TrimSpace(ownerID),
		)
	}
	claims := make([]entities.ClaimRecord, 0, len(rows))
	for _, row := range rows {
		claims = append(claims, row.toEntity())
	}
	return claims, nil
}

func (r *Repository) HasEntitlementRecord(ctx context.Context, assetID string, ownerID string, label string) (bool, bool, error) {
	assetID = strings.TrimSpace(assetID)
	ownerID = strings.TrimSpace(ownerID)
	label = strings.TrimSpace(label)

	var claimCount int64
	if err := r.db.WithContext(ctx).
		Model(&claimModel{}).
		Where("asset_id = ? AND owner_id = ? AND period_label = ?", assetID, ownerID, label).
		Count(&claimCount).Error; err != nil {
		return false, false, r.logError("ledger_repo_claim_lookup_failed", err,
			"asset_id", assetID,
			"owner_id", ownerID,
			"period", label,
		)
	}

	var markCount int64
	if err := r.db.WithContext(ctx).
		Model(&accrualMarkModel{}).
		Where("asset_id = ? AND owner_id = ? AND period_label = ?", assetID, ownerID, label).
		Count(&markCount).Error; err != nil {
		return false, false, r.logError("ledger_repo_mark_lookup_failed", err,
			"asset_id", assetID,
			"owner_id", ownerID,
			"period", label,
		)
	}
	return claimCount > 0, markCount > 0, nil
}

func (r *Repository) CommitAccrual(ctx context.Context, mark entities.AccrualMark) error {
	row := accrualMarkModelFromEntity(mark)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The claim unique key only guards the pull path; re-check it here so
		// a claimed period cannot slip into the accrual while committing.
		var claimCount int64
		if err := tx.Model(&claimModel{}).
			Where("asset_id = ? AND owner_id = ? AND period_label = ?", mark.AssetID, mark.OwnerID, mark.PeriodLabel).
			Count(&claimCount).Error; err != nil {
			return err
		}
		if claimCount > 0 {
			return domainerrors.ErrAlreadyAccrued
		}

		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyAccrued
			}
			return err
		}

		accrualRow := accrualModel{
			AssetID:        mark.AssetID,
			OwnerID:        mark.OwnerID,
			TotalUnclaimed: mark.Amount,
			UpdatedAt:      mark.AccruedAt.UTC(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "asset_id"}, {Name: "owner_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_unclaimed": gorm.Expr("yield_accruals.total_unclaimed + EXCLUDED.total_unclaimed"),
				"updated_at":      mark.AccruedAt.UTC(),
			}),
		}).Create(&accrualRow).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyAccrued) {
			return domainerrors.ErrAlreadyAccrued
		}
		return r.logError("ledger_repo_commit_accrual_failed", err,
			"asset_id", mark.AssetID,
			"owner_id", mark.OwnerID,
			"period", mark.PeriodLabel,
		)
	}
	return nil
}

func (r *Repository) GetAccrual(ctx context.Context, assetID string, ownerID string) (entities.UnclaimedAccrual, bool, error) {
	var row accrualModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", strings.TrimSpace(assetID)).
		Where("owner_id = ?", strings.TrimSpace(ownerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.UnclaimedAccrual{}, false, nil
		}
		return entities.UnclaimedAccrual{}, false, r.logError("ledger_repo_get_accrual_failed", err,
			"asset_id", strings.TrimSpace(assetID),
			"owner_id", strings.TrimSpace(ownerID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) DrainAccrual(
	ctx context.Context,
	assetID string,
	ownerID string,
	at time.Time,
	buildEnvelope func(amount int64) (ports.EventEnvelope, error),
) (int64, error) {
	assetID = strings.TrimSpace(assetID)
	ownerID = strings.TrimSpace(ownerID)

	var drained int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row accrualModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("asset_id = ?", assetID).
			Where("owner_id = ?", ownerID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if row.TotalUnclaimed <= 0 {
			return nil
		}

		envelope, err := buildEnvelope(row.TotalUnclaimed)
		if err != nil {
			return err
		}
		if err := tx.Model(&accrualModel{}).
			Where("asset_id = ? AND owner_id = ?", assetID, ownerID).
			Updates(map[string]any{
				"total_unclaimed": 0,
				"updated_at":      at.UTC(),
			}).Error; err != nil {
			return err
		}
		if err := appendOutboxTx(tx, envelope); err != nil {
			return err
		}
		drained = row.TotalUnclaimed
		return nil
	})
	if err != nil {
		return 0, r.logError("ledger_repo_drain_accrual_failed", err,
			"asset_id", assetID,
			"owner_id", ownerID,
		)
	}
	return drained, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	if err := appendOutboxTx(r.db.WithContext(ctx), envelope); err != nil {
		return r.logError("ledger_repo_append_outbox_failed", err,
			"event_id", envelope.EventID,
			"event_type", envelope.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_outbox_failed", err)
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	sent := sentAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{"sent_at": &sent})
	if result.Error != nil {
		return r.logError("ledger_repo_mark_outbox_sent_failed", result.Error, "outbox_id", outboxID)
	}
	return nil
}

func appendOutboxTx(tx *gorm.DB, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     uuid.NewString(),
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	return tx.Create(&row).Error
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "yield-core/distribution-ledger-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("distribution ledger repository failure", fields...)
	return err
}

type periodModel struct {
	AssetID      string     `gorm:"column:asset_id;primaryKey"`
	PeriodLabel  string     `gorm:"column:period_label;primaryKey"`
	TotalIncome  int64      `gorm:"column:total_income"`
	RatePerShare int64      `gorm:"column:rate_per_share"`
	Settled      bool       `gorm:"column:settled"`
	RecordedAt   time.Time  `gorm:"column:recorded_at"`
	SettledAt    *time.Time `gorm:"column:settled_at"`
}

func (periodModel) TableName() string {
	return "yield_periods"
}

func periodModelFromEntity(period entities.Period) periodModel {
	return periodModel{
		AssetID:      strings.TrimSpace(period.AssetID),
		PeriodLabel:  strings.TrimSpace(period.Label),
		TotalIncome:  period.TotalIncome,
		RatePerShare: period.RatePerShare,
		Settled:      period.Settled,
		RecordedAt:   period.RecordedAt.UTC(),
		SettledAt:    normalizeOptionalTime(period.SettledAt),
	}
}

func (m periodModel) toEntity() entities.Period {
	return entities.Period{
		AssetID:      m.AssetID,
		Label:        m.PeriodLabel,
		TotalIncome:  m.TotalIncome,
		RatePerShare: m.RatePerShare,
		Settled:      m.Settled,
		RecordedAt:   m.RecordedAt.UTC(),
		SettledAt:    normalizeOptionalTime(m.SettledAt),
	}
}

type claimModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	AssetID        string    `gorm:"column:asset_id;uniqueIndex:ux_yield_claims_slot"`
	OwnerID        string    `gorm:"column:owner_id;uniqueIndex:ux_yield_claims_slot"`
	PeriodLabel    string    `gorm:"column:period_label;uniqueIndex:ux_yield_claims_slot"`
	Amount         int64     `gorm:"column:amount"`
	BalanceAtClaim int64     `gorm:"column:balance_at_claim"`
	ClaimedAt      time.Time `gorm:"column:claimed_at"`
}

func (claimModel) TableName() string {
	return "yield_claims"
}

func claimModelFromEntity(claim entities.ClaimRecord) claimModel {
	return claimModel{
		ID:             strings.TrimSpace(claim.ID),
		AssetID:        strings.TrimSpace(claim.AssetID),
		OwnerID:        strings.TrimSpace(claim.OwnerID),
		PeriodLabel:    strings.TrimSpace(claim.PeriodLabel),
		Amount:         claim.Amount,
		BalanceAtClaim: claim.BalanceAtClaim,
		ClaimedAt:      claim.ClaimedAt.UTC(),
	}
}

func (m claimModel) toEntity() entities.ClaimRecord {
	return entities.ClaimRecord{
		ID:             m.ID,
		AssetID:        m.AssetID,
		OwnerID:        m.OwnerID,
		PeriodLabel:    m.PeriodLabel,
		Amount:         m.Amount,
		BalanceAtClaim: m.BalanceAtClaim,
		ClaimedAt:      m.ClaimedAt.UTC(),
	}
}

type accrualMarkModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	AssetID     string    `gorm:"column:asset_id;uniqueIndex:ux_yield_accrual_marks_slot"`
	OwnerID     string    `gorm:"column:owner_id;uniqueIndex:ux_yield_accrual_marks_slot"`
	PeriodLabel string    `gorm:"column:period_label;uniqueIndex:ux_yield_accrual_marks_slot"`
	Amount      int64     `gorm:"column:amount"`
	AccruedAt   time.Time `gorm:"column:accrued_at"`
}

func (accrualMarkModel) TableName() string {
	return "yield_accrual_marks"
}

func accrualMarkModelFromEntity(mark entities.AccrualMark) accrualMarkModel {
	return accrualMarkModel{
		ID:          strings.TrimSpace(mark.ID),
		AssetID:     strings.TrimSpace(mark.AssetID),
		OwnerID:     strings.TrimSpace(mark.OwnerID),
		PeriodLabel: strings.TrimSpace(mark.PeriodLabel),
		Amount:      mark.Amount,
		AccruedAt:   mark.AccruedAt.UTC(),
	}
}

type accrualModel struct {
	AssetID        string    `gorm:"column:asset_id;primaryKey"`
	OwnerID        string    `gorm:"column:owner_id;primaryKey"`
	TotalUnclaimed int64     `gorm:"column:total_unclaimed"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (accrualModel) TableName() string {
	return "yield_accruals"
}

func (m accrualModel) toEntity() entities.UnclaimedAccrual {
	return entities.UnclaimedAccrual{
		AssetID:        m.AssetID,
		OwnerID:        m.OwnerID,
		TotalUnclaimed: m.TotalUnclaimed,
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "yield_outbox"
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

var _ ports.Repository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
