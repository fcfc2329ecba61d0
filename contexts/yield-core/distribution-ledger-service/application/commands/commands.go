package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "yieldbook/contexts/yield-core/distribution-ledger-service/application"
	"yieldbook/contexts/yield-core/distribution-ledger-service/domain/entities"
	domainerrors "yieldbook/contexts/yield-core/distribution-ledger-service/domain/errors"
	"yieldbook/contexts/yield-core/distribution-ledger-service/ports"
	contractsv1 "yieldbook/contracts/gen/events/v1"
)

const (
	moduleTag     = "yield-core/distribution-ledger-service"
	sourceService = "distribution-ledger-service"
	periodLayout  = "2006-01"
)

type PostIncomeCommand struct {
	AdminID     string
	AssetID     string
	Period      string
	TotalIncome int64
}

type ClaimPeriodCommand struct {
	OwnerID string
	AssetID string
	Period  string
}

type AccrueCommand struct {
	AssetID string
	OwnerID string
	Period  string
}

type DrainCommand struct {
	OwnerID string
	AssetID string
}

type AutoDistributeCommand struct {
	AdminID string
	AssetID string
	Owners  []string
}

type SettlePeriodCommand struct {
	AdminID string
	AssetID string
	Period  string
}

type UseCase struct {
	Repository ports.Repository
	Directory  ports.AssetDirectory
	Policy     ports.PolicySource
	Oracle     ports.BalanceOracle
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// PostIncome records one income event for (asset, period) and derives the
// floored per-share rate. Periods are write-once; a second post for the same
// period fails instead of overwriting the rate. The call never iterates
// owners - entitlements are materialized lazily by claims and accruals.
func (uc UseCase) PostIncome(ctx context.Context, cmd PostIncomeCommand) (entities.Period, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.requireAdmin(ctx, cmd.AdminID); err != nil {
		return entities.Period{}, err
	}

	assetID := strings.TrimSpace(cmd.AssetID)
	label := strings.TrimSpace(cmd.Period)
	if assetID == "" || !validPeriodLabel(label) || cmd.TotalIncome <= 0 {
		logger.Warn("post income invalid input",
			"event", "ledger_post_income_invalid_input",
			"module", moduleTag,
			"layer", "application",
			"asset_id", assetID,
			"period", label,
			"total_income", cmd.TotalIncome,
		)
		return entities.Period{}, domainerrors.ErrInvalidLedgerInput
	}

	asset, err := uc.Directory.AssetInfo(ctx, assetID)
	if err != nil {
		return entities.Period{}, err
	}
	if !asset.Active {
		return entities.Period{}, domainerrors.ErrAssetInactive
	}

	rate := int64(0)
	if asset.TotalShares > 0 {
		rate = cmd.TotalIncome / asset.TotalShares
	}
	now := uc.now()
	period := entities.Period{
		AssetID:      assetID,
		Label:        label,
		TotalIncome:  cmd.TotalIncome,
		RatePerShare: rate,
		Settled:      false,
		RecordedAt:   now,
	}

	envelope, err := uc.buildEnvelope(ctx, contractsv1.EventTypePeriodPosted, assetID, now, map[string]any{
		"asset_id":       assetID,
		"period":         label,
		"total_income":   cmd.TotalIncome,
		"rate_per_share": rate,
		"residual":       period.Residual(asset.TotalShares),
	})
	if err != nil {
		return entities.Period{}, err
	}

	if err := uc.Repository.CommitPeriod(ctx, period, envelope); err != nil {
		if err == domainerrors.ErrPeriodExists {
			logger.Warn("period already posted",
				"event", "ledger_period_duplicate",
				"module", moduleTag,
				"layer", "application",
				"asset_id", assetID,
				"period", label,
			)
			return entities.Period{}, err
		}
		logger.Error("period commit failed",
			"event", "ledger_period_commit_failed",
			"module", moduleTag,
			"layer", "application",
			"asset_id", assetID,
			"period", label,
			"error", err.Error(),
		)
		return entities.Period{}, err
	}

	logger.Info("income period posted",
		"event", "ledger_period_posted",
		"module", moduleTag,
		"layer", "application",
		"asset_id", assetID,
		"period", label,
		"total_income", cmd.TotalIncome,
		"rate_per_share", rate,
	)
	return period, nil
}

// ClaimPeriod pays one owner for one period through the pull path. The
// owner's current balance prices the claim; the claim record plus the
// settlement envelope commit atomically, and the settlement itself runs
// asynchronously off the outbox. A period already routed to the accrual path
// is rejected here - it can only be paid by draining the accrual.
func (uc UseCase) ClaimPeriod(ctx context.Context, cmd ClaimPeriodCommand) (entities.ClaimRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	assetID := strings.TrimSpace(cmd.AssetID)
	ownerID := strings.TrimSpace(cmd.OwnerID)
	label := strings.TrimSpace(cmd.Period)
	if assetID == "" || ownerID == "" || !validPeriodLabel(label) {
		return entities.ClaimRecord{}, domainerrors.ErrInvalidLedgerInput
	}

	period, err := uc.Repository.GetPeriod(ctx, assetID, label)
	if err != nil {
		if err == domainerrors.ErrPeriodNotFound {
			return entities.ClaimRecord{}, domainerrors.ErrNoYieldAvailable
		}
		return entities.ClaimRecord{}, err
	}

	balance, err := uc.Oracle.Balance(ctx, assetID, ownerID)
	if err != nil {
		return entities.ClaimRecord{}, err
	}
	if balance <= 0 {
		return entities.ClaimRecord{}, domainerrors.ErrNoShareBalance
	}

	amount := period.RatePerShare * balance
	if amount <= 0 {
		return entities.ClaimRecord{}, domainerrors.ErrNoYieldAvailable
	}

	claimed, accrued, err := uc.Repository.HasEntitlementRecord(ctx, assetID, ownerID, label)
	if err != nil {
		return entities.ClaimRecord{}, err
	}
	if claimed || accrued {
		logger.Warn("duplicate period claim rejected",
			"event", "ledger_claim_duplicate",
			"module", moduleTag,
			"layer", "application",
			"asset_id", assetID,
			"owner_id", ownerID,
			"period", label,
			"via_accrual", accrued,
		)
		return entities.ClaimRecord{}, domainerrors.ErrAlreadyClaimed
	}

	claimID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.ClaimRecord{}, err
	}
	now := uc.now()
	claim := entities.ClaimRecord{
		ID:             claimID,
		AssetID:        assetID,
		OwnerID:        ownerID,
		PeriodLabel:    label,
		Amount:         amount,
		BalanceAtClaim: balance,
		ClaimedAt:      now,
	}

	envelope, err := uc.settlementEnvelope(ctx, assetID, ownerID, amount, now, map[string]any{
		"claim_id": claimID,
		"period":   label,
	})
	if err != nil {
		return entities.ClaimRecord{}, err
	}

	if err := uc.Repository.CommitClaim(ctx, claim, envelope); err != nil {
		if err == domainerrors.ErrAlreadyClaimed {
			return entities.ClaimRecord{}, err
		}
		logger.Error("claim commit failed",
			"event", "ledger_claim_commit_failed",
			"module", moduleTag,
			"layer", "application",
			"asset_id", assetID,
			"owner_id", ownerID,
			"period", label,
			"error", err.Error(),
		)
		return entities.ClaimRecord{}, err
	}

	logger.Info("period claimed",
		"event", "ledger_period_claimed",
		"module", moduleTag,
		"layer", "application",
		"asset_id", assetID,
		"owner_id", ownerID,
		"period", label,
		"amount", amount,
		"balance", balance,
	)
	return claim, nil
}

// AccrueFor pushes one period's entitlement into the owner's unclaimed
// balance. Callable by anyone; the accrual mark makes the call idempotent and
// fences the period off from the pull path.
func (uc UseCase) AccrueFor(ctx context.Context, cmd AccrueCommand) (entities.AccrualMark, error) {
	logger := application.ResolveLogger(uc.Logger)
	assetID := strings.TrimSpace(cmd.AssetID)
	ownerID := strings.TrimSpace(cmd.OwnerID)
	label := strings.TrimSpace(cmd.Period)
	if assetID == "" || ownerID == "" || !validPeriodLabel(label) {
		return entities.AccrualMark{}, domainerrors.ErrInvalidLedgerInput
	}

	period, err := uc.Repository.GetPeriod(ctx, assetID, label)
	if err != nil {
		return entities.AccrualMark{}, err
	}

	balance, err := uc.Oracle.Balance(ctx, assetID, ownerID)
	if err != nil {
		return entities.AccrualMark{}, err
	}
	if balance <= 0 {
		return entities.AccrualMark{}, domainerrors.ErrNoShareBalance
	}

	delta := period.RatePerShare * balance
	if delta <= 0 {
		return entities.AccrualMark{}, domainerrors.ErrNoYieldAvailable
	}

	claimed, accrued, err := uc.Repository.HasEntitlementRecord(ctx, assetID, ownerID, label)
	if err != nil {
		return entities.AccrualMark{}, err
	}
	if claimed || accrued {
		return entities.AccrualMark{}, domainerrors.ErrAlreadyAccrued
	}

	markID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.AccrualMark{}, err
	}
	mark := entities.AccrualMark{
		ID:          markID,
		AssetID:     assetID,
		OwnerID:     ownerID,
		PeriodLabel: label,
		Amount:      delta,
		AccruedAt:   uc.now(),
	}
	if err := uc.Repository.CommitAccrual(ctx, mark); err != nil {
		if err == domainerrors.ErrAlreadyAccrued {
			return entities.AccrualMark{}, err
		}
		logger.Error("accrual commit failed",
			"event", "ledger_accrual_commit_failed",
			"module", moduleTag,
			"layer", "application",
			"asset_id", assetID,
			"owner_id", ownerID,
			"period", label,
			"error", err.Error(),
		)
		return entities.AccrualMark{}, err
	}

	logger.Info("period accrued",
		"event", "ledger_period_accrued",
		"module", moduleTag,
		"layer", "application",
		"asset_id", assetID,
		"owner_id", ownerID,
		"period", label,
		"amount", delta,
	)
	return mark, nil
}

// ClaimAllUnclaimed drains the owner's accrued balance to zero and requests
// settlement for the drained amount.
func (uc UseCase) ClaimAllUnclaimed(ctx context.Context, cmd DrainCommand) (int64, error) {
	logger := application.ResolveLogger(uc.Logger)
	assetID := strings.TrimSpace(cmd.AssetID)
	ownerID := strings.TrimSpace(cmd.OwnerID)
	if assetID == "" || ownerID == "" {
		return 0, domainerrors.ErrInvalidLedgerInput
	}

	now := uc.now()
	drained, err := uc.Repository.DrainAccrual(ctx, assetID, ownerID, now,
		func(amount int64) (ports.EventEnvelope, error) {
			return uc.settlementEnvelope(ctx, assetID, ownerID, amount, now, map[string]any{
				"drain": "claim_all",
			})
		})
	if err != nil {
		logger.Error("accrual drain failed",
			"event", "ledger_drain_failed",
			"module", moduleTag,
			"layer", "application",
			"asset_id", assetID,
			"owner_id", ownerID,
			"error", err.Error(),
		)
		return 0, err
	}
	if drained <= 0 {
		return 0, domainerrors.ErrNoYieldAvailable
	}

	logger.Info("unclaimed balance drained",
		"event", "ledger_unclaimed_drained",
		"module", moduleTag,
		"layer", "application",
		"asset_id", assetID,
		"owner_id", ownerID,
		"amount", drained,
	)
	return drained, nil
}

// AutoDistribute drains the accrued balances of a bounded owner list. The
// cost check runs before any mutation, so a ceiling breach changes nothing.
// Zero-balance and zero-accrual owners are skipped without error; partial
// success is the norm for a batch.
func (uc UseCase) AutoDistribute(ctx context.Context, cmd AutoDistributeCommand) (entities.DistributionReport, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.requireAdmin(ctx, cmd.AdminID); err != nil {
		return entities.DistributionReport{}, err
	}

	assetID := strings.TrimSpace(cmd.AssetID)
	owners := make([]string, 0, len(cmd.Owners))
	for _, owner := range cmd.Owners {
		if trimmed := strings.TrimSpace(owner); trimmed != "" {
			owners = append(owners, trimmed)
		}
	}
	if assetID == "" || len(owners) == 0 {
		return entities.DistributionReport{}, domainerrors.ErrInvalidLedgerInput
	}

	policy, err := uc.Policy.Policy(ctx)
	if err != nil {
		return entities.DistributionReport{}, err
	}
	estimatedCost := int64(len(owners)) * policy.PerOwnerCostUnits
	if estimatedCost > policy.CostCeilingUnits {
		logger.Warn("batch distribution over cost ceiling",
			"event", "ledger_batch_over_ceiling",
			"module", moduleTag,
			"layer", "application",
			"asset_id", assetID,
			"owner_count", len(owners),
			"estimated_cost", estimatedCost,
			"ceiling_units", policy.CostCeilingUnits,
		)
		return entities.DistributionReport{}, domainerrors.ErrCostCeilingExceeded
	}

	if _, err := uc.Directory.AssetInfo(ctx, assetID); err != nil {
		return entities.DistributionReport{}, err
	}

	now := uc.now()
	report := entities.DistributionReport{
		AssetID:       assetID,
		EstimatedCost: estimatedCost,
		RanAt:         now,
	}
	for _, ownerID := range owners {
		balance, err := uc.Oracle.Balance(ctx, assetID, ownerID)
		if err != nil {
			return report, err
		}
		if balance <= 0 {
			report.OwnersSkipped++
			continue
		}

		drained, err := uc.Repository.DrainAccrual(ctx, assetID, ownerID, now,
			func(amount int64) (ports.EventEnvelope, error) {
				return uc.settlementEnvelope(ctx, assetID, ownerID, amount, now, map[string]any{
					"drain": "auto_distribute",
				})
			})
		if err != nil {
			return report, err
		}
		if drained <= 0 {
			report.OwnersSkipped++
			continue
		}
		report.OwnersPaid++
		report.TotalPaid += drained
	}

	if err := uc.Directory.RecordDistribution(ctx, assetID, now); err != nil {
		return report, err
	}

	if uc.Outbox != nil {
		envelope, err := uc.buildEnvelope(ctx, contractsv1.EventTypeBatchDistributed, assetID, now, map[string]any{
			"asset_id":       assetID,
			"total_paid":     report.TotalPaid,
			"owners_paid":    report.OwnersPaid,
			"owners_skipped": report.OwnersSkipped,
			"estimated_cost": estimatedCost,
		})
		if err != nil {
			return report, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return report, err
		}
	}

	logger.Info("batch distribution completed",
		"event", "ledger_batch_distributed",
		"module", moduleTag,
		"layer", "application",
		"asset_id", assetID,
		"total_paid", report.TotalPaid,
		"owners_paid", report.OwnersPaid,
		"owners_skipped", report.OwnersSkipped,
		"estimated_cost", estimatedCost,
	)
	return report, nil
}

// SettlePeriod flips the period's settled flag after off-ledger
// reconciliation confirms payouts. The flag is the only mutable period field.
func (uc UseCase) SettlePeriod(ctx context.Context, cmd SettlePeriodCommand) error {
	if err := uc.requireAdmin(ctx, cmd.AdminID); err != nil {
		return err
	}
	assetID := strings.TrimSpace(cmd.AssetID)
	label := strings.TrimSpace(cmd.Period)
	if assetID == "" || !validPeriodLabel(label) {
		return domainerrors.ErrInvalidLedgerInput
	}
	if err := uc.Repository.MarkPeriodSettled(ctx, assetID, label, uc.now()); err != nil {
		return err
	}
	application.ResolveLogger(uc.Logger).Info("period settled",
		"event", "ledger_period_settled",
		"module", moduleTag,
		"layer", "application",
		"asset_id", assetID,
		"period", label,
	)
	return nil
}

func (uc UseCase) requireAdmin(ctx context.Context, adminID string) error {
	policy, err := uc.Policy.Policy(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(adminID) == "" || strings.TrimSpace(adminID) != policy.AdminID {
		application.ResolveLogger(uc.Logger).Warn("admin check rejected caller",
			"event", "ledger_unauthorized",
			"module", moduleTag,
			"layer", "application",
			"caller_id", strings.TrimSpace(adminID),
		)
		return domainerrors.ErrUnauthorizedAdmin
	}
	return nil
}

func (uc UseCase) settlementEnvelope(
	ctx context.Context,
	assetID string,
	ownerID string,
	amount int64,
	at time.Time,
	extra map[string]any,
) (ports.EventEnvelope, error) {
	data := map[string]any{
		"asset_id": assetID,
		"owner_id": ownerID,
		"amount":   amount,
	}
	for k, v := range extra {
		data[k] = v
	}
	return uc.buildEnvelope(ctx, contractsv1.EventTypeSettlementRequested, assetID+"|"+ownerID, at, data)
}

func (uc UseCase) buildEnvelope(
	ctx context.Context,
	eventType string,
	partitionKey string,
	at time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       at.UTC(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "partition_key",
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func validPeriodLabel(label string) bool {
	if len(label) != len(periodLayout) {
		return false
	}
	_, err := time.Parse(periodLayout, label)
	return err == nil
}
