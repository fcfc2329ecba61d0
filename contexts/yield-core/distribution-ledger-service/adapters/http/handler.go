package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "yieldbook/contexts/yield-core/distribution-ledger-service/application"
	"yieldbook/contexts/yield-core/distribution-ledger-service/application/commands"
	"yieldbook/contexts/yield-core/distribution-ledger-service/application/queries"
	"yieldbook/contexts/yield-core/distribution-ledger-service/domain/entities"
	httptransport "yieldbook/contexts/yield-core/distribution-ledger-service/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (h Handler) PostIncomeHandler(
	ctx context.Context,
	adminID string,
	assetID string,
	req httptransport.PostIncomeRequest,
) (httptransport.PeriodDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	period, err := h.Commands.PostIncome(ctx, commands.PostIncomeCommand{
		AdminID:     adminID,
		AssetID:     assetID,
		Period:      req.Period,
		TotalIncome: req.TotalIncome,
	})
	if err != nil {
		logger.Warn("ledger http post income failed",
			"event", "ledger_http_post_income_failed",
			"module", "yield-core/distribution-ledger-service",
			"layer", "adapter",
			"asset_id", strings.TrimSpace(assetID),
			"period", strings.TrimSpace(req.Period),
			"error", err.Error(),
		)
		return httptransport.PeriodDTO{}, err
	}
	return periodDTO(period), nil
}

func (h Handler) GetPeriodHandler(ctx context.Context, assetID string, label string) (httptransport.PeriodDTO, error) {
	period, err := h.Queries.GetPeriod(ctx, assetID, label)
	if err != nil {
		return httptransport.PeriodDTO{}, err
	}
	return periodDTO(period), nil
}

func (h Handler) ListPeriodsHandler(ctx context.Context, assetID string) (httptransport.ListPeriodsResponse, error) {
	periods, err := h.Queries.ListPeriods(ctx, assetID)
	if err != nil {
		return httptransport.ListPeriodsResponse{}, err
	}
	resp := httptransport.ListPeriodsResponse{
		Periods: make([]httptransport.PeriodDTO, 0, len(periods)),
	}
	for _, period := range periods {
		resp.Periods = append(resp.Periods, periodDTO(period))
	}
	return resp, nil
}

func (h Handler) ClaimPeriodHandler(
	ctx context.Context,
	ownerID string,
	assetID string,
	label string,
) (httptransport.ClaimDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	claim, err := h.Commands.ClaimPeriod(ctx, commands.ClaimPeriodCommand{
		OwnerID: ownerID,
		AssetID: assetID,
		Period:  label,
	})
	if err != nil {
		logger.Warn("ledger http claim failed",
			"event", "ledger_http_claim_failed",
			"module", "yield-core/distribution-ledger-service",
			"layer", "adapter",
			"asset_id", strings.TrimSpace(assetID),
			"owner_id", strings.TrimSpace(ownerID),
			"period", strings.TrimSpace(label),
			"error", err.Error(),
		)
		return httptransport.ClaimDTO{}, err
	}
	return claimDTO(claim), nil
}

func (h Handler) AccrueHandler(
	ctx context.Context,
	assetID string,
	label string,
	req httptransport.AccrueRequest,
) (httptransport.AccrualDTO, error) {
	mark, err := h.Commands.AccrueFor(ctx, commands.AccrueCommand{
		AssetID: assetID,
		OwnerID: req.OwnerID,
		Period:  label,
	})
	if err != nil {
		return httptransport.AccrualDTO{}, err
	}
	return httptransport.AccrualDTO{
		MarkID:  mark.ID,
		AssetID: mark.AssetID,
		OwnerID: mark.OwnerID,
		Period:  mark.PeriodLabel,
		Amount:  mark.Amount,
	}, nil
}

func (h Handler) ClaimAllHandler(
	ctx context.Context,
	ownerID string,
	assetID string,
) (httptransport.DrainResponse, error) {
	amount, err := h.Commands.ClaimAllUnclaimed(ctx, commands.DrainCommand{
		OwnerID: ownerID,
		AssetID: assetID,
	})
	if err != nil {
		return httptransport.DrainResponse{}, err
	}
	return httptransport.DrainResponse{
		AssetID: strings.TrimSpace(assetID),
		OwnerID: strings.TrimSpace(ownerID),
		Amount:  amount,
	}, nil
}

func (h Handler) AutoDistributeHandler(
	ctx context.Context,
	adminID string,
	assetID string,
	req httptransport.AutoDistributeRequest,
) (httptransport.DistributionReportDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	report, err := h.Commands.AutoDistribute(ctx, commands.AutoDistributeCommand{
		AdminID: adminID,
		AssetID: assetID,
		Owners:  req.Owners,
	})
	if err != nil {
		logger.Warn("ledger http auto distribute failed",
			"event", "ledger_http_auto_distribute_failed",
			"module", "yield-core/distribution-ledger-service",
			"layer", "adapter",
			"asset_id", strings.TrimSpace(assetID),
			"owner_count", len(req.Owners),
			"error", err.Error(),
		)
		return httptransport.DistributionReportDTO{}, err
	}
	return httptransport.DistributionReportDTO{
		AssetID:       report.AssetID,
		TotalPaid:     report.TotalPaid,
		OwnersPaid:    report.OwnersPaid,
		OwnersSkipped: report.OwnersSkipped,
		EstimatedCost: report.EstimatedCost,
		RanAt:         report.RanAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) SettlePeriodHandler(
	ctx context.Context,
	adminID string,
	assetID string,
	label string,
) (httptransport.PeriodDTO, error) {
	if err := h.Commands.SettlePeriod(ctx, commands.SettlePeriodCommand{
		AdminID: adminID,
		AssetID: assetID,
		Period:  label,
	}); err != nil {
		return httptransport.PeriodDTO{}, err
	}
	period, err := h.Queries.GetPeriod(ctx, assetID, label)
	if err != nil {
		return httptransport.PeriodDTO{}, err
	}
	return periodDTO(period), nil
}

func (h Handler) UnclaimedHandler(
	ctx context.Context,
	assetID string,
	ownerID string,
) (httptransport.UnclaimedResponse, error) {
	total, err := h.Queries.UnclaimedBalance(ctx, assetID, ownerID)
	if err != nil {
		return httptransport.UnclaimedResponse{}, err
	}
	return httptransport.UnclaimedResponse{
		AssetID:        strings.TrimSpace(assetID),
		OwnerID:        strings.TrimSpace(ownerID),
		TotalUnclaimed: total,
	}, nil
}

func (h Handler) ClaimExistsHandler(
	ctx context.Context,
	assetID string,
	ownerID string,
	label string,
) (httptransport.ClaimExistsResponse, error) {
	claim, found, err := h.Queries.ClaimExists(ctx, assetID, ownerID, label)
	if err != nil {
		return httptransport.ClaimExistsResponse{}, err
	}
	resp := httptransport.ClaimExistsResponse{Claimed: found}
	if found {
		dto := claimDTO(claim)
		resp.Claim = &dto
	}
	return resp, nil
}

func (h Handler) ListClaimsHandler(
	ctx context.Context,
	assetID string,
	ownerID string,
) (httptransport.ListClaimsResponse, error) {
	claims, err := h.Queries.ListClaimsByOwner(ctx, assetID, ownerID)
	if err != nil {
		return httptransport.ListClaimsResponse{}, err
	}
	resp := httptransport.ListClaimsResponse{
		Claims: make([]httptransport.ClaimDTO, 0, len(claims)),
	}
	for _, claim := range claims {
		resp.Claims = append(resp.Claims, claimDTO(claim))
	}
	return resp, nil
}

func periodDTO(period entities.Period) httptransport.PeriodDTO {
	dto := httptransport.PeriodDTO{
		AssetID:      period.AssetID,
		Period:       period.Label,
		TotalIncome:  period.TotalIncome,
		RatePerShare: period.RatePerShare,
		Settled:      period.Settled,
		RecordedAt:   period.RecordedAt.UTC().Format(time.RFC3339),
	}
	if period.SettledAt != nil {
		dto.SettledAt = period.SettledAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func claimDTO(claim entities.ClaimRecord) httptransport.ClaimDTO {
	return httptransport.ClaimDTO{
		ClaimID:        claim.ID,
		AssetID:        claim.AssetID,
		OwnerID:        claim.OwnerID,
		Period:         claim.PeriodLabel,
		Amount:         claim.Amount,
		BalanceAtClaim: claim.BalanceAtClaim,
		ClaimedAt:      claim.ClaimedAt.UTC().Format(time.RFC3339),
	}
}
