package queries

import (
	"context"
	"strings"

	"yieldbook/contexts/yield-core/distribution-ledger-service/domain/entities"
	domainerrors "yieldbook/contexts/yield-core/distribution-ledger-service/domain/errors"
	"yieldbook/contexts/yield-core/distribution-ledger-service/ports"
)

type UseCase struct {
	Repository ports.Repository
	Policy     ports.PolicySource
}

// GetPeriod distinguishes an absent period from a zero-income one: absence is
// ErrPeriodNotFound, never a zero-value record.
func (uc UseCase) GetPeriod(ctx context.Context, assetID string, label string) (entities.Period, error) {
	assetID = strings.TrimSpace(assetID)
	label = strings.TrimSpace(label)
	if assetID == "" || label == "" {
		return entities.Period{}, domainerrors.ErrInvalidLedgerInput
	}
	return uc.Repository.GetPeriod(ctx, assetID, label)
}

func (uc UseCase) ListPeriods(ctx context.Context, assetID string) ([]entities.Period, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return nil, domainerrors.ErrInvalidLedgerInput
	}
	return uc.Repository.ListPeriods(ctx, assetID)
}

// UnclaimedBalance returns zero for owners that never accrued; the accrual
// row is created lazily and its absence is not an error.
func (uc UseCase) UnclaimedBalance(ctx context.Context, assetID string, ownerID string) (int64, error) {
	assetID = strings.TrimSpace(assetID)
	ownerID = strings.TrimSpace(ownerID)
	if assetID == "" || ownerID == "" {
		return 0, domainerrors.ErrInvalidLedgerInput
	}
	accrual, found, err := uc.Repository.GetAccrual(ctx, assetID, ownerID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return accrual.TotalUnclaimed, nil
}

func (uc UseCase) ClaimExists(ctx context.Context, assetID string, ownerID string, label string) (entities.ClaimRecord, bool, error) {
	assetID = strings.TrimSpace(assetID)
	ownerID = strings.TrimSpace(ownerID)
	label = strings.TrimSpace(label)
	if assetID == "" || ownerID == "" || label == "" {
		return entities.ClaimRecord{}, false, domainerrors.ErrInvalidLedgerInput
	}
	return uc.Repository.GetClaim(ctx, assetID, ownerID, label)
}

func (uc UseCase) ListClaimsByOwner(ctx context.Context, assetID string, ownerID string) ([]entities.ClaimRecord, error) {
	assetID = strings.TrimSpace(assetID)
	ownerID = strings.TrimSpace(ownerID)
	if assetID == "" || ownerID == "" {
		return nil, domainerrors.ErrInvalidLedgerInput
	}
	return uc.Repository.ListClaimsByOwner(ctx, assetID, ownerID)
}

// PolicyInfo exposes the admin principal and cost ceiling readout.
func (uc UseCase) PolicyInfo(ctx context.Context) (ports.DistributionPolicy, error) {
	return uc.Policy.Policy(ctx)
}
