package entities

import "time"

// ClaimRecord is created exactly once per (asset, owner, period) when the
// owner pull-claims that period. It is never mutated or deleted; its
// existence is the sole double-claim guard.
type ClaimRecord struct {
	ID             string
	AssetID        string
	OwnerID        string
	PeriodLabel    string
	Amount         int64
	BalanceAtClaim int64
	ClaimedAt      time.Time
}

// AccrualMark fences a (asset, owner, period) entitlement into the accrual
// path. Once a mark exists the period can only be paid out by draining the
// owner's unclaimed balance, and a repeated accrual for it is rejected. Marks
// are append-only, like claim records.
type AccrualMark struct {
	ID          string
	AssetID     string
	OwnerID     string
	PeriodLabel string
	Amount      int64
	AccruedAt   time.Time
}

// UnclaimedAccrual is the running undrained entitlement per (asset, owner).
// Created lazily on first accrual; never negative.
type UnclaimedAccrual struct {
	AssetID        string
	OwnerID        string
	TotalUnclaimed int64
	UpdatedAt      time.Time
}

// DistributionReport summarizes one batch distribution run.
type DistributionReport struct {
	AssetID       string
	TotalPaid     int64
	OwnersPaid    int
	OwnersSkipped int
	EstimatedCost int64
	RanAt         time.Time
}
