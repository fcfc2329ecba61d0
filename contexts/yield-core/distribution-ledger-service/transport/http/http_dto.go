package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PostIncomeRequest struct {
	Period      string `json:"period"`
	TotalIncome int64  `json:"total_income"`
}

type AccrueRequest struct {
	OwnerID string `json:"owner_id"`
}

type AutoDistributeRequest struct {
	Owners []string `json:"owners"`
}

type PeriodDTO struct {
	AssetID      string `json:"asset_id"`
	Period       string `json:"period"`
	TotalIncome  int64  `json:"total_income"`
	RatePerShare int64  `json:"rate_per_share"`
	Settled      bool   `json:"settled"`
	RecordedAt   string `json:"recorded_at"`
	SettledAt    string `json:"settled_at,omitempty"`
}

type ListPeriodsResponse struct {
	Periods []PeriodDTO `json:"periods"`
}

type ClaimDTO struct {
	ClaimID        string `json:"claim_id"`
	AssetID        string `json:"asset_id"`
	OwnerID        string `json:"owner_id"`
	Period         string `json:"period"`
	Amount         int64  `json:"amount"`
	BalanceAtClaim int64  `json:"balance_at_claim"`
	ClaimedAt      string `json:"claimed_at"`
}

type ListClaimsResponse struct {
	Claims []ClaimDTO `json:"claims"`
}

type ClaimExistsResponse struct {
	Claimed bool      `json:"claimed"`
	Claim   *ClaimDTO `json:"claim,omitempty"`
}

type AccrualDTO struct {
	MarkID  string `json:"mark_id"`
	AssetID string `json:"asset_id"`
	OwnerID string `json:"owner_id"`
	Period  string `json:"period"`
	Amount  int64  `json:"amount"`
}

type UnclaimedResponse struct {
	AssetID        string `json:"asset_id"`
	OwnerID        string `json:"owner_id"`
	TotalUnclaimed int64  `json:"total_unclaimed"`
}

type DrainResponse struct {
	AssetID string `json:"asset_id"`
	OwnerID string `json:"owner_id"`
	Amount  int64  `json:"amount"`
}

type DistributionReportDTO struct {
	AssetID       string `json:"asset_id"`
	TotalPaid     int64  `json:"total_paid"`
	OwnersPaid    int    `json:"owners_paid"`
	OwnersSkipped int    `json:"owners_skipped"`
	EstimatedCost int64  `json:"estimated_cost"`
	RanAt         string `json:"ran_at"`
}
