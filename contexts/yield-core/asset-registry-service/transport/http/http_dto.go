package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterAssetRequest struct {
	AssetID     string `json:"asset_id"`
	TotalShares int64  `json:"total_shares"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

type SetCostCeilingRequest struct {
	CostCeilingUnits int64 `json:"cost_ceiling_units"`
}

type TransferAdminRequest struct {
	NewAdminID string `json:"new_admin_id"`
}

type AssetDTO struct {
	ID                 string `json:"id"`
	TotalShares        int64  `json:"total_shares"`
	Active             bool   `json:"active"`
	CreatedAt          string `json:"created_at"`
	LastDistributionAt string `json:"last_distribution_at,omitempty"`
}

type ListAssetsResponse struct {
	Assets []AssetDTO `json:"assets"`
}

type PolicyDTO struct {
	AdminID           string `json:"admin_id"`
	CostCeilingUnits  int64  `json:"cost_ceiling_units"`
	PerOwnerCostUnits int64  `json:"per_owner_cost_units"`
	UpdatedAt         string `json:"updated_at"`
}
