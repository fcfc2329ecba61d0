package entities

import "time"

// Asset is an income-producing asset split into a fixed number of shares.
// TotalShares is immutable after registration; assets are deactivated, never
// deleted.
type Asset struct {
	ID                 string
	TotalShares        int64
	Active             bool
	CreatedAt          time.Time
	LastDistributionAt *time.Time
	UpdatedAt          time.Time
}

// DistributionPolicy is the single configuration record that replaces ambient
// admin/ceiling globals. Cost units are abstract work units: a batch
// distribution over N owners is estimated at N * PerOwnerCostUnits and must
// stay at or below CostCeilingUnits.
type DistributionPolicy struct {
	AdminID           string
	CostCeilingUnits  int64
	PerOwnerCostUnits int64
	UpdatedAt         time.Time
}
