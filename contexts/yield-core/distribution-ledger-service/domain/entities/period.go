package entities

import "time"

// Period is one income-reporting interval for an asset, keyed by
// (asset, label) where label is a "YYYY-MM" month identifier.
//
// RatePerShare is the floored integer income per share. The residual
// TotalIncome - RatePerShare*TotalShares is never distributed; it is an
// accepted rounding loss, not an error.
type Period struct {
	AssetID      string
	Label        string
	TotalIncome  int64
	RatePerShare int64
	Settled      bool
	RecordedAt   time.Time
	SettledAt    *time.Time
}

// Residual returns the permanently unallocated remainder for an asset with
// the given total share count.
func (p Period) Residual(totalShares int64) int64 {
	if totalShares <= 0 {
		return p.TotalIncome
	}
	return p.TotalIncome - p.RatePerShare*totalShares
}
