package errors

import "errors"

var (
	ErrUnauthorizedAdmin    = errors.New("caller is not the distribution admin")
	ErrAssetNotFound        = errors.New("asset not found")
	ErrAssetInactive        = errors.New("asset is not active")
	ErrPeriodNotFound       = errors.New("income period not found")
	ErrPeriodExists         = errors.New("income period already posted")
	ErrInvalidLedgerInput   = errors.New("invalid ledger input")
	ErrNoShareBalance       = errors.New("owner holds no shares of the asset")
	ErrNoYieldAvailable     = errors.New("no yield available to claim")
	ErrAlreadyClaimed       = errors.New("period already claimed by owner")
	ErrAlreadyAccrued       = errors.New("period already accrued for owner")
	ErrCostCeilingExceeded  = errors.New("estimated batch cost exceeds the ceiling")
	ErrAccrualRecordMissing = errors.New("accrual record not found")
)
