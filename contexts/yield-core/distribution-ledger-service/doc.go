// Package distributionledger is the yield distribution core: period
// accounting, the claim ledger, the accrual accumulator, and the batch
// distributor.
//
// Income is posted once per (asset, period) and divided by the asset's share
// count with floor division; the residual is an accepted rounding loss.
// Owners are paid either by pull-claiming a period or by accruing periods
// into a running unclaimed balance that a direct or batch drain empties.
// Accrual marks keep the two paths disjoint so no period is paid twice, and
// posting income never iterates owners.
package distributionledger
