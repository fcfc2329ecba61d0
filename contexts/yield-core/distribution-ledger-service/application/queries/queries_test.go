package queries_test

import (
	"context"
	"errors"
	"testing"

	"yieldbook/contexts/yield-core/distribution-ledger-service/adapters/memory"
	"yieldbook/contexts/yield-core/distribution-ledger-service/application/commands"
	"yieldbook/contexts/yield-core/distribution-ledger-service/application/queries"
	domainerrors "yieldbook/contexts/yield-core/distribution-ledger-service/domain/errors"
)

func newLedger(t *testing.T) (*memory.Store, commands.UseCase, queries.UseCase) {
	t.Helper()
	store := memory.NewStore("admin-1")
	uc := commands.UseCase{
		Repository: store,
		Directory:  store,
		Policy:     store,
		Oracle:     store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
	}
	return store, uc, queries.UseCase{Repository: store, Policy: store}
}

func TestGetPeriodNotFound(t *testing.T) {
	_, _, q := newLedger(t)

	_, err := q.GetPeriod(context.Background(), "asset-1", "2026-01")
	if !errors.Is(err, domainerrors.ErrPeriodNotFound) {
		t.Fatalf("err = %v, want ErrPeriodNotFound", err)
	}
}

func TestListPeriodsSortedByLabel(t *testing.T) {
	store, uc, q := newLedger(t)
	store.SeedAsset("asset-1", 100, true)
	for _, label := range []string{"2026-03", "2026-01", "2026-02"} {
		if _, err := uc.PostIncome(context.Background(), commands.PostIncomeCommand{
			AdminID:     "admin-1",
			AssetID:     "asset-1",
			Period:      label,
			TotalIncome: 1000,
		}); err != nil {
			t.Fatalf("post %s: %v", label, err)
		}
	}

	periods, err := q.ListPeriods(context.Background(), "asset-1")
	if err != nil {
		t.Fatalf("list periods: %v", err)
	}
	if len(periods) != 3 {
		t.Fatalf("period count = %d, want 3", len(periods))
	}
	for i, want := range []string{"2026-01", "2026-02", "2026-03"} {
		if periods[i].Label != want {
			t.Fatalf("periods[%d] = %s, want %s", i, periods[i].Label, want)
		}
	}
}

func TestUnclaimedBalanceDefaultsToZero(t *testing.T) {
	_, _, q := newLedger(t)

	total, err := q.UnclaimedBalance(context.Background(), "asset-1", "owner-1")
	if err != nil {
		t.Fatalf("unclaimed: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %d, want 0", total)
	}
}

func TestClaimExistsReflectsLedger(t *testing.T) {
	store, uc, q := newLedger(t)
	store.SeedAsset("asset-1", 100, true)
	store.SetBalance("asset-1", "owner-1", 10)
	if _, err := uc.PostIncome(context.Background(), commands.PostIncomeCommand{
		AdminID:     "admin-1",
		AssetID:     "asset-1",
		Period:      "2026-01",
		TotalIncome: 1000,
	}); err != nil {
		t.Fatalf("post income: %v", err)
	}

	if _, found, err := q.ClaimExists(context.Background(), "asset-1", "owner-1", "2026-01"); err != nil || found {
		t.Fatalf("before claim: found=%v err=%v", found, err)
	}

	if _, err := uc.ClaimPeriod(context.Background(), commands.ClaimPeriodCommand{
		OwnerID: "owner-1",
		AssetID: "asset-1",
		Period:  "2026-01",
	}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	claim, found, err := q.ClaimExists(context.Background(), "asset-1", "owner-1", "2026-01")
	if err != nil || !found {
		t.Fatalf("after claim: found=%v err=%v", found, err)
	}
	if claim.Amount != 100 {
		t.Fatalf("claim amount = %d, want 100", claim.Amount)
	}
}

func TestQueriesValidateInput(t *testing.T) {
	_, _, q := newLedger(t)

	if _, err := q.GetPeriod(context.Background(), " ", "2026-01"); !errors.Is(err, domainerrors.ErrInvalidLedgerInput) {
		t.Fatalf("get period err = %v", err)
	}
	if _, err := q.UnclaimedBalance(context.Background(), "asset-1", ""); !errors.Is(err, domainerrors.ErrInvalidLedgerInput) {
		t.Fatalf("unclaimed err = %v", err)
	}
	if _, _, err := q.ClaimExists(context.Background(), "", "owner-1", "2026-01"); !errors.Is(err, domainerrors.ErrInvalidLedgerInput) {
		t.Fatalf("claim exists err = %v", err)
	}
}

func TestPolicyInfo(t *testing.T) {
	_, _, q := newLedger(t)

	policy, err := q.PolicyInfo(context.Background())
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if policy.AdminID != "admin-1" {
		t.Fatalf("admin = %q, want admin-1", policy.AdminID)
	}
	if policy.CostCeilingUnits <= 0 || policy.PerOwnerCostUnits <= 0 {
		t.Fatalf("policy defaults missing: %+v", policy)
	}
}
