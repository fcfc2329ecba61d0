package application_test

import (
	"context"
	"errors"
	"testing"

	"yieldbook/contexts/yield-core/asset-registry-service/adapters/memory"
	"yieldbook/contexts/yield-core/asset-registry-service/application"
	domainerrors "yieldbook/contexts/yield-core/asset-registry-service/domain/errors"
)

const testAdmin = "admin-1"

func newService() (*memory.Store, application.Service) {
	store := memory.NewStore(testAdmin)
	return store, application.Service{Repo: store, Clock: store}
}

func TestRegisterAsset(t *testing.T) {
	_, svc := newService()

	asset, err := svc.RegisterAsset(context.Background(), testAdmin, "asset-1", 1000)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !asset.Active {
		t.Fatal("new asset should start active")
	}
	if asset.TotalShares != 1000 {
		t.Fatalf("total shares = %d, want 1000", asset.TotalShares)
	}

	got, err := svc.GetAsset(context.Background(), "asset-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "asset-1" {
		t.Fatalf("id = %q", got.ID)
	}
}

func TestRegisterAssetRejectsZeroShares(t *testing.T) {
	_, svc := newService()

	for _, shares := range []int64{0, -1} {
		if _, err := svc.RegisterAsset(context.Background(), testAdmin, "asset-1", shares); !errors.Is(err, domainerrors.ErrInvalidAssetInput) {
			t.Fatalf("shares=%d err = %v, want ErrInvalidAssetInput", shares, err)
		}
	}
}

func TestRegisterAssetDuplicate(t *testing.T) {
	_, svc := newService()

	if _, err := svc.RegisterAsset(context.Background(), testAdmin, "asset-1", 1000); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.RegisterAsset(context.Background(), testAdmin, "asset-1", 2000); !errors.Is(err, domainerrors.ErrAssetExists) {
		t.Fatalf("err = %v, want ErrAssetExists", err)
	}

	asset, err := svc.GetAsset(context.Background(), "asset-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if asset.TotalShares != 1000 {
		t.Fatalf("duplicate overwrote shares: %d", asset.TotalShares)
	}
}

func TestRegisterAssetRejectsNonAdmin(t *testing.T) {
	_, svc := newService()

	if _, err := svc.RegisterAsset(context.Background(), "intruder", "asset-1", 1000); !errors.Is(err, domainerrors.ErrUnauthorizedAdmin) {
		t.Fatalf("err = %v, want ErrUnauthorizedAdmin", err)
	}
}

func TestSetActive(t *testing.T) {
	_, svc := newService()

	if _, err := svc.RegisterAsset(context.Background(), testAdmin, "asset-1", 1000); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.SetActive(context.Background(), testAdmin, "asset-1", false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	asset, err := svc.GetAsset(context.Background(), "asset-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if asset.Active {
		t.Fatal("asset still active")
	}

	if err := svc.SetActive(context.Background(), testAdmin, "ghost", true); !errors.Is(err, domainerrors.ErrAssetNotFound) {
		t.Fatalf("err = %v, want ErrAssetNotFound", err)
	}
}

func TestSetCostCeiling(t *testing.T) {
	_, svc := newService()

	policy, err := svc.SetCostCeiling(context.Background(), testAdmin, 900)
	if err != nil {
		t.Fatalf("set ceiling: %v", err)
	}
	if policy.CostCeilingUnits != 900 {
		t.Fatalf("ceiling = %d, want 900", policy.CostCeilingUnits)
	}

	if _, err := svc.SetCostCeiling(context.Background(), testAdmin, 0); !errors.Is(err, domainerrors.ErrInvalidPolicyInput) {
		t.Fatalf("err = %v, want ErrInvalidPolicyInput", err)
	}
}

func TestTransferAdmin(t *testing.T) {
	_, svc := newService()

	policy, err := svc.TransferAdmin(context.Background(), testAdmin, "admin-2")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if policy.AdminID != "admin-2" {
		t.Fatalf("admin = %q, want admin-2", policy.AdminID)
	}

	// Old principal loses its rights as soon as the policy row flips.
	if _, err := svc.RegisterAsset(context.Background(), testAdmin, "asset-1", 1000); !errors.Is(err, domainerrors.ErrUnauthorizedAdmin) {
		t.Fatalf("old admin err = %v, want ErrUnauthorizedAdmin", err)
	}
	if _, err := svc.RegisterAsset(context.Background(), "admin-2", "asset-1", 1000); err != nil {
		t.Fatalf("new admin register: %v", err)
	}
}
