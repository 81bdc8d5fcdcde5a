package registry

import (
	"context"
	"errors"
	"testing"

	"microlending/internal/adapter/repository/gormrepo"
	"microlending/internal/domain/apperr"
	"microlending/internal/domain/asset"
	"microlending/internal/domain/loan"
	"microlending/internal/domain/platform"
	"microlending/internal/domain/uow"
	"microlending/internal/testutil/loanmock"
	"microlending/internal/testutil/sqlitedb"
	"microlending/internal/testutil/uowmock"

	"gorm.io/gorm"
)

const owner = "ST1OWNER"

func setup(t *testing.T) (*Usecase, *gorm.DB) {
	t.Helper()
	db := sqlitedb.Open(t)
	if err := gormrepo.NewPlatformRepository(db).Create(context.Background(), &platform.State{Owner: owner}); err != nil {
		t.Fatalf("seed platform: %v", err)
	}
	return NewUsecase(gormrepo.NewGormUoW(db)), db
}

func TestSymbol(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"STX", "STX", false},
		{" stx ", "STX", false},
		{"wbtc.e", "WBTC.E", false},
		{"", "", true},
		{"   ", "", true},
		{"S T X", "", true},
		{"ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456", "", true},
	}
	for _, tt := range tests {
		got, err := Symbol(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("Symbol(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Fatalf("Symbol(%q) err kind = %v", tt.in, apperr.KindOf(err))
		}
		if got != tt.want {
			t.Fatalf("Symbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAddRemove(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	call := platform.Call{Caller: owner, Height: 1}

	if _, err := uc.AddAsset(ctx, call, "stx"); err != nil {
		t.Fatalf("AddAsset: %v", err)
	}
	if ok, _ := uc.IsActive(ctx, "STX"); !ok {
		t.Fatalf("STX should be active")
	}

	a, err := uc.RemoveAsset(ctx, call, "STX")
	if err != nil || a.Active {
		t.Fatalf("RemoveAsset: got (%+v, %v)", a, err)
	}
	if ok, _ := uc.IsActive(ctx, "STX"); ok {
		t.Fatalf("STX should be inactive")
	}

	// removed assets stay in the registry
	got, err := uc.Get(ctx, "STX")
	if err != nil || got.Active {
		t.Fatalf("Get after remove: got (%+v, %v)", got, err)
	}
	if _, err := uc.Get(ctx, "BTC"); !errors.Is(err, apperr.ErrAssetNotFound) {
		t.Fatalf("Get unknown: want AssetNotFound, got %v", err)
	}
	if ok, err := uc.IsActive(ctx, "BTC"); ok || err != nil {
		t.Fatalf("IsActive unknown: got (%v, %v)", ok, err)
	}
}

func TestRemove_InUse(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()
	call := platform.Call{Caller: owner, Height: 1}

	if _, err := uc.AddAsset(ctx, call, "STX"); err != nil {
		t.Fatalf("AddAsset: %v", err)
	}
	err := gormrepo.NewLoanRepository(db).Create(ctx, &loan.Loan{
		ID: 1, Borrower: "B1", Amount: 1, CollateralAmount: 2, CollateralAsset: "STX", Duration: 1,
		Status: loan.StatusPending,
	})
	if err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	if _, err := uc.RemoveAsset(ctx, call, "STX"); !errors.Is(err, apperr.ErrAssetInUse) {
		t.Fatalf("want AssetInUse, got %v", err)
	}
	if ok, _ := uc.IsActive(ctx, "STX"); !ok {
		t.Fatalf("rejected removal must leave STX active")
	}
}

func TestNotOwner(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	call := platform.Call{Caller: "ST2USER", Height: 1}

	if _, err := uc.AddAsset(ctx, call, "STX"); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("AddAsset: want NotAuthorized, got %v", err)
	}
	if _, err := uc.RemoveAsset(ctx, call, "STX"); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("RemoveAsset: want NotAuthorized, got %v", err)
	}
	list, err := uc.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("List: got (%v, %v)", list, err)
	}
}

func TestRemove_CountFailure(t *testing.T) {
	ctx := context.Background()
	db := sqlitedb.Open(t)
	assets := gormrepo.NewAssetRepository(db)
	if err := assets.Save(ctx, assetActive("STX")); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	countErr := errors.New("count failed")
	repos := uow.Repos{
		Assets: assets,
		Loans: &loanmock.Repo{
			CountByAssetFn: func(context.Context, string, ...loan.Status) (int64, error) { return 0, countErr },
		},
	}
	uc := NewUsecase(uowmock.Passthrough(repos, &platform.State{Owner: owner}))

	_, err := uc.RemoveAsset(ctx, platform.Call{Caller: owner}, "STX")
	if !errors.Is(err, countErr) {
		t.Fatalf("want %v, got %v", countErr, err)
	}
	if apperr.KindOf(err) != apperr.KindUnknown {
		t.Fatalf("infra failure must not carry a kind")
	}
}

func assetActive(symbol string) *asset.Asset { return &asset.Asset{Symbol: symbol, Active: true} }
