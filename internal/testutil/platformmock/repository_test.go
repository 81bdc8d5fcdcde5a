package platformmock

import (
	"context"
	"errors"
	"testing"

	domain "microlending/internal/domain/platform"
)

func TestRepo_Funcs(t *testing.T) {
	ctx := context.Background()
	st := &domain.State{Owner: "ST1OWNER"}
	saveErr := errors.New("boom")

	m := &Repo{
		GetFn:          func(context.Context) (*domain.State, error) { return st, nil },
		GetForUpdateFn: func(context.Context) (*domain.State, error) { return st, nil },
		SaveFn:         func(context.Context, *domain.State) error { return saveErr },
	}
	if got, err := m.Get(ctx); err != nil || got != st {
		t.Fatalf("Get: got (%v, %v)", got, err)
	}
	if got, err := m.GetForUpdate(ctx); err != nil || got != st {
		t.Fatalf("GetForUpdate: got (%v, %v)", got, err)
	}
	if err := m.Save(ctx, st); !errors.Is(err, saveErr) {
		t.Fatalf("Save: want %v, got %v", saveErr, err)
	}
}

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}
	if _, err := m.Get(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Get default: want context.Canceled, got %v", err)
	}
	if _, err := m.GetForUpdate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetForUpdate default: want context.Canceled, got %v", err)
	}
	if err := m.Create(ctx, &domain.State{}); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
	if err := m.Save(ctx, &domain.State{}); err != nil {
		t.Fatalf("Save default: want nil, got %v", err)
	}
}
