package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapLockError(t *testing.T) {
	plain := errors.New("connection reset")
	tests := []struct {
		name        string
		err         error
		wantTimeout bool
	}{
		{"lock not available", &pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"}, true},
		{"wrapped lock not available", fmt.Errorf("lock stock: %w", &pgconn.PgError{Code: "55P03"}), true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"not a pg error", plain, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapLockError(tt.err)
			if errors.Is(got, ErrLockTimeout) != tt.wantTimeout {
				t.Fatalf("mapLockError(%v) = %v, timeout = %v", tt.err, got, !tt.wantTimeout)
			}
			if !tt.wantTimeout && got != tt.err {
				t.Errorf("error changed: %v", got)
			}
		})
	}
}

func TestItemTable(t *testing.T) {
	for it, want := range map[model.ItemType]string{model.ItemProduct: "products", model.ItemCard: "cards"} {
		got, err := itemTable(it)
		if err != nil || got != want {
			t.Errorf("itemTable(%s) = %q, %v; want %q", it, got, err, want)
		}
	}
	if _, err := itemTable(model.ItemType("game")); !errors.Is(err, model.ErrInvalidItemType) {
		t.Errorf("err = %v, want ErrInvalidItemType", err)
	}
}

func TestNotFoundWraps(t *testing.T) {
	if err := notFound("card 9"); !errors.Is(err, ErrNotFound) || err.Error() != "card 9 not found" {
		t.Errorf("notFound = %v", err)
	}
}
