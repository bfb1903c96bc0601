package repository

import (
	"errors"
	"fmt"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrLockTimeout is returned when a stock row lock could not be taken
	// within the configured lock_timeout.
	ErrLockTimeout = errors.New("timed out waiting for stock lock")
)

// itemTables maps an item type to its catalog table. Only these names are ever
// interpolated into SQL.
var itemTables = map[model.ItemType]string{
	model.ItemProduct: "products",
	model.ItemCard:    "cards",
}

func itemTable(t model.ItemType) (string, error) {
	table, ok := itemTables[t]
	if !ok {
		return "", model.ErrInvalidItemType
	}
	return table, nil
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
