package model

import (
	"errors"
	"strings"
)

// ItemType identifies which catalog table an item lives in.
type ItemType string

const (
	ItemProduct ItemType = "product"
	ItemCard    ItemType = "card"
)

var ErrInvalidItemType = errors.New("item type must be 'product' or 'card'")

func ParseItemType(s string) (ItemType, error) {
	switch ItemType(strings.ToLower(strings.TrimSpace(s))) {
	case ItemProduct:
		return ItemProduct, nil
	case ItemCard:
		return ItemCard, nil
	}
	return "", ErrInvalidItemType
}

func (t ItemType) Valid() bool {
	return t == ItemProduct || t == ItemCard
}
