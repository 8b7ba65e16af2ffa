package workflow

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrChefNotEligible   = errors.New("chef not eligible for item")
	ErrInvalidQuantity   = errors.New("quantity must be a positive multiple of 0.5")
	ErrOrderNotFound     = errors.New("order not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrEmptyOrder        = errors.New("order has no items")
)
