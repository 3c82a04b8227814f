package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrClosedState is returned when a closed receipt or shift is mutated.
	ErrClosedState = errors.New("closed")
	// ErrValidation marks rejected input.
	ErrValidation = errors.New("invalid input")

	ErrCampaignNotFound = fmt.Errorf("campaign %w", ErrNotFound)
	ErrItemNotFound     = fmt.Errorf("item in receipt %w", ErrNotFound)

	ErrReceiptClosed = fmt.Errorf("receipt %w", ErrClosedState)
	ErrShiftClosed   = fmt.Errorf("shift %w", ErrClosedState)

	ErrDuplicateBarcode   = fmt.Errorf("barcode %w", ErrAlreadyExists)
	ErrCurrencyConversion = errors.New("currency conversion failed")
)

// Invalid wraps a validation message so callers can match ErrValidation.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
