package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidCurrency  = errors.New("invalid token symbol")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrMetadataTooLarge = errors.New("metadata size exceeds limit")
)

// Validation constants
const (
	MaxIdentityLength  = 128
	MaxAssetNameLength = 255
	MaxMetadataSize    = 10240           // 10KB
	MaxTokenAmount     = "1000000000000" // 1 trillion
)

var symbolRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,11}$`)

// ValidateEntryPrice checks that price is a positive whole token amount.
func ValidateEntryPrice(price decimal.Decimal) error {
	if !price.IsPositive() || !price.IsInteger() {
		return ErrInvalidEntryAmount
	}
	return nil
}

// ValidateAmount validates a mint or transfer amount
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount := decimal.RequireFromString(MaxTokenAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTokenAmount)
	}

	return nil
}

// ValidateCurrency validates a token symbol
func ValidateCurrency(symbol string) error {
	if !symbolRegex.MatchString(symbol) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, symbol)
	}
	return nil
}

// ValidateAssetName validates a prize asset name
func ValidateAssetName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAssetName)
	}

	if len(name) > MaxAssetNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAssetName, MaxAssetNameLength)
	}

	return nil
}

// ValidateMetadata validates metadata size
func ValidateMetadata(metadata map[string]any) error {
	if metadata == nil {
		return nil
	}

	// Estimate size (rough approximation)
	size := 0
	for k, v := range metadata {
		size += len(k)
		size += len(fmt.Sprintf("%v", v))
	}

	if size > MaxMetadataSize {
		return fmt.Errorf("%w: metadata size %d bytes exceeds limit of %d bytes", ErrMetadataTooLarge, size, MaxMetadataSize)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
