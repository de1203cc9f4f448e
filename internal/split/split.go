// Package split computes how an expense total is distributed among the
// members of a group.
package split

import (
	"github.com/ezsplit/ezsplit-go/internal/apierror"
	"github.com/shopspring/decimal"
)

// Type is the split policy of an expense.
type Type string

const (
	TypeEqual      Type = "equal"
	TypePercentage Type = "percentage"
	TypeExact      Type = "exact"
)

// Valid reports whether the value is a known split type.
func (t Type) Valid() bool {
	return t == TypeEqual || t == TypePercentage || t == TypeExact
}

// Share is one member's part of an expense.
type Share struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Equal distributes total evenly across the members, one share per member in
// input order. Residual fractions from the division are not redistributed;
// the backend is the system of record for cent reconciliation.
func Equal(total decimal.Decimal, userIDs []string) ([]Share, error) {
	if len(userIDs) == 0 {
		return nil, apierror.New(apierror.KindInvalidInput, "an equal split requires at least one member")
	}

	if total.IsNegative() {
		return nil, apierror.New(apierror.KindInvalidInput, "the expense amount must not be negative")
	}

	amount := total.Div(decimal.NewFromInt(int64(len(userIDs))))

	shares := make([]Share, 0, len(userIDs))
	for _, id := range userIDs {
		shares = append(shares, Share{UserID: id, Amount: amount})
	}

	return shares, nil
}

// Sum returns the total of all share amounts.
func Sum(shares []Share) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}

	return sum
}

// ValidateExact checks a manually entered distribution: shares must be
// non-empty, non-negative, and sum to the expense total.
func ValidateExact(total decimal.Decimal, shares []Share) error {
	if len(shares) == 0 {
		return apierror.New(apierror.KindInvalidInput, "an exact split requires at least one share")
	}

	for _, s := range shares {
		if s.Amount.IsNegative() {
			return apierror.New(apierror.KindInvalidInput, "share for user %s must not be negative", s.UserID)
		}
	}

	if !Sum(shares).Equal(total) {
		return apierror.New(apierror.KindInvalidInput, "shares sum to %s, expected %s", Sum(shares), total)
	}

	return nil
}

var hundred = decimal.NewFromInt(100)

// ValidatePercentage checks a percentage distribution: the percentages must
// sum to exactly 100.
func ValidatePercentage(shares []Share) error {
	if len(shares) == 0 {
		return apierror.New(apierror.KindInvalidInput, "a percentage split requires at least one share")
	}

	for _, s := range shares {
		if s.Amount.IsNegative() {
			return apierror.New(apierror.KindInvalidInput, "percentage for user %s must not be negative", s.UserID)
		}
	}

	if !Sum(shares).Equal(hundred) {
		return apierror.New(apierror.KindInvalidInput, "percentages sum to %s, expected 100", Sum(shares))
	}

	return nil
}
