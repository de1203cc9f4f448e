package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a shared expense.
type Expense struct {
	DefaultModel
	Name        string
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Currency    string
	SplitType   string
	ExpenseDate string
	Settled     bool

	PayerID    uuid.UUID
	GroupID    uuid.UUID
	CategoryID *uuid.UUID

	Shares []ExpenseUser `gorm:"constraint:OnDelete:CASCADE"`
}

// ExpenseUser is the join record holding one participant's share of an
// expense.
type ExpenseUser struct {
	DefaultModel
	ExpenseID uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}
