package models

import "github.com/google/uuid"

// Category labels expenses.
type Category struct {
	DefaultModel
	Name        string
	Icon        *string
	Color       *string
	CreatedByID uuid.UUID
}
