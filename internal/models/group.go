package models

import "github.com/google/uuid"

// Group is an expense-sharing group.
type Group struct {
	DefaultModel
	Name        string
	Description string
	CreatedByID uuid.UUID

	Users []User `gorm:"many2many:group_memberships"`
}
