package models

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered account.
type User struct {
	DefaultModel
	FirstName    string
	LastName     string
	EmailAddress string `gorm:"uniqueIndex"`
	PasswordHash string
	Phone        string
	AvatarURL    *string
	DateOfBirth  string

	Groups []Group `gorm:"many2many:group_memberships"`
}

// FullName joins the name parts the way the API exposes them.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the password matches the stored hash.
func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
