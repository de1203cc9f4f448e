package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "ezsplit_session"

// Session is a server-side session, referenced by the token stored in the
// client's cookie.
type Session struct {
	Token     string `gorm:"primaryKey"`
	UserID    uuid.UUID
	User      User
	CreatedAt time.Time
}

// NewSession creates a session with a random token for the user.
func NewSession(userID uuid.UUID) Session {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)

	return Session{
		Token:  hex.EncodeToString(buf),
		UserID: userID,
	}
}

// Invitation is a recorded email invitation. The dev server stores it
// instead of sending mail.
type Invitation struct {
	DefaultModel
	EmailAddress string
	Message      string
	SenderID     uuid.UUID
}
