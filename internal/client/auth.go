package client

import (
	"context"
	"net/http"
)

// SessionUser is the identity payload returned by the session endpoints.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RegisterParams are the fields of the registration form.
type RegisterParams struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email_address"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
}

// AuthService manages the session lifecycle.
type AuthService struct {
	c *Client
}

type sessionData struct {
	User SessionUser `json:"user"`
}

// Login creates a session. The session cookie is stored in the client's
// cookie jar and sent with every subsequent request.
func (s *AuthService) Login(ctx context.Context, email, password string) (SessionUser, error) {
	body := map[string]string{
		"email_address": email,
		"password":      password,
	}

	var res response[sessionData]
	if err := s.c.do(ctx, http.MethodPost, "/session", nil, body, &res); err != nil {
		return SessionUser{}, err
	}

	s.c.cache.Set("session", res.Data.User)
	return res.Data.User, nil
}

// Logout destroys the session. The server clears the cookie.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.c.do(ctx, http.MethodDelete, "/session", nil, nil, nil); err != nil {
		return err
	}

	// Everything cached was fetched with the old session.
	s.c.cache.Invalidate("*")
	return nil
}

// Profile fetches the identity of the signed-in user.
func (s *AuthService) Profile(ctx context.Context) (SessionUser, error) {
	if hit, ok := cached[SessionUser](s.c, "session"); ok {
		return hit, nil
	}

	var res response[sessionData]
	if err := s.c.do(ctx, http.MethodGet, "/session", nil, nil, &res); err != nil {
		return SessionUser{}, err
	}

	s.c.cache.Set("session", res.Data.User)
	return res.Data.User, nil
}

// Register creates a new account. On success the server starts a session
// for the new user.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (SessionUser, error) {
	var res response[sessionData]
	if err := s.c.do(ctx, http.MethodPost, "/auth/register", nil, params, &res); err != nil {
		return SessionUser{}, err
	}

	s.c.cache.Set("session", res.Data.User)
	return res.Data.User, nil
}

// Check probes whether a session exists. All failures are treated as "not
// authenticated" and suppressed, this is the one place errors are swallowed
// deliberately.
func (s *AuthService) Check(ctx context.Context) bool {
	_, err := s.Profile(ctx)
	return err == nil
}
