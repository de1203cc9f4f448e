package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ezsplit/ezsplit-go/internal/resource"
)

// User is a registered EzSplit user.
type User struct {
	ID           string
	FullName     string
	FirstName    string
	LastName     string
	EmailAddress string
	Phone        string
	AvatarURL    *string
	DateOfBirth  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func parseUser(r resource.Resource) (User, error) {
	var user User
	var err error

	user.ID = r.ID

	if user.FullName, err = stringAttr(r, "full_name"); err != nil {
		return User{}, err
	}
	if user.FirstName, err = stringAttr(r, "first_name"); err != nil {
		return User{}, err
	}
	if user.LastName, err = stringAttr(r, "last_name"); err != nil {
		return User{}, err
	}
	if user.EmailAddress, err = stringAttr(r, "email_address"); err != nil {
		return User{}, err
	}
	if user.Phone, err = stringAttr(r, "phone"); err != nil {
		return User{}, err
	}
	if user.AvatarURL, err = optionalStringAttr(r, "avatar_url"); err != nil {
		return User{}, err
	}
	if user.DateOfBirth, err = stringAttr(r, "date_of_birth"); err != nil {
		return User{}, err
	}
	if user.CreatedAt, err = timeAttr(r, "created_at"); err != nil {
		return User{}, err
	}
	if user.UpdatedAt, err = timeAttr(r, "updated_at"); err != nil {
		return User{}, err
	}

	return user, nil
}

// parseUsers converts a list of user resources, skipping and logging
// malformed entries rather than failing the whole list.
func (c *Client) parseUsers(resources []resource.Resource) []User {
	users := make([]User, 0, len(resources))
	for _, r := range resources {
		user, err := parseUser(r)
		if err != nil {
			c.log.Warn().Err(err).Str("id", r.ID).Msg("skipping malformed user resource")
			continue
		}

		users = append(users, user)
	}

	return users
}

// UserService reads users. Users are created through registration and
// managed by the backend, so there are no mutations here.
type UserService struct {
	c *Client
}

// List returns all users of the current page.
func (s *UserService) List(ctx context.Context) ([]User, resource.Meta, error) {
	type result struct {
		Users []User
		Meta  resource.Meta
	}

	if hit, ok := cached[result](s.c, "users"); ok {
		return hit.Users, hit.Meta, nil
	}

	var page resource.Page
	if err := s.c.do(ctx, http.MethodGet, "/users", nil, nil, &page); err != nil {
		return nil, resource.Meta{}, err
	}
	s.c.checkMeta("users", page.Meta)

	res := result{Users: s.c.parseUsers(page.Data), Meta: page.Meta}
	s.c.cache.Set("users", res)

	return res.Users, res.Meta, nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id string) (User, error) {
	key := "users/" + id
	if hit, ok := cached[User](s.c, key); ok {
		return hit, nil
	}

	var doc resource.Document
	if err := s.c.do(ctx, http.MethodGet, "/users/"+id, nil, nil, &doc); err != nil {
		return User{}, err
	}

	user, err := parseUser(doc.Data)
	if err != nil {
		return User{}, err
	}

	s.c.cache.Set(key, user)
	return user, nil
}

// Search finds users by name or email. Results are not cached since the
// term space is unbounded.
func (s *UserService) Search(ctx context.Context, term string, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 5
	}

	query := url.Values{
		"term":  {term},
		"limit": {strconv.Itoa(limit)},
	}

	var page resource.Page
	if err := s.c.do(ctx, http.MethodGet, "/users/search", query, nil, &page); err != nil {
		return nil, err
	}

	return s.c.parseUsers(page.Data), nil
}
