package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ezsplit/ezsplit-go/internal/resource"
)

// Group is an expense-sharing group.
type Group struct {
	ID          string
	Name        string
	Description string
	CreatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Members is populated from the included side-table on Get, and from
	// the relationship pointers alone it stays empty.
	Members []User
}

func parseGroup(r resource.Resource) (Group, error) {
	var group Group
	var err error

	group.ID = r.ID

	if group.Name, err = stringAttr(r, "name"); err != nil {
		return Group{}, err
	}
	if group.Description, err = stringAttr(r, "description"); err != nil {
		return Group{}, err
	}
	if group.CreatedByID, err = stringAttr(r, "created_by_id"); err != nil {
		return Group{}, err
	}
	if group.CreatedAt, err = timeAttr(r, "created_at"); err != nil {
		return Group{}, err
	}
	if group.UpdatedAt, err = timeAttr(r, "updated_at"); err != nil {
		return Group{}, err
	}

	return group, nil
}

// GroupParams are the editable fields of a group.
type GroupParams struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CreatedByID string   `json:"created_by_id,omitempty"`
	UserIDs     []string `json:"user_ids,omitempty"`
}

// GroupService manages groups and their membership.
type GroupService struct {
	c *Client
}

// List returns one page of groups.
func (s *GroupService) List(ctx context.Context, page int) ([]Group, resource.Meta, error) {
	if page < 1 {
		page = 1
	}

	type result struct {
		Groups []Group
		Meta   resource.Meta
	}

	key := "groups?page=" + strconv.Itoa(page)
	if hit, ok := cached[result](s.c, key); ok {
		return hit.Groups, hit.Meta, nil
	}

	query := url.Values{"page": {strconv.Itoa(page)}}

	var envelope resource.Page
	if err := s.c.do(ctx, http.MethodGet, "/groups", query, nil, &envelope); err != nil {
		return nil, resource.Meta{}, err
	}
	s.c.checkMeta("groups", envelope.Meta)

	groups := make([]Group, 0, len(envelope.Data))
	for _, r := range envelope.Data {
		group, err := parseGroup(r)
		if err != nil {
			s.c.log.Warn().Err(err).Str("id", r.ID).Msg("skipping malformed group resource")
			continue
		}

		groups = append(groups, group)
	}

	res := result{Groups: groups, Meta: envelope.Meta}
	s.c.cache.Set(key, res)

	return groups, envelope.Meta, nil
}

// Get returns a group with its member list resolved from the included
// side-table. Members the backend did not side-load are omitted, never an
// error.
func (s *GroupService) Get(ctx context.Context, id string) (Group, error) {
	key := "groups/" + id
	if hit, ok := cached[Group](s.c, key); ok {
		return hit, nil
	}

	var doc resource.Document
	if err := s.c.do(ctx, http.MethodGet, "/groups/"+id, nil, nil, &doc); err != nil {
		return Group{}, err
	}

	group, err := parseGroup(doc.Data)
	if err != nil {
		return Group{}, err
	}

	group.Members = s.c.parseUsers(doc.ResolveMany("users"))

	s.c.cache.Set(key, group)
	return group, nil
}

// Create creates a group with the given members.
func (s *GroupService) Create(ctx context.Context, params GroupParams) (Group, error) {
	body := map[string]GroupParams{"group": params}

	var doc resource.Document
	if err := s.c.do(ctx, http.MethodPost, "/groups", nil, body, &doc); err != nil {
		return Group{}, err
	}

	s.c.cache.Invalidate("groups*")
	return parseGroup(doc.Data)
}

// Update changes the editable fields of a group.
func (s *GroupService) Update(ctx context.Context, id string, params GroupParams) (Group, error) {
	body := map[string]GroupParams{"group": params}

	var doc resource.Document
	if err := s.c.do(ctx, http.MethodPut, "/groups/"+id, nil, body, &doc); err != nil {
		return Group{}, err
	}

	s.c.cache.Invalidate("groups*")
	return parseGroup(doc.Data)
}

// AddUsers adds members to the group.
func (s *GroupService) AddUsers(ctx context.Context, id string, userIDs []string) error {
	body := map[string][]string{"user_ids": userIDs}

	if err := s.c.do(ctx, http.MethodPost, "/groups/"+id+"/add_users", nil, body, nil); err != nil {
		return err
	}

	s.c.cache.Invalidate("groups*")
	return nil
}

// RemoveUsers removes members from the group.
func (s *GroupService) RemoveUsers(ctx context.Context, id string, userIDs []string) error {
	body := map[string][]string{"user_ids": userIDs}

	if err := s.c.do(ctx, http.MethodDelete, "/groups/"+id+"/remove_users", nil, body, nil); err != nil {
		return err
	}

	s.c.cache.Invalidate("groups*")
	return nil
}

// Delete removes the group.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, "/groups/"+id, nil, nil, nil); err != nil {
		return err
	}

	// Expenses reference groups, so their cached views are stale too.
	s.c.cache.Invalidate("groups*")
	s.c.cache.Invalidate("expenses*")
	return nil
}
