// Package controllers implements the handlers of the development server.
// The routes and payload shapes follow the EzSplit backend contract so the
// client can be exercised against a real counterparty.
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/ezsplit/ezsplit-go/internal/resource"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const perPage = 20

// errorBody is the error response shape.
type errorBody struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody{Message: message})
}

func abortValidation(c *gin.Context, fields map[string][]string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorBody{
		Message: "Validation failed",
		Errors:  fields,
	})
}

// abortDBError translates a database error into the right status.
func abortDBError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		abortError(c, http.StatusNotFound, "the requested resource does not exist")
		return
	}

	abortError(c, http.StatusInternalServerError, err.Error())
}

// bindJSON binds the request body, answering 400 on malformed payloads.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		abortError(c, http.StatusBadRequest, "the request body could not be parsed")
		return false
	}

	return true
}

const contextUser = "ezsplit-user"

// RequireSession loads the session referenced by the cookie and stores the
// user in the request context. Requests without a valid session get a 401.
func RequireSession(c *gin.Context) {
	token, err := c.Cookie(models.SessionCookie)
	if err != nil || token == "" {
		abortError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var session models.Session
	err = models.DB.Preload("User").First(&session, "token = ?", token).Error
	if err != nil {
		abortError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	c.Set(contextUser, session.User)
	c.Next()
}

// currentUser returns the user stored by RequireSession.
func currentUser(c *gin.Context) models.User {
	return c.MustGet(contextUser).(models.User)
}

// pageParam reads the ?page query parameter, defaulting to the first page.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}

	return page
}

// pageMeta builds the pagination metadata for a collection response,
// honoring the invariant that next_page is null exactly on the last page.
func pageMeta(page, total int) resource.Meta {
	totalPages := (total + perPage - 1) / perPage

	meta := resource.Meta{
		CurrentPage: page,
		Total:       total,
		TotalPages:  totalPages,
	}

	if page < totalPages {
		next := page + 1
		meta.NextPage = &next
	}

	if page > 1 {
		prev := page - 1
		meta.PrevPage = &prev
	}

	return meta
}

func timestampAttrs(m models.DefaultModel) map[string]any {
	return map[string]any{
		"created_at": m.CreatedAt.Format(time.RFC3339),
		"updated_at": m.UpdatedAt.Format(time.RFC3339),
	}
}

// Serializers producing the resource envelopes. The same envelope types the
// client decodes are used for encoding here, so both sides of the contract
// share one shape.

func userResource(u models.User) resource.Resource {
	attrs := timestampAttrs(u.DefaultModel)
	attrs["full_name"] = u.FullName()
	attrs["first_name"] = u.FirstName
	attrs["last_name"] = u.LastName
	attrs["email_address"] = u.EmailAddress
	attrs["phone"] = u.Phone
	attrs["date_of_birth"] = u.DateOfBirth
	if u.AvatarURL != nil {
		attrs["avatar_url"] = *u.AvatarURL
	}

	return resource.Resource{
		ID:         u.ID.String(),
		Type:       "user",
		Attributes: attrs,
	}
}

func groupResource(g models.Group) resource.Resource {
	attrs := timestampAttrs(g.DefaultModel)
	attrs["name"] = g.Name
	attrs["description"] = g.Description
	attrs["created_by_id"] = g.CreatedByID.String()

	refs := make([]resource.Ref, 0, len(g.Users))
	for _, u := range g.Users {
		refs = append(refs, resource.Ref{ID: u.ID.String(), Type: "user"})
	}

	return resource.Resource{
		ID:         g.ID.String(),
		Type:       "group",
		Attributes: attrs,
		Relationships: map[string]resource.Relationship{
			"users": resource.Many(refs...),
		},
	}
}

func categoryResource(cat models.Category) resource.Resource {
	attrs := timestampAttrs(cat.DefaultModel)
	attrs["name"] = cat.Name
	attrs["created_by_id"] = cat.CreatedByID.String()
	attrs["icon"] = nil
	attrs["color"] = nil
	if cat.Icon != nil {
		attrs["icon"] = *cat.Icon
	}
	if cat.Color != nil {
		attrs["color"] = *cat.Color
	}

	return resource.Resource{
		ID:         cat.ID.String(),
		Type:       "category",
		Attributes: attrs,
	}
}

func expenseResource(e models.Expense) resource.Resource {
	attrs := timestampAttrs(e.DefaultModel)
	attrs["name"] = e.Name
	attrs["amount"] = e.Amount.String()
	attrs["currency"] = e.Currency
	attrs["split_type"] = e.SplitType
	attrs["expense_date"] = e.ExpenseDate
	attrs["settled"] = e.Settled

	rels := map[string]resource.Relationship{
		"payer": resource.Single(resource.Ref{ID: e.PayerID.String(), Type: "user"}),
		"group": resource.Single(resource.Ref{ID: e.GroupID.String(), Type: "group"}),
	}

	if e.CategoryID != nil {
		rels["category"] = resource.Single(resource.Ref{ID: e.CategoryID.String(), Type: "category"})
	}

	refs := make([]resource.Ref, 0, len(e.Shares))
	for _, s := range e.Shares {
		refs = append(refs, resource.Ref{ID: s.ID.String(), Type: "expenses_users"})
	}
	rels["expenses_users"] = resource.Many(refs...)

	return resource.Resource{
		ID:            e.ID.String(),
		Type:          "expense",
		Attributes:    attrs,
		Relationships: rels,
	}
}

func expenseUserResource(s models.ExpenseUser) resource.Resource {
	attrs := timestampAttrs(s.DefaultModel)
	attrs["amount"] = s.Amount.String()

	return resource.Resource{
		ID:         s.ID.String(),
		Type:       "expenses_users",
		Attributes: attrs,
		Relationships: map[string]resource.Relationship{
			"user": resource.Single(resource.Ref{ID: s.UserID.String(), Type: "user"}),
		},
	}
}
