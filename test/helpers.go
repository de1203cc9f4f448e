// Package test provides helpers to run the development server in-process
// so client tests exercise the real HTTP round trip.
package test

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ezsplit/ezsplit-go/internal/config"
	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/ezsplit/ezsplit-go/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Server starts the API server on a fresh temporary database and returns
// its base URL. Everything is torn down with the test.
func Server(t *testing.T) string {
	t.Helper()

	gin.SetMode(gin.TestMode)

	err := models.Connect(filepath.Join(t.TempDir(), "ezsplit.db"))
	require.NoError(t, err, "database initialization failed")

	r, teardown, err := router.Router(config.Load())
	require.NoError(t, err, "router could not be initialized")

	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		srv.Close()
		teardown()
		require.NoError(t, models.Close())
	})

	return srv.URL
}

// CreateUser seeds a user with the given credentials.
func CreateUser(t *testing.T, email, password, firstName, lastName string) models.User {
	t.Helper()

	user := models.User{
		FirstName:    firstName,
		LastName:     lastName,
		EmailAddress: email,
		DateOfBirth:  "1990-01-01",
	}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, models.DB.Create(&user).Error)

	return user
}

// CreateGroup seeds a group with the given members.
func CreateGroup(t *testing.T, name string, createdBy models.User, members ...models.User) models.Group {
	t.Helper()

	group := models.Group{
		Name:        name,
		CreatedByID: createdBy.ID,
		Users:       append([]models.User{createdBy}, members...),
	}
	require.NoError(t, models.DB.Create(&group).Error)

	return group
}

// CreateCategory seeds a category.
func CreateCategory(t *testing.T, name string, createdBy models.User) models.Category {
	t.Helper()

	category := models.Category{
		Name:        name,
		CreatedByID: createdBy.ID,
	}
	require.NoError(t, models.DB.Create(&category).Error)

	return category
}

// UUIDs returns the ids of the given users as strings.
func UUIDs(users []models.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID.String())
	}

	return ids
}

// UnknownID returns a random id that matches no seeded resource.
func UnknownID() string {
	return uuid.NewString()
}
