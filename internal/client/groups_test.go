package client_test

import (
	"context"

	"github.com/ezsplit/ezsplit-go/internal/client"
	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/ezsplit/ezsplit-go/test"
)

func (suite *TestSuiteStandard) TestCreateAndGetGroup() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")
	others := []models.User{
		test.CreateUser(suite.T(), "grace@example.com", "sup3r-secret", "Grace", "Hopper"),
		test.CreateUser(suite.T(), "margaret@example.com", "sup3r-secret", "Margaret", "Hamilton"),
	}

	created, err := suite.client.Groups.Create(context.Background(), client.GroupParams{
		Name:        "Road trip",
		Description: "Gas and snacks",
		CreatedByID: me.ID,
		UserIDs:     test.UUIDs(others),
	})
	suite.Require().NoError(err)
	suite.Equal("Road trip", created.Name)

	// Get resolves the member list from the included side-table.
	group, err := suite.client.Groups.Get(context.Background(), created.ID)
	suite.Require().NoError(err)
	suite.Len(group.Members, 3)

	names := make([]string, 0, len(group.Members))
	for _, m := range group.Members {
		names = append(names, m.FullName)
	}
	suite.Contains(names, "Ada Lovelace")
	suite.Contains(names, "Grace Hopper")
	suite.Contains(names, "Margaret Hamilton")
}

func (suite *TestSuiteStandard) TestGroupListOnlyContainsOwnGroups() {
	suite.login("ada@example.com", "Ada", "Lovelace")

	grace := test.CreateUser(suite.T(), "grace@example.com", "sup3r-secret", "Grace", "Hopper")
	test.CreateGroup(suite.T(), "Not mine", grace)

	groups, meta, err := suite.client.Groups.List(context.Background(), 1)
	suite.Require().NoError(err)
	suite.Empty(groups)
	suite.Equal(0, meta.Total)
	suite.NoError(meta.Check())
}

func (suite *TestSuiteStandard) TestGroupMembership() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")
	grace := test.CreateUser(suite.T(), "grace@example.com", "sup3r-secret", "Grace", "Hopper")

	created, err := suite.client.Groups.Create(context.Background(), client.GroupParams{
		Name:        "Flat",
		CreatedByID: me.ID,
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.client.Groups.AddUsers(context.Background(), created.ID, []string{grace.ID.String()}))

	group, err := suite.client.Groups.Get(context.Background(), created.ID)
	suite.Require().NoError(err)
	suite.Len(group.Members, 2)

	suite.Require().NoError(suite.client.Groups.RemoveUsers(context.Background(), created.ID, []string{grace.ID.String()}))

	group, err = suite.client.Groups.Get(context.Background(), created.ID)
	suite.Require().NoError(err)
	suite.Len(group.Members, 1)
}

func (suite *TestSuiteStandard) TestGroupCacheInvalidation() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")

	groups, _, err := suite.client.Groups.List(context.Background(), 1)
	suite.Require().NoError(err)
	suite.Empty(groups)

	// A group seeded behind the client's back is not visible, the list is
	// served from the cache.
	test.CreateGroup(suite.T(), "Seeded", currentModelUser(suite, me.ID))

	groups, _, err = suite.client.Groups.List(context.Background(), 1)
	suite.Require().NoError(err)
	suite.Empty(groups)

	// A mutation through the client invalidates the cached list.
	_, err = suite.client.Groups.Create(context.Background(), client.GroupParams{Name: "Fresh", CreatedByID: me.ID})
	suite.Require().NoError(err)

	groups, _, err = suite.client.Groups.List(context.Background(), 1)
	suite.Require().NoError(err)
	suite.Len(groups, 2)
}

func (suite *TestSuiteStandard) TestDeleteGroup() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")

	created, err := suite.client.Groups.Create(context.Background(), client.GroupParams{
		Name:        "Short lived",
		CreatedByID: me.ID,
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.client.Groups.Delete(context.Background(), created.ID))

	groups, _, err := suite.client.Groups.List(context.Background(), 1)
	suite.Require().NoError(err)
	suite.Empty(groups)
}

// currentModelUser loads the database row for the signed-in user so seed
// helpers can attach resources to it.
func currentModelUser(suite *TestSuiteStandard, id string) models.User {
	var user models.User
	suite.Require().NoError(models.DB.First(&user, "id = ?", id).Error)

	return user
}
