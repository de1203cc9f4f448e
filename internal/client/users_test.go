package client_test

import (
	"context"
	"errors"

	"github.com/ezsplit/ezsplit-go/internal/apierror"
	"github.com/ezsplit/ezsplit-go/test"
)

func (suite *TestSuiteStandard) TestListUsers() {
	suite.login("ada@example.com", "Ada", "Lovelace")
	test.CreateUser(suite.T(), "grace@example.com", "sup3r-secret", "Grace", "Hopper")

	users, meta, err := suite.client.Users.List(context.Background())
	suite.Require().NoError(err)
	suite.Len(users, 2)
	suite.Equal(2, meta.Total)
	suite.NoError(meta.Check())
}

func (suite *TestSuiteStandard) TestGetUser() {
	suite.login("ada@example.com", "Ada", "Lovelace")
	grace := test.CreateUser(suite.T(), "grace@example.com", "sup3r-secret", "Grace", "Hopper")

	user, err := suite.client.Users.Get(context.Background(), grace.ID.String())
	suite.Require().NoError(err)
	suite.Equal("Grace Hopper", user.FullName)
	suite.Equal("grace@example.com", user.EmailAddress)
}

func (suite *TestSuiteStandard) TestGetUserNotFound() {
	suite.login("ada@example.com", "Ada", "Lovelace")

	_, err := suite.client.Users.Get(context.Background(), test.UnknownID())
	suite.True(errors.Is(err, apierror.ErrNotFound))
}

func (suite *TestSuiteStandard) TestSearchUsers() {
	suite.login("ada@example.com", "Ada", "Lovelace")
	test.CreateUser(suite.T(), "grace@example.com", "sup3r-secret", "Grace", "Hopper")
	test.CreateUser(suite.T(), "linus@example.com", "sup3r-secret", "Linus", "Torvalds")

	users, err := suite.client.Users.Search(context.Background(), "grace", 0)
	suite.Require().NoError(err)
	suite.Require().Len(users, 1)
	suite.Equal("Grace Hopper", users[0].FullName)

	// Last-name matches count too.
	users, err = suite.client.Users.Search(context.Background(), "torval", 0)
	suite.Require().NoError(err)
	suite.Len(users, 1)

	users, err = suite.client.Users.Search(context.Background(), "nobody-here", 0)
	suite.Require().NoError(err)
	suite.Empty(users)
}
