package client_test

import (
	"context"
	"errors"

	"github.com/ezsplit/ezsplit-go/internal/apierror"
	"github.com/ezsplit/ezsplit-go/internal/client"
	"github.com/ezsplit/ezsplit-go/test"
)

func (suite *TestSuiteStandard) TestCategoryLifecycle() {
	suite.login("ada@example.com", "Ada", "Lovelace")

	icon := "🍕"
	created, err := suite.client.Categories.Create(context.Background(), client.CategoryParams{
		Name: "Food",
		Icon: &icon,
	})
	suite.Require().NoError(err)
	suite.Equal("Food", created.Name)
	suite.Require().NotNil(created.Icon)
	suite.Equal("🍕", *created.Icon)
	suite.Nil(created.Color)

	fetched, err := suite.client.Categories.Get(context.Background(), created.ID)
	suite.Require().NoError(err)
	suite.Equal(created.Name, fetched.Name)

	color := "#ff0000"
	updated, err := suite.client.Categories.Update(context.Background(), created.ID, client.CategoryParams{
		Name:  "Groceries",
		Color: &color,
	})
	suite.Require().NoError(err)
	suite.Equal("Groceries", updated.Name)
	suite.Nil(updated.Icon)

	suite.Require().NoError(suite.client.Categories.Delete(context.Background(), created.ID))

	_, err = suite.client.Categories.Get(context.Background(), created.ID)
	suite.True(errors.Is(err, apierror.ErrNotFound))
}

func (suite *TestSuiteStandard) TestCategoryValidation() {
	suite.login("ada@example.com", "Ada", "Lovelace")

	_, err := suite.client.Categories.Create(context.Background(), client.CategoryParams{})
	suite.Require().True(errors.Is(err, apierror.ErrValidation))

	var apiErr *apierror.Error
	suite.Require().True(errors.As(err, &apiErr))
	suite.Contains(apiErr.Fields, "name")
}

func (suite *TestSuiteStandard) TestCategoryCacheInvalidation() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")
	user := currentModelUser(suite, me.ID)

	categories, err := suite.client.Categories.List(context.Background())
	suite.Require().NoError(err)
	suite.Empty(categories)

	// Seeded behind the client's back, so the cached empty list still
	// serves until a mutation drops it.
	test.CreateCategory(suite.T(), "Rent", user)

	categories, err = suite.client.Categories.List(context.Background())
	suite.Require().NoError(err)
	suite.Empty(categories)

	_, err = suite.client.Categories.Create(context.Background(), client.CategoryParams{Name: "Travel"})
	suite.Require().NoError(err)

	categories, err = suite.client.Categories.List(context.Background())
	suite.Require().NoError(err)
	suite.Len(categories, 2)
}
