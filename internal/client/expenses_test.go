package client_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ezsplit/ezsplit-go/internal/apierror"
	"github.com/ezsplit/ezsplit-go/internal/client"
	"github.com/ezsplit/ezsplit-go/internal/config"
	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/ezsplit/ezsplit-go/internal/split"
	"github.com/ezsplit/ezsplit-go/test"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createGroupWithMembers seeds n-1 extra users and creates a group
// containing them and the signed-in user.
func (suite *TestSuiteStandard) createGroupWithMembers(me client.SessionUser, emails ...string) (client.Group, []models.User) {
	users := make([]models.User, 0, len(emails))
	for _, email := range emails {
		users = append(users, test.CreateUser(suite.T(), email, "sup3r-secret", "Member", email))
	}

	group, err := suite.client.Groups.Create(context.Background(), client.GroupParams{
		Name:        "Shared",
		CreatedByID: me.ID,
		UserIDs:     test.UUIDs(users),
	})
	suite.Require().NoError(err)

	return group, users
}

// Scenario: an expense of 90.00 split equally across a three-member group
// distributes 30.00 to every member.
func (suite *TestSuiteStandard) TestCreateExpenseEqualSplit() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")
	group, _ := suite.createGroupWithMembers(me, "u2@example.com", "u3@example.com")

	expense, err := suite.client.Expenses.Create(context.Background(), client.ExpenseParams{
		Name:        "Dinner",
		Amount:      decimal.RequireFromString("90.00"),
		Currency:    "EUR",
		SplitType:   split.TypeEqual,
		ExpenseDate: "2024-06-01",
		PayerID:     me.ID,
		GroupID:     group.ID,
	})
	suite.Require().NoError(err)

	suite.Require().Len(expense.Distribution, 3)

	thirty := decimal.RequireFromString("30")
	seen := map[string]bool{}
	for _, share := range expense.Distribution {
		suite.True(thirty.Equal(share.Amount), "share is %s, want 30", share.Amount)
		seen[share.UserID] = true
	}
	suite.Len(seen, 3, "every member appears exactly once")
}

func (suite *TestSuiteStandard) TestCreateExpenseUnknownCurrency() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")
	group, _ := suite.createGroupWithMembers(me)

	_, err := suite.client.Expenses.Create(context.Background(), client.ExpenseParams{
		Name:      "Dinner",
		Amount:    decimal.RequireFromString("10.00"),
		Currency:  "EURO",
		SplitType: split.TypeEqual,
		PayerID:   me.ID,
		GroupID:   group.ID,
	})
	suite.True(errors.Is(err, apierror.ErrInvalidInput))
}

// Scenario: three pages of expenses paginate with the next/prev invariant.
func (suite *TestSuiteStandard) TestExpensePagination() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")
	user := currentModelUser(suite, me.ID)
	group := test.CreateGroup(suite.T(), "Bulk", user)

	for range 41 {
		expense := models.Expense{
			Name:        "Seeded",
			Amount:      decimal.RequireFromString("1.00"),
			Currency:    "EUR",
			SplitType:   "equal",
			ExpenseDate: "2024-06-01",
			PayerID:     user.ID,
			GroupID:     group.ID,
		}
		suite.Require().NoError(models.DB.Create(&expense).Error)
	}

	_, meta, err := suite.client.Expenses.List(context.Background(), client.ListExpensesParams{Page: 1})
	suite.Require().NoError(err)
	suite.Equal(1, meta.CurrentPage)
	suite.Equal(3, meta.TotalPages)
	suite.Equal(41, meta.Total)
	suite.Require().NotNil(meta.NextPage)
	suite.Equal(2, *meta.NextPage)
	suite.Nil(meta.PrevPage)
	suite.NoError(meta.Check())

	expenses, meta, err := suite.client.Expenses.List(context.Background(), client.ListExpensesParams{Page: 3})
	suite.Require().NoError(err)
	suite.Len(expenses, 1)
	suite.Nil(meta.NextPage)
	suite.Require().NotNil(meta.PrevPage)
	suite.Equal(2, *meta.PrevPage)
	suite.NoError(meta.Check())
}

// Scenario: the payer relationship resolves against the included
// side-table; a missing side-table entry degrades to an absent payer.
func (suite *TestSuiteStandard) TestExpensePayerResolution() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")
	group, _ := suite.createGroupWithMembers(me)

	created, err := suite.client.Expenses.Create(context.Background(), client.ExpenseParams{
		Name:        "Taxi",
		Amount:      decimal.RequireFromString("12.00"),
		Currency:    "EUR",
		SplitType:   split.TypeEqual,
		ExpenseDate: "2024-06-01",
		PayerID:     me.ID,
		GroupID:     group.ID,
	})
	suite.Require().NoError(err)

	expense, err := suite.client.Expenses.Get(context.Background(), created.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(expense.Payer)
	suite.Equal("Ada Lovelace", expense.Payer.FullName)

	// Remove the payer row so the backend cannot side-load it anymore.
	suite.Require().NoError(models.DB.Delete(&models.User{}, "id = ?", me.ID).Error)
	suite.client.InvalidateCache("expenses*")

	expense, err = suite.client.Expenses.Get(context.Background(), created.ID)
	suite.Require().NoError(err)
	suite.Nil(expense.Payer, "an unresolved payer renders as absent, not as an error")
	suite.Equal(me.ID, expense.PayerID, "the raw pointer is still there")
}

// A backend answering with metadata that violates the next/prev invariant
// gets its data served anyway, but the inconsistency is logged.
func TestListInconsistentMetaIsLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// next_page set on the last page.
		_, _ = w.Write([]byte(`{"data": [], "meta": {"current_page": 1, "next_page": 2, "prev_page": null, "total": 0, "total_pages": 1}}`))
	}))
	defer srv.Close()

	cfg := config.Load()
	cfg.APIBaseURL = srv.URL

	var logs bytes.Buffer
	c, err := client.New(cfg, client.WithLogger(zerolog.New(&logs)))
	require.NoError(t, err)

	_, meta, err := c.Expenses.List(context.Background(), client.ListExpensesParams{})
	require.NoError(t, err, "inconsistent metadata must not reject the list")
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Contains(t, logs.String(), "inconsistent pagination metadata")
}

func (suite *TestSuiteStandard) TestExpenseFilters() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")
	user := currentModelUser(suite, me.ID)

	groupA := test.CreateGroup(suite.T(), "A", user)
	groupB := test.CreateGroup(suite.T(), "B", user)

	for _, g := range []models.Group{groupA, groupB} {
		expense := models.Expense{
			Name:        "In " + g.Name,
			Amount:      decimal.RequireFromString("5.00"),
			Currency:    "EUR",
			SplitType:   "equal",
			ExpenseDate: "2024-06-01",
			PayerID:     user.ID,
			GroupID:     g.ID,
		}
		suite.Require().NoError(models.DB.Create(&expense).Error)
	}

	expenses, _, err := suite.client.Expenses.List(context.Background(), client.ListExpensesParams{GroupID: groupA.ID.String()})
	suite.Require().NoError(err)
	suite.Require().Len(expenses, 1)
	suite.Equal("In A", expenses[0].Name)
}

func (suite *TestSuiteStandard) TestPayExpense() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")
	group, _ := suite.createGroupWithMembers(me, "u2@example.com")

	created, err := suite.client.Expenses.Create(context.Background(), client.ExpenseParams{
		Name:        "Lunch",
		Amount:      decimal.RequireFromString("20.00"),
		Currency:    "EUR",
		SplitType:   split.TypeEqual,
		ExpenseDate: "2024-06-01",
		PayerID:     me.ID,
		GroupID:     group.ID,
	})
	suite.Require().NoError(err)
	suite.False(created.Settled)

	paid, err := suite.client.Expenses.Pay(context.Background(), created.ID)
	suite.Require().NoError(err)
	suite.True(paid.Settled)
}

func (suite *TestSuiteStandard) TestBalance() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")
	group, _ := suite.createGroupWithMembers(me, "u2@example.com")

	_, err := suite.client.Expenses.Create(context.Background(), client.ExpenseParams{
		Name:        "Hotel",
		Amount:      decimal.RequireFromString("80.00"),
		Currency:    "EUR",
		SplitType:   split.TypeEqual,
		ExpenseDate: "2024-06-01",
		PayerID:     me.ID,
		GroupID:     group.ID,
	})
	suite.Require().NoError(err)

	balance, err := suite.client.Expenses.Balance(context.Background())
	suite.Require().NoError(err)

	// The other member owes half of 80.00.
	suite.True(decimal.RequireFromString("40").Equal(balance.TotalOwed), "owed is %s", balance.TotalOwed)
	suite.True(balance.TotalOwing.IsZero())
	suite.True(decimal.RequireFromString("40").Equal(balance.NetBalance))
}

func (suite *TestSuiteStandard) TestDeleteExpense() {
	me := suite.login("ada@example.com", "Ada", "Lovelace")
	group, _ := suite.createGroupWithMembers(me)

	created, err := suite.client.Expenses.Create(context.Background(), client.ExpenseParams{
		Name:        "Mistake",
		Amount:      decimal.RequireFromString("5.00"),
		Currency:    "EUR",
		SplitType:   split.TypeEqual,
		ExpenseDate: "2024-06-01",
		PayerID:     me.ID,
		GroupID:     group.ID,
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.client.Expenses.Delete(context.Background(), created.ID))

	_, err = suite.client.Expenses.Get(context.Background(), created.ID)
	suite.True(errors.Is(err, apierror.ErrNotFound))
}
