package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ezsplit/ezsplit-go/internal/apierror"
	"github.com/ezsplit/ezsplit-go/internal/resource"
	"github.com/ezsplit/ezsplit-go/internal/split"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Expense is a shared expense with its distribution among participants.
type Expense struct {
	ID          string
	Name        string
	Amount      decimal.Decimal
	Currency    string
	SplitType   split.Type
	ExpenseDate string
	Settled     bool

	PayerID    string
	GroupID    string
	CategoryID string

	// Resolved from the included side-table where the response carries
	// one. A payer absent from the side-table leaves Payer nil.
	Payer        *User
	Category     *Category
	Distribution []split.Share
}

func parseExpense(r resource.Resource) (Expense, error) {
	var expense Expense
	var err error

	expense.ID = r.ID

	if expense.Name, err = stringAttr(r, "name"); err != nil {
		return Expense{}, err
	}
	if expense.Amount, err = decimalAttr(r, "amount"); err != nil {
		return Expense{}, err
	}
	if expense.Currency, err = stringAttr(r, "currency"); err != nil {
		return Expense{}, err
	}
	if expense.ExpenseDate, err = stringAttr(r, "expense_date"); err != nil {
		return Expense{}, err
	}
	if expense.Settled, err = boolAttr(r, "settled"); err != nil {
		return Expense{}, err
	}

	splitType, err := stringAttr(r, "split_type")
	if err != nil {
		return Expense{}, err
	}
	expense.SplitType = split.Type(splitType)

	expense.PayerID = relationshipID(r, "payer")
	expense.GroupID = relationshipID(r, "group")
	expense.CategoryID = relationshipID(r, "category")

	return expense, nil
}

// resolveExpense joins the side-loaded payer, category and participant
// shares onto the expense. Missing side-table entries degrade to absent
// fields.
func (c *Client) resolveExpense(r resource.Resource, included []resource.Resource) (Expense, error) {
	expense, err := parseExpense(r)
	if err != nil {
		return Expense{}, err
	}

	if payer, ok := resource.ResolveOne(r.Relationship("payer"), included, nil); ok {
		if user, err := parseUser(payer); err == nil {
			expense.Payer = &user
		} else {
			c.log.Warn().Err(err).Str("id", payer.ID).Msg("skipping malformed payer resource")
		}
	}

	if cat, ok := resource.ResolveOne(r.Relationship("category"), included, nil); ok {
		if category, err := parseCategory(cat); err == nil {
			expense.Category = &category
		} else {
			c.log.Warn().Err(err).Str("id", cat.ID).Msg("skipping malformed category resource")
		}
	}

	for _, eu := range resource.ResolveMany(r.Relationship("expenses_users"), included, nil) {
		amount, err := decimalAttr(eu, "amount")
		if err != nil {
			c.log.Warn().Err(err).Str("id", eu.ID).Msg("skipping malformed expenses_users resource")
			continue
		}

		expense.Distribution = append(expense.Distribution, split.Share{
			UserID: relationshipID(eu, "user"),
			Amount: amount,
		})
	}

	return expense, nil
}

// ExpenseParams are the editable fields of an expense. For equal splits the
// distribution is computed by the service; for exact and percentage splits
// the caller supplies it.
type ExpenseParams struct {
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	SplitType    split.Type      `json:"split_type"`
	ExpenseDate  string          `json:"expense_date"`
	Settled      bool            `json:"settled"`
	PayerID      string          `json:"payer_id"`
	GroupID      string          `json:"group_id"`
	CategoryID   string          `json:"category_id,omitempty"`
	Distribution []split.Share   `json:"distribution"`
}

func (p *ExpenseParams) validate() error {
	if p.Name == "" {
		return apierror.New(apierror.KindInvalidInput, "an expense needs a name")
	}

	if !p.SplitType.Valid() {
		return apierror.New(apierror.KindInvalidInput, "unknown split type %q", p.SplitType)
	}

	if _, err := currency.ParseISO(p.Currency); err != nil {
		return apierror.New(apierror.KindInvalidInput, "unknown currency code %q", p.Currency)
	}

	switch p.SplitType {
	case split.TypeExact:
		return split.ValidateExact(p.Amount, p.Distribution)
	case split.TypePercentage:
		return split.ValidatePercentage(p.Distribution)
	}

	return nil
}

// ListExpensesParams filter the expense list.
type ListExpensesParams struct {
	GroupID string
	UserID  string
	Page    int
}

func (p ListExpensesParams) query() url.Values {
	query := url.Values{}
	if p.GroupID != "" {
		query.Set("group_id", p.GroupID)
	}
	if p.UserID != "" {
		query.Set("user_id", p.UserID)
	}
	if p.Page > 1 {
		query.Set("page", strconv.Itoa(p.Page))
	}

	return query
}

// Balance is the net settlement position of a user across all expenses,
// computed by the backend.
type Balance struct {
	TotalOwed  decimal.Decimal `json:"total_owed"`
	TotalOwing decimal.Decimal `json:"total_owing"`
	NetBalance decimal.Decimal `json:"net_balance"`
}

// ExpenseService manages expenses.
type ExpenseService struct {
	c *Client
}

// List returns one page of expenses with side-loaded payers and categories
// resolved.
func (s *ExpenseService) List(ctx context.Context, params ListExpensesParams) ([]Expense, resource.Meta, error) {
	type result struct {
		Expenses []Expense
		Meta     resource.Meta
	}

	key := "expenses?" + params.query().Encode()
	if hit, ok := cached[result](s.c, key); ok {
		return hit.Expenses, hit.Meta, nil
	}

	var page resource.Page
	if err := s.c.do(ctx, http.MethodGet, "/expenses", params.query(), nil, &page); err != nil {
		return nil, resource.Meta{}, err
	}
	s.c.checkMeta("expenses", page.Meta)

	expenses := make([]Expense, 0, len(page.Data))
	for _, r := range page.Data {
		expense, err := s.c.resolveExpense(r, page.Included)
		if err != nil {
			s.c.log.Warn().Err(err).Str("id", r.ID).Msg("skipping malformed expense resource")
			continue
		}

		expenses = append(expenses, expense)
	}

	res := result{Expenses: expenses, Meta: page.Meta}
	s.c.cache.Set(key, res)

	return expenses, page.Meta, nil
}

// Get returns a single expense with payer, category and distribution
// resolved from the included side-table.
func (s *ExpenseService) Get(ctx context.Context, id string) (Expense, error) {
	key := "expenses/" + id
	if hit, ok := cached[Expense](s.c, key); ok {
		return hit, nil
	}

	var doc resource.Document
	if err := s.c.do(ctx, http.MethodGet, "/expenses/"+id, nil, nil, &doc); err != nil {
		return Expense{}, err
	}

	expense, err := s.c.resolveExpense(doc.Data, doc.Included)
	if err != nil {
		return Expense{}, err
	}

	s.c.cache.Set(key, expense)
	return expense, nil
}

// Create creates an expense. For an equal split with no explicit
// distribution, the shares are computed over the group's members.
func (s *ExpenseService) Create(ctx context.Context, params ExpenseParams) (Expense, error) {
	if params.SplitType == split.TypeEqual && len(params.Distribution) == 0 {
		group, err := s.c.Groups.Get(ctx, params.GroupID)
		if err != nil {
			return Expense{}, err
		}

		memberIDs := make([]string, 0, len(group.Members))
		for _, m := range group.Members {
			memberIDs = append(memberIDs, m.ID)
		}

		params.Distribution, err = split.Equal(params.Amount, memberIDs)
		if err != nil {
			return Expense{}, err
		}
	}

	if err := params.validate(); err != nil {
		return Expense{}, err
	}

	body := map[string]ExpenseParams{"expense": params}

	var doc resource.Document
	if err := s.c.do(ctx, http.MethodPost, "/expenses", nil, body, &doc); err != nil {
		return Expense{}, err
	}

	s.c.cache.Invalidate("expenses*")
	return s.c.resolveExpense(doc.Data, doc.Included)
}

// Update changes an expense.
func (s *ExpenseService) Update(ctx context.Context, id string, params ExpenseParams) (Expense, error) {
	if err := params.validate(); err != nil {
		return Expense{}, err
	}

	body := map[string]ExpenseParams{"expense": params}

	var doc resource.Document
	if err := s.c.do(ctx, http.MethodPut, "/expenses/"+id, nil, body, &doc); err != nil {
		return Expense{}, err
	}

	s.c.cache.Invalidate("expenses*")
	return s.c.resolveExpense(doc.Data, doc.Included)
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, "/expenses/"+id, nil, nil, nil); err != nil {
		return err
	}

	s.c.cache.Invalidate("expenses*")
	return nil
}

// Pay settles an expense.
func (s *ExpenseService) Pay(ctx context.Context, id string) (Expense, error) {
	var doc resource.Document
	if err := s.c.do(ctx, http.MethodPost, "/expenses/"+id+"/pay", nil, nil, &doc); err != nil {
		return Expense{}, err
	}

	s.c.cache.Invalidate("expenses*")
	return s.c.resolveExpense(doc.Data, doc.Included)
}

// Balance returns the signed-in user's settlement summary.
func (s *ExpenseService) Balance(ctx context.Context) (Balance, error) {
	var res response[Balance]
	if err := s.c.do(ctx, http.MethodGet, "/expenses/balance", nil, nil, &res); err != nil {
		return Balance{}, err
	}

	return res.Data, nil
}
