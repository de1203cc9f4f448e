package controllers

import (
	"net/http"

	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/ezsplit/ezsplit-go/internal/resource"
	"github.com/ezsplit/ezsplit-go/internal/split"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type expenseBody struct {
	Expense struct {
		Name         string          `json:"name"`
		Amount       decimal.Decimal `json:"amount"`
		Currency     string          `json:"currency"`
		SplitType    string          `json:"split_type"`
		ExpenseDate  string          `json:"expense_date"`
		Settled      bool            `json:"settled"`
		PayerID      string          `json:"payer_id"`
		GroupID      string          `json:"group_id"`
		CategoryID   string          `json:"category_id"`
		Distribution []struct {
			UserID string          `json:"user_id"`
			Amount decimal.Decimal `json:"amount"`
		} `json:"distribution"`
	} `json:"expense"`
}

// expenseIncluded side-loads everything an expense's relationships point
// at: the share join rows, the participating users, payer and category.
func expenseIncluded(expenses ...models.Expense) ([]resource.Resource, error) {
	var included []resource.Resource

	userIDs := map[uuid.UUID]bool{}
	categoryIDs := map[uuid.UUID]bool{}

	for _, e := range expenses {
		for _, s := range e.Shares {
			included = append(included, expenseUserResource(s))
			userIDs[s.UserID] = true
		}

		userIDs[e.PayerID] = true
		if e.CategoryID != nil {
			categoryIDs[*e.CategoryID] = true
		}
	}

	if len(userIDs) > 0 {
		ids := make([]uuid.UUID, 0, len(userIDs))
		for id := range userIDs {
			ids = append(ids, id)
		}

		var users []models.User
		if err := models.DB.Find(&users, "id IN ?", ids).Error; err != nil {
			return nil, err
		}

		for _, u := range users {
			included = append(included, userResource(u))
		}
	}

	if len(categoryIDs) > 0 {
		ids := make([]uuid.UUID, 0, len(categoryIDs))
		for id := range categoryIDs {
			ids = append(ids, id)
		}

		var categories []models.Category
		if err := models.DB.Find(&categories, "id IN ?", ids).Error; err != nil {
			return nil, err
		}

		for _, cat := range categories {
			included = append(included, categoryResource(cat))
		}
	}

	return included, nil
}

// GetExpenses lists expenses, filterable by group and participant.
func GetExpenses(c *gin.Context) {
	page := pageParam(c)

	query := models.DB.Model(&models.Expense{})
	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where(
			"id IN (?)",
			models.DB.Model(&models.ExpenseUser{}).Select("expense_id").Where("user_id = ?", userID),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		abortDBError(c, err)
		return
	}

	var expenses []models.Expense
	err := query.Preload("Shares").
		Order("expense_date DESC, created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&expenses).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	data := make([]resource.Resource, 0, len(expenses))
	for _, e := range expenses {
		data = append(data, expenseResource(e))
	}

	included, err := expenseIncluded(expenses...)
	if err != nil {
		abortDBError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource.Page{
		Data:     data,
		Included: included,
		Meta:     pageMeta(page, int(total)),
	})
}

// GetExpense returns one expense with its full side-table.
func GetExpense(c *gin.Context) {
	var expense models.Expense
	err := models.DB.Preload("Shares").First(&expense, "id = ?", c.Param("id")).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	included, err := expenseIncluded(expense)
	if err != nil {
		abortDBError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource.Document{Data: expenseResource(expense), Included: included})
}

func validateExpense(c *gin.Context, body *expenseBody) (models.Expense, bool) {
	fields := map[string][]string{}

	if body.Expense.Name == "" {
		fields["name"] = append(fields["name"], "is required")
	}
	if body.Expense.Amount.IsNegative() {
		fields["amount"] = append(fields["amount"], "must not be negative")
	}
	if !split.Type(body.Expense.SplitType).Valid() {
		fields["split_type"] = append(fields["split_type"], "must be equal, exact or percentage")
	}
	if len(body.Expense.Distribution) == 0 {
		fields["distribution"] = append(fields["distribution"], "must have at least one share")
	}

	payerID, err := uuid.Parse(body.Expense.PayerID)
	if err != nil {
		fields["payer_id"] = append(fields["payer_id"], "is not a valid id")
	}
	groupID, err := uuid.Parse(body.Expense.GroupID)
	if err != nil {
		fields["group_id"] = append(fields["group_id"], "is not a valid id")
	}

	var categoryID *uuid.UUID
	if body.Expense.CategoryID != "" {
		id, err := uuid.Parse(body.Expense.CategoryID)
		if err != nil {
			fields["category_id"] = append(fields["category_id"], "is not a valid id")
		} else {
			categoryID = &id
		}
	}

	if len(fields) > 0 {
		abortValidation(c, fields)
		return models.Expense{}, false
	}

	expense := models.Expense{
		Name:        body.Expense.Name,
		Amount:      body.Expense.Amount,
		Currency:    body.Expense.Currency,
		SplitType:   body.Expense.SplitType,
		ExpenseDate: body.Expense.ExpenseDate,
		Settled:     body.Expense.Settled,
		PayerID:     payerID,
		GroupID:     groupID,
		CategoryID:  categoryID,
	}

	for _, share := range body.Expense.Distribution {
		userID, err := uuid.Parse(share.UserID)
		if err != nil {
			abortValidation(c, map[string][]string{"distribution": {"contains an invalid user id"}})
			return models.Expense{}, false
		}

		expense.Shares = append(expense.Shares, models.ExpenseUser{
			UserID: userID,
			Amount: share.Amount,
		})
	}

	return expense, true
}

// CreateExpense records an expense with its distribution.
func CreateExpense(c *gin.Context) {
	var body expenseBody
	if !bindJSON(c, &body) {
		return
	}

	expense, ok := validateExpense(c, &body)
	if !ok {
		return
	}

	if err := models.DB.Create(&expense).Error; err != nil {
		abortDBError(c, err)
		return
	}

	included, err := expenseIncluded(expense)
	if err != nil {
		abortDBError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resource.Document{Data: expenseResource(expense), Included: included})
}

// UpdateExpense replaces an expense's fields and distribution.
func UpdateExpense(c *gin.Context) {
	var existing models.Expense
	err := models.DB.Preload("Shares").First(&existing, "id = ?", c.Param("id")).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	var body expenseBody
	if !bindJSON(c, &body) {
		return
	}

	expense, ok := validateExpense(c, &body)
	if !ok {
		return
	}

	// Replace the share rows wholesale, the distribution is not patched
	// piecemeal.
	if err := models.DB.Delete(&models.ExpenseUser{}, "expense_id = ?", existing.ID).Error; err != nil {
		abortDBError(c, err)
		return
	}

	expense.DefaultModel = existing.DefaultModel
	for i := range expense.Shares {
		expense.Shares[i].ExpenseID = existing.ID
	}

	if err := models.DB.Save(&expense).Error; err != nil {
		abortDBError(c, err)
		return
	}

	included, err := expenseIncluded(expense)
	if err != nil {
		abortDBError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource.Document{Data: expenseResource(expense), Included: included})
}

// DeleteExpense removes an expense and its shares.
func DeleteExpense(c *gin.Context) {
	var expense models.Expense
	if err := models.DB.First(&expense, "id = ?", c.Param("id")).Error; err != nil {
		abortDBError(c, err)
		return
	}

	if err := models.DB.Delete(&models.ExpenseUser{}, "expense_id = ?", expense.ID).Error; err != nil {
		abortDBError(c, err)
		return
	}

	if err := models.DB.Delete(&expense).Error; err != nil {
		abortDBError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PayExpense marks an expense as settled.
func PayExpense(c *gin.Context) {
	var expense models.Expense
	err := models.DB.Preload("Shares").First(&expense, "id = ?", c.Param("id")).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	expense.Settled = true
	if err := models.DB.Save(&expense).Error; err != nil {
		abortDBError(c, err)
		return
	}

	included, err := expenseIncluded(expense)
	if err != nil {
		abortDBError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource.Document{Data: expenseResource(expense), Included: included})
}

type balanceResponse struct {
	Success bool `json:"success"`
	Data    struct {
		TotalOwed  decimal.Decimal `json:"total_owed"`
		TotalOwing decimal.Decimal `json:"total_owing"`
		NetBalance decimal.Decimal `json:"net_balance"`
	} `json:"data"`
}

// GetBalance computes the signed-in user's settlement position: what others
// owe on unsettled expenses they paid, minus their own unsettled shares.
func GetBalance(c *gin.Context) {
	user := currentUser(c)

	var expenses []models.Expense
	err := models.DB.Preload("Shares").Where("settled = ?", false).Find(&expenses).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	owed := decimal.Zero
	owing := decimal.Zero

	for _, e := range expenses {
		for _, s := range e.Shares {
			switch {
			case e.PayerID == user.ID && s.UserID != user.ID:
				owed = owed.Add(s.Amount)
			case e.PayerID != user.ID && s.UserID == user.ID:
				owing = owing.Add(s.Amount)
			}
		}
	}

	var res balanceResponse
	res.Success = true
	res.Data.TotalOwed = owed
	res.Data.TotalOwing = owing
	res.Data.NetBalance = owed.Sub(owing)

	c.JSON(http.StatusOK, res)
}
