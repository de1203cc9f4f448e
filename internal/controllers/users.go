package controllers

import (
	"net/http"
	"strconv"

	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/ezsplit/ezsplit-go/internal/resource"
	"github.com/gin-gonic/gin"
)

// GetUsers lists users, paginated.
func GetUsers(c *gin.Context) {
	page := pageParam(c)

	var total int64
	if err := models.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		abortDBError(c, err)
		return
	}

	var users []models.User
	err := models.DB.Order("created_at").Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	data := make([]resource.Resource, 0, len(users))
	for _, u := range users {
		data = append(data, userResource(u))
	}

	c.JSON(http.StatusOK, resource.Page{Data: data, Meta: pageMeta(page, int(total))})
}

// GetUser returns a single user.
func GetUser(c *gin.Context) {
	var user models.User
	if err := models.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		abortDBError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource.Document{Data: userResource(user)})
}

// SearchUsers finds users whose name or email contains the term.
func SearchUsers(c *gin.Context) {
	term := c.Query("term")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 || limit > perPage {
		limit = 5
	}

	var users []models.User
	pattern := "%" + term + "%"
	err = models.DB.
		Where("email_address LIKE ? OR first_name LIKE ? OR last_name LIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	data := make([]resource.Resource, 0, len(users))
	for _, u := range users {
		data = append(data, userResource(u))
	}

	c.JSON(http.StatusOK, resource.Page{Data: data, Meta: pageMeta(1, len(users))})
}
