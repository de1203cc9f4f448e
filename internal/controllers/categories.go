package controllers

import (
	"net/http"

	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/ezsplit/ezsplit-go/internal/resource"
	"github.com/gin-gonic/gin"
)

type categoryBody struct {
	Name  string  `json:"name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

// GetCategories lists all categories.
func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := models.DB.Order("name").Find(&categories).Error; err != nil {
		abortDBError(c, err)
		return
	}

	data := make([]resource.Resource, 0, len(categories))
	for _, cat := range categories {
		data = append(data, categoryResource(cat))
	}

	c.JSON(http.StatusOK, resource.Page{Data: data, Meta: pageMeta(1, len(categories))})
}

// GetCategory returns a single category.
func GetCategory(c *gin.Context) {
	var category models.Category
	if err := models.DB.First(&category, "id = ?", c.Param("id")).Error; err != nil {
		abortDBError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource.Document{Data: categoryResource(category)})
}

// CreateCategory adds a category.
func CreateCategory(c *gin.Context) {
	var body categoryBody
	if !bindJSON(c, &body) {
		return
	}

	if body.Name == "" {
		abortValidation(c, map[string][]string{"name": {"is required"}})
		return
	}

	category := models.Category{
		Name:        body.Name,
		Icon:        body.Icon,
		Color:       body.Color,
		CreatedByID: currentUser(c).ID,
	}

	if err := models.DB.Create(&category).Error; err != nil {
		abortDBError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resource.Document{Data: categoryResource(category)})
}

// UpdateCategory changes a category.
func UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := models.DB.First(&category, "id = ?", c.Param("id")).Error; err != nil {
		abortDBError(c, err)
		return
	}

	var body categoryBody
	if !bindJSON(c, &body) {
		return
	}

	if body.Name == "" {
		abortValidation(c, map[string][]string{"name": {"is required"}})
		return
	}

	category.Name = body.Name
	category.Icon = body.Icon
	category.Color = body.Color

	if err := models.DB.Save(&category).Error; err != nil {
		abortDBError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource.Document{Data: categoryResource(category)})
}

// DeleteCategory removes a category. Expenses that referenced it keep their
// category id dangling; the client degrades gracefully on unresolved refs.
func DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := models.DB.First(&category, "id = ?", c.Param("id")).Error; err != nil {
		abortDBError(c, err)
		return
	}

	if err := models.DB.Delete(&category).Error; err != nil {
		abortDBError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
