package controllers

import (
	"net/http"

	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/ezsplit/ezsplit-go/internal/resource"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type groupBody struct {
	Group struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		CreatedByID string   `json:"created_by_id"`
		UserIDs     []string `json:"user_ids"`
	} `json:"group"`
}

// GetGroups lists the groups the signed-in user belongs to.
func GetGroups(c *gin.Context) {
	user := currentUser(c)
	page := pageParam(c)

	base := models.DB.Model(&models.Group{}).
		Joins("JOIN group_memberships ON group_memberships.group_id = groups.id").
		Where("group_memberships.user_id = ?", user.ID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		abortDBError(c, err)
		return
	}

	var groups []models.Group
	err := base.Preload("Users").
		Order("groups.created_at").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&groups).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	data := make([]resource.Resource, 0, len(groups))
	for _, g := range groups {
		data = append(data, groupResource(g))
	}

	c.JSON(http.StatusOK, resource.Page{Data: data, Meta: pageMeta(page, int(total))})
}

// GetGroup returns a group with its members side-loaded.
func GetGroup(c *gin.Context) {
	var group models.Group
	err := models.DB.Preload("Users").First(&group, "id = ?", c.Param("id")).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	included := make([]resource.Resource, 0, len(group.Users))
	for _, u := range group.Users {
		included = append(included, userResource(u))
	}

	c.JSON(http.StatusOK, resource.Document{Data: groupResource(group), Included: included})
}

// CreateGroup creates a group. The creator is always a member.
func CreateGroup(c *gin.Context) {
	user := currentUser(c)

	var body groupBody
	if !bindJSON(c, &body) {
		return
	}

	if body.Group.Name == "" {
		abortValidation(c, map[string][]string{"name": {"is required"}})
		return
	}

	members, ok := loadUsers(c, append(body.Group.UserIDs, user.ID.String()))
	if !ok {
		return
	}

	group := models.Group{
		Name:        body.Group.Name,
		Description: body.Group.Description,
		CreatedByID: user.ID,
		Users:       members,
	}

	if err := models.DB.Create(&group).Error; err != nil {
		abortDBError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resource.Document{Data: groupResource(group)})
}

// UpdateGroup changes name and description.
func UpdateGroup(c *gin.Context) {
	var group models.Group
	err := models.DB.Preload("Users").First(&group, "id = ?", c.Param("id")).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	var body groupBody
	if !bindJSON(c, &body) {
		return
	}

	if body.Group.Name != "" {
		group.Name = body.Group.Name
	}
	group.Description = body.Group.Description

	if err := models.DB.Save(&group).Error; err != nil {
		abortDBError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource.Document{Data: groupResource(group)})
}

type memberBody struct {
	UserIDs []string `json:"user_ids"`
}

// AddGroupUsers adds members to a group.
func AddGroupUsers(c *gin.Context) {
	var group models.Group
	err := models.DB.Preload("Users").First(&group, "id = ?", c.Param("id")).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	var body memberBody
	if !bindJSON(c, &body) {
		return
	}

	users, ok := loadUsers(c, body.UserIDs)
	if !ok {
		return
	}

	if err := models.DB.Model(&group).Association("Users").Append(users); err != nil {
		abortDBError(c, err)
		return
	}

	models.DB.Preload("Users").First(&group, "id = ?", group.ID)
	c.JSON(http.StatusOK, resource.Document{Data: groupResource(group)})
}

// RemoveGroupUsers removes members from a group.
func RemoveGroupUsers(c *gin.Context) {
	var group models.Group
	err := models.DB.Preload("Users").First(&group, "id = ?", c.Param("id")).Error
	if err != nil {
		abortDBError(c, err)
		return
	}

	var body memberBody
	if !bindJSON(c, &body) {
		return
	}

	users, ok := loadUsers(c, body.UserIDs)
	if !ok {
		return
	}

	if err := models.DB.Model(&group).Association("Users").Delete(users); err != nil {
		abortDBError(c, err)
		return
	}

	models.DB.Preload("Users").First(&group, "id = ?", group.ID)
	c.JSON(http.StatusOK, resource.Document{Data: groupResource(group)})
}

// DeleteGroup removes a group.
func DeleteGroup(c *gin.Context) {
	var group models.Group
	if err := models.DB.First(&group, "id = ?", c.Param("id")).Error; err != nil {
		abortDBError(c, err)
		return
	}

	if err := models.DB.Select("Users").Delete(&group).Error; err != nil {
		abortDBError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// loadUsers resolves user ids to models, deduplicated. Unknown ids are a
// validation failure.
func loadUsers(c *gin.Context, ids []string) ([]models.User, bool) {
	seen := map[string]bool{}
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			abortValidation(c, map[string][]string{"user_ids": {"contains an invalid id"}})
			return nil, false
		}

		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var users []models.User
	if err := models.DB.Find(&users, "id IN ?", unique).Error; err != nil {
		abortDBError(c, err)
		return nil, false
	}

	if len(users) != len(unique) {
		abortValidation(c, map[string][]string{"user_ids": {"contains an unknown user"}})
		return nil, false
	}

	return users, true
}
