package controllers

import (
	"errors"
	"net/http"

	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type sessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionResponse struct {
	Success bool `json:"success"`
	Data    struct {
		User sessionUser `json:"user"`
	} `json:"data"`
}

func newSessionResponse(u models.User) sessionResponse {
	var res sessionResponse
	res.Success = true
	res.Data.User = sessionUser{
		ID:    u.ID.String(),
		Email: u.EmailAddress,
		Name:  u.FullName(),
	}

	return res
}

func setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(models.SessionCookie, token, maxAge, "/", "", false, true)
}

// Login creates a session for valid credentials.
func Login(c *gin.Context) {
	var body struct {
		EmailAddress string `json:"email_address"`
		Password     string `json:"password"`
	}
	if !bindJSON(c, &body) {
		return
	}

	var user models.User
	err := models.DB.First(&user, "email_address = ?", body.EmailAddress).Error
	if err != nil || !user.CheckPassword(body.Password) {
		// The same answer for unknown email and wrong password.
		abortError(c, http.StatusUnauthorized, "invalid email address or password")
		return
	}

	session := models.NewSession(user.ID)
	if err := models.DB.Create(&session).Error; err != nil {
		abortDBError(c, err)
		return
	}

	setSessionCookie(c, session.Token, 0)
	c.JSON(http.StatusOK, newSessionResponse(user))
}

// Logout destroys the current session and clears the cookie.
func Logout(c *gin.Context) {
	if token, err := c.Cookie(models.SessionCookie); err == nil && token != "" {
		if err := models.DB.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
			abortDBError(c, err)
			return
		}
	}

	setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Profile returns the identity of the signed-in user.
func Profile(c *gin.Context) {
	c.JSON(http.StatusOK, newSessionResponse(currentUser(c)))
}

// Register creates an account and immediately signs it in.
func Register(c *gin.Context) {
	var body struct {
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		EmailAddress string `json:"email_address"`
		Password     string `json:"password"`
		Phone        string `json:"phone"`
		DateOfBirth  string `json:"date_of_birth"`
	}
	if !bindJSON(c, &body) {
		return
	}

	fields := map[string][]string{}
	if body.FirstName == "" {
		fields["first_name"] = append(fields["first_name"], "is required")
	}
	if body.EmailAddress == "" {
		fields["email_address"] = append(fields["email_address"], "is required")
	}
	if len(body.Password) < 8 {
		fields["password"] = append(fields["password"], "must be at least 8 characters")
	}
	if len(fields) > 0 {
		abortValidation(c, fields)
		return
	}

	var existing models.User
	err := models.DB.First(&existing, "email_address = ?", body.EmailAddress).Error
	if err == nil {
		abortValidation(c, map[string][]string{"email_address": {"has already been taken"}})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		abortDBError(c, err)
		return
	}

	user := models.User{
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		EmailAddress: body.EmailAddress,
		Phone:        body.Phone,
		DateOfBirth:  body.DateOfBirth,
	}
	if err := user.SetPassword(body.Password); err != nil {
		abortError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if err := models.DB.Create(&user).Error; err != nil {
		abortDBError(c, err)
		return
	}

	session := models.NewSession(user.ID)
	if err := models.DB.Create(&session).Error; err != nil {
		abortDBError(c, err)
		return
	}

	setSessionCookie(c, session.Token, 0)
	c.JSON(http.StatusCreated, newSessionResponse(user))
}
