package controllers

import (
	"net/http"
	"strings"

	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/gin-gonic/gin"
)

type invitationResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Message        string `json:"message"`
		InvitationSent bool   `json:"invitation_sent"`
	} `json:"data"`
}

// CreateInvitation records an invitation. The dev server does not send
// mail, it only persists the request and confirms it.
func CreateInvitation(c *gin.Context) {
	var body struct {
		Invitation struct {
			EmailAddress string `json:"email_address"`
			Message      string `json:"message"`
		} `json:"invitation"`
	}
	if !bindJSON(c, &body) {
		return
	}

	if !strings.Contains(body.Invitation.EmailAddress, "@") {
		abortValidation(c, map[string][]string{"email_address": {"is not a valid email address"}})
		return
	}

	invitation := models.Invitation{
		EmailAddress: body.Invitation.EmailAddress,
		Message:      body.Invitation.Message,
		SenderID:     currentUser(c).ID,
	}

	if err := models.DB.Create(&invitation).Error; err != nil {
		abortDBError(c, err)
		return
	}

	var res invitationResponse
	res.Success = true
	res.Data.Message = "Invitation sent to " + invitation.EmailAddress
	res.Data.InvitationSent = true

	c.JSON(http.StatusCreated, res)
}
