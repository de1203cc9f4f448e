package client

import (
	"context"
	"net/http"

	"github.com/ezsplit/ezsplit-go/internal/apierror"
)

// Invitation is the confirmation for a sent invitation.
type Invitation struct {
	Message        string `json:"message"`
	InvitationSent bool   `json:"invitation_sent"`
}

// InvitationService invites people to EzSplit by email.
type InvitationService struct {
	c *Client
}

// Send emails an invitation.
func (s *InvitationService) Send(ctx context.Context, email, message string) (Invitation, error) {
	if email == "" {
		return Invitation{}, apierror.New(apierror.KindInvalidInput, "an invitation needs an email address")
	}

	body := map[string]map[string]string{
		"invitation": {
			"email_address": email,
			"message":       message,
		},
	}

	var res response[Invitation]
	if err := s.c.do(ctx, http.MethodPost, "/invitations", nil, body, &res); err != nil {
		return Invitation{}, err
	}

	return res.Data, nil
}
