package client_test

import (
	"context"
	"errors"

	"github.com/ezsplit/ezsplit-go/internal/apierror"
)

func (suite *TestSuiteStandard) TestSendInvitation() {
	suite.login("ada@example.com", "Ada", "Lovelace")

	invitation, err := suite.client.Invitations.Send(context.Background(), "friend@example.com", "join me on ezsplit")
	suite.Require().NoError(err)
	suite.True(invitation.InvitationSent)
	suite.NotEmpty(invitation.Message)
}

func (suite *TestSuiteStandard) TestSendInvitationInvalidEmail() {
	suite.login("ada@example.com", "Ada", "Lovelace")

	_, err := suite.client.Invitations.Send(context.Background(), "", "hi")
	suite.True(errors.Is(err, apierror.ErrInvalidInput))

	_, err = suite.client.Invitations.Send(context.Background(), "not-an-address", "hi")
	suite.True(errors.Is(err, apierror.ErrValidation))
}
