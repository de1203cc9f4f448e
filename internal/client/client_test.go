package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ezsplit/ezsplit-go/internal/apierror"
	"github.com/ezsplit/ezsplit-go/internal/client"
	"github.com/ezsplit/ezsplit-go/internal/config"
	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/ezsplit/ezsplit-go/internal/session"
	"github.com/ezsplit/ezsplit-go/test"
	"github.com/stretchr/testify/suite"
)

type TestSuiteStandard struct {
	suite.Suite

	client *client.Client
	gate   *session.Gate
}

// Pseudo-Test run by go test that runs the test suite.
func TestStandard(t *testing.T) {
	suite.Run(t, new(TestSuiteStandard))
}

// SetupTest starts a fresh server and client for each test.
func (suite *TestSuiteStandard) SetupTest() {
	baseURL := test.Server(suite.T())

	cfg := config.Load()
	cfg.APIBaseURL = baseURL

	suite.gate = session.New()

	c, err := client.New(cfg, client.WithUnauthorizedHook(suite.gate.Clear))
	suite.Require().NoError(err)

	suite.client = c
}

// login signs the client in as a freshly seeded user.
func (suite *TestSuiteStandard) login(email, firstName, lastName string) client.SessionUser {
	test.CreateUser(suite.T(), email, "sup3r-secret", firstName, lastName)

	user, err := suite.client.Auth.Login(context.Background(), email, "sup3r-secret")
	suite.Require().NoError(err)

	return user
}

func (suite *TestSuiteStandard) TestLogin() {
	user := suite.login("ada@example.com", "Ada", "Lovelace")

	suite.Equal("ada@example.com", user.Email)
	suite.Equal("Ada Lovelace", user.Name)
}

func (suite *TestSuiteStandard) TestLoginWrongPassword() {
	test.CreateUser(suite.T(), "ada@example.com", "sup3r-secret", "Ada", "Lovelace")

	_, err := suite.client.Auth.Login(context.Background(), "ada@example.com", "wrong")
	suite.True(errors.Is(err, apierror.ErrAuthorization))
}

func (suite *TestSuiteStandard) TestProfileRoundTrip() {
	suite.login("ada@example.com", "Ada", "Lovelace")

	profile, err := suite.client.Auth.Profile(context.Background())
	suite.Require().NoError(err)
	suite.Equal("Ada Lovelace", profile.Name)

	suite.Require().NoError(suite.client.Auth.Logout(context.Background()))

	_, err = suite.client.Auth.Profile(context.Background())
	suite.True(errors.Is(err, apierror.ErrAuthorization))
}

func (suite *TestSuiteStandard) TestLogoutDestroysServerSession() {
	suite.login("ada@example.com", "Ada", "Lovelace")

	var count int64
	suite.Require().NoError(models.DB.Model(&models.Session{}).Count(&count).Error)
	suite.Require().EqualValues(1, count)

	suite.Require().NoError(suite.client.Auth.Logout(context.Background()))

	suite.Require().NoError(models.DB.Model(&models.Session{}).Count(&count).Error)
	suite.EqualValues(0, count)
}

func (suite *TestSuiteStandard) TestRegister() {
	user, err := suite.client.Auth.Register(context.Background(), client.RegisterParams{
		FirstName:   "Grace",
		LastName:    "Hopper",
		Email:       "grace@example.com",
		Password:    "sup3r-secret",
		Phone:       "+1555123456",
		DateOfBirth: "1906-12-09",
	})
	suite.Require().NoError(err)
	suite.Equal("Grace Hopper", user.Name)

	// Registration starts a session.
	suite.True(suite.client.Auth.Check(context.Background()))
}

func (suite *TestSuiteStandard) TestRegisterValidation() {
	_, err := suite.client.Auth.Register(context.Background(), client.RegisterParams{
		FirstName: "Grace",
		Email:     "grace@example.com",
		Password:  "short",
	})

	suite.Require().True(errors.Is(err, apierror.ErrValidation))

	var apiErr *apierror.Error
	suite.Require().True(errors.As(err, &apiErr))
	suite.Contains(apiErr.Fields["password"], "must be at least 8 characters")
}

func (suite *TestSuiteStandard) TestCheckSuppressesErrors() {
	suite.False(suite.client.Auth.Check(context.Background()))

	suite.login("ada@example.com", "Ada", "Lovelace")
	suite.True(suite.client.Auth.Check(context.Background()))
}

func (suite *TestSuiteStandard) TestUnauthorizedHookClearsGate() {
	suite.gate.Authenticate(session.User{ID: "stale"})

	_, _, err := suite.client.Groups.List(context.Background(), 1)
	suite.True(errors.Is(err, apierror.ErrAuthorization))

	// The 401 side effect runs independently of the caller's handling.
	suite.Equal(session.StateUnauthenticated, suite.gate.State())
}

func (suite *TestSuiteStandard) TestNetworkFailure() {
	cfg := config.Load()
	cfg.APIBaseURL = "http://127.0.0.1:1"

	c, err := client.New(cfg)
	suite.Require().NoError(err)

	_, err = c.Auth.Profile(context.Background())
	suite.True(errors.Is(err, apierror.ErrNetwork))
}

func (suite *TestSuiteStandard) TestNotFound() {
	suite.login("ada@example.com", "Ada", "Lovelace")

	_, err := suite.client.Groups.Get(context.Background(), test.UnknownID())
	suite.True(errors.Is(err, apierror.ErrNotFound))
}

func (suite *TestSuiteStandard) TestContextCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.client.Auth.Profile(ctx)
	suite.Error(err)
}
