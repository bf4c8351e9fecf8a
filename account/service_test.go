package account

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type mailerSpy struct {
	to, subject, body string
	sends             int
	err               error
}

func (m *mailerSpy) Send(_ context.Context, to string, subject string, body string) error {
	if m.err != nil {
		return m.err
	}
	m.to, m.subject, m.body = to, subject, body
	m.sends++
	return nil
}

type ServiceTestSuite struct {
	suite.Suite
	accounts Repository
	mailer   *mailerSpy
	signer   *TokenSigner
	svc      *service
	now      time.Time
}

func (s *ServiceTestSuite) SetupTest() {
	s.accounts = NewAccountRepository()
	s.mailer = &mailerSpy{}
	s.signer = NewTokenSigner("signing-secret", "lms", time.Hour)
	s.now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.svc = &service{
		accounts:    s.accounts,
		signer:      s.signer,
		mailer:      s.mailer,
		frontendURL: "https://app.coursewire.io",
		resetTTL:    15 * time.Minute,
		now:         func() time.Time { return s.now },
	}
}

func (s *ServiceTestSuite) register(email string) *Account {
	acc, err := s.svc.Register(context.Background(), registerRequest{
		FullName: "jane doe",
		Email:    email,
		Password: "password1",
	})
	s.Require().NoError(err)
	return acc
}

func (s *ServiceTestSuite) TestRegister_ThenAuthenticate() {
	acc := s.register("a@x.com")

	assert.True(s.T(), IsValidID(string(acc.ID)))
	assert.Equal(s.T(), "a@x.com", acc.Email)
	assert.Equal(s.T(), RoleUser, acc.Role)
	assert.Equal(s.T(), s.now, acc.CreatedAt)

	got, err := s.svc.Authenticate(context.Background(), credentialsRequest{Email: "a@x.com", Password: "password1"})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), acc.ID, got.ID)
}

func (s *ServiceTestSuite) TestRegister_DuplicateEmailFails() {
	s.register("a@x.com")

	_, err := s.svc.Register(context.Background(), registerRequest{
		FullName: "other name",
		Email:    "A@X.com",
		Password: "password2",
	})

	assert.Equal(s.T(), ErrExistingEmail, err)
}

func (s *ServiceTestSuite) TestRegister_NeverStoresPlaintext() {
	acc := s.register("a@x.com")

	stored, err := s.accounts.FindByID(context.Background(), acc.ID)

	s.Require().NoError(err)
	assert.NotEqual(s.T(), "password1", stored.passwordHash)
	assert.True(s.T(), stored.PasswordMatches("password1"))
}

func (s *ServiceTestSuite) TestAuthenticate_FailuresAreNonSpecific() {
	s.register("a@x.com")

	_, wrongPw := s.svc.Authenticate(context.Background(), credentialsRequest{Email: "a@x.com", Password: "wrongpass"})
	_, unknown := s.svc.Authenticate(context.Background(), credentialsRequest{Email: "b@x.com", Password: "password1"})

	assert.Equal(s.T(), ErrInvalidCredentials, wrongPw)
	assert.Equal(s.T(), ErrInvalidCredentials, unknown)
}

func (s *ServiceTestSuite) TestIssueSession_BindsClaims() {
	acc := s.register("a@x.com")
	acc.Subscription = Subscription{ID: "sub_1", Status: "active"}

	token, err := s.svc.IssueSession(acc)
	s.Require().NoError(err)

	claims, err := s.signer.Parse(token)
	s.Require().NoError(err)
	assert.Equal(s.T(), acc.ID, claims.AccountID())
	assert.Equal(s.T(), "a@x.com", claims.Email)
	assert.Equal(s.T(), RoleUser, claims.Role)
	assert.Equal(s.T(), "active", claims.Subscription)
}

func (s *ServiceTestSuite) TestRequestPasswordReset() {
	acc := s.register("a@x.com")

	token, err := s.svc.RequestPasswordReset(context.Background(), "a@x.com")

	s.Require().NoError(err)
	assert.Len(s.T(), token, 2*resetTokenBytes)
	assert.Equal(s.T(), 1, s.mailer.sends)
	assert.Equal(s.T(), "a@x.com", s.mailer.to)
	assert.Contains(s.T(), s.mailer.body, token)

	stored, _ := s.accounts.FindByID(context.Background(), acc.ID)
	assert.Equal(s.T(), DigestResetToken(token), stored.resetDigest)
	assert.Equal(s.T(), s.now.Add(15*time.Minute), stored.resetExpiry)
}

func (s *ServiceTestSuite) TestRequestPasswordReset_UnknownEmail() {
	_, err := s.svc.RequestPasswordReset(context.Background(), "nobody@x.com")

	assert.Equal(s.T(), ErrNotFound, err)
	assert.Equal(s.T(), 0, s.mailer.sends)
}

func (s *ServiceTestSuite) TestRequestPasswordReset_RollsBackOnDeliveryFailure() {
	acc := s.register("a@x.com")
	s.mailer.err = errors.New("smtp: connection refused")

	_, err := s.svc.RequestPasswordReset(context.Background(), "a@x.com")

	assert.ErrorIs(s.T(), err, ErrDelivery)
	stored, _ := s.accounts.FindByID(context.Background(), acc.ID)
	assert.False(s.T(), stored.HasPendingReset())
}

func (s *ServiceTestSuite) TestConsumePasswordReset() {
	s.register("a@x.com")
	token, err := s.svc.RequestPasswordReset(context.Background(), "a@x.com")
	s.Require().NoError(err)

	err = s.svc.ConsumePasswordReset(context.Background(), token, "newpassword")
	s.Require().NoError(err)

	_, err = s.svc.Authenticate(context.Background(), credentialsRequest{Email: "a@x.com", Password: "newpassword"})
	assert.NoError(s.T(), err)
	_, err = s.svc.Authenticate(context.Background(), credentialsRequest{Email: "a@x.com", Password: "password1"})
	assert.Equal(s.T(), ErrInvalidCredentials, err)

	// one-time use
	err = s.svc.ConsumePasswordReset(context.Background(), token, "anotherpassword")
	assert.Equal(s.T(), ErrInvalidToken, err)
}

func (s *ServiceTestSuite) TestConsumePasswordReset_ExpiredToken() {
	s.register("a@x.com")
	token, err := s.svc.RequestPasswordReset(context.Background(), "a@x.com")
	s.Require().NoError(err)

	s.now = s.now.Add(15*time.Minute + time.Second)

	err = s.svc.ConsumePasswordReset(context.Background(), token, "newpassword")
	assert.Equal(s.T(), ErrInvalidToken, err)

	// old credential still usable after a failed consume
	_, err = s.svc.Authenticate(context.Background(), credentialsRequest{Email: "a@x.com", Password: "password1"})
	assert.NoError(s.T(), err)
}

func (s *ServiceTestSuite) TestConsumePasswordReset_WrongToken() {
	s.register("a@x.com")
	_, err := s.svc.RequestPasswordReset(context.Background(), "a@x.com")
	s.Require().NoError(err)

	err = s.svc.ConsumePasswordReset(context.Background(), strings.Repeat("ab", resetTokenBytes), "newpassword")
	assert.Equal(s.T(), ErrInvalidToken, err)
}

func (s *ServiceTestSuite) TestSecondResetRequestInvalidatesFirstToken() {
	s.register("a@x.com")

	first, err := s.svc.RequestPasswordReset(context.Background(), "a@x.com")
	s.Require().NoError(err)
	second, err := s.svc.RequestPasswordReset(context.Background(), "a@x.com")
	s.Require().NoError(err)

	assert.Equal(s.T(), ErrInvalidToken, s.svc.ConsumePasswordReset(context.Background(), first, "newpassword"))
	assert.NoError(s.T(), s.svc.ConsumePasswordReset(context.Background(), second, "newpassword"))
}

func (s *ServiceTestSuite) TestChangePassword() {
	acc := s.register("a@x.com")

	err := s.svc.ChangePassword(context.Background(), acc.ID, "password1", "password2")
	s.Require().NoError(err)

	_, err = s.svc.Authenticate(context.Background(), credentialsRequest{Email: "a@x.com", Password: "password2"})
	assert.NoError(s.T(), err)
}

func (s *ServiceTestSuite) TestChangePassword_WrongOldPasswordLeavesCredentialUsable() {
	acc := s.register("a@x.com")

	err := s.svc.ChangePassword(context.Background(), acc.ID, "wrongpass", "password2")
	assert.Equal(s.T(), ErrInvalidCredentials, err)

	_, err = s.svc.Authenticate(context.Background(), credentialsRequest{Email: "a@x.com", Password: "password1"})
	assert.NoError(s.T(), err)
}

func (s *ServiceTestSuite) TestChangePassword_UnknownAccount() {
	err := s.svc.ChangePassword(context.Background(), NewID(), "password1", "password2")
	assert.Equal(s.T(), ErrNotFound, err)
}

func (s *ServiceTestSuite) TestUpdateProfile() {
	acc := s.register("a@x.com")

	got, err := s.svc.UpdateProfile(context.Background(), acc.ID, updateProfileRequest{
		FullName: "Janet Doe",
		Avatar:   &Avatar{PublicID: "lms/avatars/abc", SecureURL: "https://cdn.coursewire.io/lms/avatars/abc"},
	})

	s.Require().NoError(err)
	assert.Equal(s.T(), "janet doe", got.FullName)
	assert.Equal(s.T(), "lms/avatars/abc", got.Avatar.PublicID)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
