package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/coursewire/lms/account"
)

type gatewayStub struct {
	secret     string
	nextSub    GatewaySubscription
	createErr  error
	cancelled  []string
	cancelErr  error
}

func (g *gatewayStub) Key() string { return "rzp_test_key" }

func (g *gatewayStub) CreateSubscription(_ context.Context, planID string, _ map[string]string) (*GatewaySubscription, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	sub := g.nextSub
	return &sub, nil
}

func (g *gatewayStub) CancelSubscription(_ context.Context, subscriptionID string) error {
	if g.cancelErr != nil {
		return g.cancelErr
	}
	g.cancelled = append(g.cancelled, subscriptionID)
	return nil
}

func (g *gatewayStub) VerifySignature(paymentID string, subscriptionID string, signature string) bool {
	return sign(g.secret, paymentID, subscriptionID) == signature
}

func sign(secret, paymentID, subscriptionID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(paymentID + "|" + subscriptionID))
	return hex.EncodeToString(mac.Sum(nil))
}

type PaymentServiceTestSuite struct {
	suite.Suite
	accounts account.Repository
	gateway  *gatewayStub
	svc      Service
	acc      *account.Account
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.accounts = account.NewAccountRepository()
	s.gateway = &gatewayStub{
		secret:  "gateway-secret",
		nextSub: GatewaySubscription{ID: "sub_1", Status: StatusCreated},
	}
	s.svc = NewService(NewPaymentRepository(), s.accounts, s.gateway, "plan_basic")

	acc, err := account.NewAccount("jane doe", "a@x.com")
	s.Require().NoError(err)
	s.Require().NoError(acc.SetPassword("password1"))
	acc.ID = account.NewID()
	s.Require().NoError(s.accounts.Store(context.Background(), acc))
	s.acc = acc
}

func (s *PaymentServiceTestSuite) subscribeAndVerify() {
	_, err := s.svc.Subscribe(context.Background(), s.acc.ID)
	s.Require().NoError(err)

	err = s.svc.VerifySubscription(context.Background(), s.acc.ID, verifyRequest{
		PaymentID:      "pay_1",
		SubscriptionID: "sub_1",
		Signature:      sign("gateway-secret", "pay_1", "sub_1"),
	})
	s.Require().NoError(err)
}

func (s *PaymentServiceTestSuite) TestSubscribe_RecordsSubscriptionOnAccount() {
	sub, err := s.svc.Subscribe(context.Background(), s.acc.ID)

	s.Require().NoError(err)
	assert.Equal(s.T(), "sub_1", sub.ID)

	stored, _ := s.accounts.FindByID(context.Background(), s.acc.ID)
	assert.Equal(s.T(), account.Subscription{ID: "sub_1", Status: StatusCreated}, stored.Subscription)
}

func (s *PaymentServiceTestSuite) TestSubscribe_AdminRejected() {
	s.acc.Role = account.RoleAdmin
	s.Require().NoError(s.accounts.Update(context.Background(), s.acc))

	_, err := s.svc.Subscribe(context.Background(), s.acc.ID)

	assert.Equal(s.T(), ErrAdminCannotSubscribe, err)
}

func (s *PaymentServiceTestSuite) TestSubscribe_UnknownAccount() {
	_, err := s.svc.Subscribe(context.Background(), account.NewID())
	assert.Equal(s.T(), account.ErrNotFound, err)
}

func (s *PaymentServiceTestSuite) TestVerifySubscription_ActivatesAndRecordsPayment() {
	s.subscribeAndVerify()

	stored, _ := s.accounts.FindByID(context.Background(), s.acc.ID)
	assert.Equal(s.T(), StatusActive, stored.Subscription.Status)

	payments, err := s.svc.AllPayments(context.Background(), 10, 0)
	s.Require().NoError(err)
	s.Require().Len(payments, 1)
	assert.Equal(s.T(), "pay_1", payments[0].PaymentID)
	assert.Equal(s.T(), s.acc.ID, payments[0].AccountID)
}

func (s *PaymentServiceTestSuite) TestVerifySubscription_BadSignature() {
	_, err := s.svc.Subscribe(context.Background(), s.acc.ID)
	s.Require().NoError(err)

	err = s.svc.VerifySubscription(context.Background(), s.acc.ID, verifyRequest{
		PaymentID:      "pay_1",
		SubscriptionID: "sub_1",
		Signature:      "forged",
	})

	assert.Equal(s.T(), ErrPaymentNotVerified, err)

	stored, _ := s.accounts.FindByID(context.Background(), s.acc.ID)
	assert.Equal(s.T(), StatusCreated, stored.Subscription.Status)
}

func (s *PaymentServiceTestSuite) TestVerifySubscription_MismatchedSubscription() {
	_, err := s.svc.Subscribe(context.Background(), s.acc.ID)
	s.Require().NoError(err)

	err = s.svc.VerifySubscription(context.Background(), s.acc.ID, verifyRequest{
		PaymentID:      "pay_1",
		SubscriptionID: "sub_other",
		Signature:      sign("gateway-secret", "pay_1", "sub_other"),
	})

	assert.Equal(s.T(), ErrPaymentNotVerified, err)
}

func (s *PaymentServiceTestSuite) TestCancelSubscription() {
	s.subscribeAndVerify()

	err := s.svc.CancelSubscription(context.Background(), s.acc.ID)
	s.Require().NoError(err)

	assert.Equal(s.T(), []string{"sub_1"}, s.gateway.cancelled)
	stored, _ := s.accounts.FindByID(context.Background(), s.acc.ID)
	assert.Equal(s.T(), StatusCancelled, stored.Subscription.Status)

	assert.Equal(s.T(), ErrNotSubscribed, s.svc.CancelSubscription(context.Background(), s.acc.ID))
}

func (s *PaymentServiceTestSuite) TestCancelSubscription_GatewayFailureKeepsState() {
	s.subscribeAndVerify()
	s.gateway.cancelErr = errors.New("gateway unavailable")

	err := s.svc.CancelSubscription(context.Background(), s.acc.ID)

	assert.Error(s.T(), err)
	stored, _ := s.accounts.FindByID(context.Background(), s.acc.ID)
	assert.Equal(s.T(), StatusActive, stored.Subscription.Status)
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
