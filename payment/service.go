package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coursewire/lms/account"
)

type service struct {
	payments Repository
	accounts account.Repository
	gateway  Gateway
	planID   string
	now      func() time.Time
}

func NewService(payments Repository, accounts account.Repository, gateway Gateway, planID string) Service {
	return &service{
		payments: payments,
		accounts: accounts,
		gateway:  gateway,
		planID:   planID,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) APIKey() string {
	return svc.gateway.Key()
}

func (svc *service) Subscribe(ctx context.Context, accountID account.ID) (*GatewaySubscription, error) {
	acc, err := svc.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if acc.Role == account.RoleAdmin {
		return nil, ErrAdminCannotSubscribe
	}

	sub, err := svc.gateway.CreateSubscription(ctx, svc.planID, map[string]string{"email": acc.Email})
	if err != nil {
		return nil, err
	}

	acc.Subscription = account.Subscription{ID: sub.ID, Status: sub.Status}
	acc.UpdatedAt = svc.now()

	if err := svc.accounts.Update(ctx, acc); err != nil {
		return nil, fmt.Errorf("error saving account: %w", err)
	}

	return sub, nil
}

// VerifySubscription checks the gateway's checkout signature against
// the subscription recorded at Subscribe time, stores the ledger entry
// and activates the account's subscription.
func (svc *service) VerifySubscription(ctx context.Context, accountID account.ID, req verifyRequest) error {
	acc, err := svc.findAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if acc.Subscription.ID == "" || acc.Subscription.ID != req.SubscriptionID {
		return ErrPaymentNotVerified
	}

	if !svc.gateway.VerifySignature(req.PaymentID, acc.Subscription.ID, req.Signature) {
		return ErrPaymentNotVerified
	}

	p := &Payment{
		ID:             NewPaymentID(),
		AccountID:      acc.ID,
		PaymentID:      req.PaymentID,
		SubscriptionID: req.SubscriptionID,
		Signature:      req.Signature,
		CreatedAt:      svc.now(),
	}
	if err := svc.payments.Store(ctx, p); err != nil {
		return fmt.Errorf("error saving payment: %w", err)
	}

	acc.Subscription.Status = StatusActive
	acc.UpdatedAt = svc.now()

	if err := svc.accounts.Update(ctx, acc); err != nil {
		return fmt.Errorf("error saving account: %w", err)
	}

	return nil
}

func (svc *service) CancelSubscription(ctx context.Context, accountID account.ID) error {
	acc, err := svc.findAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if acc.Subscription.ID == "" || acc.Subscription.Status != StatusActive {
		return ErrNotSubscribed
	}

	if err := svc.gateway.CancelSubscription(ctx, acc.Subscription.ID); err != nil {
		return err
	}

	acc.Subscription.Status = StatusCancelled
	acc.UpdatedAt = svc.now()

	if err := svc.accounts.Update(ctx, acc); err != nil {
		return fmt.Errorf("error saving account: %w", err)
	}

	return nil
}

func (svc *service) AllPayments(ctx context.Context, count int, skip int) ([]Payment, error) {
	if count <= 0 {
		count = 10
	}
	if skip < 0 {
		skip = 0
	}

	payments, err := svc.payments.FindLatest(ctx, count, skip)
	if err != nil {
		return nil, fmt.Errorf("error listing payments: %w", err)
	}
	return payments, nil
}

func (svc *service) findAccount(ctx context.Context, id account.ID) (*account.Account, error) {
	acc, err := svc.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, account.ErrNotFound
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return acc, nil
}
