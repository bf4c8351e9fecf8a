package payment

import (
	"context"

	"github.com/coursewire/lms/account"
)

type Service interface {
	APIKey() string
	Subscribe(ctx context.Context, accountID account.ID) (*GatewaySubscription, error)
	VerifySubscription(ctx context.Context, accountID account.ID, req verifyRequest) error
	CancelSubscription(ctx context.Context, accountID account.ID) error
	AllPayments(ctx context.Context, count int, skip int) ([]Payment, error)
}

type Repository interface {
	Store(ctx context.Context, p *Payment) error
	// FindLatest returns records newest first.
	FindLatest(ctx context.Context, count int, skip int) ([]Payment, error)
}

type verifyRequest struct {
	PaymentID      string `json:"razorpay_payment_id" validate:"required"`
	SubscriptionID string `json:"razorpay_subscription_id" validate:"required"`
	Signature      string `json:"razorpay_signature" validate:"required"`
}
