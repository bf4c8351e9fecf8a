package payment

import (
	"errors"
	"time"

	"github.com/rs/xid"

	"github.com/coursewire/lms/account"
)

type ID string

// Payment is the verified checkout record kept for the admin ledger.
type Payment struct {
	ID             ID         `json:"id" bson:"_id"`
	AccountID      account.ID `json:"accountId" bson:"accountId"`
	PaymentID      string     `json:"razorpay_payment_id" bson:"razorpay_payment_id"`
	SubscriptionID string     `json:"razorpay_subscription_id" bson:"razorpay_subscription_id"`
	Signature      string     `json:"razorpay_signature" bson:"razorpay_signature"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
}

const (
	StatusCreated   = "created"
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

var (
	ErrAdminCannotSubscribe = errors.New("admin cannot purchase a subscription")
	ErrNotSubscribed        = errors.New("no active subscription to cancel")
	ErrPaymentNotVerified   = errors.New("payment not verified, please try again")
)

func NewPaymentID() ID {
	return ID(xid.New().String())
}
