package account

import "context"

// Service is the account security surface consumed by the HTTP layer.
type Service interface {
	Register(ctx context.Context, req registerRequest) (*Account, error)
	Authenticate(ctx context.Context, req credentialsRequest) (*Account, error)
	IssueSession(acc *Account) (string, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ConsumePasswordReset(ctx context.Context, token string, newPassword string) error
	ChangePassword(ctx context.Context, id ID, oldPassword string, newPassword string) error
	Profile(ctx context.Context, id ID) (*Account, error)
	UpdateProfile(ctx context.Context, id ID, req updateProfileRequest) (*Account, error)
}

// Repository persists accounts. Each call is atomic per document; the
// service layers no additional locking on top.
type Repository interface {
	FindByID(ctx context.Context, id ID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByResetDigest(ctx context.Context, digest string) (*Account, error)
	Store(ctx context.Context, acc *Account) error
	Update(ctx context.Context, acc *Account) error
}

// Mailer delivers mail to a single recipient. Failure must be reported
// synchronously so the caller can compensate.
type Mailer interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FullName string  `json:"fullName,omitempty"`
	Avatar   *Avatar `json:"-"`
}
