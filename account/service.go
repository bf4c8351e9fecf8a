package account

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type service struct {
	accounts    Repository
	signer      *TokenSigner
	mailer      Mailer
	frontendURL string
	resetTTL    time.Duration
	now         func() time.Time
}

func NewService(accounts Repository, signer *TokenSigner, mailer Mailer, frontendURL string, resetTTL time.Duration) Service {
	return &service{
		accounts:    accounts,
		signer:      signer,
		mailer:      mailer,
		frontendURL: frontendURL,
		resetTTL:    resetTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) Register(ctx context.Context, req registerRequest) (*Account, error) {
	acc, err := NewAccount(req.FullName, req.Email)
	if err != nil {
		return nil, err
	}

	if existing, err := svc.accounts.FindByEmail(ctx, acc.Email); existing != nil && err == nil {
		return nil, ErrExistingEmail
	}

	if err := acc.SetPassword(req.Password); err != nil {
		return nil, err
	}

	acc.ID = NewID()
	acc.CreatedAt = svc.now()
	acc.UpdatedAt = acc.CreatedAt

	if err := svc.accounts.Store(ctx, acc); err != nil {
		return nil, fmt.Errorf("error saving account: %w", err)
	}

	return acc, nil
}

func (svc *service) Authenticate(ctx context.Context, req credentialsRequest) (*Account, error) {
	acc, err := svc.accounts.FindByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// unknown email is indistinguishable from a bad password
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	if !acc.PasswordMatches(req.Password) {
		return nil, ErrInvalidCredentials
	}

	return acc, nil
}

func (svc *service) IssueSession(acc *Account) (string, error) {
	return svc.signer.Sign(acc)
}

// RequestPasswordReset installs a fresh one-time token on the account
// and mails the reset link. If delivery fails the pending pair is
// cleared again so an undeliverable token cannot be consumed later.
func (svc *service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	acc, err := svc.accounts.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error loading account: %w", err)
	}

	token, err := acc.GenerateResetToken(svc.now(), svc.resetTTL)
	if err != nil {
		return "", err
	}

	if err := svc.accounts.Update(ctx, acc); err != nil {
		return "", fmt.Errorf("error saving reset state: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", svc.frontendURL, token)
	if err := svc.mailer.Send(ctx, acc.Email, resetSubject, resetBody(resetURL)); err != nil {
		acc.ClearResetToken()
		if rbErr := svc.accounts.Update(ctx, acc); rbErr != nil {
			return "", fmt.Errorf("error rolling back reset state: %w", rbErr)
		}
		return "", fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	return token, nil
}

func (svc *service) ConsumePasswordReset(ctx context.Context, token string, newPassword string) error {
	acc, err := svc.accounts.FindByResetDigest(ctx, DigestResetToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// wrong, consumed and expired tokens all look the same
			return ErrInvalidToken
		}
		return fmt.Errorf("error loading account: %w", err)
	}

	if !acc.resetUsableAt(svc.now()) {
		return ErrInvalidToken
	}

	if err := acc.SetPassword(newPassword); err != nil {
		return err
	}

	acc.ClearResetToken()
	acc.UpdatedAt = svc.now()

	if err := svc.accounts.Update(ctx, acc); err != nil {
		return fmt.Errorf("error saving account: %w", err)
	}

	return nil
}

func (svc *service) ChangePassword(ctx context.Context, id ID, oldPassword string, newPassword string) error {
	acc, err := svc.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("error loading account: %w", err)
	}

	if !acc.PasswordMatches(oldPassword) {
		return ErrInvalidCredentials
	}

	if err := acc.SetPassword(newPassword); err != nil {
		return err
	}

	acc.UpdatedAt = svc.now()

	if err := svc.accounts.Update(ctx, acc); err != nil {
		return fmt.Errorf("error saving account: %w", err)
	}

	return nil
}

func (svc *service) Profile(ctx context.Context, id ID) (*Account, error) {
	acc, err := svc.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return acc, nil
}

func (svc *service) UpdateProfile(ctx context.Context, id ID, req updateProfileRequest) (*Account, error) {
	acc, err := svc.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	if req.FullName != "" {
		name, err := normalizeFullName(req.FullName)
		if err != nil {
			return nil, err
		}
		acc.FullName = name
	}

	if req.Avatar != nil {
		acc.Avatar = *req.Avatar
	}

	acc.UpdatedAt = svc.now()

	if err := svc.accounts.Update(ctx, acc); err != nil {
		return nil, fmt.Errorf("error saving account: %w", err)
	}

	return acc, nil
}

const resetSubject = "Reset Password"

func resetBody(resetURL string) string {
	return fmt.Sprintf("You can reset your password by clicking <a href=%q>Reset your password</a>.\n"+
		"If the above link does not work, copy and paste this link into a new tab: %s\n"+
		"If you have not requested this, kindly ignore.", resetURL, resetURL)
}
