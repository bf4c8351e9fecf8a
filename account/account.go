package account

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rs/xid"
)

type ID string

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Avatar references an image held by the external media store.
type Avatar struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Subscription mirrors the state reported by the payment gateway.
type Subscription struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
}

// Account is a user identity record. The credential and the pending
// reset state are unexported: SetPassword is the only path that may
// alter the stored hash, and GenerateResetToken/ClearResetToken the
// only paths that may alter the reset pair.
type Account struct {
	ID           ID           `json:"id"`
	FullName     string       `json:"fullName"`
	Email        string       `json:"email"`
	Role         Role         `json:"role"`
	Avatar       Avatar       `json:"avatar"`
	Subscription Subscription `json:"subscription"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`

	passwordHash string
	resetDigest  string
	resetExpiry  time.Time
}

var (
	ErrInvalidFullName    = errors.New("full name must be between 5 and 50 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("password must be at least 8 characters")
	ErrExistingEmail      = errors.New("email already exists")
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("email or password does not match")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrInvalidSession     = errors.New("invalid session token")
	ErrDelivery           = errors.New("could not deliver email")
)

var emailRegexp = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const defaultAvatarURL = "https://cdn.coursewire.io/static/avatar_default.jpg"

const resetTokenBytes = 20

// NewAccount validates and normalizes the identity fields and returns
// an Account with no credential set. Callers must SetPassword before
// storing it.
func NewAccount(fullName string, email string) (*Account, error) {
	name, err := normalizeFullName(fullName)
	if err != nil {
		return nil, err
	}

	email = NormalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	return &Account{
		FullName: name,
		Email:    email,
		Role:     RoleUser,
		Avatar:   Avatar{PublicID: email, SecureURL: defaultAvatarURL},
	}, nil
}

func normalizeFullName(fullName string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(fullName))
	if len(name) < 5 || len(name) > 50 {
		return "", ErrInvalidFullName
	}
	return name, nil
}

// NormalizeEmail applies the same case and whitespace normalization the
// entity applies, so lookups match what was stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NewID() ID {
	return ID(xid.New().String())
}

func IsValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}

// SetPassword re-hashes and replaces the stored credential. The
// plaintext is never retained.
func (a *Account) SetPassword(plaintext string) error {
	if len(plaintext) < 8 {
		return ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	a.passwordHash = string(hash)
	return nil
}

func (a *Account) PasswordMatches(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(plaintext))
	return err == nil
}

// GenerateResetToken installs a fresh reset pair, overwriting any
// pending one, and returns the plaintext token. Only its digest is
// retained on the account.
func (a *Account) GenerateResetToken(now time.Time, ttl time.Duration) (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating reset token: %w", err)
	}

	token := hex.EncodeToString(buf)
	a.resetDigest = DigestResetToken(token)
	a.resetExpiry = now.Add(ttl)
	return token, nil
}

// DigestResetToken is the deterministic one-way transform applied to
// reset tokens before storage.
func DigestResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (a *Account) ClearResetToken() {
	a.resetDigest = ""
	a.resetExpiry = time.Time{}
}

// HasPendingReset reports whether a reset pair is present, expired or not.
func (a *Account) HasPendingReset() bool {
	return a.resetDigest != ""
}

func (a *Account) resetUsableAt(t time.Time) bool {
	return a.resetDigest != "" && a.resetExpiry.After(t)
}
