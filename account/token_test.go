package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenSigner_SignAndParse(t *testing.T) {
	signer := NewTokenSigner("signing-secret", "lms", time.Hour)
	acc := &Account{
		ID:           NewID(),
		Email:        "a@x.com",
		Role:         RoleAdmin,
		Subscription: Subscription{ID: "sub_1", Status: "active"},
	}

	token, err := signer.Sign(acc)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := signer.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, acc.ID, claims.AccountID())
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "active", claims.Subscription)
	assert.Equal(t, "lms", claims.Issuer)
}

func TestTokenSigner_RejectsForeignAndExpiredTokens(t *testing.T) {
	signer := NewTokenSigner("signing-secret", "lms", time.Hour)
	other := NewTokenSigner("other-secret", "lms", time.Hour)
	expired := NewTokenSigner("signing-secret", "lms", -time.Minute)
	acc := &Account{ID: NewID(), Email: "a@x.com", Role: RoleUser}

	foreignToken, err := other.Sign(acc)
	assert.NoError(t, err)
	_, err = signer.Parse(foreignToken)
	assert.Equal(t, ErrInvalidSession, err)

	expiredToken, err := expired.Sign(acc)
	assert.NoError(t, err)
	_, err = signer.Parse(expiredToken)
	assert.Equal(t, ErrInvalidSession, err)

	_, err = signer.Parse("not.a.token")
	assert.Equal(t, ErrInvalidSession, err)
}
