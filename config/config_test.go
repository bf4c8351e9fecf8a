package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://127.0.0.1:27017")
	t.Setenv("JWT_SECRET", "signing-secret")
	t.Setenv("JWT_TTL_MINUTES", "60")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, ":5000", cfg.HTTPAddress())
	assert.Equal(t, "lms", cfg.MongoDB)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 15*time.Minute, cfg.ResetTokenTTL)
}

func TestLoad_RequiredFields(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "signing-secret")

	_, err := Load()
	assert.EqualError(t, err, "MONGO_URI is required")

	t.Setenv("MONGO_URI", "mongodb://127.0.0.1:27017")
	t.Setenv("JWT_SECRET", "")

	_, err = Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}
