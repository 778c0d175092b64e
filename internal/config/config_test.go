package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("PORT", "")
	t.Setenv("SMTP_USER", "hr@example.com")
	t.Setenv("SMTP_FROM", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "interviewai", cfg.DBName)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, "587", cfg.SMTP.Port)
	// From falls back to the authenticated user
	assert.Equal(t, "hr@example.com", cfg.SMTP.From)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("PORT", "9090")
	t.Setenv("INTERVIEW_DB_NAME", "hiring")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "hiring", cfg.DBName)
}
