package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "session_key: test-secret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3010", cfg.Listen)
	assert.Equal(t, 172800, cfg.SessionMaxAge)
	assert.Equal(t, "data/motocare.db", cfg.Database.Path)
	assert.Equal(t, "0 8 * * *", cfg.Reminder.Schedule)
	assert.Equal(t, 14, cfg.Reminder.DueSoonDays)
	assert.Equal(t, 500, cfg.Reminder.DueSoonDistance)
	assert.Equal(t, 5000, cfg.Locator.DefaultRadius)
	assert.False(t, cfg.Email.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
session_key: test-secret
listen: 127.0.0.1:8080
reminder:
  schedule: "0 6 * * *"
  due_soon_days: 7
database:
  path: /tmp/custom.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "0 6 * * *", cfg.Reminder.Schedule)
	assert.Equal(t, 7, cfg.Reminder.DueSoonDays)
	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
}

func TestValidateConfig(t *testing.T) {
	t.Run("missing session key", func(t *testing.T) {
		path := writeConfig(t, "listen: 127.0.0.1:8080\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "session key")
	})

	t.Run("email enabled without smtp host", func(t *testing.T) {
		path := writeConfig(t, `
session_key: test-secret
email:
  enabled: true
  from_email: noreply@example.com
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "SMTP host")
	})
}
