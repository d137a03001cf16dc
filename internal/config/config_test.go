package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
app:
  port: 8080
  gin_mode: release
  env: production
verification:
  code_length: 7
  ttl: 5m
  max_attempts: 3
messaging:
  provider: gateway
  gateway:
    base_url: https://test.ithesk.com
orders:
  source: gateway
  gateway:
    base_url: https://test.ithesk.com
sessions:
  store: redis
  ttl: 30m
redis:
  addr: localhost:6379
  db: 1
token:
  secret: super-secret
  issuer: axeweb
  ttl: 2h
signature:
  width: 350
  height: 200
`)

		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "release", cfg.GinMode)
		assert.Equal(t, "production", cfg.Env)
		assert.Equal(t, 7, cfg.CodeLength)
		assert.Equal(t, 5*time.Minute, cfg.CodeTTL)
		assert.Equal(t, 3, cfg.MaxAttempts)
		assert.Equal(t, "gateway", cfg.MessagingProvider)
		assert.Equal(t, "https://test.ithesk.com", cfg.MessagingBaseURL)
		assert.Equal(t, "redis", cfg.SessionStore)
		assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, 1, cfg.RedisDB)
		assert.Equal(t, "super-secret", cfg.TokenSecret)
		assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
		assert.Equal(t, 350, cfg.SignatureWidth)
		assert.Equal(t, 200, cfg.SignatureHeight)
	})

	t.Run("defaults fill the gaps", func(t *testing.T) {
		path := writeConfig(t, `
messaging:
  provider: twilio
orders:
  source: gateway
  gateway:
    base_url: https://test.ithesk.com
token:
  secret: s
`)

		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "development", cfg.Env)
		assert.Equal(t, 7, cfg.CodeLength)
		assert.Equal(t, 5*time.Minute, cfg.CodeTTL)
		assert.Equal(t, 3, cfg.MaxAttempts)
		assert.Equal(t, "memory", cfg.SessionStore)
		assert.Equal(t, time.Hour, cfg.SessionTTL)
		assert.Equal(t, "axeweb", cfg.TokenIssuer)
		assert.Equal(t, 350, cfg.SignatureWidth)
		assert.Equal(t, 200, cfg.SignatureHeight)
	})

	t.Run("environment overrides the file secret", func(t *testing.T) {
		t.Setenv("AXEWEB_TOKEN_SECRET", "from-env")
		path := writeConfig(t, `
messaging:
  provider: twilio
orders:
  source: gateway
  gateway:
    base_url: https://test.ithesk.com
token:
  secret: from-file
`)

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.TokenSecret)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
			wantMsg string
		}{
			{
				name: "gateway provider without base url",
				content: `
messaging:
  provider: gateway
orders:
  source: gateway
  gateway:
    base_url: https://test.ithesk.com
token:
  secret: s
`,
				wantMsg: "messaging.gateway.base_url",
			},
			{
				name: "unknown provider",
				content: `
messaging:
  provider: smoke-signals
orders:
  source: gateway
  gateway:
    base_url: https://test.ithesk.com
token:
  secret: s
`,
				wantMsg: "unknown messaging provider",
			},
			{
				name: "database source without dsn",
				content: `
messaging:
  provider: twilio
orders:
  source: database
token:
  secret: s
`,
				wantMsg: "orders.database.dsn",
			},
			{
				name: "redis store without addr",
				content: `
messaging:
  provider: twilio
orders:
  source: gateway
  gateway:
    base_url: https://test.ithesk.com
sessions:
  store: redis
token:
  secret: s
`,
				wantMsg: "redis.addr",
			},
			{
				name: "missing token secret",
				content: `
messaging:
  provider: twilio
orders:
  source: gateway
  gateway:
    base_url: https://test.ithesk.com
`,
				wantMsg: "token.secret",
			},
			{
				name: "bad verification ttl",
				content: `
verification:
  ttl: not-a-duration
messaging:
  provider: twilio
orders:
  source: gateway
  gateway:
    base_url: https://test.ithesk.com
token:
  secret: s
`,
				wantMsg: "invalid verification TTL",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := writeConfig(t, tt.content)
				_, err := LoadFile(path)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantMsg)
			})
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not read config file")
	})
}
