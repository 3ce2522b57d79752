package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:///tmp/servicemen.db")
	t.Setenv("JWT_PRIVATE_KEY", "secret")
	t.Setenv("JWT_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite:///tmp/servicemen.db", cfg.DatabaseURL)
	assert.Equal(t, "secret", cfg.JWTPrivateKey)
	assert.Equal(t, "servicemen-api", cfg.JWTIssuer)
	assert.Equal(t, "servicemen-api", cfg.JWTAudience)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.UsesS3())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadJWTTTL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"hours", "12h", 12 * time.Hour, false},
		{"disabled", "0", 0, false},
		{"garbage", "soon", 0, true},
		{"negative", "-1h", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "sqlite:///tmp/servicemen.db")
			t.Setenv("JWT_TTL", tt.value)

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.JWTTTL)
		})
	}
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:///tmp/servicemen.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestEnvironmentHelpers(t *testing.T) {
	tests := []struct {
		env         string
		production  bool
		test        bool
		development bool
	}{
		{"production", true, false, false},
		{"test", false, true, false},
		{"development", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{GoEnv: tt.env}
			assert.Equal(t, tt.production, cfg.IsProduction())
			assert.Equal(t, tt.test, cfg.IsTest())
			assert.Equal(t, tt.development, cfg.IsDevelopment())
		})
	}
}

func TestGetSetConfig(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	cfg := &Config{Port: "9090"}
	SetConfig(cfg)
	assert.Same(t, cfg, GetConfig())
}
