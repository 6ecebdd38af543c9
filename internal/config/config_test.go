package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "RAY", cfg.Order.NumberPrefix)
	assert.Equal(t, 5, cfg.Order.MaxAttempts)
	assert.False(t, cfg.Order.StrictTransitions)
	assert.True(t, cfg.Order.DefaultShippingCost.IsZero())
	assert.Equal(t, "UTC", cfg.Order.Location.String())
	assert.Equal(t, 5*time.Minute, cfg.Cache.StatsTTL)
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
order:
  number_prefix: prf
  max_attempts: 3
  strict_transitions: true
  default_shipping_cost: "12.50"
  free_shipping_threshold: "300"
  timezone: Europe/Madrid
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "PRF", cfg.Order.NumberPrefix)
	assert.Equal(t, 3, cfg.Order.MaxAttempts)
	assert.True(t, cfg.Order.StrictTransitions)
	assert.Equal(t, "12.5", cfg.Order.DefaultShippingCost.String())
	assert.Equal(t, "300", cfg.Order.FreeShippingThreshold.String())
	assert.Equal(t, "Europe/Madrid", cfg.Order.Location.String())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("ORDER_MAX_ATTEMPTS", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 7, cfg.Order.MaxAttempts)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("ORDER_MAX_ATTEMPTS", "0")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_RejectsBadShippingCost(t *testing.T) {
	t.Setenv("ORDER_DEFAULT_SHIPPING_COST", "twenty")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_ValidatesNumberPrefix(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantErr bool
	}{
		{"letters", "ray", false},
		{"letters and digits", "RAY2", false},
		{"longest", strings.Repeat("R", 20), false},
		{"too long", strings.Repeat("R", 21), true},
		{"hyphen", "RAY-EU", true},
		{"space", "RA Y", true},
		{"accented", "RAYÓN", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ORDER_NUMBER_PREFIX", tt.prefix)

			_, err := Load("")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
