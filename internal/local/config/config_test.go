package config

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.DatabasePath, "carnets.db")
	assert.Equal(t, c.ProfileID, "")
	assert.Equal(t, c.ProfileEmail, "local@carnets")
	assert.Equal(t, c.BackupInterval, 30*time.Minute)
	assert.Equal(t, c.RetainCount, 3)
	assert.Equal(t, c.RetainMaxAge, 7*24*time.Hour)
}

func TestParseFlags(t *testing.T) {

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-f", "profile.db", "-i", "p-1", "-m", "me@ecole.fr",
			"-t", "10", "-n", "5", "-x", "48",
		}, expectPanic: false,
			expected: &Config{
				DatabasePath:   "profile.db",
				ProfileID:      "p-1",
				ProfileEmail:   "me@ecole.fr",
				BackupInterval: 10 * time.Minute,
				RetainCount:    5,
				RetainMaxAge:   48 * time.Hour,
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	b, err := json.Marshal(map[string]any{
		"database_path":           "profile.db",
		"profile_id":              "p-1",
		"profile_email":           "me@ecole.fr",
		"backup_interval_minutes": 15,
		"retain_count":            2,
		"retain_max_age_hours":    24,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "profile.db", cfg.DatabasePath)
	assert.Equal(t, "p-1", cfg.ProfileID)
	assert.Equal(t, "me@ecole.fr", cfg.ProfileEmail)
	assert.Equal(t, 15*time.Minute, cfg.BackupInterval)
	assert.Equal(t, 2, cfg.RetainCount)
	assert.Equal(t, 24*time.Hour, cfg.RetainMaxAge)
}
