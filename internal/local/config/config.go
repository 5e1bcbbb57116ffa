// Package config handles configuration for the local-variant daemon:
// defaults, JSON overlay, and command-line flags.
package config

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/mbriard/carnets/internal/flagx"
)

// Config holds runtime settings for the local profile daemon.
type Config struct {
	DatabasePath   string
	ProfileID      string
	ProfileEmail   string
	BackupInterval time.Duration
	RetainCount    int
	RetainMaxAge   time.Duration
}

// LoadDefaults populates Config with the reference retention behavior:
// a snapshot every 30 minutes, the newest 3 kept, nothing older than 7 days.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "carnets.db"
	c.ProfileID = ""
	c.ProfileEmail = "local@carnets"
	c.BackupInterval = 30 * time.Minute
	c.RetainCount = 3
	c.RetainMaxAge = 7 * 24 * time.Hour
}

// JsonConfig is the DTO for the optional JSON config file. Durations are
// given in minutes.
type JsonConfig struct {
	DatabasePath          *string `json:"database_path"`
	ProfileID             *string `json:"profile_id"`
	ProfileEmail          *string `json:"profile_email"`
	BackupIntervalMinutes *int    `json:"backup_interval_minutes"`
	RetainCount           *int    `json:"retain_count"`
	RetainMaxAgeHours     *int    `json:"retain_max_age_hours"`
}

func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabasePath != nil {
		config.DatabasePath = *c.DatabasePath
	}
	if c.ProfileID != nil {
		config.ProfileID = *c.ProfileID
	}
	if c.ProfileEmail != nil {
		config.ProfileEmail = *c.ProfileEmail
	}
	if c.BackupIntervalMinutes != nil {
		config.BackupInterval = time.Duration(*c.BackupIntervalMinutes) * time.Minute
	}
	if c.RetainCount != nil {
		config.RetainCount = *c.RetainCount
	}
	if c.RetainMaxAgeHours != nil {
		config.RetainMaxAge = time.Duration(*c.RetainMaxAgeHours) * time.Hour
	}
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-f string   profile database path
//	-i string   profile id
//	-m string   profile email
//	-t int      backup interval, minutes
//	-n int      retained slot count
//	-x int      retention age window, hours
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-f", "-i", "-m", "-t", "-n", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabasePath, "f", config.DatabasePath, "profile database path")
	fs.StringVar(&config.ProfileID, "i", config.ProfileID, "profile id")
	fs.StringVar(&config.ProfileEmail, "m", config.ProfileEmail, "profile email")

	backupInterval := fs.Int("t", int(config.BackupInterval.Minutes()), "backup interval (in minutes)")
	fs.IntVar(&config.RetainCount, "n", config.RetainCount, "retained slot count")
	retainMaxAge := fs.Int("x", int(config.RetainMaxAge.Hours()), "retention age window (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.BackupInterval = time.Duration(*backupInterval) * time.Minute
	config.RetainMaxAge = time.Duration(*retainMaxAge) * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
