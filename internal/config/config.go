package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Database       DatabaseConfig       `yaml:"database"`
	Admin          AdminConfig          `yaml:"admin"`
	Auction        AuctionConfig        `yaml:"auction"`
	Discord        DiscordConfig        `yaml:"discord"`
	Telemetry      TelemetryConfig      `yaml:"telemetry"`
	LeaderElection LeaderElectionConfig `yaml:"leader_election"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	Driver   string `yaml:"driver"` // "postgres" or "memory"
}

// DSN returns the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// AdminConfig holds the shared admin credential. Both values can be left out
// of the YAML file and supplied through AUCTION_ADMIN_PASSWORD and
// AUCTION_ADMIN_TOKEN instead.
type AdminConfig struct {
	Password string `yaml:"password"`
	Token    string `yaml:"token"`
}

// AuctionConfig holds auction business settings.
type AuctionConfig struct {
	// RosterCap is the maximum number of players a team may own.
	RosterCap int `yaml:"roster_cap"`
	// DefaultWallet is the starting budget used when seeding teams.
	DefaultWallet int `yaml:"default_wallet"`
}

// DiscordConfig holds the optional Discord announcer settings.
type DiscordConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	Insecure       bool   `yaml:"insecure"`
}

// LeaderElectionConfig holds Kubernetes leader election settings.
type LeaderElectionConfig struct {
	Enabled        bool          `yaml:"enabled"`
	LeaseName      string        `yaml:"lease_name"`
	LeaseNamespace string        `yaml:"lease_namespace"`
	LeaseDuration  time.Duration `yaml:"lease_duration"`
	RenewDeadline  time.Duration `yaml:"renew_deadline"`
	RetryPeriod    time.Duration `yaml:"retry_period"`
}

// Load reads a YAML configuration file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
			Driver:  "postgres",
		},
		Auction: AuctionConfig{
			RosterCap:     6,
			DefaultWallet: 1000,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "auctiond",
			ServiceVersion: "0.1.0",
		},
		LeaderElection: LeaderElectionConfig{
			Enabled:        false,
			LeaseName:      "auctiond-leader",
			LeaseNamespace: "default",
			LeaseDuration:  15 * time.Second,
			RenewDeadline:  10 * time.Second,
			RetryPeriod:    2 * time.Second,
		},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides lets secrets come from the environment instead of the
// config file, matching how the hosted deployments inject them.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AUCTION_ADMIN_PASSWORD"); v != "" {
		c.Admin.Password = v
	}
	if v := os.Getenv("AUCTION_ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		c.Discord.Token = v
	}
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "memory":
		// valid
	default:
		return fmt.Errorf("unsupported database driver %q: must be \"postgres\" or \"memory\"", c.Database.Driver)
	}
	if c.Auction.RosterCap <= 0 {
		return fmt.Errorf("auction.roster_cap must be positive, got %d", c.Auction.RosterCap)
	}
	if c.Discord.Enabled && c.Discord.Token == "" {
		return fmt.Errorf("discord.enabled requires discord.token (or DISCORD_TOKEN)")
	}
	return nil
}
