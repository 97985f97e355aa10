package config

import (
	"fmt"
	"net/mail"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Mailer   MailerConfig   `yaml:"mailer"`
	Logging  LoggingConfig  `yaml:"logging"`
	App      AppConfig      `yaml:"app"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection configuration
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// SMTPConfig holds the outbound mail server settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// MailerConfig holds email queue and sending behavior
type MailerConfig struct {
	FromAddress    string        `yaml:"from_address"`
	AdminAddress   string        `yaml:"admin_address"`
	SiteName       string        `yaml:"site_name"`
	SiteURL        string        `yaml:"site_url"`
	ContactPhone   string        `yaml:"contact_phone"`
	Address        string        `yaml:"address"`
	CronSecret     string        `yaml:"cron_secret"`
	BatchSize      int           `yaml:"batch_size"`
	MaxRetries     int           `yaml:"max_retries"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// Load reads and parses the configuration file. Unset mailer tuning fields
// get defaults; the cron secret can also come from the environment.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Mailer.BatchSize <= 0 {
		config.Mailer.BatchSize = 20
	}
	if config.Mailer.MaxRetries <= 0 {
		config.Mailer.MaxRetries = 5
	}
	if config.Mailer.AttemptTimeout <= 0 {
		config.Mailer.AttemptTimeout = 30 * time.Second
	}
	if config.Mailer.CronSecret == "" {
		config.Mailer.CronSecret = os.Getenv("CRON_SECRET")
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < MinPort || c.Database.Port > MaxPort {
		return fmt.Errorf("invalid database port: %d (must be between %d and %d)", c.Database.Port, MinPort, MaxPort)
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.SMTP.Host == "" {
		return fmt.Errorf("smtp host is required")
	}

	if c.SMTP.Port < MinPort || c.SMTP.Port > MaxPort {
		return fmt.Errorf("invalid smtp port: %d (must be between %d and %d)", c.SMTP.Port, MinPort, MaxPort)
	}

	if c.Mailer.FromAddress == "" {
		return fmt.Errorf("mailer from_address is required")
	}

	if _, err := mail.ParseAddress(c.Mailer.FromAddress); err != nil {
		return fmt.Errorf("invalid mailer from_address: %w", err)
	}

	if c.Mailer.AdminAddress == "" {
		return fmt.Errorf("mailer admin_address is required")
	}

	if _, err := mail.ParseAddress(c.Mailer.AdminAddress); err != nil {
		return fmt.Errorf("invalid mailer admin_address: %w", err)
	}

	if c.Mailer.SiteURL == "" {
		return fmt.Errorf("mailer site_url is required")
	}

	return nil
}
