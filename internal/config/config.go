package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config holds the configuration for the MotoCare server and its dependencies.
type Config struct {
	// Listen is the address the MotoCare server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// ServerURL is the base URL of the MotoCare server.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// SessionKey is the key used to encrypt session data.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// DryRun indicates whether reminder notifications should only be logged instead of sent.
	DryRun bool `yaml:"dry_run" mapstructure:"dry_run"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Photos holds the workshop photo storage configuration.
	Photos *PhotosConfig `yaml:"photos" mapstructure:"photos"`
	// Reminder holds the reminder engine configuration.
	Reminder *ReminderConfig `yaml:"reminder" mapstructure:"reminder"`
	// Email holds the email notification configuration.
	Email *EmailConfig `yaml:"email" mapstructure:"email"`
	// Locator holds the workshop locator configuration.
	Locator *LocatorConfig `yaml:"locator" mapstructure:"locator"`
	// Gravatar holds the configuration for Gravatar profile pictures.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// PhotosConfig holds the workshop photo storage configuration.
type PhotosConfig struct {
	// Dir is the directory where uploaded workshop photos are stored.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// ThumbnailWidth is the maximum width of generated thumbnails in pixels.
	ThumbnailWidth int `yaml:"thumbnail_width" mapstructure:"thumbnail_width"`
	// ThumbnailHeight is the maximum height of generated thumbnails in pixels.
	ThumbnailHeight int `yaml:"thumbnail_height" mapstructure:"thumbnail_height"`
	// Quality is the JPEG quality (1-100) for stored photos.
	Quality int `yaml:"quality" mapstructure:"quality"`
}

// ReminderConfig holds the reminder engine configuration.
type ReminderConfig struct {
	// Schedule is the cron schedule for the due-check job (e.g. "0 8 * * *" for daily at 8am).
	Schedule string `yaml:"schedule" mapstructure:"schedule"`
	// DueSoonDays is the number of days before the due date at which a vehicle counts as due soon.
	DueSoonDays int `yaml:"due_soon_days" mapstructure:"due_soon_days"`
	// DueSoonDistance is the remaining distance below which a vehicle counts as due soon.
	DueSoonDistance int `yaml:"due_soon_distance" mapstructure:"due_soon_distance"`
}

// EmailConfig holds the email notification configuration.
type EmailConfig struct {
	// Enabled indicates whether email notifications are enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// SMTPHost is the SMTP server host.
	SMTPHost string `yaml:"smtp_host" mapstructure:"smtp_host"`
	// SMTPPort is the SMTP server port.
	SMTPPort int `yaml:"smtp_port" mapstructure:"smtp_port"`
	// Username is the SMTP username.
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the SMTP password.
	Password string `yaml:"password" mapstructure:"password"`
	// FromEmail is the email address from which notifications are sent.
	FromEmail string `yaml:"from_email" mapstructure:"from_email"`
	// FromName is the name from which notifications are sent.
	FromName string `yaml:"from_name" mapstructure:"from_name"`
	// UseTLS indicates whether to use STARTTLS for the SMTP connection.
	UseTLS bool `yaml:"use_tls" mapstructure:"use_tls"`
	// UseSSL indicates whether to use implicit SSL/TLS for the SMTP connection.
	UseSSL bool `yaml:"use_ssl" mapstructure:"use_ssl"`
	// InsecureSkipVerify indicates whether to skip TLS certificate verification.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
}

// LocatorConfig holds the workshop locator configuration.
type LocatorConfig struct {
	// APIKey is the places API key. When empty the locator returns simulated results.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// DefaultRadius is the default search radius in meters.
	DefaultRadius int `yaml:"default_radius" mapstructure:"default_radius"`
}

// GravatarConfig holds the configuration for Gravatar profile pictures.
type GravatarConfig struct {
	// Enabled indicates whether Gravatar support is enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the default image to use when no Gravatar is found.
	// Valid values: "404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating for Gravatar images.
	// Valid values: "g", "pg", "r", "x"
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the size of the Gravatar image in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("MOTOCARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.motocare")
		v.AddConfigPath("/etc/motocare")
	}

	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Environment variables with MOTOCARE_ prefix will override config file values")
	}

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:3010")
	v.SetDefault("server_url", "http://localhost:3010")
	v.SetDefault("session_max_age", 172800) // 48 hours
	v.SetDefault("dry_run", false)

	v.SetDefault("database.path", "data/motocare.db")

	v.SetDefault("photos.dir", "data/photos")
	v.SetDefault("photos.thumbnail_width", 340)
	v.SetDefault("photos.thumbnail_height", 500)
	v.SetDefault("photos.quality", 85)

	v.SetDefault("reminder.schedule", "0 8 * * *")
	v.SetDefault("reminder.due_soon_days", 14)
	v.SetDefault("reminder.due_soon_distance", 500)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.from_name", "MotoCare")
	v.SetDefault("email.use_tls", true)
	v.SetDefault("email.use_ssl", false)
	v.SetDefault("email.insecure_skip_verify", false)

	v.SetDefault("locator.default_radius", 5000)

	v.SetDefault("gravatar.enabled", false)
	v.SetDefault("gravatar.default_image", "robohash")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 80)
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing motocare config")
	}

	if c.SessionKey == "" {
		return fmt.Errorf("session key is required")
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Reminder != nil {
		if c.Reminder.DueSoonDays < 0 {
			return fmt.Errorf("reminder due_soon_days must not be negative")
		}
		if c.Reminder.DueSoonDistance < 0 {
			return fmt.Errorf("reminder due_soon_distance must not be negative")
		}
	}

	if c.Email != nil && c.Email.Enabled {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP host is required when email is enabled")
		}
		if c.Email.FromEmail == "" {
			return fmt.Errorf("from email is required when email is enabled")
		}
	}

	if c.Email == nil || !c.Email.Enabled {
		log.Warn("Email notifications are disabled, welcome and reminder mails will not be sent")
	}

	return nil
}
