package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// StoreBackend selects the record store implementation.
type StoreBackend string

const (
	StoreBackendJSON   StoreBackend = "json"
	StoreBackendSQLite StoreBackend = "sqlite"
)

// IdentifierKind selects how accounts are keyed.
type IdentifierKind string

const (
	// IdentifierMobile requires an 11 character mobile number.
	IdentifierMobile IdentifierKind = "mobile"
	// IdentifierUsername accepts any non-blank username.
	IdentifierUsername IdentifierKind = "username"
)

// Language selects the class catalogue and how predictions are displayed.
type Language string

const (
	// LanguageEnglish shows the plain class name.
	LanguageEnglish Language = "en"
	// LanguageBengali shows the disease name with its cause and remedy.
	LanguageBengali Language = "bn"
)

// PageVisibility controls whether non-admins see the admin dashboard in the navigation.
type PageVisibility string

const (
	// PageVisibilityListed always lists the admin dashboard and shows an inline admin login to non-admins.
	PageVisibilityListed PageVisibility = "listed"
	// PageVisibilityHidden only lists the admin dashboard for admins.
	PageVisibilityHidden PageVisibility = "hidden"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"
)

// Config holds the configuration for the leafcheck server and its dependencies.
type Config struct {
	// Listen is the address the leafcheck server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// ServerURL is the public URL of the server, used in notification emails.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// SessionKey is the secret used to sign session cookies.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session cookie in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// SecureCookies marks the session cookie as secure. Enable it behind TLS.
	SecureCookies bool `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	// Identifier selects how accounts are keyed ("mobile" or "username").
	Identifier IdentifierKind `yaml:"identifier" mapstructure:"identifier"`
	// Language selects the class catalogue ("en" or "bn").
	Language Language `yaml:"language" mapstructure:"language"`
	// BcryptCost is the cost used to hash new passwords.
	BcryptCost int `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	// Admin holds the admin account configuration.
	Admin *AdminConfig `yaml:"admin" mapstructure:"admin"`
	// Store holds the record store configuration.
	Store *StoreConfig `yaml:"store" mapstructure:"store"`
	// Uploads holds the configuration for uploaded images.
	Uploads *UploadsConfig `yaml:"uploads" mapstructure:"uploads"`
	// Model holds the configuration of the external model server.
	Model *ModelConfig `yaml:"model" mapstructure:"model"`
	// Cache holds the prediction cache configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Email holds the email notification configuration.
	Email *EmailConfig `yaml:"email" mapstructure:"email"`
	// CORS holds the cross-origin configuration for the JSON API.
	CORS *CORSConfig `yaml:"cors" mapstructure:"cors"`
	// Metrics holds the prometheus configuration.
	Metrics *MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// AdminConfig holds the static admin credentials.
type AdminConfig struct {
	// Username is the admin login name.
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the admin password. A bcrypt hash is accepted as well.
	Password string `yaml:"password" mapstructure:"password"`
	// PageVisibility is either "listed" or "hidden".
	PageVisibility PageVisibility `yaml:"page_visibility" mapstructure:"page_visibility"`
}

// StoreConfig holds the record store configuration.
type StoreConfig struct {
	// Backend is the store implementation ("json" or "sqlite").
	Backend StoreBackend `yaml:"backend" mapstructure:"backend"`
	// DataDir is the directory holding the json files.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// UsersFile is the name of the accounts file inside DataDir.
	UsersFile string `yaml:"users_file" mapstructure:"users_file"`
	// SubmissionsFile is the name of the submission log inside DataDir.
	SubmissionsFile string `yaml:"submissions_file" mapstructure:"submissions_file"`
	// DatabasePath is the path to the sqlite database file.
	DatabasePath string `yaml:"database_path" mapstructure:"database_path"`
}

// UploadsConfig holds the configuration for uploaded images.
type UploadsConfig struct {
	// Dir is the directory uploaded images are stored in.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// ThumbnailDir is the directory scaled thumbnails are cached in.
	ThumbnailDir string `yaml:"thumbnail_dir" mapstructure:"thumbnail_dir"`
	// MaxSize is the maximum accepted upload size in bytes.
	MaxSize int64 `yaml:"max_size" mapstructure:"max_size"`
	// OrphanSweepSchedule is the cron schedule for removing images without a submission.
	OrphanSweepSchedule string `yaml:"orphan_sweep_schedule" mapstructure:"orphan_sweep_schedule"`
	// OrphanGracePeriod is how old an unreferenced image must be before it is removed.
	OrphanGracePeriod time.Duration `yaml:"orphan_grace_period" mapstructure:"orphan_grace_period"`
	// ThumbnailMaxAge is how long cached thumbnails are kept.
	ThumbnailMaxAge time.Duration `yaml:"thumbnail_max_age" mapstructure:"thumbnail_max_age"`
}

// ModelConfig holds the configuration of the external model server.
type ModelConfig struct {
	// URL is the base URL of the TensorFlow Serving REST API.
	URL string `yaml:"url" mapstructure:"url"`
	// Name is the served model name.
	Name string `yaml:"name" mapstructure:"name"`
	// InputSize is the square input edge length expected by the model.
	InputSize int `yaml:"input_size" mapstructure:"input_size"`
	// Timeout is the timeout for a single prediction request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig holds the prediction cache configuration.
type CacheConfig struct {
	// Enabled turns the prediction cache on.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Type is the type of cache engine to use (e.g., "memory", "redis").
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the URL for the Redis cache if using Redis.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
	// TTL is how long a cached prediction is kept.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// EmailConfig holds the email notification configuration.
type EmailConfig struct {
	// Enabled indicates whether email notifications are enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// AdminEmail receives registration notifications.
	AdminEmail string `yaml:"admin_email" mapstructure:"admin_email"`
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
	// UseTLS indicates whether to use TLS for the SMTP connection.
	UseTLS bool `yaml:"use_tls" mapstructure:"use_tls"`
	// UseSSL indicates whether to use SSL for the SMTP connection.
	UseSSL bool `yaml:"use_ssl" mapstructure:"use_ssl"`
	// InsecureSkipVerify indicates whether to skip TLS certificate verification.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
}

// CORSConfig holds the cross-origin configuration.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to call the JSON API. Empty disables CORS.
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// MetricsConfig holds the prometheus configuration.
type MetricsConfig struct {
	// Enabled exposes /metrics.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
func Load(path string) (*Config, error) {
	v := viper.New()

	bindNestedEnv(v)

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("LEAFCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.leafcheck")
		v.AddConfigPath("/etc/leafcheck")
	}

	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Some environment variables can be set with the LEAFCHECK_ prefix to override config file values")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	warnInsecureConfig(&c)

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:8080")
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("session_key", "")
	v.SetDefault("session_max_age", 86400) // 24 hours
	v.SetDefault("secure_cookies", false)
	v.SetDefault("identifier", IdentifierMobile)
	v.SetDefault("language", LanguageEnglish)
	v.SetDefault("bcrypt_cost", 10)

	// Admin defaults
	v.SetDefault("admin.username", defaultAdminUsername)
	v.SetDefault("admin.password", defaultAdminPassword)
	v.SetDefault("admin.page_visibility", PageVisibilityListed)

	// Store defaults
	v.SetDefault("store.backend", StoreBackendJSON)
	v.SetDefault("store.data_dir", ".")
	v.SetDefault("store.users_file", "user_data.json")
	v.SetDefault("store.submissions_file", "user_inputs.json")
	v.SetDefault("store.database_path", "./data/leafcheck.db")

	// Upload defaults
	v.SetDefault("uploads.dir", "uploaded_images")
	v.SetDefault("uploads.thumbnail_dir", "./data/cache/thumbnails")
	v.SetDefault("uploads.max_size", 10<<20)
	v.SetDefault("uploads.orphan_sweep_schedule", "0 3 * * *") // Daily at 3am
	v.SetDefault("uploads.orphan_grace_period", 24*time.Hour)
	v.SetDefault("uploads.thumbnail_max_age", 7*24*time.Hour)

	// Model defaults
	v.SetDefault("model.url", "http://localhost:8501")
	v.SetDefault("model.name", "plant_disease")
	v.SetDefault("model.input_size", 128)
	v.SetDefault("model.timeout", 30*time.Second)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", time.Hour)

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.admin_email", "")
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from_name", "leafcheck")
	v.SetDefault("email.use_tls", true)
	v.SetDefault("email.use_ssl", false)
	v.SetDefault("email.insecure_skip_verify", false)

	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("metrics.enabled", true)
}

// the auto env function from viper only works for keys viper already knows about.
// Keys without a default have to be bound manually.
func bindNestedEnv(v *viper.Viper) {
	v.MustBindEnv("email.from_email", "LEAFCHECK_EMAIL_FROM_EMAIL")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing leafcheck config")
	}

	if c.SessionKey == "" {
		return fmt.Errorf("session_key is required")
	}

	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("session_max_age must be positive")
	}

	switch c.Identifier {
	case IdentifierMobile, IdentifierUsername:
	default:
		return fmt.Errorf("invalid identifier %q, expected %q or %q", c.Identifier, IdentifierMobile, IdentifierUsername)
	}

	switch c.Language {
	case LanguageEnglish, LanguageBengali:
	default:
		return fmt.Errorf("invalid language %q, expected %q or %q", c.Language, LanguageEnglish, LanguageBengali)
	}

	if c.Admin == nil || c.Admin.Username == "" || c.Admin.Password == "" {
		return fmt.Errorf("admin username and password are required")
	}
	switch c.Admin.PageVisibility {
	case PageVisibilityListed, PageVisibilityHidden:
	default:
		return fmt.Errorf("invalid admin.page_visibility %q", c.Admin.PageVisibility)
	}

	if c.Store == nil {
		return fmt.Errorf("missing store config")
	}
	switch c.Store.Backend {
	case StoreBackendJSON:
		if c.Store.UsersFile == "" || c.Store.SubmissionsFile == "" {
			return fmt.Errorf("store.users_file and store.submissions_file are required for the json backend")
		}
	case StoreBackendSQLite:
		if c.Store.DatabasePath == "" {
			return fmt.Errorf("store.database_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("invalid store.backend %q", c.Store.Backend)
	}

	if c.Uploads == nil || c.Uploads.Dir == "" {
		return fmt.Errorf("uploads.dir is required")
	}
	if c.Uploads.MaxSize <= 0 {
		return fmt.Errorf("uploads.max_size must be positive")
	}

	if c.Model == nil || c.Model.URL == "" || c.Model.Name == "" {
		return fmt.Errorf("model.url and model.name are required")
	}
	if c.Model.InputSize <= 0 {
		return fmt.Errorf("model.input_size must be positive")
	}

	if c.Cache != nil && c.Cache.Enabled {
		if c.Cache.Type == CacheTypeRedis && c.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
		}
	}

	if c.Email != nil && c.Email.Enabled {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP host is required when email notifications are enabled") //nolint:staticcheck
		}
		if c.Email.FromEmail == "" {
			return fmt.Errorf("from email is required when email notifications are enabled")
		}
		if c.Email.AdminEmail == "" {
			return fmt.Errorf("admin email is required when email notifications are enabled")
		}
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = urlSanitize(c.Listen)
	c.Identifier = IdentifierKind(strings.ToLower(strings.TrimSpace(string(c.Identifier))))
	c.Language = Language(strings.ToLower(strings.TrimSpace(string(c.Language))))

	if c.ServerURL != "" {
		c.ServerURL = urlSanitize(c.ServerURL)
	}

	if c.Model != nil {
		c.Model.URL = urlSanitize(c.Model.URL)
	}

	if c.Admin != nil {
		c.Admin.Username = strings.TrimSpace(c.Admin.Username)
		c.Admin.PageVisibility = PageVisibility(strings.ToLower(strings.TrimSpace(string(c.Admin.PageVisibility))))
	}
}

func urlSanitize(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}

// warnInsecureConfig logs warnings for settings that are fine for a demo but not for production.
func warnInsecureConfig(c *Config) {
	if c.Admin.Username == defaultAdminUsername && c.Admin.Password == defaultAdminPassword {
		log.Warn("Admin credentials are set to the default admin/admin, change them via admin.username and admin.password")
	}
	if !c.SecureCookies && strings.HasPrefix(c.ServerURL, "https://") {
		log.Warn("server_url uses https but secure_cookies is disabled")
	}
}
