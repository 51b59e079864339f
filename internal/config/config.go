package config

import (
	"fmt"
	"net/url"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	School   SchoolConfig   `mapstructure:"school"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Lark     LarkConfig     `mapstructure:"lark"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RemoteConfig holds the spreadsheet endpoint settings
type RemoteConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// CalendarConfig holds date handling settings
type CalendarConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// SchoolConfig holds the names printed on memos
type SchoolConfig struct {
	Name string `mapstructure:"name"`
}

// AdminConfig holds reviewer access settings
type AdminConfig struct {
	Passphrase string `mapstructure:"passphrase"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// StorageConfig holds report archive settings. An empty ReportDir disables archiving.
type StorageConfig struct {
	ReportDir string `mapstructure:"report_dir"`
}

// LarkConfig holds Lark API configuration. Notifications are off unless
// app_id, app_secret and receive_id are all set.
type LarkConfig struct {
	AppID         string `mapstructure:"app_id"`
	AppSecret     string `mapstructure:"app_secret"`
	ReceiveIDType string `mapstructure:"receive_id_type"`
	ReceiveID     string `mapstructure:"receive_id"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables.
// An empty configPath uses defaults and the environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("remote.timeout", 15*time.Second)
	v.SetDefault("remote.cache_ttl", 60*time.Second)

	v.SetDefault("calendar.timezone", "Asia/Bangkok")

	v.SetDefault("school.name", "โรงเรียน")

	v.SetDefault("database.path", "data/leave.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("storage.report_dir", "data/reports")

	v.SetDefault("lark.receive_id_type", "chat_id")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		"remote.endpoint":  "LEAVE_REMOTE_ENDPOINT",
		"admin.passphrase": "LEAVE_ADMIN_PASSPHRASE",
		"school.name":      "LEAVE_SCHOOL_NAME",
		"server.port":      "LEAVE_SERVER_PORT",
		"database.path":    "LEAVE_DATABASE_PATH",
		"logger.level":     "LEAVE_LOG_LEVEL",
		"lark.app_id":      "LARK_APP_ID",
		"lark.app_secret":  "LARK_APP_SECRET",
		"lark.receive_id":  "LARK_RECEIVE_ID",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Remote.Endpoint == "" {
		return fmt.Errorf("remote.endpoint is required")
	}
	u, err := url.Parse(c.Remote.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("remote.endpoint must be an http(s) URL")
	}
	if c.Remote.CacheTTL <= 0 {
		return fmt.Errorf("remote.cache_ttl must be positive")
	}

	if c.Admin.Passphrase == "" {
		return fmt.Errorf("admin.passphrase is required")
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	return nil
}

// Location returns the configured calendar time zone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Calendar.Timezone)
}

// NotificationsEnabled reports whether reviewer messages can be sent
func (c *Config) NotificationsEnabled() bool {
	return c.Lark.AppID != "" && c.Lark.AppSecret != "" && c.Lark.ReceiveID != ""
}
