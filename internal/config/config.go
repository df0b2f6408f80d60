package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	WebSocket    WebSocketConfig    `mapstructure:"websocket"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	S3           S3Config           `mapstructure:"s3"`
	Calendar     CalendarConfig     `mapstructure:"calendar"`
	Notification NotificationConfig `mapstructure:"notification"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	HTTPPort       int      `mapstructure:"http_port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MachineId      uint16   `mapstructure:"machine_id"`
}

// Database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds relational store configuration
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	Charset      string `mapstructure:"charset"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// DSN returns the data source name for the configured driver
func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Addr returns the Redis address
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// WebSocketConfig holds WebSocket configuration
type WebSocketConfig struct {
	MaxConnNum       int64         `mapstructure:"max_conn_num"`
	MaxMessageSize   int64         `mapstructure:"max_message_size"`
	WriteWait        time.Duration `mapstructure:"write_wait"`
	PongWait         time.Duration `mapstructure:"pong_wait"`
	PingPeriod       time.Duration `mapstructure:"ping_period"`
	PushChannelSize  int           `mapstructure:"push_channel_size"`
	PushWorkerNum    int           `mapstructure:"push_worker_num"`
	WriteChannelSize int           `mapstructure:"write_channel_size"`
}

// KafkaConfig holds domain event producer configuration.
// An empty broker list disables publishing.
type KafkaConfig struct {
	Brokers  []string `mapstructure:"brokers"`
	ClientId string   `mapstructure:"client_id"`
	Topic    string   `mapstructure:"topic"`
}

// Enabled reports whether a broker is configured
func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// S3Config holds object storage configuration for portfolio photos.
// An empty endpoint disables uploads.
type S3Config struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	MaxUploadSize int64  `mapstructure:"max_upload_size"`
}

// Enabled reports whether object storage is configured
func (c *S3Config) Enabled() bool {
	return c.Endpoint != ""
}

// OAuthProvider holds one calendar provider's OAuth client settings
type OAuthProvider struct {
	ClientId    string   `mapstructure:"client_id"`
	AuthURL     string   `mapstructure:"auth_url"`
	RedirectURL string   `mapstructure:"redirect_url"`
	Scopes      []string `mapstructure:"scopes"`
}

// CalendarConfig holds calendar integration configuration
type CalendarConfig struct {
	Google   OAuthProvider `mapstructure:"google"`
	Outlook  OAuthProvider `mapstructure:"outlook"`
	StateTTL time.Duration `mapstructure:"state_ttl"`
}

// NotificationConfig holds notification badge configuration
type NotificationConfig struct {
	BadgeTTL time.Duration `mapstructure:"badge_ttl"`
}

// Global config instance
var GlobalConfig *Config

// envPrefix is the prefix of environment overrides, e.g. VIAH_JWT_SECRET
const envPrefix = "VIAH"

// Load loads configuration from file. A .env file next to the process is
// loaded first so its values can override the file through VIAH_* variables.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// Validate checks settings that have no sensible default
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.Server.MachineId == 0 {
		cfg.Server.MachineId = 1
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverMySQL
	}
	if cfg.Database.Port == 0 {
		if cfg.Database.Driver == DriverPostgres {
			cfg.Database.Port = 5432
		} else {
			cfg.Database.Port = 3306
		}
	}
	if cfg.Database.Charset == "" {
		cfg.Database.Charset = "utf8mb4"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 100
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "viah:"
	}
	if cfg.JWT.ExpireHours == 0 {
		cfg.JWT.ExpireHours = 168 // 7 days
	}
	if cfg.WebSocket.MaxConnNum == 0 {
		cfg.WebSocket.MaxConnNum = 10000
	}
	if cfg.WebSocket.MaxMessageSize == 0 {
		cfg.WebSocket.MaxMessageSize = 51200
	}
	if cfg.WebSocket.WriteWait == 0 {
		cfg.WebSocket.WriteWait = 10 * time.Second
	}
	if cfg.WebSocket.PongWait == 0 {
		cfg.WebSocket.PongWait = 30 * time.Second
	}
	if cfg.WebSocket.PingPeriod == 0 {
		cfg.WebSocket.PingPeriod = 27 * time.Second
	}
	if cfg.WebSocket.PushChannelSize == 0 {
		cfg.WebSocket.PushChannelSize = 10000
	}
	if cfg.WebSocket.PushWorkerNum == 0 {
		cfg.WebSocket.PushWorkerNum = 10
	}
	if cfg.WebSocket.WriteChannelSize == 0 {
		cfg.WebSocket.WriteChannelSize = 256
	}
	if cfg.Kafka.ClientId == "" {
		cfg.Kafka.ClientId = "viah-server"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "viah.events"
	}
	if cfg.S3.Bucket == "" {
		cfg.S3.Bucket = "vendor-portfolio"
	}
	if cfg.S3.MaxUploadSize == 0 {
		cfg.S3.MaxUploadSize = 10 << 20
	}
	if cfg.Calendar.StateTTL == 0 {
		cfg.Calendar.StateTTL = 10 * time.Minute
	}
	if cfg.Calendar.Google.AuthURL == "" {
		cfg.Calendar.Google.AuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
	}
	if len(cfg.Calendar.Google.Scopes) == 0 {
		cfg.Calendar.Google.Scopes = []string{"https://www.googleapis.com/auth/calendar.events"}
	}
	if cfg.Calendar.Outlook.AuthURL == "" {
		cfg.Calendar.Outlook.AuthURL = "https://login.microsoftonline.com/common/oauth2/v2.0/authorize"
	}
	if len(cfg.Calendar.Outlook.Scopes) == 0 {
		cfg.Calendar.Outlook.Scopes = []string{"offline_access", "Calendars.ReadWrite"}
	}
	if cfg.Notification.BadgeTTL == 0 {
		cfg.Notification.BadgeTTL = 30 * time.Second
	}
}
