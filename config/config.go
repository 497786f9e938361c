package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration. Values come from an optional
// YAML file and are overridden by environment variables (and .env).
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	LLM      LLMConfig      `yaml:"llm"`
	AWS      AWSConfig      `yaml:"aws"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	LogLevel string         `yaml:"log_level,omitempty"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	Timezone string `yaml:"timezone,omitempty"` // IANA name; empty means local
	AppURL   string `yaml:"app_url,omitempty"`  // used in invitation links
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "postgres" | "sqlite"
	Host     string `yaml:"host,omitempty"`
	Port     string `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Path     string `yaml:"path,omitempty"` // sqlite file
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	SessionTTLHours int    `yaml:"session_ttl_hours,omitempty"`
}

type LLMConfig struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	APIKey         string `yaml:"api_key,omitempty"`
	Model          string `yaml:"model,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

type AWSConfig struct {
	Region         string `yaml:"region,omitempty"`
	S3Region       string `yaml:"s3_region,omitempty"`
	S3Bucket       string `yaml:"s3_bucket,omitempty"`
	CloudFrontURL  string `yaml:"cloudfront_url,omitempty"`
	SESFrom        string `yaml:"ses_from,omitempty"`
	SNSPlatformARN string `yaml:"sns_platform_arn,omitempty"`
}

type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// Load reads .env (if present), then the YAML file at path (if present), then
// applies environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	setString(&c.Server.Addr, "ADDR")
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	setString(&c.Server.Timezone, "APP_TIMEZONE")
	setString(&c.Server.AppURL, "APP_URL")

	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.Path, "DB_PATH")

	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setInt(&c.Auth.SessionTTLHours, "SESSION_TTL_HOURS")

	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.Model, "LLM_MODEL")
	setInt(&c.LLM.TimeoutSeconds, "LLM_TIMEOUT_SECONDS")

	setString(&c.AWS.Region, "AWS_REGION")
	setString(&c.AWS.S3Region, "S3_REGION")
	setString(&c.AWS.S3Bucket, "S3_BUCKET")
	setString(&c.AWS.CloudFrontURL, "CLOUDFRONT_URL")
	setString(&c.AWS.SESFrom, "SES_EMAIL")
	setString(&c.AWS.SNSPlatformARN, "SNS_FCM_ARN")

	if v := os.Getenv("MQTT_ENABLED"); v != "" {
		c.MQTT.Enabled, _ = strconv.ParseBool(v)
	}
	setString(&c.MQTT.Broker, "MQTT_BROKER")
	setString(&c.MQTT.Username, "MQTT_USERNAME")
	setString(&c.MQTT.Password, "MQTT_PASSWORD")
	setString(&c.MQTT.TopicPrefix, "MQTT_TOPIC_PREFIX")

	setString(&c.LogLevel, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// GetAddr returns the listen address, ":8080" by default.
func (c *Config) GetAddr() string {
	if c.Server.Addr == "" {
		return ":8080"
	}
	return c.Server.Addr
}

// Location resolves the timezone used to derive calendar dates.
func (c *Config) Location() (*time.Location, error) {
	if c.Server.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Server.Timezone, err)
	}
	return loc, nil
}

// GetSessionTTL defaults to 72 hours.
func (c *Config) GetSessionTTL() time.Duration {
	if c.Auth.SessionTTLHours <= 0 {
		return 72 * time.Hour
	}
	return time.Duration(c.Auth.SessionTTLHours) * time.Hour
}

func (c *Config) GetLLMTimeout() time.Duration {
	if c.LLM.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// GetS3Region falls back to the general AWS region.
func (c *Config) GetS3Region() string {
	if c.AWS.S3Region != "" {
		return c.AWS.S3Region
	}
	return c.AWS.Region
}

func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "pupcare"
	}
	return c.MQTT.TopicPrefix
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}
	switch c.Database.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
