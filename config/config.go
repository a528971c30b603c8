package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Remote  RemoteConfig  `yaml:"remote"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Session SessionConfig `yaml:"session"`
	Payment PaymentConfig `yaml:"payment"`
	SMTP    SMTPConfig    `yaml:"smtp"`
	Limits  LimitsConfig  `yaml:"limits"`
	Log     LogConfig     `yaml:"log"`
	Worker  WorkerConfig  `yaml:"worker"`
}

type HTTPConfig struct {
	Address      string   `yaml:"address"`
	AllowOrigins []string `yaml:"allow_origins"`
	DocsDir      string   `yaml:"docs_dir"`
}

type RemoteConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`
	TTLHours   int    `yaml:"ttl_hours"`
}

type PaymentConfig struct {
	SettleDelayMillis int `yaml:"settle_delay_millis"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type LimitsConfig struct {
	Rate string `yaml:"rate"`
}

type LogConfig struct {
	Dir string `yaml:"dir"`
}

type WorkerConfig struct {
	SweepMinutes int `yaml:"sweep_minutes"`
}

// LoadEnv loads a .env file when present. Missing files are not an error so
// production environments can rely on real environment variables.
func LoadEnv() {
	_ = godotenv.Load()
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if strings.TrimSpace(cfg.Remote.BaseURL) == "" {
		return nil, fmt.Errorf("remote.base_url is required")
	}

	return &cfg, nil
}

// Secrets never live in the yaml file; they come from the environment
// (or a local .env) and override whatever the file says.
func (c *Config) applyEnv() {
	if v := os.Getenv("STAYBOOK_API_KEY"); v != "" {
		c.Remote.APIKey = v
	}
	if v := os.Getenv("STAYBOOK_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("STAYBOOK_SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Remote.TimeoutSeconds <= 0 {
		c.Remote.TimeoutSeconds = 15
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "staybook_sid"
	}
	if c.Session.TTLHours <= 0 {
		c.Session.TTLHours = 24 * 30
	}
	if c.Payment.SettleDelayMillis <= 0 {
		c.Payment.SettleDelayMillis = 1500
	}
	if c.Worker.SweepMinutes <= 0 {
		c.Worker.SweepMinutes = 60
	}
}
