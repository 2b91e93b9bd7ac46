package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Line struct {
		ChannelToken  string        `yaml:"channel_token" validate:"required"`
		ChannelSecret string        `yaml:"channel_secret" validate:"required"`
		GroupID       string        `yaml:"group_id"`
		SecretPhrase  string        `yaml:"secret_phrase" validate:"required"`
		APIBase       string        `yaml:"api_base" default:"https://api.line.me"`
		Timeout       time.Duration `yaml:"timeout"`
	} `yaml:"line"`
	Sources struct {
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
		Fubon        struct {
			BaseURL string `yaml:"base_url" default:"https://www.fubon.com/futures/wcm/home/taiwanaferhours/image/taiwanaferhours/"`
		} `yaml:"fubon"`
		Sinopac struct {
			ListURL string `yaml:"list_url" default:"https://www.spf.com.tw/sinopacSPF/research/list.do?id=1709f20d3ff00000d8e2039e8984ed51"`
			SiteURL string `yaml:"site_url" default:"https://www.spf.com.tw"`
		} `yaml:"sinopac"`
	} `yaml:"sources"`
	Schedule struct {
		WindowStart  string        `yaml:"window_start" default:"14:45"`
		WindowEnd    string        `yaml:"window_end" default:"16:30"`
		PollInterval time.Duration `yaml:"poll_interval"`
	} `yaml:"schedule"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"chipflash"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"chipflash.reports"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"kafka"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Secrets are expected to come from the environment in production.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if v := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"); v != "" {
		c.Line.ChannelToken = v
	}
	if v := os.Getenv("LINE_CHANNEL_SECRET"); v != "" {
		c.Line.ChannelSecret = v
	}
	if v := os.Getenv("LINE_GROUP_ID"); v != "" {
		c.Line.GroupID = v
	}
	if v := os.Getenv("SECRET_PHRASE"); v != "" {
		c.Line.SecretPhrase = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		if ok {
			c.Redis.Host = host
			if p, err := strconv.Atoi(port); err == nil {
				c.Redis.Port = p
			}
		} else {
			c.Redis.Host = v
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// applyDefaults fills string/int defaults from struct tags, then the duration
// fields defaults cannot express.
func (c *Config) applyDefaults() {
	_ = defaults.Set(c)

	setDur := func(d *time.Duration, def time.Duration) {
		if *d == 0 {
			*d = def
		}
	}
	setDur(&c.Server.ReadTimeout, 10*time.Second)
	setDur(&c.Server.WriteTimeout, 10*time.Second)
	setDur(&c.Server.ShutdownTimeout, 10*time.Second)
	setDur(&c.Line.Timeout, 10*time.Second)
	setDur(&c.Sources.FetchTimeout, 30*time.Second)
	setDur(&c.Schedule.PollInterval, 2*time.Minute)
	setDur(&c.ClickHouse.DialTimeout, 5*time.Second)
	setDur(&c.ClickHouse.ReadTimeout, 10*time.Second)
	setDur(&c.ClickHouse.WriteTimeout, 10*time.Second)
	setDur(&c.Kafka.WriteTimeout, 10*time.Second)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	if _, _, ok := parseClock(c.Schedule.WindowStart); !ok {
		return fmt.Errorf("schedule.window_start must be HH:MM, got %q", c.Schedule.WindowStart)
	}
	if _, _, ok := parseClock(c.Schedule.WindowEnd); !ok {
		return fmt.Errorf("schedule.window_end must be HH:MM, got %q", c.Schedule.WindowEnd)
	}
	if c.Schedule.WindowStart >= c.Schedule.WindowEnd {
		return fmt.Errorf("schedule.window_start must precede window_end")
	}
	return nil
}

func parseClock(s string) (hour, min int, ok bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}
