package config

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when no config path is given.
	DefaultConfigPath = "config.yml"

	defaultAddr       = ":8080"
	defaultEnv        = "development"
	defaultDataDir    = "data"
	defaultStaticDir  = "static"
	defaultMediaDir   = "uploads"
	defaultLogLevel   = "info"
	defaultCookieName = "sessionid"
	defaultSessionTTL = 14 * 24 * time.Hour

	SessionBackendBadger = "badger"
	SessionBackendRedis  = "redis"
)

// Config holds runtime configuration loaded from YAML and the environment.
type Config struct {
	Addr      string        `yaml:"addr"`
	Env       string        `yaml:"env"` // "development" | "production" | "test"
	DataDir   string        `yaml:"data_dir"`
	StaticDir string        `yaml:"static_dir"`
	MediaDir  string        `yaml:"media_dir"`
	LogLevel  string        `yaml:"log_level"`
	Session   SessionConfig `yaml:"session"`
}

type SessionConfig struct {
	Backend    string        `yaml:"backend"`
	CookieName string        `yaml:"cookie_name"`
	Secret     string        `yaml:"secret"`
	TTL        time.Duration `yaml:"ttl"`
	Secure     bool          `yaml:"secure"`
	RedisURL   string        `yaml:"redis_url"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Addr:      defaultAddr,
		Env:       defaultEnv,
		DataDir:   defaultDataDir,
		StaticDir: defaultStaticDir,
		MediaDir:  defaultMediaDir,
		LogLevel:  defaultLogLevel,
		Session: SessionConfig{
			Backend:    SessionBackendBadger,
			CookieName: defaultCookieName,
			TTL:        defaultSessionTTL,
		},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// BLOG_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := Default()
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(err, "parse config file %q", path)
		}
	case !os.IsNotExist(err):
		return nil, errors.Wrapf(err, "read config file %q", path)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "config %q", path)
	}
	return cfg, nil
}

// LoadDotEnvs loads .env files for the current BLOG_ENV. Variables already
// set in the process win over every file.
func LoadDotEnvs(rootPath string) {
	env := os.Getenv("BLOG_ENV")
	if env == "" {
		env = defaultEnv
	}

	// .env.local has highest priority, usually contains secrets
	godotenv.Load(rootPath + ".env." + env + ".local")
	godotenv.Load(rootPath + ".env.local")
	godotenv.Load(rootPath + ".env." + env)
	// .env holds shared defaults
	godotenv.Load(rootPath + ".env")
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"BLOG_ADDR":              &cfg.Addr,
		"BLOG_ENV":               &cfg.Env,
		"BLOG_DATA_DIR":          &cfg.DataDir,
		"BLOG_STATIC_DIR":        &cfg.StaticDir,
		"BLOG_MEDIA_DIR":         &cfg.MediaDir,
		"BLOG_LOG_LEVEL":         &cfg.LogLevel,
		"BLOG_SESSION_BACKEND":   &cfg.Session.Backend,
		"BLOG_SESSION_COOKIE":    &cfg.Session.CookieName,
		"BLOG_SESSION_SECRET":    &cfg.Session.Secret,
		"BLOG_SESSION_REDIS_URL": &cfg.Session.RedisURL,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := os.LookupEnv("BLOG_SESSION_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "BLOG_SESSION_TTL")
		}
		cfg.Session.TTL = ttl
	}
	if v, ok := os.LookupEnv("BLOG_SESSION_SECURE"); ok {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "BLOG_SESSION_SECURE")
		}
		cfg.Session.Secure = secure
	}
	cfg.Env = normalizeEnv(cfg.Env)
	return nil
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case SessionBackendBadger:
	case SessionBackendRedis:
		if c.Session.RedisURL == "" {
			return errors.New("session.redis_url is required for the redis backend")
		}
	default:
		return errors.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return errors.Errorf("invalid session.ttl %s", c.Session.TTL)
	}
	if c.IsProduction() && c.Session.Secret == "" {
		return errors.New("session.secret must be set in production")
	}
	return nil
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}

func (c *Config) IsDev() bool {
	return c.Env == defaultEnv
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
