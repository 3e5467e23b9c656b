package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bassista/go_notes/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Recovery policies for a data file that cannot be decoded.
const (
	CorruptPolicyFail  = "fail"
	CorruptPolicyEmpty = "empty"
)

type Config struct {
	Server ServerConfig
	Data   DataConfig
	Misc   MiscConfig
}

type ServerConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutDownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins string
}

type DataConfig struct {
	FilePath      string
	CorruptPolicy string
	Watch         bool
}

type MiscConfig struct {
	GinMode string
	// LogLevel is empty unless configured, leaving LOG_LEVEL or the logger default in place.
	LogLevel          string
	StaticDir         string
	HoneybadgerAPIKey string
	Environment       string
}

// LoadConfig reads config.yaml (optional), .env (optional) and NOTES_* env vars,
// validates the result and makes sure the data file exists.
func LoadConfig() (*Config, error) {
	envFile := getEnvOrDefault("NOTES_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getEnvOrDefault("NOTES_CONFIG_PATH", "./config"))

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.request_timeout", "5s")
	v.SetDefault("server.cors_allowed_origins", "*")
	v.SetDefault("data.file_path", "./data/notes.json")
	v.SetDefault("data.corrupt_policy", CorruptPolicyFail)
	v.SetDefault("data.watch", true)
	v.SetDefault("misc.gin_mode", "release")
	v.SetDefault("misc.static_dir", "./public")
	v.SetDefault("misc.environment", "production")

	// NOTES_DATA_FILE_PATH overrides data.file_path and so on
	v.SetEnvPrefix("NOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
		logger.WithComponent("config").Debug("no config file found, using defaults and env vars")
	}

	port, err := getEnvOrViperPort(v, "PORT", "server.port")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               port,
			ReadTimeout:        v.GetDuration("server.read_timeout"),
			WriteTimeout:       v.GetDuration("server.write_timeout"),
			IdleTimeout:        v.GetDuration("server.idle_timeout"),
			ShutDownTimeout:    v.GetDuration("server.shutdown_timeout"),
			RequestTimeout:     v.GetDuration("server.request_timeout"),
			CORSAllowedOrigins: v.GetString("server.cors_allowed_origins"),
		},
		Data: DataConfig{
			FilePath:      v.GetString("data.file_path"),
			CorruptPolicy: strings.ToLower(v.GetString("data.corrupt_policy")),
			Watch:         v.GetBool("data.watch"),
		},
		Misc: MiscConfig{
			GinMode:           v.GetString("misc.gin_mode"),
			LogLevel:          v.GetString("misc.log_level"),
			StaticDir:         v.GetString("misc.static_dir"),
			HoneybadgerAPIKey: getEnvOrDefault("HONEYBADGER_API_KEY", v.GetString("misc.honeybadger_api_key")),
			Environment:       getEnvOrDefault("GO_ENV", v.GetString("misc.environment")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := ensureDataFile(cfg.Data.FilePath); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return errors.New("server read, write and idle timeouts must be positive")
	}
	if c.Server.ShutDownTimeout <= 0 {
		return errors.New("server shutdown timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if strings.TrimSpace(c.Data.FilePath) == "" {
		return errors.New("data file path is required")
	}
	switch c.Data.CorruptPolicy {
	case CorruptPolicyFail, CorruptPolicyEmpty:
	default:
		return fmt.Errorf("invalid corrupt policy %q (want %q or %q)", c.Data.CorruptPolicy, CorruptPolicyFail, CorruptPolicyEmpty)
	}
	return nil
}

// ensureDataFile creates the data directory and an empty collection file when missing.
// An existing file is never touched.
func ensureDataFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("create data file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString("[]"); err != nil {
		return fmt.Errorf("initialize data file: %w", err)
	}
	logger.WithComponent("config").Infof("created empty data file at %s", path)
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvOrViperPort(v *viper.Viper, envKey, viperKey string) (int, error) {
	raw := os.Getenv(envKey)
	if raw == "" {
		return v.GetInt(viperKey), nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", envKey, raw, err)
	}
	return port, nil
}
