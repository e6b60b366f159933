package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	defaultPort          = 3000
	DefaultKey           = "dev"
	defaultPinataURL     = "https://api.pinata.cloud"
	defaultCIDVersion    = 1
	defaultMaxUploadSize = "100MB"
)

type Config struct {
	Port       int          `yaml:"port" json:"port"`
	Key        string       `yaml:"key" json:"-"`
	Env        string       `yaml:"env" json:"env"`
	Debug      *bool        `yaml:"debug" json:"debug"`
	CORSOrigin string       `yaml:"cors_origin" json:"cors_origin"`
	Pinata     PinataConfig `yaml:"pinata" json:"pinata"`
	Upload     UploadConfig `yaml:"upload" json:"upload"`
}

type PinataConfig struct {
	URL        string `yaml:"url" json:"url"`
	APIKey     string `yaml:"api_key" json:"-"`
	APISecret  string `yaml:"api_secret" json:"-"`
	CIDVersion *int   `yaml:"cid_version" json:"cid_version"`
}

// UploadConfig задаёт, какие части входящей формы уходят в Pinata и под какими путями.
type UploadConfig struct {
	Fields        []string `yaml:"fields" json:"fields"`
	PreservePaths *bool    `yaml:"preserve_paths" json:"preserve_paths"`
	WrapDirectory bool     `yaml:"wrap_directory" json:"wrap_directory"`
	MaxSize       string   `yaml:"max_size" json:"max_size"`
	ValidateCID   *bool    `yaml:"validate_cid" json:"validate_cid"`
}

// Load читает .env и YAML-конфигурацию, применяет ENV-переопределения и валидирует результат.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var c Config
	path := getenv("CONFIG_PATH", "./config.yaml")
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err = yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err = c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err = c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// ENV override
func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("KEY"); v != "" {
		c.Key = v
	}
	if v := os.Getenv("NODE_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG %q: %w", v, err)
		}
		c.Debug = &debug
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		c.CORSOrigin = v
	}
	if v := os.Getenv("PINATA_URL"); v != "" {
		c.Pinata.URL = v
	}
	if v := os.Getenv("PINATA_API_KEY"); v != "" {
		c.Pinata.APIKey = v
	}
	if v := os.Getenv("PINATA_API_SECRET"); v != "" {
		c.Pinata.APISecret = v
	}
	if v := os.Getenv("PINATA_CID_VERSION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PINATA_CID_VERSION %q: %w", v, err)
		}
		c.Pinata.CIDVersion = &n
	}
	if v := os.Getenv("UPLOAD_FIELDS"); v != "" {
		c.Upload.Fields = splitComma(v)
	}
	if v := os.Getenv("UPLOAD_PRESERVE_PATHS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid UPLOAD_PRESERVE_PATHS %q: %w", v, err)
		}
		c.Upload.PreservePaths = &b
	}
	if v := os.Getenv("UPLOAD_WRAP_DIRECTORY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid UPLOAD_WRAP_DIRECTORY %q: %w", v, err)
		}
		c.Upload.WrapDirectory = b
	}
	if v := os.Getenv("MAX_UPLOAD_SIZE"); v != "" {
		c.Upload.MaxSize = v
	}
	if v := os.Getenv("VALIDATE_CID"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid VALIDATE_CID %q: %w", v, err)
		}
		c.Upload.ValidateCID = &b
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.Env == "" {
		c.Env = EnvDevelopment
	}
	if c.Debug == nil {
		debug := c.Env != EnvProduction
		c.Debug = &debug
	}
	if c.Pinata.URL == "" {
		c.Pinata.URL = defaultPinataURL
	}
	if c.Pinata.CIDVersion == nil {
		v := defaultCIDVersion
		c.Pinata.CIDVersion = &v
	}
	if len(c.Upload.Fields) == 0 {
		c.Upload.Fields = []string{"file", "files"}
	}
	if c.Upload.PreservePaths == nil {
		preserve := true
		c.Upload.PreservePaths = &preserve
	}
	if c.Upload.MaxSize == "" {
		c.Upload.MaxSize = defaultMaxUploadSize
	}
	if c.Upload.ValidateCID == nil {
		validate := true
		c.Upload.ValidateCID = &validate
	}
}

// Validate проверяет, что конфигурации достаточно для запуска релея.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if strings.TrimSpace(c.Pinata.APIKey) == "" {
		errs = append(errs, errors.New("PINATA_API_KEY is not configured"))
	}
	if strings.TrimSpace(c.Pinata.APISecret) == "" {
		errs = append(errs, errors.New("PINATA_API_SECRET is not configured"))
	}
	if v := c.CIDVersion(); v != 0 && v != 1 {
		errs = append(errs, fmt.Errorf("cid version must be 0 or 1, got %d", v))
	}
	if len(c.Upload.Fields) == 0 {
		errs = append(errs, errors.New("no upload fields configured"))
	}
	if _, err := c.MaxUploadBytes(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ListenAddr возвращает адрес для http.Server.
func (c *Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) DebugEnabled() bool {
	return c.Debug != nil && *c.Debug
}

func (c *Config) PreservePaths() bool {
	return c.Upload.PreservePaths == nil || *c.Upload.PreservePaths
}

func (c *Config) CIDVersion() int {
	if c.Pinata.CIDVersion == nil {
		return defaultCIDVersion
	}
	return *c.Pinata.CIDVersion
}

func (c *Config) ValidateCID() bool {
	return c.Upload.ValidateCID == nil || *c.Upload.ValidateCID
}

// MaxUploadBytes разбирает человекочитаемый лимит ("100MB"), 0 означает отсутствие лимита.
func (c *Config) MaxUploadBytes() (int64, error) {
	if strings.TrimSpace(c.Upload.MaxSize) == "" || c.Upload.MaxSize == "0" {
		return 0, nil
	}
	n, err := units.FromHumanSize(c.Upload.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max upload size %q: %w", c.Upload.MaxSize, err)
	}
	return n, nil
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
