package config

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kozaktomas/outfit-matcher/internal/constants"
)

type Config struct {
	Web      WebConfig
	Upload   UploadConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	Classify ClassifyConfig
	LogLevel string
}

type WebConfig struct {
	Host           string
	Port           int
	SessionSecret  string   // random per process when empty
	AllowedOrigins []string // CORS origins; empty means same-origin only
}

type UploadConfig struct {
	Dir string // where face and garment images are stored
}

type CatalogConfig struct {
	URL     string        // remote palette dataset
	Path    string        // local copy of the dataset, preferred over URL when set
	Timeout time.Duration // bound on the one-time fetch
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL; sessions stay in memory when empty
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type ClassifyConfig struct {
	Workers int // parallel garment classifications (default 4)
}

// Defaults for the optional settings.
const (
	DefaultCatalogURL = "https://raw.githubusercontent.com/mattdesl/dictionary-of-colour-combinations/master/colors.json"
	DefaultUploadDir  = "uploads"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("web_host", "0.0.0.0")
	v.SetDefault("web_port", 8080)
	v.SetDefault("upload_dir", DefaultUploadDir)
	v.SetDefault("catalog_url", DefaultCatalogURL)
	v.SetDefault("catalog_timeout", 10*time.Second)
	v.SetDefault("database_max_open_conns", 25)
	v.SetDefault("database_max_idle_conns", 5)
	v.SetDefault("classify_workers", constants.DefaultConcurrency)
	v.SetDefault("log_level", "info")
}

// positiveInt reads key as a positive integer, falling back to defaultVal when
// the value is missing, invalid or not positive.
func positiveInt(v *viper.Viper, key string, defaultVal int) int {
	if n := v.GetInt(key); n > 0 {
		return n
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load reads the configuration from the global viper instance, which falls back
// to environment variables (WEB_PORT, DATABASE_URL, ...) for every key.
func Load() *Config {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v.
func LoadFrom(v *viper.Viper) *Config {
	v.AutomaticEnv()
	setDefaults(v)

	timeout := v.GetDuration("catalog_timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Config{
		Web: WebConfig{
			Host:           v.GetString("web_host"),
			Port:           positiveInt(v, "web_port", 8080),
			SessionSecret:  v.GetString("web_session_secret"),
			AllowedOrigins: splitList(v.GetString("web_allowed_origins")),
		},
		Upload: UploadConfig{
			Dir: v.GetString("upload_dir"),
		},
		Catalog: CatalogConfig{
			URL:     v.GetString("catalog_url"),
			Path:    v.GetString("catalog_path"),
			Timeout: timeout,
		},
		Database: DatabaseConfig{
			URL:          v.GetString("database_url"),
			MaxOpenConns: positiveInt(v, "database_max_open_conns", 25),
			MaxIdleConns: positiveInt(v, "database_max_idle_conns", 5),
		},
		Classify: ClassifyConfig{
			Workers: positiveInt(v, "classify_workers", constants.DefaultConcurrency),
		},
		LogLevel: v.GetString("log_level"),
	}
}

// Addr returns the listen address.
func (c *WebConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
