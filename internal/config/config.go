package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Prefix namespaces every environment variable of the web server.
const Prefix = "MOTO_WEB_"

// Config is the process configuration.
type Config struct {
	Addr         string
	Dev          bool
	Env          string
	TemplatesDir string
	PublicDir    string
	LocalesDir   string
	ContentDir   string
	DefaultLang  string

	CatalogBaseURL     string
	CatalogDir         string
	CatalogManifest    string
	CatalogTimeout     time.Duration
	CatalogSnapshotTTL time.Duration

	LogLevel  string
	LogFormat string
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Addr:               ":8080",
		Env:                "dev",
		TemplatesDir:       "templates",
		PublicDir:          "public",
		LocalesDir:         "locales",
		ContentDir:         "content",
		DefaultLang:        "fr",
		CatalogDir:         "public/Product-details",
		CatalogTimeout:     10 * time.Second,
		CatalogSnapshotTTL: 5 * time.Minute,
		LogLevel:           "info",
		LogFormat:          "json",
	}
}

// Load reads the optional dotenv files (".env" when none are given) and then
// the environment. Missing dotenv files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Defaults()
	get := func(key string) string { return strings.TrimSpace(getenv(Prefix + key)) }
	set := func(dst *string, key string) {
		if v := get(key); v != "" {
			*dst = v
		}
	}

	if v := get("ADDR"); v != "" {
		cfg.Addr = v
	} else if port := strings.TrimSpace(getenv("PORT")); port != "" {
		cfg.Addr = ":" + port
	}
	set(&cfg.Env, "ENV")
	set(&cfg.TemplatesDir, "TEMPLATES")
	set(&cfg.PublicDir, "PUBLIC")
	set(&cfg.LocalesDir, "LOCALES")
	set(&cfg.ContentDir, "CONTENT_DIR")
	set(&cfg.DefaultLang, "DEFAULT_LANG")
	set(&cfg.CatalogBaseURL, "CATALOG_BASE_URL")
	set(&cfg.CatalogDir, "CATALOG_DIR")
	set(&cfg.CatalogManifest, "CATALOG_MANIFEST")
	set(&cfg.LogLevel, "LOG_LEVEL")
	set(&cfg.LogFormat, "LOG_FORMAT")

	if v := get("DEV"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %sDEV: %w", Prefix, err)
		}
		cfg.Dev = dev
	} else {
		cfg.Dev = cfg.Env == "dev"
	}

	var err error
	if cfg.CatalogTimeout, err = duration(get("CATALOG_TIMEOUT"), cfg.CatalogTimeout); err != nil {
		return Config{}, fmt.Errorf("config: %sCATALOG_TIMEOUT: %w", Prefix, err)
	}
	if cfg.CatalogSnapshotTTL, err = duration(get("CATALOG_SNAPSHOT_TTL"), cfg.CatalogSnapshotTTL); err != nil {
		return Config{}, fmt.Errorf("config: %sCATALOG_SNAPSHOT_TTL: %w", Prefix, err)
	}
	cfg.DefaultLang = strings.ToLower(cfg.DefaultLang)
	return cfg, nil
}

func duration(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", v)
	}
	return d, nil
}

// RemoteCatalog reports whether documents come from a file host.
func (c Config) RemoteCatalog() bool { return c.CatalogBaseURL != "" }
