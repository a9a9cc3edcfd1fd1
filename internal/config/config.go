package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < .env < env.
// godotenv never overrides variables already present in the process.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "hxblog"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "hxblog"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	// A .env in the working directory fills in variables that are not
	// already set in the process environment.
	_ = godotenv.Load()

	// Environment variables: HXBLOG_*
	v.SetEnvPrefix("hxblog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}
	return nil
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/hxblog or ~/.local/share/hxblog
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "hxblog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "hxblog")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "hxblog", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/hxblog.db"},
		{Key: "db_url", Default: "", Comment: "Store URL (sqlite path, postgres://..., mem://); empty uses data_dir/hxblog.db"},
		{Key: "http_addr", Default: ":8080", Comment: "HTTP listen address"},
		{Key: "seed", Default: true, Comment: "Insert a welcome post when the store is empty at startup"},

		{Key: "site.title", Default: "hxblog", Comment: "Title shown in the page header and the feed"},
		{Key: "site.base_url", Default: "http://localhost:8080", Comment: "Absolute URL used for feed links"},

		{Key: "preview.max_length", Default: 200, Comment: "Characters kept in list previews before the ellipsis"},
		{Key: "markdown.emoji", Default: true, Comment: "Render :shortcode: emoji in post bodies"},

		{Key: "feed.enabled", Default: true, Comment: "Serve an RSS feed at /feed.xml"},
		{Key: "feed.limit", Default: 20, Comment: "Maximum posts in the feed"},

		{Key: "tls.domain", Default: "", Comment: "Obtain certificates for this domain via ACME; empty disables"},
		{Key: "tls.email", Default: "", Comment: "ACME account email"},
		{Key: "tls.storage_dir", Default: "", Comment: "Certificate cache; empty uses data_dir/certmagic"},
		{Key: "tls.cert_file", Default: "", Comment: "Static certificate file, used when tls.domain is empty"},
		{Key: "tls.key_file", Default: "", Comment: "Static key file, used with tls.cert_file"},

		{Key: "http3.enabled", Default: false, Comment: "Also serve HTTP/3 over QUIC (requires TLS)"},
	}
}

// ResolveDBURL returns db_url, or the sqlite file under data_dir when unset.
func ResolveDBURL(v *viper.Viper) string {
	if u := strings.TrimSpace(v.GetString("db_url")); u != "" {
		return u
	}
	return ResolveDBPath(v)
}

// ResolveDBPath returns the sqlite DB file path under data_dir.
func ResolveDBPath(v *viper.Viper) string {
	return filepath.Join(ResolveDataDir(v), "hxblog.db")
}

// ResolveDataDir expands a leading ~ in data_dir.
func ResolveDataDir(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return dir
}
