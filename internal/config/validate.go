package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrel/hxblog/internal/db"
)

// CheckConfigValidity reports every problem found, one per line.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" && strings.TrimSpace(v.GetString("db_url")) == "" {
		add("data_dir is required when db_url is empty")
	}
	if err := db.CheckURL(strings.TrimSpace(v.GetString("db_url"))); err != nil {
		add("db_url has %v", err)
	}
	if strings.TrimSpace(v.GetString("http_addr")) == "" {
		add("http_addr is required")
	}
	if strings.TrimSpace(v.GetString("site.title")) == "" {
		add("site.title is required")
	}
	if base := v.GetString("site.base_url"); base != "" {
		if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
			add("site.base_url must be an absolute url")
		}
	}
	if v.GetInt("preview.max_length") <= 0 {
		add("preview.max_length must be greater than 0")
	}
	if v.GetBool("feed.enabled") && v.GetInt("feed.limit") <= 0 {
		add("feed.limit must be greater than 0")
	}

	cert, key := v.GetString("tls.cert_file"), v.GetString("tls.key_file")
	if (cert == "") != (key == "") {
		add("tls.cert_file and tls.key_file must be set together")
	}
	if v.GetString("tls.domain") != "" && cert != "" {
		add("tls.domain and tls.cert_file are mutually exclusive")
	}
	if v.GetBool("http3.enabled") && v.GetString("tls.domain") == "" && cert == "" {
		add("http3.enabled requires tls.domain or tls.cert_file")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "\n"))
}
