// Package config holds the server settings, populated by kong from flags and
// FORUM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Listen string `help:"HTTP server listen address" default:":8080" env:"FORUM_LISTEN"`
	DBPath string `help:"path to the sqlite database file" default:"forum.db" env:"FORUM_DB_PATH"`

	// Sessions
	SessionTTL   time.Duration `help:"idle lifetime of a session" default:"24h" env:"FORUM_SESSION_TTL"`
	SessionSweep time.Duration `help:"interval between expired session sweeps" default:"1m" env:"FORUM_SESSION_SWEEP"`
	CookieSecure bool          `help:"mark the session cookie Secure" default:"false" env:"FORUM_COOKIE_SECURE"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:8080" env:"FORUM_CORS_ORIGINS"`

	// Login throttling, per client IP
	LoginRate  float64 `help:"login attempts per second" default:"1" env:"FORUM_LOGIN_RATE"`
	LoginBurst int     `help:"login attempts allowed in a burst" default:"5" env:"FORUM_LOGIN_BURST"`

	// Proxies whose X-Forwarded-For and X-Real-IP headers name the client
	TrustedProxies []string `help:"IPs or CIDRs of reverse proxies allowed to set the client IP" env:"FORUM_TRUSTED_PROXIES"`

	ShutdownTimeout time.Duration `help:"grace period for in-flight requests on shutdown" default:"10s" env:"FORUM_SHUTDOWN_TIMEOUT"`
}

func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("database path is required (--db-path or FORUM_DB_PATH)")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", c.SessionTTL)
	}
	if c.SessionSweep <= 0 {
		return fmt.Errorf("session sweep interval must be positive, got %s", c.SessionSweep)
	}
	if c.LoginRate <= 0 || c.LoginBurst <= 0 {
		return errors.New("login rate and burst must be positive")
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return err
	}
	return nil
}

// TrustedProxyPrefixes parses TrustedProxies. A bare IP is a single-address prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// LoadEnvFile loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
