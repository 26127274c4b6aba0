package auth

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds OIDC verification and role allow-list settings.
// When Enabled is false the middleware falls back to the development
// role header instead of verifying bearer tokens.
type Config struct {
	Enabled     bool     `toml:"enabled"`
	Issuer      string   `toml:"issuer"`
	ClientID    string   `toml:"client_id"`
	RoleClaim   string   `toml:"role_claim"`
	SubmitRoles []string `toml:"submit_roles"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled     string
	Issuer      string
	ClientID    string
	RoleClaim   string
	SubmitRoles string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies; other
// fields only apply when non-zero.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = overlay.Enabled

	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.RoleClaim != "" {
		c.RoleClaim = overlay.RoleClaim
	}
	if overlay.SubmitRoles != nil {
		c.SubmitRoles = overlay.SubmitRoles
	}
}

func (c *Config) loadDefaults() {
	if c.RoleClaim == "" {
		c.RoleClaim = "role"
	}
	if len(c.SubmitRoles) == 0 {
		c.SubmitRoles = []string{"admin", "project-manager", "project-executive"}
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.RoleClaim != "" {
		if v := os.Getenv(env.RoleClaim); v != "" {
			c.RoleClaim = v
		}
	}
	if env.SubmitRoles != "" {
		if v := os.Getenv(env.SubmitRoles); v != "" {
			roles := strings.Split(v, ",")
			c.SubmitRoles = make([]string, 0, len(roles))
			for _, role := range roles {
				if trimmed := strings.TrimSpace(role); trimmed != "" {
					c.SubmitRoles = append(c.SubmitRoles, trimmed)
				}
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Enabled && c.Issuer == "" {
		return fmt.Errorf("issuer is required when auth is enabled")
	}
	if c.Enabled && c.ClientID == "" {
		return fmt.Errorf("client_id is required when auth is enabled")
	}
	return nil
}
