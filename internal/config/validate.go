package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	u, err := url.Parse(c.EntityStore.BaseURL)
	if err != nil {
		return fmt.Errorf("entity_store.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("entity_store.base_url must be http or https (got %q)", c.EntityStore.BaseURL)
	}

	if c.EntityStore.Timeout <= 0 {
		return fmt.Errorf("entity_store.timeout must be > 0 (got %v)", c.EntityStore.Timeout)
	}

	return nil
}
