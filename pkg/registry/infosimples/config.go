package infosimples

import (
	"errors"
	"time"
)

// Config holds the provider access settings
type Config struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// Validate checks the configuration. A missing token is not a validation
// error: the handler answers it with a fixed configuration-error response
// instead of refusing to boot.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	return nil
}
