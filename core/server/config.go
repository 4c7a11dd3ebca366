package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// ReadTimeoutSeconds bounds reading a request.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"30"`
	// WriteTimeoutSeconds bounds writing a response. Research runs are synchronous,
	// so this must exceed the provider timeout.
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" default:"300"`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// ReadTimeout returns the read timeout, zero when unset.
func (c Config) ReadTimeout() time.Duration {
	return seconds(c.ReadTimeoutSeconds)
}

// WriteTimeout returns the write timeout, zero when unset.
func (c Config) WriteTimeout() time.Duration {
	return seconds(c.WriteTimeoutSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
