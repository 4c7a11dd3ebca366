package discovery

import "time"

// Config holds configuration for discovery ingestion.
type Config struct {
	// StateCacheMinutes is how long resolved states stay cached. Zero disables the cache.
	StateCacheMinutes int `mapstructure:"state_cache_minutes" default:"60"`
	// MaxCasinos caps the casinos accepted in one request.
	MaxCasinos int `mapstructure:"max_casinos" default:"500"`
}

// StateCacheTTL returns the state cache lifetime.
func (c Config) StateCacheTTL() time.Duration {
	return time.Duration(c.StateCacheMinutes) * time.Minute
}
