package audit

// Config holds configuration for run reports.
type Config struct {
	// Enabled archives every run report to object storage.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Prefix is the key prefix of archived reports.
	Prefix string `mapstructure:"prefix" default:"audit"`
	// RetentionDays is how long reports are kept by `reports prune`. Zero keeps everything.
	RetentionDays int `mapstructure:"retention_days" default:"90"`
}
