package research

// Config holds configuration for research batches.
type Config struct {
	// BatchSize is the default number of casinos per batch.
	BatchSize int `mapstructure:"batch_size" default:"10"`
	// MaxBatchSize caps batch sizes requested over HTTP or the CLI.
	MaxBatchSize int `mapstructure:"max_batch_size" default:"50"`
	// Source tags the offers written by research.
	Source string `mapstructure:"source" default:"ai_research"`
	// Provider selects the research provider. Only "gemini" is supported.
	Provider string `mapstructure:"provider" default:"gemini"`
	// Model is the provider model name.
	Model string `mapstructure:"model" default:"gemini-2.5-flash"`
	// ApiKey authenticates against the provider.
	ApiKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds bounds a single provider call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"120"`
}

// ClampBatchSize returns n, or the default when n is not positive, capped at MaxBatchSize.
func (c Config) ClampBatchSize(n int) int {
	if n <= 0 {
		n = c.BatchSize
	}
	if c.MaxBatchSize > 0 && n > c.MaxBatchSize {
		n = c.MaxBatchSize
	}
	return n
}
