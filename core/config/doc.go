// Package config provides configuration management for the offer reconciler.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP port and API key
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: S3/MinIO credentials and the bucket used for run reports
//   - Log: Logging level and format
//   - Research: batch size, offer source tag and the Gemini provider settings
//   - Discovery: state cache lifetime
//   - Audit: whether run reports are archived and under which prefix
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Research.BatchSize)
package config
