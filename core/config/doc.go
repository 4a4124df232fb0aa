// Package config provides configuration management for whitelist-sync.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// partial configuration.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Sheets: spreadsheet ID, credentials file and sheet names
//   - Server: Minecraft server folder and file names
//   - Resolver: profile API base URL and timeout
//   - Sync: backend selection and reconciliation switches
//   - Log: logging level and format
//   - Database: run ledger / SQL backend connection
//   - Storage: S3/MinIO snapshot archive
//   - Metrics: node-exporter textfile path
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Folder)
package config
