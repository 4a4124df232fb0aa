package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"whitelist-sync/core/database"
	"whitelist-sync/core/logger"
	"whitelist-sync/core/metrics"
	"whitelist-sync/core/reconcile"
	"whitelist-sync/core/storage"
	"whitelist-sync/feature/minecraft"
	"whitelist-sync/feature/mojang"
	"whitelist-sync/feature/sheets"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Sheets holds the spreadsheet backing the remote collections.
	Sheets sheets.Config `mapstructure:"sheets"`
	// Server holds the location of the Minecraft server files.
	Server minecraft.Config `mapstructure:"server"`
	// Resolver holds configuration for the identity resolver.
	Resolver mojang.Config `mapstructure:"resolver"`
	// Sync holds reconciliation behaviour switches.
	Sync reconcile.Config `mapstructure:"sync"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the snapshot archive bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Metrics holds configuration for the metrics textfile.
	Metrics metrics.Config `mapstructure:"metrics"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_FOLDER -> server.folder)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the settings a sync run cannot do without.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Folder == "" {
		errs = append(errs, errors.New("server.folder is required (SERVER_FOLDER or --minecraft-folder)"))
	}
	if !c.Sync.IsValidBackend() {
		errs = append(errs, fmt.Errorf("sync.backend %q is not supported", c.Sync.Backend))
	}
	if c.Sync.Backend == reconcile.BackendSheets && c.Sheets.SpreadsheetID == "" {
		errs = append(errs, errors.New("sheets.spreadsheet_id is required for the sheets backend"))
	}

	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
