package metrics

// Config holds configuration for run metrics.
type Config struct {
	// TextfilePath is where the node-exporter textfile is written; empty disables it.
	TextfilePath string `mapstructure:"textfile_path" default:""`
}
