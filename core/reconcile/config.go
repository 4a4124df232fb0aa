package reconcile

// Config holds configuration for a reconciliation run.
type Config struct {
	// Backend selects the record store (sheets, database).
	Backend string `mapstructure:"backend" default:"sheets"`
	// EvictBanned removes remotely banned accounts from the whitelist.
	EvictBanned bool `mapstructure:"evict_banned" default:"true"`
	// RecordUntracedBans appends local bans with no whitelist trace to the
	// remote ban list using the locally known fields.
	RecordUntracedBans bool `mapstructure:"record_untraced_bans" default:"false"`
	// IgnoreExpiredBans drops local bans whose expiry date has passed.
	IgnoreExpiredBans bool `mapstructure:"ignore_expired_bans" default:"true"`
	// DryRun runs against an in-memory copy of the store.
	DryRun bool `mapstructure:"dry_run" default:"false"`
}

const (
	BackendSheets   = "sheets"
	BackendDatabase = "database"
)

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendSheets, BackendDatabase:
		return true
	default:
		return false
	}
}

// Options controls engine behaviour for a single run.
type Options struct {
	// DryRun executes the run against a MemoryStore cloned from the store.
	DryRun bool

	// EvictBanned enables removal of whitelist rows whose account is on the
	// remote ban list.
	EvictBanned bool

	// RecordUntracedBans enables appending local bans that have no whitelist
	// row to the remote ban list.
	RecordUntracedBans bool
}

// Options returns the engine options derived from the configuration.
func (c Config) Options() Options {
	return Options{
		DryRun:             c.DryRun,
		EvictBanned:        c.EvictBanned,
		RecordUntracedBans: c.RecordUntracedBans,
	}
}
