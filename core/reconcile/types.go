package reconcile

import (
	"strings"

	"github.com/google/uuid"
)

// Field names one of the three lookup keys of a Record.
type Field string

const (
	// FieldEmail is the address used to register an account.
	FieldEmail Field = "email"
	// FieldHandle is the human-readable account name.
	FieldHandle Field = "handle"
	// FieldIdentifier is the stable account id (primary join key).
	FieldIdentifier Field = "identifier"
)

// CollectionName identifies one of the remote collections a Store serves.
type CollectionName string

const (
	// RemoteBans is the shared, durable ban list.
	RemoteBans CollectionName = "banlist"
	// RemoteWhitelist is the allow-list of who may currently join.
	RemoteWhitelist CollectionName = "whitelist"
	// Requests is the externally owned queue of pending access requests.
	// It is read-only for every Store.
	Requests CollectionName = "requests"
)

// Record is the unit of data in every collection. Any field may be empty.
type Record struct {
	// Email is the registration address. Local bans never carry one.
	Email string `json:"email,omitempty"`

	// Handle is the account name at the time the record was written.
	Handle string `json:"handle,omitempty"`

	// Identifier is the stable account id, normalised by NormalizeIdentifier.
	Identifier string `json:"identifier,omitempty"`
}

// Value returns the record's value for the given field.
func (r Record) Value(f Field) string {
	switch f {
	case FieldEmail:
		return r.Email
	case FieldHandle:
		return r.Handle
	case FieldIdentifier:
		return r.Identifier
	default:
		return ""
	}
}

// Tuple returns the record in store column order: email, handle, identifier.
func (r Record) Tuple() []string {
	return []string{r.Email, r.Handle, r.Identifier}
}

// IsEmpty reports whether no field is set.
func (r Record) IsEmpty() bool {
	return r.Email == "" && r.Handle == "" && r.Identifier == ""
}

// SameIdentity reports whether both records refer to the same account.
// Identifiers decide when both sides have one; the handle is only consulted
// when either identifier is unknown.
func (r Record) SameIdentity(o Record) bool {
	if r.Identifier != "" && o.Identifier != "" {
		return r.Identifier == o.Identifier
	}
	return r.Handle != "" && r.Handle == o.Handle
}

// Normalize trims every field and canonicalises the identifier.
func (r Record) Normalize() Record {
	return Record{
		Email:      strings.TrimSpace(r.Email),
		Handle:     strings.TrimSpace(r.Handle),
		Identifier: NormalizeIdentifier(r.Identifier),
	}
}

// NormalizeIdentifier returns the canonical dashed lower-case form of a UUID,
// accepting undashed input as returned by the profile API. Values that are
// not UUIDs are returned trimmed and otherwise untouched.
func NormalizeIdentifier(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return parsed.String()
}

// Row is a record together with its position at the last fetch.
// Stores use Index to address deletions.
type Row struct {
	Index  int
	Record Record
}

// SnapshotEntry is one line of the local whitelist file.
type SnapshotEntry struct {
	Identifier string `json:"uuid"`
	Handle     string `json:"name"`
}

// ActionType represents the kind of change a run made or planned.
type ActionType string

const (
	// ActionUnlist removes an alt of a locally banned account from the whitelist.
	ActionUnlist ActionType = "unlist"
	// ActionBan appends a record to the remote ban list.
	ActionBan ActionType = "ban"
	// ActionEvict removes a remotely banned account from the whitelist.
	ActionEvict ActionType = "evict"
	// ActionAdmit appends a resolved request to the whitelist.
	ActionAdmit ActionType = "admit"
	// ActionDefer records a request skipped because the resolver failed transiently.
	ActionDefer ActionType = "defer"
	// ActionUntraced records a local ban with no whitelist trace.
	ActionUntraced ActionType = "untraced"
)

// Action represents a single change, in the order it was made.
type Action struct {
	// Type specifies the change.
	Type ActionType `json:"type"`

	// Record is the full tuple affected.
	Record Record `json:"record"`

	// Reason explains why this action was taken.
	Reason string `json:"reason"`
}

// Summary provides aggregate counts for a run.
type Summary struct {
	LocalBans        int `json:"local_bans"`
	Backfilled       int `json:"backfilled"`
	PendingBans      int `json:"pending_bans"`
	UntracedBans     int `json:"untraced_bans"`
	WhitelistRemoved int `json:"whitelist_removed"`
	BansAppended     int `json:"bans_appended"`
	Evicted          int `json:"evicted"`
	Requests         int `json:"requests"`
	SkippedBanned    int `json:"skipped_banned"`
	SkippedListed    int `json:"skipped_listed"`
	NotFound         int `json:"not_found"`
	Deferred         int `json:"deferred"`
	Admitted         int `json:"admitted"`
	SnapshotSize     int `json:"snapshot_size"`
}

// Result is the outcome of a reconciliation run.
type Result struct {
	// DryRun is true when the run was executed against an in-memory copy.
	DryRun bool `json:"dry_run"`

	// Actions lists every change in execution order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`

	// Snapshot is the final whitelist content for the local server.
	Snapshot []SnapshotEntry `json:"snapshot"`
}

// Count returns how many actions of the given type the run recorded.
func (r *Result) Count(t ActionType) int {
	n := 0
	for _, a := range r.Actions {
		if a.Type == t {
			n++
		}
	}
	return n
}
