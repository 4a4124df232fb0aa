package minecraft

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"whitelist-sync/core/reconcile"
)

// TimeLayout is the timestamp format the server uses in its JSON lists.
const TimeLayout = "2006-01-02 15:04:05 -0700"

// BanEntry is one element of banned-players.json.
type BanEntry struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Created string `json:"created,omitempty"`
	Source  string `json:"source,omitempty"`
	Expires string `json:"expires,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Expired reports whether the ban ran out before now. Permanent bans
// ("forever" or no expiry) and unparsable timestamps never expire.
func (b BanEntry) Expired(now time.Time) bool {
	exp := strings.TrimSpace(b.Expires)
	if exp == "" || strings.EqualFold(exp, "forever") {
		return false
	}
	t, err := time.Parse(TimeLayout, exp)
	if err != nil {
		return false
	}
	return !t.After(now)
}

// Record converts the entry to the engine's record type.
func (b BanEntry) Record() reconcile.Record {
	return reconcile.Record{Handle: b.Name, Identifier: b.UUID}.Normalize()
}

// ReadBanList parses the ban list at path.
func ReadBanList(path string) ([]BanEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ban list: %w", err)
	}

	var entries []BanEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse ban list %s: %w", path, err)
	}
	return entries, nil
}

// ActiveBans converts entries to records, dropping expired bans when
// ignoreExpired is set and entries that carry neither name nor uuid.
func ActiveBans(entries []BanEntry, now time.Time, ignoreExpired bool) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(entries))
	for _, e := range entries {
		if ignoreExpired && e.Expired(now) {
			continue
		}
		rec := e.Record()
		if rec.Handle == "" && rec.Identifier == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}
