// Package history keeps an audit trail of sync runs in SQL.
//
// Each run is stored with its summary counters and the ordered list of
// actions it took, so operators can see who was banned, evicted or admitted
// and when. The ledger is optional: a run proceeds without it when the
// database is unreachable.
package history
