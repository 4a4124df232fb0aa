// Package archive keeps a copy of every written whitelist in object storage,
// keyed by run ID, so a bad sync can be inspected or rolled back by hand.
package archive
