// Package minecraft reads and writes the server's JSON player lists.
//
// The ban list (banned-players.json) is read-only input. The whitelist
// (whitelist.json) is never read; every run replaces it with the snapshot
// of the remote whitelist.
package minecraft
