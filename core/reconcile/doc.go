// Package reconcile implements the whitelist reconciliation engine.
//
// A run merges four sources of truth about who may join the server:
//
//  1. Local ban list: bans issued in game (handle + identifier).
//  2. Remote ban list: the durable, shared record of bans.
//  3. Remote whitelist: the allow-list, the only source that may add a user.
//  4. Pending requests: unvetted access requests (handle + email).
//
// Precedence, highest first: local ban list, remote ban list, remote
// whitelist, local whitelist. The local whitelist is never read; it is
// rewritten from the final remote whitelist on every run.
//
// # Architecture
//
// Store is the record store adapter for the three remote collections
// (see feature/sheets and feature/dbstore). Resolver maps a handle to a
// stable identifier (see feature/mojang). Collection is the engine's view of
// one remote collection; it must be refreshed after every mutation before it
// is read again, and reports ErrStaleCollection otherwise.
//
// # Run
//
//	engine := reconcile.NewEngine(store, resolver, logger, cfg.Sync.Options())
//	result, err := engine.Run(ctx, localBans)
//	// result.Snapshot is written to whitelist.json by the caller.
//
// A run is a sequential batch job. Two runs against the same store at the
// same time can lose updates; nothing here prevents it. Dry runs clone the
// store into a MemoryStore first, so the same code path produces the plan
// without touching the real store.
package reconcile
