// Package mojang resolves player handles to account UUIDs through the
// public profile API.
//
// Resolver satisfies reconcile.Resolver. Errors are *APIError values whose
// Is method maps them onto reconcile.ErrNotFound (unknown handle) and
// reconcile.ErrTransient (rate limiting, server errors, network failures).
package mojang
