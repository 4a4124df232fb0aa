package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// propagateBans moves every local ban that is not yet on the remote ban list
// there, together with all whitelist rows sharing the banned account's email.
// Staged rows are appended in one batch and the ban list is refreshed
// afterwards, whether or not anything was appended.
func (r *run) propagateBans(ctx context.Context, bans []Record) error {
	var staged []Record
	stagedIDs := make(map[string]struct{})

	for _, ban := range bans {
		if _, done := stagedIDs[ban.Identifier]; done && ban.Identifier != "" {
			continue
		}

		_, known, err := r.bans.Find(FieldIdentifier, ban.Identifier)
		if err != nil {
			return err
		}
		if known {
			continue
		}
		r.result.Summary.PendingBans++

		ref, ok, err := r.whitelist.Find(FieldIdentifier, ban.Identifier)
		if err != nil {
			return err
		}
		if !ok {
			r.result.Summary.UntracedBans++
			r.record(ActionUntraced, ban, "no whitelist row for identifier")
			r.logger.Debug("Local ban has no whitelist trace", recordFields(ban)...)
			if r.opts.RecordUntracedBans {
				staged = append(staged, ban)
				if ban.Identifier != "" {
					stagedIDs[ban.Identifier] = struct{}{}
				}
			}
			continue
		}

		removed, err := r.removeAlts(ctx, ref)
		if err != nil {
			return err
		}
		for _, rec := range removed {
			r.record(ActionUnlist, rec, fmt.Sprintf("shares email with banned %s", ban.Handle))
			staged = append(staged, rec)
			if rec.Identifier != "" {
				stagedIDs[rec.Identifier] = struct{}{}
			}
		}
		r.result.Summary.WhitelistRemoved += len(removed)
		r.logger.Info("Removed banned accounts from whitelist",
			zap.String("handle", ban.Handle),
			zap.String("identifier", ban.Identifier),
			zap.Int("accounts", len(removed)),
		)
	}

	if err := r.bans.Append(ctx, staged); err != nil {
		return err
	}
	for _, rec := range staged {
		r.record(ActionBan, rec, "propagated from local ban list")
	}
	r.result.Summary.BansAppended = len(staged)

	return r.bans.Refresh(ctx)
}

// removeAlts deletes the reference row and every other whitelist row using
// the same email, refreshing the whitelist after each deletion. A reference
// row without an email only removes itself.
func (r *run) removeAlts(ctx context.Context, ref Row) ([]Record, error) {
	email := ref.Record.Email
	if email == "" {
		if err := r.deleteAndRefresh(ctx, r.whitelist, ref); err != nil {
			return nil, err
		}
		if row, ok, err := r.whitelist.Find(FieldIdentifier, ref.Record.Identifier); err != nil {
			return nil, err
		} else if ok && row.Index == ref.Index && row.Record == ref.Record {
			return nil, deleteNotApplied(RemoteWhitelist, ref.Record)
		}
		return []Record{ref.Record}, nil
	}

	limit := r.countMatches(r.whitelist, FieldEmail, email)

	var removed []Record
	for {
		row, ok, err := r.whitelist.Find(FieldEmail, email)
		if err != nil {
			return nil, err
		}
		if !ok {
			return removed, nil
		}
		if len(removed) >= limit {
			return nil, deleteNotApplied(RemoteWhitelist, row.Record)
		}
		if err := r.deleteAndRefresh(ctx, r.whitelist, row); err != nil {
			return nil, err
		}
		removed = append(removed, row.Record)
	}
}

// evictBanned deletes whitelist rows whose account is on the remote ban list.
// The ban list already holds these accounts, so nothing is appended.
func (r *run) evictBanned(ctx context.Context) error {
	limit := r.whitelist.Len()
	for evicted := 0; ; evicted++ {
		row, ok, err := r.firstBanned()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if evicted >= limit {
			return deleteNotApplied(RemoteWhitelist, row.Record)
		}
		if err := r.deleteAndRefresh(ctx, r.whitelist, row); err != nil {
			return err
		}
		r.record(ActionEvict, row.Record, "account is on the remote ban list")
		r.result.Summary.Evicted++
		r.logger.Info("Evicted banned account from whitelist", recordFields(row.Record)...)
	}
}

// firstBanned returns the first whitelist row whose identity is banned.
func (r *run) firstBanned() (Row, bool, error) {
	rows, err := r.whitelist.Rows()
	if err != nil {
		return Row{}, false, err
	}
	for _, row := range rows {
		_, banned, err := r.bans.FindIdentity(row.Record)
		if err != nil {
			return Row{}, false, err
		}
		if banned {
			return row, true, nil
		}
	}
	return Row{}, false, nil
}

func (r *run) deleteAndRefresh(ctx context.Context, c *Collection, row Row) error {
	if err := c.Delete(ctx, row); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

func (r *run) countMatches(c *Collection, field Field, value string) int {
	rows, _ := c.Rows()
	n := 0
	for _, row := range rows {
		if row.Record.Value(field) == value {
			n++
		}
	}
	return n
}
