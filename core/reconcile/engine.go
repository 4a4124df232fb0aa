package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine reconciles the local ban list with the remote ban list, the remote
// whitelist and the request queue. It is not safe to run two engines against
// the same store at once: there is no locking and no optimistic check.
type Engine struct {
	store    Store
	resolver Resolver
	logger   *zap.Logger
	opts     Options
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(store Store, resolver Resolver, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:    store,
		resolver: resolver,
		logger:   logger,
		opts:     opts,
	}
}

// run holds the state of a single reconciliation.
type run struct {
	*Engine
	bans      *Collection
	whitelist *Collection
	requests  *Collection
	result    *Result
}

// Run performs one complete reconciliation. Steps execute strictly in order:
// backfill, ban propagation, ban list refresh, eviction, request admission,
// whitelist refresh, snapshot assembly. Mutations already committed when an
// error is returned stay in place.
func (e *Engine) Run(ctx context.Context, localBans []Record) (*Result, error) {
	store := e.store
	if e.opts.DryRun {
		mem, err := CloneStore(ctx, e.store)
		if err != nil {
			return nil, err
		}
		store = mem
	}

	r := &run{
		Engine:    e,
		bans:      NewCollection(RemoteBans, store),
		whitelist: NewCollection(RemoteWhitelist, store),
		requests:  NewCollection(Requests, store),
		result:    &Result{DryRun: e.opts.DryRun, Actions: []Action{}},
	}

	if err := r.load(ctx); err != nil {
		return nil, err
	}

	bans := make([]Record, 0, len(localBans))
	for _, b := range localBans {
		b = b.Normalize()
		if b.IsEmpty() {
			continue
		}
		bans = append(bans, b)
	}
	r.result.Summary.LocalBans = len(bans)

	e.logger.Debug("Resolving missing local ban data", zap.Int("local_bans", len(bans)))
	if err := r.backfill(bans); err != nil {
		return nil, err
	}

	e.logger.Debug("Processing pending bans")
	if err := r.propagateBans(ctx, bans); err != nil {
		return nil, err
	}

	if e.opts.EvictBanned {
		if err := r.evictBanned(ctx); err != nil {
			return nil, err
		}
	}

	e.logger.Debug("Processing whitelist requests", zap.Int("requests", r.requests.Len()))
	if err := r.admitRequests(ctx); err != nil {
		return nil, err
	}

	if err := r.assembleSnapshot(); err != nil {
		return nil, err
	}

	return r.result, nil
}

// load fetches the three remote collections concurrently. Nothing has been
// mutated yet, so the reads are independent.
func (r *run) load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range []*Collection{r.bans, r.whitelist, r.requests} {
		g.Go(func() error {
			return c.Refresh(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.logger.Info("Loaded remote collections",
		zap.String("store", r.store.Name()),
		zap.Bool("dry_run", r.opts.DryRun),
		zap.Int("banlist", r.bans.Len()),
		zap.Int("whitelist", r.whitelist.Len()),
		zap.Int("requests", r.requests.Len()),
	)
	return nil
}

// backfill copies the email of the whitelist row with the same handle into
// each local ban. Bans without a match are left as they are.
func (r *run) backfill(bans []Record) error {
	for i := range bans {
		if bans[i].Email != "" {
			continue
		}
		row, ok, err := r.whitelist.Find(FieldHandle, bans[i].Handle)
		if err != nil {
			return err
		}
		if ok && row.Record.Email != "" {
			bans[i].Email = row.Record.Email
			r.result.Summary.Backfilled++
		}
	}
	return nil
}

// assembleSnapshot turns the refreshed whitelist into local whitelist entries.
func (r *run) assembleSnapshot() error {
	rows, err := r.whitelist.Rows()
	if err != nil {
		return err
	}

	snapshot := make([]SnapshotEntry, 0, len(rows))
	for _, row := range rows {
		if row.Record.Identifier == "" {
			r.logger.Warn("Whitelist row has no identifier, leaving it out of the snapshot",
				zap.Int("row", row.Index),
				zap.String("handle", row.Record.Handle),
			)
			continue
		}
		snapshot = append(snapshot, SnapshotEntry{
			Identifier: row.Record.Identifier,
			Handle:     row.Record.Handle,
		})
	}

	r.result.Snapshot = snapshot
	r.result.Summary.SnapshotSize = len(snapshot)
	return nil
}

// record appends an action to the run result.
func (r *run) record(t ActionType, rec Record, reason string) {
	r.result.Actions = append(r.result.Actions, Action{Type: t, Record: rec, Reason: reason})
}

func recordFields(rec Record) []zap.Field {
	return []zap.Field{
		zap.String("email", rec.Email),
		zap.String("handle", rec.Handle),
		zap.String("identifier", rec.Identifier),
	}
}

func deleteNotApplied(name CollectionName, rec Record) error {
	return fmt.Errorf("%s row for %q: %w", name, rec.Handle, ErrDeleteNotApplied)
}
