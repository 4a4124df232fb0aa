package reconcile

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// admitRequests resolves pending requests that are neither banned nor already
// whitelisted and appends them to the whitelist in one batch. The request
// queue itself is never written: a request deferred by a transient resolver
// failure is simply seen again on the next run.
func (r *run) admitRequests(ctx context.Context) error {
	rows, err := r.requests.Rows()
	if err != nil {
		return err
	}

	var staged []Record
	stagedHandles := make(map[string]struct{})
	stagedIDs := make(map[string]struct{})

	for _, row := range rows {
		req := row.Record
		if req.Handle == "" {
			continue
		}
		r.result.Summary.Requests++

		banned, listed, err := r.lookup(FieldHandle, req.Handle)
		if err != nil {
			return err
		}
		if _, ok := stagedHandles[req.Handle]; ok {
			listed = true
		}
		if banned {
			r.result.Summary.SkippedBanned++
			continue
		}
		if listed {
			r.result.Summary.SkippedListed++
			continue
		}

		id, err := r.resolver.Resolve(ctx, req.Handle)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if errors.Is(err, ErrNotFound) {
				r.result.Summary.NotFound++
				r.logger.Debug("Request handle does not exist", zap.String("handle", req.Handle))
				continue
			}
			r.result.Summary.Deferred++
			r.record(ActionDefer, req, err.Error())
			r.logger.Warn("Identity resolver failed, request deferred to next run",
				zap.String("handle", req.Handle),
				zap.Error(err),
			)
			continue
		}

		id = NormalizeIdentifier(id)
		if id == "" {
			r.result.Summary.NotFound++
			continue
		}

		banned, listed, err = r.lookup(FieldIdentifier, id)
		if err != nil {
			return err
		}
		if _, ok := stagedIDs[id]; ok {
			listed = true
		}
		if banned {
			r.result.Summary.SkippedBanned++
			continue
		}
		if listed {
			r.result.Summary.SkippedListed++
			continue
		}

		rec := Record{Email: req.Email, Handle: req.Handle, Identifier: id}
		staged = append(staged, rec)
		stagedHandles[rec.Handle] = struct{}{}
		stagedIDs[id] = struct{}{}
	}

	if err := r.whitelist.Append(ctx, staged); err != nil {
		return err
	}
	for _, rec := range staged {
		r.record(ActionAdmit, rec, "request approved")
		r.logger.Info("Admitted request to whitelist", recordFields(rec)...)
	}
	r.result.Summary.Admitted = len(staged)

	return r.whitelist.Refresh(ctx)
}

// lookup reports whether value is present on the ban list and on the whitelist.
func (r *run) lookup(field Field, value string) (banned, listed bool, err error) {
	if _, banned, err = r.bans.Find(field, value); err != nil {
		return false, false, err
	}
	if _, listed, err = r.whitelist.Find(field, value); err != nil {
		return false, false, err
	}
	return banned, listed, nil
}
