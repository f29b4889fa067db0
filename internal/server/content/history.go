package content

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/kv"
	"github.com/dmitrijs2005/yardcms/internal/timex"
)

// History keeps snapshots of the live content under history:<timestamp> and
// an index list of the most recent snapshot keys, newest first.
type History struct {
	store kv.Store
	now   func() time.Time
	limit int64
	ttl   time.Duration
	prune bool
}

type HistoryOption func(*History)

// WithClock sets the time source used for snapshot timestamps.
func WithClock(now func() time.Time) HistoryOption {
	return func(h *History) { h.now = now }
}

// WithPruning controls whether snapshots trimmed off the index are deleted
// right away. When off they linger until their TTL runs out and can still be
// fetched by exact timestamp.
func WithPruning(enabled bool) HistoryOption {
	return func(h *History) { h.prune = enabled }
}

func NewHistory(store kv.Store, opts ...HistoryOption) *History {
	h := &History{
		store: store,
		now:   time.Now,
		limit: HistoryLimit,
		ttl:   SnapshotTTL,
		prune: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func snapshotKey(ts string) string {
	return HistoryPrefix + ts
}

// RecordSnapshot stores snap under a new timestamp, pushes its key onto the
// index and trims the index to the limit. The push and the trim are separate
// store calls, so concurrent writers can briefly leave more entries behind.
func (h *History) RecordSnapshot(ctx context.Context, snap LiveContent) (string, error) {
	ts := timex.FormatISO(h.now())
	key := snapshotKey(ts)

	if err := kv.SetJSON(ctx, h.store, key, snap, h.ttl); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", key, err)
	}
	if err := h.store.LPush(ctx, KeyHistoryIndex, key); err != nil {
		return "", fmt.Errorf("push history index: %w", err)
	}
	if h.prune {
		if err := h.deleteTail(ctx); err != nil {
			return "", err
		}
	}
	if err := h.store.LTrim(ctx, KeyHistoryIndex, 0, h.limit-1); err != nil {
		return "", fmt.Errorf("trim history index: %w", err)
	}
	return ts, nil
}

// deleteTail removes the snapshot objects whose keys are about to fall off
// the index. A key that also appears in the kept head is left alone.
func (h *History) deleteTail(ctx context.Context) error {
	keys, err := h.store.LRange(ctx, KeyHistoryIndex, 0, -1)
	if err != nil {
		return fmt.Errorf("read history index: %w", err)
	}
	if int64(len(keys)) <= h.limit {
		return nil
	}
	head, tail := keys[:h.limit], keys[h.limit:]

	stale := make([]string, 0, len(tail))
	for _, k := range tail {
		if !slices.Contains(head, k) && !slices.Contains(stale, k) {
			stale = append(stale, k)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := h.store.Delete(ctx, stale...); err != nil {
		return fmt.Errorf("delete trimmed snapshots: %w", err)
	}
	return nil
}

// List returns the indexed snapshot timestamps, newest first.
func (h *History) List(ctx context.Context) ([]string, error) {
	keys, err := h.store.LRange(ctx, KeyHistoryIndex, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("read history index: %w", err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, HistoryPrefix))
	}
	return out, nil
}

// Get loads the snapshot stored for ts. It looks the key up directly and
// does not consult the index. A missing snapshot yields common.ErrNotFound.
func (h *History) Get(ctx context.Context, ts string) (LiveContent, error) {
	var snap LiveContent
	if err := kv.GetJSON(ctx, h.store, snapshotKey(ts), &snap); err != nil {
		return LiveContent{}, err
	}
	return snap, nil
}

// PruneOrphans deletes every snapshot object that is not referenced by the
// index and returns the deleted keys.
func (h *History) PruneOrphans(ctx context.Context) ([]string, error) {
	all, err := h.store.Scan(ctx, HistoryPrefix)
	if err != nil {
		return nil, fmt.Errorf("scan snapshots: %w", err)
	}
	indexed, err := h.store.LRange(ctx, KeyHistoryIndex, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("read history index: %w", err)
	}

	orphans := make([]string, 0)
	for _, k := range all {
		if !slices.Contains(indexed, k) {
			orphans = append(orphans, k)
		}
	}
	if len(orphans) == 0 {
		return orphans, nil
	}
	if err := h.store.Delete(ctx, orphans...); err != nil {
		return nil, fmt.Errorf("delete orphaned snapshots: %w", err)
	}
	return orphans, nil
}
