// Package backup exports the live content and every indexed history
// snapshot as one JSON archive, written to a local file or an S3-compatible
// bucket.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/server/content"
	"github.com/dmitrijs2005/yardcms/internal/timex"
)

type Snapshot struct {
	Timestamp string              `json:"timestamp"`
	Content   content.LiveContent `json:"content"`
}

// Archive is the exported state. Live is nil when the store holds no page.
type Archive struct {
	CreatedAt string               `json:"createdAt"`
	Live      *content.LiveContent `json:"live"`
	Snapshots []Snapshot           `json:"snapshots"`
	// Missing lists indexed timestamps whose snapshot had already expired.
	Missing []string `json:"missing,omitempty"`
}

type Exporter struct {
	repo    *content.Repository
	history *content.History
	now     func() time.Time
}

func NewExporter(repo *content.Repository, history *content.History) *Exporter {
	return &Exporter{repo: repo, history: history, now: time.Now}
}

// Build reads the live documents and the indexed snapshots, newest first.
func (e *Exporter) Build(ctx context.Context) (*Archive, error) {
	live, err := e.repo.GetLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("read live content: %w", err)
	}

	a := &Archive{
		CreatedAt: timex.FormatISO(e.now()),
		Snapshots: make([]Snapshot, 0),
	}
	if live.PageContent != nil {
		a.Live = &live
	}

	stamps, err := e.history.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, ts := range stamps {
		snap, err := e.history.Get(ctx, ts)
		if errors.Is(err, common.ErrNotFound) {
			a.Missing = append(a.Missing, ts)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot %s: %w", ts, err)
		}
		a.Snapshots = append(a.Snapshots, Snapshot{Timestamp: ts, Content: snap})
	}
	return a, nil
}

// Marshal encodes a as indented JSON.
func (a *Archive) Marshal() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}
