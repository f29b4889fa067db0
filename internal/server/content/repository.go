package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/kv"
	"golang.org/x/sync/errgroup"
)

// Repository reads and writes the two live documents. Each key is written
// atomically on its own; there is no transaction across the two.
type Repository struct {
	store kv.Store
}

func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

// GetLive reads both documents in parallel. Absent keys leave the matching
// field nil.
func (r *Repository) GetLive(ctx context.Context) (LiveContent, error) {
	var live LiveContent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var page PageContent
		err := kv.GetJSON(gctx, r.store, KeyPageContent, &page)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", KeyPageContent, err)
		}
		live.PageContent = &page
		return nil
	})
	g.Go(func() error {
		var gallery []GalleryImage
		err := kv.GetJSON(gctx, r.store, KeyGalleryImages, &gallery)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", KeyGalleryImages, err)
		}
		if gallery == nil {
			gallery = []GalleryImage{}
		}
		live.GalleryImages = gallery
		return nil
	})

	if err := g.Wait(); err != nil {
		return LiveContent{}, err
	}
	return live, nil
}

// SetLive overwrites both documents in parallel. If one write fails the other
// may still have been applied.
func (r *Repository) SetLive(ctx context.Context, page *PageContent, gallery []GalleryImage) error {
	if gallery == nil {
		gallery = []GalleryImage{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := kv.SetJSON(gctx, r.store, KeyPageContent, page, 0); err != nil {
			return fmt.Errorf("write %s: %w", KeyPageContent, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := kv.SetJSON(gctx, r.store, KeyGalleryImages, gallery, 0); err != nil {
			return fmt.Errorf("write %s: %w", KeyGalleryImages, err)
		}
		return nil
	})
	return g.Wait()
}
