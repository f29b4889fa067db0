package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/logging"
)

// Service ties the repository and the history together: updates snapshot the
// previous state before overwriting it, reverts restore a snapshot without
// recording a new one.
type Service struct {
	repo          *Repository
	history       *History
	logger        logging.Logger
	sanitizer     *Sanitizer
	defaults      *LiveContent
	strictHistory bool
}

type ServiceOption func(*Service)

// WithSanitizer enables rich-text sanitization of incoming pages.
func WithSanitizer(s *Sanitizer) ServiceOption {
	return func(svc *Service) { svc.sanitizer = s }
}

// WithDefaults sets the content served while the store holds none.
func WithDefaults(d *LiveContent) ServiceOption {
	return func(svc *Service) { svc.defaults = d }
}

// WithStrictHistory makes a failed snapshot abort the update instead of
// being logged and skipped.
func WithStrictHistory(strict bool) ServiceOption {
	return func(svc *Service) { svc.strictHistory = strict }
}

func NewService(repo *Repository, history *History, logger logging.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		history: history,
		logger:  logger.With("module", "content"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Live returns the published content. Missing documents are filled from the
// configured defaults; without a page the result is common.ErrNotFound.
func (s *Service) Live(ctx context.Context) (LiveContent, error) {
	live, err := s.repo.GetLive(ctx)
	if err != nil {
		return LiveContent{}, err
	}
	if s.defaults != nil {
		if live.PageContent == nil {
			live.PageContent = s.defaults.PageContent
		}
		if live.GalleryImages == nil {
			live.GalleryImages = s.defaults.GalleryImages
		}
	}
	if live.PageContent == nil {
		return LiveContent{}, common.ErrNotFound
	}
	if live.GalleryImages == nil {
		live.GalleryImages = []GalleryImage{}
	}
	return live, nil
}

// Update validates req, snapshots the current content when both documents
// exist and then overwrites the live content.
func (s *Service) Update(ctx context.Context, req UpdateRequest) error {
	page, gallery, err := req.Validate()
	if err != nil {
		return err
	}
	if s.sanitizer != nil {
		s.sanitizer.Page(page)
	}

	current, err := s.repo.GetLive(ctx)
	if err != nil {
		return err
	}

	if current.Complete() {
		ts, err := s.history.RecordSnapshot(ctx, current)
		if err != nil {
			if s.strictHistory {
				return fmt.Errorf("record snapshot: %w", err)
			}
			s.logger.Warn(ctx, "history snapshot failed, continuing with update", "error", err)
		} else {
			s.logger.Info(ctx, "history snapshot recorded", "timestamp", ts)
		}
	}

	if err := s.repo.SetLive(ctx, page, gallery); err != nil {
		return err
	}
	s.logger.Info(ctx, "content updated", "services", len(page.Services), "images", len(gallery))
	return nil
}

// Revert restores the snapshot taken at ts. The reverted-from state is not
// recorded, so a revert cannot itself be undone through the history.
func (s *Service) Revert(ctx context.Context, ts string) (string, error) {
	if ts == "" {
		return "", common.NewValidationError("missing timestamp")
	}

	snap, err := s.history.Get(ctx, ts)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", fmt.Errorf("snapshot %s: %w", ts, common.ErrNotFound)
		}
		return "", err
	}
	if snap.PageContent == nil {
		return "", fmt.Errorf("snapshot %s has no page content: %w", ts, common.ErrNotFound)
	}

	if err := s.repo.SetLive(ctx, snap.PageContent, snap.GalleryImages); err != nil {
		return "", err
	}
	s.logger.Info(ctx, "content reverted", "timestamp", ts)
	return ts, nil
}

// History lists snapshot timestamps, newest first.
func (s *Service) History(ctx context.Context) ([]string, error) {
	return s.history.List(ctx)
}

// Snapshot returns the content stored at ts.
func (s *Service) Snapshot(ctx context.Context, ts string) (LiveContent, error) {
	if ts == "" {
		return LiveContent{}, common.NewValidationError("missing timestamp")
	}
	snap, err := s.history.Get(ctx, ts)
	if err != nil {
		return LiveContent{}, err
	}
	if snap.GalleryImages == nil {
		snap.GalleryImages = []GalleryImage{}
	}
	return snap, nil
}

// Seed writes content to the live keys. Unless force is set it only does so
// when the store holds no page yet; with force it goes through Update so
// the replaced content lands in the history.
func (s *Service) Seed(ctx context.Context, c LiveContent, force bool) (bool, error) {
	gallery := c.GalleryImages
	if gallery == nil {
		gallery = []GalleryImage{}
	}
	req := UpdateRequest{PageContent: c.PageContent, GalleryImages: &gallery}

	if force {
		return true, s.Update(ctx, req)
	}

	current, err := s.repo.GetLive(ctx)
	if err != nil {
		return false, err
	}
	if current.PageContent != nil {
		return false, nil
	}

	page, g, err := req.Validate()
	if err != nil {
		return false, err
	}
	if err := s.repo.SetLive(ctx, page, g); err != nil {
		return false, err
	}
	return true, nil
}

// PruneHistory deletes snapshots that the index no longer references.
func (s *Service) PruneHistory(ctx context.Context) ([]string, error) {
	return s.history.PruneOrphans(ctx)
}
