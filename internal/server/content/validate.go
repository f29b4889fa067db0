package content

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/microcosm-cc/bluemonday"
)

// UpdateRequest is the body of an update. GalleryImages is a pointer so an
// absent field can be told apart from an explicit empty array.
type UpdateRequest struct {
	PageContent   *PageContent    `json:"pageContent"`
	GalleryImages *[]GalleryImage `json:"galleryImages"`
}

// RevertRequest is the body of a revert.
type RevertRequest struct {
	Timestamp string `json:"timestamp"`
}

// Validate checks an update payload and returns the documents to store.
func (r UpdateRequest) Validate() (*PageContent, []GalleryImage, error) {
	if r.PageContent == nil {
		return nil, nil, common.NewValidationError("missing pageContent")
	}
	if r.GalleryImages == nil {
		return nil, nil, common.NewValidationError("missing galleryImages")
	}
	if err := ValidatePage(r.PageContent); err != nil {
		return nil, nil, err
	}
	gallery := *r.GalleryImages
	if gallery == nil {
		gallery = []GalleryImage{}
	}
	if err := ValidateGallery(gallery); err != nil {
		return nil, nil, err
	}
	return r.PageContent, gallery, nil
}

func ValidatePage(p *PageContent) error {
	if strings.TrimSpace(p.Title) == "" {
		return common.NewValidationError("pageContent.title is required")
	}
	for i, s := range p.Services {
		if strings.TrimSpace(s.Name) == "" {
			return common.NewValidationError(fmt.Sprintf("pageContent.services[%d].name is required", i))
		}
	}
	if p.Hero != nil && !safeLink(p.Hero.CTALink) {
		return common.NewValidationError("pageContent.hero.ctaLink must be an http(s) or relative URL")
	}
	return nil
}

func ValidateGallery(images []GalleryImage) error {
	for i, img := range images {
		if strings.TrimSpace(img.URL) == "" {
			return common.NewValidationError(fmt.Sprintf("galleryImages[%d].url is required", i))
		}
		if !safeLink(img.URL) {
			return common.NewValidationError(fmt.Sprintf("galleryImages[%d].url must be an http(s) or relative URL", i))
		}
	}
	return nil
}

// safeLink accepts empty, relative and http(s) URLs.
func safeLink(raw string) bool {
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return true
	default:
		return false
	}
}

// Sanitizer strips unsafe markup from the rich-text fields of a page.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.UGCPolicy()}
}

// Page sanitizes p in place. Plain-text fields are left untouched so they
// are not HTML-escaped.
func (s *Sanitizer) Page(p *PageContent) {
	if p == nil {
		return
	}
	if p.About != nil {
		p.About.Body = s.policy.Sanitize(p.About.Body)
	}
	for i := range p.Services {
		p.Services[i].Description = s.policy.Sanitize(p.Services[i].Description)
	}
}
