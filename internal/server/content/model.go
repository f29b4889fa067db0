// Package content implements the site's live content and its version
// history: the two live documents, snapshot-on-write into a bounded history
// index, and revert to a snapshot by timestamp.
package content

import "time"

// Store keys.
const (
	KeyPageContent   = "pageContent"
	KeyGalleryImages = "galleryImages"
	KeyHistoryIndex  = "content_history"
	HistoryPrefix    = "history:"
)

const (
	// HistoryLimit is the maximum number of snapshots reachable via the index.
	HistoryLimit = 10
	// SnapshotTTL is how long a snapshot object lives in the store.
	SnapshotTTL = 30 * 24 * time.Hour
)

// PageContent is the marketing copy of the site. It is always replaced as a
// whole.
type PageContent struct {
	Title    string            `json:"title" yaml:"title"`
	Tagline  string            `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Hero     *Hero             `json:"hero,omitempty" yaml:"hero,omitempty"`
	About    *Section          `json:"about,omitempty" yaml:"about,omitempty"`
	Services []Offering        `json:"services,omitempty" yaml:"services,omitempty"`
	Contact  *Contact          `json:"contact,omitempty" yaml:"contact,omitempty"`
	Sections map[string]string `json:"sections,omitempty" yaml:"sections,omitempty"`
}

type Hero struct {
	Heading    string `json:"heading,omitempty" yaml:"heading,omitempty"`
	Subheading string `json:"subheading,omitempty" yaml:"subheading,omitempty"`
	CTAText    string `json:"ctaText,omitempty" yaml:"ctaText,omitempty"`
	CTALink    string `json:"ctaLink,omitempty" yaml:"ctaLink,omitempty"`
	Image      string `json:"image,omitempty" yaml:"image,omitempty"`
}

// Section is a titled block of rich text. Body may contain HTML.
type Section struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Body  string `json:"body,omitempty" yaml:"body,omitempty"`
}

// Offering is one entry on the services list. Description may contain HTML.
type Offering struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
}

type Contact struct {
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Hours   string `json:"hours,omitempty" yaml:"hours,omitempty"`
}

type GalleryImage struct {
	URL      string `json:"url" yaml:"url"`
	Alt      string `json:"alt,omitempty" yaml:"alt,omitempty"`
	Caption  string `json:"caption,omitempty" yaml:"caption,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// LiveContent is the published state of the site. The same shape is stored
// in history snapshots. A nil field means the key is absent from the store;
// an empty, non-nil GalleryImages is a stored empty array.
type LiveContent struct {
	PageContent   *PageContent   `json:"pageContent" yaml:"pageContent"`
	GalleryImages []GalleryImage `json:"galleryImages" yaml:"galleryImages"`
}

// Complete reports whether both documents are present.
func (c LiveContent) Complete() bool {
	return c.PageContent != nil && c.GalleryImages != nil
}
