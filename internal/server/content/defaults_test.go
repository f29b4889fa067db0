package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults_YAML(t *testing.T) {
	path := writeFile(t, "defaults.yaml", `
pageContent:
  title: Green Yard Landscaping
  hero:
    heading: Lawns that last
    ctaLink: /contact
  services:
    - name: Mowing
      description: Weekly cuts
galleryImages:
  - url: /img/patio.jpg
    alt: Patio
`)
	got, err := LoadDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, "Green Yard Landscaping", got.PageContent.Title)
	assert.Equal(t, "/contact", got.PageContent.Hero.CTALink)
	assert.Equal(t, []Offering{{Name: "Mowing", Description: "Weekly cuts"}}, got.PageContent.Services)
	assert.Equal(t, []GalleryImage{{URL: "/img/patio.jpg", Alt: "Patio"}}, got.GalleryImages)
}

func TestLoadDefaults_JSON(t *testing.T) {
	path := writeFile(t, "defaults.JSON", `{"pageContent":{"title":"T"}}`)
	got, err := LoadDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, "T", got.PageContent.Title)
	assert.NotNil(t, got.GalleryImages)
}

func TestLoadDefaults_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"bad yaml", "d.yaml", "pageContent: [\n"},
		{"bad json", "d.json", "{"},
		{"no page", "d.yaml", "galleryImages: []\n"},
		{"invalid page", "d.yaml", "pageContent:\n  tagline: x\n"},
		{"invalid gallery", "d.yaml", "pageContent:\n  title: x\ngalleryImages:\n  - alt: y\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDefaults(writeFile(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
