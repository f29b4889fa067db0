package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDefaults reads default site content from a YAML or JSON file (chosen by
// extension, YAML otherwise). The file has the same shape as a snapshot:
//
//	pageContent:
//	  title: Green Yard Landscaping
//	galleryImages:
//	  - url: /img/patio.jpg
func LoadDefaults(path string) (*LiveContent, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read defaults: %w", err)
	}

	var c LiveContent
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &c)
	} else {
		err = yaml.Unmarshal(b, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("parse defaults %s: %w", path, err)
	}

	if c.PageContent == nil {
		return nil, fmt.Errorf("defaults %s: missing pageContent", path)
	}
	if err := ValidatePage(c.PageContent); err != nil {
		return nil, fmt.Errorf("defaults %s: %w", path, err)
	}
	if c.GalleryImages == nil {
		c.GalleryImages = []GalleryImage{}
	}
	if err := ValidateGallery(c.GalleryImages); err != nil {
		return nil, fmt.Errorf("defaults %s: %w", path, err)
	}
	return &c, nil
}
