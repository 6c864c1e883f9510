package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed videos.json
var defaultVideos []byte

// Format identifies the encoding of a content file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Catalog is an immutable, validated video collection.
type Catalog struct {
	videos []Video
	byID   map[string]int
}

// New validates videos and builds a catalog preserving input order.
func New(videos []Video) (*Catalog, error) {
	c := &Catalog{
		videos: make([]Video, 0, len(videos)),
		byID:   make(map[string]int, len(videos)),
	}

	for i, v := range videos {
		v.ID = strings.TrimSpace(v.ID)
		v.ExternalVideoID = strings.TrimSpace(v.ExternalVideoID)
		v.PublishedDate = strings.TrimSpace(v.PublishedDate)

		if v.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrInvalidVideo, i)
		}
		if _, dup := c.byID[v.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidVideo, v.ID)
		}
		if v.ExternalVideoID == "" {
			return nil, fmt.Errorf("%w: %q has no youtubeId", ErrInvalidVideo, v.ID)
		}
		if v.PublishedDate != "" {
			published, err := parseDate(v.PublishedDate)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVideo, v.ID, err)
			}
			v.Published = published
		}

		c.byID[v.ID] = len(c.videos)
		c.videos = append(c.videos, v)
	}

	return c, nil
}

// Parse decodes a content file body in the given format.
func Parse(data []byte, format Format) (*Catalog, error) {
	var videos []Video

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &videos); err != nil {
			return nil, fmt.Errorf("failed to parse video list: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &videos); err != nil {
			return nil, fmt.Errorf("failed to parse video list: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported video list format %q", format)
	}

	return New(videos)
}

// Load reads a content file, picking the format from its extension.
func Load(path string) (*Catalog, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read video list: %w", err)
	}

	return Parse(data, format)
}

// Default returns the collection bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultVideos, FormatJSON)
}

// Videos returns a copy of the records in input order.
func (c *Catalog) Videos() []Video {
	out := make([]Video, len(c.videos))
	copy(out, c.videos)
	return out
}

// ByID looks up a record by its catalog ID.
func (c *Catalog) ByID(id string) (Video, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Video{}, false
	}
	return c.videos[i], true
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.videos)
}

func formatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported video list file %q: use .json, .yaml or .yml", path)
	}
}

// parseDate accepts plain calendar dates as used in the content files as well
// as the usual feed timestamp layouts.
func parseDate(s string) (time.Time, error) {
	layouts := []string{
		time.DateOnly,
		time.RFC3339,
		time.RFC1123Z,
		time.RFC1123,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
