// Package catalog holds the static video records shown in the gallery.
//
// This package enables stategallery to:
// - Load the video collection from JSON or YAML content files
// - Validate records once at start-up
// - Look up a record by its ID
package catalog

import (
	"errors"
	"time"
)

// ErrInvalidVideo is wrapped by every validation failure.
var ErrInvalidVideo = errors.New("invalid video record")

// Video is one entry of the state video archive.
type Video struct {
	ID              string `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	ExternalVideoID string `json:"youtubeId" yaml:"youtubeId"`
	Channel         string `json:"channel" yaml:"channel"`
	PublishedDate   string `json:"date,omitempty" yaml:"date,omitempty"`

	// Published is parsed from PublishedDate; zero when the record is undated.
	Published time.Time `json:"-" yaml:"-"`
}

// HasDate reports whether the record carries a publish date.
func (v Video) HasDate() bool {
	return !v.Published.IsZero()
}
