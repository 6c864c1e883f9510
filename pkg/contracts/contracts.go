// Package contracts holds the external formats stategallery depends on:
// the content file records and the image host URL layout.
package contracts

import "regexp"

// ContentRecordContract is one content file record as the site publishes it.
// Unknown fields must be ignored.
const ContentRecordContract = `[
  {
    "id": "svs-castle-2025",
    "title": "SvS Castle Battle - State 1676 vs 1702",
    "youtubeId": "dQw4w9WgXcQ",
    "channel": "ICE Alliance",
    "date": "2025-03-22",
    "tags": ["svs", "castle"]
  },
  {
    "id": "welcome",
    "title": "Welcome to State 1676",
    "youtubeId": "9bZkp7q5ZzZ",
    "channel": "State 1676"
  }
]`

// ContentRecordYAMLContract is the same collection in the YAML content format.
const ContentRecordYAMLContract = `
- id: svs-castle-2025
  title: SvS Castle Battle - State 1676 vs 1702
  youtubeId: dQw4w9WgXcQ
  channel: ICE Alliance
  date: "2025-03-22"
- id: welcome
  title: Welcome to State 1676
  youtubeId: 9bZkp7q5ZzZ
  channel: State 1676
`

// ThumbnailPathContract matches image paths on img.youtube.com.
var ThumbnailPathContract = regexp.MustCompile(`^/vi/[A-Za-z0-9_-]+/(maxresdefault|sddefault|hqdefault|mqdefault|default)\.jpg$`)

// EmbedURLContract matches the player URL opened in the overlay.
var EmbedURLContract = regexp.MustCompile(`^https://www\.youtube\.com/embed/[A-Za-z0-9_-]+\?autoplay=1&rel=0&modestbranding=1$`)
