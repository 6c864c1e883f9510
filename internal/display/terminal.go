// Package display provides terminal output formatting for stategallery.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/gauthierbraillon/stategallery/internal/gallery"
	"github.com/gauthierbraillon/stategallery/internal/thumbnail"
)

const (
	separator   = " • "
	maxTitleLen = 80
)

// TerminalFormatter formats gallery cards for terminal display.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// FormatHeader formats the archive status line.
func (f *TerminalFormatter) FormatHeader(s gallery.Summary) string {
	return fmt.Sprintf("> TOTAL_VIDEOS: %d | DISPLAYING: %d | STATUS: ACTIVE\n", s.Total, s.Displaying)
}

// FormatCard formats a single video card.
func (f *TerminalFormatter) FormatCard(card gallery.Card) string {
	var lines []string

	// Header: [CHANNEL] Title
	lines = append(lines, fmt.Sprintf("[%s] %s", card.Video.Channel, f.TruncateText(card.Video.Title, maxTitleLen)))

	if !card.Video.Published.IsZero() {
		lines = append(lines, "  "+f.FormatDate(card.Video.Published))
	}

	lines = append(lines, "  "+f.formatThumbnail(card))

	if card.WatchURL != "" {
		lines = append(lines, "  "+card.WatchURL)
	}

	return strings.Join(lines, "\n") + "\n"
}

// formatThumbnail renders the image line, or the placeholder when no tier
// could be loaded.
func (f *TerminalFormatter) formatThumbnail(card gallery.Card) string {
	switch card.Thumbnail.Phase {
	case thumbnail.Loaded:
		return "thumbnail: " + card.Thumbnail.URL
	case thumbnail.Failed:
		return fmt.Sprintf("thumbnail: [▶ %s%s%s]", card.Video.Channel, separator, card.Video.Title)
	case thumbnail.Loading:
		return "thumbnail: loading..."
	default:
		return "thumbnail: -"
	}
}

// FormatGallery formats the header, every card and the load-more hint.
func (f *TerminalFormatter) FormatGallery(s gallery.Summary, cards []gallery.Card) string {
	var b strings.Builder
	b.WriteString(f.FormatHeader(s))
	b.WriteString("\n")

	if len(cards) == 0 {
		b.WriteString("No videos to display.\n")
		return b.String()
	}

	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		formatted = append(formatted, f.FormatCard(card))
	}
	b.WriteString(strings.Join(formatted, "\n---\n\n"))

	if s.HasMore {
		fmt.Fprintf(&b, "\n%d more videos: LOAD MORE with --pages\n", s.Total-s.Displaying)
	}

	return b.String()
}

// FormatDate formats a publish date.
func (f *TerminalFormatter) FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
