package display

import (
	"strings"
	"testing"
	"time"

	"github.com/gauthierbraillon/stategallery/internal/catalog"
	"github.com/gauthierbraillon/stategallery/internal/gallery"
	"github.com/gauthierbraillon/stategallery/internal/thumbnail"
)

func testCard(phase thumbnail.Phase) gallery.Card {
	return gallery.Card{
		Video: catalog.Video{
			ID:              "svs-12",
			Title:           "SvS Week 12 Highlights",
			ExternalVideoID: "abc123",
			Channel:         "State 1676",
			Published:       time.Date(2025, 3, 22, 0, 0, 0, 0, time.UTC),
		},
		Thumbnail: thumbnail.State{
			Phase: phase,
			URL:   "https://img.youtube.com/vi/abc123/hqdefault.jpg",
		},
		WatchURL: "https://www.youtube.com/watch?v=abc123",
	}
}

func TestAC300_TerminalGallery_ShowsVideoTitleAndChannel(t *testing.T) {
	output := NewTerminalFormatter().FormatCard(testCard(thumbnail.Loaded))

	if !strings.Contains(output, "SvS Week 12 Highlights") {
		t.Error("user should see video title in terminal output")
	}
	if !strings.Contains(output, "[State 1676]") {
		t.Error("user should see channel badge in terminal output")
	}
	if !strings.Contains(output, "Mar 22, 2025") {
		t.Errorf("user should see publish date, got:\n%s", output)
	}
}

func TestAC301_TerminalGallery_ShowsLoadedThumbnail(t *testing.T) {
	output := NewTerminalFormatter().FormatCard(testCard(thumbnail.Loaded))

	if !strings.Contains(output, "hqdefault.jpg") {
		t.Errorf("user should see the resolved thumbnail URL, got:\n%s", output)
	}
	if !strings.Contains(output, "watch?v=abc123") {
		t.Error("user should see the watch link")
	}
}

func TestAC301_TerminalGallery_ShowsPlaceholderForFailedThumbnail(t *testing.T) {
	output := NewTerminalFormatter().FormatCard(testCard(thumbnail.Failed))

	if strings.Contains(output, "hqdefault.jpg") {
		t.Error("failed thumbnail should not show an image URL")
	}
	if !strings.Contains(output, "[▶ State 1676 • SvS Week 12 Highlights]") {
		t.Errorf("placeholder should carry channel and title, got:\n%s", output)
	}
}

func TestAC301_TerminalGallery_ShowsLoadingState(t *testing.T) {
	output := NewTerminalFormatter().FormatCard(testCard(thumbnail.Loading))

	if !strings.Contains(output, "loading...") {
		t.Errorf("pending thumbnail should show loading, got:\n%s", output)
	}
}

func TestAC302_TerminalGallery_OmitsDateForUndatedVideo(t *testing.T) {
	card := testCard(thumbnail.Loaded)
	card.Video.Published = time.Time{}

	output := NewTerminalFormatter().FormatCard(card)

	if strings.Contains(output, "0001") {
		t.Errorf("undated video should not show a zero date, got:\n%s", output)
	}
}

func TestAC303_TerminalGallery_ShowsArchiveHeader(t *testing.T) {
	output := NewTerminalFormatter().FormatHeader(gallery.Summary{Total: 14, Displaying: 6})

	if !strings.Contains(output, "TOTAL_VIDEOS: 14 | DISPLAYING: 6") {
		t.Errorf("header should show totals, got: %s", output)
	}
}

func TestAC304_TerminalGallery_ShowsLoadMoreHintOnlyWhenMoreRemain(t *testing.T) {
	f := NewTerminalFormatter()
	cards := []gallery.Card{testCard(thumbnail.Loaded), testCard(thumbnail.Failed)}

	more := f.FormatGallery(gallery.Summary{Total: 14, Displaying: 2, HasMore: true}, cards)
	if !strings.Contains(more, "12 more videos") {
		t.Errorf("user should be offered more videos, got:\n%s", more)
	}
	if strings.Count(more, "---") != 1 {
		t.Errorf("cards should be separated, got:\n%s", more)
	}

	done := f.FormatGallery(gallery.Summary{Total: 2, Displaying: 2}, cards)
	if strings.Contains(done, "LOAD MORE") {
		t.Error("user should not be offered more videos once all are shown")
	}
}

func TestAC305_TerminalGallery_HandlesEmptyGallery(t *testing.T) {
	output := NewTerminalFormatter().FormatGallery(gallery.Summary{}, nil)

	if !strings.Contains(output, "No videos to display") {
		t.Errorf("empty gallery should say so, got:\n%s", output)
	}
}

func TestAC306_TerminalGallery_TruncatesLongText(t *testing.T) {
	f := NewTerminalFormatter()

	testCases := []struct {
		text   string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long title", 10, "this is..."},
		{"tiny", 2, "..."},
		{"Ünïcödé title here", 8, "Ünïcö..."},
	}

	for _, tc := range testCases {
		if got := f.TruncateText(tc.text, tc.maxLen); got != tc.want {
			t.Errorf("TruncateText(%q, %d) = %q, want %q", tc.text, tc.maxLen, got, tc.want)
		}
	}
}
