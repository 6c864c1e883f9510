// Package youtube tests document the expected behavior of the thumbnail client.
//
// Test requirements (this file serves as documentation):
// - URLs follow the image host, embed and watch patterns
// - Probe succeeds only when the host serves the image
// - Probe surfaces HTTP status and transport failures as errors
package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestThumbnailURL_FollowsHostPattern(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{TierMaxRes, "https://img.youtube.com/vi/abc123/maxresdefault.jpg"},
		{TierSD, "https://img.youtube.com/vi/abc123/sddefault.jpg"},
		{TierHQ, "https://img.youtube.com/vi/abc123/hqdefault.jpg"},
		{TierMQ, "https://img.youtube.com/vi/abc123/mqdefault.jpg"},
		{TierFallback, "https://img.youtube.com/vi/abc123/default.jpg"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			if got := ThumbnailURL(DefaultThumbnailHost, "abc123", tt.tier); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestThumbnailURL_TrimsTrailingSlashFromHost(t *testing.T) {
	got := ThumbnailURL("http://localhost:9000/", "abc", TierHQ)
	if got != "http://localhost:9000/vi/abc/hqdefault.jpg" {
		t.Errorf("host trailing slash should not double up, got %q", got)
	}
}

func TestTiers_DescendingPreference(t *testing.T) {
	want := []Tier{TierMaxRes, TierSD, TierHQ, TierMQ, TierFallback}
	if len(Tiers) != len(want) {
		t.Fatalf("expected %d tiers, got %d", len(want), len(Tiers))
	}
	for i := range want {
		if Tiers[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i+1, want[i], Tiers[i])
		}
	}
}

func TestEmbedURL_AutoplaysWithoutRelatedVideos(t *testing.T) {
	want := "https://www.youtube.com/embed/abc123?autoplay=1&rel=0&modestbranding=1"
	if got := EmbedURL("abc123"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWatchURL(t *testing.T) {
	if got := WatchURL("abc123"); got != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("unexpected watch URL %q", got)
	}
}

func TestClient_ThumbnailURLUsesConfiguredHost(t *testing.T) {
	client := NewClient(WithThumbnailHost("http://127.0.0.1:8080/"))

	got := client.ThumbnailURL("vid", TierMQ)
	if got != "http://127.0.0.1:8080/vi/vid/mqdefault.jpg" {
		t.Errorf("client should build URLs on its host, got %q", got)
	}
}

func TestClient_ProbeSucceedsWhenImageServed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/vi/abc/hqdefault.jpg" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	defer server.Close()

	client := NewClient(WithThumbnailHost(server.URL))

	if err := client.Probe(context.Background(), client.ThumbnailURL("abc", TierHQ)); err != nil {
		t.Fatalf("served thumbnail should probe successfully, got: %v", err)
	}
}

func TestClient_ProbeReportsMissingImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithThumbnailHost(server.URL))

	err := client.Probe(context.Background(), client.ThumbnailURL("abc", TierMaxRes))
	if err == nil {
		t.Fatal("missing thumbnail should fail the probe")
	}

	var probeErr *ProbeError
	if !errors.As(err, &probeErr) {
		t.Fatalf("expected *ProbeError, got %T: %v", err, err)
	}
	if probeErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", probeErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "maxresdefault") {
		t.Errorf("error should name the missing image, got: %v", err)
	}
}

func TestClient_ProbeRespectsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(WithThumbnailHost(server.URL))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Probe(ctx, client.ThumbnailURL("abc", TierHQ))
	if err == nil {
		t.Fatal("slow image host should fail the probe once the deadline passes")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got: %v", err)
	}
}

type stubHTTPClient struct {
	err error
}

func (s stubHTTPClient) Do(*http.Request) (*http.Response, error) {
	return nil, s.err
}

func TestClient_ProbePassesThroughTransportErrors(t *testing.T) {
	transportErr := errors.New("connection refused")
	client := NewClient(WithHTTPClient(stubHTTPClient{err: transportErr}))

	err := client.Probe(context.Background(), client.ThumbnailURL("abc", TierHQ))
	if !errors.Is(err, transportErr) {
		t.Errorf("transport error should pass through, got: %v", err)
	}
}
