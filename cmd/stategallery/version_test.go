package main

import (
	"runtime/debug"
	"testing"
)

func buildInfo(moduleVersion string) *debug.BuildInfo {
	return &debug.BuildInfo{
		Path: "github.com/gauthierbraillon/stategallery/cmd/stategallery",
		Main: debug.Module{
			Path:    "github.com/gauthierbraillon/stategallery",
			Version: moduleVersion,
		},
	}
}

// TestResolveVersion covers release builds (ldflags), go install builds
// (module version) and local builds.
func TestResolveVersion(t *testing.T) {
	tests := []struct {
		name    string
		ldflags string
		info    *debug.BuildInfo
		want    string
	}{
		{"release build keeps ldflags over module version", "v0.4.0", buildInfo("v0.3.9"), "v0.4.0"},
		{"release build without build info", "v0.4.0", nil, "v0.4.0"},
		{"go install reports module version", "dev", buildInfo("v0.3.1"), "v0.3.1"},
		{"go install of pseudo-version", "dev", buildInfo("v0.0.0-20251012093000-abcdef123456"), "v0.0.0-20251012093000-abcdef123456"},
		{"local checkout build", "dev", buildInfo("(devel)"), "dev"},
		{"empty module version", "dev", buildInfo(""), "dev"},
		{"no build info", "dev", nil, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveVersion(tt.ldflags, tt.info); got != tt.want {
				t.Errorf("resolveVersion(%q) = %q, want %q", tt.ldflags, got, tt.want)
			}
		})
	}
}

// TestCurrentVersion_NeverEmpty verifies --version always prints something.
func TestCurrentVersion_NeverEmpty(t *testing.T) {
	if currentVersion() == "" {
		t.Error("version should never be empty")
	}
}
