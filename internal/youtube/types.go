// Package youtube provides the YouTube endpoints the gallery talks to.
//
// This package enables stategallery to:
// - Build thumbnail URLs for each image quality tier
// - Build embed and watch URLs for the player overlay
// - Probe whether a thumbnail image is actually served
package youtube

import "fmt"

// Tier is an image resolution variant offered by the thumbnail host.
type Tier string

const (
	TierMaxRes   Tier = "maxresdefault"
	TierSD       Tier = "sddefault"
	TierHQ       Tier = "hqdefault"
	TierMQ       Tier = "mqdefault"
	TierFallback Tier = "default"
)

// Tiers lists every tier in descending preference order.
var Tiers = []Tier{TierMaxRes, TierSD, TierHQ, TierMQ, TierFallback}

// ProbeError reports a thumbnail request answered with a non-success status.
type ProbeError struct {
	URL        string
	StatusCode int
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("thumbnail %s not available (HTTP %d)", e.URL, e.StatusCode)
}
