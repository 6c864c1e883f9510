// Package browser provides cross-platform browser opening functionality.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"slices"
	"strings"
)

// Starter launches a command without waiting for it.
type Starter func(name string, args ...string) error

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start() // #nosec G204 -- URL validated by Opener.Open
}

// Option configures the Opener.
type Option func(*Opener)

// WithStarter replaces the process launcher (useful for testing).
func WithStarter(start Starter) Option {
	return func(o *Opener) {
		o.start = start
	}
}

// WithAllowedHosts restricts Open to the given hosts.
func WithAllowedHosts(hosts ...string) Option {
	return func(o *Opener) {
		o.allowedHosts = hosts
	}
}

// Opener opens validated URLs in the system browser.
type Opener struct {
	goos         string
	start        Starter
	allowedHosts []string
}

// NewOpener creates an Opener for the running platform.
func NewOpener(opts ...Option) *Opener {
	o := &Opener{
		goos:  runtime.GOOS,
		start: startCommand,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open opens the specified URL in the default browser.
// It validates the URL before passing it to the system browser to prevent command injection.
func (o *Opener) Open(urlString string) error {
	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	// Whitelist allowed schemes to prevent malicious URLs
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https allowed)", parsedURL.Scheme)
	}

	if len(o.allowedHosts) > 0 && !slices.Contains(o.allowedHosts, strings.ToLower(parsedURL.Hostname())) {
		return fmt.Errorf("refusing to open %s: host not allowed", parsedURL.Hostname())
	}

	switch o.goos {
	case "linux":
		return o.start("xdg-open", urlString)
	case "darwin":
		return o.start("open", urlString)
	case "windows":
		return o.start("rundll32", "url.dll,FileProtocolHandler", urlString)
	default:
		return fmt.Errorf("unsupported platform: %s", o.goos)
	}
}

// Open opens urlString with a default Opener.
func Open(urlString string) error {
	return NewOpener().Open(urlString)
}
