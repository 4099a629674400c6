package docgrab

import "time"

// fetcherConfig holds internal configuration for a Fetcher.
type fetcherConfig struct {
	chromePath    string
	autoDownload  bool
	headless      bool
	noSandbox     bool
	userAgent     string
	timeout       time.Duration
	navTimeout    time.Duration
	downloadWait  time.Duration
	pageDelay     time.Duration
	maxPages      int
	writeMetadata bool
	logf          func(format string, args ...any)
}

func defaultConfig() fetcherConfig {
	return fetcherConfig{
		headless:     true,
		timeout:      2 * time.Minute,
		navTimeout:   15 * time.Second,
		downloadWait: 5 * time.Second,
		pageDelay:    time.Second,
		logf:         func(string, ...any) {},
	}
}

// Option configures a [Fetcher].
type Option func(*fetcherConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *fetcherConfig) {
		c.chromePath = path
	}
}

// WithAutoDownload downloads a compatible Chromium build if no browser
// executable is found, and uses it. The binary is cached between runs.
func WithAutoDownload() Option {
	return func(c *fetcherConfig) {
		c.autoDownload = true
	}
}

// WithVisible runs the browser with a visible window instead of headless.
func WithVisible() Option {
	return func(c *fetcherConfig) {
		c.headless = false
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *fetcherConfig) {
		c.noSandbox = true
	}
}

// WithUserAgent overrides the browser's User-Agent string.
func WithUserAgent(ua string) Option {
	return func(c *fetcherConfig) {
		c.userAgent = ua
	}
}

// WithTimeout sets the maximum duration for a single fetch, covering all
// three strategies. Defaults to 2 minutes. A zero or negative value
// disables the overall timeout; individual waits stay bounded.
func WithTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithNavigationTimeout bounds the wait for the document viewer to appear
// after navigation. Defaults to 15 seconds. Unlike the overall timeout
// this wait is always bounded: zero or negative values are ignored and
// the default stays in effect.
func WithNavigationTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		if d > 0 {
			c.navTimeout = d
		}
	}
}

// WithDownloadWait sets how long to wait for a download to complete after
// clicking a download control. Defaults to 5 seconds. If nothing lands
// within the window the strategy is skipped. Zero or negative values are
// ignored and the default stays in effect.
func WithDownloadWait(d time.Duration) Option {
	return func(c *fetcherConfig) {
		if d > 0 {
			c.downloadWait = d
		}
	}
}

// WithPageDelay sets the settle time after scrolling a page element into
// view before capturing it. Defaults to 1 second.
func WithPageDelay(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.pageDelay = d
	}
}

// WithMaxPages caps how many page elements are screenshotted per run.
// Zero, the default, means no cap.
func WithMaxPages(n int) Option {
	return func(c *fetcherConfig) {
		c.maxPages = n
	}
}

// WithMetadata writes a metadata.json file (title, document id, source
// URL, fetch time) next to the artifacts of each successful run.
func WithMetadata() Option {
	return func(c *fetcherConfig) {
		c.writeMetadata = true
	}
}

// WithLogf sets a log function for per-step diagnostics, in the same
// shape as chromedp's WithLogf. By default nothing is logged.
func WithLogf(fn func(format string, args ...any)) Option {
	return func(c *fetcherConfig) {
		if fn != nil {
			c.logf = fn
		}
	}
}
