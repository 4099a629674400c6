package docgrab

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
)

// resolveBrowser backs WithAutoDownload: when no Chrome is installed (or
// WithChromePath was not given) it fetches a known-good Chromium build and
// returns the executable path. Downloads are cached per user, so only the
// first run on a machine pays the cost; subsequent calls just resolve the
// cached binary.
func resolveBrowser() (string, error) {
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("docgrab: downloading browser: %w", err)
	}
	return path, nil
}
