package docgrab

// Strategy identifies one acquisition attempt within a run.
type Strategy int

const (
	// StrategyDownload clicks a native download control.
	StrategyDownload Strategy = iota
	// StrategyScreenshots captures each rendered page as a PNG.
	StrategyScreenshots
	// StrategyText extracts the visible viewer text.
	StrategyText
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyDownload:
		return "download"
	case StrategyScreenshots:
		return "screenshots"
	case StrategyText:
		return "text"
	default:
		return "unknown"
	}
}

// Skip records a strategy that produced no artifact, and why. Skips are
// informational — a run with skips can still succeed through another
// strategy.
type Skip struct {
	Strategy Strategy
	Reason   string
}

// Result describes one fetch run: the document identity and every
// artifact written to disk. Strategies that contributed nothing appear
// in Skips instead.
type Result struct {
	// Title is the document title as rendered by the page.
	Title string

	// SafeTitle is the sanitized form of Title used for file names.
	SafeTitle string

	// DownloadPath is the file saved by the page's own download control,
	// or empty if that strategy was skipped.
	DownloadPath string

	// ScreenshotPaths lists the saved page captures in page order.
	// Numbering follows the DOM index, so a failed capture leaves a gap
	// rather than renumbering later pages.
	ScreenshotPaths []string

	// TextPath is the extracted text file, or empty if no visible text
	// was found.
	TextPath string

	// Skips records the strategies that produced nothing.
	Skips []Skip
}

// Succeeded reports whether the run produced at least one artifact.
func (r *Result) Succeeded() bool {
	return r.DownloadPath != "" || len(r.ScreenshotPaths) > 0 || r.TextPath != ""
}

func (r *Result) skip(s Strategy, reason string) {
	r.Skips = append(r.Skips, Skip{Strategy: s, Reason: reason})
}

// skipped reports whether the given strategy was recorded as skipped.
func (r *Result) skipped(s Strategy) bool {
	for _, sk := range r.Skips {
		if sk.Strategy == s {
			return true
		}
	}
	return false
}
