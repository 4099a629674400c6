package docgrab

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/chromedp"
)

// DefaultOutputDir is used when Fetch is given an empty output directory.
const DefaultOutputDir = "downloads"

// Fetcher acquires documents from viewer pages.
//
// A Fetcher manages a headless browser instance that is reused across
// runs. Call [Fetcher.Close] when the Fetcher is no longer needed to
// release browser resources.
type Fetcher struct {
	cfg           fetcherConfig
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	// newSession opens the per-run browser tab; tests swap in a fake.
	newSession func(runCtx context.Context, downloadDir string) (session, error)

	mu     sync.Mutex
	closed bool
}

// NewFetcher creates a Fetcher with the given options.
//
// It starts the browser in the background. Failure here means the
// browser or its driver could not be started; there is no fallback.
// The caller must call [Fetcher.Close] when finished.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	chromePath := cfg.chromePath
	if chromePath == "" && cfg.autoDownload {
		p, err := resolveBrowser()
		if err != nil {
			return nil, err
		}
		chromePath = p
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.WindowSize(1920, 1080),
	)
	if cfg.headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}
	if cfg.userAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(cfg.userAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so a missing or incompatible binary
	// surfaces at creation time instead of mid-run.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("docgrab: starting browser: %w", err)
	}

	f := &Fetcher{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}
	f.newSession = func(runCtx context.Context, downloadDir string) (session, error) {
		return newChromeSession(runCtx, f.browserCtx, f.cfg, downloadDir)
	}
	return f, nil
}

// Close releases all resources held by the Fetcher, including the
// browser process. Close is idempotent.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	f.browserCancel()
	f.allocCancel()
	return nil
}

// Fetch runs the acquisition sequence for one document page and writes
// whatever it can get into outputDir (created if needed; defaults to
// [DefaultOutputDir] when empty).
//
// The three strategies — download control, per-page screenshots, text
// extraction — run in order and fail independently; consult
// [Result.Succeeded] and [Result.Skips] for the outcome. An error is
// returned only when the run as a whole could not proceed: the Fetcher
// is closed, the URL is invalid, the tab could not be opened, or the
// viewer never loaded (wrapping [ErrViewerTimeout]).
func (f *Fetcher) Fetch(ctx context.Context, rawURL, outputDir string) (*Result, error) {
	if err := f.checkClosed(); err != nil {
		return nil, err
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("docgrab: invalid URL %q: %w", rawURL, err)
	}

	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	outDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("docgrab: resolving output directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("docgrab: creating output directory: %w", err)
	}

	if f.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.timeout)
		defer cancel()
	}

	sess, err := f.newSession(ctx, outDir)
	if err != nil {
		return nil, fmt.Errorf("docgrab: opening session: %w", err)
	}
	defer sess.close()

	if err := sess.navigate(ctx, rawURL); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("docgrab: loading %s: %w", rawURL, ErrViewerTimeout)
		}
		return nil, fmt.Errorf("docgrab: loading %s: %w", rawURL, err)
	}

	res := &Result{}
	// Title is not critical; fall back to a fixed name.
	title, err := sess.title(ctx)
	if err != nil {
		f.cfg.logf("could not read document title: %v", err)
		title = "Unknown Document"
	} else if title == "" {
		f.cfg.logf("document has no title")
		title = "Unknown Document"
	}
	res.Title = title
	res.SafeTitle = sanitizeTitle(title)
	f.cfg.logf("document: %s", res.Title)

	f.runDownload(ctx, sess, res)
	f.runScreenshots(ctx, sess, res, outDir)
	f.runText(ctx, sess, res, outDir)

	if f.cfg.writeMetadata && res.Succeeded() {
		if err := writeMetadata(outDir, rawURL, res); err != nil {
			f.cfg.logf("writing metadata: %v", err)
		}
	}
	return res, nil
}

// runDownload is the first strategy: find a native download control,
// click it, and wait for a file to land in the output directory.
func (f *Fetcher) runDownload(ctx context.Context, sess session, res *Result) {
	path, clicked, err := sess.triggerDownload(ctx)
	switch {
	case err != nil:
		f.cfg.logf("download attempt failed: %v", err)
		res.skip(StrategyDownload, fmt.Sprintf("attempt failed: %v", err))
	case !clicked:
		res.skip(StrategyDownload, "no download control found")
	case path == "":
		res.skip(StrategyDownload, "click produced no download within the wait window")
	default:
		res.DownloadPath = path
		f.cfg.logf("download saved: %s", path)
	}
}

// runScreenshots is the second strategy: capture each rendered page
// element, in DOM order, to <outDir>/<SafeTitle>/page_<n>.png. Failed
// captures keep their index so surviving pages never renumber.
func (f *Fetcher) runScreenshots(ctx context.Context, sess session, res *Result, outDir string) {
	n, err := sess.pageCount(ctx)
	if err != nil {
		f.cfg.logf("page lookup failed: %v", err)
		res.skip(StrategyScreenshots, fmt.Sprintf("page lookup failed: %v", err))
		return
	}
	if n == 0 {
		res.skip(StrategyScreenshots, "no page elements found")
		return
	}
	if f.cfg.maxPages > 0 && n > f.cfg.maxPages {
		f.cfg.logf("capping capture at %d of %d pages", f.cfg.maxPages, n)
		n = f.cfg.maxPages
	}

	dir := filepath.Join(outDir, res.SafeTitle)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		res.skip(StrategyScreenshots, fmt.Sprintf("creating page directory: %v", err))
		return
	}

	for i := 0; i < n; i++ {
		img, err := sess.capturePage(ctx, i)
		if err != nil {
			f.cfg.logf("capturing page %d: %v", i+1, err)
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("page_%d.png", i+1))
		if err := os.WriteFile(path, img, 0o644); err != nil {
			f.cfg.logf("saving page %d: %v", i+1, err)
			continue
		}
		res.ScreenshotPaths = append(res.ScreenshotPaths, path)
		f.cfg.logf("saved page %d of %d", i+1, n)
	}
	if len(res.ScreenshotPaths) == 0 {
		res.skip(StrategyScreenshots, "every page capture failed")
	}
}

// runText is the third strategy: write the viewer's visible text to
// <outDir>/<SafeTitle>.txt. No text is an acceptable outcome.
func (f *Fetcher) runText(ctx context.Context, sess session, res *Result, outDir string) {
	text, err := sess.extractText(ctx)
	if err != nil {
		f.cfg.logf("text extraction failed: %v", err)
		res.skip(StrategyText, fmt.Sprintf("extraction failed: %v", err))
		return
	}
	text = cleanText(text)
	if text == "" {
		res.skip(StrategyText, "no visible text found")
		return
	}

	path := filepath.Join(outDir, res.SafeTitle+".txt")
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		f.cfg.logf("saving text: %v", err)
		res.skip(StrategyText, fmt.Sprintf("saving text: %v", err))
		return
	}
	res.TextPath = path
	f.cfg.logf("text saved: %s", path)
}

func (f *Fetcher) checkClosed() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	return nil
}

// --- Package-level convenience function ---

// Fetch acquires one document using a temporary [Fetcher]. For repeated
// use, create a [Fetcher] with [NewFetcher] to reuse the browser
// instance.
func Fetch(ctx context.Context, rawURL, outputDir string, opts ...Option) (*Result, error) {
	f, err := NewFetcher(opts...)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Fetch(ctx, rawURL, outputDir)
}
