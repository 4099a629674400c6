package docgrab

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

// session is the browser capability surface one fetch run drives. It is
// an interface so the strategy sequence can be exercised against a fake
// without a real browser.
type session interface {
	navigate(ctx context.Context, url string) error
	title(ctx context.Context) (string, error)
	// triggerDownload clicks the first visible download control and waits
	// for a file to land. clicked is false when no control was found;
	// path is empty when the click produced no observable download.
	triggerDownload(ctx context.Context) (path string, clicked bool, err error)
	pageCount(ctx context.Context) (int, error)
	capturePage(ctx context.Context, index int) ([]byte, error)
	extractText(ctx context.Context) (string, error)
	close()
}

// chromeSession drives a single browser tab over the DevTools protocol.
type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
	stop   func() bool // detaches the run-context watcher

	cfg         fetcherConfig
	downloadDir string

	// downloadDone receives the final path of each completed download.
	downloadDone chan string

	mu           sync.Mutex
	names        map[string]string // download GUID -> suggested filename
	pageSelector string            // winning selector from pageCount
}

// newChromeSession opens a tab scoped to one run. runCtx cancellation
// (caller cancel or the overall run timeout) tears the tab down.
func newChromeSession(runCtx context.Context, browserCtx context.Context, cfg fetcherConfig, downloadDir string) (*chromeSession, error) {
	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	s := &chromeSession{
		ctx:          tabCtx,
		cancel:       tabCancel,
		stop:         context.AfterFunc(runCtx, tabCancel),
		cfg:          cfg,
		downloadDir:  downloadDir,
		downloadDone: make(chan string, 1),
		names:        make(map[string]string),
	}

	// Route downloads into the output directory and watch for completion
	// at the browser level, so downloads opened in a new tab still count.
	if err := chromedp.Run(tabCtx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(downloadDir).
			WithEventsEnabled(true),
	); err != nil {
		s.close()
		return nil, fmt.Errorf("setting download behavior: %w", err)
	}

	chromedp.ListenBrowser(tabCtx, func(ev any) {
		switch e := ev.(type) {
		case *browser.EventDownloadWillBegin:
			s.mu.Lock()
			s.names[e.GUID] = e.SuggestedFilename
			s.mu.Unlock()
		case *browser.EventDownloadProgress:
			if e.State != browser.DownloadProgressStateCompleted {
				return
			}
			s.mu.Lock()
			name := s.names[e.GUID]
			s.mu.Unlock()

			// Chrome saves under the GUID; restore the page's name.
			path := filepath.Join(s.downloadDir, e.GUID)
			if name != "" {
				named := filepath.Join(s.downloadDir, name)
				if os.Rename(path, named) == nil {
					path = named
				}
			}
			select {
			case s.downloadDone <- path:
			default:
			}
		}
	})

	return s, nil
}

func (s *chromeSession) navigate(ctx context.Context, url string) error {
	nav, cancel := context.WithTimeout(s.ctx, s.cfg.navTimeout)
	defer cancel()

	return chromedp.Run(nav,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
}

func (s *chromeSession) title(ctx context.Context) (string, error) {
	js := fmt.Sprintf(`
	(() => {
		const sels = %s;
		for (const sel of sels) {
			let el;
			try { el = document.querySelector(sel); } catch (e) { continue; }
			if (el && el.textContent && el.textContent.trim()) {
				return el.textContent.trim();
			}
		}
		return document.title || '';
	})()
	`, mustJSON(titleSelectors))

	var title string
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &title)); err != nil {
		return "", err
	}
	return title, nil
}

func (s *chromeSession) triggerDownload(ctx context.Context) (string, bool, error) {
	js := fmt.Sprintf(`
	(() => {
		const sels = %s;
		for (const sel of sels) {
			let el;
			try { el = document.querySelector(sel); } catch (e) { continue; }
			if (el && el.offsetParent !== null) {
				el.click();
				return true;
			}
		}
		for (const el of document.querySelectorAll('button, a')) {
			const t = (el.textContent || '').toLowerCase();
			if (t.includes('download') && el.offsetParent !== null) {
				el.click();
				return true;
			}
		}
		return false;
	})()
	`, mustJSON(downloadSelectors))

	var clicked bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &clicked)); err != nil {
		return "", false, err
	}
	if !clicked {
		return "", false, nil
	}

	select {
	case path := <-s.downloadDone:
		return path, true, nil
	case <-time.After(s.cfg.downloadWait):
		return "", true, nil
	case <-ctx.Done():
		return "", true, ctx.Err()
	case <-s.ctx.Done():
		return "", true, s.ctx.Err()
	}
}

func (s *chromeSession) pageCount(ctx context.Context) (int, error) {
	js := fmt.Sprintf(`
	(() => {
		const sels = %s;
		for (const sel of sels) {
			let n;
			try { n = document.querySelectorAll(sel).length; } catch (e) { continue; }
			if (n > 0) {
				return JSON.stringify({selector: sel, count: n});
			}
		}
		return JSON.stringify({selector: '', count: 0});
	})()
	`, mustJSON(pageSelectors))

	var raw string
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &raw)); err != nil {
		return 0, err
	}
	var hit struct {
		Selector string `json:"selector"`
		Count    int    `json:"count"`
	}
	if err := json.Unmarshal([]byte(raw), &hit); err != nil {
		return 0, fmt.Errorf("parsing page lookup result: %w", err)
	}

	s.mu.Lock()
	s.pageSelector = hit.Selector
	s.mu.Unlock()
	return hit.Count, nil
}

func (s *chromeSession) capturePage(ctx context.Context, index int) ([]byte, error) {
	s.mu.Lock()
	sel := s.pageSelector
	s.mu.Unlock()
	if sel == "" {
		return nil, fmt.Errorf("no page selector resolved")
	}

	// Tag the nth element so an element screenshot can address it, then
	// scroll it into view and let lazy content settle. Any marker left
	// behind by an aborted capture is cleared first, and the marker
	// value carries the index, so a stale tag can never satisfy a later
	// iteration's selector.
	mark := fmt.Sprintf(`
	(() => {
		document.querySelectorAll('[data-docgrab-target]').forEach(el => el.removeAttribute('data-docgrab-target'));
		const nodes = document.querySelectorAll(%q);
		if (%d >= nodes.length) return false;
		const el = nodes[%d];
		el.scrollIntoView({block: 'center'});
		el.setAttribute('data-docgrab-target', '%d');
		return true;
	})()
	`, sel, index, index, index)

	var found bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(mark, &found)); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("page element %d no longer present", index+1)
	}

	target := fmt.Sprintf(`[data-docgrab-target="%d"]`, index)
	var buf []byte
	err := chromedp.Run(s.ctx,
		chromedp.Sleep(s.cfg.pageDelay),
		chromedp.Screenshot(target, &buf, chromedp.NodeVisible),
		chromedp.Evaluate(`document.querySelector('[data-docgrab-target]')?.removeAttribute('data-docgrab-target')`, nil),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *chromeSession) extractText(ctx context.Context) (string, error) {
	js := fmt.Sprintf(`
	(() => {
		const sels = %s;
		for (const sel of sels) {
			let nodes;
			try { nodes = document.querySelectorAll(sel); } catch (e) { continue; }
			const parts = [];
			for (const el of nodes) {
				const t = (el.innerText || el.textContent || '').trim();
				if (t) parts.push(t);
			}
			if (parts.length) return parts.join('\n');
		}
		return '';
	})()
	`, mustJSON(textSelectors))

	var text string
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &text)); err != nil {
		return "", err
	}
	return text, nil
}

func (s *chromeSession) close() {
	if s.stop != nil {
		s.stop()
	}
	s.cancel()
}

// mustJSON embeds a selector list into generated JavaScript.
func mustJSON(v []string) string {
	b, _ := json.Marshal(v)
	return string(b)
}
