package docgrab_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	docgrab "github.com/porticus-lab/go-docgrab"
)

// chromeAvailable reports whether a Chrome/Chromium executable is in PATH.
func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func skipIfNoChrome(t *testing.T) {
	t.Helper()
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
}

func newTestFetcher(t *testing.T, opts ...docgrab.Option) *docgrab.Fetcher {
	t.Helper()
	skipIfNoChrome(t)
	f, err := docgrab.NewFetcher(append(opts, docgrab.WithNoSandbox())...)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

const viewerHTML = `<!DOCTYPE html>
<html>
<head><title>Sample Report - Viewer</title>
<style>
  .page { width: 400px; height: 300px; background: #fff; border: 1px solid #ccc; margin: 8px; }
  .text_layer { padding: 16px; font-family: sans-serif; }
</style></head>
<body>
  <h1 class="document_title">Sample Report</h1>
  <div class="document_content">
    <div class="page"><div class="text_layer">First page text.</div></div>
    <div class="page"><div class="text_layer">Second page text.</div></div>
  </div>
</body>
</html>`

func serveViewer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(viewerHTML))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_ViewerPage(t *testing.T) {
	f := newTestFetcher(t)
	srv := serveViewer(t)
	out := t.TempDir()

	res, err := f.Fetch(context.Background(), srv.URL+"/document/1/sample-report", out)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !res.Succeeded() {
		t.Fatalf("Succeeded() = false, skips: %v", res.Skips)
	}
	if res.SafeTitle != "Sample Report" {
		t.Errorf("SafeTitle = %q, want %q", res.SafeTitle, "Sample Report")
	}

	if len(res.ScreenshotPaths) != 2 {
		t.Errorf("got %d screenshots, want 2 (skips: %v)", len(res.ScreenshotPaths), res.Skips)
	}
	for _, name := range []string{"page_1.png", "page_2.png"} {
		p := filepath.Join(out, "Sample Report", name)
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("%s missing: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(out, "Sample Report.txt"))
	if err != nil {
		t.Fatalf("text file missing: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "First page text.") || !strings.Contains(text, "Second page text.") {
		t.Errorf("extracted text incomplete: %q", text)
	}
}

// Each page element must yield its own pixels: if the capture marker
// ever leaked from one iteration to the next, a later page file would
// repeat an earlier element's image.
func TestFetch_PagesCapturedIndividually(t *testing.T) {
	f := newTestFetcher(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Colors</title>
<style>.page { width: 200px; height: 150px; margin: 4px; }</style></head>
<body>
  <h1 class="document_title">Colors</h1>
  <div class="page" style="background: #ff0000"></div>
  <div class="page" style="background: #00ff00"></div>
  <div class="page" style="background: #0000ff"></div>
</body>
</html>`))
	}))
	t.Cleanup(srv.Close)
	out := t.TempDir()

	res, err := f.Fetch(context.Background(), srv.URL, out)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(res.ScreenshotPaths) != 3 {
		t.Fatalf("got %d screenshots, want 3 (skips: %v)", len(res.ScreenshotPaths), res.Skips)
	}

	images := make(map[int][]byte, 3)
	for i, p := range res.ScreenshotPaths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("reading %s: %v", p, err)
		}
		images[i] = data
	}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if string(images[i]) == string(images[j]) {
				t.Errorf("page_%d.png and page_%d.png are identical; capture did not target distinct elements", i+1, j+1)
			}
		}
	}
}

func TestFetch_PageWithoutViewer(t *testing.T) {
	f := newTestFetcher(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Empty</title></head><body><main></main></body></html>`))
	}))
	t.Cleanup(srv.Close)
	out := t.TempDir()

	res, err := f.Fetch(context.Background(), srv.URL, out)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Succeeded() {
		t.Errorf("Succeeded() = true on a page with no document content")
	}
	if len(res.Skips) != 3 {
		t.Errorf("got %d skips, want all three strategies skipped: %v", len(res.Skips), res.Skips)
	}
}

func TestNewFetcher_CloseIdempotent(t *testing.T) {
	skipIfNoChrome(t)

	f, err := docgrab.NewFetcher(docgrab.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
