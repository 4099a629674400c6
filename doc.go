// Package docgrab fetches a single document page through a headless browser
// and saves whatever it can get out of it to a local folder.
//
// A run tries three strategies in order, each best-effort:
//
//   - click a native download control and wait for the file to land
//   - screenshot every rendered document page to page_<n>.png
//   - extract the visible viewer text to <title>.txt
//
// Create a [Fetcher], which starts the browser once and can be reused:
//
//	f, err := docgrab.NewFetcher()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	res, err := f.Fetch(ctx, "https://example.com/document/123/report", "downloads")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res.Succeeded() {
//	    fmt.Println(res.TextPath, res.ScreenshotPaths)
//	}
//
// Use options to control the browser and the per-run timeouts:
//
//	f, err := docgrab.NewFetcher(
//	    docgrab.WithVisible(),
//	    docgrab.WithTimeout(2*time.Minute),
//	    docgrab.WithMaxPages(50),
//	)
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload]
// to fetch a compatible Chromium build automatically.
//
// A [Result] reports which strategies produced artifacts and which were
// skipped; [Result.Succeeded] is true when at least one file was written.
// Only browser startup and navigation failures abort a run — everything
// past the initial page load is absorbed into the strategy sequence and
// reflected in the Result.
package docgrab
