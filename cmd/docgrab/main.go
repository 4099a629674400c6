// docgrab saves a document page to local files: a native download when
// the page offers one, per-page screenshots, and extracted text.
//
// Usage:
//
//	docgrab [options] <document-url>
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"

	docgrab "github.com/porticus-lab/go-docgrab"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`docgrab - save a document page as files

Usage:
  docgrab [options] <document-url>

Options:
  -o, --output <dir>    Output directory (default: downloads)
  --no-headless         Run with a visible browser window
  --chrome <path>       Path to the Chrome/Chromium executable
  --auto-download       Download a Chromium build if none is installed
  --no-sandbox          Disable the Chrome sandbox (needed as root)
  --timeout <seconds>   Overall run budget (default: 120)
  --max-pages <n>       Cap the number of pages screenshotted
  --metadata            Also write a metadata.json sidecar
  -v, --verbose         Log each acquisition step

Examples:
  docgrab https://www.example.com/document/12345/annual-report
  docgrab -o ~/docs --no-headless https://www.example.com/document/12345/annual-report
`)
}

func run(args []string) error {
	var (
		rawURL    string
		outputDir string
		opts      []docgrab.Option
		verbose   bool
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires an argument", args[i-1])
			}
			outputDir = args[i]
		case "--no-headless":
			opts = append(opts, docgrab.WithVisible())
		case "--chrome":
			i++
			if i >= len(args) {
				return fmt.Errorf("--chrome requires an argument")
			}
			opts = append(opts, docgrab.WithChromePath(args[i]))
		case "--auto-download":
			opts = append(opts, docgrab.WithAutoDownload())
		case "--no-sandbox":
			opts = append(opts, docgrab.WithNoSandbox())
		case "--timeout":
			i++
			if i >= len(args) {
				return fmt.Errorf("--timeout requires an argument")
			}
			secs, err := strconv.Atoi(args[i])
			if err != nil || secs < 0 {
				return fmt.Errorf("invalid timeout: %s", args[i])
			}
			opts = append(opts, docgrab.WithTimeout(time.Duration(secs)*time.Second))
		case "--max-pages":
			i++
			if i >= len(args) {
				return fmt.Errorf("--max-pages requires an argument")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid page count: %s", args[i])
			}
			opts = append(opts, docgrab.WithMaxPages(n))
		case "--metadata":
			opts = append(opts, docgrab.WithMetadata())
		case "-v", "--verbose":
			verbose = true
		case "help", "-h", "--help":
			printUsage()
			return nil
		default:
			if strings.HasPrefix(args[i], "-") {
				return fmt.Errorf("unknown option: %s", args[i])
			}
			if rawURL != "" {
				return fmt.Errorf("only one document URL may be given")
			}
			rawURL = args[i]
		}
	}

	if rawURL == "" {
		printUsage()
		return fmt.Errorf("no document URL specified")
	}
	if outputDir == "" {
		outputDir = docgrab.DefaultOutputDir
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
		opts = append(opts, docgrab.WithLogf(func(format string, args ...any) {
			log.Debugf(format, args...)
		}))
	}

	log.Info("starting fetch", "url", rawURL, "output", outputDir)

	f, err := docgrab.NewFetcher(opts...)
	if err != nil {
		return fmt.Errorf("browser setup failed (is Chrome or Chromium installed?): %w", err)
	}
	defer f.Close()

	spin := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	spin.Suffix = " fetching document..."
	if !verbose {
		spin.Start()
	}
	res, err := f.Fetch(context.Background(), rawURL, outputDir)
	spin.Stop()
	if err != nil {
		return err
	}

	for _, sk := range res.Skips {
		log.Warn("strategy skipped", "strategy", sk.Strategy.String(), "reason", sk.Reason)
	}
	if res.DownloadPath != "" {
		log.Info("download saved", "path", res.DownloadPath)
	}
	if len(res.ScreenshotPaths) > 0 {
		log.Info("page screenshots saved", "pages", len(res.ScreenshotPaths), "dir", res.SafeTitle)
	}
	if res.TextPath != "" {
		log.Info("text saved", "path", res.TextPath)
	}

	if !res.Succeeded() {
		return fmt.Errorf("no content could be saved from %s (the document may require a subscription)", rawURL)
	}
	log.Info("done", "title", res.Title)
	return nil
}
