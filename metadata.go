package docgrab

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

const toolVersion = "1.0.0"

var docIDPattern = regexp.MustCompile(`/document/(\d+)/`)

// documentID extracts the numeric document id from a viewer URL, or
// returns an empty string when the URL does not carry one.
func documentID(rawURL string) string {
	m := docIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// fetchMetadata is the sidecar record written next to the artifacts of a
// successful run when [WithMetadata] is set.
type fetchMetadata struct {
	Title      string    `json:"title"`
	DocumentID string    `json:"doc_id,omitempty"`
	URL        string    `json:"url"`
	FetchedAt  time.Time `json:"fetched_at"`
	Version    string    `json:"version"`
}

func writeMetadata(outDir, rawURL string, res *Result) error {
	meta := fetchMetadata{
		Title:      res.Title,
		DocumentID: documentID(rawURL),
		URL:        rawURL,
		FetchedAt:  time.Now().UTC(),
		Version:    toolVersion,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "metadata.json"), append(data, '\n'), 0o644)
}
