package docgrab

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDocumentID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/document/12345/annual-report", "12345"},
		{"https://www.example.com/document/7/x", "7"},
		{"https://www.example.com/presentation/12345/slides", ""},
		{"https://www.example.com/document/abc/report", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := documentID(tc.url); got != tc.want {
			t.Errorf("documentID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestWriteMetadata(t *testing.T) {
	dir := t.TempDir()
	res := &Result{Title: "Annual Report", SafeTitle: "Annual Report"}
	url := "https://www.example.com/document/555/annual-report"

	if err := writeMetadata(dir, url, res); err != nil {
		t.Fatalf("writeMetadata: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		t.Fatalf("reading metadata: %v", err)
	}
	var meta fetchMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("parsing metadata: %v", err)
	}
	if meta.Title != "Annual Report" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.DocumentID != "555" {
		t.Errorf("DocumentID = %q, want 555", meta.DocumentID)
	}
	if meta.URL != url {
		t.Errorf("URL = %q", meta.URL)
	}
	if meta.FetchedAt.IsZero() {
		t.Error("FetchedAt is zero")
	}
}
