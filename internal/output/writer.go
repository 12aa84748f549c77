// Package output writes per-run JSON feed files, one per crawl source.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finradar/bankcrawl/internal/domain"
)

// feedTimestampLayout keeps feed filenames sortable and filesystem-safe.
const feedTimestampLayout = "2006-01-02T15-04-05"

// Writer exports accepted articles as JSON feed files.
type Writer struct {
	dir string
}

// NewWriter creates a Writer that places feed files under dir, creating it
// if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Write stores one run's articles for a source as
// <dir>/<sourceID>_articles_<timestamp>.json and returns the file path.
// An empty run still produces a file so absence of articles is observable.
func (w *Writer) Write(sourceID string, runStarted time.Time, articles []domain.Article) (string, error) {
	if articles == nil {
		articles = []domain.Article{}
	}

	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal articles: %w", err)
	}

	name := fmt.Sprintf("%s_articles_%s.json", sourceID, runStarted.Format(feedTimestampLayout))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write feed file: %w", err)
	}
	return path, nil
}
