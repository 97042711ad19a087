// Package source loads metric datasets from a JSON file or from the
// analytics API.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
)

// ErrNoSource is returned when neither a dataset file nor an API URL is
// configured.
var ErrNoSource = errors.New("no metrics source configured: set source.file or source.api_url")

// Provider yields the current dataset.
type Provider interface {
	Dataset(ctx context.Context) (*analyzer.Dataset, error)
}

// Refresher is implemented by providers that cache and can be told to drop
// their cached data before the next read.
type Refresher interface {
	Refresh() int
}

// Decode reads one dataset document from r.
func Decode(r io.Reader) (*analyzer.Dataset, error) {
	var ds analyzer.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	return &ds, nil
}

// LoadFile reads a dataset document from path.
func LoadFile(path string) (*analyzer.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// FileProvider serves the dataset stored at Path, re-reading it on every
// call so edits are picked up.
type FileProvider struct {
	Path string

	// Days is used as the timeframe when the file does not carry one.
	Days int
}

// Dataset implements Provider.
func (p FileProvider) Dataset(_ context.Context) (*analyzer.Dataset, error) {
	ds, err := LoadFile(p.Path)
	if err != nil {
		return nil, err
	}
	if ds.TimeframeDays.Float() <= 0 && p.Days > 0 {
		ds.TimeframeDays = analyzer.Number(p.Days)
	}
	return ds, nil
}
