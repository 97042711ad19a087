package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	ds, err := LoadFile(filepath.Join("testdata", "dataset.json"))
	require.NoError(t, err)

	assert.Equal(t, 30.0, ds.Timeframe())
	assert.Equal(t, 45.0, ds.Overview.TotalTweets.Float())
	assert.Equal(t, 2.6, ds.Overview.EngagementRate.Float(), "numeric strings decode")
	assert.Len(t, ds.Hourly, 2)
	assert.Equal(t, 18, ds.Hourly[1].Hour.Int())
	assert.Len(t, ds.Distribution, 5)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"overview": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding dataset")
}

func TestFileProvider_DefaultsTimeframe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"overview": {"total_tweets": 14}}`), 0o600))

	ds, err := FileProvider{Path: path, Days: 7}.Dataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7.0, ds.Timeframe())

	ds, err = FileProvider{Path: filepath.Join("testdata", "dataset.json"), Days: 7}.Dataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30.0, ds.Timeframe(), "file timeframe wins")
}
