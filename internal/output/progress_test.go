package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBar_Plain(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	assert.Equal(t, "████████░░ 80/100", ScoreBar(80, 10))
	assert.Equal(t, "░░░░░░░░░░ 0/100", ScoreBar(0, 10))
	assert.Equal(t, "██████████ 150/100", ScoreBar(150, 10))
}

func TestBar(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	assert.Equal(t, "█████░░░░░", Bar(50, 100, 10))
	assert.Equal(t, "░░░░░░░░░░", Bar(5, 0, 10), "zero max renders empty")
	assert.Equal(t, 20, visualLen(Bar(1, 2, 0)), "default width")
}

func TestTrendArrowPercent(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	assert.Equal(t, "▲ +12.5%", TrendArrowPercent(12.5, true))
	assert.Equal(t, "▼ -3.0%", TrendArrowPercent(-3, false))
	assert.Equal(t, "─", TrendArrowPercent(0, true))
}

func TestPriorityAndMarker(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	assert.Equal(t, "HIGH", Priority("high"))
	assert.Equal(t, "LOW", Priority("low"))
	assert.Equal(t, "✓", InsightMarker("success"))
	assert.Equal(t, "!", InsightMarker("warning"))
	assert.Equal(t, "•", InsightMarker("info"))
}

func TestKeyValue(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	line := KeyValue("Engagement rate", "2.60%")
	assert.True(t, strings.HasPrefix(line, " Engagement rate"))
	assert.True(t, strings.HasSuffix(line, "2.60%"))
}

func TestSetNoColor_Restores(t *testing.T) {
	SetNoColor(true)
	assert.True(t, IsNoColor())
	SetNoColor(false)
	assert.False(t, IsNoColor())
	assert.True(t, StyleHeader.GetBold())
}

func TestColorEnabled(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(nil))
	assert.False(t, IsTerminal(f))
	assert.False(t, ColorEnabled(f, true), "regular files are not terminals")
	assert.False(t, ColorEnabled(os.Stdout, false))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(os.Stdout, true))
}

func TestSetWidthSizesRulesAndCharts(t *testing.T) {
	SetNoColor(true)
	SetWidth(40)
	t.Cleanup(func() {
		SetNoColor(false)
		SetWidth(DefaultWidth)
	})

	assert.Equal(t, 40, Width())
	assert.Equal(t, 10, ChartWidth())
	assert.Equal(t, "\n Audience\n "+strings.Repeat("─", 39), Section("Audience"))
	assert.Equal(t, "█████░░░░░", Bar(1, 2, 0))
	assert.Equal(t, "█████░░░░░ 50/100", ScoreBar(50, 0))

	SetWidth(0)
	assert.Equal(t, DefaultWidth, Width())
	assert.Equal(t, 20, ChartWidth())
}
