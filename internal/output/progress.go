package output

import (
	"fmt"
	"math"
	"strings"
)

// DefaultWidth is the line width used until SetWidth is called.
const DefaultWidth = 80

var lineWidth = DefaultWidth

// SetWidth sets the line width that section rules and charts are sized to.
// Non-positive values restore DefaultWidth.
func SetWidth(w int) {
	if w <= 0 {
		w = DefaultWidth
	}
	lineWidth = w
}

// Width returns the configured line width.
func Width() int {
	return lineWidth
}

// ChartWidth is the bar length used by charts, a quarter of the line width.
func ChartWidth() int {
	return lineWidth / 4
}

// ScoreBar renders a visual progress bar for a 0-100 score. A non-positive
// width uses ChartWidth.
// Example: "████████░░ 80/100"
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = ChartWidth()
	}
	bar := fill(score/100, width)

	var style func(string) string
	switch {
	case score >= 70:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case score >= 40:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleError.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%.0f/100", score)))
}

// Bar renders value relative to max as a bar of the given width. It is used
// for the hourly and weekday charts, where there is no fixed scale. A
// non-positive width uses ChartWidth.
func Bar(value, max float64, width int) string {
	if width <= 0 {
		width = ChartWidth()
	}
	ratio := 0.0
	if max > 0 {
		ratio = value / max
	}
	return StyleSuccess.Render(fill(ratio, width))
}

func fill(ratio float64, width int) string {
	if math.IsNaN(ratio) {
		ratio = 0
	}
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// TrendArrowPercent returns a styled trend indicator for a percentage delta.
// Positive delta shows an up arrow, negative shows down, zero shows a dash.
func TrendArrowPercent(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	isPositive := delta > 0
	isImproved := isPositive == higherIsBetter

	var arrow string
	if isPositive {
		arrow = fmt.Sprintf("▲ +%.1f%%", delta)
	} else {
		arrow = fmt.Sprintf("▼ %.1f%%", delta)
	}

	if isImproved {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}

// TrendArrow returns a styled trend indicator for an absolute delta.
func TrendArrow(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	isPositive := delta > 0
	isImproved := isPositive == higherIsBetter

	var arrow string
	if isPositive {
		arrow = fmt.Sprintf("▲ +%.2f", delta)
	} else {
		arrow = fmt.Sprintf("▼ %.2f", delta)
	}

	if isImproved {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}

// Priority styles a recommendation priority label.
func Priority(p string) string {
	label := strings.ToUpper(p)
	switch p {
	case "high":
		return StyleError.Render(label)
	case "medium":
		return StyleWarning.Render(label)
	default:
		return StyleMuted.Render(label)
	}
}

// InsightMarker returns the glyph shown before an insight of the given type.
func InsightMarker(kind string) string {
	switch kind {
	case "success":
		return StyleSuccess.Render("✓")
	case "warning":
		return StyleWarning.Render("!")
	default:
		return StyleHeader.Render("•")
	}
}

// KeyValue renders an aligned label/value line.
func KeyValue(label, value string) string {
	return fmt.Sprintf(" %s %s", StyleLabel.Render(label), StyleBold.Render(value))
}

// Section returns a styled section header over a rule spanning the line
// width, less the leading indent.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", lineWidth-1))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
