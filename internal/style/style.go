// Package style holds the color palette shared by the diff viewer's
// ColorPair registration. The renderer composites everything through
// Renderer.InitColorPair rather than lipgloss styles directly, so this
// package's job is reduced to naming colors and converting them to raw RGB.
package style

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorIdentical = lipgloss.Color("#6B7280")
	ColorOnlyLeft  = lipgloss.Color("#F59E0B")
	ColorOnlyRight = lipgloss.Color("#06B6D4")
	ColorDiffer    = lipgloss.Color("#EF4444")
	ColorPending   = lipgloss.Color("#7C3AED")
	ColorBorder    = lipgloss.Color("#374151")
	ColorSelected  = lipgloss.Color("#1F2937")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorTitle     = lipgloss.Color("#7C3AED")
)

// ParseHexColor converts a "#RRGGBB" lipgloss color into a packed 0xRRGGBB
// value, for renderer backends that want raw RGB rather than a lipgloss
// style (e.g. InitColorPair on a cell-grid Renderer).
func ParseHexColor(c lipgloss.Color) (uint32, bool) {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return 0, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
