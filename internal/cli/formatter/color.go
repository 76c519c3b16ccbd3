package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mduarte/ata/internal/domain"
)

// Palette, gruvbox-flavored.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Shared styles built on the palette.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill returns a colored indicator for an item status.
func StatusPill(status domain.ItemStatus) string {
	switch status {
	case domain.StatusPending:
		return StyleYellow.Render("○ Pending")
	case domain.StatusInProgress:
		return StyleBlue.Render("● In Progress")
	case domain.StatusDone:
		return StyleGreen.Render("✔ Done")
	case domain.StatusCancelled:
		return StyleDim.Render("⊘ Cancelled")
	case domain.StatusInfo:
		return StylePurple.Render("ℹ Info")
	default:
		return StyleDim.Render(string(status))
	}
}

// AttendancePill returns a colored presence indicator.
func AttendancePill(flag domain.AttendanceFlag) string {
	switch flag {
	case domain.AttendancePresent:
		return StyleGreen.Render("● P")
	case domain.AttendanceAbsent:
		return StyleRed.Render("● A")
	default:
		return StyleDim.Render("—")
	}
}

// Header uppercases a section title and underlines it.
func Header(text string) string {
	upper := strings.ToUpper(text)
	rule := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(rule))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text with the bold foreground style.
func Bold(text string) string {
	return StyleBold.Render(text)
}
