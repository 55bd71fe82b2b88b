package report

import "github.com/charmbracelet/lipgloss"

// Theme is the Sky Blue palette shared with the rest of the Octrafic tools
var Theme = struct {
	Primary    lipgloss.Color // Sky Blue 400 #38BDF8
	Success    lipgloss.Color // Emerald 400 #34D399
	Error      lipgloss.Color // Rose 400 #FB7185
	Warning    lipgloss.Color // Amber 400 #FBBF24
	TextMuted  lipgloss.Color // Slate 300 #CBD5E1
	TextSubtle lipgloss.Color // Slate 400 #94A3B8
}{
	Primary:    lipgloss.Color("#38BDF8"),
	Success:    lipgloss.Color("#34D399"),
	Error:      lipgloss.Color("#FB7185"),
	Warning:    lipgloss.Color("#FBBF24"),
	TextMuted:  lipgloss.Color("#CBD5E1"),
	TextSubtle: lipgloss.Color("#94A3B8"),
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(Theme.Primary).Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(Theme.Success).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(Theme.Error).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(Theme.Warning).Bold(true)
	skipStyle   = lipgloss.NewStyle().Foreground(Theme.TextSubtle)
	subtleStyle = lipgloss.NewStyle().Foreground(Theme.TextMuted)
)
