package cli

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 2)
)

// stickerColors maps face letters to sticker backgrounds.
var stickerColors = map[byte]lipgloss.Color{
	'U': lipgloss.Color("#FFFFFF"),
	'R': lipgloss.Color("#C41E3A"),
	'F': lipgloss.Color("#009E60"),
	'D': lipgloss.Color("#FFD500"),
	'L': lipgloss.Color("#FF5800"),
	'B': lipgloss.Color("#0051BA"),
}

// colorCell renders a sticker as a colored block, or blank space for 0.
func colorCell(face byte) string {
	c, ok := stickerColors[face]
	if !ok {
		return "  "
	}
	return lipgloss.NewStyle().Background(c).Render("  ")
}

// letterCell renders a sticker as its face letter.
func letterCell(face byte) string {
	if face == 0 {
		return " "
	}
	return string(face)
}
