package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors, chosen for the detected terminal background.
var (
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorError     lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorSurface   lipgloss.Color
	ColorHighlight lipgloss.Color
)

// initializeColors sets up adaptive colors based on terminal background
func initializeColors() {
	if style := os.Getenv("GLAMOUR_STYLE"); style == "light" {
		setLightThemeColors()
		return
	} else if style == "dark" {
		setDarkThemeColors()
		return
	}

	if lipgloss.HasDarkBackground() {
		setDarkThemeColors()
	} else {
		setLightThemeColors()
	}
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")
	ColorAccent = lipgloss.Color("214")
	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")
	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorBorder = lipgloss.Color("238")
	ColorSurface = lipgloss.Color("236")
	ColorHighlight = lipgloss.Color("58")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")
	ColorAccent = lipgloss.Color("130")
	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")
	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorBorder = lipgloss.Color("248")
	ColorSurface = lipgloss.Color("254")
	ColorHighlight = lipgloss.Color("229")
}

// Styles shared by the viewer. Built after initializeColors runs.
var (
	statusBarStyle lipgloss.Style
	titleStyle     lipgloss.Style
	progressStyle  lipgloss.Style
	overlayStyle   lipgloss.Style
	diagStyle      lipgloss.Style
	modalStyle     lipgloss.Style
	statusMsgStyle lipgloss.Style
)

func initializeStyles() {
	statusBarStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorText).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	progressStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	overlayStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)

	diagStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)

	modalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(1, 2)

	statusMsgStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
}
