// Package output provides terminal output formatting helpers.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

// Color helpers
var (
	Red    = color.New(color.FgRed, color.Bold)
	Green  = color.New(color.FgGreen, color.Bold)
	Yellow = color.New(color.FgYellow, color.Bold)
	Blue   = color.New(color.FgBlue, color.Bold)
	Cyan   = color.New(color.FgCyan, color.Bold)
	Dim    = color.New(color.Faint)
)

// Lip Gloss styles for result cards
var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2).
			MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Error prints an error message to stderr.
func Error(format string, args ...interface{}) {
	Red.Fprint(os.Stderr, "Error: ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Success prints a success message.
func Success(format string, args ...interface{}) {
	Green.Printf(format+"\n", args...)
}

// Warning prints a warning message.
func Warning(format string, args ...interface{}) {
	Yellow.Print("Warning: ")
	fmt.Printf(format+"\n", args...)
}

// Info prints an info message.
func Info(format string, args ...interface{}) {
	Blue.Print("Info: ")
	fmt.Printf(format+"\n", args...)
}

// JSON prints data as formatted JSON.
func JSON(data interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(data)
}

// Table creates and returns a configured table writer.
func Table(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("  ")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// terminalWidth returns the stdout width, or a sane default when stdout is
// not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		if w > 120 {
			return 120
		}
		return w
	}
	return 80
}

// Markdown renders markdown to the terminal using the given theme
// ("dark" or "light"). Falls back to plain text if rendering fails.
func Markdown(text, theme string) {
	style := glamour.WithStandardStyle("dark")
	if theme == "light" {
		style = glamour.WithStandardStyle("light")
	}
	renderer, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(terminalWidth()),
	)
	if err != nil {
		fmt.Println(text)
		return
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		fmt.Println(text)
		return
	}
	fmt.Print(rendered)
}

// Card prints a bordered card with a title, an optional right-aligned
// annotation and a body. Used for search hits and medicine entries.
func Card(title, annotation, body string) {
	header := titleStyle.Render(title)
	if annotation != "" {
		header += "  " + scoreStyle.Render(annotation)
	}
	content := header
	if body != "" {
		content += "\n" + body
	}
	fmt.Println(cardStyle.Width(terminalWidth() - 4).Render(content))
}

// Subtle renders dimmed supplementary text (timestamps, ids).
func Subtle(text string) string {
	return subtleStyle.Render(text)
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
