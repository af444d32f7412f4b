package printer

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorState manages global color output settings for the printer
type ColorState struct {
	enabled bool
}

var globalColorState = &ColorState{}

// InitColorState initializes color support based on configuration and environment.
// Priority order (highest to lowest):
//  1. Explicit user setting (--color / --no-color)
//  2. NO_COLOR environment variable
//  3. TTY detection (auto-detect terminal)
//  4. Default to disabled (for unknown writers)
func InitColorState(explicitSetting *bool, writer io.Writer) {
	enabled := false
	switch {
	case explicitSetting != nil:
		enabled = *explicitSetting
	case os.Getenv("NO_COLOR") != "":
		enabled = false
	default:
		if f, ok := writer.(*os.File); ok {
			enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	globalColorState.enabled = enabled
	color.NoColor = !enabled
}

// IsColorEnabled returns whether color output is currently enabled.
func IsColorEnabled() bool {
	return globalColorState.enabled
}

func paint(attrs []color.Attribute, s string) string {
	if !globalColorState.enabled {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// ColorLevel colors a log level name by severity.
func ColorLevel(level string) string {
	switch strings.ToUpper(level) {
	case "ERROR", "FATAL", "CRITICAL":
		return paint([]color.Attribute{color.FgRed, color.Bold}, level)
	case "WARN", "WARNING":
		return paint([]color.Attribute{color.FgYellow}, level)
	case "INFO":
		return paint([]color.Attribute{color.FgGreen}, level)
	case "DEBUG", "TRACE":
		return paint([]color.Attribute{color.FgHiBlack}, level)
	}
	return level
}

func ColorTimestamp(ts string) string {
	return paint([]color.Attribute{color.FgHiBlack}, ts)
}

// ColorDatasource colors a datasource id.
func ColorDatasource(id string) string {
	return paint([]color.Attribute{color.FgCyan}, id)
}

var namedColors = map[string]color.Attribute{
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
	"black":   color.FgBlack,
	"dim":     color.FgHiBlack,
	"gray":    color.FgHiBlack,
	"grey":    color.FgHiBlack,
}

// ColorString colors text with a named color. Unknown names leave it as is.
func ColorString(name, text string) string {
	attr, ok := namedColors[strings.ToLower(name)]
	if !ok {
		return text
	}
	return paint([]color.Attribute{attr}, text)
}

func Bold(text string) string {
	return paint([]color.Attribute{color.Bold}, text)
}

// Error writes "Error: <err>" in red.
func Error(w io.Writer, err error) {
	_, _ = io.WriteString(w, paint([]color.Attribute{color.FgRed}, "Error: "+err.Error())+"\n")
}
