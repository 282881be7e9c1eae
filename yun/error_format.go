package yun

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FormatCodeFrame renders the source line at pos with a caret under the
// column. It returns "" when pos is outside source.
func FormatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := strings.TrimRight(lines[pos.Line-1], "\r")
	lineRunes := []rune(lineText)

	column := pos.Column
	if column <= 0 {
		column = 1
	}
	if column > len(lineRunes)+1 {
		column = len(lineRunes) + 1
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))
	caretPad := strings.Repeat(" ", column-1)

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		gutterPad,
		caretPad,
	)
}

// FormatError renders err for a terminal: each diagnostic or runtime
// error on its own line followed by a code frame from source, and the
// backtrace of runtime errors. Other errors render as err.Error().
func FormatError(err error, source string) string {
	var b strings.Builder
	writeWithFrame := func(line string, pos Position) {
		b.WriteString(line)
		if frame := FormatCodeFrame(source, pos); frame != "" {
			b.WriteString("\n")
			b.WriteString(frame)
		}
	}

	var diags DiagnosticList
	var runtimeErr *RuntimeError
	switch {
	case errors.As(err, &diags):
		for i, d := range diags {
			if i > 0 {
				b.WriteString("\n")
			}
			writeWithFrame(d.Error(), d.Pos)
		}
	case errors.As(err, &runtimeErr):
		writeWithFrame(runtimeErr.Error(), runtimeErr.Token.Pos)
		if trace := runtimeErr.Backtrace(); trace != "" {
			b.WriteString("\n")
			b.WriteString(strings.TrimRight(trace, "\n"))
		}
	default:
		b.WriteString(err.Error())
	}
	return b.String()
}
