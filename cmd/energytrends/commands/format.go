package commands

import (
	"fmt"
	"io"
	"strings"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	doubleLine = "═══════════════════════════════════════════════════════════"
	singleLine = "───────────────────────────────────────────────────────────"
)

// PrintHeader prints a formatted command header
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleLine)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, singleLine)
}

// PrintField prints an aligned "label : value" line
func PrintField(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "  %-12s: %v\n", label, value)
}

// PrintList prints a labelled list, one item per line
func PrintList(w io.Writer, label string, items []string) {
	fmt.Fprintf(w, "  %s (%d)\n", label, len(items))
	if len(items) == 0 {
		fmt.Fprintln(w, "    (none)")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "    - %s\n", item)
	}
}

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, singleLine)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "⚠️  %s\n", message)
	fmt.Fprintln(w)
}

// PrintFailure prints a failure message
func PrintFailure(w io.Writer, message string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "❌ %s\n", strings.TrimSpace(message))
}
