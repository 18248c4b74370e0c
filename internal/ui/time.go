package ui

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// ageDateCutoff is how old a time can be before FormatAge shows a date.
const ageDateCutoff = 30 * 24 * time.Hour

// FormatAge describes how long before now then was: "just now", "5m ago",
// "3h ago", "2d ago", or the date once it is older than a month.
// Zero times render as "-".
func FormatAge(then, now time.Time) string {
	if then.IsZero() {
		return "-"
	}
	age := now.Sub(then)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age/time.Minute))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age/time.Hour))
	case age < ageDateCutoff:
		return fmt.Sprintf("%dd ago", int(age/(24*time.Hour)))
	}
	return then.Local().Format("2006-01-02")
}

// FormatTimestamp renders t in local time, or "-" when unset.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

var terminalSize = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}
