package extract

import (
	"strconv"
	"strings"
	"time"
)

// displayDateLayout is the fixed rendition used in the PDF header.
const displayDateLayout = "02.01.2006"

// epoch values above this are milliseconds, below are seconds.
const millisThreshold = int64(1e12)

// dateLayouts are the plain-string formats tried after epoch and ISO-8601.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
}

// NormalizeDate turns a raw scraped date value into the display format.
// It tries, in order: Unix epoch (seconds or milliseconds), ISO-8601, then
// the common layout list. Unparseable values are discarded rather than
// passed through as garbage.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if isDigits(raw) && len(raw) >= 10 {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return "", false
		}
		if n > millisThreshold {
			n /= 1000
		}
		return time.Unix(n, 0).UTC().Format(displayDateLayout), true
	}

	if strings.Contains(raw, "T") {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC().Format(displayDateLayout), true
		}
		// Zone-less ISO timestamps appear in some meta tags.
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return t.Format(displayDateLayout), true
		}
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayDateLayout), true
		}
	}

	return "", false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
