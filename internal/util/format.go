package util //nolint:revive // package name util hosts shared formatting helpers used by templates, tables and the CLI

import (
	"strconv"
	"strings"
	"time"
)

// FriendlyDateTimeLayout is the timestamp layout shown in tables and detail pages.
const FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"

const (
	// batteryExternal and batteryUnknown are the LoRaWAN DevStatusAns sentinels.
	batteryExternal = 0
	batteryUnknown  = 255
	batteryFull     = 254
)

// FormatFriendlyDateTime returns a consistent local timestamp, or "" for the zero time.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// FormatTimePtr formats an optional upstream timestamp; nil yields fallback.
func FormatTimePtr(t *time.Time, fallback string) string {
	if t == nil || t.IsZero() {
		return fallback
	}
	return FormatFriendlyDateTime(*t)
}

// FriendlyRelativeTime describes how long before now t occurred.
// Times in the future read "just now".
func FriendlyRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day") + " ago"
	default:
		return FormatFriendlyDateTime(t)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

// TruncateWithEllipsis shortens text to limit runes, ending in an ellipsis when cut.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}

// FormatBattery renders a device battery level as reported in DevStatusAns.
func FormatBattery(level int) string {
	switch {
	case level == batteryExternal:
		return "external power"
	case level == batteryUnknown || level < 0 || level > batteryUnknown:
		return "n/a"
	default:
		return strconv.Itoa(level*100/batteryFull) + "%"
	}
}

// FormatMargin renders a device link margin in dB.
func FormatMargin(margin int) string {
	return strconv.Itoa(margin) + " dB"
}

// FormatThousands inserts comma separators into an integer.
func FormatThousands(n int64) string {
	neg := n < 0
	var s string
	if neg {
		s = strconv.FormatUint(uint64(-n), 10)
	} else {
		s = strconv.FormatUint(uint64(n), 10)
	}

	if len(s) > 3 {
		var b strings.Builder
		head := len(s) % 3
		if head == 0 {
			head = 3
		}
		b.WriteString(s[:head])
		for i := head; i < len(s); i += 3 {
			b.WriteByte(',')
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}
