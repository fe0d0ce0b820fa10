package logger

import (
	"log/slog"
	"strconv"
)

// MaxValueLen is the longest stored value logged verbatim.
const MaxValueLen = 64

// valueKeys are attribute keys that may carry client data.
var valueKeys = map[string]bool{
	"value": true,
	"line":  true,
	"key":   true,
}

// shortenValues truncates client data attributes to MaxValueLen bytes.
// Groups are processed recursively.
func shortenValues(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if valueKeys[a.Key] {
			return slog.String(a.Key, Shorten(a.Value.String()))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = shortenValues(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// Shorten returns s cut to MaxValueLen bytes with a note of the full length.
func Shorten(s string) string {
	if len(s) <= MaxValueLen {
		return s
	}
	return s[:MaxValueLen] + "...(" + strconv.Itoa(len(s)) + " bytes)"
}
