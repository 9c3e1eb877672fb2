package schedule

import (
	"strings"
	"time"
)

// Accepted timestamp layouts, with and without seconds.
var entryTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// parseEntryTime parses a client-supplied timestamp. Strings without a zone
// designator are read as UTC by appending "Z" before parsing.
func parseEntryTime(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if !hasZoneDesignator(s) {
		s += "Z"
	}
	for _, layout := range entryTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseOptionalEntryTime is the nil-tolerant variant used in conflict scans.
func parseOptionalEntryTime(raw *string) (time.Time, bool) {
	if raw == nil {
		return time.Time{}, false
	}
	return parseEntryTime(*raw)
}

// hasZoneDesignator reports whether the time-of-day part carries a zone
// designator ("Z" or a numeric offset). Hyphens in the date part do not
// count.
func hasZoneDesignator(s string) bool {
	sep := strings.IndexAny(s, "Tt ")
	if sep < 0 {
		return false
	}
	rest := s[sep+1:]
	return strings.ContainsAny(rest, "Zz+") || strings.Contains(rest, "-")
}
