package normalizer

import (
	"strings"
	"time"
)

// DateLayout is the canonical date form every parsed date is reformatted to.
const DateLayout = "02-01-2006"

// dateLayouts is the ordered list of accepted input formats. Order matters:
// the first layout that parses wins, so DD/MM/YYYY is tried before MM/DD/YYYY.
var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"02-Jan-2006",
	"2006-01-02",
	"02 January 2006",
}

// ParseDate converts a date in any supported format to DD-MM-YYYY. It returns
// the empty string when no format matches: a single unreadable date never
// fails a whole record.
func ParseDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return ""
}
