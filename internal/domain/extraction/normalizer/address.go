package normalizer

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

// stateZipRe splits the third address segment, e.g. "Karnataka - 560001".
var stateZipRe = regexp.MustCompile(`(\w+)\s*-\s*(\d+)`)

// ParseAddress decomposes a comma-separated address string positionally:
// segment 0 is the street, 1 the city, 3 the country, and segment 2 is
// matched against "<state> - <zipcode>". Missing or malformed segments leave
// the corresponding fields empty; ParseAddress never fails.
func ParseAddress(raw string) invoice.Address {
	var addr invoice.Address
	parts := strings.Split(raw, ",")
	if len(parts) > 0 {
		addr.Street = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		addr.City = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		if m := stateZipRe.FindStringSubmatch(parts[2]); m != nil {
			addr.State = m[1]
			addr.Zipcode = m[2]
		}
	}
	if len(parts) > 3 {
		addr.Country = strings.TrimSpace(parts[3])
	}
	return addr
}
