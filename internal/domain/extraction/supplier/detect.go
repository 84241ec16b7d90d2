package supplier

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

// anchorPhrases are supplier-identifying literals scanned for during
// detection. Detection is advisory: the caller-supplied key always routes,
// the detector only suggests or confirms one.
var anchorPhrases = map[invoice.SupplierKey][]string{
	invoice.Supplier1: {"tech solutions", "123 tech street", "invoice no"},
	invoice.Supplier2: {"global imports inc", "456 global avenue", "gst id"},
	invoice.Supplier3: {"nexgen enterprises", "789 nexgen road", "invoice number"},
}

// Detector suggests a SupplierKey for a text blob by multi-pattern scanning
// over every supplier's anchor phrases. The Aho-Corasick automaton is built
// once and is safe for concurrent use.
type Detector struct {
	matcher  *ahocorasick.Matcher
	patterns []string
	owners   []invoice.SupplierKey

	once sync.Once
}

func NewDetector() *Detector {
	return &Detector{}
}

func (d *Detector) build() {
	for _, key := range invoice.Keys() {
		for _, phrase := range anchorPhrases[key] {
			d.patterns = append(d.patterns, phrase)
			d.owners = append(d.owners, key)
		}
	}
	d.matcher = ahocorasick.NewStringMatcher(d.patterns)
}

// Detect returns the supplier whose anchor phrases hit most often in the
// text. It reports ok=false when nothing matches or two suppliers tie.
func (d *Detector) Detect(text string) (invoice.SupplierKey, bool) {
	d.once.Do(d.build)

	hits := d.matcher.Match([]byte(strings.ToLower(text)))
	if len(hits) == 0 {
		return "", false
	}

	counts := make(map[invoice.SupplierKey]int)
	for _, idx := range hits {
		counts[d.owners[idx]]++
	}

	var best invoice.SupplierKey
	bestCount, tied := 0, false
	for _, key := range invoice.Keys() {
		switch c := counts[key]; {
		case c > bestCount:
			best, bestCount, tied = key, c, false
		case c == bestCount && c > 0:
			tied = true
		}
	}
	if tied || bestCount == 0 {
		return "", false
	}
	return best, true
}
