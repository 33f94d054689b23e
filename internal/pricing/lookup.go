// Package pricing answers price questions against the service catalog.
package pricing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/anjila-26/spa-concierge/internal/catalog"
)

// FallbackMessage is returned when neither keyword nor token matching finds a
// service. It enumerates every known massage type.
const FallbackMessage = "Sorry, I couldn't find information on that massage type. " +
	"Available types: Swedish, Deep Tissue, Hot Stone, Neck and Shoulder, " +
	"Aromatherapy, Thai, Sports, Prenatal, Reflexology, Full Body Relaxation."

// keywordMappings maps query keywords to canonical service names. Scan order
// matters: the first matching keyword wins, so "neck" outranks the generic
// token scan for queries like "neck massage price".
var keywordMappings = []struct {
	keyword string
	service string
}{
	{"neck", "Neck and Shoulder Massage"},
	{"deep tissue", "Deep Tissue Massage"},
	{"thai", "Thai Massage"},
	{"hot stone", "Hot Stone Massage"},
	{"swedish", "Swedish Massage"},
	{"aromatherapy", "Aromatherapy Massage"},
	{"sports", "Sports Massage"},
	{"prenatal", "Prenatal Massage"},
	{"reflexology", "Reflexology"},
	{"full body", "Full Body Relaxation"},
}

// Lookup resolves a free-text pricing query to a formatted answer sentence.
type Lookup struct {
	entries []catalog.Entry
}

// NewLookup builds a lookup over the full catalog pricing table.
func NewLookup() *Lookup {
	return &Lookup{entries: catalog.Entries()}
}

// Answer returns the price sentence for the best-matching service, or the
// enumerated fallback message when nothing matches. It never returns an empty
// string.
func (l *Lookup) Answer(query string) string {
	queryLower := strings.ToLower(query)

	for _, m := range keywordMappings {
		if strings.Contains(queryLower, m.keyword) {
			if e, ok := catalog.Find(m.service); ok {
				return formatSentence(e)
			}
		}
	}

	tokens := strings.Fields(queryLower)
	type candidate struct {
		entry   catalog.Entry
		matches int
	}
	var candidates []candidate
	for _, e := range l.entries {
		nameLower := strings.ToLower(e.Name)
		matched := false
		distinct := 0
		seen := map[string]struct{}{}
		for _, tok := range tokens {
			if strings.Contains(nameLower, tok) {
				matched = true
				if _, dup := seen[tok]; !dup {
					seen[tok] = struct{}{}
					distinct++
				}
			}
		}
		if matched {
			candidates = append(candidates, candidate{entry: e, matches: distinct})
		}
	}
	if len(candidates) == 0 {
		return FallbackMessage
	}

	// Stable sort keeps catalog order for equal match counts.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].matches > candidates[j].matches
	})
	return formatSentence(candidates[0].entry)
}

func formatSentence(e catalog.Entry) string {
	return fmt.Sprintf("The %s costs $%s and lasts for %d minutes.",
		e.Name, formatPrice(e.Price), e.Duration)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
