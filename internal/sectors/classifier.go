package sectors

import "strings"

// Classify maps a free-text industry label to a taxonomy sector.
//
// The scan is first-match-wins: sectors in declaration order, keywords in
// declared order within a sector, case-insensitive substring containment.
// Empty input or no match returns Other. Pure and total — every input maps
// to exactly one taxonomy member.
func Classify(raw string) Sector {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return Other
	}

	for _, sk := range keywordTable {
		for _, kw := range sk.keywords {
			if strings.Contains(text, kw) {
				return sk.sector
			}
		}
	}

	return Other
}
