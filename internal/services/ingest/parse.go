package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bobmcallan/bdcwatch/internal/models"
)

// Extraction caps. Filings are long; parsing stops once enough rows are in
// hand rather than walking half a megabyte of footnotes.
const (
	maxParsedRows   = 2500
	rowWindowLines  = 10
	maxCompanyChars = 120
)

// Regex patterns for schedule-of-investments parsing — compiled once.
var (
	// A portfolio company line: free text ending in a strong corporate
	// suffix. Weak suffixes (Services, Group, Systems) are deliberately
	// excluded so industry labels never read as companies.
	companyPattern = regexp.MustCompile(`(?i)^(.{2,}?[ ,](inc|corp|corporation|co|company|llc|l\.l\.c|holdings?|ltd|limited|lp|l\.p|plc)\.?,?)$`)

	// A bare numeric cell, optionally dollar-signed or parenthesized.
	numberPattern = regexp.MustCompile(`^\(?\$?\s?([\d,]+(?:\.\d+)?)\)?$`)

	// Lines that are clearly table chrome, not data.
	chromePattern = regexp.MustCompile(`(?i)^(schedule of investments|portfolio company|industry|fair\s*value|amortized cost|principal|total|subtotal|\(unaudited\)|see accompanying|notes to|as of .*)$`)
)

// ParseHoldings extracts schedule-of-investments rows from filing plain
// text. The extraction is heuristic: a company line is recognized by its
// corporate suffix, the nearest following text line is taken as its
// industry, and the last numeric within the row window as its fair value.
// Rows without a usable fair value are dropped.
func ParseHoldings(text string) []models.RawHolding {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	var holdings []models.RawHolding

	for i := 0; i < len(lines) && len(holdings) < maxParsedRows; i++ {
		company := matchCompany(lines[i])
		if company == "" {
			continue
		}

		industry := ""
		fairValue := 0.0
		haveValue := false

		for j := i + 1; j < len(lines) && j <= i+rowWindowLines; j++ {
			line := lines[j]
			if line == "" {
				continue
			}
			// Chrome (Total, section headers) or the next company ends this row.
			if chromePattern.MatchString(line) || matchCompany(line) != "" {
				break
			}
			if v, ok := matchNumber(line); ok {
				fairValue = v
				haveValue = true
				continue
			}
			if industry == "" {
				industry = line
			}
		}

		if !haveValue || fairValue <= 0 {
			continue
		}

		holdings = append(holdings, models.RawHolding{
			Company:     company,
			IndustryRaw: industry,
			FairValue:   fairValue,
		})
	}

	return holdings
}

func matchCompany(line string) string {
	if line == "" || len(line) > maxCompanyChars {
		return ""
	}
	if chromePattern.MatchString(line) {
		return ""
	}
	m := companyPattern.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.TrimRight(strings.TrimSpace(m[1]), ",")
}

// matchNumber parses a numeric table cell. Parenthesized values are
// accounting negatives and report as such.
func matchNumber(line string) (float64, bool) {
	m := numberPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if strings.HasPrefix(line, "(") {
		v = -v
	}
	return v, true
}
