// Package sectors provides the fixed sector taxonomy and the keyword
// classifier that maps free-text industry labels from filings onto it.
package sectors

// Sector is one of the fixed taxonomy categories.
type Sector string

// The taxonomy in declaration order. Order matters twice: it is the default
// display order downstream, and it is the classifier's tie-break — a text
// matching keywords of two sectors resolves to the one declared first.
// Other is always last and is the fallback, never matched by keyword.
const (
	SoftwareTechnology Sector = "Software & Technology"
	Healthcare         Sector = "Healthcare"
	BusinessServices   Sector = "Business Services"
	FinancialServices  Sector = "Financial Services"
	ConsumerRetail     Sector = "Consumer & Retail"
	Industrials        Sector = "Industrials"
	EnergyUtilities    Sector = "Energy & Utilities"
	MediaTelecom       Sector = "Media & Telecom"
	RealEstate         Sector = "Real Estate"
	Other              Sector = "Other"
)

// taxonomy is the fixed ordered list, Other last.
var taxonomy = []Sector{
	SoftwareTechnology,
	Healthcare,
	BusinessServices,
	FinancialServices,
	ConsumerRetail,
	Industrials,
	EnergyUtilities,
	MediaTelecom,
	RealEstate,
	Other,
}

// Taxonomy returns the fixed sector order. Callers must not mutate the
// returned slice; a copy is handed out to keep the package data immutable.
func Taxonomy() []Sector {
	out := make([]Sector, len(taxonomy))
	copy(out, taxonomy)
	return out
}

// Valid reports whether s is a member of the taxonomy.
func Valid(s Sector) bool {
	for _, t := range taxonomy {
		if s == t {
			return true
		}
	}
	return false
}

// sectorKeywords pairs a sector with its match phrases, in match priority
// order. Constructed once at init, read-only afterwards.
type sectorKeywords struct {
	sector   Sector
	keywords []string
}

// keywordTable drives classification. Keywords are lower-case; matching is
// case-insensitive substring containment. Other has no keywords.
var keywordTable = []sectorKeywords{
	{SoftwareTechnology, []string{
		"software", "saas", "technology", "it services", "information technology",
		"internet", "cyber", "data processing", "semiconductor", "computer",
		"cloud", "artificial intelligence", "fintech",
	}},
	{Healthcare, []string{
		"health", "pharma", "medical", "biotech", "life science", "hospital",
		"dental", "clinic", "diagnostic", "therapeutic", "veterinary",
	}},
	{BusinessServices, []string{
		"business services", "professional services", "consulting", "staffing",
		"human resources", "outsourcing", "commercial services", "legal services",
		"marketing services", "facilities services", "education",
	}},
	{FinancialServices, []string{
		"financial", "insurance", "banking", "bank", "asset management",
		"capital markets", "lending", "specialty finance", "leasing", "brokerage",
	}},
	{ConsumerRetail, []string{
		"consumer", "retail", "restaurant", "food", "beverage", "apparel",
		"leisure", "hospitality", "hotel", "franchise", "grocery", "personal products",
	}},
	{Industrials, []string{
		"industrial", "manufacturing", "machinery", "construction", "building products",
		"aerospace", "defense", "transportation", "logistics", "distribution",
		"chemicals", "packaging", "automotive", "paper", "metals",
	}},
	{EnergyUtilities, []string{
		"energy", "oil", "gas", "utilities", "utility", "power", "renewable",
		"solar", "pipeline", "mining", "drilling",
	}},
	{MediaTelecom, []string{
		"media", "telecom", "communications", "broadcasting", "publishing",
		"entertainment", "cable", "wireless", "advertising",
	}},
	{RealEstate, []string{
		"real estate", "property", "reit", "lodging", "self storage",
	}},
}
