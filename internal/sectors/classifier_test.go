package sectors

import (
	"strings"
	"testing"
)

func TestTaxonomy_OrderAndFallback(t *testing.T) {
	tax := Taxonomy()
	if len(tax) != 10 {
		t.Fatalf("expected 10 sectors, got %d", len(tax))
	}
	if tax[0] != SoftwareTechnology {
		t.Errorf("expected Software & Technology first, got %s", tax[0])
	}
	if tax[len(tax)-1] != Other {
		t.Errorf("expected Other last, got %s", tax[len(tax)-1])
	}

	// Mutating the returned slice must not affect the package data.
	tax[0] = Other
	if Taxonomy()[0] != SoftwareTechnology {
		t.Error("Taxonomy returned a mutable reference to package data")
	}
}

func TestClassify_Total(t *testing.T) {
	inputs := []string{
		"", "   ", "Software", "HEALTHCARE SERVICES", "zzzzz unknown zzzzz",
		"Diversified Financial Services", "Oil & Gas Exploration",
		"\tReal Estate Investment Trusts\n", "textiles", "教育",
	}
	for _, in := range inputs {
		got := Classify(in)
		if !Valid(got) {
			t.Errorf("Classify(%q) = %q, not a taxonomy member", in, got)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	inputs := []string{"Software", "health care", "no match here", ""}
	for _, in := range inputs {
		first := Classify(in)
		for i := 0; i < 5; i++ {
			if got := Classify(in); got != first {
				t.Fatalf("Classify(%q) not deterministic: %q then %q", in, first, got)
			}
		}
	}
}

func TestClassify_CaseInsensitiveSubstring(t *testing.T) {
	cases := map[string]Sector{
		"SOFTWARE as a service":            SoftwareTechnology,
		"Enterprise SaaS Platforms":        SoftwareTechnology,
		"Pharmaceutical Preparations":      Healthcare,
		"Diversified Insurance":            FinancialServices,
		"Specialty Retail":                 ConsumerRetail,
		"Aerospace & Defense":              Industrials,
		"Oil and Gas Services":             EnergyUtilities,
		"Broadcasting & Cable":             MediaTelecom,
		"Commercial Real Estate":           RealEstate,
		"Outsourced Professional Services": BusinessServices,
	}
	for in, want := range cases {
		if got := Classify(in); got != want {
			t.Errorf("Classify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// Matches both Software & Technology ("software") and Healthcare
	// ("health"); the earlier-declared sector must win.
	if got := Classify("healthcare software solutions"); got != SoftwareTechnology {
		t.Errorf("expected declaration-order tie-break to Software & Technology, got %q", got)
	}

	// Healthcare is declared before Business Services.
	if got := Classify("medical staffing and consulting"); got != Healthcare {
		t.Errorf("expected Healthcare over Business Services, got %q", got)
	}

	// Financial Services before Real Estate.
	if got := Classify("real estate lending"); got != FinancialServices {
		t.Errorf("expected Financial Services over Real Estate, got %q", got)
	}
}

func TestClassify_Fallback(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n", "Wholesale Textiles", "unclassifiable"} {
		if got := Classify(in); got != Other {
			t.Errorf("Classify(%q) = %q, want Other", in, got)
		}
	}
}

func TestKeywordTable_OtherHasNoKeywords(t *testing.T) {
	for _, sk := range keywordTable {
		if sk.sector == Other {
			t.Fatal("Other must not appear in the keyword table")
		}
		for _, kw := range sk.keywords {
			if kw != strings.ToLower(kw) {
				t.Errorf("keyword %q of %s is not lower-case", kw, sk.sector)
			}
		}
	}
}
