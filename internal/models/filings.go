package models

// Filing is a single EDGAR filing reference for a company.
type Filing struct {
	AccessionNumber string `json:"accession_number"`
	Form            string `json:"form"`        // e.g. "10-Q", "10-K"
	FilingDate      string `json:"filing_date"` // YYYY-MM-DD
	ReportDate      string `json:"report_date"` // period of report, YYYY-MM-DD
	PrimaryDocument string `json:"primary_document"`
	DocumentURL     string `json:"document_url"`
}

// RawHolding is one schedule-of-investments row extracted from a filing
// before sector resolution.
type RawHolding struct {
	Company     string  `json:"company"`
	IndustryRaw string  `json:"industry_raw"`
	FairValue   float64 `json:"fair_value"`
}
