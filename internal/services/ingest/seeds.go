package ingest

// SeedBDC identifies a known Business Development Company tracked by default.
type SeedBDC struct {
	CIK    string
	Ticker string
	Name   string
}

// seedBDCs is the shipped universe. Ingestion walks this list; entities
// created from it keep any metrics later attached by refresh runs.
var seedBDCs = []SeedBDC{
	{CIK: "0001287750", Ticker: "ARCC", Name: "Ares Capital Corporation"},
	{CIK: "0001422183", Ticker: "FSK", Name: "FS KKR Capital Corp"},
	{CIK: "0001655888", Ticker: "OBDC", Name: "Blue Owl Capital Corporation"},
	{CIK: "0001736035", Ticker: "BXSL", Name: "Blackstone Secured Lending Fund"},
	{CIK: "0001396440", Ticker: "MAIN", Name: "Main Street Capital Corporation"},
	{CIK: "0001287032", Ticker: "PSEC", Name: "Prospect Capital Corporation"},
	{CIK: "0001476765", Ticker: "GBDC", Name: "Golub Capital BDC"},
	{CIK: "0001508171", Ticker: "TSLX", Name: "Sixth Street Specialty Lending"},
	{CIK: "0001372807", Ticker: "MFIC", Name: "MidCap Financial Investment Corporation"},
	{CIK: "0001280776", Ticker: "HTGC", Name: "Hercules Capital"},
	{CIK: "0001496099", Ticker: "NMFC", Name: "New Mountain Finance Corporation"},
	{CIK: "0001414932", Ticker: "OCSL", Name: "Oaktree Specialty Lending Corporation"},
}

// SeedList returns a copy of the shipped BDC universe.
func SeedList() []SeedBDC {
	out := make([]SeedBDC, len(seedBDCs))
	copy(out, seedBDCs)
	return out
}

func findSeed(cik string) *SeedBDC {
	for i := range seedBDCs {
		if seedBDCs[i].CIK == cik {
			return &seedBDCs[i]
		}
	}
	return nil
}
