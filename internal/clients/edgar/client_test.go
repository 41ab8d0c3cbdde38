package edgar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/bdcwatch/internal/models"
)

const submissionsFixture = `{
	"cik": "1287750",
	"name": "ARES CAPITAL CORP",
	"filings": {
		"recent": {
			"accessionNumber": ["0001287750-24-000123", "0001287750-24-000088", "0001287750-24-000050"],
			"form": ["10-Q", "8-K", "10-K"],
			"filingDate": ["2024-11-05", "2024-08-01", "2024-02-20"],
			"reportDate": ["2024-09-30", "2024-07-30", "2023-12-31"],
			"primaryDocument": ["arcc-20240930.htm", "arcc-8k.htm", "arcc-20231231.htm"]
		}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(
		WithBaseURLs(server.URL+"/submissions", server.URL+"/archives"),
		WithUserAgent("test-agent test@example.com"),
	)
	return client, server
}

func TestGetRecentFilings(t *testing.T) {
	var gotUserAgent string
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		if r.URL.Path == "/submissions/CIK0001287750.json" {
			w.Write([]byte(submissionsFixture))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	filings, err := client.GetRecentFilings(context.Background(), "1287750", []string{"10-Q", "10-K"}, 10)
	require.NoError(t, err)
	require.Len(t, filings, 2)

	assert.Equal(t, "test-agent test@example.com", gotUserAgent)

	// Newest first, 8-K filtered out
	assert.Equal(t, "10-Q", filings[0].Form)
	assert.Equal(t, "2024-09-30", filings[0].ReportDate)
	assert.Equal(t, "10-K", filings[1].Form)

	// Document URL built from archives base, numeric cik, dashless accession
	assert.Equal(t,
		server.URL+"/archives/1287750/000128775024000123/arcc-20240930.htm",
		filings[0].DocumentURL)
}

func TestGetRecentFilings_Limit(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(submissionsFixture))
	})

	filings, err := client.GetRecentFilings(context.Background(), "1287750", nil, 1)
	require.NoError(t, err)
	assert.Len(t, filings, 1)
}

func TestGetRecentFilings_TruncatedColumns(t *testing.T) {
	// Column-oriented payloads from EDGAR occasionally arrive with short
	// parallel arrays; a row past the end of any column must not panic.
	const truncated = `{
		"cik": "1287750",
		"filings": {
			"recent": {
				"accessionNumber": ["0001287750-24-000123", "0001287750-24-000088"],
				"form": ["10-Q"],
				"filingDate": ["2024-11-05"],
				"reportDate": [],
				"primaryDocument": ["arcc-20240930.htm"]
			}
		}
	}`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(truncated))
	})

	filings, err := client.GetRecentFilings(context.Background(), "1287750", []string{"10-Q"}, 10)
	require.NoError(t, err)
	require.Len(t, filings, 1)
	assert.Equal(t, "10-Q", filings[0].Form)
	assert.Empty(t, filings[0].ReportDate)

	// Unfiltered, the row with the missing form survives with empty fields.
	filings, err = client.GetRecentFilings(context.Background(), "1287750", nil, 10)
	require.NoError(t, err)
	require.Len(t, filings, 2)
	assert.Empty(t, filings[1].Form)
}

func TestGetRecentFilings_InvalidCIK(t *testing.T) {
	client := NewClient()
	_, err := client.GetRecentFilings(context.Background(), "not-a-cik", nil, 5)
	assert.Error(t, err)

	_, err = client.GetRecentFilings(context.Background(), "", nil, 5)
	assert.Error(t, err)
}

func TestNormalizeCIK(t *testing.T) {
	padded, err := normalizeCIK("1287750")
	require.NoError(t, err)
	assert.Equal(t, "0001287750", padded)

	padded, err = normalizeCIK("0001287750")
	require.NoError(t, err)
	assert.Equal(t, "0001287750", padded)
}

func TestGetDocumentText_HTML(t *testing.T) {
	doc := `<html><head><style>td { color: red; }</style></head><body>
	<table>
	<tr><td>Alpha Software Inc</td><td>Software &amp; Services</td><td>12,500</td></tr>
	<tr><td>Beta Health LLC</td><td>Healthcare Providers</td><td>8,200</td></tr>
	</table>
	<script>alert("x")</script>
	</body></html>`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(doc))
	})

	filing := models.Filing{
		AccessionNumber: "0001-24-0001",
		PrimaryDocument: "doc.htm",
		DocumentURL:     client.archivesURL + "/1/000124/doc.htm",
	}

	text, err := client.GetDocumentText(context.Background(), filing)
	require.NoError(t, err)

	assert.Contains(t, text, "Alpha Software Inc")
	assert.Contains(t, text, "Software & Services")
	assert.Contains(t, text, "12,500")
	assert.NotContains(t, text, "<td>")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "alert")
}

func TestGetDocumentText_NoURL(t *testing.T) {
	client := NewClient()
	_, err := client.GetDocumentText(context.Background(), models.Filing{AccessionNumber: "x"})
	assert.Error(t, err)
}

func TestStripHTML_CellBoundaries(t *testing.T) {
	text := stripHTML(`<tr><td>Company</td><td>Industry</td><td>Value</td></tr>`)
	// Each cell ends a line so row structure survives for downstream parsing.
	assert.Contains(t, text, "Company\n")
	assert.Contains(t, text, "Industry\n")
}
