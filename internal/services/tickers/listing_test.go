package tickers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nasdaqListed = `Symbol|Security Name|Market Category|Test Issue|Financial Status|Round Lot Size|ETF|NextShares
AACG|ATA Creativity Global - American Depositary Shares|G|N|N|100|N|N
AAPL|Apple Inc. - Common Stock|Q|N|N|100|N|N
msft |Microsoft Corporation - Common Stock|Q|N|N|100|N|N
File Creation Time: 0315202418:02|||||||
`

const otherListed = `ACT Symbol|Security Name|Exchange|CQS Symbol|ETF|Round Lot Size|Test Issue|NASDAQ Symbol
A|Agilent Technologies, Inc. Common Stock|N|A|N|100|N|A
AAPL|duplicate across files|N|AAPL|N|100|N|AAPL
|blank symbol|N||N|100|N|
BRK.B|Berkshire Hathaway "B"|N|BRK.B|N|100|N|BRK/B
File Creation Time: 0315202418:02|||||||
`

func TestParseListing(t *testing.T) {
	got, err := ParseListing(strings.NewReader(nasdaqListed), NasdaqColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"AACG", "AAPL", "msft "}, got)

	got, err = ParseListing(strings.NewReader(otherListed), OtherColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "AAPL", "", "BRK.B"}, got)
}

func TestParseListing_MissingColumn(t *testing.T) {
	_, err := ParseListing(strings.NewReader(nasdaqListed), OtherColumn)
	assert.Error(t, err)

	_, err = ParseListing(strings.NewReader(""), NasdaqColumn)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	got := Merge([]string{"aapl", " MSFT", ""}, []string{"AAPL", "a", "  "})
	assert.Equal(t, []string{"A", "AAPL", "MSFT"}, got)
}

func TestWriteList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, []string{"A", "AAPL"}))
	assert.Equal(t, "A\nAAPL\n", buf.String())
}

func TestGenerator(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/nasdaqlisted.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(nasdaqListed))
	})
	mux.HandleFunc("/otherlisted.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(otherListed))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := NewGenerator(nil, DefaultSources(srv.URL+"/nasdaqlisted.txt", srv.URL+"/otherlisted.txt")...)
	got, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "AACG", "AAPL", "BRK.B", "MSFT"}, got)
}

func TestGenerator_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	g := NewGenerator(nil, Source{URL: srv.URL + "/missing", Column: NasdaqColumn})
	_, err := g.Generate(context.Background())
	assert.Error(t, err)
}
