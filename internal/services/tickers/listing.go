package tickers

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	NasdaqColumn = "Symbol"
	OtherColumn  = "ACT Symbol"

	footerPrefix = "File Creation Time"
)

// ParseListing extracts the named column from a pipe-delimited symbol
// directory file. The trailing creation-time footer is dropped.
func ParseListing(r io.Reader, column string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = '|'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := -1
	for i, h := range header {
		if strings.TrimSpace(h) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("column %q not found in header", column)
	}

	var out []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read listing: %w", err)
		}
		if len(rec) > 0 && strings.HasPrefix(rec[0], footerPrefix) {
			continue
		}
		if col >= len(rec) {
			continue
		}
		out = append(out, rec[col])
	}
	return out, nil
}

// Merge trims, upper-cases, drops blanks and de-duplicates, returning a sorted list.
func Merge(lists ...[]string) []string {
	seen := make(map[string]struct{})
	for _, l := range lists {
		for _, s := range l {
			t := strings.ToUpper(strings.TrimSpace(s))
			if t == "" {
				continue
			}
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// WriteList writes one ticker per line.
func WriteList(w io.Writer, tickers []string) error {
	bw := bufio.NewWriter(w)
	for _, t := range tickers {
		if _, err := bw.WriteString(t + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Source is one symbol directory file and the column holding tickers.
type Source struct {
	URL    string
	Column string
}

// Generator downloads symbol directories and merges them.
type Generator struct {
	client  *resty.Client
	sources []Source
}

func NewGenerator(client *resty.Client, sources ...Source) *Generator {
	if client == nil {
		client = resty.New()
	}
	return &Generator{client: client, sources: sources}
}

// DefaultSources pairs the NASDAQ and other-listed directories with their columns.
func DefaultSources(nasdaqURL, otherURL string) []Source {
	return []Source{
		{URL: nasdaqURL, Column: NasdaqColumn},
		{URL: otherURL, Column: OtherColumn},
	}
}

// Generate fetches every source and returns the merged universe.
func (g *Generator) Generate(ctx context.Context) ([]string, error) {
	lists := make([][]string, 0, len(g.sources))
	for _, src := range g.sources {
		resp, err := g.client.R().SetContext(ctx).Get(src.URL)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", src.URL, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("fetch %s: status %d", src.URL, resp.StatusCode())
		}
		l, err := ParseListing(strings.NewReader(resp.String()), src.Column)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", src.URL, err)
		}
		lists = append(lists, l)
	}
	return Merge(lists...), nil
}
