// Package analysis finds, for every page of a site, its semantically closest
// pages and reports whether a hyperlink between them already exists.
//
// Run is a pure function of its inputs: it keeps no state between calls and
// returns either a complete Report or a single error.
package analysis

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"linkscout/internal/embedding"
	"linkscout/internal/graph"
	"linkscout/internal/tabular"
)

// Required headers of the two inputs.
const (
	HeaderURL         = "URL"
	HeaderEmbeddings  = "Embeddings"
	HeaderType        = "Type"
	HeaderSource      = "Source"
	HeaderDestination = "Destination"
)

// Result is one (source, related) pair.
type Result struct {
	SourceURL    string  `json:"url"`
	RelatedURL   string  `json:"related_url"`
	IsActiveLink bool    `json:"is_active_link"`
	Rank         int     `json:"rank"`
	Similarity   float64 `json:"similarity"`
}

// Stats summarises a result set.
type Stats struct {
	TotalPairs  int    `json:"total_pairs"`
	ActiveLinks int    `json:"active_links"`
	Percentage  string `json:"percentage"`
}

// Report is the full output of one analysis run.
type Report struct {
	Results           []Result              `json:"results"`
	Stats             Stats                 `json:"stats"`
	TopN              int                   `json:"top_n"`
	ValidEmbeddings   int                   `json:"valid_embeddings"`
	SkippedEmbeddings int                   `json:"skipped_embeddings"`
	LinkEdges         int                   `json:"link_edges"`
	Topology          *graph.TopologyReport `json:"topology,omitempty"`
}

// RunText is Run over in-memory text.
func RunText(ctx context.Context, embeddingsText, linksText string, opts Options) (*Report, error) {
	return Run(ctx, strings.NewReader(embeddingsText), strings.NewReader(linksText), opts)
}

// Run parses both inputs, ranks related pages by cosine similarity and joins
// the pairs against the hyperlink graph.
//
// The two inputs are parsed concurrently. When both are broken the
// embeddings error is the one returned.
func Run(ctx context.Context, embeddings, links io.Reader, opts Options) (*Report, error) {
	if embeddings == nil || links == nil {
		return nil, &ValidationError{Msg: "both the embeddings and the internal links inputs are required"}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var (
		g        errgroup.Group
		records  []embedding.Record
		skipped  int
		index    *graph.LinkIndex
		embedErr error
		linkErr  error
	)
	g.Go(func() error {
		records, skipped, embedErr = loadEmbeddings(embeddings)
		return embedErr
	})
	g.Go(func() error {
		index, linkErr = loadLinks(links)
		return linkErr
	})
	_ = g.Wait()
	if embedErr != nil {
		return nil, embedErr
	}
	if linkErr != nil {
		return nil, linkErr
	}

	related, err := graph.FindRelated(ctx, records, opts.TopN, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("ranking related pages: %w", err)
	}

	results := Assemble(related, index)
	report := &Report{
		Results:           results,
		Stats:             ComputeStats(results),
		TopN:              opts.TopN,
		ValidEmbeddings:   len(records),
		SkippedEmbeddings: skipped,
		LinkEdges:         index.Len(),
	}

	if opts.Topology {
		pages := make([]string, len(records))
		for i, r := range records {
			pages[i] = r.URL
		}
		report.Topology = graph.ComputeTopology(pages, index, opts.TopN)
	}
	return report, nil
}

func loadEmbeddings(r io.Reader) ([]embedding.Record, int, error) {
	table, err := tabular.Parse("embeddings", r)
	if err != nil {
		return nil, 0, err
	}
	if table.Header == nil {
		return nil, 0, &EmptyInputError{Msg: "embeddings CSV is empty or invalid"}
	}
	if err := tabular.RequireHeaders(table, HeaderURL, HeaderEmbeddings); err != nil {
		return nil, 0, err
	}
	if table.Len() == 0 {
		return nil, 0, &EmptyInputError{Msg: "embeddings CSV is empty or invalid"}
	}

	urls := make([]string, table.Len())
	raws := make([]string, table.Len())
	for i, row := range table.Rows {
		urls[i] = row[HeaderURL]
		raws[i] = row[HeaderEmbeddings]
	}
	records := embedding.DecodeAll(urls, raws)
	if len(records) == 0 {
		return nil, 0, &EmptyInputError{Msg: "no valid embeddings found in the file"}
	}
	return records, table.Len() - len(records), nil
}

func loadLinks(r io.Reader) (*graph.LinkIndex, error) {
	table, err := tabular.Parse("internal links", r)
	if err != nil {
		return nil, err
	}
	// no rows means no existing links
	if table.Len() == 0 {
		return graph.NewLinkIndex(), nil
	}
	if err := tabular.RequireHeaders(table, HeaderType, HeaderSource, HeaderDestination); err != nil {
		return nil, err
	}

	records := make([]graph.LinkRecord, table.Len())
	for i, row := range table.Rows {
		records[i] = graph.LinkRecord{
			Type:        row[HeaderType],
			Source:      row[HeaderSource],
			Destination: row[HeaderDestination],
		}
	}
	return graph.BuildLinkIndex(records), nil
}
