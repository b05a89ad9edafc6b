package analysis

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const scenarioEmbeddings = `URL,Embeddings
P1,"1,0"
P2,"1,0"
P3,"0,1"
`

func run(t *testing.T, embeddings, links string, topN int) *Report {
	t.Helper()
	opts := DefaultOptions()
	opts.TopN = topN
	report, err := RunText(context.Background(), embeddings, links, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return report
}

func pairs(results []Result) [][3]any {
	out := make([][3]any, len(results))
	for i, r := range results {
		out[i] = [3]any{r.SourceURL, r.RelatedURL, r.IsActiveLink}
	}
	return out
}

func TestRun_RankingScenario(t *testing.T) {
	report := run(t, scenarioEmbeddings, "", 2)
	want := [][3]any{
		{"P1", "P2", false}, {"P1", "P3", false},
		{"P2", "P1", false}, {"P2", "P3", false},
		{"P3", "P1", false}, {"P3", "P2", false},
	}
	if got := pairs(report.Results); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
	if report.Results[1].Rank != 1 || report.Results[2].Rank != 0 {
		t.Errorf("ranks should restart per source: %+v", report.Results)
	}
}

func TestRun_ActiveLinkScenario(t *testing.T) {
	links := "Type,Source,Destination\nHyperlink,P1,P2\n"
	report := run(t, scenarioEmbeddings, links, 2)

	for _, r := range report.Results {
		want := r.SourceURL == "P1" && r.RelatedURL == "P2"
		if r.IsActiveLink != want {
			t.Errorf("(%s,%s): got active=%v, want %v", r.SourceURL, r.RelatedURL, r.IsActiveLink, want)
		}
	}
	want := Stats{TotalPairs: 6, ActiveLinks: 1, Percentage: "16.67%"}
	if report.Stats != want {
		t.Errorf("got %+v, want %+v", report.Stats, want)
	}
	if report.LinkEdges != 1 {
		t.Errorf("expected 1 link edge, got %d", report.LinkEdges)
	}
}

func TestRun_Directionality(t *testing.T) {
	links := "Type,Source,Destination\nHyperlink,P2,P1\n"
	report := run(t, scenarioEmbeddings, links, 2)
	for _, r := range report.Results {
		if r.SourceURL == "P1" && r.RelatedURL == "P2" && r.IsActiveLink {
			t.Errorf("P2->P1 must not mark P1->P2 active")
		}
		if r.SourceURL == "P2" && r.RelatedURL == "P1" && !r.IsActiveLink {
			t.Errorf("P2->P1 should be active")
		}
	}
}

func TestRun_NonHyperlinkTypesIgnored(t *testing.T) {
	links := "Type,Source,Destination\nImage,P1,P2\nCanonical,P1,P3\n"
	report := run(t, scenarioEmbeddings, links, 2)
	if report.Stats.ActiveLinks != 0 {
		t.Errorf("expected 0 active links, got %d", report.Stats.ActiveLinks)
	}
}

func TestRun_EmptyLinks(t *testing.T) {
	for name, links := range map[string]string{
		"no text":      "",
		"header only":  "Type,Source,Destination\n",
		"other header": "Foo,Bar\n",
	} {
		report, err := RunText(context.Background(), scenarioEmbeddings, links, DefaultOptions())
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		for _, r := range report.Results {
			if r.IsActiveLink {
				t.Errorf("%s: no pair should be active", name)
			}
		}
	}
}

func TestRun_HeaderOnlyEmbeddings(t *testing.T) {
	_, err := RunText(context.Background(), "URL,Embeddings\n", "", DefaultOptions())
	var empty *EmptyInputError
	if !errors.As(err, &empty) {
		t.Fatalf("expected *EmptyInputError, got %v", err)
	}
}

func TestRun_NoEmbeddingsText(t *testing.T) {
	_, err := RunText(context.Background(), "", "", DefaultOptions())
	var empty *EmptyInputError
	if !errors.As(err, &empty) {
		t.Fatalf("expected *EmptyInputError, got %v", err)
	}
}

func TestRun_WrongEmbeddingHeaders(t *testing.T) {
	_, err := RunText(context.Background(), "Url,Vector\nP1,\"1,0\"\n", "", DefaultOptions())
	var schema *SchemaError
	if !errors.As(err, &schema) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if !reflect.DeepEqual(schema.Missing, []string{"URL", "Embeddings"}) {
		t.Errorf("unexpected missing headers %v", schema.Missing)
	}
}

func TestRun_WrongLinkHeaders(t *testing.T) {
	_, err := RunText(context.Background(), scenarioEmbeddings, "Kind,From,To\nHyperlink,P1,P2\n", DefaultOptions())
	var schema *SchemaError
	if !errors.As(err, &schema) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if !reflect.DeepEqual(schema.Missing, []string{"Type", "Source", "Destination"}) {
		t.Errorf("unexpected missing headers %v", schema.Missing)
	}
}

func TestRun_InvalidRowDropped(t *testing.T) {
	input := "URL,Embeddings\nP1,\"1,0\"\nBAD,\"0.1,abc,0.3\"\nP2,\"0.5,0.5\"\n"
	report := run(t, input, "", 5)
	if report.ValidEmbeddings != 2 || report.SkippedEmbeddings != 1 {
		t.Errorf("expected 2 valid and 1 skipped, got %d and %d", report.ValidEmbeddings, report.SkippedEmbeddings)
	}
	for _, r := range report.Results {
		if r.SourceURL == "BAD" || r.RelatedURL == "BAD" {
			t.Errorf("invalid row should not appear: %+v", r)
		}
	}
}

func TestRun_OnlyInvalidRow(t *testing.T) {
	_, err := RunText(context.Background(), "URL,Embeddings\nBAD,\"0.1,abc,0.3\"\n", "", DefaultOptions())
	var empty *EmptyInputError
	if !errors.As(err, &empty) {
		t.Fatalf("expected *EmptyInputError, got %v", err)
	}
	if !strings.Contains(err.Error(), "no valid embeddings") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestRun_SingleValidRow(t *testing.T) {
	report := run(t, "URL,Embeddings\nP1,\"1,0\"\n", "", 5)
	if len(report.Results) != 0 {
		t.Errorf("expected no pairs, got %d", len(report.Results))
	}
	if report.Stats.Percentage != "0.00%" {
		t.Errorf("expected 0.00%%, got %s", report.Stats.Percentage)
	}
}

func TestRun_ParseErrorsAbort(t *testing.T) {
	_, err := RunText(context.Background(), "URL,Embeddings\nP1,\"1,0\n", "", DefaultOptions())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Dataset != "embeddings" {
		t.Errorf("expected embeddings dataset, got %q", pe.Dataset)
	}

	_, err = RunText(context.Background(), scenarioEmbeddings, "Type,Source,Destination\nHyperlink,\"P1,P2\n", DefaultOptions())
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError for links, got %v", err)
	}
	if pe.Dataset != "internal links" {
		t.Errorf("expected internal links dataset, got %q", pe.Dataset)
	}
}

func TestRun_EmbeddingErrorWinsOverLinkError(t *testing.T) {
	_, err := RunText(context.Background(), "Url,Vector\nx,1\n", "Type,Source,Destination\n\"broken\n", DefaultOptions())
	var schema *SchemaError
	if !errors.As(err, &schema) {
		t.Fatalf("expected the embeddings *SchemaError, got %v", err)
	}
}

func TestRun_BoundedRankCount(t *testing.T) {
	input := "URL,Embeddings\na,\"1,0\"\nb,\"0.9,0.1\"\nc,\"0.5,0.5\"\nd,\"0,1\"\n"
	for topN := 1; topN <= 5; topN++ {
		report := run(t, input, "", topN)
		counts := map[string]int{}
		for _, r := range report.Results {
			counts[r.SourceURL]++
			if r.SourceURL == r.RelatedURL {
				t.Errorf("self pair for %s", r.SourceURL)
			}
		}
		want := topN
		if want > 3 {
			want = 3
		}
		for src, c := range counts {
			if c != want {
				t.Errorf("topN=%d: %s has %d related, want %d", topN, src, c, want)
			}
		}
		if report.Stats.TotalPairs != 4*want {
			t.Errorf("topN=%d: expected %d pairs, got %d", topN, 4*want, report.Stats.TotalPairs)
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	input := "URL,Embeddings\na,\"1,0,0\"\nb,\"0.9,0.1,0\"\nc,\"0,0,0\"\nd,\"0,1\"\ne,\"0.2,0.2,0.9\"\n"
	links := "Type,Source,Destination\nHyperlink,a,b\nHyperlink,e,a\n"
	opts := Options{TopN: 3, Workers: 4, Topology: true}
	first, err := RunText(context.Background(), input, links, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := RunText(context.Background(), input, links, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs over identical input differ")
	}
}

func TestRun_Topology(t *testing.T) {
	opts := DefaultOptions()
	opts.Topology = true
	report, err := RunText(context.Background(), scenarioEmbeddings, "Type,Source,Destination\nHyperlink,P1,P2\n", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Topology == nil {
		t.Fatal("expected topology report")
	}
	if report.Topology.TotalPages != 3 || report.Topology.TotalEdges != 1 || report.Topology.NumComponents != 2 {
		t.Errorf("unexpected topology %+v", report.Topology)
	}
}

func TestRun_MissingInput(t *testing.T) {
	_, err := Run(context.Background(), strings.NewReader(scenarioEmbeddings), nil, DefaultOptions())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	_, err := RunText(context.Background(), scenarioEmbeddings, "", Options{TopN: 0, Workers: 1})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	_, err = RunText(context.Background(), scenarioEmbeddings, "", Options{TopN: 5, Workers: 0})
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError for workers, got %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunText(ctx, scenarioEmbeddings, "", DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFormatPercentage(t *testing.T) {
	cases := []struct {
		part, total int
		want        string
	}{
		{0, 0, "0.00%"},
		{0, 6, "0.00%"},
		{1, 6, "16.67%"},
		{1, 3, "33.33%"},
		{2, 3, "66.67%"},
		{1, 8, "12.50%"},
		{1, 800, "0.13%"},
		{7, 7, "100.00%"},
	}
	for _, c := range cases {
		if got := FormatPercentage(c.part, c.total); got != c.want {
			t.Errorf("FormatPercentage(%d, %d) = %s, want %s", c.part, c.total, got, c.want)
		}
	}
}

func TestComputeStats_Consistent(t *testing.T) {
	results := []Result{
		{SourceURL: "a", RelatedURL: "b", IsActiveLink: true},
		{SourceURL: "a", RelatedURL: "c"},
		{SourceURL: "b", RelatedURL: "a", IsActiveLink: true},
	}
	s := ComputeStats(results)
	if s.TotalPairs != 3 || s.ActiveLinks != 2 || s.Percentage != "66.67%" {
		t.Errorf("unexpected stats %+v", s)
	}
}
