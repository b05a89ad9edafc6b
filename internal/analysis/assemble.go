package analysis

import (
	"fmt"

	"linkscout/internal/graph"
)

// Assemble emits one Result per (source, related) pair, sources in
// related.Sources order and neighbours in rank order, marking pairs the link
// index already contains.
func Assemble(related *graph.RelatedPages, links *graph.LinkIndex) []Result {
	total := 0
	for _, src := range related.Sources {
		total += len(related.Related[src])
	}

	results := make([]Result, 0, total)
	for _, src := range related.Sources {
		for rank, n := range related.Related[src] {
			results = append(results, Result{
				SourceURL:    src,
				RelatedURL:   n.URL,
				IsActiveLink: links.Contains(src, n.URL),
				Rank:         rank,
				Similarity:   n.Similarity,
			})
		}
	}
	return results
}

// ComputeStats counts pairs and active links.
func ComputeStats(results []Result) Stats {
	active := 0
	for _, r := range results {
		if r.IsActiveLink {
			active++
		}
	}
	return Stats{
		TotalPairs:  len(results),
		ActiveLinks: active,
		Percentage:  FormatPercentage(active, len(results)),
	}
}

// FormatPercentage renders part/total*100 with two decimals and a trailing
// "%", rounding half up on the exact ratio. A zero total gives "0.00%".
func FormatPercentage(part, total int) string {
	if total <= 0 {
		return "0.00%"
	}
	p, t := int64(part), int64(total)
	hundredths := (p*20000 + t) / (2 * t)
	return fmt.Sprintf("%d.%02d%%", hundredths/100, hundredths%100)
}
