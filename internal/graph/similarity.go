package graph

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"linkscout/internal/embedding"
)

// Neighbor is a candidate related page with its similarity to a source page.
type Neighbor struct {
	Index      int     `json:"-"` // position in the decoded record slice
	URL        string  `json:"url"`
	Similarity float64 `json:"similarity"`
}

// RelatedPages maps each source URL to its ranked neighbours.
// Sources lists URLs in first-occurrence order.
type RelatedPages struct {
	Sources []string
	Related map[string][]Neighbor
}

// CosineSimilarity computes cosine similarity between two vectors.
// Returns 0.0 for zero-norm vectors or mismatched lengths.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0.0
	}

	sim := dot / denom
	// overflow in the sums can give Inf/Inf
	if math.IsNaN(sim) {
		return 0.0
	}
	return sim
}

// RankNeighbors scores every record except the one at self against it and
// returns the topN best, highest similarity first. Equal scores keep input
// order.
func RankNeighbors(records []embedding.Record, self, topN int) []Neighbor {
	if len(records) <= 1 || topN <= 0 {
		return []Neighbor{}
	}
	target := records[self].Vector
	candidates := make([]Neighbor, 0, len(records)-1)
	for j, r := range records {
		if j == self {
			continue
		}
		candidates = append(candidates, Neighbor{
			Index:      j,
			URL:        r.URL,
			Similarity: CosineSimilarity(target, r.Vector),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates
}

// FindRelated ranks neighbours for every record. Rows are ranked by up to
// workers goroutines; the result does not depend on the worker count.
// A later record with the same URL as an earlier one replaces its list but
// not its position in Sources.
func FindRelated(ctx context.Context, records []embedding.Record, topN, workers int) (*RelatedPages, error) {
	if workers < 1 {
		workers = 1
	}
	ranked := make([][]Neighbor, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ranked[i] = RankNeighbors(records, i, topN)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &RelatedPages{Related: make(map[string][]Neighbor, len(records))}
	for i, r := range records {
		if _, seen := out.Related[r.URL]; !seen {
			out.Sources = append(out.Sources, r.URL)
		}
		out.Related[r.URL] = ranked[i]
	}
	return out, nil
}
