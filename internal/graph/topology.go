package graph

import "sort"

// HubPage is a page that receives many internal links
type HubPage struct {
	URL       string `json:"url"`
	InDegree  int    `json:"in_degree"`
	OutDegree int    `json:"out_degree"`
}

// DegreeBucket is one bucket in the inbound-link histogram
type DegreeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopologyReport describes the hyperlink graph restricted to analysed pages
type TopologyReport struct {
	TotalPages        int            `json:"total_pages"`
	TotalEdges        int            `json:"total_edges"`
	NumComponents     int            `json:"num_components"`
	LargestComponent  int            `json:"largest_component"`
	SmallestComponent int            `json:"smallest_component"`
	OrphanCount       int            `json:"orphan_count"`
	OrphanURLs        []string       `json:"orphan_urls"`
	InDegreeHistogram []DegreeBucket `json:"in_degree_histogram"`
	Hubs              []HubPage      `json:"hubs"`
}

// ComputeTopology analyzes the link graph between pages: weakly connected
// components, orphans (no inbound link from another page), the inbound-degree
// distribution and the topN most linked-to pages. Edges whose endpoints are not
// both in pages are ignored, as are self links. Duplicate page URLs count once.
func ComputeTopology(pages []string, links *LinkIndex, topN int) *TopologyReport {
	urls := dedupe(pages)
	if len(urls) == 0 {
		return &TopologyReport{InDegreeHistogram: defaultHistogram()}
	}

	idx := make(map[string]int, len(urls))
	for i, u := range urls {
		idx[u] = i
	}

	in := make([]int, len(urls))
	out := make([]int, len(urls))
	uf := NewUnionFind(len(urls))
	totalEdges := 0
	for _, e := range links.Edges() {
		s, okS := idx[e.Source]
		d, okD := idx[e.Destination]
		if !okS || !okD || s == d {
			continue
		}
		totalEdges++
		out[s]++
		in[d]++
		uf.Union(s, d)
	}

	sizes := uf.ComponentSizes()
	largest, smallest := 0, len(urls)
	for _, sz := range sizes {
		if sz > largest {
			largest = sz
		}
		if sz < smallest {
			smallest = sz
		}
	}

	// Orphans: nothing links to them
	var orphans []string
	buckets := [7]int{}
	for i, u := range urls {
		if in[i] == 0 {
			orphans = append(orphans, u)
		}
		buckets[degreeBucket(in[i])]++
	}
	orphanCount := len(orphans)
	sort.Strings(orphans)
	if len(orphans) > topN {
		orphans = orphans[:topN]
	}

	histogram := defaultHistogram()
	for i := range histogram {
		histogram[i].Count = buckets[i]
	}

	var hubs []HubPage
	for i, u := range urls {
		if in[i] == 0 {
			continue
		}
		hubs = append(hubs, HubPage{URL: u, InDegree: in[i], OutDegree: out[i]})
	}
	sort.Slice(hubs, func(i, j int) bool {
		if hubs[i].InDegree != hubs[j].InDegree {
			return hubs[i].InDegree > hubs[j].InDegree
		}
		return hubs[i].URL < hubs[j].URL
	})
	if len(hubs) > topN {
		hubs = hubs[:topN]
	}

	return &TopologyReport{
		TotalPages:        len(urls),
		TotalEdges:        totalEdges,
		NumComponents:     uf.Count(),
		LargestComponent:  largest,
		SmallestComponent: smallest,
		OrphanCount:       orphanCount,
		OrphanURLs:        orphans,
		InDegreeHistogram: histogram,
		Hubs:              hubs,
	}
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"},
		{Label: "4-7"}, {Label: "8-15"}, {Label: "16-31"}, {Label: "32+"},
	}
}

func degreeBucket(degree int) int {
	switch {
	case degree == 0:
		return 0
	case degree == 1:
		return 1
	case degree <= 3:
		return 2
	case degree <= 7:
		return 3
	case degree <= 15:
		return 4
	case degree <= 31:
		return 5
	default:
		return 6
	}
}
