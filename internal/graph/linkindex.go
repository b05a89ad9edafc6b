package graph

import "sort"

// HyperlinkType is the only link type that contributes edges.
const HyperlinkType = "Hyperlink"

// LinkRecord is one row of a crawl's link export.
type LinkRecord struct {
	Type        string
	Source      string
	Destination string
}

// EdgeKey identifies a directed link. It is a struct so that no separator
// inside a URL can make two different pairs collide.
type EdgeKey struct {
	Source      string
	Destination string
}

// LinkIndex is a set of directed hyperlink edges.
type LinkIndex struct {
	edges map[EdgeKey]struct{}
}

// NewLinkIndex returns an empty index.
func NewLinkIndex() *LinkIndex {
	return &LinkIndex{edges: make(map[EdgeKey]struct{})}
}

// BuildLinkIndex keeps records whose Type is exactly HyperlinkType.
func BuildLinkIndex(records []LinkRecord) *LinkIndex {
	idx := NewLinkIndex()
	for _, r := range records {
		if r.Type != HyperlinkType {
			continue
		}
		idx.Add(r.Source, r.Destination)
	}
	return idx
}

// Add inserts the edge source -> destination. Returns false if it was already present.
func (x *LinkIndex) Add(source, destination string) bool {
	k := EdgeKey{Source: source, Destination: destination}
	if _, ok := x.edges[k]; ok {
		return false
	}
	x.edges[k] = struct{}{}
	return true
}

// Contains reports whether source links to destination. Direction matters.
func (x *LinkIndex) Contains(source, destination string) bool {
	_, ok := x.edges[EdgeKey{Source: source, Destination: destination}]
	return ok
}

// Len returns the number of distinct edges.
func (x *LinkIndex) Len() int {
	return len(x.edges)
}

// Edges returns all edges sorted by source, then destination.
func (x *LinkIndex) Edges() []EdgeKey {
	keys := make([]EdgeKey, 0, len(x.edges))
	for k := range x.edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Source != keys[j].Source {
			return keys[i].Source < keys[j].Source
		}
		return keys[i].Destination < keys[j].Destination
	})
	return keys
}
