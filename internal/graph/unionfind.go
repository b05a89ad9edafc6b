package graph

// UnionFind implements union-find over dense integer ids with path
// compression and union by rank
type UnionFind struct {
	parent []int
	rank   []int
	size   []int
	count  int
}

// NewUnionFind creates n singleton components with ids 0..n-1
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
		size:   make([]int, n),
		count:  n,
	}
	for i := 0; i < n; i++ {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

// Find returns the root of the component containing id, with path compression
func (uf *UnionFind) Find(id int) int {
	root := id
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[id] != root {
		next := uf.parent[id]
		uf.parent[id] = root
		id = next
	}
	return root
}

// Union merges the components containing a and b. Returns true if they were separate.
func (uf *UnionFind) Union(a, b int) bool {
	rootA := uf.Find(a)
	rootB := uf.Find(b)
	if rootA == rootB {
		return false
	}

	if uf.rank[rootA] < uf.rank[rootB] {
		rootA, rootB = rootB, rootA
	}
	uf.parent[rootB] = rootA
	uf.size[rootA] += uf.size[rootB]
	if uf.rank[rootA] == uf.rank[rootB] {
		uf.rank[rootA]++
	}
	uf.count--
	return true
}

// Count returns the number of components
func (uf *UnionFind) Count() int {
	return uf.count
}

// ComponentSizes returns the size of every component, in no particular order
func (uf *UnionFind) ComponentSizes() []int {
	sizes := make([]int, 0, uf.count)
	for i := range uf.parent {
		if uf.parent[i] == i {
			sizes = append(sizes, uf.size[i])
		}
	}
	return sizes
}
