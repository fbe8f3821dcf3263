package topo

// unionFind is a disjoint-set structure over a dense integer arena,
// with path compression and union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

// newUnionFind returns a unionFind with n singleton sets.
func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}

	return uf
}

// find returns the root of x's set. Iterative, with grandparent compression
// to avoid deep recursion.
func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}

	return x
}

// union merges the sets of x and y. Attaches the smaller-rank tree under the
// larger-rank root; equal ranks promote the surviving root.
func (uf *unionFind) union(x, y int) {
	rootX := uf.find(x)
	rootY := uf.find(y)
	if rootX == rootY {
		return
	}
	if uf.rank[rootX] < uf.rank[rootY] {
		uf.parent[rootX] = rootY
	} else {
		uf.parent[rootY] = rootX
		if uf.rank[rootX] == uf.rank[rootY] {
			uf.rank[rootX]++
		}
	}
}
