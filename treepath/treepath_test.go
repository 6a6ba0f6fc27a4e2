package treepath

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/wyfcoding/rangekit/segtree"
	"github.com/wyfcoding/rangekit/xerrors"
)

// buildAdj 从父节点数组构造无向邻接表。
func buildAdj(parents []int) [][]int {
	adj := make([][]int, len(parents))
	for v, p := range parents {
		if p < 0 {
			continue
		}
		adj[v] = append(adj[v], p)
		adj[p] = append(adj[p], v)
	}
	return adj
}

// randomTree 生成 n 个节点、以 0 为根的随机树。
func randomTree(n int, rng *rand.Rand) ([]int, [][]int) {
	parents := make([]int, n)
	parents[0] = -1
	for v := 1; v < n; v++ {
		parents[v] = rng.Intn(v)
	}
	return parents, buildAdj(parents)
}

// naiveLCA 沿父指针逐步上爬。
func naiveLCA(parents, depth []int, u, v int) int {
	for depth[u] > depth[v] {
		u = parents[u]
	}
	for depth[v] > depth[u] {
		v = parents[v]
	}
	for u != v {
		u, v = parents[u], parents[v]
	}
	return u
}

func depths(parents []int) []int {
	depth := make([]int, len(parents))
	// parents[v] < v 对随机树成立，顺序扫一遍即可。
	for v := 1; v < len(parents); v++ {
		depth[v] = depth[parents[v]] + 1
	}
	return depth
}

func TestLCASmall(t *testing.T) {
	//        0
	//       / \
	//      1   2
	//     / \   \
	//    3   4   5
	adj := buildAdj([]int{-1, 0, 0, 1, 1, 2})
	l, err := NewLCA(adj, 0)
	if err != nil {
		t.Fatalf("NewLCA: %v", err)
	}

	cases := []struct{ u, v, want int }{
		{3, 4, 1},
		{3, 5, 0},
		{1, 5, 0},
		{3, 1, 1},
		{4, 4, 4},
		{0, 5, 0},
	}
	for _, c := range cases {
		got, err := l.Find(c.u, c.v)
		if err != nil {
			t.Fatalf("Find(%d, %d): %v", c.u, c.v, err)
		}
		if got != c.want {
			t.Errorf("Find(%d, %d) = %d, want %d", c.u, c.v, got, c.want)
		}
	}

	if d, _ := l.Depth(5); d != 2 {
		t.Errorf("Depth(5) = %d, want 2", d)
	}
	if a, _ := l.KthAncestor(3, 2); a != 0 {
		t.Errorf("KthAncestor(3, 2) = %d, want 0", a)
	}
	if a, _ := l.KthAncestor(3, 5); a != -1 {
		t.Errorf("KthAncestor(3, 5) = %d, want -1", a)
	}
}

func TestLCACrossCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(101))
	for _, n := range []int{1, 2, 10, 64, 200} {
		parents, adj := randomTree(n, rng)
		depth := depths(parents)
		l, err := NewLCA(adj, 0)
		if err != nil {
			t.Fatalf("n=%d: NewLCA: %v", n, err)
		}

		for i := 0; i < 500; i++ {
			u, v := rng.Intn(n), rng.Intn(n)
			got, err := l.Find(u, v)
			if err != nil {
				t.Fatalf("Find(%d, %d): %v", u, v, err)
			}
			if want := naiveLCA(parents, depth, u, v); got != want {
				t.Fatalf("n=%d: Find(%d, %d) = %d, want %d", n, u, v, got, want)
			}
		}
	}
}

func TestLCAErrors(t *testing.T) {
	if _, err := NewLCA(nil, 0); !errors.Is(err, xerrors.ErrEmptyData) {
		t.Errorf("NewLCA(nil) error = %v, want ErrEmptyData", err)
	}
	if _, err := NewLCA(make([][]int, 3), 3); !errors.Is(err, xerrors.ErrNotInTree) {
		t.Errorf("root out of range error = %v, want ErrNotInTree", err)
	}
	// Two disconnected components.
	if _, err := NewLCA(buildAdj([]int{-1, 0, -1, 2}), 0); !errors.Is(err, xerrors.ErrNotConnected) {
		t.Errorf("disconnected error = %v, want ErrNotConnected", err)
	}

	l, _ := NewLCA(buildAdj([]int{-1, 0}), 0)
	if _, err := l.Find(0, 2); !errors.Is(err, xerrors.ErrNotInTree) {
		t.Errorf("Find(0, 2) error = %v, want ErrNotInTree", err)
	}
}

// Path sums cross-checked against walking the naive parent chain.
func TestHLDPathCrossCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(102))

	for _, n := range []int{1, 2, 10, 64, 150} {
		parents, adj := randomTree(n, rng)
		depth := depths(parents)

		vals := make([]int64, n)
		leaves := make([]segtree.SumLen, n)
		for i := range vals {
			vals[i] = rng.Int63n(100)
			leaves[i] = segtree.SumLeaf(vals[i])
		}

		h, err := NewHLD[segtree.SumLen, int64](segtree.SumAdd{}, adj, 0, leaves)
		if err != nil {
			t.Fatalf("n=%d: NewHLD: %v", n, err)
		}

		pathSum := func(u, v int) int64 {
			anc := naiveLCA(parents, depth, u, v)
			sum := vals[anc]
			for x := u; x != anc; x = parents[x] {
				sum += vals[x]
			}
			for x := v; x != anc; x = parents[x] {
				sum += vals[x]
			}
			return sum
		}
		pathAdd := func(u, v int, delta int64) {
			anc := naiveLCA(parents, depth, u, v)
			vals[anc] += delta
			for x := u; x != anc; x = parents[x] {
				vals[x] += delta
			}
			for x := v; x != anc; x = parents[x] {
				vals[x] += delta
			}
		}

		for step := 0; step < 400; step++ {
			u, v := rng.Intn(n), rng.Intn(n)
			if rng.Intn(2) == 0 {
				delta := rng.Int63n(20) - 10
				if err := h.UpdatePath(u, v, delta); err != nil {
					t.Fatalf("UpdatePath(%d, %d): %v", u, v, err)
				}
				pathAdd(u, v, delta)
			} else {
				got, err := h.QueryPath(u, v)
				if err != nil {
					t.Fatalf("QueryPath(%d, %d): %v", u, v, err)
				}
				if want := pathSum(u, v); got.Sum != want {
					t.Fatalf("n=%d step %d: QueryPath(%d, %d) = %d, want %d", n, step, u, v, got.Sum, want)
				}
			}
		}

		for v := 0; v < n; v++ {
			got, err := h.Value(v)
			if err != nil {
				t.Fatalf("Value(%d): %v", v, err)
			}
			if got.Sum != vals[v] {
				t.Errorf("n=%d: Value(%d) = %d, want %d", n, v, got.Sum, vals[v])
			}
		}
	}
}

func TestHLDSubtree(t *testing.T) {
	rng := rand.New(rand.NewSource(103))
	const n = 80

	parents, adj := randomTree(n, rng)
	vals := make([]int64, n)
	leaves := make([]segtree.SumLen, n)
	for i := range vals {
		vals[i] = rng.Int63n(100)
		leaves[i] = segtree.SumLeaf(vals[i])
	}

	h, err := NewHLD[segtree.SumLen, int64](segtree.SumAdd{}, adj, 0, leaves)
	if err != nil {
		t.Fatalf("NewHLD: %v", err)
	}

	inSubtree := func(root, x int) bool {
		for ; x != -1; x = parents[x] {
			if x == root {
				return true
			}
		}
		return false
	}

	for step := 0; step < 200; step++ {
		v := rng.Intn(n)
		if rng.Intn(2) == 0 {
			delta := rng.Int63n(10)
			if err := h.UpdateSubtree(v, delta); err != nil {
				t.Fatalf("UpdateSubtree(%d): %v", v, err)
			}
			for x := 0; x < n; x++ {
				if inSubtree(v, x) {
					vals[x] += delta
				}
			}
		} else {
			got, err := h.QuerySubtree(v)
			if err != nil {
				t.Fatalf("QuerySubtree(%d): %v", v, err)
			}
			var want int64
			for x := 0; x < n; x++ {
				if inSubtree(v, x) {
					want += vals[x]
				}
			}
			if got.Sum != want {
				t.Fatalf("step %d: QuerySubtree(%d) = %d, want %d", step, v, got.Sum, want)
			}
		}
	}
}

func TestHLDPathMinAssign(t *testing.T) {
	// Chain 0-1-2-3-4 with distinct values.
	adj := buildAdj([]int{-1, 0, 1, 2, 3})
	values := []int64{10, 20, 30, 40, 50}

	h, err := NewHLD[int64, segtree.Assign](segtree.MinAssign{}, adj, 0, values)
	if err != nil {
		t.Fatalf("NewHLD: %v", err)
	}

	if got, _ := h.QueryPath(1, 4); got != 20 {
		t.Errorf("QueryPath(1, 4) = %d, want 20", got)
	}
	if err := h.UpdatePath(2, 3, segtree.AssignTo(5)); err != nil {
		t.Fatalf("UpdatePath: %v", err)
	}
	if got, _ := h.QueryPath(0, 4); got != 5 {
		t.Errorf("QueryPath(0, 4) = %d, want 5", got)
	}
	if got, _ := h.QueryPath(0, 1); got != 10 {
		t.Errorf("QueryPath(0, 1) = %d, want 10", got)
	}
}

func TestHLDErrors(t *testing.T) {
	adj := buildAdj([]int{-1, 0, 0})
	leaves := []segtree.SumLen{segtree.SumLeaf(1), segtree.SumLeaf(2), segtree.SumLeaf(3)}

	if _, err := NewHLD[segtree.SumLen, int64](segtree.SumAdd{}, nil, 0, nil); !errors.Is(err, xerrors.ErrEmptyData) {
		t.Errorf("nil adjacency error = %v, want ErrEmptyData", err)
	}
	if _, err := NewHLD[segtree.SumLen, int64](segtree.SumAdd{}, adj, 0, leaves[:2]); !errors.Is(err, xerrors.ErrInvalidSize) {
		t.Errorf("short values error = %v, want ErrInvalidSize", err)
	}

	h, err := NewHLD[segtree.SumLen, int64](segtree.SumAdd{}, adj, 0, leaves)
	if err != nil {
		t.Fatalf("NewHLD: %v", err)
	}
	if _, err := h.QueryPath(0, 3); !errors.Is(err, xerrors.ErrNotInTree) {
		t.Errorf("QueryPath(0, 3) error = %v, want ErrNotInTree", err)
	}
	if err := h.UpdatePath(-1, 0, 1); !errors.Is(err, xerrors.ErrNotInTree) {
		t.Errorf("UpdatePath(-1, 0) error = %v, want ErrNotInTree", err)
	}
}
