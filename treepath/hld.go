package treepath

import (
	"github.com/wyfcoding/rangekit/segtree"
	"github.com/wyfcoding/rangekit/xerrors"
)

// HLD 重链剖分。
// 把树的每条根到叶路径拆成 O(log n) 条重链，链上节点的先序编号连续，
// 于是任意两点间的路径聚合/更新退化为对底层懒标记线段树的少量区间操作，
// 各区间的部分结果再用同一个 Combine 合并。
//
// 顶点值语义：每个节点携带一个 T 值，路径操作作用于两端点间的全部节点（含端点）。
//
// 非并发安全。
type HLD[T, U any] struct {
	alg      segtree.Algebra[T, U]
	tree     *segtree.LazyTree[T, U]
	preorder []int // 节点 -> 先序编号（线段树下标）。
	head     []int // 节点所在重链的链头。
	parent   []int
	depth    []int
	size     []int
	n        int
}

// NewHLD 从无向邻接表构建重链剖分，values 为各节点的初始值（按节点编号索引）。
func NewHLD[T, U any](alg segtree.Algebra[T, U], adj [][]int, root int, values []T) (*HLD[T, U], error) {
	n := len(adj)
	if n == 0 {
		return nil, xerrors.ErrEmptyData
	}
	if root < 0 || root >= n {
		return nil, xerrors.ErrNotInTree
	}
	if len(values) != n {
		return nil, xerrors.ErrInvalidSize
	}

	parent, order, err := traverse(adj, root)
	if err != nil {
		return nil, err
	}

	h := &HLD[T, U]{
		alg:      alg,
		preorder: make([]int, n),
		head:     make([]int, n),
		parent:   parent,
		depth:    make([]int, n),
		size:     make([]int, n),
		n:        n,
	}

	// 逆访问序累积子树大小，顺便记录深度与每个节点的重儿子。
	heavy := make([]int, n)
	for i := range heavy {
		heavy[i] = -1
		h.size[i] = 1
	}
	for i := len(order) - 1; i >= 1; i-- {
		v := order[i]
		p := parent[v]
		h.size[p] += h.size[v]
		if heavy[p] == -1 || h.size[v] > h.size[heavy[p]] {
			heavy[p] = v
		}
	}
	for _, v := range order {
		if v != root {
			h.depth[v] = h.depth[parent[v]] + 1
		}
	}

	// 先序编号，重儿子最后入栈从而最先弹出、延续父链。
	counter := 0
	h.head[root] = root
	stack := []int{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		h.preorder[v] = counter
		counter++

		for _, w := range adj[v] {
			if w == parent[v] || w == heavy[v] {
				continue
			}
			h.head[w] = w // 轻儿子开新链。
			stack = append(stack, w)
		}
		if heavy[v] != -1 {
			h.head[heavy[v]] = h.head[v]
			stack = append(stack, heavy[v])
		}
	}

	leaves := make([]T, n)
	for v := 0; v < n; v++ {
		leaves[h.preorder[v]] = values[v]
	}
	h.tree, err = segtree.LazyTreeFrom(alg, leaves)
	if err != nil {
		return nil, err
	}

	return h, nil
}

// Len 返回节点个数。
func (h *HLD[T, U]) Len() int {
	return h.n
}

// QueryPath 返回 u 到 v 路径上全部节点值的 Combine 聚合（含两端点）。
func (h *HLD[T, U]) QueryPath(u, v int) (T, error) {
	var zero T
	if u < 0 || u >= h.n || v < 0 || v >= h.n {
		return zero, xerrors.ErrNotInTree
	}

	result := h.alg.IdentityValue()
	for h.head[u] != h.head[v] {
		if h.depth[h.head[u]] < h.depth[h.head[v]] {
			u, v = v, u
		}
		top := h.head[u]
		part, err := h.tree.Query(h.preorder[top], h.preorder[u]+1)
		if err != nil {
			return zero, err
		}
		result = h.alg.Combine(result, part)
		u = h.parent[top]
	}

	// 同链收尾。
	if h.preorder[u] > h.preorder[v] {
		u, v = v, u
	}
	part, err := h.tree.Query(h.preorder[u], h.preorder[v]+1)
	if err != nil {
		return zero, err
	}
	return h.alg.Combine(result, part), nil
}

// UpdatePath 把更新 u 施加到 a 到 b 路径上的全部节点（含两端点）。
func (h *HLD[T, U]) UpdatePath(a, b int, upd U) error {
	if a < 0 || a >= h.n || b < 0 || b >= h.n {
		return xerrors.ErrNotInTree
	}

	for h.head[a] != h.head[b] {
		if h.depth[h.head[a]] < h.depth[h.head[b]] {
			a, b = b, a
		}
		top := h.head[a]
		if err := h.tree.Update(h.preorder[top], h.preorder[a]+1, upd); err != nil {
			return err
		}
		a = h.parent[top]
	}

	if h.preorder[a] > h.preorder[b] {
		a, b = b, a
	}
	return h.tree.Update(h.preorder[a], h.preorder[b]+1, upd)
}

// QuerySubtree 返回以 v 为根的子树内全部节点值的聚合。
// 先序编号下子树恰为连续区间 [preorder[v], preorder[v]+size[v])。
func (h *HLD[T, U]) QuerySubtree(v int) (T, error) {
	if v < 0 || v >= h.n {
		var zero T
		return zero, xerrors.ErrNotInTree
	}
	return h.tree.Query(h.preorder[v], h.preorder[v]+h.size[v])
}

// UpdateSubtree 把更新施加到以 v 为根的子树内全部节点。
func (h *HLD[T, U]) UpdateSubtree(v int, upd U) error {
	if v < 0 || v >= h.n {
		return xerrors.ErrNotInTree
	}
	return h.tree.Update(h.preorder[v], h.preorder[v]+h.size[v], upd)
}

// Value 返回节点 v 当前的值。
func (h *HLD[T, U]) Value(v int) (T, error) {
	if v < 0 || v >= h.n {
		var zero T
		return zero, xerrors.ErrNotInTree
	}
	return h.tree.Get(h.preorder[v])
}
