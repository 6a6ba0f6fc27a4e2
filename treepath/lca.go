// Package treepath 把树上的路径问题映射到连续索引区间上：
// LCA 提供倍增法最近公共祖先，HLD 通过重链剖分把任意路径拆成
// 若干条先序编号连续的区间，交由 segtree 引擎做区间聚合与区间更新。
package treepath

import (
	"math/bits"

	"github.com/wyfcoding/rangekit/xerrors"
)

// LCA 倍增法最近公共祖先。
// up 为扁平化数组：up[v*logN + j] 表示节点 v 的第 2^j 个祖先，-1 表示不存在。
type LCA struct {
	up    []int
	depth []int
	n     int
	logN  int
	root  int
}

// NewLCA 从无向邻接表构建 LCA 结构，adj 必须描述一棵以 root 为根的连通树。
func NewLCA(adj [][]int, root int) (*LCA, error) {
	n := len(adj)
	if n == 0 {
		return nil, xerrors.ErrEmptyData
	}
	if root < 0 || root >= n {
		return nil, xerrors.ErrNotInTree
	}

	logN := bits.Len(uint(n))
	l := &LCA{
		up:    make([]int, n*logN),
		depth: make([]int, n),
		n:     n,
		logN:  logN,
		root:  root,
	}

	parent, order, err := traverse(adj, root)
	if err != nil {
		return nil, err
	}

	// 按访问顺序填表，保证祖先行先于后代行就绪。
	for _, v := range order {
		if v == root {
			for j := 0; j < logN; j++ {
				l.up[v*logN+j] = -1
			}
			continue
		}
		l.depth[v] = l.depth[parent[v]] + 1
		l.up[v*logN] = parent[v]
		for j := 1; j < logN; j++ {
			mid := l.up[v*logN+j-1]
			if mid == -1 {
				l.up[v*logN+j] = -1
			} else {
				l.up[v*logN+j] = l.up[mid*logN+j-1]
			}
		}
	}

	return l, nil
}

// Depth 返回节点 v 到根的边数。
func (l *LCA) Depth(v int) (int, error) {
	if v < 0 || v >= l.n {
		return 0, xerrors.ErrNotInTree
	}
	return l.depth[v], nil
}

// KthAncestor 返回 v 的第 k 个祖先，不存在时返回 -1。
func (l *LCA) KthAncestor(v, k int) (int, error) {
	if v < 0 || v >= l.n {
		return 0, xerrors.ErrNotInTree
	}
	if k < 0 {
		return 0, xerrors.ErrRangeInverted
	}
	for j := 0; j < l.logN && v != -1; j++ {
		if k&(1<<j) != 0 {
			v = l.up[v*l.logN+j]
		}
	}
	return v, nil
}

// Find 返回 u 与 v 的最近公共祖先。
func (l *LCA) Find(u, v int) (int, error) {
	if u < 0 || u >= l.n || v < 0 || v >= l.n {
		return 0, xerrors.ErrNotInTree
	}

	// 先把较深的节点提到同一深度。
	if l.depth[u] < l.depth[v] {
		u, v = v, u
	}
	u, _ = l.KthAncestor(u, l.depth[u]-l.depth[v])
	if u == v {
		return u, nil
	}

	// 自高位向低位二分跳跃，停在 LCA 的两个孩子上。
	for j := l.logN - 1; j >= 0; j-- {
		if l.up[u*l.logN+j] != l.up[v*l.logN+j] {
			u = l.up[u*l.logN+j]
			v = l.up[v*l.logN+j]
		}
	}
	return l.up[u*l.logN], nil
}

// traverse 迭代遍历树，返回各节点的父节点与自根开始的访问顺序。
// 迭代实现避免深树导致的栈溢出。
func traverse(adj [][]int, root int) (parent, order []int, err error) {
	n := len(adj)
	parent = make([]int, n)
	order = make([]int, 0, n)
	visited := make([]bool, n)

	parent[root] = -1
	visited[root] = true
	stack := []int{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, v)

		for _, w := range adj[v] {
			if w == parent[v] {
				continue
			}
			if w < 0 || w >= n || visited[w] {
				return nil, nil, xerrors.ErrNotConnected
			}
			visited[w] = true
			parent[w] = v
			stack = append(stack, w)
		}
	}

	if len(order) != n {
		return nil, nil, xerrors.ErrNotConnected
	}
	return parent, order, nil
}
