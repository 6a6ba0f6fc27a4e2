// Package dsu 提供并查集（不相交集合并），近乎常数的合并与查询。
package dsu

import (
	"github.com/wyfcoding/rangekit/xerrors"
)

// DSU 并查集。
// parent[x] < 0 表示 x 是根，其绝对值即集合大小；否则 parent[x] 指向父节点。
// 查找使用路径减半，合并按大小，单次操作均摊 O(α(n))。
//
// 非并发安全。
type DSU struct {
	parent []int
	sets   int
}

// New 创建含 n 个单元素集合的并查集。
func New(n int) (*DSU, error) {
	if n <= 0 {
		return nil, xerrors.ErrInvalidSize
	}
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	return &DSU{parent: parent, sets: n}, nil
}

// Len 返回元素总数。
func (d *DSU) Len() int {
	return len(d.parent)
}

// Count 返回当前集合个数。
func (d *DSU) Count() int {
	return d.sets
}

// Find 返回 x 所在集合的根，沿途做路径减半。
func (d *DSU) Find(x int) (int, error) {
	if x < 0 || x >= len(d.parent) {
		return 0, xerrors.ErrIndexOutOfBounds
	}
	for d.parent[x] >= 0 {
		if p := d.parent[x]; d.parent[p] >= 0 {
			d.parent[x] = d.parent[p]
		}
		x = d.parent[x]
	}
	return x, nil
}

// Union 合并 x 与 y 所在的集合，返回是否发生了实际合并。
func (d *DSU) Union(x, y int) (bool, error) {
	rx, err := d.Find(x)
	if err != nil {
		return false, err
	}
	ry, err := d.Find(y)
	if err != nil {
		return false, err
	}
	if rx == ry {
		return false, nil
	}

	// 小树并入大树。
	if d.parent[rx] > d.parent[ry] {
		rx, ry = ry, rx
	}
	d.parent[rx] += d.parent[ry]
	d.parent[ry] = rx
	d.sets--
	return true, nil
}

// Connected 判断 x 与 y 是否同属一个集合。
func (d *DSU) Connected(x, y int) (bool, error) {
	rx, err := d.Find(x)
	if err != nil {
		return false, err
	}
	ry, err := d.Find(y)
	if err != nil {
		return false, err
	}
	return rx == ry, nil
}

// SetSize 返回 x 所在集合的大小。
func (d *DSU) SetSize(x int) (int, error) {
	root, err := d.Find(x)
	if err != nil {
		return 0, err
	}
	return -d.parent[root], nil
}
