package segtree

import (
	"github.com/wyfcoding/rangekit/xerrors"
)

// Tree 单点更新线段树。
// 无懒标记，适用于只做单点修改 + 区间查询的静态容量场景；
// 只使用代数契约中的 Combine 与 Apply。区间约定同 LazyTree：0 基左闭右开。
//
// 非并发安全。
type Tree[T, U any] struct {
	alg  Algebra[T, U]
	tree []T // 2n 个槽位，叶子位于 [n, 2n)。
	n    int
}

// NewTree 创建一棵 n 个元素的线段树，
// 元素初始值为 Span(1)，代数未实现 Spanner 时为单位元。
func NewTree[T, U any](alg Algebra[T, U], n int) (*Tree[T, U], error) {
	if n <= 0 {
		return nil, xerrors.ErrInvalidSize
	}
	t := &Tree[T, U]{alg: alg, tree: make([]T, 2*n), n: n}
	leaf := alg.IdentityValue()
	if sp, ok := any(alg).(Spanner[T]); ok {
		leaf = sp.Span(1)
	}
	for i := n; i < 2*n; i++ {
		t.tree[i] = leaf
	}
	for i := n - 1; i > 0; i-- {
		t.tree[i] = alg.Combine(t.tree[2*i], t.tree[2*i+1])
	}
	return t, nil
}

// TreeFrom 从初始序列创建线段树，自底向上构建内部节点。
func TreeFrom[T, U any](alg Algebra[T, U], values []T) (*Tree[T, U], error) {
	if len(values) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	t := &Tree[T, U]{alg: alg, tree: make([]T, 2*len(values)), n: len(values)}
	copy(t.tree[t.n:], values)
	for i := t.n - 1; i > 0; i-- {
		t.tree[i] = alg.Combine(t.tree[2*i], t.tree[2*i+1])
	}
	return t, nil
}

// Len 返回叶子元素个数。
func (t *Tree[T, U]) Len() int {
	return t.n
}

// Query 返回 [left, right) 内全部叶子值的 Combine 聚合。
func (t *Tree[T, U]) Query(left, right int) (T, error) {
	if left > right {
		var zero T
		return zero, xerrors.ErrRangeInverted
	}
	if left < 0 || right > t.n {
		var zero T
		return zero, xerrors.ErrRangeOutOfBounds
	}

	leftAcc, rightAcc := t.alg.IdentityValue(), t.alg.IdentityValue()
	l, r := left+t.n, right+t.n
	for l < r {
		if l%2 == 1 {
			leftAcc = t.alg.Combine(leftAcc, t.tree[l])
			l++
		}
		if r%2 == 1 {
			r--
			rightAcc = t.alg.Combine(t.tree[r], rightAcc)
		}
		l /= 2
		r /= 2
	}

	return t.alg.Combine(leftAcc, rightAcc), nil
}

// Update 将更新 u 施加到位置 pos 的叶子，并自底向上重算其祖先。
func (t *Tree[T, U]) Update(pos int, u U) error {
	if pos < 0 || pos >= t.n {
		return xerrors.ErrIndexOutOfBounds
	}
	i := pos + t.n
	t.tree[i] = t.alg.Apply(t.tree[i], u)
	for i /= 2; i > 0; i /= 2 {
		t.tree[i] = t.alg.Combine(t.tree[2*i], t.tree[2*i+1])
	}
	return nil
}

// Set 直接以新值覆盖位置 pos 的叶子。
func (t *Tree[T, U]) Set(pos int, v T) error {
	if pos < 0 || pos >= t.n {
		return xerrors.ErrIndexOutOfBounds
	}
	i := pos + t.n
	t.tree[i] = v
	for i /= 2; i > 0; i /= 2 {
		t.tree[i] = t.alg.Combine(t.tree[2*i], t.tree[2*i+1])
	}
	return nil
}

// At 读取位置 pos 的叶子值。
func (t *Tree[T, U]) At(pos int) (T, error) {
	if pos < 0 || pos >= t.n {
		var zero T
		return zero, xerrors.ErrIndexOutOfBounds
	}
	return t.tree[pos+t.n], nil
}
