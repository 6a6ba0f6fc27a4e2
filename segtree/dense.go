package segtree

import (
	"math/bits"

	"github.com/wyfcoding/rangekit/xerrors"
)

// LazyTree 稠密懒标记线段树。
// 数组存储，容量在构造时固定且不可扩容；查询与更新均为迭代实现，复杂度 O(log n)。
// 区间一律采用 0 基、左闭右开的 [left, right) 约定。
//
// 不变式：任何内部节点的聚合值始终反映其区间内已发生的全部更新；
// 懒标记槽位扣留的只是该效果向子孙节点自身存储的"传播"，而非效果本身。
//
// 非并发安全，多 goroutine 访问需由调用方加锁串行化。
type LazyTree[T, U any] struct {
	alg  Algebra[T, U]
	tree []T    // 2n 个槽位，叶子位于 [n, 2n)，内部节点 i 覆盖 2i 与 2i+1。
	lazy []U    // 待下推标记，仅内部节点 [1, n) 使用，叶子永不持有标记。
	has  []bool // lazy[i] 是否有效；避免对 U 提出 comparable 约束。
	n    int
	log  int // 叶子到根的最大层数，构造时由 bits.Len 一次算出。
}

// NewLazyTree 创建一棵 n 个元素的懒标记线段树，
// 元素初始值为 Span(1)，代数未实现 Spanner 时为单位元。
func NewLazyTree[T, U any](alg Algebra[T, U], n int) (*LazyTree[T, U], error) {
	if n <= 0 {
		return nil, xerrors.ErrInvalidSize
	}
	t := newLazyTree(alg, n)
	leaf := alg.IdentityValue()
	if sp, ok := any(alg).(Spanner[T]); ok {
		leaf = sp.Span(1)
	}
	for i := t.n; i < 2*t.n; i++ {
		t.tree[i] = leaf
	}
	for i := t.n - 1; i > 0; i-- {
		t.tree[i] = alg.Combine(t.tree[2*i], t.tree[2*i+1])
	}
	return t, nil
}

// LazyTreeFrom 从初始序列创建懒标记线段树，自底向上构建内部节点。
func LazyTreeFrom[T, U any](alg Algebra[T, U], values []T) (*LazyTree[T, U], error) {
	if len(values) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	t := newLazyTree(alg, len(values))
	copy(t.tree[t.n:], values)
	for i := t.n - 1; i > 0; i-- {
		t.tree[i] = alg.Combine(t.tree[2*i], t.tree[2*i+1])
	}
	return t, nil
}

func newLazyTree[T, U any](alg Algebra[T, U], n int) *LazyTree[T, U] {
	return &LazyTree[T, U]{
		alg:  alg,
		tree: make([]T, 2*n),
		lazy: make([]U, n),
		has:  make([]bool, n),
		n:    n,
		log:  bits.Len(uint(n)),
	}
}

// Len 返回叶子元素个数。
func (t *LazyTree[T, U]) Len() int {
	return t.n
}

// Query 返回 [left, right) 内全部叶子值的 Combine 聚合。
// left == right 时返回单位元，不触发任何遍历。
func (t *LazyTree[T, U]) Query(left, right int) (T, error) {
	if err := t.checkRange(left, right); err != nil {
		var zero T
		return zero, err
	}
	if left == right {
		return t.alg.IdentityValue(), nil
	}

	l, r := left+t.n, right+t.n

	// 先沿两条边界路径自顶向下推净待下推标记，
	// 之后自底向上的折叠读到的节点值才是最新的。
	t.propagate(l)
	t.propagate(r - 1)

	leftAcc, rightAcc := t.alg.IdentityValue(), t.alg.IdentityValue()
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

// Update 通过兼容律将更新 u 施加到 [left, right) 内的每个叶子。
// left == right 时为空操作。
func (t *LazyTree[T, U]) Update(left, right int, u U) error {
	if err := t.checkRange(left, right); err != nil {
		return err
	}
	if left == right {
		return nil
	}

	l0, r0 := left+t.n, right+t.n

	// 先推净边界路径上的旧标记，再施加本次更新。
	// 顺序不可颠倒：若带着旧标记直接复合，回溯重算时旧标记会被二次施加。
	t.propagate(l0)
	t.propagate(r0 - 1)

	l, r := l0, r0
	for l < r {
		if l%2 == 1 {
			t.applyAt(l, u)
			l++
		}
		if r%2 == 1 {
			r--
			t.applyAt(r, u)
		}
		l /= 2
		r /= 2
	}

	// 沿两条边界路径自底向上重算祖先聚合。
	t.rebuild(l0)
	t.rebuild(r0 - 1)
	return nil
}

// Get 返回叶子 i 当前的值（先推净其祖先的标记）。
func (t *LazyTree[T, U]) Get(i int) (T, error) {
	if i < 0 || i >= t.n {
		var zero T
		return zero, xerrors.ErrIndexOutOfBounds
	}
	pos := i + t.n
	t.propagate(pos)
	return t.tree[pos], nil
}

func (t *LazyTree[T, U]) checkRange(left, right int) error {
	if left > right {
		return xerrors.ErrRangeInverted
	}
	if left < 0 || right > t.n {
		return xerrors.ErrRangeOutOfBounds
	}
	return nil
}

// applyAt 把更新施加到节点 pos 的聚合值上；pos 为内部节点时同时复合进其懒标记。
func (t *LazyTree[T, U]) applyAt(pos int, u U) {
	t.tree[pos] = t.alg.Apply(t.tree[pos], u)
	if pos < t.n {
		t.compose(pos, u)
	}
}

func (t *LazyTree[T, U]) compose(pos int, u U) {
	if t.has[pos] {
		t.lazy[pos] = t.alg.Compose(t.lazy[pos], u)
	} else {
		t.lazy[pos] = u
		t.has[pos] = true
	}
}

// propagate 沿根到叶子槽位 pos 的路径逐层下推标记。
func (t *LazyTree[T, U]) propagate(pos int) {
	for shift := t.log; shift >= 1; shift-- {
		i := pos >> shift
		if i > 0 && i < t.n && t.has[i] {
			t.push(i)
		}
	}
}

// push 将节点 i 的标记下推到两个子节点并清除自身标记。
func (t *LazyTree[T, U]) push(i int) {
	u := t.lazy[i]
	t.applyAt(2*i, u)
	t.applyAt(2*i+1, u)
	t.has[i] = false
}

// rebuild 自底向上重算叶子槽位 pos 的所有祖先。
// 祖先若仍持有标记（本次更新刚复合进去的），在合并子节点后补施一次，
// 维持"节点聚合值反映区间内全部更新"的不变式。
func (t *LazyTree[T, U]) rebuild(pos int) {
	for pos /= 2; pos > 0; pos /= 2 {
		t.tree[pos] = t.alg.Combine(t.tree[2*pos], t.tree[2*pos+1])
		if t.has[pos] {
			t.tree[pos] = t.alg.Apply(t.tree[pos], t.lazy[pos])
		}
	}
}
