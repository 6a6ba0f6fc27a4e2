// Package fenwick 提供树状数组（二叉索引树），支持 O(log n) 的单点加与前缀/区间求和。
package fenwick

import (
	"github.com/wyfcoding/rangekit/xerrors"
)

// Number 树状数组可承载的数值类型，必须构成加法群（支持取负）。
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Tree 树状数组。data 采用 1 基索引，data[i] 覆盖以 i 结尾、长为 lowbit(i) 的块。
//
// 非并发安全。
type Tree[T Number] struct {
	data []T
	n    int
}

// New 创建一个 n 个元素、全零的树状数组。
func New[T Number](n int) (*Tree[T], error) {
	if n <= 0 {
		return nil, xerrors.ErrInvalidSize
	}
	return &Tree[T]{data: make([]T, n+1), n: n}, nil
}

// From 从初始序列构建树状数组，构建为 O(n)：
// 每个位置先累加自身，再把部分和直接推给上一级覆盖块。
func From[T Number](values []T) (*Tree[T], error) {
	if len(values) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	t := &Tree[T]{data: make([]T, len(values)+1), n: len(values)}
	for i, v := range values {
		idx := i + 1
		t.data[idx] += v
		if next := idx + idx&(-idx); next <= t.n {
			t.data[next] += t.data[idx]
		}
	}
	return t, nil
}

// Len 返回元素个数。
func (t *Tree[T]) Len() int {
	return t.n
}

// Add 把 delta 加到位置 pos（0 基）。
func (t *Tree[T]) Add(pos int, delta T) error {
	if pos < 0 || pos >= t.n {
		return xerrors.ErrIndexOutOfBounds
	}
	for i := pos + 1; i <= t.n; i += i & (-i) {
		t.data[i] += delta
	}
	return nil
}

// PrefixSum 返回 [0, right) 的和。
func (t *Tree[T]) PrefixSum(right int) (T, error) {
	if right < 0 || right > t.n {
		var zero T
		return zero, xerrors.ErrRangeOutOfBounds
	}
	return t.prefix(right), nil
}

// RangeSum 返回 [left, right) 的和。
func (t *Tree[T]) RangeSum(left, right int) (T, error) {
	var zero T
	if left > right {
		return zero, xerrors.ErrRangeInverted
	}
	if left < 0 || right > t.n {
		return zero, xerrors.ErrRangeOutOfBounds
	}
	return t.prefix(right) - t.prefix(left), nil
}

func (t *Tree[T]) prefix(right int) T {
	var sum T
	for i := right; i > 0; i -= i & (-i) {
		sum += t.data[i]
	}
	return sum
}
