// Package rmq 提供静态区间查询表：构建后不可修改的序列上的 O(1) 区间聚合。
// SparseTable 要求运算幂等，DisjointTable 只要求结合律。
package rmq

import (
	"math/bits"

	"github.com/wyfcoding/rangekit/xerrors"
)

// SparseTable 倍增稀疏表。
// 构建 O(n log n)，查询 O(1)。查询通过两个可能重叠的 2 的幂宽块拼出答案，
// 因此运算除满足结合律外还必须幂等（min、max、gcd、按位与/或等）；
// 对非幂等运算（如求和）请使用 DisjointTable。
type SparseTable[T any] struct {
	op   func(a, b T) T
	data [][]T // data[k][i] 覆盖 [i, i+2^k) 的聚合。
	n    int
}

// NewSparseTable 从序列构建稀疏表。运算的幂等性由调用方保证，无法在此检查。
func NewSparseTable[T any](values []T, op func(a, b T) T) (*SparseTable[T], error) {
	if len(values) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	n := len(values)
	levels := bits.Len(uint(n))

	data := make([][]T, levels)
	data[0] = make([]T, n)
	copy(data[0], values)
	for k := 0; k+1 < levels; k++ {
		width := 1 << k
		data[k+1] = make([]T, n)
		for i := 0; i+width < n; i++ {
			data[k+1][i] = op(data[k][i], data[k][i+width])
		}
	}

	return &SparseTable[T]{op: op, data: data, n: n}, nil
}

// Len 返回序列长度。
func (s *SparseTable[T]) Len() int {
	return s.n
}

// Query 返回 [left, right) 的聚合，区间必须非空。
func (s *SparseTable[T]) Query(left, right int) (T, error) {
	var zero T
	if left > right {
		return zero, xerrors.ErrRangeInverted
	}
	if left == right {
		return zero, xerrors.ErrEmptyRange
	}
	if left < 0 || right > s.n {
		return zero, xerrors.ErrRangeOutOfBounds
	}

	k := bits.Len(uint(right-left)) - 1
	return s.op(s.data[k][left], s.data[k][right-(1<<k)]), nil
}
