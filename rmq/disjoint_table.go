package rmq

import (
	"math/bits"

	"github.com/wyfcoding/rangekit/xerrors"
)

// DisjointTable 不相交稀疏表。
// 构建 O(n log n)，查询 O(1)，且两个查询块永不重叠，
// 因此只要求运算满足结合律，求和、矩阵乘等非幂等运算同样适用。
//
// 第 k 层以 2^(k+1) 为块宽，块内围绕中心分别存放向左的后缀聚合与向右的前缀聚合；
// 查询两端点最高相异位落在第 k 层时，它们必然位于同一块的中心两侧，
// 各取一段拼接即可。
type DisjointTable[T any] struct {
	op     func(a, b T) T
	values []T
	table  [][]T
	n      int
}

// NewDisjointTable 从序列构建不相交稀疏表。
func NewDisjointTable[T any](values []T, op func(a, b T) T) (*DisjointTable[T], error) {
	if len(values) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	n := len(values)

	d := &DisjointTable[T]{
		op:     op,
		values: make([]T, n),
		n:      n,
	}
	copy(d.values, values)

	levels := bits.Len(uint(n - 1))
	d.table = make([][]T, levels)
	for k := 0; k < levels; k++ {
		d.table[k] = make([]T, n)
		block := 1 << (k + 1)
		for blockStart := 0; blockStart < n; blockStart += block {
			center := blockStart + block/2

			// 中心左侧：自右向左累积后缀。
			hi := min(center, n)
			for x := hi - 1; x >= blockStart; x-- {
				if x == hi-1 {
					d.table[k][x] = d.values[x]
				} else {
					d.table[k][x] = op(d.values[x], d.table[k][x+1])
				}
			}

			// 中心右侧：自左向右累积前缀。
			end := min(blockStart+block, n)
			for x := center; x < end; x++ {
				if x == center {
					d.table[k][x] = d.values[x]
				} else {
					d.table[k][x] = op(d.table[k][x-1], d.values[x])
				}
			}
		}
	}

	return d, nil
}

// Len 返回序列长度。
func (d *DisjointTable[T]) Len() int {
	return d.n
}

// Query 返回 [left, right) 的聚合，区间必须非空。
func (d *DisjointTable[T]) Query(left, right int) (T, error) {
	var zero T
	if left > right {
		return zero, xerrors.ErrRangeInverted
	}
	if left == right {
		return zero, xerrors.ErrEmptyRange
	}
	if left < 0 || right > d.n {
		return zero, xerrors.ErrRangeOutOfBounds
	}

	i, j := left, right-1
	if i == j {
		return d.values[i], nil
	}
	k := bits.Len(uint(i^j)) - 1
	return d.op(d.table[k][i], d.table[k][j]), nil
}
