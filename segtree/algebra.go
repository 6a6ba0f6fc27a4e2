// Package segtree 提供一族基于可插拔代数的区间聚合结构：
// 稠密懒标记线段树 (LazyTree)、动态开点线段树 (DynamicTree) 与单点更新线段树 (Tree)。
// 三者共享同一套代数契约 (Algebra)，仅存储与遍历策略不同。
package segtree

import (
	"math"

	"github.com/shopspring/decimal"
)

// Algebra 定义区间聚合结构所需的代数契约。
// T 为区间聚合值类型，U 为区间更新描述类型。
//
// 以下代数律是硬性前置条件，无法在运行时检查；
// 违反它们不会导致崩溃，而是导致静默的错误结果：
//  1. Combine 满足结合律，且以 IdentityValue 为单位元；
//  2. Compose 满足结合律，且以 IdentityUpdate 为单位元；
//  3. 兼容律：Apply(Apply(v, u1), u2) == Apply(v, Compose(u1, u2))，
//     即先后施加两次更新等价于施加一次复合更新，这是懒标记正确性的根基；
//  4. Apply 对 Combine 可分配：覆盖节点的聚合值只接受一次 Apply 调用，
//     若聚合值与区间宽度相关（如区间加之下的区间和），T 必须自行携带宽度，
//     参见 SumAdd 的做法。
//
// 建议使用方针对自定义代数编写随机化的性质测试，而不是依赖任何运行时守卫。
type Algebra[T, U any] interface {
	// Combine 合并两个相邻区间的聚合值。
	Combine(a, b T) T
	// Apply 将一个更新施加到一个聚合值上。
	Apply(v T, u U) T
	// Compose 复合两个更新，u1 先发生，u2 后发生。
	Compose(u1, u2 U) U
	// IdentityValue 返回 Combine 的单位元（空区间的聚合值）。
	IdentityValue() T
	// IdentityUpdate 返回 Compose 的单位元（无效果的更新）。
	IdentityUpdate() U
}

// Spanner 是代数的可选扩展，返回"宽度为 width、从未被更新触达的区间"的聚合值。
// 动态开点树的节点自顶向下物化，无法像稠密树那样由叶子值自底向上携带宽度，
// 因此聚合值与宽度相关的代数（如 SumAdd）必须实现 Spanner 才能用于 DynamicTree；
// 宽度无关的代数（min、max 等）不需要实现，未实现时以 IdentityValue 代替。
type Spanner[T any] interface {
	Span(width int64) T
}

// FuncAlgebra 用闭包组装一个 Algebra，便于在调用侧临时定义代数。
type FuncAlgebra[T, U any] struct {
	CombineFn func(a, b T) T
	ApplyFn   func(v T, u U) T
	ComposeFn func(u1, u2 U) U
	IDValue   T
	IDUpdate  U
}

func (f FuncAlgebra[T, U]) Combine(a, b T) T    { return f.CombineFn(a, b) }
func (f FuncAlgebra[T, U]) Apply(v T, u U) T    { return f.ApplyFn(v, u) }
func (f FuncAlgebra[T, U]) Compose(u1, u2 U) U  { return f.ComposeFn(u1, u2) }
func (f FuncAlgebra[T, U]) IdentityValue() T    { return f.IDValue }
func (f FuncAlgebra[T, U]) IdentityUpdate() U   { return f.IDUpdate }

// SumLen 携带区间宽度的和聚合值。
// 宽度使 Apply 能够把"每元素加 u"正确地作用到整段聚合上。
type SumLen struct {
	Sum int64
	Len int64
}

// SumLeaf 构造单个元素的 SumLen 叶子值。
func SumLeaf(v int64) SumLen {
	return SumLen{Sum: v, Len: 1}
}

// SumAdd 区间求和 + 区间加的代数。
type SumAdd struct{}

func (SumAdd) Combine(a, b SumLen) SumLen {
	return SumLen{Sum: a.Sum + b.Sum, Len: a.Len + b.Len}
}

func (SumAdd) Apply(v SumLen, u int64) SumLen {
	return SumLen{Sum: v.Sum + u*v.Len, Len: v.Len}
}

func (SumAdd) Compose(u1, u2 int64) int64 { return u1 + u2 }
func (SumAdd) IdentityValue() SumLen      { return SumLen{} }
func (SumAdd) IdentityUpdate() int64      { return 0 }

// Span 宽度为 width 的全零区间。
func (SumAdd) Span(width int64) SumLen { return SumLen{Len: width} }

// Assign 赋值更新。Valid 为 false 表示"不改动"，即 Compose 的单位元。
type Assign struct {
	Value int64
	Valid bool
}

// AssignTo 构造一个生效的赋值更新。
func AssignTo(v int64) Assign {
	return Assign{Value: v, Valid: true}
}

// MinAssign 区间最小值 + 区间赋值的代数。单位元为 math.MaxInt64（正无穷）。
type MinAssign struct{}

func (MinAssign) Combine(a, b int64) int64 { return min(a, b) }

func (MinAssign) Apply(v int64, u Assign) int64 {
	if u.Valid {
		return u.Value
	}
	return v
}

// Compose 后发生的赋值覆盖先发生的。
func (MinAssign) Compose(u1, u2 Assign) Assign {
	if u2.Valid {
		return u2
	}
	return u1
}

func (MinAssign) IdentityValue() int64   { return math.MaxInt64 }
func (MinAssign) IdentityUpdate() Assign { return Assign{} }

// MaxAdd 区间最大值 + 区间加的代数。单位元 math.MinInt64 为吸收元，不参与加法。
type MaxAdd struct{}

func (MaxAdd) Combine(a, b int64) int64 { return max(a, b) }

func (MaxAdd) Apply(v int64, u int64) int64 {
	if v == math.MinInt64 {
		return v
	}
	return v + u
}

func (MaxAdd) Compose(u1, u2 int64) int64 { return u1 + u2 }
func (MaxAdd) IdentityValue() int64       { return math.MinInt64 }
func (MaxAdd) IdentityUpdate() int64      { return 0 }

// DecimalSum 携带区间宽度的高精度和聚合值，适用于金额类序列。
type DecimalSum struct {
	Sum decimal.Decimal
	Len int64
}

// DecimalLeaf 构造单个元素的 DecimalSum 叶子值。
func DecimalLeaf(v decimal.Decimal) DecimalSum {
	return DecimalSum{Sum: v, Len: 1}
}

// DecimalSumAdd 高精度区间求和 + 区间加的代数。
type DecimalSumAdd struct{}

func (DecimalSumAdd) Combine(a, b DecimalSum) DecimalSum {
	return DecimalSum{Sum: a.Sum.Add(b.Sum), Len: a.Len + b.Len}
}

func (DecimalSumAdd) Apply(v DecimalSum, u decimal.Decimal) DecimalSum {
	return DecimalSum{Sum: v.Sum.Add(u.Mul(decimal.NewFromInt(v.Len))), Len: v.Len}
}

func (DecimalSumAdd) Compose(u1, u2 decimal.Decimal) decimal.Decimal { return u1.Add(u2) }
func (DecimalSumAdd) IdentityValue() DecimalSum                      { return DecimalSum{} }
func (DecimalSumAdd) IdentityUpdate() decimal.Decimal                { return decimal.Zero }

// Span 宽度为 width 的全零区间。
func (DecimalSumAdd) Span(width int64) DecimalSum { return DecimalSum{Len: width} }
