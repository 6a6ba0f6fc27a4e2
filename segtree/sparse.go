package segtree

import (
	"math"
	"time"

	"github.com/wyfcoding/rangekit/xerrors"
)

// Observer 观察动态开点线段树的内部行为，供指标采集等场景使用。
// 回调在操作线程上同步执行，实现方不应阻塞。
type Observer interface {
	// NodeMaterialized 每物化一个节点回调一次。
	NodeMaterialized()
	// OperationDone 每次 Query/Update 完成后回调。
	OperationDone(op string, elapsed time.Duration)
}

// 操作名称，供 Observer 与指标标签使用。
const (
	OpQuery  = "query"
	OpUpdate = "update"
)

// DynamicTree 动态开点线段树。
// 指针存储，覆盖构造时固定的闭区间定义域 [start, end]（可达 int64 量级），
// 节点仅在更新或查询实际途经时物化，总分配量为 O((更新数+查询数) × log(定义域宽度))。
// 区间一律采用闭区间 [left, right] 约定。
//
// 未物化的子节点在逻辑上等价于一棵从未被更新触达的子树，
// 其聚合值由代数的 Spanner 扩展（或单位元）给出。
// 节点一经物化便不再单独回收，整棵树由 GC 统一释放。
//
// 非并发安全，多 goroutine 访问需由调用方加锁串行化。
type DynamicTree[T, U any] struct {
	alg   Algebra[T, U]
	span  func(width int64) T // 未触达区间的聚合值，见 Spanner。
	root  *dynamicNode[T, U]
	obs   Observer
	start int64
	end   int64
	nodes int64 // 已物化节点数。
}

type dynamicNode[T, U any] struct {
	left    *dynamicNode[T, U]
	right   *dynamicNode[T, U]
	value   T
	lazy    U
	start   int64
	end     int64
	mid     int64
	hasLazy bool
}

// NewDynamicTree 创建覆盖 [start, end] 的动态开点线段树。
// 定义域宽度 end-start+1 必须可用 int64 表示。
func NewDynamicTree[T, U any](alg Algebra[T, U], start, end int64) (*DynamicTree[T, U], error) {
	if start > end {
		return nil, xerrors.ErrDomainInverted
	}
	if w := end - start; w < 0 || w == math.MaxInt64 {
		return nil, xerrors.ErrDomainTooWide
	}
	t := &DynamicTree[T, U]{
		alg:   alg,
		start: start,
		end:   end,
	}
	if sp, ok := any(alg).(Spanner[T]); ok {
		t.span = sp.Span
	} else {
		t.span = func(int64) T { return alg.IdentityValue() }
	}
	t.root = t.newNode(start, end)
	return t, nil
}

// SetObserver 挂载观察者，传 nil 表示卸载。
func (t *DynamicTree[T, U]) SetObserver(obs Observer) {
	t.obs = obs
}

// Domain 返回定义域 [start, end]。
func (t *DynamicTree[T, U]) Domain() (int64, int64) {
	return t.start, t.end
}

// NodeCount 返回已物化的节点数（含根）。
func (t *DynamicTree[T, U]) NodeCount() int64 {
	return t.nodes
}

// Query 返回 [left, right] 内全部位置的 Combine 聚合。
func (t *DynamicTree[T, U]) Query(left, right int64) (T, error) {
	if err := t.checkRange(left, right); err != nil {
		var zero T
		return zero, err
	}
	begin := time.Now()
	result := t.query(t.root, left, right)
	if t.obs != nil {
		t.obs.OperationDone(OpQuery, time.Since(begin))
	}
	return result, nil
}

// Update 通过兼容律将更新 u 施加到 [left, right] 内的每个位置。
func (t *DynamicTree[T, U]) Update(left, right int64, u U) error {
	if err := t.checkRange(left, right); err != nil {
		return err
	}
	begin := time.Now()
	t.update(t.root, left, right, u)
	if t.obs != nil {
		t.obs.OperationDone(OpUpdate, time.Since(begin))
	}
	return nil
}

// Reset 丢弃全部节点并重新物化根，结构回到初始状态。
func (t *DynamicTree[T, U]) Reset() {
	t.nodes = 0
	t.root = t.newNode(t.start, t.end)
}

func (t *DynamicTree[T, U]) checkRange(left, right int64) error {
	if left > right {
		return xerrors.ErrRangeInverted
	}
	if left < t.start || right > t.end {
		return xerrors.ErrRangeOutOfBounds
	}
	return nil
}

func (t *DynamicTree[T, U]) query(n *dynamicNode[T, U], left, right int64) T {
	// 与节点区间不相交。
	if right < n.start || n.end < left {
		return t.alg.IdentityValue()
	}
	// 节点区间被查询区间完全覆盖。
	if left <= n.start && n.end <= right {
		return n.value
	}
	// 部分重叠但子树从未被更新触达：重叠部分的聚合值可直接构造，无需物化。
	if n.left == nil && !n.hasLazy {
		return t.span(min(right, n.end) - max(left, n.start) + 1)
	}
	t.propagate(n)
	return t.alg.Combine(t.query(n.left, left, right), t.query(n.right, left, right))
}

func (t *DynamicTree[T, U]) update(n *dynamicNode[T, U], left, right int64, u U) {
	if right < n.start || n.end < left {
		return
	}
	// 完全覆盖：直接施加到聚合值并把更新扣留在懒标记里，不再下探。
	if left <= n.start && n.end <= right {
		t.applyTo(n, u)
		return
	}
	t.propagate(n)
	t.update(n.left, left, right, u)
	t.update(n.right, left, right, u)
	n.value = t.alg.Combine(n.left.value, n.right.value)
}

// applyTo 将更新施加到节点聚合值；非叶子节点同时复合进懒标记。
func (t *DynamicTree[T, U]) applyTo(n *dynamicNode[T, U], u U) {
	n.value = t.alg.Apply(n.value, u)
	if n.start == n.end {
		return
	}
	if n.hasLazy {
		n.lazy = t.alg.Compose(n.lazy, u)
	} else {
		n.lazy = u
		n.hasLazy = true
	}
}

// propagate 物化缺失的子节点，并把自身标记下推后清除。
// 两个子节点总是同时物化，无论本次操作是否都会途经。
func (t *DynamicTree[T, U]) propagate(n *dynamicNode[T, U]) {
	if n.left == nil {
		n.left = t.newNode(n.start, n.mid)
		n.right = t.newNode(n.mid+1, n.end)
	}
	if !n.hasLazy {
		return
	}
	t.applyTo(n.left, n.lazy)
	t.applyTo(n.right, n.lazy)
	n.hasLazy = false
}

func (t *DynamicTree[T, U]) newNode(start, end int64) *dynamicNode[T, U] {
	t.nodes++
	if t.obs != nil {
		t.obs.NodeMaterialized()
	}
	return &dynamicNode[T, U]{
		value: t.span(end - start + 1),
		start: start,
		end:   end,
		mid:   start + (end-start)/2,
	}
}
