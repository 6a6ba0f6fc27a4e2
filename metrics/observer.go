package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TreeObserver 将区间树的运行事件转换为 Prometheus 指标。
// 实现了 segtree.Observer 接口，structure 标签用于区分同一进程内的多棵树。
type TreeObserver struct {
	ops       *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	nodes     prometheus.Counter
	structure string
}

// NewTreeObserver 基于共享的 Metrics 注册表创建一个树观察器。
func NewTreeObserver(m *Metrics, structure string) *TreeObserver {
	return &TreeObserver{
		ops:       m.OpsTotal,
		duration:  m.OpDuration,
		nodes:     m.NodesMaterialized.WithLabelValues(structure),
		structure: structure,
	}
}

// NodeMaterialized 累计按需分配的节点数。
func (o *TreeObserver) NodeMaterialized() {
	o.nodes.Inc()
}

// OperationDone 记录一次操作的数量与耗时。
func (o *TreeObserver) OperationDone(op string, elapsed time.Duration) {
	o.ops.WithLabelValues(o.structure, op).Inc()
	o.duration.WithLabelValues(o.structure, op).Observe(elapsed.Seconds())
}
