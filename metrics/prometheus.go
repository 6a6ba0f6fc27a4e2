// Package metrics 封装了基于 Prometheus 的指标采集，并提供区间结构的操作监控指标。
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 封装了基于 Prometheus 的指标采集注册表及预定义的标准监控指标。
type Metrics struct {
	registry *prometheus.Registry // 内部独立的 Prometheus 注册中心

	// 预定义的标准指标，减少各业务模块的样板代码
	OpsTotal          *prometheus.CounterVec   // 区间操作总量 (维度: structure, op)
	OpDuration        *prometheus.HistogramVec // 区间操作耗时分布
	NodesMaterialized *prometheus.CounterVec   // 动态树按需分配的节点总数
	BuildInfo         *prometheus.GaugeVec     // 构建信息
}

// NewMetrics 初始化并返回一个新的指标采集器。
// 它会自动注册 Go 运行时指标和进程指标。
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.OpsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "range_ops_total",
		Help: "Total number of range queries and updates",
	}, []string{"structure", "op"})

	m.OpDuration = m.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "range_op_duration_seconds",
		Help:    "Range operation latency in seconds",
		Buckets: prometheus.ExponentialBuckets(1e-7, 4, 12),
	}, []string{"structure", "op"})

	m.NodesMaterialized = m.NewCounterVec(prometheus.CounterOpts{
		Name: "range_nodes_materialized_total",
		Help: "Total number of lazily materialized tree nodes",
	}, []string{"structure"})

	slog.Info("unified metrics registry initialized", "service", serviceName)
	return m
}

// NewCounterVec 创建并注册一个新的计数器指标。
func (m *Metrics) NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

// NewGaugeVec 创建并注册一个新的仪表盘指标。
func (m *Metrics) NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	gv := prometheus.NewGaugeVec(opts, labelNames)
	m.registry.MustRegister(gv)
	return gv
}

// NewHistogramVec 创建并注册一个新的直方图指标。
func (m *Metrics) NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labelNames)
	m.registry.MustRegister(hv)
	return hv
}

// RegisterBuildInfo 注册构建信息指标。
func (m *Metrics) RegisterBuildInfo(serviceName, version string) {
	if m == nil || m.BuildInfo != nil {
		return
	}
	if serviceName == "" {
		serviceName = "unknown"
	}
	if version == "" {
		version = "unknown"
	}

	m.BuildInfo = m.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build information for the service",
	}, []string{"service", "version"})

	m.BuildInfo.WithLabelValues(serviceName, version).Set(1)
}

// Handler 返回用于暴露指标的 HTTP 处理器。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// serveMux 将指标处理器挂载到指定路径，其余路径返回 404。
// 空路径回退到 /metrics。
func (m *Metrics) serveMux(path string) *http.ServeMux {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	return mux
}

// ExposeHttp 在指定端口启动一个独立的 HTTP 服务器，在给定路径上暴露指标数据。
// 返回一个清理函数用于优雅关闭该服务器。
func (m *Metrics) ExposeHttp(port, path string) func() {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: m.serveMux(path),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown metrics server", "error", err)
		}
	}
}
