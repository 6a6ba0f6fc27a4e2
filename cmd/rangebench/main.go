// rangebench 对稠密与动态懒惰线段树执行随机化交叉校验负载，
// 以朴素数组实现为基准逐操作比对结果，并通过 Prometheus 暴露运行指标。
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/wyfcoding/rangekit/config"
	"github.com/wyfcoding/rangekit/logging"
	"github.com/wyfcoding/rangekit/metrics"
	"github.com/wyfcoding/rangekit/segtree"

	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "configs/rangebench.toml", "配置文件路径")
	flag.Parse()

	var conf config.Config
	if err := config.Load(*configPath, &conf); err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logging.InitFromConfig(logging.Config{
		Service:    conf.Server.Name,
		Module:     "rangebench",
		Level:      conf.Log.Level,
		File:       conf.Log.File,
		Console:    conf.Log.Console,
		MaxSize:    conf.Log.MaxSize,
		MaxBackups: conf.Log.MaxBackups,
		MaxAge:     conf.Log.MaxAge,
		Compress:   conf.Log.Compress,
	})
	config.PrintWithMask(&conf)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics(conf.Server.Name)
	m.RegisterBuildInfo(conf.Server.Name, conf.Version)
	if conf.Metrics.Enabled {
		shutdown := m.ExposeHttp(conf.Metrics.Port, conf.Metrics.Path)
		defer shutdown()
		logging.Info(ctx, "metrics exposed", "port", conf.Metrics.Port, "path", conf.Metrics.Path)
	}

	// 进度日志间隔支持配置热更新，分片每轮读取最新值。
	var reportEvery atomic.Int64
	reportEvery.Store(int64(conf.Workload.ReportEvery))
	config.RegisterReloadHook(func(c *config.Config) {
		reportEvery.Store(int64(c.Workload.ReportEvery))
		logging.Info(ctx, "workload config reloaded", "report_every", c.Workload.ReportEvery)
	})

	seed := conf.Workload.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logging.Info(ctx, "workload starting",
		"size", conf.Workload.Size,
		"operations", conf.Workload.Operations,
		"shards", conf.Workload.Shards,
		"seed", seed,
	)

	defer logging.LogDuration(ctx, "workload", "shards", conf.Workload.Shards)()

	g, gctx := errgroup.WithContext(ctx)
	for shard := 0; shard < conf.Workload.Shards; shard++ {
		shard := shard
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(shard)))
			if err := runDenseShard(gctx, &conf.Workload, m, shard, rng, &reportEvery); err != nil {
				return fmt.Errorf("dense shard %d: %w", shard, err)
			}
			if err := runDynamicShard(gctx, &conf.Workload, m, shard, rng); err != nil {
				return fmt.Errorf("dynamic shard %d: %w", shard, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logging.Error(ctx, "workload failed", "error", err)
		os.Exit(1)
	}
	logging.Info(ctx, "workload finished, all shards verified")
}

// runDenseShard 在稠密懒惰树上执行随机区间加/区间求和，并与参考数组逐操作比对。
func runDenseShard(ctx context.Context, w *config.WorkloadConfig, m *metrics.Metrics, shard int, rng *rand.Rand, report *atomic.Int64) error {
	n := w.Size
	ref := make([]int64, n)
	leaves := make([]segtree.SumLen, n)
	for i := range ref {
		ref[i] = rng.Int63n(w.MaxDelta)
		leaves[i] = segtree.SumLeaf(ref[i])
	}

	tree, err := segtree.LazyTreeFrom[segtree.SumLen, int64](segtree.SumAdd{}, leaves)
	if err != nil {
		return err
	}

	ops := m.OpsTotal
	dur := m.OpDuration
	last := time.Now()

	for op := 0; op < w.Operations; op++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		l := rng.Intn(n)
		r := l + rng.Intn(n-l) + 1
		begin := time.Now()

		if rng.Intn(2) == 0 {
			delta := rng.Int63n(2*w.MaxDelta) - w.MaxDelta
			if err := tree.Update(l, r, delta); err != nil {
				return err
			}
			for i := l; i < r; i++ {
				ref[i] += delta
			}
			ops.WithLabelValues("dense", segtree.OpUpdate).Inc()
			dur.WithLabelValues("dense", segtree.OpUpdate).Observe(time.Since(begin).Seconds())
		} else {
			got, err := tree.Query(l, r)
			if err != nil {
				return err
			}
			var want int64
			for i := l; i < r; i++ {
				want += ref[i]
			}
			if got.Sum != want {
				return fmt.Errorf("op %d: sum over [%d, %d) = %d, reference %d", op, l, r, got.Sum, want)
			}
			ops.WithLabelValues("dense", segtree.OpQuery).Inc()
			dur.WithLabelValues("dense", segtree.OpQuery).Observe(time.Since(begin).Seconds())
		}

		if every := time.Duration(report.Load()); every > 0 && time.Since(last) >= every {
			logging.Info(ctx, "dense shard progress", "shard", shard, "done", op+1, "total", w.Operations)
			last = time.Now()
		}
	}
	return nil
}

// runDynamicShard 在巨大域的动态树上执行随机区间赋值/区间最小值，
// 参考实现只记录被触碰过的下标，以验证懒惰物化的正确性。
func runDynamicShard(ctx context.Context, w *config.WorkloadConfig, m *metrics.Metrics, shard int, rng *rand.Rand) error {
	alg := segtree.MinAssign{}
	tree, err := segtree.NewDynamicTree[int64, segtree.Assign](alg, w.DomainStart, w.DomainEnd)
	if err != nil {
		return err
	}
	tree.SetObserver(metrics.NewTreeObserver(m, "dynamic"))

	width := w.DomainEnd - w.DomainStart
	// 参考实现：已赋值区间的列表，查询时线性扫描。
	type span struct {
		lo, hi int64
		val    int64
	}
	var spans []span

	refMin := func(lo, hi int64) int64 {
		best := alg.IdentityValue()
		for _, s := range spans {
			if s.lo <= hi && lo <= s.hi && s.val < best {
				best = s.val
			}
		}
		return best
	}

	for op := 0; op < w.Operations; op++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lo := w.DomainStart + rng.Int63n(width)
		hi := lo + rng.Int63n(width-(lo-w.DomainStart)+1)

		if rng.Intn(2) == 0 {
			val := rng.Int63n(w.MaxDelta)
			if err := tree.Update(lo, hi, segtree.AssignTo(val)); err != nil {
				return err
			}
			// 新赋值覆盖旧区间的重叠部分。
			next := make([]span, 0, len(spans)+1)
			for _, s := range spans {
				if s.hi < lo || hi < s.lo {
					next = append(next, s)
					continue
				}
				if s.lo < lo {
					next = append(next, span{s.lo, lo - 1, s.val})
				}
				if s.hi > hi {
					next = append(next, span{hi + 1, s.hi, s.val})
				}
			}
			spans = append(next, span{lo, hi, val})
		} else {
			got, err := tree.Query(lo, hi)
			if err != nil {
				return err
			}
			if want := refMin(lo, hi); got != want {
				return fmt.Errorf("op %d: min over [%d, %d] = %d, reference %d", op, lo, hi, got, want)
			}
		}
	}

	logging.Info(ctx, "dynamic shard verified", "shard", shard, "nodes", tree.NodeCount())
	return nil
}
