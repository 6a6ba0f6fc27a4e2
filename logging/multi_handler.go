package logging

import (
	"context"
	"errors"
	"log/slog"
)

// multiHandler 将同一条日志记录分发给多个下游 Handler，
// 用于文件与控制台双写。单个下游失败不影响其余下游。
type multiHandler struct {
	targets []slog.Handler
}

func newMultiHandler(targets ...slog.Handler) slog.Handler {
	return &multiHandler{targets: targets}
}

// Enabled 只要任一下游接受该级别就返回 true。
func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, t := range h.targets {
		if t.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle 向全部下游分发记录副本，并聚合各自的写入错误。
func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, t := range h.targets {
		if !t.Enabled(ctx, record.Level) {
			continue
		}
		if err := t.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.targets))
	for i, t := range h.targets {
		next[i] = t.WithAttrs(attrs)
	}
	return &multiHandler{targets: next}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.targets))
	for i, t := range h.targets {
		next[i] = t.WithGroup(name)
	}
	return &multiHandler{targets: next}
}
