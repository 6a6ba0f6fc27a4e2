// Package config 提供了统一的配置加载与管理能力，支持环境变量覆盖、
// 结构校验以及基于 fsnotify 的配置热更新。
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/wyfcoding/rangekit/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 全局顶级配置结构.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   toml:"server"`
	Log      LogConfig      `mapstructure:"log"      toml:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  toml:"metrics"`
	Workload WorkloadConfig `mapstructure:"workload" toml:"workload"`
	Version  string         `mapstructure:"version"  toml:"version"`
}

// ServerConfig 定义服务的基础运行参数.
type ServerConfig struct {
	Name        string `mapstructure:"name"        toml:"name"        validate:"required"`
	Environment string `mapstructure:"environment" toml:"environment" validate:"oneof=dev test prod"`
}

// LogConfig 定义日志输出、级别与切割策略.
type LogConfig struct {
	Level      string `mapstructure:"level"       toml:"level"`       // 日志级别。
	File       string `mapstructure:"file"        toml:"file"`        // 日志文件路径。
	Console    bool   `mapstructure:"console"     toml:"console"`     // 写文件时是否同时输出到 stdout。
	MaxSize    int    `mapstructure:"max_size"    toml:"max_size"`    // 单个文件最大大小 (MB)。
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups"` // 最大备份数。
	MaxAge     int    `mapstructure:"max_age"     toml:"max_age"`     // 最大保留天数。
	Compress   bool   `mapstructure:"compress"    toml:"compress"`    // 是否启用压缩。
}

// MetricsConfig 普罗米修斯监控指标暴露配置.
type MetricsConfig struct {
	Port    string `mapstructure:"port"    toml:"port"`
	Path    string `mapstructure:"path"    toml:"path"`
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
}

// WorkloadConfig 定义随机化校验负载的规模与形态.
type WorkloadConfig struct {
	Size        int           `mapstructure:"size"         toml:"size"         validate:"required,min=1"`            // 稠密树的元素个数。
	Operations  int           `mapstructure:"operations"   toml:"operations"   validate:"required,min=1"`            // 每个分片执行的操作数。
	Shards      int           `mapstructure:"shards"       toml:"shards"       validate:"required,min=1,max=256"`    // 并发分片数，每个分片独立建树。
	DomainStart int64         `mapstructure:"domain_start" toml:"domain_start"`                                      // 动态树域起点（含）。
	DomainEnd   int64         `mapstructure:"domain_end"   toml:"domain_end"   validate:"gtfield=DomainStart"`       // 动态树域终点（含）。
	Seed        int64         `mapstructure:"seed"         toml:"seed"`                                              // 随机种子，0 表示按时间取种。
	MaxDelta    int64         `mapstructure:"max_delta"    toml:"max_delta"    validate:"min=1"`                     // 区间加操作的最大增量。
	ReportEvery time.Duration `mapstructure:"report_every" toml:"report_every"`                                      // 进度日志间隔。
}

var vInstance = viper.New()
var onReload []func(*Config)

// RegisterReloadHook 注册配置热更新回调，在配置文件变更并通过校验后触发。
func RegisterReloadHook(hook func(*Config)) {
	if hook == nil {
		return
	}
	onReload = append(onReload, hook)
}

// fireReloadHooks 按注册顺序触发全部热更新回调。
func fireReloadHooks(cfg *Config) {
	for _, hook := range onReload {
		hook(cfg)
	}
}

// Load 全生产级的配置加载逻辑.
func Load(path string, conf any) error {
	vInstance.SetConfigFile(path)
	vInstance.SetConfigType("toml")

	vInstance.SetEnvPrefix("APP")
	vInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vInstance.AutomaticEnv()

	if err := vInstance.ReadInConfig(); err != nil {
		return fmt.Errorf("read config error: %w", err)
	}

	if err := vInstance.Unmarshal(conf); err != nil {
		return fmt.Errorf("unmarshal config error: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(conf); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	vInstance.WatchConfig()
	vInstance.OnConfigChange(func(event fsnotify.Event) {
		slog.Info("detecting config change", "file", event.Name)
		const debounceTimeout = 500 * time.Millisecond
		time.Sleep(debounceTimeout)

		if unmarshalErr := vInstance.Unmarshal(conf); unmarshalErr != nil {
			slog.Error("reload config unmarshal failed", "error", unmarshalErr)

			return
		}

		// 核心优化：如果配置中有日志级别，自动更新全局日志级别
		if c, ok := conf.(*Config); ok {
			logging.SetLevel(c.Log.Level)
		} else {
			// 尝试使用反射获取 Log.Level
			val := reflect.ValueOf(conf)
			if val.Kind() == reflect.Ptr {
				val = val.Elem()
			}
			logField := val.FieldByName("Log")
			if logField.IsValid() {
				levelField := logField.FieldByName("Level")
				if levelField.IsValid() && levelField.Kind() == reflect.String {
					logging.SetLevel(levelField.String())
				}
			}
		}

		if validateErr := validate.Struct(conf); validateErr != nil {
			slog.Error("reload config validation failed", "error", validateErr)
		} else {
			slog.Info("config hot-reloaded and validated successfully")
		}

		if cfg, ok := conf.(*Config); ok {
			fireReloadHooks(cfg)
		}
	})

	return nil
}

// PrintWithMask 脱敏打印当前配置.
func PrintWithMask(conf any) {
	data, err := json.Marshal(conf)
	if err != nil {
		slog.Error("failed to marshal config for printing", "error", err)

		return
	}

	var configMap map[string]any
	if unmarshalErr := json.Unmarshal(data, &configMap); unmarshalErr != nil {
		slog.Error("failed to unmarshal config for masking", "error", unmarshalErr)

		return
	}

	mask(configMap)

	maskedJSON, marshalErr := json.MarshalIndent(configMap, "  ", "  ")
	if marshalErr != nil {
		slog.Error("failed to marshal masked config", "error", marshalErr)

		return
	}

	slog.Info("Current effective configuration", "config", string(maskedJSON))
}

func mask(configMap map[string]any) {
	sensitiveKeys := []string{"password", "secret", "dsn", "key", "token"}

	for key, val := range configMap {
		if subMap, ok := val.(map[string]any); ok {
			mask(subMap)

			continue
		}

		if slice, ok := val.([]any); ok {
			for _, item := range slice {
				if itemMap, ok := item.(map[string]any); ok {
					mask(itemMap)
				}
			}

			continue
		}

		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(strings.ToLower(key), sensitiveKey) {
				configMap[key] = "******"

				break
			}
		}
	}
}

// GetViper 返回底层的 Viper 实例.
func GetViper() *viper.Viper {
	return vInstance
}
