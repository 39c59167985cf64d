package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shpitdev/tsnorm/internal/config"
	"github.com/shpitdev/tsnorm/internal/metrics"
	"github.com/shpitdev/tsnorm/internal/pipeline"
	"github.com/shpitdev/tsnorm/internal/version"
	"github.com/shpitdev/tsnorm/pkg/pipeline/io/legacy"
	"github.com/shpitdev/tsnorm/pkg/pipeline/io/local"
	"github.com/shpitdev/tsnorm/pkg/pipeline/schema"
)

// Run converts cfg.Input into cfg.Output. Per-row problems are logged and
// never returned; the error is non-nil only when the run could not finish.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) (stats pipeline.Stats, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return stats, err
	}
	enc, err := legacy.Lookup(cfg.Encoding)
	if err != nil {
		return stats, err
	}

	logger = logger.With(zap.String("run_id", uuid.NewString()))
	runStart := time.Now()
	logger.Info("tsnorm started",
		zap.String("version", version.Current),
		zap.String("input", local.DisplayName(cfg.Input)),
		zap.String("output", local.DisplayName(cfg.Output)),
		zap.String("encoding", legacy.Name(enc)),
		zap.Int("column", cfg.Column),
		zap.Float64("rate_limit_rps", cfg.RateLimitRPS),
	)

	in, err := local.Open(cfg.Input)
	if err != nil {
		return stats, err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := local.Create(cfg.Output)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	counted := legacy.NewCountingReader(in)
	src := local.NewReader(legacy.NewReader(counted, enc))
	sink := local.NewWriter(out, enc)

	m := metrics.New()
	opts := pipeline.Options{
		Column:       cfg.Column,
		Header:       schema.NormalizeHeaderMode(cfg.Header),
		RateLimitRPS: cfg.RateLimitRPS,
		Logger:       logger,
		Metrics:      m,
	}

	var rejects *local.Writer
	if cfg.Rejects != "" {
		rf, rerr := local.Create(cfg.Rejects)
		if rerr != nil {
			return stats, fmt.Errorf("rejects: %w", rerr)
		}
		defer func() {
			if cerr := rf.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close rejects: %w", cerr)
			}
		}()
		rejects = local.NewWriter(rf, enc)
		opts.Rejects = rejects
	}

	stats, err = pipeline.Run(ctx, src, sink, opts)
	m.BytesRead.Set(float64(counted.BytesRead))
	if err != nil {
		logger.Error("tsnorm aborted", zap.Int("rows_read", stats.RowsRead), zap.Error(err))
		return stats, errors.Join(err, writeMetrics(cfg.MetricsFile, m))
	}

	if err := sink.Close(); err != nil {
		return stats, err
	}
	if rejects != nil {
		if err := rejects.Close(); err != nil {
			return stats, fmt.Errorf("rejects: %w", err)
		}
	}

	fields := []zap.Field{
		zap.Int("rows_read", stats.RowsRead),
		zap.Int("rows_written", stats.RowsWritten),
		zap.Int("rows_dropped", stats.DroppedTotal()),
		zap.Any("dropped_by_reason", stats.Dropped),
		zap.Int64("bytes_read", counted.BytesRead),
		zap.Duration("duration", time.Since(runStart).Round(time.Millisecond)),
	}
	if !stats.Last.IsZero() {
		fields = append(fields, zap.Stringer("last_timestamp", stats.Last))
	}
	logger.Info("tsnorm finished", fields...)

	return stats, writeMetrics(cfg.MetricsFile, m)
}

func writeMetrics(path string, m *metrics.Metrics) error {
	if path == "" {
		return nil
	}
	return m.WriteTextfile(path)
}
