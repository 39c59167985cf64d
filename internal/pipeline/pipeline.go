// Package pipeline streams CSV records through timestamp normalization and
// the monotonicity filter, one record at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shpitdev/tsnorm/internal/metrics"
	"github.com/shpitdev/tsnorm/internal/monotonic"
	"github.com/shpitdev/tsnorm/internal/timestamp"
	"github.com/shpitdev/tsnorm/internal/transform"
	"github.com/shpitdev/tsnorm/pkg/pipeline/io/local"
	"github.com/shpitdev/tsnorm/pkg/pipeline/redact"
	"github.com/shpitdev/tsnorm/pkg/pipeline/schema"
)

// ContextCheckInterval is how often (in rows) Run checks for cancellation.
var ContextCheckInterval = 1000

// RowSource yields decoded records. Read returns io.EOF at the end of input
// and a *local.MalformedRowError for a record that could not be tokenized.
type RowSource interface {
	Read() ([]string, error)
}

// RowSink accepts records for encoding. Write errors are fatal to the run.
type RowSink interface {
	Write(row []string) error
	Flush() error
}

type Options struct {
	// Column holds the timestamp to normalize.
	Column int
	Header schema.HeaderMode

	// RateLimitRPS paces data rows written to the sink. Set to <=0 to disable.
	RateLimitRPS float64

	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// Rejects, when set, receives every dropped row with the reason prepended.
	Rejects RowSink
}

// Stats summarizes a run.
type Stats struct {
	RowsRead    int
	RowsWritten int
	Dropped     map[string]int

	// Last is the final cursor of the monotonicity filter; zero when no data
	// row was accepted.
	Last timestamp.PointInTime
}

// DroppedTotal is the number of rows excluded from the output.
func (s Stats) DroppedTotal() int {
	n := 0
	for _, v := range s.Dropped {
		n += v
	}
	return n
}

// Run copies src to sink. The first record is passed through untouched when
// opts.Header has a header; every other record has its timestamp column
// normalized and must not be earlier than the last record written. Rows
// failing either check are reported and dropped. Only read, write and
// encoding failures end the run early.
func Run(ctx context.Context, src RowSource, sink RowSink, opts Options) (Stats, error) {
	r := newRunner(opts)

	if err := r.loop(ctx, src, sink); err != nil {
		return r.stats, err
	}

	if err := sink.Flush(); err != nil {
		return r.stats, fmt.Errorf("flush output: %w", err)
	}
	if opts.Rejects != nil {
		if err := opts.Rejects.Flush(); err != nil {
			return r.stats, fmt.Errorf("flush rejects: %w", err)
		}
	}
	if last, ok := r.filter.Last(); ok {
		r.stats.Last = last
	}
	return r.stats, nil
}

type runner struct {
	opts    Options
	log     *zap.Logger
	tf      transform.Transformer
	filter  *monotonic.Filter
	limiter *rate.Limiter
	stats   Stats
}

func newRunner(opts Options) *runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1)
	}

	return &runner{
		opts:    opts,
		log:     logger,
		tf:      transform.Transformer{Column: opts.Column},
		filter:  monotonic.New(),
		limiter: limiter,
		stats:   Stats{Dropped: map[string]int{}},
	}
}

func (r *runner) loop(ctx context.Context, src RowSource, sink RowSink) error {
	needHeader := r.opts.Header.HasHeader()

	for i := 0; ; i++ {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("operation cancelled: %w", err)
			}
		}

		row, err := src.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}

		var malformed *local.MalformedRowError
		switch {
		case errors.As(err, &malformed):
			if needHeader {
				return fmt.Errorf("read header: %w", err)
			}
			r.countRead()
			if err := r.drop(malformed.Line, nil, metrics.ReasonMissingField,
				fmt.Errorf("%w: %v", transform.ErrMissingField, malformed)); err != nil {
				return err
			}
			continue
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}
		r.countRead()

		if needHeader {
			needHeader = false
			if err := r.writeHeader(sink, row); err != nil {
				return err
			}
			continue
		}

		if err := r.process(ctx, src, sink, row); err != nil {
			return err
		}
	}
}

func (r *runner) process(ctx context.Context, src RowSource, sink RowSink, row []string) error {
	line := lineOf(src)

	res, err := r.tf.Transform(row)
	if err != nil {
		reason := metrics.ReasonMissingField
		var pe *timestamp.ParseError
		if errors.As(err, &pe) {
			reason = pe.Kind.String()
		}
		return r.drop(line, row, reason, err)
	}

	if err := r.filter.Admit(res.At); err != nil {
		return r.drop(line, row, metrics.ReasonOutOfOrder, err)
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	if err := sink.Write(res.Row); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	r.stats.RowsWritten++
	if m := r.opts.Metrics; m != nil {
		m.RowsWritten.Inc()
		m.LastAccepted.Set(float64(res.At.Time().Unix()))
	}
	return nil
}

func (r *runner) writeHeader(sink RowSink, row []string) error {
	if err := sink.Write(row); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	r.stats.RowsWritten++
	if m := r.opts.Metrics; m != nil {
		m.RowsWritten.Inc()
	}

	if r.opts.Rejects != nil {
		if err := r.opts.Rejects.Write(append([]string{"reason"}, row...)); err != nil {
			return fmt.Errorf("write rejects header: %w", err)
		}
	}
	return nil
}

// drop reports a row that will not reach the output. The only error it
// returns is a failure to write the rejects file.
func (r *runner) drop(line int, row []string, reason string, cause error) error {
	r.stats.Dropped[reason]++
	if m := r.opts.Metrics; m != nil {
		m.RowsDropped.WithLabelValues(reason).Inc()
	}

	fields := []zap.Field{
		zap.Int("line", line),
		zap.String("reason", reason),
		zap.String("row", redact.Row(row, redact.DefaultMaxRunes)),
		zap.Error(cause),
	}
	var ooo *monotonic.OutOfOrderError
	if errors.As(cause, &ooo) {
		fields = append(fields, zap.Stringer("value", ooo.Value), zap.Stringer("last", ooo.Last))
	}
	r.log.Warn("skipping record", fields...)

	if r.opts.Rejects != nil {
		if err := r.opts.Rejects.Write(append([]string{cause.Error()}, row...)); err != nil {
			return fmt.Errorf("write rejects: %w", err)
		}
	}
	return nil
}

func (r *runner) countRead() {
	r.stats.RowsRead++
	if m := r.opts.Metrics; m != nil {
		m.RowsRead.Inc()
	}
}

type liner interface {
	Line() int
}

func lineOf(src RowSource) int {
	if l, ok := src.(liner); ok {
		return l.Line()
	}
	return 0
}
