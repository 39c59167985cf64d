package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/shpitdev/tsnorm/internal/app"
	"github.com/shpitdev/tsnorm/internal/config"
	"github.com/shpitdev/tsnorm/internal/logging"
	"github.com/shpitdev/tsnorm/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, done, err := parseArgs(args, os.Stderr)
	if done {
		return 0
	}
	if err != nil {
		if !errors.Is(err, errUsage) {
			_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", err)
		}
		return 2
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "logger error: %s\n", err)
		return 2
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := app.Run(ctx, cfg, logger); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "tsnorm: %s\n", err)
		return 1
	}
	return 0
}

var errUsage = errors.New("usage error")

// parseArgs layers flags over the config file and environment. done is true
// when the invocation was fully handled (--help, --version).
func parseArgs(args []string, stderr io.Writer) (cfg config.Config, done bool, err error) {
	fs := flag.NewFlagSet("tsnorm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		usage(stderr)
		fs.PrintDefaults()
	}

	var (
		configPath   string
		input        string
		output       string
		encoding     string
		column       int
		header       string
		rejects      string
		metricsFile  string
		rateLimitRPS float64
		logLevel     string
		logFormat    string
		showVersion  bool
	)
	fs.StringVar(&configPath, "config", "", "YAML or TOML config file")
	fs.StringVar(&input, "input", "", "Input CSV file (default: stdin)")
	fs.StringVar(&input, "i", "", "Shorthand for --input")
	fs.StringVar(&output, "output", "", "Output CSV file (default: stdout)")
	fs.StringVar(&output, "o", "", "Shorthand for --output")
	fs.StringVar(&encoding, "encoding", "", "Text encoding of input and output (env: TSNORM_ENCODING, default shift_jis)")
	fs.IntVar(&column, "column", 0, "Zero-based index of the timestamp column (env: TSNORM_COLUMN)")
	fs.StringVar(&header, "header", "", "first: first row is a header passed through as-is; none: no header (env: TSNORM_HEADER)")
	fs.StringVar(&rejects, "rejects", "", "Write dropped rows with their reason to this CSV file (env: TSNORM_REJECTS)")
	fs.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus textfile metrics here at the end of the run (env: TSNORM_METRICS_FILE)")
	fs.Float64Var(&rateLimitRPS, "rate-limit-rps", 0, "Maximum data rows written per second, 0 disables (env: RATE_LIMIT_RPS)")
	fs.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (env: LOG_LEVEL, default info)")
	fs.StringVar(&logFormat, "log-format", "", "console or json (env: LOG_FORMAT)")
	fs.BoolVar(&showVersion, "version", false, "Print the version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config.Config{}, true, nil
		}
		return config.Config{}, false, errUsage
	}
	if fs.NArg() > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected argument: %s\n\n", fs.Arg(0))
		fs.Usage()
		return config.Config{}, false, errUsage
	}
	if showVersion {
		_, _ = fmt.Fprintln(stderr, version.Current)
		return config.Config{}, true, nil
	}

	cfg, err = config.Load(configPath)
	if err != nil {
		return config.Config{}, false, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input", "i":
			cfg.Input = input
		case "output", "o":
			cfg.Output = output
		case "encoding":
			cfg.Encoding = encoding
		case "column":
			cfg.Column = column
		case "header":
			cfg.Header = header
		case "rejects":
			cfg.Rejects = rejects
		case "metrics-file":
			cfg.MetricsFile = metricsFile
		case "rate-limit-rps":
			cfg.RateLimitRPS = rateLimitRPS
		case "log-level":
			cfg.Log.Level = logLevel
		case "log-format":
			cfg.Log.Format = logFormat
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, false, err
	}
	return cfg, false, nil
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintf(w, `tsnorm: normalize chat-export timestamps in a legacy-encoded CSV stream

Rewrites the timestamp column ("11/25/24, 11:28:34 AM GMT+9") as
"2024/11/25 11:28:34" and drops rows that fail to parse or go back in time.
The first row is treated as a header and copied unchanged.

Usage:
  tsnorm [-i input.csv] [-o output.csv] [flags]

Examples:
  tsnorm -i chat.csv -o chat-normalized.csv
  tsnorm --encoding euc-jp < chat.csv > chat-normalized.csv

Flags:
`)
}
