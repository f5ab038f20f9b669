// Command userreport loads user records and prints descriptive reports.
//
// Usage:
//
//	userreport [flags] [summary|filter|group|avg|top|region|serve]
//
// Reports go to stdout; diagnostics go to stderr. Exit status is 0 on
// success, 1 when no records could be loaded or startup fails, and 2 for an
// unrecognized operation or bad flags.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/JonMunkholm/userreport/internal/config"
	"github.com/JonMunkholm/userreport/internal/core"
	"github.com/JonMunkholm/userreport/internal/logging"
	"github.com/JonMunkholm/userreport/internal/report"
	"github.com/JonMunkholm/userreport/internal/source"
	"github.com/JonMunkholm/userreport/internal/web"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// opServe starts the report server instead of printing one report.
const opServe = "serve"

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	configPath string
	csvPath    string
	source     string
	addr       string
	minAge     int
	topN       int
	version    bool
	op         string

	// set records which flags were given explicitly.
	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}

	flags := flag.NewFlagSet("userreport", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.configPath, "config", "", "YAML config file (default $"+config.FileEnv+")")
	flags.StringVar(&opts.csvPath, "file", "", "input CSV path (overrides USERREPORT_CSV_PATH)")
	flags.StringVar(&opts.source, "source", "", "record source: csv or postgres")
	flags.StringVar(&opts.addr, "addr", "", "listen address for serve, host:port")
	flags.IntVar(&opts.minAge, "min-age", core.DefaultMinAge, "minimum age for the filter report")
	flags.IntVar(&opts.topN, "top", core.DefaultTopN, "number of users in the top report")
	flags.BoolVar(&opts.version, "version", false, "print version and exit")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: userreport [flags] [%s|%s]\n\nFlags:\n", strings.Join(report.Names(), "|"), opServe)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	flags.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	opts.op = string(report.DefaultOperation)
	if flags.NArg() > 0 {
		opts.op = flags.Arg(0)
	}
	return opts, nil
}

// apply copies explicitly given flags over the loaded configuration.
func (o *options) apply(cfg *config.Config) error {
	if o.set["file"] {
		cfg.Input.CSVPath = o.csvPath
	}
	if o.set["source"] {
		cfg.Input.Source = o.source
	}
	if o.set["min-age"] {
		cfg.Report.MinAge = o.minAge
	}
	if o.set["top"] {
		cfg.Report.TopN = o.topN
	}
	if o.set["addr"] {
		return cfg.Server.SetAddr(o.addr)
	}
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	if opts.version {
		fmt.Fprintf(stdout, "userreport %s\n", Version)
		return exitOK
	}

	cfg, err := config.Load(opts.configPath, opts.apply)
	if err != nil {
		logging.New(stderr, "info", "text").Error("failed to load configuration",
			"error", err,
			"code", core.MapError(err).Code,
		)
		return exitFailure
	}

	logging.Setup(stderr, cfg.Logging.Level, cfg.Logging.Format)

	logger := logging.WithFields(ctx, "run_id", uuid.NewString(), "op", opts.op)
	logger.Debug("configuration loaded", "config", cfg.String())

	src, closeSource, err := source.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to open record source", "error", err, "code", core.MapError(err).Code)
		return exitFailure
	}
	defer closeSource()

	// Records load before the operation is checked, so empty input wins over
	// an unrecognized operation.
	records, err := source.Load(ctx, src)
	if err != nil {
		logger.Error(core.FormatUserError(err), "source", src.Name(), "error", err)
		return exitFailure
	}
	logger.Debug("records loaded", "source", src.Name(), "records", len(records))

	params := report.Params{MinAge: cfg.Report.MinAge, TopN: cfg.Report.TopN}

	if opts.op == opServe {
		return serve(ctx, cfg, records, params, logger)
	}

	op, err := report.ParseOperation(opts.op)
	if err != nil {
		fmt.Fprintln(stdout, report.UnknownMessage(opts.op, opServe))
		return exitUsage
	}

	if err := report.Render(stdout, op, records, params); err != nil {
		logger.Error("failed to write report", "error", err)
		return exitFailure
	}
	return exitOK
}

// serve runs the report server until ctx is canceled or SIGINT/SIGTERM
// arrives, then shuts down within the configured timeout.
func serve(ctx context.Context, cfg *config.Config, records []core.UserRecord, params report.Params, logger *slog.Logger) int {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := web.NewServer(records, params, cfg.Server)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Server.Addr(), "records", len(records))
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", "error", err)
		return exitFailure
	case <-ctx.Done():
	}

	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return exitFailure
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			return exitFailure
		}
	case <-time.After(cfg.Server.ShutdownTimeout):
	}

	logger.Info("server stopped")
	return exitOK
}

