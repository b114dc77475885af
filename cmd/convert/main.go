// Command convert turns marketplace catalog exports into LR format csv files
// without running the HTTP server.
//
//	convert -marketplace myntra [-proceed] [-out dir] [-mapping mapping.json] file...
//	convert -m a.csv=ajio -m b.xlsx=flipkart a.csv b.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	convertapp "github.com/lrcatalog/mapper/internal/application/convert"
	mappingapp "github.com/lrcatalog/mapper/internal/application/mapping"
	"github.com/lrcatalog/mapper/internal/domain/mapping"
	"github.com/lrcatalog/mapper/internal/infrastructure/config"
	"github.com/lrcatalog/mapper/internal/infrastructure/logger"
	"github.com/lrcatalog/mapper/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Exit codes
const (
	exitOK       = 0
	exitProblems = 1
	exitUsage    = 2
)

// marketplaceFlags collects repeated -m file=marketplace pairs
type marketplaceFlags map[string]string

func (m marketplaceFlags) String() string {
	pairs := make([]string, 0, len(m))
	for file, mp := range m {
		pairs = append(pairs, file+"="+mp)
	}
	return strings.Join(pairs, ",")
}

func (m marketplaceFlags) Set(value string) error {
	file, mp, ok := strings.Cut(value, "=")
	if !ok || file == "" || mp == "" {
		return fmt.Errorf("expected file=marketplace, got %q", value)
	}
	m[file] = mp
	return nil
}

// options are the parsed command line
type options struct {
	marketplace string
	perFile     marketplaceFlags
	proceed     bool
	outDir      string
	mappingPath string
	configPath  string
	logLevel    string
	workers     int
	inputs      []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{perFile: marketplaceFlags{}}

	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.marketplace, "marketplace", "", fmt.Sprintf("Marketplace of every input (%s)", strings.Join(mapping.MarketplaceKeys(), ", ")))
	fs.Var(opts.perFile, "m", "Per-file marketplace as file=marketplace (repeatable)")
	fs.BoolVar(&opts.proceed, "proceed", false, "Write output even when mapped columns are missing")
	fs.StringVar(&opts.outDir, "out", ".", "Directory for LR_ output files")
	fs.StringVar(&opts.mappingPath, "mapping", "", "Mapping JSON file (default: configured mapping store)")
	fs.StringVar(&opts.configPath, "config", "", "Config file (default: ./config.toml if present)")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	fs.IntVar(&opts.workers, "workers", 0, "Files converted concurrently (default: configured workers)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: convert [flags] file...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.inputs = fs.Args()
	if len(opts.inputs) == 0 {
		fs.Usage()
		return nil, fmt.Errorf("at least one input file is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return exitUsage
	}

	log, err := logger.New(logger.CLIConfig(opts.logLevel))
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return exitProblems
	}
	defer logger.Sync(log)

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Error("Failed to load configuration", zap.Error(err))
		return exitProblems
	}

	repo, closeRepo, err := openMappingStore(cfg, opts, log)
	if err != nil {
		log.Error("Failed to open mapping store", zap.Error(err))
		return exitProblems
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Warn("Error closing mapping store", zap.Error(err))
		}
	}()

	mappings := mappingapp.NewService(repo, mappingapp.WithLogger(log))
	if err := mappings.Init(ctx); err != nil {
		log.Error("Failed to load mapping configuration", zap.Error(err))
		return exitProblems
	}

	workers := cfg.Convert.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}
	converter := convertapp.NewService(mappings,
		convertapp.WithLogger(log),
		convertapp.WithWorkers(workers),
		convertapp.WithMaxFileSize(cfg.Convert.MaxFileSize),
	)

	inputs := make([]convertapp.FileInput, 0, len(opts.inputs))
	readFailures := 0
	for _, path := range opts.inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stdout, "%-8s %s: %v\n", convertapp.StatusFailed, path, err)
			readFailures++
			continue
		}
		inputs = append(inputs, convertapp.FileInput{
			Name:        path,
			Marketplace: opts.marketplaceFor(path),
			Data:        data,
		})
	}

	result := converter.ConvertBatch(ctx, inputs, convertapp.Options{ProceedAnyway: opts.proceed})

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		log.Error("Failed to create output directory", zap.String("dir", opts.outDir), zap.Error(err))
		return exitProblems
	}

	writeFailures := 0
	written := make(map[string]bool, len(result.Outcomes))
	for _, out := range result.Outcomes {
		if out.Status.HasOutput() {
			dest := filepath.Join(opts.outDir, out.OutputName)
			if written[strings.ToLower(dest)] {
				fmt.Fprintf(stdout, "%-8s %s: %s already written by another input\n", convertapp.StatusFailed, out.FileName, dest)
				writeFailures++
				continue
			}
			written[strings.ToLower(dest)] = true
			if err := os.WriteFile(dest, out.Output, 0o644); err != nil {
				fmt.Fprintf(stdout, "%-8s %s: write %s: %v\n", convertapp.StatusFailed, out.FileName, dest, err)
				writeFailures++
				continue
			}
			out.OutputName = dest
		}
		report(stdout, out)
	}

	s := result.Summary
	fmt.Fprintf(stdout, "%d files: %d success, %d warning, %d blocked, %d failed\n",
		s.Total+readFailures, s.Success, s.Warning, s.Blocked, s.Failed+readFailures+writeFailures)

	if result.HasProblems() || readFailures > 0 || writeFailures > 0 {
		return exitProblems
	}
	return exitOK
}

// marketplaceFor resolves the marketplace of one input; a -m entry matches
// either the path as given or its base name
func (o *options) marketplaceFor(path string) string {
	if mp, ok := o.perFile[path]; ok {
		return mp
	}
	if mp, ok := o.perFile[filepath.Base(path)]; ok {
		return mp
	}
	return o.marketplace
}

func loadConfig(opts *options) (*config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFile(opts.configPath)
	}
	return config.Load()
}

// openMappingStore uses the -mapping file when given, else the configured backend
func openMappingStore(cfg *config.Config, opts *options, log *zap.Logger) (mapping.Repository, func() error, error) {
	if opts.mappingPath != "" {
		repo, err := persistence.NewFileMappingRepository(opts.mappingPath, persistence.WithFileLogger(log))
		return repo, func() error { return nil }, err
	}
	return persistence.NewMappingRepositoryFactory(cfg, persistence.WithLogger(log)).Create()
}

func report(w io.Writer, out convertapp.FileOutcome) {
	switch out.Status {
	case convertapp.StatusSuccess:
		fmt.Fprintf(w, "%-8s %s -> %s (%d rows)\n", out.Status, out.FileName, out.OutputName, out.RowCount)
	case convertapp.StatusWarning:
		fmt.Fprintf(w, "%-8s %s -> %s (%d rows, missing: %s)\n", out.Status, out.FileName, out.OutputName,
			out.RowCount, strings.Join(out.MissingHeaders, ", "))
	case convertapp.StatusBlocked:
		fmt.Fprintf(w, "%-8s %s (missing: %s; rerun with -proceed to write anyway)\n", out.Status, out.FileName,
			strings.Join(out.MissingHeaders, ", "))
	default:
		fmt.Fprintf(w, "%-8s %s: %s\n", out.Status, out.FileName, out.Error)
	}
}
