package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/scielo-log-validator-go/internal/config"
	"github.com/olegiv/scielo-log-validator-go/internal/linesource"
	"github.com/olegiv/scielo-log-validator-go/internal/logging"
	"github.com/olegiv/scielo-log-validator-go/internal/pathinfo"
	"github.com/olegiv/scielo-log-validator-go/internal/report"
	"github.com/olegiv/scielo-log-validator-go/internal/validator"
	"github.com/olegiv/scielo-log-validator-go/pkg/logger"
)

const (
	exitSuccess = 0
	exitFailure = 1
	exitInvalid = 2
)

// Version information - injected at build time via ldflags
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	exitCode := exitSuccess
	cmd := newRootCmd(stdout, stderr, &exitCode)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitCode
}

func newRootCmd(stdout, stderr io.Writer, exitCode *int) *cobra.Command {
	cli := &config.CLIOptions{}

	cmd := &cobra.Command{
		Use:   "scielo-log-validator",
		Short: "Validate SciELO web server access-log files",
		Long: `Checks that access-log files are consistent with their names: the date in
the file name must match the day most requests were made, and the requests
must not come mostly from local addresses.

Environment variables can be set in .env file or exported directly.
CLI arguments override environment variables.`,
		Example: `  scielo-log-validator -p /logs/2024-02-20_scielo.1.br.log.gz
  scielo-log-validator -p /logs --include '**/*.log.gz' -o json
  scielo-log-validator -p /logs --check-file-name-only`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithCLI(cli)
			if err != nil {
				return err
			}

			code, err := runValidator(cmd.Context(), cfg, stdout, stderr)
			*exitCode = code
			return err
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(fmt.Sprintf("scielo-log-validator %s\n  commit: %s\n  built:  %s\n", version, gitCommit, buildTime))

	flags := cmd.Flags()
	flags.StringVarP(&cli.Path, "path", "p", "", "file or directory to validate")
	flags.Float64VarP(&cli.SampleSize, "sample-size", "s", 0, "share of lines to parse, in (0, 1] (default from SAMPLE_SIZE or 0.1)")
	flags.BoolVar(&cli.CheckFileNameOnly, "check-file-name-only", false, "validate only the file names and paths")
	flags.StringVarP(&cli.OutputFormat, "output", "o", "", "output format: text, json (default from OUTPUT_FORMAT or text)")
	flags.StringVar(&cli.IncludePattern, "include", "", "glob of files to validate in directory mode (default **)")
	flags.StringVar(&cli.CollectionsConfig, "collections-config", "", "path to collections.json")
	flags.BoolVar(&cli.FailOnInvalid, "fail-on-invalid", false, "exit with status 2 when any file is invalid")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func runValidator(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) (int, error) {
	startTime := time.Now()

	baseLog := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		LogDir:     cfg.LogDir,
		Filename:   logger.DefaultFilename,
		MaxSizeMB:  10,
		MaxBackups: 5,
		Console:    true,
		ConsoleOut: stderr,
	})
	log := logging.NewSecure(baseLog)
	defer func() {
		if err := log.Close(); err != nil {
			_, _ = fmt.Fprintf(stderr, "Failed to close logger: %v\n", err)
		}
	}()

	mode, err := validator.ExecutionMode(cfg.Path)
	if err != nil {
		log.Error().Err(err).Msg("Cannot validate path")
		return exitFailure, err
	}

	log.Info().
		Str("version", version).
		Str("path", cfg.Path).
		Str("mode", string(mode)).
		Float64("sample_size", cfg.SampleSize).
		Bool("file_name_only", cfg.CheckFileNameOnly).
		Msg("Starting SciELO Log Validator")

	registry := linesource.DefaultRegistry()
	registry.SetMaxLineBytes(cfg.MaxLineBytes)

	collections := pathinfo.DefaultCollections()
	if table := cfg.CollectionTable(); table != nil {
		collections = pathinfo.Collections(table)
		log.Info().
			Str("path", cfg.CollectionsPath).
			Int("collections", len(table)).
			Msg("Loaded collections config")
	}

	evaluator := validator.NewEvaluator(validator.Thresholds{
		MinRemotePercent: cfg.MinRemotePercent,
		DaysDelta:        cfg.DaysDelta,
	})
	v := validator.New(registry, evaluator, collections, log)

	renderer, err := report.New(cfg.OutputFormat, stdout)
	if err != nil {
		return exitFailure, err
	}
	if err := renderer.Start(); err != nil {
		return exitFailure, fmt.Errorf("failed to write report: %w", err)
	}

	var totals report.Totals
	emit := func(r *validator.FileResult) error {
		totals.Add(r)
		if err := renderer.Render(r); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	opts := validator.Options{
		SampleFraction: cfg.SampleSize,
		PathOnly:       cfg.CheckFileNameOnly,
	}

	switch mode {
	case validator.ModeFile:
		var result *validator.FileResult
		result, err = v.ValidateFile(ctx, cfg.Path, opts)
		if err == nil {
			err = emit(result)
		}
	default:
		err = v.ValidateTree(ctx, cfg.Path, cfg.IncludePattern, opts, emit)
	}
	if err != nil {
		log.Error().Err(err).Msg("Validation interrupted")
		return exitFailure, err
	}

	if err := renderer.Finish(totals); err != nil {
		return exitFailure, fmt.Errorf("failed to write report: %w", err)
	}

	log.Info().
		Int("files", totals.Files).
		Int("valid", totals.Valid).
		Int("invalid", totals.Invalid).
		Int("failed", totals.Failed).
		Float64("duration_seconds", time.Since(startTime).Seconds()).
		Msg("Validation completed")

	if cfg.FailOnInvalid && totals.Valid != totals.Files {
		return exitInvalid, nil
	}
	return exitSuccess, nil
}
