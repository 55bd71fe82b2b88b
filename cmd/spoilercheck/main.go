package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Octrafic/spoilercheck/internal/config"
	"github.com/Octrafic/spoilercheck/internal/core/conformance"
	"github.com/Octrafic/spoilercheck/internal/core/report"
	"github.com/Octrafic/spoilercheck/internal/core/story"
	"github.com/Octrafic/spoilercheck/internal/fakeapi"
	"github.com/Octrafic/spoilercheck/internal/infra/logger"
)

const (
	exitFailed = 1
	exitSetup  = 2
)

var (
	version = "dev"
)

// exitError carries the process exit code out of a command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

type rootOptions struct {
	debugFilePath string
	verbose       bool
}

type runOptions struct {
	configFile string
	baseURL    string
	username   string
	password   string
	timeout    time.Duration
	filter     string
	format     string
	outputPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "spoilercheck",
		Short:         "spoilercheck - Story Spoiler API conformance suite",
		Long:          `spoilercheck authenticates against a Story Spoiler API and runs the ordered create/edit/list/delete scenarios, reporting pass or fail per scenario.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.debugFilePath, "debug-file", "", "Path to debug log file (enables file logging)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests and scenario results to stderr")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newScenariosCmd())
	cmd.AddCommand(newMockCmd())
	cmd.AddCommand(newReportSchemaCmd())

	return cmd
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the conformance suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Path to YAML config file")
	cmd.Flags().StringVarP(&opts.baseURL, "url", "u", "", "Base URL of the Story Spoiler API")
	cmd.Flags().StringVar(&opts.username, "user", "", "Username for authentication")
	cmd.Flags().StringVar(&opts.password, "pass", "", "Password for authentication")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (default 30s)")
	cmd.Flags().StringVar(&opts.filter, "run", "", "Only run scenarios whose name matches this regexp")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Report format (text|json|yaml)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Write the report to a file instead of stdout")

	return cmd
}

func runSuite(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return &exitError{code: exitSetup, err: err}
	}
	applyFlags(cfg, opts)

	if err := cfg.Validate(); err != nil {
		return &exitError{code: exitSetup, err: fmt.Errorf("invalid configuration: %w", err)}
	}
	if !report.IsValidFormat(opts.format) {
		return &exitError{code: exitSetup, err: fmt.Errorf("invalid format %q: must be one of %v", opts.format, report.Formats)}
	}

	var filter *regexp.Regexp
	if opts.filter != "" {
		filter, err = regexp.Compile(opts.filter)
		if err != nil {
			return &exitError{code: exitSetup, err: fmt.Errorf("invalid --run pattern: %w", err)}
		}
	}

	ctx := cmd.Context()
	started := time.Now()

	logger.Info("Starting conformance run",
		logger.String("base_url", cfg.BaseURL),
		logger.String("user", cfg.Username),
		logger.Duration("timeout", cfg.Timeout))

	client := story.NewClient(cfg.BaseURL, cfg.Timeout)
	fixture, err := conformance.Start(ctx, client, story.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		logger.Error("Authentication failed", logger.Err(err))
		return &exitError{code: exitSetup, err: err}
	}

	results := conformance.NewPipeline(conformance.DefaultSuite()...).
		Filter(filter).
		Run(ctx, fixture)

	rep := report.New(cfg.BaseURL, cfg.Username, started, time.Since(started), results)

	out := cmd.OutOrStdout()
	if opts.outputPath != "" {
		f, err := os.Create(opts.outputPath)
		if err != nil {
			return &exitError{code: exitSetup, err: fmt.Errorf("failed to create report file: %w", err)}
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := report.Write(out, rep, opts.format); err != nil {
		return &exitError{code: exitSetup, err: err}
	}

	if !rep.Summary.OK {
		return &exitError{
			code: exitFailed,
			err:  fmt.Errorf("%d of %d scenarios failed", rep.Summary.Failed+rep.Summary.Errored, rep.Summary.Total),
		}
	}
	return nil
}

// applyFlags overrides config values with explicitly set flags
func applyFlags(cfg *config.Config, opts *runOptions) {
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	if opts.username != "" {
		cfg.Username = opts.username
	}
	if opts.password != "" {
		cfg.Password = opts.password
	}
	if opts.timeout != 0 {
		cfg.Timeout = opts.timeout
	}
}

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the scenarios in run order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for i, sc := range conformance.DefaultSuite() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %-36s %s\n", i+1, sc.Name, sc.Description)
			}
		},
	}
}

func newMockCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve an in-memory Story Spoiler API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := &http.Server{
				Addr:              addr,
				Handler:           fakeapi.New(fakeapi.DefaultOptions()),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving fake Story Spoiler API on %s (user %s / %s)\n",
				addr, config.DefaultUsername, config.DefaultPassword)
			logger.Info("Fake API listening", logger.String("addr", addr))

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	return cmd
}

func newReportSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report-schema",
		Short: "Print the JSON Schema of the json report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := report.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func initLogger(opts *rootOptions) error {
	switch {
	case opts.debugFilePath != "":
		if err := logger.Init(true, opts.debugFilePath); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Info("spoilercheck starting", logger.String("log_file", opts.debugFilePath), logger.Bool("debug", true))
	case opts.verbose:
		if err := logger.Init(false, ""); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	return nil
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	logger.Close()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}
