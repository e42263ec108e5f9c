package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Ning0612/Dirdiff/internal/config"
	"github.com/Ning0612/Dirdiff/internal/domain"
	"github.com/Ning0612/Dirdiff/internal/logger"
	"github.com/Ning0612/Dirdiff/internal/progress"
	"github.com/Ning0612/Dirdiff/internal/report"
	"github.com/Ning0612/Dirdiff/internal/service"
)

// Exit codes follow diff(1)
const (
	exitOK          = 0
	exitDifferences = 1
	exitFailure     = 2
)

type options struct {
	configPath     string
	filterDirs     bool
	followSymlinks bool
	noSort         bool
	exclude        []string
	format         string
	timeout        time.Duration
	logLevel       string
	progress       bool
}

// execute runs the CLI and returns the process exit code
func execute(args []string, stdout, stderr io.Writer) int {
	code := exitOK
	cmd := newRootCommand(stdout, stderr, &code)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return code
}

func newRootCommand(stdout, stderr io.Writer, code *int) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "dirdiff [flags] ROOT ROOT [ROOT...]",
		Short: "Compare directory trees by structure and metadata",
		Long: `dirdiff scans every ROOT concurrently and reports each relative path whose
type, size or error state differs between adjacent roots, or that is missing
from any root. File contents are never read.

Exit status is 0 when no differences are found, 1 when there are differences
and 2 when the comparison could not be completed.`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := run(cmd, opts, args, stdout, stderr)
			if err != nil {
				return err
			}
			*code = result
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: search ./config.yaml and user config dirs)")
	flags.BoolVar(&opts.filterDirs, "filter-dirs", true, "hide paths below a differing directory")
	flags.BoolVarP(&opts.followSymlinks, "follow-symlinks", "L", false, "follow symbolic links")
	flags.BoolVar(&opts.noSort, "no-sort", false, "do not sort directory entries while scanning")
	flags.StringSliceVarP(&opts.exclude, "exclude", "x", nil, "glob pattern to skip (repeatable)")
	flags.StringVarP(&opts.format, "format", "f", "", "output format: text, json or yaml")
	flags.DurationVar(&opts.timeout, "timeout", 0, "abort when the scan takes longer than this")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.progress, "progress", true, "show scan progress when stderr is a terminal")

	return cmd
}

func run(cmd *cobra.Command, opts *options, roots []string, stdout, stderr io.Writer) (int, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return exitFailure, err
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return exitFailure, err
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return exitFailure, err
	}

	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		return exitFailure, fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Shutdown()
	}()

	reporter, done := newProgressReporter(stderr, opts.progress)
	defer done()

	svc, err := service.NewDiffService(cfg, reporter)
	if err != nil {
		return exitFailure, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	// Roots arrive already expanded by the shell and are used verbatim
	d, err := svc.BuildDiff(ctx, roots)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return exitFailure, fmt.Errorf("scan did not finish within %s", opts.timeout)
		}
		return exitFailure, err
	}
	done()

	records := d.ComputeRecords(cfg.FilterDescendants)
	err = report.Write(stdout, records, report.Options{
		Format: format,
		Roots:  d.Roots(),
		Stats:  d.Summary(records),
	})
	if err != nil {
		return exitFailure, err
	}

	if len(records) > 0 {
		return exitDifferences, nil
	}
	return exitOK, nil
}

// loadConfig falls back to defaults when no config file exists in the search path.
// An explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == "" && errors.Is(err, domain.ErrConfigNotFound) {
		return config.LoadDefault()
	}
	return nil, fmt.Errorf("failed to load config: %w", err)
}

// applyFlags overrides config values with flags the user actually set
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("filter-dirs") {
		cfg.FilterDescendants = opts.filterDirs
	}
	if flags.Changed("follow-symlinks") {
		cfg.FollowSymlinks = opts.followSymlinks
	}
	if flags.Changed("no-sort") {
		cfg.SortEntries = !opts.noSort
	}
	if flags.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, opts.exclude...)
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
}

// newProgressReporter returns a reporter drawing a status line on stderr when it
// is a terminal. The returned func clears the line and is safe to call twice.
func newProgressReporter(stderr io.Writer, enabled bool) (progress.Reporter, func()) {
	f, ok := stderr.(*os.File)
	if !enabled || !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return progress.NullReporter{}, func() {}
	}

	p := &statusLine{w: f}
	return progress.NewCallbackReporter(p.update), p.clear
}

// statusLine redraws a single terminal line at most every refresh interval
type statusLine struct {
	w       io.Writer
	mu      sync.Mutex
	last    time.Time
	drawn   bool
	cleared bool
}

const refresh = 100 * time.Millisecond

func (s *statusLine) update(u progress.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cleared {
		return
	}
	if u.Type == progress.UpdateEntry && time.Since(s.last) < refresh {
		return
	}
	s.last = time.Now()
	s.drawn = true

	line := progress.FormatUpdate(u)
	if u.Type == progress.UpdateComplete {
		line = fmt.Sprintf("%s %s done, %d entries",
			progress.FormatProgress(int64(u.RootsCompleted), int64(u.RootsTotal), 20),
			u.Root, u.RootEntries)
	}
	fmt.Fprintf(s.w, "\r\033[K%s", line)
}

func (s *statusLine) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drawn && !s.cleared {
		fmt.Fprint(s.w, "\r\033[K")
	}
	s.cleared = true
}
