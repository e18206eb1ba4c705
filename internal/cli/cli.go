package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ugl-courses/internal/aggregate"
	"github.com/pfrederiksen/ugl-courses/internal/config"
	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/export"
	"github.com/pfrederiksen/ugl-courses/internal/filter"
	"github.com/pfrederiksen/ugl-courses/internal/logger"
	"github.com/pfrederiksen/ugl-courses/internal/mailer"
	"github.com/pfrederiksen/ugl-courses/internal/metrics"
	"github.com/pfrederiksen/ugl-courses/internal/scraper"
	"github.com/pfrederiksen/ugl-courses/internal/server"
	"github.com/pfrederiksen/ugl-courses/internal/source"
	"github.com/pfrederiksen/ugl-courses/internal/stats"
	"github.com/pfrederiksen/ugl-courses/internal/textnorm"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	// ExitSourcesDown means no source could be fetched.
	ExitSourcesDown = 2
)

// ErrAllSourcesFailed is returned when every configured source failed.
var ErrAllSourcesFailed = errors.New("all sources failed")

// RunnerFactory builds the aggregation pipeline for a configuration.
type RunnerFactory func(cfg *config.Config, m *metrics.Metrics) (server.Runner, error)

type rootOptions struct {
	configFile string
	envFile    string
	logFormat  string
	verbose    bool

	newRunner RunnerFactory
	now       func() time.Time
	opener    mailer.Opener
}

type filterFlags struct {
	input   filter.Input
	all     bool
	sortArg string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.input.Weeks, "weeks", "", "Weeks to include, e.g. 10,12-14")
	cmd.Flags().StringVar(&f.input.MaxPrice, "max-price", "", "Maximum price in SEK")
	cmd.Flags().StringVar(&f.input.From, "from", "", "Town you travel from, e.g. Stockholm")
	cmd.Flags().StringVar(&f.input.Mode, "mode", "", "Travel mode: car or transit")
	cmd.Flags().StringVar(&f.input.Budget, "budget", "", "Maximum travel time in minutes")
	cmd.Flags().BoolVar(&f.all, "all", false, "Show every course, ignoring filters")
	cmd.Flags().StringVar(&f.sortArg, "sort", "date", "Sort order: date, price, week, venue or source")
}

// app is the pipeline wired from configuration.
type app struct {
	cfg     *config.Config
	runner  server.Runner
	engine  *filter.Engine
	metrics *metrics.Metrics
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{
		newRunner: NewRunner,
		now:       time.Now,
	})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	list := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "ugl-courses",
		Short: "Find and compare scheduled UGL courses",
		Long: `A CLI tool that collects UGL course dates from several providers,
normalizes them into one list and filters it by week, price and travel time.
Selected courses can be exported as a summary, CSV or calendar file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, list, FormatText)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with UGL_* overrides")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	list.register(cmd)

	cmd.AddCommand(
		newListCmd(opts),
		newExportCmd(opts),
		newStatsCmd(opts),
		newServeCmd(opts),
		newSourcesCmd(opts),
	)
	return cmd
}

// NewRunner wires the HTTP fetcher, the enabled source adapters and the aggregator.
func NewRunner(cfg *config.Config, m *metrics.Metrics) (server.Runner, error) {
	fetcher := scraper.New(scraper.Options{
		Timeout:   cfg.Fetch.Timeout,
		Retries:   cfg.Fetch.Retries,
		UserAgent: cfg.Fetch.UserAgent,
		Cache:     scraper.NewCache(cfg.Fetch.CacheSize, cfg.Fetch.CacheTTL),
	})
	adapters, err := source.FromConfig(cfg.Sources, fetcher)
	if err != nil {
		return nil, fmt.Errorf("building sources: %w", err)
	}
	return aggregate.New(adapters,
		aggregate.WithConcurrency(cfg.Fetch.Concurrency),
		aggregate.WithMetrics(m),
	), nil
}

// loadConfig reads the configuration and applies the logging flags.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.Options{File: o.configFile, EnvFile: o.envFile})
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format := logger.Format(strings.ToLower(cfg.Log.Format))
	if format != logger.FormatText && format != logger.FormatJSON {
		return nil, fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr(), format))
	return cfg, nil
}

func (o *rootOptions) setup(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	runner, err := o.newRunner(cfg, m)
	if err != nil {
		return nil, err
	}

	engine := filter.NewEngine()
	engine.PriceTolerance = cfg.Filter.PriceTolerance
	engine.LookaheadWeeks = cfg.Filter.LookaheadWeeks
	if o.now != nil {
		engine.Now = o.now
	}

	logger.Debug("Configuration loaded", logger.Fields{
		"sources":     strings.Join(runner.Sources(), ","),
		"concurrency": cfg.Fetch.Concurrency,
		"timeout":     cfg.Fetch.Timeout.String(),
	})
	return &app{cfg: cfg, runner: runner, engine: engine, metrics: m}, nil
}

// collect runs the pipeline and applies the filter flags.
func (a *app) collect(ctx context.Context, f *filterFlags) (*OutputResult, error) {
	order, err := ParseSortOrder(f.sortArg)
	if err != nil {
		return nil, err
	}

	result := a.runner.Run(ctx)
	out := &OutputResult{
		FetchedAt: result.FetchedAt,
		Total:     len(result.Records),
		ShowAll:   f.all,
	}
	for _, failure := range result.Failures {
		out.Failures = append(out.Failures, failure.Error())
	}
	if len(result.Failures) > 0 && len(result.Failures) == len(a.runner.Sources()) {
		return out, fmt.Errorf("%w: %s", ErrAllSourcesFailed, strings.Join(out.Failures, "; "))
	}

	if f.all {
		out.Records = make([]course.Record, 0, len(result.Records))
		for _, rec := range result.Records {
			out.Records = append(out.Records, rec.Clone())
		}
	} else {
		criteria, diags := filter.ParseCriteria(f.input)
		for _, d := range diags {
			logger.Warn("Ignoring filter input", logger.Fields{"field": d.Field, "input": d.Input}, d)
			out.Diagnostics = append(out.Diagnostics, d.Error())
		}
		out.Criteria = criteria
		out.Records = a.engine.Apply(result.Records, criteria)
	}

	sortRecords(out.Records, order)
	out.Count = len(out.Records)
	a.metrics.SetFilterResults(out.Count)
	return out, nil
}

func newListCmd(opts *rootOptions) *cobra.Command {
	flags := &filterFlags{}
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses matching the filters",
		Long: `List courses matching the filters. Without filters, courses in the
next weeks are shown. The row numbers are what "export --select" refers to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ParseOutputFormat(strings.ToLower(format))
			if err != nil {
				return err
			}
			return runList(cmd, opts, flags, f)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or csv")
	return cmd
}

func runList(cmd *cobra.Command, opts *rootOptions, flags *filterFlags, format OutputFormat) error {
	a, err := opts.setup(cmd)
	if err != nil {
		return err
	}

	result, err := a.collect(cmd.Context(), flags)
	if err != nil {
		return err
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, format, opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

type exportFlags struct {
	filterFlags
	selection string
	to        string
	name      string
	phone     string
	csvFile   string
	icsFile   string
	mailto    bool
	html      bool
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export selected courses as a summary",
		Long: `Export the courses numbered by "list" (with the same filter flags) as a
summary for the recipient. The summary is printed unless --mailto is given,
which hands it to the mail client instead. --csv and --ics also write the
selection to files.`,
		Example: `  ugl-courses export --weeks 10-14 --select 1,3 --to anna@example.se --name Anna
  ugl-courses export --all --select 2 --to anna@example.se --name Anna --ics kurser.ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&flags.selection, "select", "", "Row numbers to export, e.g. 1,3-4 (required)")
	cmd.Flags().StringVar(&flags.to, "to", "", "Recipient e-mail address (required)")
	cmd.Flags().StringVar(&flags.name, "name", "", "Recipient name (required)")
	cmd.Flags().StringVar(&flags.phone, "phone", "", "Recipient phone number")
	cmd.Flags().StringVar(&flags.csvFile, "csv", "", "Also write the selection to this CSV file")
	cmd.Flags().StringVar(&flags.icsFile, "ics", "", "Also write the selection to this iCalendar file")
	cmd.Flags().BoolVar(&flags.mailto, "mailto", false, "Open the summary as a mailto: link")
	cmd.Flags().BoolVar(&flags.html, "html", false, "Print the HTML part as well")
	cmd.MarkFlagRequired("select")
	return cmd
}

func runExport(cmd *cobra.Command, opts *rootOptions, flags *exportFlags) error {
	a, err := opts.setup(cmd)
	if err != nil {
		return err
	}

	listed, err := a.collect(cmd.Context(), &flags.filterFlags)
	if err != nil {
		return err
	}
	selected, err := selectRows(listed.Records, flags.selection)
	if err != nil {
		return err
	}

	summary, err := export.Build(export.Request{
		Recipient: flags.to,
		Name:      flags.name,
		Phone:     flags.phone,
		Subject:   a.cfg.Mail.Subject,
		Selected:  selected,
	})
	if err != nil {
		return err
	}

	if flags.csvFile != "" {
		if err := writeFile(flags.csvFile, func(w io.Writer) error {
			return export.WriteCSV(w, selected)
		}); err != nil {
			return err
		}
	}
	if flags.icsFile != "" {
		if err := writeFile(flags.icsFile, func(w io.Writer) error {
			n, err := export.WriteICS(w, selected, opts.now())
			if err == nil && n < len(selected) {
				logger.Warn("Courses without dates left out of calendar", logger.Fields{"skipped": len(selected) - n}, nil)
			}
			return err
		}); err != nil {
			return err
		}
	}

	var sender mailer.Sender = mailer.NewDryRun(cmd.OutOrStdout(), flags.html)
	if flags.mailto {
		open := opts.opener
		if open == nil {
			open = mailer.PrintOpener(cmd.OutOrStdout())
		}
		sender = mailer.NewMailto(open)
	}
	if err := sender.Send(cmd.Context(), mailer.FromSummary(summary, a.cfg.Mail.From)); err != nil {
		return fmt.Errorf("sending summary: %w", err)
	}
	return nil
}

// selectRows picks the 1-based row numbers in spec, in list order.
func selectRows(records []course.Record, spec string) ([]course.Record, error) {
	if len(records) == 0 {
		return nil, errors.New("no courses to select from")
	}
	rows := textnorm.SplitRangeSpec(spec, 1, len(records))
	if rows.Len() == 0 {
		return nil, fmt.Errorf("invalid selection %q: no row numbers in 1-%d", spec, len(records))
	}

	selected := make([]course.Record, 0, rows.Len())
	for _, n := range rows.Sorted() {
		selected = append(selected, records[n-1])
	}
	return selected, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	logger.Info("File written", logger.Fields{"path": path})
	return nil
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the most common locations and prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			result := a.runner.Run(cmd.Context())

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, export.Table([]string{"Location", "Courses"}, countRows(stats.TopLocations(result.Records, top))))
			fmt.Fprintln(w, export.Table([]string{"Price", "Courses"}, countRows(stats.TopPrices(result.Records, top))))
			fmt.Fprintf(w, "Total: %d courses\n", len(result.Records))
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", stats.DefaultTop, "Number of entries per table")
	return cmd
}

func countRows(counts []stats.Count) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Value, strconv.Itoa(c.Count)})
	}
	return rows
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	var send bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the course list as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			srvOpts := server.Options{
				Runner:  a.runner,
				Engine:  a.engine,
				Metrics: a.metrics,
				From:    a.cfg.Mail.From,
				Subject: a.cfg.Mail.Subject,
			}
			if send {
				srvOpts.Sender = mailer.NewDryRun(cmd.OutOrStdout(), false)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(srvOpts).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&send, "print-mail", false, "Print exported summaries to stdout")
	return cmd
}

func newSourcesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show the configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, 3)
			for _, src := range cfg.Sources.All() {
				enabled := "no"
				if src.Enabled {
					enabled = "yes"
				}
				rows = append(rows, []string{src.Kind, src.ID, enabled, src.URL})
			}
			fmt.Fprintln(cmd.OutOrStdout(), export.Table([]string{"Kind", "ID", "Enabled", "URL"}, rows))
			return nil
		},
	}
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx := context.Background()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, ErrAllSourcesFailed) {
			return ExitSourcesDown
		}
		return ExitError
	}
	return ExitSuccess
}
