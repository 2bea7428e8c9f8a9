package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantready/internal/aggregate"
	"github.com/felixgeelhaar/tenantready/internal/auth"
	"github.com/felixgeelhaar/tenantready/internal/collector"
	"github.com/felixgeelhaar/tenantready/internal/config"
	"github.com/felixgeelhaar/tenantready/internal/domain"
	"github.com/felixgeelhaar/tenantready/internal/log"
	"github.com/felixgeelhaar/tenantready/internal/progress"
	"github.com/felixgeelhaar/tenantready/internal/report"
	"github.com/felixgeelhaar/tenantready/internal/rules"
	"github.com/felixgeelhaar/tenantready/internal/ux"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run a readiness assessment",
	Long: `Collect configuration state from the tenant across the requested
service areas, evaluate it against the rule catalog, and write the
prioritized recommendation report.

Credentials come from the environment (TENANT_ID, CLIENT_ID,
CLIENT_SECRET), optionally seeded from a .env file. Areas requiring
delegated access prompt for an interactive sign-in once per run.`,
	RunE: runAssess,
}

var (
	assessConfig     string
	assessEnvFile    string
	assessTenantID   string
	assessAreas      []string
	assessOutputDir  string
	assessFormats    []string
	assessPrint      string
	assessNoProgress bool
	assessTimeout    time.Duration
)

func init() {
	assessCmd.Flags().StringVarP(&assessConfig, "config", "c", "", "path to the YAML configuration file")
	assessCmd.Flags().StringVar(&assessEnvFile, "env-file", "", "path to the .env file (default .env)")
	assessCmd.Flags().StringVar(&assessTenantID, "tenant-id", "", "tenant to assess (overrides TENANT_ID)")
	assessCmd.Flags().StringSliceVarP(&assessAreas, "areas", "a", nil, "service areas to assess (default all)")
	assessCmd.Flags().StringVarP(&assessOutputDir, "output", "o", "", "directory for report files")
	assessCmd.Flags().StringSliceVar(&assessFormats, "report-format", nil, "report file formats (csv, xlsx)")
	assessCmd.Flags().StringVar(&assessPrint, "print", "", "also print the records to stdout (json, yaml)")
	assessCmd.Flags().BoolVar(&assessNoProgress, "no-progress", false, "disable the progress display")
	assessCmd.Flags().DurationVar(&assessTimeout, "timeout", 0, "overall collection deadline (0 means none)")

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	logger := log.DefaultLogger()

	cfg, err := loadAssessConfig()
	if err != nil {
		ux.RenderError(cmd.ErrOrStderr(), err)
		return err
	}

	if err := config.LoadEnv(assessEnvFile); err != nil {
		ux.RenderError(cmd.ErrOrStderr(), err)
		return err
	}
	if assessTenantID != "" {
		os.Setenv(config.EnvTenantID, assessTenantID)
	}
	creds, err := config.CredentialsFromEnv()
	if err != nil {
		ux.RenderError(cmd.ErrOrStderr(), err)
		return err
	}

	areaNames := assessAreas
	if len(areaNames) == 0 {
		areaNames = cfg.Areas
	}
	areas, err := domain.ParseAreas(areaNames)
	if err != nil {
		ux.RenderError(cmd.ErrOrStderr(), err)
		return err
	}

	registry, err := buildRegistry(cfg, cmd)
	if err != nil {
		ux.RenderError(cmd.ErrOrStderr(), err)
		return err
	}

	source := auth.NewOAuthSource(creds.ClientID, creds.ClientSecret).
		WithPrompt(cmd.ErrOrStderr())
	broker := auth.NewBroker(source, creds.TenantID).
		WithNotify(cmd.ErrOrStderr())

	runner := aggregate.NewRunner(broker, registry, logger)
	tracker := progress.NewTracker(areas, progress.Config{
		Writer:  cmd.ErrOrStderr(),
		Spinner: !assessNoProgress,
	})
	runner = runner.WithObserver(tracker)

	ctx := cmd.Context()
	if assessTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, assessTimeout)
		defer cancel()
	}

	tracker.Start()
	snapshot, err := runner.Run(ctx, creds.TenantID, areas)
	tracker.Stop()
	if err != nil {
		ux.RenderError(cmd.ErrOrStderr(), err)
		return err
	}

	records := rules.Evaluate(snapshot, rules.Catalog())
	rep := report.Build(snapshot, records)

	paths, err := writeReports(cfg, rep)
	if err != nil {
		ux.RenderError(cmd.ErrOrStderr(), err)
		return err
	}

	fmt.Fprint(cmd.ErrOrStderr(), report.Summary(rep))
	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", path)
	}

	if assessPrint != "" {
		formatter, err := ux.NewFormatter(assessPrint, &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
		if err != nil {
			return err
		}
		if err := formatter.Format(records); err != nil {
			return err
		}
	}
	return nil
}

func loadAssessConfig() (*config.Config, error) {
	if assessConfig == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(assessConfig)
}

// buildRegistry wires one fetcher per configured area. Areas without a
// collector entry get no adapter and surface as unassessed.
func buildRegistry(cfg *config.Config, cmd *cobra.Command) (*collector.Registry, error) {
	fetchers := make(map[domain.Area]collector.Fetcher)
	for name, cc := range cfg.Collectors {
		area, err := domain.ParseArea(name)
		if err != nil {
			return nil, err
		}
		if cc.File != "" {
			fetchers[area] = collector.NewFileFetcher(cc.File, cmd.InOrStdin())
			continue
		}
		fetchers[area] = collector.NewScriptFetcher(area.String(), cc.Command).
			WithStderr(cmd.ErrOrStderr())
	}
	return collector.DefaultRegistry(fetchers)
}

func writeReports(cfg *config.Config, rep *report.Report) ([]string, error) {
	dir := cfg.OutputDir
	if assessOutputDir != "" {
		dir = assessOutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	formats := cfg.Formats
	if len(assessFormats) > 0 {
		formats = assessFormats
	}

	var paths []string
	for _, format := range formats {
		var sink report.Sink
		switch format {
		case "csv":
			sink = report.NewCSVSink(dir)
		case "xlsx":
			sink = report.NewExcelSink(dir)
		default:
			return nil, fmt.Errorf("unknown report format %q", format)
		}
		path, err := sink.Write(rep)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
