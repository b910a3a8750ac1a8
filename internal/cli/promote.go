package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forcelift/forcelift/internal/config"
	"github.com/forcelift/forcelift/internal/domain/promotion/app"
	"github.com/forcelift/forcelift/internal/domain/promotion/domain"
	"github.com/forcelift/forcelift/internal/domain/promotion/ports"
	"github.com/forcelift/forcelift/internal/infrastructure/devhub"
	"github.com/forcelift/forcelift/internal/observability"
)

var autoPromote bool

var promoteCmd = &cobra.Command{
	Use:   "promote [version-id]",
	Short: "Promote a 2GP package version and its dependencies",
	Long: `Promote a second-generation package version to released.

The dependency tree is walked first: every dependency is classified as
1GP or 2GP and its promotion status is reported. When unpromoted 2GP
dependencies remain, the run stops after the report unless
--auto-promote is set, in which case they are promoted in dependency
order before the package itself.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPromote,
}

var reportCmd = &cobra.Command{
	Use:   "report [version-id]",
	Short: "Report the promotion status of a 2GP package version's dependencies",
	Long: `Walk the dependency tree of a second-generation package version and
report each dependency's generation and promotion status. No update is
ever issued, even when everything is already promoted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	promoteCmd.Flags().BoolVar(&autoPromote, "auto-promote", false, "promote unpromoted 2GP dependencies automatically")
}

func runPromote(cmd *cobra.Command, args []string) error {
	return runTask(cmd, args, false)
}

func runReport(cmd *cobra.Command, args []string) error {
	return runTask(cmd, args, true)
}

// runTask wires the Tooling API client and executes one promotion run.
func runTask(cmd *cobra.Command, args []string, reportOnly bool) error {
	var versionID string
	if len(args) > 0 {
		versionID = args[0]
	}

	session, err := devhub.NewSessionFromConfig(cfg.Devhub)
	if err != nil {
		return err
	}
	client := devhub.NewClient(session, cfg.Devhub, devhub.WithLogger(logger))

	// Structured output formats keep the log stream clean; the report is
	// marshaled whole instead.
	var reporter ports.Reporter = NewLogReporter(logger)
	if cfg.Output.Format != config.FormatText {
		reporter = ports.NopReporter{}
	}

	task, err := app.NewTask(app.Options{
		VersionID:   versionID,
		AutoPromote: autoPromote || cfg.Promote.AutoPromote,
		ReportOnly:  reportOnly,
	}, client, reporter, logger)
	if err != nil {
		return err
	}

	report, err := task.Run(cmd.Context())
	if report != nil {
		observability.Global().RecordRun(err == nil, report.Duration())
	}
	logger.Debug("run metrics\n" + observability.Global().Render())
	if err != nil {
		return err
	}

	return writeReport(report, reportOnly)
}

// writeReport renders the finished run in the configured output format.
func writeReport(report *domain.Report, reportOnly bool) error {
	switch cfg.Output.Format {
	case config.FormatJSON, config.FormatYAML:
		return marshalReport(os.Stdout, report, cfg.Output.Format)
	}

	if reportOnly {
		printInfo(fmt.Sprintf("Reported %d dependencies for %s", len(report.Dependencies), report.VersionID))
		return nil
	}

	switch {
	case report.RootPromoted:
		for _, action := range report.Actions {
			if action.Name != "root" {
				printSubtle(fmt.Sprintf("Promoted dependency: %s", action.Name))
			}
		}
		printSuccess(fmt.Sprintf("Promoted package version %s", report.VersionID))
	case report.RootAlreadyReleased:
		printInfo(fmt.Sprintf("Package version %s is already released", report.VersionID))
	default:
		printWarning("No promotion performed: unpromoted 2GP dependencies remain (set --auto-promote to promote them)")
	}
	return nil
}
