package cli

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/forcelift/forcelift/internal/domain/promotion/domain"
)

// OneGPLines renders the 1GP dependency block. Empty when the package
// has no 1GP dependencies.
func OneGPLines(deps []domain.Dependency) []string {
	oneGP := domain.OneGPDependencies(deps)
	if len(oneGP) == 0 {
		return nil
	}

	lines := []string{"This package has the following 1GP dependencies:"}
	for _, dep := range oneGP {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("    Package Name: %s    ReleaseState: %s", dep.Name, dep.ReleaseState))
	}
	return lines
}

// TwoGPLines renders the 2GP dependency block: the totals, and when
// unpromoted dependencies remain, the list of packages blocking
// promotion.
func TwoGPLines(deps []domain.Dependency) []string {
	twoGP := domain.TwoGPDependencies(deps)
	unpromoted := domain.UnpromotedDependencies(deps)

	lines := []string{
		fmt.Sprintf("Total 2GP dependencies: %d", len(twoGP)),
		fmt.Sprintf("Unpromoted 2GP dependencies: %d", len(unpromoted)),
	}
	if len(unpromoted) == 0 {
		return lines
	}

	lines = append(lines,
		"",
		"This package depends on other packages that have not yet been promoted.",
		"The following packages must be promoted before this one:",
		"(Set the auto_promote option to promote these dependencies automatically.)",
		"",
	)
	for _, dep := range unpromoted {
		lines = append(lines,
			fmt.Sprintf("   Package Name: %s", dep.Name),
			fmt.Sprintf("   ReleaseState: %s", dep.ReleaseState),
			fmt.Sprintf("   SubscriberPackageVersionId: %s", dep.VersionID),
			"",
		)
	}
	return lines
}

// LogReporter renders dependency findings as log lines during a run.
// It implements ports.Reporter.
type LogReporter struct {
	logger *log.Logger
}

// NewLogReporter creates a reporter that writes through the given logger.
func NewLogReporter(logger *log.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// ReportOneGP logs the 1GP dependency block.
func (r *LogReporter) ReportOneGP(deps []domain.Dependency) {
	for _, line := range OneGPLines(deps) {
		r.logger.Info(line)
	}
}

// ReportTwoGP logs the 2GP dependency block. The totals log at info;
// the blocking-dependency section logs at warn.
func (r *LogReporter) ReportTwoGP(deps []domain.Dependency) {
	for i, line := range TwoGPLines(deps) {
		if i < 2 {
			r.logger.Info(line)
			continue
		}
		r.logger.Warn(line)
	}
}
