package ports

import (
	"github.com/forcelift/forcelift/internal/domain/promotion/domain"
)

// Reporter receives dependency findings as a run passes through its
// reporting states. Implementations decide how the findings are shown;
// the run itself never writes output.
type Reporter interface {
	// ReportOneGP is given every dependency so implementations can
	// select and present the 1GP subset.
	ReportOneGP(deps []domain.Dependency)

	// ReportTwoGP is likewise given every dependency for the 2GP view.
	ReportTwoGP(deps []domain.Dependency)
}

// NopReporter discards all findings.
type NopReporter struct{}

func (NopReporter) ReportOneGP([]domain.Dependency) {}
func (NopReporter) ReportTwoGP([]domain.Dependency) {}
