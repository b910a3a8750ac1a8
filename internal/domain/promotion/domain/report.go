package domain

import (
	"time"

	"github.com/google/uuid"
)

// PromotionAction records one release-flag update issued during a run.
type PromotionAction struct {
	// Name is the display name of the promoted package ("root" for the
	// root package version itself).
	Name string `json:"name" yaml:"name"`
	// Package2VersionID is the updated Package2Version row.
	Package2VersionID Package2VersionID `json:"package2_version_id" yaml:"package2_version_id"`
}

// Report is the typed result of a promotion run. Rendering it to log
// lines is a presentation concern and lives outside the domain.
type Report struct {
	// RunID identifies this run.
	RunID uuid.UUID `json:"run_id" yaml:"run_id"`
	// VersionID is the root package version the run was started for.
	VersionID PackageVersionID `json:"version_id" yaml:"version_id"`
	// AutoPromote records whether auto-promotion was requested.
	AutoPromote bool `json:"auto_promote" yaml:"auto_promote"`
	// Dependencies are the classified dependencies in resolution order.
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`
	// Actions are the promotion updates issued, in order. Empty when the
	// run stopped after reporting.
	Actions []PromotionAction `json:"actions,omitempty" yaml:"actions,omitempty"`
	// RootPromoted is true when the root package version's release flag
	// was flipped by this run.
	RootPromoted bool `json:"root_promoted" yaml:"root_promoted"`
	// RootAlreadyReleased is true when the root was found already
	// released, making the final update an explicit no-op.
	RootAlreadyReleased bool `json:"root_already_released,omitempty" yaml:"root_already_released,omitempty"`
	// FinalState is the state the run ended in.
	FinalState RunState `json:"final_state" yaml:"final_state"`
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}

// NewReport creates a report for a run over the given root version id.
func NewReport(versionID PackageVersionID, autoPromote bool) *Report {
	return &Report{
		RunID:       uuid.New(),
		VersionID:   versionID,
		AutoPromote: autoPromote,
		StartedAt:   time.Now().UTC(),
	}
}

// OneGP returns the 1GP dependencies.
func (r *Report) OneGP() []Dependency {
	return OneGPDependencies(r.Dependencies)
}

// TwoGP returns the 2GP dependencies.
func (r *Report) TwoGP() []Dependency {
	return TwoGPDependencies(r.Dependencies)
}

// Unpromoted returns the unpromoted 2GP dependencies.
func (r *Report) Unpromoted() []Dependency {
	return UnpromotedDependencies(r.Dependencies)
}

// Promoted returns true when every 2GP dependency is promoted.
func (r *Report) Promoted() bool {
	return len(r.Unpromoted()) == 0
}

// Finish stamps the final state and finish time.
func (r *Report) Finish(state RunState) {
	r.FinalState = state
	r.FinishedAt = time.Now().UTC()
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
