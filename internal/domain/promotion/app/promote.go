// Package app implements the promotion use cases on top of the domain
// model and its ports.
package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/felixgeelhaar/statekit"

	"github.com/forcelift/forcelift/internal/domain/promotion/domain"
	"github.com/forcelift/forcelift/internal/domain/promotion/ports"
	flerrors "github.com/forcelift/forcelift/internal/errors"
	"github.com/forcelift/forcelift/internal/tooling"
)

// Options configure a promotion run.
type Options struct {
	// VersionID is the SubscriberPackageVersion id of the root package
	// version. Required.
	VersionID string
	// AutoPromote promotes unpromoted 2GP dependencies instead of
	// stopping after the report.
	AutoPromote bool
	// ReportOnly classifies and reports but never issues an update, even
	// when every dependency is already promoted.
	ReportOnly bool
}

// Task walks the dependency tree of a second-generation package version,
// classifies each dependency as 1GP or 2GP, reports the findings, and
// promotes the unpromoted 2GP versions plus the root when allowed.
//
// A Task is single-use: build one per run.
type Task struct {
	versionID   domain.PackageVersionID
	autoPromote bool
	reportOnly  bool
	api         ports.ToolingAPI
	reporter    ports.Reporter
	logger      *log.Logger
}

// NewTask validates the options eagerly and returns a runnable task.
// A missing or malformed version id fails here, before any API call.
func NewTask(opts Options, api ports.ToolingAPI, reporter ports.Reporter, logger *log.Logger) (*Task, error) {
	if opts.VersionID == "" {
		return nil, flerrors.New(flerrors.KindOptions, "Task option `version_id` is required.")
	}
	versionID, err := domain.ParsePackageVersionID(opts.VersionID)
	if err != nil {
		return nil, &flerrors.Error{
			Kind:    flerrors.KindOptions,
			Message: fmt.Sprintf("Task option `version_id` is invalid: %s", opts.VersionID),
			Err:     err,
		}
	}
	if reporter == nil {
		reporter = ports.NopReporter{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Task{
		versionID:   versionID,
		autoPromote: opts.AutoPromote,
		reportOnly:  opts.ReportOnly,
		api:         api,
		reporter:    reporter,
		logger:      logger,
	}, nil
}

// Run executes the promotion flow and returns the run report. The report
// is returned even on failure so callers can see how far the run got.
func (t *Task) Run(ctx context.Context) (*domain.Report, error) {
	report := domain.NewReport(t.versionID, t.autoPromote)
	state := domain.StateResolving

	advance := func(event statekit.EventType) error {
		next, err := domain.Transition(state, event, domain.RunContext{
			Report:      report,
			AutoPromote: t.autoPromote,
		})
		if err != nil {
			return err
		}
		state = next
		return nil
	}
	fail := func(err error) (*domain.Report, error) {
		report.Finish(domain.StateFailed)
		return report, err
	}

	t.logger.Debug("resolving dependencies", "version_id", t.versionID.Short())
	depIDs, err := t.resolveDependencies(ctx)
	if err != nil {
		return fail(err)
	}
	if err := advance(domain.EventResolved); err != nil {
		return fail(err)
	}

	for _, depID := range depIDs {
		dep, err := t.classifyDependency(ctx, depID)
		if err != nil {
			return fail(err)
		}
		report.Dependencies = append(report.Dependencies, dep)
	}
	if err := advance(domain.EventClassified); err != nil {
		return fail(err)
	}

	t.reporter.ReportOneGP(report.Dependencies)
	if err := advance(domain.EventReported1GP); err != nil {
		return fail(err)
	}
	t.reporter.ReportTwoGP(report.Dependencies)
	if err := advance(domain.EventReported2GP); err != nil {
		return fail(err)
	}

	if !t.reportOnly && (report.Promoted() || t.autoPromote) {
		if err := advance(domain.EventPromote); err != nil {
			return fail(err)
		}
		if err := t.promoteAll(ctx, report); err != nil {
			return fail(err)
		}
		if err := advance(domain.EventPromoted); err != nil {
			return fail(err)
		}
	} else {
		// Unpromoted dependencies remain and auto-promotion is off: the
		// run ends cleanly after the report, not in failure.
		if err := advance(domain.EventSkip); err != nil {
			return fail(err)
		}
	}

	report.Finish(state)
	return report, nil
}

// resolveDependencies reads the root version's Dependencies blob and
// returns the dependency ids in order. A null blob means no dependencies.
func (t *Task) resolveDependencies(ctx context.Context) ([]string, error) {
	rec, err := t.api.QueryOne(ctx,
		[]string{"Dependencies"},
		tooling.ObjectSubscriberPackageVersion,
		fmt.Sprintf("Id='%s'", t.versionID), true)
	if err != nil {
		return nil, err
	}

	var spv tooling.SubscriberPackageVersion
	if err := tooling.Decode(rec, &spv); err != nil {
		return nil, err
	}
	if spv.Dependencies == nil {
		return nil, nil
	}

	ids := make([]string, 0, len(spv.Dependencies.IDs))
	for _, d := range spv.Dependencies.IDs {
		ids = append(ids, d.SubscriberPackageVersionID)
	}
	return ids, nil
}

// classifyDependency fetches one dependency's release state and name,
// then probes for a Package2Version row. A row means 2GP; no row means
// the dependency is first-generation and out of promotion scope.
func (t *Task) classifyDependency(ctx context.Context, depID string) (domain.Dependency, error) {
	var dep domain.Dependency

	// Dependency ids are echoed back by the API, so they pass through the
	// SOQL escaper unlike the validated root id.
	rec, err := t.api.QueryOne(ctx,
		[]string{"SubscriberPackageId", "ReleaseState"},
		tooling.ObjectSubscriberPackageVersion,
		fmt.Sprintf("Id='%s'", tooling.EscapeSOQLString(depID)), true)
	if err != nil {
		return dep, err
	}
	var spv tooling.SubscriberPackageVersion
	if err := tooling.Decode(rec, &spv); err != nil {
		return dep, err
	}

	pkgRec, err := t.api.QueryOne(ctx,
		[]string{"Name"},
		tooling.ObjectSubscriberPackage,
		fmt.Sprintf("Id='%s'", tooling.EscapeSOQLString(spv.SubscriberPackageID)), true)
	if err != nil {
		return dep, err
	}
	var pkg tooling.SubscriberPackage
	if err := tooling.Decode(pkgRec, &pkg); err != nil {
		return dep, err
	}

	dep.Name = pkg.Name
	dep.ReleaseState = domain.ReleaseState(spv.ReleaseState)
	dep.Promoted = dep.ReleaseState == domain.ReleaseStateReleased

	p2vRec, err := t.api.QueryOne(ctx,
		[]string{"Id", "IsReleased", "MajorVersion", "MinorVersion", "PatchVersion", "BuildNumber"},
		tooling.ObjectPackage2Version,
		fmt.Sprintf("SubscriberPackageVersionId='%s'", tooling.EscapeSOQLString(depID)), false)
	if err != nil {
		return dep, err
	}
	if p2vRec == nil {
		t.logger.Debug("classified 1GP dependency", "name", dep.Name)
		return dep, nil
	}

	var p2v tooling.Package2Version
	if err := tooling.Decode(p2vRec, &p2v); err != nil {
		return dep, err
	}
	dep.TwoGP = true
	dep.VersionID = domain.PackageVersionID(depID)
	dep.Package2VersionID = domain.Package2VersionID(p2v.ID)
	dep.Version = versionNumber(p2v)
	t.logger.Debug("classified 2GP dependency",
		"name", dep.Name,
		"release_state", dep.ReleaseState,
		"version", dep.Version)
	return dep, nil
}

// promoteAll flips the release flag on every unpromoted 2GP dependency,
// then on the root itself. A root that is already released is skipped.
func (t *Task) promoteAll(ctx context.Context, report *domain.Report) error {
	for _, dep := range report.Unpromoted() {
		t.logger.Debug("promoting dependency",
			"name", dep.Name,
			"package2_version_id", dep.Package2VersionID)
		if err := t.api.PromotePackage2Version(ctx, dep.Package2VersionID.String()); err != nil {
			return err
		}
		report.Actions = append(report.Actions, domain.PromotionAction{
			Name:              dep.Name,
			Package2VersionID: dep.Package2VersionID,
		})
	}

	rec, err := t.api.QueryOne(ctx,
		[]string{"Id", "IsReleased"},
		tooling.ObjectPackage2Version,
		fmt.Sprintf("SubscriberPackageVersionId='%s'", t.versionID), true)
	if err != nil {
		return err
	}
	var p2v tooling.Package2Version
	if err := tooling.Decode(rec, &p2v); err != nil {
		return err
	}
	if p2v.IsReleased {
		report.RootAlreadyReleased = true
		t.logger.Debug("root package version already released",
			"package2_version_id", p2v.ID)
		return nil
	}

	if err := t.api.PromotePackage2Version(ctx, p2v.ID); err != nil {
		return err
	}
	report.RootPromoted = true
	report.Actions = append(report.Actions, domain.PromotionAction{
		Name:              "root",
		Package2VersionID: domain.Package2VersionID(p2v.ID),
	})
	return nil
}

func versionNumber(v tooling.Package2Version) *semver.Version {
	return semver.New(
		uint64(v.MajorVersion),
		uint64(v.MinorVersion),
		uint64(v.PatchVersion),
		"", strconv.Itoa(v.BuildNumber))
}
