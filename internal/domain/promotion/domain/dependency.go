package domain

import (
	"github.com/Masterminds/semver/v3"
)

// ReleaseState is the platform release state of a package version.
type ReleaseState string

const (
	// ReleaseStateBeta is the state of an unpromoted package version.
	ReleaseStateBeta ReleaseState = "Beta"
	// ReleaseStateReleased is the state of a promoted package version.
	ReleaseStateReleased ReleaseState = "Released"
)

// String returns the string representation of the release state.
func (s ReleaseState) String() string {
	return string(s)
}

// Dependency is one classified dependency of the root package version.
// Constructed transiently per run; never persisted.
type Dependency struct {
	// TwoGP is true when a Package2Version row exists for the subscriber
	// package version, i.e. the package is second-generation.
	TwoGP bool `json:"is_2gp" yaml:"is_2gp"`
	// Name is the subscriber package's display name.
	Name string `json:"name" yaml:"name"`
	// ReleaseState is the dependency's current release state.
	ReleaseState ReleaseState `json:"release_state" yaml:"release_state"`
	// Promoted is true when the release state is Released. Only
	// meaningful for 2GP dependencies; 1GP dependencies are never
	// promotable by this tool.
	Promoted bool `json:"is_promoted" yaml:"is_promoted"`
	// VersionID is the SubscriberPackageVersion id. Empty for 1GP
	// dependencies, which need no further action.
	VersionID PackageVersionID `json:"version_id,omitempty" yaml:"version_id,omitempty"`
	// Package2VersionID is the promotion target id. Only set for 2GP
	// dependencies.
	Package2VersionID Package2VersionID `json:"package2_version_id,omitempty" yaml:"package2_version_id,omitempty"`
	// Version is the package version number (2GP only).
	Version *semver.Version `json:"version,omitempty" yaml:"version,omitempty"`
}

// IsUnpromoted returns true for a 2GP dependency that has not been
// promoted yet.
func (d Dependency) IsUnpromoted() bool {
	return d.TwoGP && !d.Promoted
}

// OneGPDependencies returns the 1GP subset, preserving order.
func OneGPDependencies(deps []Dependency) []Dependency {
	var out []Dependency
	for _, d := range deps {
		if !d.TwoGP {
			out = append(out, d)
		}
	}
	return out
}

// TwoGPDependencies returns the 2GP subset, preserving order.
func TwoGPDependencies(deps []Dependency) []Dependency {
	var out []Dependency
	for _, d := range deps {
		if d.TwoGP {
			out = append(out, d)
		}
	}
	return out
}

// UnpromotedDependencies returns the unpromoted 2GP subset, preserving
// order.
func UnpromotedDependencies(deps []Dependency) []Dependency {
	var out []Dependency
	for _, d := range deps {
		if d.IsUnpromoted() {
			out = append(out, d)
		}
	}
	return out
}
