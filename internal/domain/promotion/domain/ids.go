package domain

import (
	"fmt"
	"strings"
)

// PackageVersionID is a SubscriberPackageVersion id. The platform emits
// both the 15- and 18-character forms; both carry the 04t key prefix.
type PackageVersionID string

// packageVersionPrefix is the sObject key prefix for subscriber package
// versions.
const packageVersionPrefix = "04t"

// String returns the string representation of the id.
func (id PackageVersionID) String() string {
	return string(id)
}

// Short returns the key prefix plus the last 4 characters for display.
func (id PackageVersionID) Short() string {
	if len(id) <= 7 {
		return string(id)
	}
	return string(id[:3]) + ".." + string(id[len(id)-4:])
}

// ParsePackageVersionID validates a raw id string and returns it typed.
func ParsePackageVersionID(raw string) (PackageVersionID, error) {
	if !strings.HasPrefix(raw, packageVersionPrefix) {
		return "", fmt.Errorf("%w: %q must begin with %q", ErrInvalidVersionID, raw, packageVersionPrefix)
	}
	if len(raw) != 15 && len(raw) != 18 {
		return "", fmt.Errorf("%w: %q must be 15 or 18 characters long", ErrInvalidVersionID, raw)
	}
	return PackageVersionID(raw), nil
}

// Package2VersionID is the internal id of a Package2Version row, the
// promotion target for a 2GP package.
type Package2VersionID string

// String returns the string representation of the id.
func (id Package2VersionID) String() string {
	return string(id)
}
