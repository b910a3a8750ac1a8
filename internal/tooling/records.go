package tooling

import (
	"encoding/json"

	flerrors "github.com/forcelift/forcelift/internal/errors"
)

// Record is a single sObject row as returned by the query endpoint.
type Record map[string]any

// QueryResult is the standard shape of a Tooling API query response.
type QueryResult struct {
	Size    int      `json:"size"`
	Records []Record `json:"records"`
}

// APIError is a single entry of the error-array shape the Tooling API
// returns for rejected requests.
type APIError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// Decode copies a record into a typed struct via JSON round-trip.
func Decode(rec Record, target any) error {
	const op = "tooling.Decode"

	raw, err := json.Marshal(rec)
	if err != nil {
		return flerrors.InternalWrap(err, op, "failed to re-encode record")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return flerrors.InternalWrap(err, op, "failed to decode record")
	}
	return nil
}

// SubscriberPackageVersion is the slice of the SubscriberPackageVersion
// sObject this tool reads.
type SubscriberPackageVersion struct {
	SubscriberPackageID string          `json:"SubscriberPackageId"`
	ReleaseState        string          `json:"ReleaseState"`
	Dependencies        *DependencyList `json:"Dependencies"`
}

// DependencyList is the JSON blob stored in the Dependencies field of a
// SubscriberPackageVersion.
type DependencyList struct {
	IDs []DependencyID `json:"ids"`
}

// DependencyID is one entry of a DependencyList.
type DependencyID struct {
	SubscriberPackageVersionID string `json:"subscriberPackageVersionId"`
}

// SubscriberPackage is the slice of the SubscriberPackage sObject this
// tool reads.
type SubscriberPackage struct {
	Name string `json:"Name"`
}

// Package2Version is the slice of the Package2Version sObject this tool
// reads and updates. Only 2GP packages have Package2Version rows.
type Package2Version struct {
	ID           string `json:"Id"`
	IsReleased   bool   `json:"IsReleased"`
	MajorVersion int    `json:"MajorVersion"`
	MinorVersion int    `json:"MinorVersion"`
	PatchVersion int    `json:"PatchVersion"`
	BuildNumber  int    `json:"BuildNumber"`
}

// Release states reported by the platform.
const (
	ReleaseStateBeta     = "Beta"
	ReleaseStateReleased = "Released"
)

// sObject names used by this tool.
const (
	ObjectSubscriberPackageVersion = "SubscriberPackageVersion"
	ObjectSubscriberPackage        = "SubscriberPackage"
	ObjectPackage2Version          = "Package2Version"
)
