// Package ports defines the interfaces (ports) for the package promotion
// bounded context.
package ports

import (
	"context"

	"github.com/forcelift/forcelift/internal/tooling"
)

// ToolingAPI is the slice of the Tooling API the promotion task consumes:
// SOQL queries plus release-flag updates on Package2Version rows.
//
// Implementations issue each call exactly once; retry behavior is
// deliberately out of scope.
type ToolingAPI interface {
	// Query runs SELECT <fields> FROM <object> [WHERE <where>] and
	// returns all records (possibly none).
	Query(ctx context.Context, fields []string, object, where string) ([]tooling.Record, error)

	// QueryOne runs the same query and returns the first record, or nil
	// when no records matched. With raiseError set, zero records is an
	// error whose message cites the exact query text.
	QueryOne(ctx context.Context, fields []string, object, where string, raiseError bool) (tooling.Record, error)

	// PromotePackage2Version flips the IsReleased flag on a
	// Package2Version row.
	PromotePackage2Version(ctx context.Context, id string) error
}
