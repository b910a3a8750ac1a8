package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcelift/forcelift/internal/domain/promotion/domain"
)

func mixedDeps() []domain.Dependency {
	return []domain.Dependency{
		{
			TwoGP:             true,
			Name:              "Dependency 1",
			ReleaseState:      domain.ReleaseStateBeta,
			VersionID:         "04t000000000001",
			Package2VersionID: "05i000000000001",
		},
		{
			TwoGP:             true,
			Name:              "Dependency 2",
			ReleaseState:      domain.ReleaseStateBeta,
			VersionID:         "04t000000000002",
			Package2VersionID: "05i000000000002",
		},
		{
			TwoGP:             true,
			Name:              "Dependency 3",
			ReleaseState:      domain.ReleaseStateReleased,
			Promoted:          true,
			VersionID:         "04t000000000003",
			Package2VersionID: "05i000000000003",
		},
		{
			Name:         "Dependency 4",
			ReleaseState: domain.ReleaseStateReleased,
		},
	}
}

func TestOneGPLines(t *testing.T) {
	lines := OneGPLines(mixedDeps())

	require.Len(t, lines, 3)
	assert.Equal(t, "This package has the following 1GP dependencies:", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "    Package Name: Dependency 4    ReleaseState: Released", lines[2])
}

func TestOneGPLinesEmpty(t *testing.T) {
	deps := []domain.Dependency{{TwoGP: true, Name: "Dependency 1"}}
	assert.Empty(t, OneGPLines(deps))
}

func TestTwoGPLines(t *testing.T) {
	lines := TwoGPLines(mixedDeps())

	require.True(t, len(lines) > 7)
	assert.Equal(t, "Total 2GP dependencies: 3", lines[0])
	assert.Equal(t, "Unpromoted 2GP dependencies: 2", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "This package depends on other packages that have not yet been promoted.", lines[3])
	assert.Equal(t, "The following packages must be promoted before this one:", lines[4])
	assert.Equal(t, "(Set the auto_promote option to promote these dependencies automatically.)", lines[5])
	assert.Equal(t, "", lines[6])
	assert.Equal(t, "   Package Name: Dependency 1", lines[7])
	assert.Equal(t, "   ReleaseState: Beta", lines[8])
	assert.Equal(t, "   SubscriberPackageVersionId: 04t000000000001", lines[9])
	assert.Equal(t, "", lines[10])
	assert.Equal(t, "   Package Name: Dependency 2", lines[11])
}

func TestTwoGPLinesAllPromoted(t *testing.T) {
	deps := []domain.Dependency{
		{TwoGP: true, Name: "Dependency 3", ReleaseState: domain.ReleaseStateReleased, Promoted: true},
	}
	lines := TwoGPLines(deps)

	require.Len(t, lines, 2)
	assert.Equal(t, "Total 2GP dependencies: 1", lines[0])
	assert.Equal(t, "Unpromoted 2GP dependencies: 0", lines[1])
}

func TestTwoGPLinesNoDependencies(t *testing.T) {
	lines := TwoGPLines(nil)

	require.Len(t, lines, 2)
	assert.Equal(t, "Total 2GP dependencies: 0", lines[0])
	assert.Equal(t, "Unpromoted 2GP dependencies: 0", lines[1])
}
