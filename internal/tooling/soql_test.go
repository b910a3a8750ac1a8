package tooling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		object string
		where  string
		want   string
	}{
		{
			name:   "single field no where",
			fields: []string{"Dependencies"},
			object: ObjectSubscriberPackageVersion,
			want:   "SELECT Dependencies FROM SubscriberPackageVersion",
		},
		{
			name:   "multiple fields with where",
			fields: []string{"SubscriberPackageId", "ReleaseState"},
			object: ObjectSubscriberPackageVersion,
			where:  "Id='04t000000000001'",
			want:   "SELECT SubscriberPackageId, ReleaseState FROM SubscriberPackageVersion WHERE Id='04t000000000001'",
		},
		{
			name:   "error message reference shape",
			fields: []string{"Id", "Field__c"},
			object: "sObjectName",
			where:  "Id='12345'",
			want:   "SELECT Id, Field__c FROM sObjectName WHERE Id='12345'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.fields, tt.object, tt.where))
		})
	}
}

func TestEscapeSOQLString(t *testing.T) {
	assert.Equal(t, `O\'Brien Ltd`, EscapeSOQLString("O'Brien Ltd"))
	assert.Equal(t, `a\\b`, EscapeSOQLString(`a\b`))
	assert.Equal(t, "plain", EscapeSOQLString("plain"))
}

func TestDecode(t *testing.T) {
	rec := Record{
		"Id":           "05i000000000001",
		"IsReleased":   false,
		"MajorVersion": 1,
		"MinorVersion": 2,
		"PatchVersion": 0,
		"BuildNumber":  3,
	}

	var p2v Package2Version
	require.NoError(t, Decode(rec, &p2v))
	assert.Equal(t, "05i000000000001", p2v.ID)
	assert.False(t, p2v.IsReleased)
	assert.Equal(t, 1, p2v.MajorVersion)
	assert.Equal(t, 3, p2v.BuildNumber)
}

func TestDecode_DependenciesBlob(t *testing.T) {
	rec := Record{
		"Dependencies": map[string]any{
			"ids": []any{
				map[string]any{"subscriberPackageVersionId": "04t000000000001"},
				map[string]any{"subscriberPackageVersionId": "04t000000000002"},
			},
		},
	}

	var spv SubscriberPackageVersion
	require.NoError(t, Decode(rec, &spv))
	require.NotNil(t, spv.Dependencies)
	require.Len(t, spv.Dependencies.IDs, 2)
	assert.Equal(t, "04t000000000001", spv.Dependencies.IDs[0].SubscriberPackageVersionID)
}

func TestDecode_NullDependencies(t *testing.T) {
	rec := Record{"Dependencies": nil}

	var spv SubscriberPackageVersion
	require.NoError(t, Decode(rec, &spv))
	assert.Nil(t, spv.Dependencies)
}
