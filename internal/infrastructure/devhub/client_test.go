package devhub

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcelift/forcelift/internal/config"
	flerrors "github.com/forcelift/forcelift/internal/errors"
	"github.com/forcelift/forcelift/internal/observability"
	"github.com/forcelift/forcelift/internal/tooling"
)

func testSession(t *testing.T, instanceURL string) Session {
	t.Helper()
	s, err := NewSession(instanceURL, "50.0", "00Dxx0000001gPL!token")
	require.NoError(t, err)
	return s
}

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return NewClient(testSession(t, srv.URL), config.DevhubConfig{},
		WithHTTPClient(srv.Client()),
		WithLogger(log.New(io.Discard)),
		WithMetrics(observability.NewMetrics("test")))
}

func TestNewSession(t *testing.T) {
	tests := []struct {
		name        string
		instanceURL string
		token       string
		wantErr     bool
	}{
		{"valid", "https://devhub.my.salesforce.com", "00Dxx!tok", false},
		{"trailing slash trimmed", "https://devhub.my.salesforce.com/", "00Dxx!tok", false},
		{"missing instance url", "", "00Dxx!tok", true},
		{"missing token", "https://devhub.my.salesforce.com", "", true},
		{"unexpanded token", "https://devhub.my.salesforce.com", "${SF_ACCESS_TOKEN}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSession(tt.instanceURL, "50.0", tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, flerrors.IsKind(err, flerrors.KindConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://devhub.my.salesforce.com/services/data/v50.0", s.BaseURL())
		})
	}
}

func TestSessionURLs(t *testing.T) {
	s := testSession(t, "https://devhub.my.salesforce.com")

	assert.Equal(t,
		"https://devhub.my.salesforce.com/services/data/v50.0/tooling/query/?q=SELECT+Id+FROM+Package2Version+WHERE+Id%3D%2705i%27",
		s.QueryURL("SELECT Id FROM Package2Version WHERE Id='05i'"))
	assert.Equal(t,
		"https://devhub.my.salesforce.com/services/data/v50.0/tooling/sobjects/Package2Version/05i000000000001",
		s.SObjectURL("Package2Version", "05i000000000001"))
}

func TestClientQuery(t *testing.T) {
	var gotSOQL, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/services/data/v50.0/tooling/query/", r.URL.Path)
		gotSOQL = r.URL.Query().Get("q")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(tooling.QueryResult{
			Size:    1,
			Records: []tooling.Record{{"Name": "Dependency 1"}},
		})
	}))
	defer srv.Close()

	c := testClient(t, srv)
	recs, err := c.Query(context.Background(), []string{"Name"}, tooling.ObjectSubscriberPackage, "Id='033000000000001'")
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, "Dependency 1", recs[0]["Name"])
	assert.Equal(t, "SELECT Name FROM SubscriberPackage WHERE Id='033000000000001'", gotSOQL)
	assert.Equal(t, "Bearer 00Dxx0000001gPL!token", gotAuth)
}

func TestClientQueryOneNoRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(tooling.QueryResult{})
	}))
	defer srv.Close()

	c := testClient(t, srv)

	rec, err := c.QueryOne(context.Background(), []string{"Name"}, tooling.ObjectSubscriberPackage, "Id='033'", false)
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = c.QueryOne(context.Background(), []string{"Name"}, tooling.ObjectSubscriberPackage, "Id='033'", true)
	require.Error(t, err)
	assert.Equal(t,
		"No records returned for query: SELECT Name FROM SubscriberPackage WHERE Id='033'",
		err.Error())
	assert.True(t, flerrors.IsKind(err, flerrors.KindQuery))
}

func TestClientQueryOneMultipleRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(tooling.QueryResult{
			Size:    2,
			Records: []tooling.Record{{"Name": "first"}, {"Name": "second"}},
		})
	}))
	defer srv.Close()

	c := testClient(t, srv)
	rec, err := c.QueryOne(context.Background(), []string{"Name"}, tooling.ObjectSubscriberPackage, "", true)
	require.NoError(t, err)
	assert.Equal(t, "first", rec["Name"])
}

func TestClientQueryErrorArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`[{"message":"Object type 'Package2Version' is not supported","errorCode":"INVALID_TYPE"}]`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Query(context.Background(), []string{"Id"}, tooling.ObjectPackage2Version, "")
	require.Error(t, err)
	assert.True(t, flerrors.IsKind(err, flerrors.KindOptions))
	assert.Contains(t, err.Error(), "Object type 'Package2Version' is not supported")
}

func TestClientQueryErrorArrayWithOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"message":"invalid session id","errorCode":"INVALID_SESSION_ID"}]`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Query(context.Background(), []string{"Id"}, tooling.ObjectPackage2Version, "")
	require.Error(t, err)
	assert.True(t, flerrors.IsKind(err, flerrors.KindOptions))
	assert.Contains(t, err.Error(), "invalid session id")
}

func TestClientPromote(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	err := c.PromotePackage2Version(context.Background(), "05i000000000001")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/services/data/v50.0/tooling/sobjects/Package2Version/05i000000000001", gotPath)
	assert.Equal(t, map[string]bool{"IsReleased": true}, gotBody)
}

func TestClientPromoteRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`[{"message":"insufficient access rights","errorCode":"INSUFFICIENT_ACCESS"}]`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	err := c.PromotePackage2Version(context.Background(), "05i000000000001")
	require.Error(t, err)
	assert.True(t, flerrors.IsKind(err, flerrors.KindOptions))
	assert.Contains(t, err.Error(), "insufficient access rights")
}

func TestClientPromoteUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	err := c.PromotePackage2Version(context.Background(), "05i000000000001")
	require.Error(t, err)
	assert.True(t, flerrors.IsKind(err, flerrors.KindNetwork))
	assert.Contains(t, err.Error(), "502")
}
