// Package devhub implements the Tooling API port over REST against a
// Dev Hub org.
package devhub

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/forcelift/forcelift/internal/config"
	flerrors "github.com/forcelift/forcelift/internal/errors"
)

// Session holds the connection parameters for one Dev Hub org.
type Session struct {
	instanceURL string
	apiVersion  string
	accessToken string
}

// NewSession builds a session from explicit parameters.
func NewSession(instanceURL, apiVersion, accessToken string) (Session, error) {
	const op = "devhub.NewSession"

	if instanceURL == "" {
		return Session{}, flerrors.Config(op, "devhub.instance_url is required")
	}
	if accessToken == "" || strings.Contains(accessToken, "${") {
		return Session{}, flerrors.Config(op, "devhub.access_token is not set")
	}
	if apiVersion == "" {
		apiVersion = config.DefaultConfig().Devhub.APIVersion
	}
	return Session{
		instanceURL: strings.TrimRight(instanceURL, "/"),
		apiVersion:  apiVersion,
		accessToken: accessToken,
	}, nil
}

// NewSessionFromConfig builds a session from the loaded configuration.
func NewSessionFromConfig(cfg config.DevhubConfig) (Session, error) {
	return NewSession(cfg.InstanceURL, cfg.APIVersion, cfg.AccessToken)
}

// BaseURL returns the versioned REST base, e.g.
// https://devhub.my.salesforce.com/services/data/v50.0.
func (s Session) BaseURL() string {
	return fmt.Sprintf("%s/services/data/v%s", s.instanceURL, s.apiVersion)
}

// QueryURL returns the Tooling API query endpoint for a SOQL string.
func (s Session) QueryURL(soql string) string {
	return fmt.Sprintf("%s/tooling/query/?q=%s", s.BaseURL(), url.QueryEscape(soql))
}

// SObjectURL returns the Tooling API record endpoint for one row.
func (s Session) SObjectURL(object, id string) string {
	return fmt.Sprintf("%s/tooling/sobjects/%s/%s", s.BaseURL(), object, id)
}

// AuthorizationHeader returns the value for the Authorization header.
// Never log it.
func (s Session) AuthorizationHeader() string {
	return "Bearer " + s.accessToken
}
