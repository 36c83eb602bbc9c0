// Package shared provides the plumbing common to all communication clients:
// connection strings, endpoints, request signing, SAS parsing and the azcore pipeline.

package shared

import (
	"net/url"
	"strings"
	"time"

	commErrors "acs-toolkit/internal/communication/errors"
)

// ConnectionString holds the parts of an `endpoint=...;accesskey=...` string.
type ConnectionString struct {
	Endpoint  string
	Host      string
	AccessKey string
}

// ParseConnectionString splits a resource connection string into its endpoint and access key.
func ParseConnectionString(connStr string) (ConnectionString, error) {
	var endpoint, accessKey string
	for _, element := range strings.Split(connStr, ";") {
		key, value, _ := strings.Cut(element, "=")
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "endpoint":
			endpoint = strings.TrimRight(value, "/")
		case "accesskey":
			accessKey = value
		}
	}
	if endpoint == "" || accessKey == "" {
		return ConnectionString{}, &commErrors.ValidationError{Param: "connection string", Reason: commErrors.InvalidConnectionString}
	}

	host := endpoint
	if pos := strings.Index(endpoint, "//"); pos != -1 {
		host = endpoint[pos+2:]
	}
	return ConnectionString{Endpoint: endpoint, Host: host, AccessKey: accessKey}, nil
}

// EndpointFromConnectionString returns the host part of a connection string.
func EndpointFromConnectionString(connStr string) (string, error) {
	cs, err := ParseConnectionString(connStr)
	if err != nil {
		return "", err
	}
	return cs.Host, nil
}

// NormalizeEndpoint prefixes a bare host with https:// and strips trailing slashes.
func NormalizeEndpoint(endpoint string) (string, error) {
	if strings.TrimSpace(endpoint) == "" {
		return "", commErrors.NewEmptyError("endpoint")
	}
	if !strings.HasPrefix(strings.ToLower(endpoint), "http") {
		endpoint = "https://" + endpoint
	}
	endpoint = strings.TrimRight(endpoint, "/")

	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" {
		return "", &commErrors.ValidationError{Param: "endpoint", Reason: commErrors.InvalidURL + ": " + endpoint}
	}
	return endpoint, nil
}

// CurrentUTCTime formats t the way the service expects in date headers.
func CurrentUTCTime(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006 15:04:05 ") + "GMT"
}
