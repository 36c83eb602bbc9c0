package shared

import (
	"testing"
	"time"

	commErrors "acs-toolkit/internal/communication/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnectionString(t *testing.T) {
	cs, err := ParseConnectionString("endpoint=https://contoso.communication.azure.com/;accesskey=c2VjcmV0")
	require.NoError(t, err)
	assert.Equal(t, "https://contoso.communication.azure.com", cs.Endpoint)
	assert.Equal(t, "contoso.communication.azure.com", cs.Host)
	assert.Equal(t, "c2VjcmV0", cs.AccessKey)
}

func TestParseConnectionStringKeepsPaddingInAccessKey(t *testing.T) {
	cs, err := ParseConnectionString("Endpoint=https://host/;AccessKey=a2V5==")
	require.NoError(t, err)
	assert.Equal(t, "a2V5==", cs.AccessKey)
	assert.Equal(t, "host", cs.Host)
}

func TestParseConnectionStringInvalid(t *testing.T) {
	for _, connStr := range []string{
		"",
		"endpoint=https://host/",
		"accesskey=c2VjcmV0",
		"foo=bar;baz=qux",
	} {
		_, err := ParseConnectionString(connStr)
		require.Error(t, err, connStr)
		assert.True(t, commErrors.IsValidation(err))
		assert.Contains(t, err.Error(), commErrors.InvalidConnectionString)
	}
}

func TestEndpointFromConnectionString(t *testing.T) {
	host, err := EndpointFromConnectionString("endpoint=https://contoso.communication.azure.com/;accesskey=c2VjcmV0")
	require.NoError(t, err)
	assert.Equal(t, "contoso.communication.azure.com", host)
}

func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"contoso.communication.azure.com":          "https://contoso.communication.azure.com",
		"https://contoso.communication.azure.com/": "https://contoso.communication.azure.com",
		"HTTP://localhost:8080//":                  "HTTP://localhost:8080",
	}
	for in, want := range cases {
		got, err := NormalizeEndpoint(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
}

func TestNormalizeEndpointRejectsEmpty(t *testing.T) {
	_, err := NormalizeEndpoint("  ")
	require.Error(t, err)
	assert.True(t, commErrors.IsValidation(err))

	_, err = NormalizeEndpoint("https://")
	require.Error(t, err)
	assert.True(t, commErrors.IsValidation(err))
}

func TestCurrentUTCTime(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2020, time.October, 5, 14, 30, 0, 0, loc)
	assert.Equal(t, "Mon, 05 Oct 2020 11:30:00 GMT", CurrentUTCTime(ts))
}
