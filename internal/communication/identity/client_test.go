package identity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	commErrors "acs-toolkit/internal/communication/errors"
	"acs-toolkit/internal/communication/shared"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = base64.StdEncoding.EncodeToString([]byte("secret"))

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, testKey, &ClientOptions{
		ClientOptions: policy.ClientOptions{Retry: policy.RetryOptions{MaxRetries: -1}},
	})
	require.NoError(t, err)
	return client, &calls
}

func TestNewClientFromConnectionString(t *testing.T) {
	client, err := NewClientFromConnectionString("endpoint=https://contoso.communication.azure.com/;accesskey="+testKey, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://contoso.communication.azure.com", client.Endpoint())

	_, err = NewClientFromConnectionString("endpoint=https://contoso.communication.azure.com/", nil)
	assert.True(t, commErrors.IsValidation(err))
}

func TestNewClientRequiresCredential(t *testing.T) {
	_, err := NewClient("contoso.communication.azure.com", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), commErrors.MissingCredential)

	client, err := NewClient("contoso.communication.azure.com/?sv=2020&sig=abc", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://contoso.communication.azure.com", client.Endpoint())
}

func TestCreateUser(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/identities", r.URL.Path)
		assert.Equal(t, APIVersion, r.URL.Query().Get("api-version"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "HMAC-SHA256 "))
		assert.NotEmpty(t, r.Header.Get("x-ms-date"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"8:acs:abc"}`))
	})

	user, err := client.CreateUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8:acs:abc", user.ID)
}

func TestIssueToken(t *testing.T) {
	expires := time.Date(2030, time.January, 2, 3, 4, 5, 0, time.UTC)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/identities/8:acs:abc/token", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"scopes":["chat","voip"]}`, string(body))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":        "8:acs:abc",
			"token":     "jwt",
			"expiresOn": expires.Format(time.RFC3339),
		})
	})

	token, err := client.IssueToken(context.Background(), shared.CommunicationUser{ID: "8:acs:abc"}, []TokenScope{ScopeChat, ScopeVoIP})
	require.NoError(t, err)
	assert.Equal(t, "jwt", token.Token)
	assert.Equal(t, "8:acs:abc", token.User.ID)
	assert.True(t, expires.Equal(token.ExpiresOn))
}

func TestIssueTokenValidation(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.IssueToken(context.Background(), shared.CommunicationUser{}, []TokenScope{ScopeChat})
	assert.True(t, commErrors.IsValidation(err))

	_, err = client.IssueToken(context.Background(), shared.CommunicationUser{ID: "8:acs:abc"}, nil)
	assert.True(t, commErrors.IsValidation(err))

	_, err = client.IssueToken(context.Background(), shared.CommunicationUser{ID: "8:acs:abc"}, []TokenScope{"email"})
	var ve *commErrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, commErrors.InvalidValue, ve.Reason)

	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestRevokeTokens(t *testing.T) {
	issuedBefore := time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/identities/8:acs:abc", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"tokensValidFrom":"2021-03-01T00:00:00Z"}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.RevokeTokens(context.Background(), shared.CommunicationUser{ID: "8:acs:abc"}, &issuedBefore))
}

func TestDeleteUser(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, client.DeleteUser(context.Background(), shared.CommunicationUser{ID: "8:acs:abc"}))
}

func TestUserIDMustBeSingleSegment(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	user := shared.CommunicationUser{ID: ".."}
	assert.True(t, commErrors.IsValidation(client.DeleteUser(context.Background(), user)))
	assert.True(t, commErrors.IsValidation(client.RevokeTokens(context.Background(), user, nil)))
	_, err := client.IssueToken(context.Background(), shared.CommunicationUser{ID: "."}, []TokenScope{ScopeChat})
	assert.True(t, commErrors.IsValidation(err))
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestDeleteUserNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ms-error-code", "IdentityNotFound")
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.DeleteUser(context.Background(), shared.CommunicationUser{ID: "8:acs:missing"})
	var respErr *azcore.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusNotFound, respErr.StatusCode)
	assert.Equal(t, "IdentityNotFound", respErr.ErrorCode)
}

func TestSASPolicyAppendsToken(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"id":"8:acs:sas"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/?sv=2020&sig=abc", "", nil)
	require.NoError(t, err)
	user, err := client.CreateUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8:acs:sas", user.ID)
	assert.Contains(t, query, "sv=2020&sig=abc")
	assert.Contains(t, query, "api-version="+APIVersion)
}

func TestTokenScopeValid(t *testing.T) {
	assert.True(t, ScopePSTN.Valid())
	assert.False(t, TokenScope("email").Valid())
}
