// Package identity provides a client for creating communication users and managing their access tokens.
package identity

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	commErrors "acs-toolkit/internal/communication/errors"
	"acs-toolkit/internal/communication/shared"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

const (
	moduleName    = "identity"
	moduleVersion = "v0.1.0"

	// APIVersion is the identity service REST version this client speaks.
	APIVersion = "2020-07-20-preview2"
)

// ClientOptions configures the underlying azcore pipeline.
type ClientOptions struct {
	policy.ClientOptions
}

// Client manages communication users and their tokens.
type Client struct {
	endpoint string
	pl       runtime.Pipeline
}

// NewClientFromConnectionString builds a Client from an `endpoint=...;accesskey=...` string.
func NewClientFromConnectionString(connStr string, options *ClientOptions) (*Client, error) {
	cs, err := shared.ParseConnectionString(connStr)
	if err != nil {
		return nil, err
	}
	return NewClient(cs.Endpoint, cs.AccessKey, options)
}

// NewClient builds a Client for endpoint. Requests are signed with accessKey,
// or carry the SAS token found in the endpoint query when no key is given.
func NewClient(endpoint, accessKey string, options *ClientOptions) (*Client, error) {
	normalized, err := shared.NormalizeEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return nil, &commErrors.ValidationError{Param: "endpoint", Reason: commErrors.InvalidURL}
	}
	_, sasToken := shared.ParseQuery(parsed.RawQuery)

	var auth policy.Policy
	switch {
	case accessKey != "":
		hmacPolicy, err := shared.NewHMACPolicy(accessKey)
		if err != nil {
			return nil, err
		}
		auth = hmacPolicy
	case sasToken != "":
		auth = sasPolicy{token: sasToken}
	default:
		return nil, &commErrors.ValidationError{Param: "credential", Reason: commErrors.MissingCredential}
	}

	parsed.RawQuery = ""
	if options == nil {
		options = &ClientOptions{}
	}
	return &Client{
		endpoint: strings.TrimRight(parsed.String(), "/"),
		pl:       shared.NewPipeline(moduleName, moduleVersion, auth, &options.ClientOptions),
	}, nil
}

// Endpoint returns the service base URL without any query.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// CreateUser creates a new communication user.
func (c *Client) CreateUser(ctx context.Context) (shared.CommunicationUser, error) {
	var user shared.CommunicationUser
	_, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPost,
		URL:        runtime.JoinPaths(c.endpoint, "/identities"),
		APIVersion: APIVersion,
		Out:        &user,
		Statuses:   []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		return shared.CommunicationUser{}, err
	}
	return user, nil
}

// DeleteUser deletes user along with every token issued to it.
func (c *Client) DeleteUser(ctx context.Context, user shared.CommunicationUser) error {
	segment, err := shared.PathSegment("user", user.ID)
	if err != nil {
		return err
	}
	_, err = shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodDelete,
		URL:        runtime.JoinPaths(c.endpoint, "/identities", segment),
		APIVersion: APIVersion,
		Statuses:   []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

// IssueToken issues an access token with the given scopes for user.
func (c *Client) IssueToken(ctx context.Context, user shared.CommunicationUser, scopes []TokenScope) (CommunicationUserToken, error) {
	segment, err := shared.PathSegment("user", user.ID)
	if err != nil {
		return CommunicationUserToken{}, err
	}
	body := TokenRequest{Scopes: scopes}
	if err := shared.Validate(body); err != nil {
		return CommunicationUserToken{}, err
	}

	var token CommunicationUserToken
	_, err = shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPost,
		URL:        runtime.JoinPaths(c.endpoint, "/identities", segment, "token"),
		APIVersion: APIVersion,
		Body:       body,
		Out:        &token,
		Statuses:   []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		return CommunicationUserToken{}, err
	}
	token.User = user
	if token.ID == "" {
		token.ID = user.ID
	}
	return token, nil
}

// RevokeTokens invalidates every token of user issued before issuedBefore, or before now when nil.
func (c *Client) RevokeTokens(ctx context.Context, user shared.CommunicationUser, issuedBefore *time.Time) error {
	segment, err := shared.PathSegment("user", user.ID)
	if err != nil {
		return err
	}
	validFrom := time.Now().UTC()
	if issuedBefore != nil {
		validFrom = issuedBefore.UTC()
	}
	_, err = shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPatch,
		URL:        runtime.JoinPaths(c.endpoint, "/identities", segment),
		APIVersion: APIVersion,
		Body:       revokeRequest{TokensValidFrom: validFrom},
		Statuses:   []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

// sasPolicy appends a shared access signature to every request.
type sasPolicy struct {
	token string
}

func (p sasPolicy) Do(req *policy.Request) (*http.Response, error) {
	raw := req.Raw()
	if raw.URL.RawQuery == "" {
		raw.URL.RawQuery = p.token
	} else {
		raw.URL.RawQuery += "&" + p.token
	}
	return req.Next()
}
