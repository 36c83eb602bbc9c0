// Package chat provides clients for chat threads, messages, members and read receipts.
package chat

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	commErrors "acs-toolkit/internal/communication/errors"
	"acs-toolkit/internal/communication/shared"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/google/uuid"
)

const (
	moduleName    = "chat"
	moduleVersion = "v0.1.0"

	// APIVersion is the chat service REST version this client speaks.
	APIVersion = "2020-09-21-preview2"

	headerRepeatabilityRequestID = "repeatability-Request-ID"
	headerCorrelationVector      = "MS-CV"

	threadsPath = "/chat/threads"
)

// ClientOptions configures the underlying azcore pipeline.
type ClientOptions struct {
	policy.ClientOptions
}

// CreateChatThreadOptions holds the optional parameters of CreateChatThread.
type CreateChatThreadOptions struct {
	// RepeatabilityRequestID makes retries of the same create idempotent. Generated when empty.
	RepeatabilityRequestID string
	CorrelationVector      string
}

// ListChatThreadsOptions holds the optional parameters of NewListChatThreadsPager.
type ListChatThreadsOptions struct {
	MaxPageSize *int32
	StartTime   *time.Time
}

// Client manages chat threads on behalf of one user.
type Client struct {
	endpoint string
	pl       runtime.Pipeline
}

// NewClient builds a Client authorized with a user access token.
func NewClient(endpoint string, cred *shared.UserCredential, options *ClientOptions) (*Client, error) {
	if cred == nil {
		return nil, &commErrors.ValidationError{Param: "credential", Reason: commErrors.EmptyParameter}
	}
	normalized, err := shared.NormalizeEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = &ClientOptions{}
	}
	return &Client{
		endpoint: normalized,
		pl:       shared.NewPipeline(moduleName, moduleVersion, shared.NewUserCredentialPolicy(cred), &options.ClientOptions),
	}, nil
}

// Endpoint returns the service base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// GetChatThreadClient returns a ThreadClient sharing this client's pipeline.
func (c *Client) GetChatThreadClient(threadID string) (*ThreadClient, error) {
	if _, err := shared.PathSegment("thread id", threadID); err != nil {
		return nil, err
	}
	return &ThreadClient{threadID: threadID, endpoint: c.endpoint, pl: c.pl}, nil
}

// CreateChatThread creates a thread with an initial member list.
func (c *Client) CreateChatThread(ctx context.Context, request CreateChatThreadRequest, options *CreateChatThreadOptions) (CreateChatThreadResult, error) {
	if err := shared.Validate(request); err != nil {
		return CreateChatThreadResult{}, err
	}
	if options == nil {
		options = &CreateChatThreadOptions{}
	}
	requestID := options.RepeatabilityRequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	headers := map[string]string{headerRepeatabilityRequestID: requestID}
	if options.CorrelationVector != "" {
		headers[headerCorrelationVector] = options.CorrelationVector
	}

	var result CreateChatThreadResult
	_, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPost,
		URL:        runtime.JoinPaths(c.endpoint, threadsPath),
		APIVersion: APIVersion,
		Headers:    headers,
		Body:       request,
		Out:        &result,
		Statuses:   []int{http.StatusCreated, http.StatusMultiStatus},
	})
	if err != nil {
		return CreateChatThreadResult{}, err
	}
	return result, nil
}

// GetChatThread fetches a thread by id.
func (c *Client) GetChatThread(ctx context.Context, threadID string) (ChatThread, error) {
	segment, err := shared.PathSegment("thread id", threadID)
	if err != nil {
		return ChatThread{}, err
	}
	var thread ChatThread
	_, err = shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodGet,
		URL:        runtime.JoinPaths(c.endpoint, threadsPath, segment),
		APIVersion: APIVersion,
		Out:        &thread,
	})
	if err != nil {
		return ChatThread{}, err
	}
	return thread, nil
}

// DeleteChatThread deletes a thread by id.
func (c *Client) DeleteChatThread(ctx context.Context, threadID string) error {
	segment, err := shared.PathSegment("thread id", threadID)
	if err != nil {
		return err
	}
	_, err = shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodDelete,
		URL:        runtime.JoinPaths(c.endpoint, threadsPath, segment),
		APIVersion: APIVersion,
		Statuses:   []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

// NewListChatThreadsPager lists the threads the user is a member of.
func (c *Client) NewListChatThreadsPager(options *ListChatThreadsOptions) *runtime.Pager[ListChatThreadsResult] {
	query := url.Values{}
	if options != nil {
		if options.MaxPageSize != nil {
			query.Set("maxPageSize", strconv.FormatInt(int64(*options.MaxPageSize), 10))
		}
		if options.StartTime != nil {
			query.Set("startTime", options.StartTime.UTC().Format(time.RFC3339))
		}
	}
	return shared.NewPager(c.pl, shared.Call{
		Method:     http.MethodGet,
		URL:        runtime.JoinPaths(c.endpoint, threadsPath),
		APIVersion: APIVersion,
		Query:      query,
	}, func(page ListChatThreadsResult) string { return page.NextLink })
}
