package chat

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	commErrors "acs-toolkit/internal/communication/errors"
	"acs-toolkit/internal/communication/shared"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// ListMessagesOptions holds the optional parameters of NewListMessagesPager.
type ListMessagesOptions struct {
	MaxPageSize *int32
	StartTime   *time.Time
}

// ListPageOptions holds the paging parameters shared by member and read receipt listings.
type ListPageOptions struct {
	MaxPageSize *int32
	Skip        *int32
}

// ThreadClient operates on a single chat thread.
type ThreadClient struct {
	threadID string
	endpoint string
	pl       runtime.Pipeline
}

// NewThreadClient builds a ThreadClient for threadID authorized with a user access token.
func NewThreadClient(threadID, endpoint string, cred *shared.UserCredential, options *ClientOptions) (*ThreadClient, error) {
	client, err := NewClient(endpoint, cred, options)
	if err != nil {
		return nil, err
	}
	return client.GetChatThreadClient(threadID)
}

// ThreadID returns the id of the thread this client is bound to.
func (c *ThreadClient) ThreadID() string {
	return c.threadID
}

func (c *ThreadClient) resourceURL(paths ...string) string {
	return runtime.JoinPaths(c.endpoint, append([]string{threadsPath, url.PathEscape(c.threadID)}, paths...)...)
}

// UpdateThread changes the thread topic.
func (c *ThreadClient) UpdateThread(ctx context.Context, topic string) error {
	_, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPatch,
		URL:        c.resourceURL(),
		APIVersion: APIVersion,
		Body:       updateChatThreadRequest{Topic: topic},
		Statuses:   []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

// SendReadReceipt marks messageID and every earlier message as read.
func (c *ThreadClient) SendReadReceipt(ctx context.Context, messageID string) error {
	if err := shared.RequireNonEmpty("message id", messageID); err != nil {
		return err
	}
	_, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPost,
		URL:        c.resourceURL("readreceipts"),
		APIVersion: APIVersion,
		Body:       sendReadReceiptRequest{ChatMessageID: messageID},
		Statuses:   []int{http.StatusOK, http.StatusCreated},
	})
	return err
}

// NewListReadReceiptsPager lists the read receipts of the thread.
func (c *ThreadClient) NewListReadReceiptsPager(options *ListPageOptions) *runtime.Pager[ListReadReceiptsResult] {
	return shared.NewPager(c.pl, c.listCall("readreceipts", pageQuery(options)),
		func(page ListReadReceiptsResult) string { return page.NextLink })
}

// SendTypingNotification tells other members the user is typing.
func (c *ThreadClient) SendTypingNotification(ctx context.Context) error {
	_, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPost,
		URL:        c.resourceURL("typing"),
		APIVersion: APIVersion,
	})
	return err
}

// SendMessage posts a message to the thread.
func (c *ThreadClient) SendMessage(ctx context.Context, request SendChatMessageRequest) (SendChatMessageResult, error) {
	if err := shared.Validate(request); err != nil {
		return SendChatMessageResult{}, err
	}
	if request.Priority == "" {
		request.Priority = PriorityNormal
	}
	var result SendChatMessageResult
	_, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPost,
		URL:        c.resourceURL("messages"),
		APIVersion: APIVersion,
		Body:       request,
		Out:        &result,
		Statuses:   []int{http.StatusCreated},
	})
	if err != nil {
		return SendChatMessageResult{}, err
	}
	return result, nil
}

// GetMessage fetches one message by id.
func (c *ThreadClient) GetMessage(ctx context.Context, messageID string) (ChatMessage, error) {
	segment, err := shared.PathSegment("message id", messageID)
	if err != nil {
		return ChatMessage{}, err
	}
	var message ChatMessage
	_, err = shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodGet,
		URL:        c.resourceURL("messages", segment),
		APIVersion: APIVersion,
		Out:        &message,
	})
	if err != nil {
		return ChatMessage{}, err
	}
	return message, nil
}

// NewListMessagesPager lists the thread messages, newest first.
func (c *ThreadClient) NewListMessagesPager(options *ListMessagesOptions) *runtime.Pager[ListChatMessagesResult] {
	query := url.Values{}
	if options != nil {
		if options.MaxPageSize != nil {
			query.Set("maxPageSize", strconv.FormatInt(int64(*options.MaxPageSize), 10))
		}
		if options.StartTime != nil {
			query.Set("startTime", options.StartTime.UTC().Format(time.RFC3339))
		}
	}
	return shared.NewPager(c.pl, c.listCall("messages", query),
		func(page ListChatMessagesResult) string { return page.NextLink })
}

// UpdateMessage edits the content or priority of a message.
func (c *ThreadClient) UpdateMessage(ctx context.Context, messageID string, request UpdateChatMessageRequest) error {
	segment, err := shared.PathSegment("message id", messageID)
	if err != nil {
		return err
	}
	_, err = shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPatch,
		URL:        c.resourceURL("messages", segment),
		APIVersion: APIVersion,
		Body:       request,
		Statuses:   []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

// DeleteMessage deletes a message by id.
func (c *ThreadClient) DeleteMessage(ctx context.Context, messageID string) error {
	segment, err := shared.PathSegment("message id", messageID)
	if err != nil {
		return err
	}
	_, err = shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodDelete,
		URL:        c.resourceURL("messages", segment),
		APIVersion: APIVersion,
		Statuses:   []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

// NewListMembersPager lists the thread members.
func (c *ThreadClient) NewListMembersPager(options *ListPageOptions) *runtime.Pager[ListMembersResult] {
	return shared.NewPager(c.pl, c.listCall("members", pageQuery(options)),
		func(page ListMembersResult) string { return page.NextLink })
}

// AddMembers adds members to the thread. Members the service rejects are reported in the result.
func (c *ThreadClient) AddMembers(ctx context.Context, members []ChatThreadMember) (AddMembersResult, error) {
	body := addMembersRequest{Members: members}
	if err := shared.Validate(body); err != nil {
		return AddMembersResult{}, err
	}
	var result AddMembersResult
	_, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPost,
		URL:        c.resourceURL("members"),
		APIVersion: APIVersion,
		Body:       body,
		Out:        &result,
		Statuses:   []int{http.StatusOK, http.StatusCreated, http.StatusMultiStatus},
	})
	if err != nil {
		return AddMembersResult{}, err
	}
	return result, nil
}

// RemoveMember removes user from the thread.
func (c *ThreadClient) RemoveMember(ctx context.Context, user shared.CommunicationIdentifier) error {
	if user == nil {
		return commErrors.NewEmptyError("member id")
	}
	segment, err := shared.PathSegment("member id", user.RawID())
	if err != nil {
		return err
	}
	_, err = shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodDelete,
		URL:        c.resourceURL("members", segment),
		APIVersion: APIVersion,
		Statuses:   []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

func (c *ThreadClient) listCall(resource string, query url.Values) shared.Call {
	return shared.Call{
		Method:     http.MethodGet,
		URL:        c.resourceURL(resource),
		APIVersion: APIVersion,
		Query:      query,
	}
}

func pageQuery(options *ListPageOptions) url.Values {
	query := url.Values{}
	if options == nil {
		return query
	}
	if options.MaxPageSize != nil {
		query.Set("maxPageSize", strconv.FormatInt(int64(*options.MaxPageSize), 10))
	}
	if options.Skip != nil {
		query.Set("skip", strconv.FormatInt(int64(*options.Skip), 10))
	}
	return query
}
