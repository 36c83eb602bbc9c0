package chat

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	commErrors "acs-toolkit/internal/communication/errors"
	"acs-toolkit/internal/communication/shared"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMessageID = "1596823919339"

func newThreadClient(t *testing.T) (*fakeService, *ThreadClient) {
	t.Helper()
	fake, client := newFakeService(t)
	threadClient, err := client.GetChatThreadClient(testThreadID)
	require.NoError(t, err)
	return fake, threadClient
}

func TestNewThreadClient(t *testing.T) {
	cred, _ := shared.NewUserCredential("some_token")
	_, err := NewThreadClient("", "https://endpoint", cred, nil)
	assert.True(t, commErrors.IsValidation(err))

	_, err = NewThreadClient(testThreadID, "https://endpoint", nil, nil)
	assert.True(t, commErrors.IsValidation(err))

	client, err := NewThreadClient(testThreadID, "https://endpoint", cred, nil)
	require.NoError(t, err)
	assert.Equal(t, testThreadID, client.ThreadID())
}

func TestUpdateThread(t *testing.T) {
	fake, client := newThreadClient(t)
	fake.router.Patch("/chat/threads/{threadID}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testThreadID, chi.URLParam(r, "threadID"))
		assert.JSONEq(t, `{"topic":"update topic"}`, readBody(t, r))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.UpdateThread(context.Background(), "update topic"))
}

func TestSendMessage(t *testing.T) {
	fake, client := newThreadClient(t)
	fake.router.Post("/chat/threads/{threadID}/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.JSONEq(t, `{"content":"hello world","priority":"Normal","senderDisplayName":"sender name"}`, readBody(t, r))
		writeJSON(w, http.StatusCreated, map[string]string{"id": testMessageID})
	})

	result, err := client.SendMessage(context.Background(), SendChatMessageRequest{
		Content:           "hello world",
		SenderDisplayName: "sender name",
	})
	require.NoError(t, err)
	assert.Equal(t, testMessageID, result.ID)
}

func TestSendMessageRequiresContent(t *testing.T) {
	fake, client := newThreadClient(t)

	_, err := client.SendMessage(context.Background(), SendChatMessageRequest{Priority: PriorityHigh})
	assert.True(t, commErrors.IsValidation(err))
	assert.Zero(t, atomic.LoadInt32(&fake.calls))
}

func TestGetMessage(t *testing.T) {
	fake, client := newThreadClient(t)
	fake.router.Get("/chat/threads/{threadID}/messages/{messageID}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "messageID"), "content": "hi"})
	})

	message, err := client.GetMessage(context.Background(), testMessageID)
	require.NoError(t, err)
	assert.Equal(t, testMessageID, message.ID)
	assert.Equal(t, "hi", message.Content)
}

func TestListMessages(t *testing.T) {
	fake, client := newThreadClient(t)
	fake.router.Get("/chat/threads/{threadID}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"value": []map[string]string{
			{"id": "message_id1", "createdOn": "2020-08-17T18:05:44Z"},
			{"id": "message_id2", "createdOn": "2020-08-17T23:13:33Z"},
		}})
	})

	pager := client.NewListMessagesPager(nil)
	require.True(t, pager.More())
	page, err := pager.NextPage(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Value, 2)
	assert.Equal(t, "message_id1", page.Value[0].ID)
	require.NotNil(t, page.Value[1].CreatedOn)
	assert.Equal(t, 23, page.Value[1].CreatedOn.Hour())
	assert.False(t, pager.More())
}

func TestUpdateAndDeleteMessage(t *testing.T) {
	fake, client := newThreadClient(t)
	fake.router.Patch("/chat/threads/{threadID}/messages/{messageID}", func(w http.ResponseWriter, r *http.Request) {
		assert.JSONEq(t, `{"content":"updated message content"}`, readBody(t, r))
		w.WriteHeader(http.StatusOK)
	})
	fake.router.Delete("/chat/threads/{threadID}/messages/{messageID}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testMessageID, chi.URLParam(r, "messageID"))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.UpdateMessage(context.Background(), testMessageID, UpdateChatMessageRequest{Content: "updated message content"}))
	require.NoError(t, client.DeleteMessage(context.Background(), testMessageID))
}

func TestMessageIDValidation(t *testing.T) {
	fake, client := newThreadClient(t)

	_, err := client.GetMessage(context.Background(), "")
	assert.True(t, commErrors.IsValidation(err))
	assert.True(t, commErrors.IsValidation(client.UpdateMessage(context.Background(), "", UpdateChatMessageRequest{Content: "x"})))
	assert.True(t, commErrors.IsValidation(client.DeleteMessage(context.Background(), "")))
	assert.True(t, commErrors.IsValidation(client.SendReadReceipt(context.Background(), "")))

	_, err = client.GetMessage(context.Background(), "..")
	assert.True(t, commErrors.IsValidation(err))
	assert.True(t, commErrors.IsValidation(client.DeleteMessage(context.Background(), ".")))
	assert.True(t, commErrors.IsValidation(client.RemoveMember(context.Background(), shared.CommunicationUser{ID: ".."})))
	assert.Zero(t, atomic.LoadInt32(&fake.calls))
}

func TestMembers(t *testing.T) {
	fake, client := newThreadClient(t)
	fake.router.Get("/chat/threads/{threadID}/members", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"value": []map[string]string{{"id": testMemberID}}})
	})
	fake.router.Post("/chat/threads/{threadID}/members", func(w http.ResponseWriter, r *http.Request) {
		assert.JSONEq(t, `{"members":[{"id":"`+testMemberID+`","displayName":"name"}]}`, readBody(t, r))
		w.WriteHeader(http.StatusCreated)
	})
	fake.router.Delete("/chat/threads/{threadID}/members/{memberID}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testMemberID, chi.URLParam(r, "memberID"))
		w.WriteHeader(http.StatusNoContent)
	})

	pager := client.NewListMembersPager(nil)
	page, err := pager.NextPage(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Value, 1)
	assert.Equal(t, testMemberID, page.Value[0].ID)

	_, err = client.AddMembers(context.Background(), []ChatThreadMember{{ID: testMemberID, DisplayName: "name"}})
	require.NoError(t, err)

	require.NoError(t, client.RemoveMember(context.Background(), shared.CommunicationUser{ID: testMemberID}))
}

func TestMembersValidation(t *testing.T) {
	fake, client := newThreadClient(t)

	_, err := client.AddMembers(context.Background(), nil)
	assert.True(t, commErrors.IsValidation(err))
	assert.True(t, commErrors.IsValidation(client.RemoveMember(context.Background(), nil)))
	assert.True(t, commErrors.IsValidation(client.RemoveMember(context.Background(), shared.CommunicationUser{})))
	assert.Zero(t, atomic.LoadInt32(&fake.calls))
}

func TestReadReceiptsAndTyping(t *testing.T) {
	fake, client := newThreadClient(t)
	fake.router.Post("/chat/threads/{threadID}/readreceipts", func(w http.ResponseWriter, r *http.Request) {
		assert.JSONEq(t, `{"chatMessageId":"`+testMessageID+`"}`, readBody(t, r))
		w.WriteHeader(http.StatusCreated)
	})
	fake.router.Get("/chat/threads/{threadID}/readreceipts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("skip"))
		writeJSON(w, http.StatusOK, map[string]any{"value": []map[string]string{
			{"senderId": testMemberID, "chatMessageId": testMessageID},
		}})
	})
	fake.router.Post("/chat/threads/{threadID}/typing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.SendReadReceipt(context.Background(), testMessageID))

	skip := int32(5)
	page, err := client.NewListReadReceiptsPager(&ListPageOptions{Skip: &skip}).NextPage(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Value, 1)
	assert.Equal(t, testMessageID, page.Value[0].ChatMessageID)

	require.NoError(t, client.SendTypingNotification(context.Background()))
}
