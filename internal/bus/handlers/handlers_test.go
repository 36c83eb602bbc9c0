package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/communication/chat"
	"acs-toolkit/internal/communication/identity"
	"acs-toolkit/internal/constants"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	err    error
	scopes []identity.TokenScope
}

func (f *fakeIssuer) IssueToken(_ context.Context, userID string, scopes []identity.TokenScope, _ string) (*broker.Grant, error) {
	f.scopes = scopes
	if f.err != nil {
		return nil, f.err
	}
	return &broker.Grant{UserID: userID, Token: "token-" + userID}, nil
}

type fakeSender struct {
	err     error
	request chat.SendChatMessageRequest
}

func (f *fakeSender) SendMessage(_ context.Context, request chat.SendChatMessageRequest) (chat.SendChatMessageResult, error) {
	f.request = request
	if f.err != nil {
		return chat.SendChatMessageResult{}, f.err
	}
	return chat.SendChatMessageResult{ID: "1600000000000"}, nil
}

var fixedNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func newHandler(issuer TokenIssuer, sender *fakeSender, gotToken *string) *AMQPHandler {
	log := zerolog.Nop()
	return &AMQPHandler{
		log:    &log,
		issuer: issuer,
		threads: func(threadID, token string) (MessageSender, error) {
			*gotToken = threadID + "|" + token
			return sender, nil
		},
		now: func() time.Time { return fixedNow },
	}
}

func TestHandleOutboundQueueSends(t *testing.T) {
	issuer := &fakeIssuer{}
	sender := &fakeSender{}
	var gotToken string
	h := newHandler(issuer, sender, &gotToken)

	report, err := h.handleOutboundQueue(context.Background(), &amqp.Delivery{
		MessageId: "delivery-id",
		Body:      []byte(`{"message_id":"m-1","sender_user_id":"alice","thread_id":"19:t@thread.v2","content":"hello","priority":"High"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, constants.DeliveryStatusSent, report.Status)
	assert.Equal(t, "m-1", report.MessageID)
	assert.Equal(t, "alice", report.SenderUserID)
	assert.Equal(t, "1600000000000", report.ChatMessageID)
	assert.Equal(t, fixedNow, report.HandledAt)
	assert.Empty(t, report.Error)

	assert.Equal(t, []identity.TokenScope{identity.ScopeChat}, issuer.scopes)
	assert.Equal(t, "19:t@thread.v2|token-alice", gotToken)
	assert.Equal(t, "hello", sender.request.Content)
	assert.Equal(t, chat.PriorityHigh, sender.request.Priority)
}

func TestHandleOutboundQueueFailures(t *testing.T) {
	var gotToken string

	t.Run("malformed body", func(t *testing.T) {
		h := newHandler(&fakeIssuer{}, &fakeSender{}, &gotToken)
		report, err := h.handleOutboundQueue(context.Background(), &amqp.Delivery{MessageId: "d", Body: []byte(`{`)})
		require.Error(t, err)
		assert.Equal(t, constants.DeliveryStatusFailed, report.Status)
		assert.Equal(t, "d", report.MessageID)
	})

	t.Run("missing content", func(t *testing.T) {
		issuer := &fakeIssuer{}
		h := newHandler(issuer, &fakeSender{}, &gotToken)
		report, err := h.handleOutboundQueue(context.Background(), &amqp.Delivery{
			Body: []byte(`{"sender_user_id":"alice","thread_id":"t"}`),
		})
		require.Error(t, err)
		assert.Equal(t, constants.DeliveryStatusFailed, report.Status)
		assert.Nil(t, issuer.scopes)
	})

	t.Run("token error", func(t *testing.T) {
		h := newHandler(&fakeIssuer{err: errors.New("no identity")}, &fakeSender{}, &gotToken)
		report, err := h.handleOutboundQueue(context.Background(), &amqp.Delivery{
			Body: []byte(`{"sender_user_id":"alice","thread_id":"t","content":"x"}`),
		})
		require.Error(t, err)
		assert.Equal(t, "no identity", report.Error)
	})

	t.Run("send error", func(t *testing.T) {
		h := newHandler(&fakeIssuer{}, &fakeSender{err: errors.New("thread gone")}, &gotToken)
		report, err := h.handleOutboundQueue(context.Background(), &amqp.Delivery{
			Body: []byte(`{"sender_user_id":"alice","thread_id":"t","content":"x"}`),
		})
		require.Error(t, err)
		assert.Equal(t, constants.DeliveryStatusFailed, report.Status)
		assert.Equal(t, "t", report.ThreadID)
		assert.Equal(t, "thread gone", report.Error)
	})
}
