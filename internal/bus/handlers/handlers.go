// Package handlers implements AMQP handling functions.

package handlers

import (
	"context"
	"encoding/json"
	"time"

	"acs-toolkit/internal/broker/broker"
	busamqp "acs-toolkit/internal/bus/amqp"
	"acs-toolkit/internal/bus/errors"
	"acs-toolkit/internal/bus/modelbus"
	"acs-toolkit/internal/clients/factory"
	"acs-toolkit/internal/communication/chat"
	"acs-toolkit/internal/communication/identity"
	"acs-toolkit/internal/communication/shared"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/constants"
	"acs-toolkit/internal/syncutils"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	republishOutbound = true
	handlerKey        = "amqp"
	userIDKey         = "userID"
	messageTimeout    = 60 * time.Second
)

// TokenIssuer issues chat tokens for application users.
type TokenIssuer interface {
	IssueToken(ctx context.Context, userID string, scopes []identity.TokenScope, handler string) (*broker.Grant, error)
}

// MessageSender posts a message to one chat thread.
type MessageSender interface {
	SendMessage(ctx context.Context, request chat.SendChatMessageRequest) (chat.SendChatMessageResult, error)
}

// ThreadClients returns a sender for threadID authorized with token.
type ThreadClients func(threadID, token string) (MessageSender, error)

// AMQPHandler defines an AMQP handler object and sets its attributes.
type AMQPHandler struct {
	log       *zerolog.Logger
	amqp      *busamqp.AMQP
	cfg       *config.Config
	issuer    TokenIssuer
	threads   ThreadClients
	syncUtils *syncutils.SyncUtils
	now       func() time.Time
}

// NewAMQPHandler initializes a new AMQP handling service.
func NewAMQPHandler(
	logger *zerolog.Logger,
	tokenBroker *broker.Broker,
	clients *factory.Factory,
	amqp *busamqp.AMQP,
	cfg *config.Config,
	syncUtils *syncutils.SyncUtils,
) *AMQPHandler {
	logger.Debug().Msg("calling initializer of AMQP handling service")
	return &AMQPHandler{
		log:    logger,
		issuer: tokenBroker,
		threads: func(threadID, token string) (MessageSender, error) {
			return clients.ChatThread(threadID, token)
		},
		amqp:      amqp,
		cfg:       cfg,
		syncUtils: syncUtils,
		now:       time.Now,
	}
}

// handleOutboundQueue posts one outbound message as its sender.
func (h *AMQPHandler) handleOutboundQueue(ctx context.Context, d *amqp.Delivery) (modelbus.DeliveryReport, error) {
	h.log.Debug().Msg("calling `handleOutboundQueue` method")
	const handler = "send"

	ctxMain, cancel := context.WithTimeout(ctx, messageTimeout)
	defer cancel()

	report := modelbus.DeliveryReport{MessageID: d.MessageId, Status: constants.DeliveryStatusFailed}
	fail := func(err error, message string) (modelbus.DeliveryReport, error) {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, report.SenderUserID).Msg(message)
		report.Error = err.Error()
		report.HandledAt = h.now().UTC()
		return report, err
	}

	msg := modelbus.OutboundMessage{}
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return fail(err, errors.AMQPUnmarshallingError)
	}
	if msg.MessageID != "" {
		report.MessageID = msg.MessageID
	}
	report.SenderUserID = msg.SenderUserID
	report.ThreadID = msg.ThreadID
	if err := shared.Validate(msg); err != nil {
		return fail(err, errors.AMQPInvalidMessageError)
	}

	grant, err := h.issuer.IssueToken(ctxMain, msg.SenderUserID, []identity.TokenScope{identity.ScopeChat}, handler)
	if err != nil {
		return fail(err, errors.AMQPHandlerTokenError)
	}

	thread, err := h.threads(msg.ThreadID, grant.Token)
	if err != nil {
		return fail(err, errors.AMQPHandlerThreadError)
	}

	result, err := thread.SendMessage(ctxMain, chat.SendChatMessageRequest{
		Content:           msg.Content,
		Priority:          chat.ChatMessagePriority(msg.Priority),
		SenderDisplayName: msg.SenderDisplayName,
	})
	if err != nil {
		return fail(err, errors.AMQPHandlerSendingError)
	}

	report.Status = constants.DeliveryStatusSent
	report.ChatMessageID = result.ID
	report.HandledAt = h.now().UTC()
	h.log.Info().Str(handlerKey, handler).Str(userIDKey, msg.SenderUserID).Str("chat_message_id", result.ID).Msg("message is posted")
	return report, nil
}

// Handle is a master handler starting the sub-handlers.
func (h *AMQPHandler) Handle(ctx context.Context) error {
	h.log.Debug().Msg("calling `Handle` method")
	g := &errgroup.Group{}

	h.syncUtils.Wg.Add(1)
	g.Go(func() error {
		defer h.syncUtils.Wg.Done()
		return h.amqp.AddQueueListener(
			ctx,
			republishOutbound,
			h.cfg.AMQP.OutboundQueueName,
			h.cfg.AMQP.OutboundExchangeName,
			h.cfg.AMQP.DeliveryExchangeName,
			h.handleOutboundQueue,
		)
	})
	if err := g.Wait(); err != nil {
		h.log.Error().Err(err).Msg(errors.AMQPListeningError)
		return err
	}

	h.syncUtils.SyncCancel()
	h.syncUtils.Wg.Wait()

	return nil
}
