// Package amqp implements AMQP service.

package amqp

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"acs-toolkit/internal/bus/errors"
	"acs-toolkit/internal/bus/modelbus"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/syncutils"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// republishedHeader marks a message that was already put back once.
const republishedHeader = "x-republished"

// Handler processes one delivery and returns the report to publish for it.
type Handler func(ctx context.Context, d *amqp.Delivery) (modelbus.DeliveryReport, error)

// AMQP defines queue client object and sets its attributes.
type AMQP struct {
	config    *config.Config
	log       *zerolog.Logger
	syncUtils *syncutils.SyncUtils

	mu      sync.Mutex
	channel *amqp.Channel
}

// NewAMQP initializes a new AMQP service. The broker is dialed on first use.
func NewAMQP(config *config.Config, logger *zerolog.Logger, syncUtils *syncutils.SyncUtils) *AMQP {
	logger.Debug().Msg("calling initializer of AMQP service")
	return &AMQP{
		config:    config,
		log:       logger,
		syncUtils: syncUtils,
	}
}

// Connect dials the broker once and declares exchanges, queues and bindings.
func (a *AMQP) Connect() (*amqp.Channel, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.channel != nil && !a.channel.IsClosed() {
		return a.channel, nil
	}
	a.log.Debug().Msg("calling `Connect` method")

	conn, err := amqp.Dial(a.config.AMQP.Addr)
	if err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPConnectionError)
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPChannelOpeningError)
		_ = conn.Close()
		return nil, err
	}

	if err = channel.Qos(a.config.AMQP.PrefetchCount, 0, false); err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPSettingQosError)
		_ = conn.Close()
		return nil, err
	}

	if err = a.declare(channel); err != nil {
		_ = conn.Close()
		return nil, err
	}
	a.channel = channel

	a.syncUtils.Wg.Add(1)
	go func() {
		defer a.syncUtils.Wg.Done()
		<-a.syncUtils.Ctx.Done()
		if err := conn.Close(); err != nil && err != amqp.ErrClosed {
			a.log.Error().Err(err).Msg("could not close AMQP connection")
			return
		}
		a.log.Debug().Msg("AMQP connection was closed")
	}()
	return channel, nil
}

// declare sets up the outbound and delivery exchange/queue pairs.
func (a *AMQP) declare(channel *amqp.Channel) error {
	cfg := a.config.AMQP
	pairs := map[string]string{
		cfg.OutboundExchangeName: cfg.OutboundQueueName,
		cfg.DeliveryExchangeName: cfg.DeliveryQueueName,
	}

	var waitGroup errgroup.Group
	for exchange := range pairs {
		exchange := exchange
		waitGroup.Go(func() error {
			return channel.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil)
		})
	}
	if err := waitGroup.Wait(); err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPExchangeDeclarationError)
		return err
	}

	for _, queue := range pairs {
		queue := queue
		waitGroup.Go(func() error {
			_, err := channel.QueueDeclare(queue, true, false, false, false, amqp.Table{})
			return err
		})
	}
	if err := waitGroup.Wait(); err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPQueueDeclarationError)
		return err
	}

	for exchange, queue := range pairs {
		exchange, queue := exchange, queue
		waitGroup.Go(func() error {
			return channel.QueueBind(queue, "", exchange, false, nil)
		})
	}
	if err := waitGroup.Wait(); err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPQueueBindingError)
		return err
	}
	return nil
}

// PublishToExchange publishes a message to the specified exchange.
func (a *AMQP) PublishToExchange(ctx context.Context, exchange string, msg amqp.Publishing) error {
	a.log.Debug().Msg("calling `PublishToExchange` method")
	channel, err := a.Connect()
	if err != nil {
		return err
	}

	if err := channel.PublishWithContext(ctx, exchange, "", false, false, msg); err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPPublishingError)
		return err
	}

	a.log.Info().Str("exchange", exchange).Str("message_id", msg.MessageId).Msg("message was successfully published to AMQP")
	return nil
}

// PublishJSON serializes v and publishes it as a persistent JSON message.
func (a *AMQP) PublishJSON(ctx context.Context, exchange string, v any) (string, error) {
	publishing, err := NewJSONPublishing(v)
	if err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPMarshallingError)
		return "", err
	}
	return publishing.MessageId, a.PublishToExchange(ctx, exchange, publishing)
}

// NewJSONPublishing wraps v into a publishing with a fresh message ID.
func NewJSONPublishing(v any) (amqp.Publishing, error) {
	serialized, err := json.Marshal(v)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Headers:      amqp.Table{},
		Body:         serialized,
	}, nil
}

// retryPublishing copies a failed delivery for a single republish, or reports false when it was republished already.
func retryPublishing(d *amqp.Delivery) (amqp.Publishing, bool) {
	if republished, _ := d.Headers[republishedHeader].(bool); republished {
		return amqp.Publishing{}, false
	}
	headers := amqp.Table{}
	for key, value := range d.Headers {
		headers[key] = value
	}
	headers[republishedHeader] = true
	return amqp.Publishing{
		ContentType:  d.ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    d.MessageId,
		Timestamp:    time.Now().UTC(),
		Headers:      headers,
		Body:         d.Body,
	}, true
}

// AddQueueListener consumes queueName until ctx is done, passing every delivery to fn
// and publishing its report to exchangeNameOut. Failed deliveries are put back on exchangeName once when republish is set.
func (a *AMQP) AddQueueListener(ctx context.Context, republish bool, queueName, exchangeName, exchangeNameOut string, fn Handler) error {
	channel, err := a.Connect()
	if err != nil {
		return err
	}
	messages, err := channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPConsumingError)
		return err
	}

	a.log.Info().Str("queue", queueName).Msg("AMQP: consumer started")
	for {
		var (
			delivery amqp.Delivery
			ok       bool
		)
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok = <-messages:
			if !ok {
				return nil
			}
		}
		a.log.Debug().Str("message_id", delivery.MessageId).Msg("AMQP: received message")

		report, fnErr := fn(ctx, &delivery)
		if ackErr := delivery.Ack(false); ackErr != nil {
			a.log.Error().Err(ackErr).Msg(errors.AMQPAckError)
			return ackErr
		}
		if fnErr != nil {
			a.log.Warn().Err(fnErr).Str("message_id", delivery.MessageId).Msg(errors.AMQPMessageProcessingError)
			if retry, ok := retryPublishing(&delivery); republish && ok {
				if err := a.PublishToExchange(ctx, exchangeName, retry); err != nil {
					a.log.Error().Err(err).Msg(errors.AMQPSendingError)
					return err
				}
				continue
			}
		}

		if _, err := a.PublishJSON(ctx, exchangeNameOut, report); err != nil {
			a.log.Error().Err(err).Msg(errors.AMQPSendingError)
			return err
		}
	}
}
