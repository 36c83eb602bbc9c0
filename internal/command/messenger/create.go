// Package messenger provides CLI commands definitions and execution logic.

package messenger

import (
	"fmt"

	busamqp "acs-toolkit/internal/bus/amqp"
	"acs-toolkit/internal/bus/errors"
	"acs-toolkit/internal/bus/modelbus"
	"acs-toolkit/internal/communication/shared"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/constants"
	"acs-toolkit/internal/syncutils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// CreateCommand defines a new command struct and sets its attributes.
type CreateCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	amqp      *busamqp.AMQP
	syncUtils *syncutils.SyncUtils
}

// NewCreateCommand creates a new command instance.
func NewCreateCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	amqp *busamqp.AMQP,
	syncUtils *syncutils.SyncUtils,
) *CreateCommand {
	logger.Debug().Msg("calling initializer of messenger:create command")
	return &CreateCommand{
		log:       logger,
		cfg:       cfg,
		amqp:      amqp,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *CreateCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "messenger",
		Name:     "messenger:create",
		Usage:    "Publish an outbound chat message or a delivery report",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Usage:   "Message type, either `outbound` or `delivery`",
				Aliases: []string{"t"},
				Value:   "outbound",
			},
			&cli.StringFlag{
				Name:     "user-id",
				Usage:    "Sender user identifier (userID)",
				Aliases:  []string{"u"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "thread-id",
				Usage:    "Chat thread ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "content",
				Usage:   "Message content",
				Aliases: []string{"c"},
			},
			&cli.StringFlag{
				Name:  "display-name",
				Usage: "Sender display name",
			},
			&cli.StringFlag{
				Name:  "priority",
				Usage: "Message priority, either `Normal` or `High`",
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Delivery status for `delivery` messages, either `sent` or `failed`",
				Value: constants.DeliveryStatusSent,
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *CreateCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "messenger:create"
		handlerKey = "cli_command"
	)

	var (
		messageType = ctx.String("type")
		userID      = ctx.String("user-id")
		threadID    = ctx.String("thread-id")
	)

	defer func() {
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	var (
		exchange string
		msg      any
	)
	switch messageType {
	case "outbound":
		outbound := modelbus.OutboundMessage{
			MessageID:         uuid.NewString(),
			SenderUserID:      userID,
			SenderDisplayName: ctx.String("display-name"),
			ThreadID:          threadID,
			Content:           ctx.String("content"),
			Priority:          ctx.String("priority"),
		}
		if err := shared.Validate(outbound); err != nil {
			t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.AMQPInvalidMessageError)
			return err
		}
		exchange, msg = t.cfg.AMQP.OutboundExchangeName, outbound
	case "delivery":
		status := ctx.String("status")
		if !isValidStatus(status) {
			return fmt.Errorf("invalid delivery status %s", status)
		}
		exchange, msg = t.cfg.AMQP.DeliveryExchangeName, modelbus.DeliveryReport{
			MessageID:    uuid.NewString(),
			SenderUserID: userID,
			ThreadID:     threadID,
			Status:       status,
		}
	default:
		return fmt.Errorf("invalid message type %s", messageType)
	}

	messageID, err := t.amqp.PublishJSON(t.syncUtils.Ctx, exchange, msg)
	if err != nil {
		t.log.Error().Err(err).Msg(errors.AMQPSendingError)
		return err
	}
	t.log.Info().Str(handlerKey, handler).Str("message_id", messageID).Msg(fmt.Sprintf("AMQP: message was published to %s", exchange))
	return nil
}

func isValidStatus(status string) bool {
	for _, valid := range constants.ValidDeliveryStatuses {
		if status == valid {
			return true
		}
	}
	return false
}
