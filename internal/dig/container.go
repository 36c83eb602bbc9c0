// Package dig implements logic for dependency injection using uber-go/dig.

package dig

import (
	"fmt"

	"acs-toolkit/internal/api/v1/rest/handlers"
	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/bus/amqp"
	amqpHandlers "acs-toolkit/internal/bus/handlers"
	cli2 "acs-toolkit/internal/cli"
	"acs-toolkit/internal/clients/factory"
	"acs-toolkit/internal/command"
	commandChat "acs-toolkit/internal/command/chat"
	commandHTTP "acs-toolkit/internal/command/http"
	commandIdentity "acs-toolkit/internal/command/identity"
	commandMessenger "acs-toolkit/internal/command/messenger"
	commandResource "acs-toolkit/internal/command/resource"
	commandStorage "acs-toolkit/internal/command/storage"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/logger"
	"acs-toolkit/internal/s3/s3"
	"acs-toolkit/internal/scopemanager"
	"acs-toolkit/internal/storage/v1/psql"
	"acs-toolkit/internal/syncutils"

	"go.uber.org/dig"
)

var definitions = []interface{}{
	handlers.NewEndpointHandlers,
	commandHTTP.NewServeCommand,
	commandStorage.NewMigrateCommand,
	commandStorage.NewResetCommand,
	commandIdentity.NewCreateCommand,
	commandIdentity.NewDeleteCommand,
	commandIdentity.NewTokenCommand,
	commandIdentity.NewRevokeCommand,
	commandIdentity.NewAllCommand,
	commandChat.NewThreadCreateCommand,
	commandChat.NewThreadGetCommand,
	commandChat.NewThreadListCommand,
	commandChat.NewThreadDeleteCommand,
	commandChat.NewMessageSendCommand,
	commandChat.NewMessageListCommand,
	commandChat.NewMemberListCommand,
	commandChat.NewMemberAddCommand,
	commandChat.NewExportCommand,
	commandResource.NewListCommand,
	commandResource.NewKeysCommand,
	commandResource.NewCreateCommand,
	commandResource.NewDeleteCommand,
	commandResource.NewOperationsCommand,
	commandMessenger.NewConsumeCommand,
	commandMessenger.NewCreateCommand,
	config.NewConfig,
	logger.NewLog,
	factory.NewFactory,
	factory.Issuers,
	scopemanager.NewScopeManager,
	broker.NewBroker,
	s3.NewService,
	psql.NewStorage,
	cli2.NewApp,
	syncutils.NewSyncUtils,
	amqp.NewAMQP,
	amqpHandlers.NewAMQPHandler,
	func(storage *psql.Storage) broker.IdentityStore { return storage },
	func(tokenBroker *broker.Broker) handlers.TokenBroker { return tokenBroker },
}

func buildContainer() (*dig.Container, error) {
	container := dig.New()

	for _, definition := range definitions {
		if err := container.Provide(definition); err != nil {
			return nil, fmt.Errorf("failed to provide service: %w", err)
		}
	}

	if err := commands(container); err != nil {
		return nil, fmt.Errorf("failed to provide commands: %w", err)
	}

	return container, nil
}

// commandSet gathers every CLI command registered in the container.
type commandSet struct {
	dig.In

	HTTPServe        *commandHTTP.ServeCommand
	StorageMigrate   *commandStorage.MigrateCommand
	StorageReset     *commandStorage.ResetCommand
	IdentityCreate   *commandIdentity.CreateCommand
	IdentityDelete   *commandIdentity.DeleteCommand
	IdentityToken    *commandIdentity.TokenCommand
	IdentityRevoke   *commandIdentity.RevokeCommand
	IdentityAll      *commandIdentity.AllCommand
	ThreadCreate     *commandChat.ThreadCreateCommand
	ThreadGet        *commandChat.ThreadGetCommand
	ThreadList       *commandChat.ThreadListCommand
	ThreadDelete     *commandChat.ThreadDeleteCommand
	MessageSend      *commandChat.MessageSendCommand
	MessageList      *commandChat.MessageListCommand
	MemberList       *commandChat.MemberListCommand
	MemberAdd        *commandChat.MemberAddCommand
	ChatExport       *commandChat.ExportCommand
	ResourceList     *commandResource.ListCommand
	ResourceKeys     *commandResource.KeysCommand
	ResourceCreate   *commandResource.CreateCommand
	ResourceDelete   *commandResource.DeleteCommand
	ResourceOps      *commandResource.OperationsCommand
	MessengerConsume *commandMessenger.ConsumeCommand
	MessengerCreate  *commandMessenger.CreateCommand
}

func commands(container *dig.Container) error {
	if err := container.Provide(func(set commandSet) []command.Command {
		return []command.Command{
			set.HTTPServe,
			set.StorageMigrate,
			set.StorageReset,
			set.IdentityCreate,
			set.IdentityDelete,
			set.IdentityToken,
			set.IdentityRevoke,
			set.IdentityAll,
			set.ThreadCreate,
			set.ThreadGet,
			set.ThreadList,
			set.ThreadDelete,
			set.MessageSend,
			set.MessageList,
			set.MemberList,
			set.MemberAdd,
			set.ChatExport,
			set.ResourceList,
			set.ResourceKeys,
			set.ResourceCreate,
			set.ResourceDelete,
			set.ResourceOps,
			set.MessengerConsume,
			set.MessengerCreate,
		}
	}); err != nil {
		return fmt.Errorf("failed to define application: %w", err)
	}

	return nil
}
