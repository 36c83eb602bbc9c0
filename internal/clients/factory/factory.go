// Package factory builds the communication and management clients from configuration.

package factory

import (
	"errors"
	"strings"
	"sync"

	"acs-toolkit/internal/broker/broker"
	clientErrors "acs-toolkit/internal/clients/errors"
	"acs-toolkit/internal/communication/chat"
	"acs-toolkit/internal/communication/identity"
	"acs-toolkit/internal/communication/shared"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/management/armcommunication"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/rs/zerolog"
)

var (
	errMissingEndpoint  = errors.New(clientErrors.MissingEndpointError)
	errMissingChatToken = errors.New(clientErrors.MissingChatTokenError)
)

// Factory defines a Factory object and sets its attributes.
type Factory struct {
	log *zerolog.Logger
	cfg *config.Config

	identityOnce   sync.Once
	identityClient *identity.Client
	identityErr    error

	credOnce sync.Once
	cred     azcore.TokenCredential
	credErr  error
}

// NewFactory initializes a Factory object and installs the azcore log bridge when enabled.
func NewFactory(logger *zerolog.Logger, cfg *config.Config) *Factory {
	logger.Debug().Msg("calling initializer of clients factory")
	f := &Factory{log: logger, cfg: cfg}
	if cfg.HTTPClient.LogRequests {
		azlog.SetListener(f.listen)
		azlog.SetEvents(azlog.EventRequest, azlog.EventResponse, azlog.EventRetryPolicy)
	}
	return f
}

func (f *Factory) listen(event azlog.Event, message string) {
	f.log.Debug().Str("az_event", string(event)).Msg(message)
}

// ClientOptions returns the azcore options shared by every client.
func (f *Factory) ClientOptions() policy.ClientOptions {
	return policy.ClientOptions{
		Retry: policy.RetryOptions{
			MaxRetries:    f.cfg.HTTPClient.MaxRetries,
			RetryDelay:    f.cfg.HTTPClient.RetryDelay,
			MaxRetryDelay: f.cfg.HTTPClient.MaxRetryDelay,
			TryTimeout:    f.cfg.HTTPClient.TryTimeout,
		},
	}
}

// Endpoint returns the configured communication resource endpoint.
func (f *Factory) Endpoint() (string, error) {
	if f.cfg.Communication.ConnectionString != "" {
		cs, err := shared.ParseConnectionString(f.cfg.Communication.ConnectionString)
		if err != nil {
			return "", err
		}
		return shared.NormalizeEndpoint(cs.Endpoint)
	}
	if f.cfg.Communication.Endpoint == "" {
		return "", errMissingEndpoint
	}
	// a SAS token only authorizes identity calls
	endpoint, _, _ := strings.Cut(f.cfg.Communication.Endpoint, "?")
	return shared.NormalizeEndpoint(endpoint)
}

// Identity returns the identity client, building it on first use.
func (f *Factory) Identity() (*identity.Client, error) {
	f.log.Debug().Msg("calling `Identity` method")
	f.identityOnce.Do(func() {
		options := &identity.ClientOptions{ClientOptions: f.ClientOptions()}
		comm := f.cfg.Communication
		switch {
		case comm.ConnectionString != "":
			f.identityClient, f.identityErr = identity.NewClientFromConnectionString(comm.ConnectionString, options)
		case comm.Endpoint != "":
			f.identityClient, f.identityErr = identity.NewClient(comm.Endpoint, comm.AccessKey, options)
		default:
			f.identityErr = errMissingEndpoint
		}
		if f.identityErr != nil {
			f.log.Error().Err(f.identityErr).Msg(clientErrors.IdentityClientError)
		}
	})
	return f.identityClient, f.identityErr
}

// Issuers adapts Identity to the broker's issuer factory.
func Issuers(f *Factory) broker.IssuerFactory {
	return func() (broker.IdentityIssuer, error) {
		client, err := f.Identity()
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func (f *Factory) userCredential(token string) (*shared.UserCredential, error) {
	if token == "" {
		token = f.cfg.Communication.ChatUserToken
	}
	if token == "" {
		return nil, errMissingChatToken
	}
	return shared.NewUserCredential(token)
}

// Chat builds a chat client acting as the owner of token; an empty token falls back to ACS_CHAT_USER_TOKEN.
func (f *Factory) Chat(token string) (*chat.Client, error) {
	f.log.Debug().Msg("calling `Chat` method")
	endpoint, err := f.Endpoint()
	if err != nil {
		f.log.Error().Err(err).Msg(clientErrors.ChatClientError)
		return nil, err
	}
	cred, err := f.userCredential(token)
	if err != nil {
		f.log.Error().Err(err).Msg(clientErrors.ChatClientError)
		return nil, err
	}
	return chat.NewClient(endpoint, cred, &chat.ClientOptions{ClientOptions: f.ClientOptions()})
}

// ChatThread builds a client for one chat thread.
func (f *Factory) ChatThread(threadID, token string) (*chat.ThreadClient, error) {
	client, err := f.Chat(token)
	if err != nil {
		return nil, err
	}
	return client.GetChatThreadClient(threadID)
}

// credential returns a client secret credential when one is configured, the default Azure chain otherwise.
func (f *Factory) credential() (azcore.TokenCredential, error) {
	f.credOnce.Do(func() {
		mgmt := f.cfg.Management
		if mgmt.TenantID != "" && mgmt.ClientID != "" && mgmt.ClientSecret != "" {
			f.cred, f.credErr = azidentity.NewClientSecretCredential(mgmt.TenantID, mgmt.ClientID, mgmt.ClientSecret, nil)
		} else {
			f.cred, f.credErr = azidentity.NewDefaultAzureCredential(nil)
		}
		if f.credErr != nil {
			f.log.Error().Err(f.credErr).Msg(clientErrors.CredentialError)
		}
	})
	return f.cred, f.credErr
}

func (f *Factory) managementOptions() *armcommunication.ClientOptions {
	return &armcommunication.ClientOptions{
		ClientOptions: f.ClientOptions(),
		Endpoint:      f.cfg.Management.Endpoint,
	}
}

// Services builds a Communication Service resource client for the configured subscription.
func (f *Factory) Services() (*armcommunication.ServicesClient, error) {
	f.log.Debug().Msg("calling `Services` method")
	cred, err := f.credential()
	if err != nil {
		return nil, err
	}
	client, err := armcommunication.NewServicesClient(f.cfg.Management.SubscriptionID, cred, f.managementOptions())
	if err != nil {
		f.log.Error().Err(err).Msg(clientErrors.ManagementClientError)
		return nil, err
	}
	return client, nil
}

// Operations builds a resource provider operations client.
func (f *Factory) Operations() (*armcommunication.OperationsClient, error) {
	f.log.Debug().Msg("calling `Operations` method")
	cred, err := f.credential()
	if err != nil {
		return nil, err
	}
	return armcommunication.NewOperationsClient(cred, f.managementOptions())
}
