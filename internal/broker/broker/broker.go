// Package broker provides the token broker used by HTTP and AMQP handlers:
// it maps application users to communication identities and issues their access tokens.

package broker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	brokerErrors "acs-toolkit/internal/broker/errors"
	commErrors "acs-toolkit/internal/communication/errors"
	"acs-toolkit/internal/communication/identity"
	"acs-toolkit/internal/communication/shared"
	"acs-toolkit/internal/scopemanager"
	storageErrors "acs-toolkit/internal/storage/errors"
	"acs-toolkit/internal/storage/modelstorage"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/rs/zerolog"
)

const (
	handlerKey = "handler"
	userIDKey  = "userID"
)

// IdentityStore persists the user to identity mapping.
type IdentityStore interface {
	GetIdentity(ctx context.Context, userID string) (modelstorage.Identity, error)
	AddIdentity(ctx context.Context, identity modelstorage.Identity) error
	DeleteIdentity(ctx context.Context, userID string) error
	GetAllIdentities(ctx context.Context) ([]modelstorage.Identity, error)
	RecordTokenIssue(ctx context.Context, issue modelstorage.TokenIssue) error
}

// IdentityIssuer is the subset of the identity client the broker needs.
type IdentityIssuer interface {
	CreateUser(ctx context.Context) (shared.CommunicationUser, error)
	DeleteUser(ctx context.Context, user shared.CommunicationUser) error
	IssueToken(ctx context.Context, user shared.CommunicationUser, scopes []identity.TokenScope) (identity.CommunicationUserToken, error)
	RevokeTokens(ctx context.Context, user shared.CommunicationUser, issuedBefore *time.Time) error
}

// IssuerFactory returns the identity client, building it on first use.
type IssuerFactory func() (IdentityIssuer, error)

// Grant is an access token issued for an application user.
type Grant struct {
	UserID          string
	CommunicationID string
	Token           string
	ExpiresOn       time.Time
	Scopes          []identity.TokenScope
}

var errIssuerUnavailable = errors.New(brokerErrors.IssuerUnavailableError)

// Broker defines a Broker object and sets its attributes.
type Broker struct {
	log     *zerolog.Logger
	store   IdentityStore
	issuers IssuerFactory
	scopes  *scopemanager.ScopeManager
}

// NewBroker initializes a Broker object.
func NewBroker(
	logger *zerolog.Logger,
	store IdentityStore,
	issuers IssuerFactory,
	scopes *scopemanager.ScopeManager) *Broker {
	logger.Debug().Msg("calling initializer of broker service")
	return &Broker{
		log:     logger,
		store:   store,
		issuers: issuers,
		scopes:  scopes,
	}
}

func (b *Broker) issuer(handler string) (IdentityIssuer, error) {
	issuer, err := b.issuers()
	if err != nil {
		b.log.Error().Err(err).Str(handlerKey, handler).Msg(brokerErrors.IssuerUnavailableError)
		return nil, fmt.Errorf("%w: %v", errIssuerUnavailable, err)
	}
	return issuer, nil
}

// resolve returns the stored identity of userID, creating and storing one when absent.
func (b *Broker) resolve(ctx context.Context, issuer IdentityIssuer, userID, handler string) (shared.CommunicationUser, error) {
	stored, err := b.store.GetIdentity(ctx, userID)
	if err == nil {
		return shared.CommunicationUser{ID: stored.CommunicationID}, nil
	}
	var notFound *storageErrors.NotFoundError
	if !errors.As(err, &notFound) {
		b.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.GettingIdentityError)
		return shared.CommunicationUser{}, err
	}

	user, err := issuer.CreateUser(ctx)
	if err != nil {
		b.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.CreatingIdentityError)
		return shared.CommunicationUser{}, err
	}

	err = b.store.AddIdentity(ctx, modelstorage.Identity{UserID: userID, CommunicationID: user.ID, CreatedAt: time.Now()})
	var exists *storageErrors.AlreadyExistsError
	if errors.As(err, &exists) {
		// a concurrent request stored its identity first
		if delErr := issuer.DeleteUser(ctx, user); delErr != nil {
			b.log.Warn().Err(delErr).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.DeletingIdentityError)
		}
		stored, err := b.store.GetIdentity(ctx, userID)
		if err != nil {
			return shared.CommunicationUser{}, err
		}
		return shared.CommunicationUser{ID: stored.CommunicationID}, nil
	}
	if err != nil {
		b.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.StoringIdentityError)
		return shared.CommunicationUser{}, err
	}
	b.log.Info().Str(handlerKey, handler).Str(userIDKey, userID).Msgf("created communication identity %s", user.ID)
	return user, nil
}

// Ensure returns the communication identity of userID, creating it when absent.
func (b *Broker) Ensure(ctx context.Context, userID, handler string) (string, error) {
	b.log.Debug().Msg("calling `Ensure` method")
	if err := shared.RequireNonEmpty("user id", userID); err != nil {
		return "", err
	}
	issuer, err := b.issuer(handler)
	if err != nil {
		return "", err
	}
	user, err := b.resolve(ctx, issuer, userID, handler)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// IssueToken issues a token with the given scopes for an application user.
func (b *Broker) IssueToken(ctx context.Context, userID string, scopes []identity.TokenScope, handler string) (*Grant, error) {
	b.log.Debug().Msg("calling `IssueToken` method")
	if err := shared.RequireNonEmpty("user id", userID); err != nil {
		return nil, err
	}
	issuer, err := b.issuer(handler)
	if err != nil {
		return nil, err
	}
	user, err := b.resolve(ctx, issuer, userID, handler)
	if err != nil {
		return nil, err
	}

	token, err := issuer.IssueToken(ctx, user, scopes)
	if err != nil {
		b.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.IssuingTokenError)
		return nil, err
	}

	err = b.store.RecordTokenIssue(ctx, modelstorage.TokenIssue{
		UserID:    userID,
		Scopes:    joinScopes(scopes),
		ExpiresOn: token.ExpiresOn,
		IssuedAt:  time.Now(),
	})
	if err != nil {
		b.log.Warn().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.RecordingTokenError)
	}

	return &Grant{
		UserID:          userID,
		CommunicationID: user.ID,
		Token:           token.Token,
		ExpiresOn:       token.ExpiresOn,
		Scopes:          scopes,
	}, nil
}

// GetToken parses raw scopes and issues a token, reporting failures as an HTTP status and message.
func (b *Broker) GetToken(ctx context.Context, userID, rawScopes, handler string) (*Grant, int, string) {
	b.log.Debug().Msg("calling `GetToken` method")
	scopes, err := b.scopes.GetScopes(rawScopes)
	if err != nil {
		b.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.InvalidScopesError)
		return nil, http.StatusBadRequest, brokerErrors.InvalidScopesError
	}
	grant, err := b.IssueToken(ctx, userID, scopes, handler)
	if err != nil {
		status, message := StatusOf(err)
		return nil, status, message
	}
	return grant, http.StatusOK, ""
}

// Revoke invalidates every token issued so far for an application user.
func (b *Broker) Revoke(ctx context.Context, userID, handler string) error {
	b.log.Debug().Msg("calling `Revoke` method")
	issuer, err := b.issuer(handler)
	if err != nil {
		return err
	}
	stored, err := b.store.GetIdentity(ctx, userID)
	if err != nil {
		b.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.IdentityNotFoundError)
		return err
	}
	if err := issuer.RevokeTokens(ctx, shared.CommunicationUser{ID: stored.CommunicationID}, nil); err != nil {
		b.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.RevokingTokensError)
		return err
	}
	b.log.Info().Str(handlerKey, handler).Str(userIDKey, userID).Msg("tokens revoked")
	return nil
}

// Forget deletes the communication identity of an application user and its registry entry.
func (b *Broker) Forget(ctx context.Context, userID, handler string) error {
	b.log.Debug().Msg("calling `Forget` method")
	issuer, err := b.issuer(handler)
	if err != nil {
		return err
	}
	stored, err := b.store.GetIdentity(ctx, userID)
	if err != nil {
		b.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.IdentityNotFoundError)
		return err
	}
	err = issuer.DeleteUser(ctx, shared.CommunicationUser{ID: stored.CommunicationID})
	var respErr *azcore.ResponseError
	if err != nil && !(errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound) {
		b.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.DeletingIdentityError)
		return err
	}
	if err := b.store.DeleteIdentity(ctx, userID); err != nil {
		b.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(brokerErrors.DeletingIdentityError)
		return err
	}
	b.log.Info().Str(handlerKey, handler).Str(userIDKey, userID).Msg("identity deleted")
	return nil
}

// Identities lists every stored identity.
func (b *Broker) Identities(ctx context.Context, handler string) ([]modelstorage.Identity, error) {
	b.log.Debug().Msg("calling `Identities` method")
	identities, err := b.store.GetAllIdentities(ctx)
	if err != nil {
		b.log.Error().Err(err).Str(handlerKey, handler).Msg(brokerErrors.ListingIdentitiesError)
		return nil, err
	}
	return identities, nil
}

// StatusOf maps a broker error to an HTTP status and a message safe to return to callers.
func StatusOf(err error) (int, string) {
	var (
		notFound *storageErrors.NotFoundError
		timeout  *storageErrors.ContextTimeoutExceededError
		respErr  *azcore.ResponseError
	)
	switch {
	case err == nil:
		return http.StatusOK, ""
	case commErrors.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errIssuerUnavailable):
		return http.StatusServiceUnavailable, brokerErrors.IssuerUnavailableError
	case errors.As(err, &notFound):
		return http.StatusNotFound, brokerErrors.IdentityNotFoundError
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout, timeout.Error()
	case errors.As(err, &respErr):
		if respErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound, brokerErrors.UpstreamServiceError
		}
		return http.StatusBadGateway, brokerErrors.UpstreamServiceError
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

func joinScopes(scopes []identity.TokenScope) string {
	parts := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		parts = append(parts, string(scope))
	}
	return strings.Join(parts, ",")
}
