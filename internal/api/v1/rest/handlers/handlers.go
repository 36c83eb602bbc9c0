// Package handlers implements handling functions for HTTP endpoints.

// @title ACS Token Broker REST API
// @desc REST API issuing communication access tokens for application users.
//
// @ver 1.0.0
// @server http://localhost:8080/api/v1 Local API

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"acs-toolkit/internal/api/v1/errors"
	"acs-toolkit/internal/api/v1/modeldto"
	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/config"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

const (
	handlerKey = "handler"
	userIDKey  = "userID"
)

// TokenBroker is the broker surface used by the HTTP handlers.
type TokenBroker interface {
	GetToken(ctx context.Context, userID, rawScopes, handler string) (*broker.Grant, int, string)
	Revoke(ctx context.Context, userID, handler string) error
	Forget(ctx context.Context, userID, handler string) error
}

// EndpointHandlers defines URLHandler object structure.
type EndpointHandlers struct {
	log     *zerolog.Logger
	cfg     *config.Config
	broker  TokenBroker
	timeout time.Duration
}

// NewEndpointHandlers initializes EndpointHandlers object setting its attributes.
func NewEndpointHandlers(
	cfg *config.Config,
	logger *zerolog.Logger,
	tokenBroker TokenBroker,
) *EndpointHandlers {
	logger.Debug().Msg("calling initializer of HTTP handling service")
	timeout := cfg.Server.WriteTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EndpointHandlers{cfg: cfg, log: logger, broker: tokenBroker, timeout: timeout}
}

// Routes registers the broker endpoints on r.
func (h *EndpointHandlers) Routes(r chi.Router) {
	r.Post("/api/v1/token/{userID}", h.IssueTokenHandle)
	r.Delete("/api/v1/token/{userID}", h.RevokeTokensHandle)
	r.Delete("/api/v1/identity/{userID}", h.DeleteIdentityHandle)
}

// readScopes takes scopes from the JSON body when present, otherwise from the `scopes` query parameter.
func (h *EndpointHandlers) readScopes(r *http.Request, handler string) (string, int, string) {
	if r.ContentLength == 0 || r.Header.Get("Content-Type") == "" {
		return r.URL.Query().Get("scopes"), http.StatusOK, ""
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		h.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.InvalidContentType)
		return "", http.StatusUnsupportedMediaType, errors.InvalidContentType
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.RequestBodyReadingError)
		return "", http.StatusBadRequest, errors.RequestBodyReadingError
	}
	var request modeldto.RequestToken
	if err := json.Unmarshal(body, &request); err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.UnmarshallingError)
		return "", http.StatusBadRequest, errors.UnmarshallingError
	}
	return strings.Join(request.Scopes, ","), http.StatusOK, ""
}

// IssueTokenHandle handles requests to issue an access token for a user.
// @summary Issue token request
// @desc Issue a communication access token for a user ID, creating its identity on first use
// @id issueToken
// @accept json
// @produce json
// @param userID path string true "User ID to issue a token for"
// @param scopes query string false "Comma separated token scopes"
// @param request body modeldto.RequestToken false "Token scopes"
// @success 200 {object} modeldto.ResponseToken
// @failure 400 {string} Bad request
// @failure 415 {string} Unsupported media type
// @failure 500 {string} Internal Server Error
// @failure 502 {string} Bad gateway
// @failure 503 {string} Service unavailable
// @router /api/v1/token/{userID} [post]
func (h *EndpointHandlers) IssueTokenHandle(w http.ResponseWriter, r *http.Request) {
	const handler = "issue-token"

	h.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("HTTP: %s endpoint hit", handler))

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := chi.URLParam(r, "userID")

	rawScopes, httpStatus, errorCode := h.readScopes(r, handler)
	if httpStatus != http.StatusOK {
		http.Error(w, errorCode, httpStatus)
		return
	}

	grant, httpStatus, errorCode := h.broker.GetToken(ctx, userID, rawScopes, handler)
	if grant == nil {
		http.Error(w, errorCode, httpStatus)
		return
	}

	scopes := make([]string, 0, len(grant.Scopes))
	for _, scope := range grant.Scopes {
		scopes = append(scopes, string(scope))
	}
	responseToken := modeldto.ResponseToken{
		UserID:          grant.UserID,
		CommunicationID: grant.CommunicationID,
		Token:           grant.Token,
		ExpiresOn:       grant.ExpiresOn,
		Scopes:          scopes,
	}
	resBody, err := json.Marshal(responseToken)
	if err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(userIDKey, userID).Msg(errors.MarshallingError)
		http.Error(w, errors.MarshallingError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resBody)
	h.log.Info().Str(handlerKey, handler).Str(userIDKey, userID).Msg("response sent")
}

// RevokeTokensHandle handles requests to revoke the tokens of a user.
// @summary Revoke tokens request
// @desc Revoke every token issued so far for a user ID
// @id revokeTokens
// @param userID path string true "User ID to revoke tokens for"
// @success 204
// @failure 404 {string} Not found
// @failure 500 {string} Internal Server Error
// @failure 502 {string} Bad gateway
// @router /api/v1/token/{userID} [delete]
func (h *EndpointHandlers) RevokeTokensHandle(w http.ResponseWriter, r *http.Request) {
	const handler = "revoke-tokens"
	h.handleNoContent(w, r, handler, h.broker.Revoke)
}

// DeleteIdentityHandle handles requests to delete the identity of a user.
// @summary Delete identity request
// @desc Delete the communication identity of a user ID and forget the mapping
// @id deleteIdentity
// @param userID path string true "User ID to delete"
// @success 204
// @failure 404 {string} Not found
// @failure 500 {string} Internal Server Error
// @failure 502 {string} Bad gateway
// @router /api/v1/identity/{userID} [delete]
func (h *EndpointHandlers) DeleteIdentityHandle(w http.ResponseWriter, r *http.Request) {
	const handler = "delete-identity"
	h.handleNoContent(w, r, handler, h.broker.Forget)
}

func (h *EndpointHandlers) handleNoContent(
	w http.ResponseWriter,
	r *http.Request,
	handler string,
	action func(ctx context.Context, userID, handler string) error,
) {
	h.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("HTTP: %s endpoint hit", handler))

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := chi.URLParam(r, "userID")
	if err := action(ctx, userID, handler); err != nil {
		httpStatus, errorCode := broker.StatusOf(err)
		http.Error(w, errorCode, httpStatus)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	h.log.Info().Str(handlerKey, handler).Str(userIDKey, userID).Msg("response sent")
}
