package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"acs-toolkit/internal/api/v1/modeldto"
	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/communication/identity"
	"acs-toolkit/internal/config"
	storageErrors "acs-toolkit/internal/storage/errors"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBroker struct {
	gotScopes string
	revoked   []string
	forgotten []string
}

func (s *stubBroker) GetToken(_ context.Context, userID, rawScopes, _ string) (*broker.Grant, int, string) {
	s.gotScopes = rawScopes
	if userID == "unknown" {
		return nil, http.StatusServiceUnavailable, "unavailable"
	}
	return &broker.Grant{
		UserID:          userID,
		CommunicationID: "8:acs:" + userID,
		Token:           "jwt",
		ExpiresOn:       time.Date(2030, time.January, 2, 3, 4, 5, 0, time.UTC),
		Scopes:          []identity.TokenScope{identity.ScopeChat},
	}, http.StatusOK, ""
}

func (s *stubBroker) Revoke(_ context.Context, userID, _ string) error {
	if userID == "missing" {
		return &storageErrors.NotFoundError{ID: userID}
	}
	s.revoked = append(s.revoked, userID)
	return nil
}

func (s *stubBroker) Forget(_ context.Context, userID, _ string) error {
	s.forgotten = append(s.forgotten, userID)
	return nil
}

func newRouter(stub *stubBroker) *chi.Mux {
	log := zerolog.Nop()
	h := NewEndpointHandlers(&config.Config{}, &log, stub)
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func TestIssueTokenFromQuery(t *testing.T) {
	stub := &stubBroker{}
	w := httptest.NewRecorder()
	newRouter(stub).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/token/alice?scopes=chat,voip", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chat,voip", stub.gotScopes)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var resp modeldto.ResponseToken
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.UserID)
	assert.Equal(t, "8:acs:alice", resp.CommunicationID)
	assert.Equal(t, []string{"chat"}, resp.Scopes)
}

func TestIssueTokenFromBody(t *testing.T) {
	stub := &stubBroker{}
	r := httptest.NewRequest(http.MethodPost, "/api/v1/token/alice", bytes.NewBufferString(`{"scopes":["chat","pstn"]}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := httptest.NewRecorder()
	newRouter(stub).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chat,pstn", stub.gotScopes)
}

func TestIssueTokenRejectsBadBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/token/alice", bytes.NewBufferString(`scopes=chat`))
	r.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	newRouter(&stubBroker{}).ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	r = httptest.NewRequest(http.MethodPost, "/api/v1/token/alice", bytes.NewBufferString(`{"scopes":`))
	r.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	newRouter(&stubBroker{}).ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIssueTokenPropagatesBrokerStatus(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&stubBroker{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/token/unknown", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRevokeAndDelete(t *testing.T) {
	stub := &stubBroker{}
	router := newRouter(stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/token/bob", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"bob"}, stub.revoked)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/token/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/identity/bob", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"bob"}, stub.forgotten)
}
