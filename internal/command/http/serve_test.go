package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"acs-toolkit/internal/api/v1/rest/handlers"
	"acs-toolkit/internal/broker/broker"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroker struct{}

func (fakeBroker) GetToken(_ context.Context, userID, _, _ string) (*broker.Grant, int, string) {
	return &broker.Grant{UserID: userID, Token: "jwt", ExpiresOn: time.Now().Add(time.Hour)}, http.StatusOK, ""
}

func (fakeBroker) Revoke(context.Context, string, string) error { return nil }

func (fakeBroker) Forget(context.Context, string, string) error { return nil }

func newServeCommand(cfg *config.Config) *ServeCommand {
	log := zerolog.Nop()
	return NewServeCommand(&log, cfg, handlers.NewEndpointHandlers(cfg, &log, fakeBroker{}), syncutils.NewSyncUtils())
}

func TestRouterServesBrokerAndDocs(t *testing.T) {
	srv := httptest.NewServer(newServeCommand(&config.Config{}).router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/token/alice?scopes=chat", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/identity/alice", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/doc/doc.json")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeDrainsOnCancel(t *testing.T) {
	cmd := newServeCommand(&config.Config{Server: config.Server{ShutdownTimeout: time.Second}})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- cmd.serve(ctx, &http.Server{Addr: "127.0.0.1:0", Handler: cmd.router()})
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeReportsListenFailure(t *testing.T) {
	cmd := newServeCommand(&config.Config{})
	err := cmd.serve(context.Background(), &http.Server{Addr: "127.0.0.1:-1"})
	assert.Error(t, err)
}
