package scopemanager

import (
	"testing"

	"acs-toolkit/internal/communication/identity"
	"acs-toolkit/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(defaults string) *ScopeManager {
	log := zerolog.Nop()
	return NewScopeManager(&log, &config.Config{Communication: config.Communication{DefaultScopes: defaults}})
}

func TestGetScopes(t *testing.T) {
	scopes, err := newManager("chat").GetScopes(" Chat, voip,chat ")
	require.NoError(t, err)
	assert.Equal(t, []identity.TokenScope{identity.ScopeChat, identity.ScopeVoIP}, scopes)
}

func TestGetScopesDefaults(t *testing.T) {
	scopes, err := newManager("chat,pstn").GetScopes("")
	require.NoError(t, err)
	assert.Equal(t, []identity.TokenScope{identity.ScopeChat, identity.ScopePSTN}, scopes)
}

func TestGetScopesRejectsUnknown(t *testing.T) {
	_, err := newManager("chat").GetScopes("chat,email")
	assert.Error(t, err)

	_, err = newManager("").GetScopes(" , ")
	assert.Error(t, err)
}
