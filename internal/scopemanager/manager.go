// Package scopemanager provides methods for token scope derivation.

package scopemanager

import (
	"fmt"
	"strings"

	"acs-toolkit/internal/communication/identity"
	"acs-toolkit/internal/config"

	"github.com/rs/zerolog"
)

// ScopeManager defines a new object and sets its attributes.
type ScopeManager struct {
	log      *zerolog.Logger
	defaults string
}

// NewScopeManager initializes a new ScopeManager instance.
func NewScopeManager(logger *zerolog.Logger, cfg *config.Config) *ScopeManager {
	logger.Debug().Msg("calling initializer of scope manager service")
	return &ScopeManager{log: logger, defaults: cfg.Communication.DefaultScopes}
}

// GetScopes parses a comma separated scope list, falling back to the configured defaults when empty.
func (m *ScopeManager) GetScopes(raw string) ([]identity.TokenScope, error) {
	m.log.Debug().Msg("calling `GetScopes` method")
	if strings.TrimSpace(raw) == "" {
		raw = m.defaults
	}

	var scopes []identity.TokenScope
	seen := make(map[identity.TokenScope]bool)
	for _, part := range strings.Split(raw, ",") {
		scope := identity.TokenScope(strings.ToLower(strings.TrimSpace(part)))
		if scope == "" || seen[scope] {
			continue
		}
		if !scope.Valid() {
			return nil, fmt.Errorf("unknown token scope %q", part)
		}
		seen[scope] = true
		scopes = append(scopes, scope)
	}
	if len(scopes) == 0 {
		return nil, fmt.Errorf("no token scopes given")
	}
	return scopes, nil
}
