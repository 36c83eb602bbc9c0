package identity

import (
	"time"

	"acs-toolkit/internal/communication/shared"
)

// TokenScope is a capability granted to a user access token.
type TokenScope string

const (
	ScopeChat TokenScope = "chat"
	ScopeVoIP TokenScope = "voip"
	ScopePSTN TokenScope = "pstn"
)

// KnownTokenScopes lists every scope the service accepts.
func KnownTokenScopes() []TokenScope {
	return []TokenScope{ScopeChat, ScopeVoIP, ScopePSTN}
}

// Valid reports whether s is one of the known scopes.
func (s TokenScope) Valid() bool {
	for _, known := range KnownTokenScopes() {
		if s == known {
			return true
		}
	}
	return false
}

// TokenRequest is the body of an issue token call.
type TokenRequest struct {
	Scopes []TokenScope `json:"scopes" validate:"min=1,dive,oneof=chat voip pstn"`
}

// CommunicationUserToken is an access token issued for a user.
type CommunicationUserToken struct {
	User      shared.CommunicationUser `json:"-"`
	ID        string                   `json:"id"`
	Token     string                   `json:"token"`
	ExpiresOn time.Time                `json:"expiresOn"`
}

type revokeRequest struct {
	TokensValidFrom time.Time `json:"tokensValidFrom"`
}
