// Package modelstorage provides the records kept by the identity registry.

package modelstorage

import "time"

// Identity maps an application user to a communication identity.
type Identity struct {
	UserID          string
	CommunicationID string
	CreatedAt       time.Time
}

// TokenIssue records one access token handed out for a user.
type TokenIssue struct {
	UserID    string
	Scopes    string
	ExpiresOn time.Time
	IssuedAt  time.Time
}
