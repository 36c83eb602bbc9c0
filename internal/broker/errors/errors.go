// Package errors provides string codes for error instantiation.

package errors

const (
	IssuerUnavailableError = "identity service client is not configured"
	InvalidScopesError     = "invalid token scopes"
	IdentityNotFoundError  = "could not find user identity in DB"
	GettingIdentityError   = "could not read user identity from DB"
	CreatingIdentityError  = "could not create communication identity"
	StoringIdentityError   = "could not store communication identity"
	IssuingTokenError      = "could not issue access token"
	RecordingTokenError    = "could not record token issue"
	RevokingTokensError    = "could not revoke access tokens"
	DeletingIdentityError  = "could not delete communication identity"
	ListingIdentitiesError = "could not list identities"
	UpstreamServiceError   = "communication service rejected the request"
)
