// Package errors provides string codes for error instantiation.

package errors

const (
	ClientBuildingError     = "could not build service client"
	IdentityCreationError   = "could not create communication identity"
	IdentityDeletionError   = "could not delete communication identity"
	IdentityListingError    = "could not list stored identities"
	TokenIssuingError       = "could not issue access token"
	TokenRevocationError    = "could not revoke access tokens"
	InvalidScopesError      = "could not parse token scopes"
	UserNotFoundError       = "could not find userID in DB"
	ThreadCreationError     = "could not create chat thread"
	ThreadReadingError      = "could not read chat thread"
	ThreadListingError      = "could not list chat threads"
	ThreadDeletionError     = "could not delete chat thread"
	MessageSendingError     = "could not send chat message"
	MessageListingError     = "could not list chat messages"
	MemberListingError      = "could not list chat members"
	MemberAddingError       = "could not add chat members"
	TranscriptExportError   = "could not export chat transcript"
	ResourceListingError    = "could not list communication services"
	ResourceCreationError   = "could not create communication service"
	ResourceDeletionError   = "could not delete communication service"
	KeysReadingError        = "could not read communication service keys"
	OperationsListingError  = "could not list provider operations"
	MigrationError          = "could not perform migration"
	DropError               = "could not perform DB drop"
	InvalidMessageTypeError = "invalid message type"
	ServerStartError        = "could not start token broker server"
	ServerShutdownError     = "could not drain token broker server"
)
