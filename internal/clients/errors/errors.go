// Package errors provides string codes for error instantiation.

package errors

const (
	IdentityClientError   = "could not build identity client"
	ChatClientError       = "could not build chat client"
	ManagementClientError = "could not build management client"
	CredentialError       = "could not build Azure AD credential"
	MissingEndpointError  = "neither ACS_CONNECTION_STRING nor ACS_ENDPOINT is set"
	MissingChatTokenError = "no chat user token given and ACS_CHAT_USER_TOKEN is not set"
)
