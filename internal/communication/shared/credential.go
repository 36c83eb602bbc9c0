package shared

import (
	"net/http"

	commErrors "acs-toolkit/internal/communication/errors"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// UserCredential carries a communication user access token.
type UserCredential struct {
	token string
}

// NewUserCredential wraps a user access token.
func NewUserCredential(token string) (*UserCredential, error) {
	if token == "" {
		return nil, commErrors.NewEmptyError("credential")
	}
	return &UserCredential{token: token}, nil
}

// Token returns the configured token.
func (c *UserCredential) Token() string {
	return c.token
}

// UserCredentialPolicy authorizes requests with a user access token.
type UserCredentialPolicy struct {
	cred *UserCredential
}

// NewUserCredentialPolicy returns a bearer policy for cred.
func NewUserCredentialPolicy(cred *UserCredential) *UserCredentialPolicy {
	return &UserCredentialPolicy{cred: cred}
}

// Do implements policy.Policy.
func (p *UserCredentialPolicy) Do(req *policy.Request) (*http.Response, error) {
	req.Raw().Header.Set(headerAuthorization, "Bearer "+p.cred.Token())
	return req.Next()
}
