package shared

import "strings"

const (
	phoneNumberPrefix = "4:"
	acsUserPrefix     = "8:acs:"
	spoolUserPrefix   = "8:spool:"
)

// CommunicationIdentifier is implemented by every identity known to the service.
type CommunicationIdentifier interface {
	RawID() string
}

// CommunicationUser is an identity created by the identity service.
type CommunicationUser struct {
	ID string `json:"id"`
}

// RawID implements CommunicationIdentifier.
func (u CommunicationUser) RawID() string { return u.ID }

// PhoneNumber is a PSTN participant.
type PhoneNumber struct {
	Value string `json:"value"`
}

// RawID implements CommunicationIdentifier.
func (p PhoneNumber) RawID() string { return phoneNumberPrefix + p.Value }

// UnknownIdentifier is an identity this client cannot classify.
type UnknownIdentifier struct {
	ID string `json:"id"`
}

// RawID implements CommunicationIdentifier.
func (u UnknownIdentifier) RawID() string { return u.ID }

// IdentifierFromRawID classifies a raw identifier string.
func IdentifierFromRawID(raw string) CommunicationIdentifier {
	switch {
	case strings.HasPrefix(raw, acsUserPrefix), strings.HasPrefix(raw, spoolUserPrefix):
		return CommunicationUser{ID: raw}
	case strings.HasPrefix(raw, phoneNumberPrefix):
		return PhoneNumber{Value: strings.TrimPrefix(raw, phoneNumberPrefix)}
	default:
		return UnknownIdentifier{ID: raw}
	}
}
