package shared

import (
	"net/url"
	"strings"
)

// Query string keys that make up a shared access signature.
const (
	SignedSignature          = "sig"
	SignedPermission         = "sp"
	SignedStart              = "st"
	SignedExpiry             = "se"
	SignedResource           = "sr"
	SignedIdentifier         = "si"
	SignedIP                 = "sip"
	SignedProtocol           = "spr"
	SignedVersion            = "sv"
	SignedCacheControl       = "rscc"
	SignedContentDisposition = "rscd"
	SignedContentEncoding    = "rsce"
	SignedContentLanguage    = "rscl"
	SignedContentType        = "rsct"
	StartPK                  = "spk"
	StartRK                  = "srk"
	EndPK                    = "epk"
	EndRK                    = "erk"
	SignedResourceTypes      = "srt"
	SignedServices           = "ss"
	SignedOID                = "skoid"
	SignedTID                = "sktid"
	SignedKeyStart           = "skt"
	SignedKeyExpiry          = "ske"
	SignedKeyService         = "sks"
	SignedKeyVersion         = "skv"
)

var sasKeys = map[string]struct{}{
	SignedSignature: {}, SignedPermission: {}, SignedStart: {}, SignedExpiry: {},
	SignedResource: {}, SignedIdentifier: {}, SignedIP: {}, SignedProtocol: {},
	SignedVersion: {}, SignedCacheControl: {}, SignedContentDisposition: {},
	SignedContentEncoding: {}, SignedContentLanguage: {}, SignedContentType: {},
	StartPK: {}, StartRK: {}, EndPK: {}, EndRK: {}, SignedResourceTypes: {},
	SignedServices: {}, SignedOID: {}, SignedTID: {}, SignedKeyStart: {},
	SignedKeyExpiry: {}, SignedKeyService: {}, SignedKeyVersion: {},
}

type queryPair struct {
	key   string
	value string
}

// parseQueryOrdered keeps the first non-blank value per key in order of appearance.
func parseQueryOrdered(query string) []queryPair {
	var pairs []queryPair
	seen := make(map[string]bool)
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, value := unescape(rawKey), unescape(rawValue)
		if value == "" || seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, queryPair{key: key, value: value})
	}
	return pairs
}

// unescape decodes a query component, keeping malformed percent escapes as literal text.
func unescape(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return strings.ToValidUTF8(b.String(), "\uFFFD")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// quote percent-encodes everything except unreserved characters.
func quote(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ParseQuery extracts the snapshot and the SAS token from a URL query string.
func ParseQuery(query string) (snapshot, sasToken string) {
	var params []string
	values := make(map[string]string)
	for _, p := range parseQueryOrdered(query) {
		values[p.key] = p.value
		if _, ok := sasKeys[p.key]; ok {
			params = append(params, p.key+"="+quote(p.value))
		}
	}
	snapshot = values["snapshot"]
	if snapshot == "" {
		snapshot = values["sharesnapshot"]
	}
	return snapshot, strings.Join(params, "&")
}

// IsSASToken reports whether credential consists solely of SAS query parameters.
func IsSASToken(credential string) bool {
	if credential == "" {
		return false
	}
	pairs := parseQueryOrdered(strings.TrimLeft(credential, "?"))
	if len(pairs) == 0 {
		return false
	}
	for _, p := range pairs {
		if _, ok := sasKeys[p.key]; !ok {
			return false
		}
	}
	return true
}
