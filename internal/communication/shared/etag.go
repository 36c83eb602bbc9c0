package shared

import "strings"

// MatchCondition selects how an ETag guards a conditional request.
type MatchCondition int

const (
	Unconditionally MatchCondition = iota
	IfNotModified
	IfModified
	IfPresent
	IfMissing
)

// QuoteETag wraps etag in double quotes unless it is empty, a wildcard or already quoted.
func QuoteETag(etag string) string {
	if etag == "" || etag == "*" {
		return etag
	}
	if strings.HasPrefix(etag, `"`) && strings.HasSuffix(etag, `"`) {
		return etag
	}
	if strings.HasPrefix(etag, "'") && strings.HasSuffix(etag, "'") {
		return etag
	}
	return `"` + etag + `"`
}

// PrepIfMatch returns the If-Match header value, or "" when none applies.
func PrepIfMatch(etag string, condition MatchCondition) string {
	switch condition {
	case IfNotModified:
		return QuoteETag(etag)
	case IfPresent:
		return "*"
	default:
		return ""
	}
}

// PrepIfNoneMatch returns the If-None-Match header value, or "" when none applies.
func PrepIfNoneMatch(etag string, condition MatchCondition) string {
	switch condition {
	case IfModified:
		return QuoteETag(etag)
	case IfMissing:
		return "*"
	default:
		return ""
	}
}
