package shared

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	commErrors "acs-toolkit/internal/communication/errors"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

const (
	headerDate          = "x-ms-date"
	headerContentSHA256 = "x-ms-content-sha256"
	headerAuthorization = "Authorization"
	signedHeaders       = "x-ms-date;host;x-ms-content-sha256"
)

// HMACPolicy signs every request attempt with the resource access key.
type HMACPolicy struct {
	key []byte
	now func() time.Time
}

// NewHMACPolicy decodes the base64 access key and returns a signing policy.
func NewHMACPolicy(accessKey string) (*HMACPolicy, error) {
	if accessKey == "" {
		return nil, commErrors.NewEmptyError("access key")
	}
	key, err := base64.StdEncoding.DecodeString(accessKey)
	if err != nil {
		return nil, &commErrors.ValidationError{Param: "access key", Reason: commErrors.InvalidAccessKey}
	}
	return &HMACPolicy{key: key, now: time.Now}, nil
}

// Do implements policy.Policy.
func (p *HMACPolicy) Do(req *policy.Request) (*http.Response, error) {
	var body []byte
	if rs := req.Body(); rs != nil {
		b, err := io.ReadAll(rs)
		if err != nil {
			return nil, err
		}
		if err := req.RewindBody(); err != nil {
			return nil, err
		}
		body = b
	}
	if err := p.Sign(req.Raw(), body); err != nil {
		return nil, err
	}
	return req.Next()
}

// Sign sets the date, content hash and authorization headers on r.
func (p *HMACPolicy) Sign(r *http.Request, body []byte) error {
	date := CurrentUTCTime(p.now())
	contentHash := ContentHash(body)

	host := r.URL.Host
	if r.Host != "" {
		host = r.Host
	}
	stringToSign := fmt.Sprintf("%s\n%s\n%s;%s;%s", strings.ToUpper(r.Method), r.URL.RequestURI(), date, host, contentHash)

	signature, err := p.signature(stringToSign)
	if err != nil {
		return err
	}

	r.Header.Set(headerDate, date)
	r.Header.Set(headerContentSHA256, contentHash)
	r.Header.Set(headerAuthorization, fmt.Sprintf("HMAC-SHA256 SignedHeaders=%s&Signature=%s", signedHeaders, signature))
	return nil
}

func (p *HMACPolicy) signature(stringToSign string) (string, error) {
	mac := hmac.New(sha256.New, p.key)
	if _, err := mac.Write([]byte(stringToSign)); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// ContentHash returns the base64 SHA-256 digest of body.
func ContentHash(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}
