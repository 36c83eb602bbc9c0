package shared

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	commErrors "acs-toolkit/internal/communication/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHMACPolicyRejectsBadKey(t *testing.T) {
	_, err := NewHMACPolicy("")
	require.Error(t, err)
	assert.True(t, commErrors.IsValidation(err))

	_, err = NewHMACPolicy("not base64!")
	require.Error(t, err)
	assert.True(t, commErrors.IsValidation(err))
}

func TestHMACPolicySign(t *testing.T) {
	key := []byte("secret")
	p, err := NewHMACPolicy(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2020, time.October, 5, 11, 30, 0, 0, time.UTC) }

	body := []byte(`{"scopes":["chat"]}`)
	r := httptest.NewRequest(http.MethodPost, "https://contoso.communication.azure.com/identities/u1/token?api-version=2020-07-20-preview2", nil)
	require.NoError(t, p.Sign(r, body))

	date := "Mon, 05 Oct 2020 11:30:00 GMT"
	sum := sha256.Sum256(body)
	hash := base64.StdEncoding.EncodeToString(sum[:])
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("POST\n/identities/u1/token?api-version=2020-07-20-preview2\n" + date + ";contoso.communication.azure.com;" + hash))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.Equal(t, date, r.Header.Get("x-ms-date"))
	assert.Equal(t, hash, r.Header.Get("x-ms-content-sha256"))
	assert.Equal(t, "HMAC-SHA256 SignedHeaders=x-ms-date;host;x-ms-content-sha256&Signature="+signature, r.Header.Get("Authorization"))
}

func TestContentHashOfEmptyBody(t *testing.T) {
	assert.Equal(t, "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=", ContentHash(nil))
}

func TestHMACPolicyThroughPipeline(t *testing.T) {
	var gotAuth, gotHash, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotHash = r.Header.Get("x-ms-content-sha256")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"8:acs:1"}`))
	}))
	defer srv.Close()

	p, err := NewHMACPolicy(base64.StdEncoding.EncodeToString([]byte("secret")))
	require.NoError(t, err)
	pl := NewPipeline("test", "v0.0.0", p, testClientOptions())

	var out CommunicationUser
	_, err = Invoke(context.Background(), pl, Call{
		Method:   http.MethodPost,
		URL:      srv.URL + "/identities",
		Body:     map[string]string{"k": "v"},
		Out:      &out,
		Statuses: []int{http.StatusCreated},
	})
	require.NoError(t, err)
	assert.Equal(t, "8:acs:1", out.ID)
	assert.True(t, strings.HasPrefix(gotAuth, "HMAC-SHA256 SignedHeaders="))
	assert.Equal(t, ContentHash([]byte(gotBody)), gotHash)
	assert.JSONEq(t, `{"k":"v"}`, gotBody)
}
