package shared

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

const headerAccept = "Accept"

// NewPipeline builds an azcore pipeline with auth running on every retry attempt.
func NewPipeline(module, version string, auth policy.Policy, options *policy.ClientOptions) runtime.Pipeline {
	return runtime.NewPipeline(module, version, runtime.PipelineOptions{
		PerRetry: []policy.Policy{auth},
	}, options)
}

// Call describes one JSON round trip through a pipeline.
type Call struct {
	Method     string
	URL        string
	APIVersion string
	Query      url.Values
	Headers    map[string]string
	Body       any
	Out        any
	// Statuses lists the accepted response codes; defaults to 200.
	Statuses []int
}

// Invoke sends call through pl. Responses outside Statuses become *azcore.ResponseError.
func Invoke(ctx context.Context, pl runtime.Pipeline, call Call) (*http.Response, error) {
	req, err := runtime.NewRequest(ctx, call.Method, call.URL)
	if err != nil {
		return nil, err
	}

	raw := req.Raw()
	query := raw.URL.Query()
	for key, values := range call.Query {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	if call.APIVersion != "" {
		query.Set("api-version", call.APIVersion)
	}
	raw.URL.RawQuery = query.Encode()
	raw.Header.Set(headerAccept, "application/json")
	for key, value := range call.Headers {
		raw.Header.Set(key, value)
	}

	if call.Body != nil {
		if err := runtime.MarshalAsJSON(req, call.Body); err != nil {
			return nil, err
		}
	}

	resp, err := pl.Do(req)
	if err != nil {
		return nil, err
	}

	statuses := call.Statuses
	if len(statuses) == 0 {
		statuses = []int{http.StatusOK}
	}
	if !runtime.HasStatusCode(resp, statuses...) {
		return resp, runtime.NewResponseError(resp)
	}

	if call.Out != nil {
		if err := runtime.UnmarshalAsJSON(resp, call.Out); err != nil {
			return resp, err
		}
	}
	return resp, nil
}
