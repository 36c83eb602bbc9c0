package shared

import (
	"context"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// NewPager follows the `nextLink` of each page until it is empty. first is
// the request for the first page; later pages reuse its method, headers and
// api-version against the returned link.
func NewPager[P any](pl runtime.Pipeline, first Call, nextLink func(P) string) *runtime.Pager[P] {
	return runtime.NewPager(runtime.PagingHandler[P]{
		More: func(page P) bool {
			return nextLink(page) != ""
		},
		Fetcher: func(ctx context.Context, current *P) (P, error) {
			call := first
			if current != nil {
				link, err := resolveLink(first.URL, nextLink(*current))
				if err != nil {
					var zero P
					return zero, err
				}
				call.URL = link
				call.Query = nil
			}
			var page P
			call.Out = &page
			if _, err := Invoke(ctx, pl, call); err != nil {
				var zero P
				return zero, err
			}
			return page, nil
		},
	})
}

// NewFailedPager returns a pager whose first page fails with err without sending a request.
func NewFailedPager[P any](err error) *runtime.Pager[P] {
	return runtime.NewPager(runtime.PagingHandler[P]{
		More: func(P) bool { return false },
		Fetcher: func(context.Context, *P) (P, error) {
			var zero P
			return zero, err
		},
	})
}

// resolveLink turns a relative next link into an absolute one.
func resolveLink(base, link string) (string, error) {
	ref, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return link, nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(ref).String(), nil
}
