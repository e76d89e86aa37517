package ndoc

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"
)

const maxRedirects = 10

// HTTPFetcher is the reference Fetcher (§6): a synchronous GET with a
// redirect cap, optional http->https rewriting, and single-flight
// collapsing of concurrent fetches of the same IRI. Sequential repeat
// fetches are not collapsed here; session.Session.CacheDereference
// memoizes those for a run.
type HTTPFetcher struct {
	Client       *http.Client
	EnforceHTTPS bool
	group        singleflight.Group
}

// NewHTTPFetcher returns a fetcher with a redirect-capped client.
func NewHTTPFetcher(enforceHTTPS bool) *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("ndoc: stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		EnforceHTTPS: enforceHTTPS,
	}
}

// Fetch retrieves iri's body, rewriting http:// to https:// first when
// EnforceHTTPS is set. Concurrent fetches of the same iri share one
// in-flight request.
func (f *HTTPFetcher) Fetch(iri string) (string, error) {
	url := iri
	if f.EnforceHTTPS && strings.HasPrefix(url, "http://") {
		url = "https://" + strings.TrimPrefix(url, "http://")
	}

	v, err, _ := f.group.Do(url, func() (interface{}, error) {
		resp, err := f.Client.Get(url)
		if err != nil {
			return nil, fmt.Errorf("ndoc: fetch %s: %w", url, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("ndoc: fetch %s: status %d", url, resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("ndoc: read %s: %w", url, err)
		}
		return string(body), nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
