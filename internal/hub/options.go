package hub

import (
	"net/http"
	"net/url"
	"strings"
)

// DefaultRevision is used when FetchOptions.Revision is empty.
const DefaultRevision = "main"

// FetchOptions controls how a single file lookup is performed.
type FetchOptions struct {
	// CacheDir overrides the client's cache directory for this lookup.
	CacheDir string

	// ForceDownload ignores cached copies and misses and fetches again.
	ForceDownload bool

	// ResumeDownload is deprecated and ignored. Downloads always restart.
	ResumeDownload bool

	// Proxies maps a scheme ("http", "https"), a "scheme://host" pair or
	// "all" to a proxy address.
	Proxies map[string]string

	// Token is sent as a bearer token on remote requests.
	Token string

	// Revision selects a branch, tag or commit. Defaults to "main".
	Revision string

	// LocalFilesOnly disables network access.
	LocalFilesOnly bool

	// Subfolder is a path inside the model directory or repository.
	Subfolder string
}

func (o FetchOptions) revision() string {
	if o.Revision == "" {
		return DefaultRevision
	}
	return o.Revision
}

// proxyFunc builds an http.Transport proxy selector from a proxy map.
// Keys are tried from most to least specific: "scheme://host", "scheme", "all".
func proxyFunc(proxies map[string]string) func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		scheme := req.URL.Scheme
		candidates := []string{
			scheme + "://" + req.URL.Hostname(),
			scheme,
			"all",
		}
		for _, key := range candidates {
			raw, ok := proxies[key]
			if !ok || raw == "" {
				continue
			}
			if !strings.Contains(raw, "://") {
				raw = "http://" + raw
			}
			return url.Parse(raw)
		}
		return nil, nil //nolint:nilnil // nil URL means "no proxy" for http.Transport.
	}
}
