package auto

import (
	"github.com/born-ml/autotokenizer/internal/autoconfig"
	"github.com/born-ml/autotokenizer/internal/hub"
)

// ResolveOption configures a single resolution.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	useFast       bool
	config        *autoconfig.ModelConfig
	fetch         hub.FetchOptions
	args          []any
	kwargs        map[string]any
	tokenizerType string
}

func newResolveOptions(opts []ResolveOption) *resolveOptions {
	o := &resolveOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithUseFast prefers accelerated classes.
func WithUseFast(useFast bool) ResolveOption {
	return func(o *resolveOptions) {
		o.useFast = useFast
	}
}

// WithConfig supplies a model configuration instead of loading one.
func WithConfig(cfg *autoconfig.ModelConfig) ResolveOption {
	return func(o *resolveOptions) {
		o.config = cfg
	}
}

// WithFetchOptions replaces all file fetch options at once.
func WithFetchOptions(fetch hub.FetchOptions) ResolveOption {
	return func(o *resolveOptions) {
		o.fetch = fetch
	}
}

// WithCacheDir overrides the download cache directory.
func WithCacheDir(dir string) ResolveOption {
	return func(o *resolveOptions) {
		o.fetch.CacheDir = dir
	}
}

// WithForceDownload re-downloads files even when cached.
func WithForceDownload(force bool) ResolveOption {
	return func(o *resolveOptions) {
		o.fetch.ForceDownload = force
	}
}

// WithResumeDownload is accepted for compatibility and ignored.
func WithResumeDownload(resume bool) ResolveOption {
	return func(o *resolveOptions) {
		o.fetch.ResumeDownload = resume
	}
}

// WithProxies sets proxies keyed by scheme or "scheme://host".
func WithProxies(proxies map[string]string) ResolveOption {
	return func(o *resolveOptions) {
		o.fetch.Proxies = proxies
	}
}

// WithToken sets the bearer token for remote files.
func WithToken(token string) ResolveOption {
	return func(o *resolveOptions) {
		o.fetch.Token = token
	}
}

// WithRevision selects a branch, tag or commit.
func WithRevision(revision string) ResolveOption {
	return func(o *resolveOptions) {
		o.fetch.Revision = revision
	}
}

// WithLocalFilesOnly disables network access.
func WithLocalFilesOnly(local bool) ResolveOption {
	return func(o *resolveOptions) {
		o.fetch.LocalFilesOnly = local
	}
}

// WithSubfolder looks for files in a subfolder of the model.
func WithSubfolder(subfolder string) ResolveOption {
	return func(o *resolveOptions) {
		o.fetch.Subfolder = subfolder
	}
}

// WithArgs forwards positional initialization arguments to the constructor.
func WithArgs(args ...any) ResolveOption {
	return func(o *resolveOptions) {
		o.args = args
	}
}

// WithKwargs forwards keyword initialization arguments to the constructor.
func WithKwargs(kwargs map[string]any) ResolveOption {
	return func(o *resolveOptions) {
		o.kwargs = kwargs
	}
}

// WithTokenizerType is reserved; resolving with it returns ErrNotImplemented.
func WithTokenizerType(tokenizerType string) ResolveOption {
	return func(o *resolveOptions) {
		o.tokenizerType = tokenizerType
	}
}
