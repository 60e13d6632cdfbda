package auto

import (
	"fmt"
	"slices"
	"sync"

	"github.com/armon/go-radix"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/born-ml/autotokenizer/internal/autoconfig"
	"github.com/born-ml/autotokenizer/internal/hub"
)

// Pair holds the classes registered for one configuration type.
type Pair struct {
	// Reference holds one or more reference classes; the first is the default.
	Reference   []*Class
	Accelerated *Class
}

func (p Pair) classes() []*Class {
	out := slices.Clone(p.Reference)
	if p.Accelerated != nil {
		out = append(out, p.Accelerated)
	}
	return out
}

// Registry resolves identifiers to tokenizer classes.
//
// A Registry is safe for concurrent use.
type Registry struct {
	entries []Entry
	classes map[string]*Class
	generic *Class

	// known maps built-in pretrained identifiers to their class.
	known *radix.Tree

	files   hub.Resolver
	configs autoconfig.Loader
	logger  *zap.Logger
	metrics *Metrics

	// Config-class table, built per architecture on first use.
	group   singleflight.Group
	tableMu sync.Mutex
	table   map[Arch]Pair

	extraMu    sync.RWMutex
	extras     map[string]Pair
	extraOrder []string
}

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	logger  *zap.Logger
	files   hub.Resolver
	configs autoconfig.Loader
	metrics *Metrics
	classes []*Class
	entries []Entry
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *registryConfig) {
		c.logger = logger
	}
}

// WithFileResolver sets the collaborator that locates model files.
func WithFileResolver(files hub.Resolver) Option {
	return func(c *registryConfig) {
		c.files = files
	}
}

// WithConfigLoader sets the model configuration loader.
func WithConfigLoader(loader autoconfig.Loader) Option {
	return func(c *registryConfig) {
		c.configs = loader
	}
}

// WithMetrics enables metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *registryConfig) {
		c.metrics = m
	}
}

// WithClasses replaces the class catalog.
func WithClasses(classes ...*Class) Option {
	return func(c *registryConfig) {
		c.classes = classes
	}
}

// WithArchitectures replaces the architecture table.
func WithArchitectures(entries ...Entry) Option {
	return func(c *registryConfig) {
		c.entries = entries
	}
}

// NewRegistry creates a Registry with the built-in tables unless
// WithClasses or WithArchitectures replace them.
func NewRegistry(opts ...Option) (*Registry, error) {
	cfg := &registryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.entries == nil {
		cfg.entries = DefaultArchitectures()
	}
	if cfg.classes == nil {
		cfg.classes = DefaultClasses()
	}
	if cfg.files == nil {
		client, err := hub.NewClient(hub.WithLogger(cfg.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create file resolver: %w", err)
		}
		cfg.files = client
	}
	if cfg.configs == nil {
		cfg.configs = autoconfig.NewLoader(cfg.files, cfg.logger)
	}

	r := &Registry{
		entries: cfg.entries,
		classes: make(map[string]*Class, len(cfg.classes)),
		generic: GenericFast(),
		known:   radix.New(),
		files:   cfg.files,
		configs: cfg.configs,
		logger:  cfg.logger.With(zap.String("component", "auto")),
		metrics: cfg.metrics,
		table:   make(map[Arch]Pair),
		extras:  make(map[string]Pair),
	}

	for _, c := range cfg.classes {
		if c == nil || c.Name == "" {
			return nil, fmt.Errorf("tokenizer class without a name in catalog")
		}
		if _, dup := r.classes[c.Name]; dup {
			return nil, fmt.Errorf("tokenizer class %s registered twice", c.Name)
		}
		r.classes[c.Name] = c
	}

	r.indexPretrained()
	return r, nil
}

// indexPretrained fills the known-identifier table from every reference
// class of the architecture table. On collision the first class wins.
func (r *Registry) indexPretrained() {
	for _, e := range r.entries {
		for _, name := range e.Variants.Reference {
			c, ok := r.classes[name]
			if !ok {
				r.logger.Debug("reference class not in catalog", zap.String("class", name))
				continue
			}
			for _, id := range c.Pretrained {
				if prev, exists := r.known.Get(id); exists {
					r.logger.Warn("pretrained identifier declared twice, keeping first",
						zap.String("identifier", id),
						zap.String("kept", prev.(*Class).Name),
						zap.String("ignored", c.Name))
					continue
				}
				r.known.Insert(id, c)
			}
		}
	}
}

// Architectures returns the architecture table in order.
func (r *Registry) Architectures() []Entry {
	return slices.Clone(r.entries)
}

// Classes returns every catalog class in architecture table order,
// followed by runtime registrations.
func (r *Registry) Classes() []*Class {
	seen := make(map[string]bool)
	var out []*Class
	add := func(c *Class) {
		if c != nil && !seen[c.Name] {
			seen[c.Name] = true
			out = append(out, c)
		}
	}

	for _, e := range r.entries {
		for _, name := range e.Variants.Names(true) {
			add(r.classes[name])
		}
	}

	r.extraMu.RLock()
	defer r.extraMu.RUnlock()
	for _, key := range r.extraOrder {
		for _, c := range r.extras[key].classes() {
			add(c)
		}
	}
	return out
}

// BuiltinNames returns the built-in pretrained identifiers starting with
// prefix, sorted.
func (r *Registry) BuiltinNames(prefix string) []string {
	var names []string
	r.known.WalkPrefix(prefix, func(s string, _ interface{}) bool {
		names = append(names, s)
		return false
	})
	return names
}

// ResolveByBuiltinName returns the class declaring identifier as one of its
// pretrained names, or nil.
func (r *Registry) ResolveByBuiltinName(identifier string) *Class {
	v, ok := r.known.Get(identifier)
	if !ok {
		return nil
	}
	return v.(*Class)
}

// ClassByName looks a class up by name.
//
// It returns (nil, nil) when no architecture or registration declares the
// name, and an ErrUnresolvedClass when the architecture table declares it
// but the catalog has no such class.
func (r *Registry) ClassByName(name string) (*Class, error) {
	if name == GenericFastClassName {
		return r.generic, nil
	}

	for _, e := range r.entries {
		if !slices.Contains(e.Variants.Names(true), name) {
			continue
		}
		if c, ok := r.classes[name]; ok {
			return c, nil
		}
		return nil, &ErrUnresolvedClass{
			Name:  name,
			Cause: fmt.Errorf("architecture %q declares it but no implementation is linked", e.Arch),
		}
	}

	r.extraMu.RLock()
	defer r.extraMu.RUnlock()
	for _, key := range r.extraOrder {
		for _, c := range r.extras[key].classes() {
			if c.Name == name {
				return c, nil
			}
		}
	}

	return nil, nil
}

// entry returns the architecture table row for arch.
func (r *Registry) entry(arch Arch) (Entry, bool) {
	for _, e := range r.entries {
		if e.Arch == arch {
			return e, true
		}
	}
	return Entry{}, false
}

// pairFor returns the config-class table entry of arch, building it on
// first use. Concurrent first lookups share one build.
func (r *Registry) pairFor(arch Arch) (Pair, error) {
	r.tableMu.Lock()
	p, ok := r.table[arch]
	r.tableMu.Unlock()
	if ok {
		return p, nil
	}

	v, err, _ := r.group.Do(string(arch), func() (interface{}, error) {
		r.tableMu.Lock()
		if p, ok := r.table[arch]; ok {
			r.tableMu.Unlock()
			return p, nil
		}
		r.tableMu.Unlock()

		p, err := r.buildPair(arch)
		if err != nil {
			return Pair{}, err
		}

		r.tableMu.Lock()
		r.table[arch] = p
		r.tableMu.Unlock()

		r.metrics.recordTableBuild(arch)
		r.logger.Debug("built config-class table entry", zap.String("arch", string(arch)))
		return p, nil
	})
	if err != nil {
		return Pair{}, err
	}
	return v.(Pair), nil
}

// buildPair links the names of an architecture row to catalog classes.
// Names without an implementation are left out.
func (r *Registry) buildPair(arch Arch) (Pair, error) {
	e, ok := r.entry(arch)
	if !ok {
		return Pair{}, fmt.Errorf("unknown architecture %q", arch)
	}

	var p Pair
	for _, name := range e.Variants.Reference {
		if c, ok := r.classes[name]; ok {
			p.Reference = append(p.Reference, c)
		} else {
			r.logger.Debug("reference class unavailable", zap.String("class", name))
		}
	}
	if name := e.Variants.Accelerated; name != "" {
		if c, ok := r.classes[name]; ok {
			p.Accelerated = c
		} else {
			r.logger.Debug("accelerated class unavailable", zap.String("class", name))
		}
	}
	return p, nil
}

// extra returns the runtime registration for configType.
func (r *Registry) extra(configType string) (Pair, bool) {
	r.extraMu.RLock()
	defer r.extraMu.RUnlock()
	p, ok := r.extras[configType]
	return p, ok
}
