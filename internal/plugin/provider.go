package plugin

import (
	"time"

	"github.com/dshills/quill/internal/document"
	"github.com/dshills/quill/internal/logging"
	plua "github.com/dshills/quill/internal/plugin/lua"
)

// Option configures scripts opened by a Provider.
type Option func(*options)

type options struct {
	timeout time.Duration
	logger  *logging.Logger
}

func newOptions(opts []Option) options {
	o := options{timeout: plua.DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}
	return o
}

// WithTimeout sets the per-call timeout of each script.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger scripts log to.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Provider opens a script for every document it is asked about.
type Provider struct {
	src  Source
	opts []Option
}

// NewProvider creates a provider for src.
func NewProvider(src Source, opts ...Option) *Provider {
	return &Provider{src: src, opts: opts}
}

// Source returns the script the provider runs.
func (p *Provider) Source() Source {
	return p.src
}

// Provide implements document.Provider.
func (p *Provider) Provide(d *document.Document) (document.Listeners, error) {
	s, err := Open(p.src, d, p.opts...)
	if err != nil {
		return document.Listeners{}, err
	}
	ls := s.Listeners()
	if ls.Len() == 0 {
		// Nothing would close the state through the document.
		s.Close()
	}
	return ls, nil
}

// Register adds a provider per source to c, named after the source.
func Register(c *document.Catalog, sources []Source, opts ...Option) {
	for _, src := range sources {
		c.Register(src.Name, NewProvider(src, opts...))
	}
}
