package document

import "sync"

// Provider contributes listeners to each new document.
type Provider interface {
	Provide(d *Document) (Listeners, error)
}

// ProviderFunc is a function adapter for Provider.
type ProviderFunc func(d *Document) (Listeners, error)

// Provide implements Provider.
func (f ProviderFunc) Provide(d *Document) (Listeners, error) {
	return f(d)
}

// Catalog is the registry documents pull their listeners from. It is
// append-only and queried once per document, in New.
//
// Catalog is safe for concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	providers []catalogEntry
}

type catalogEntry struct {
	name     string
	provider Provider
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Register adds a provider.
func (c *Catalog) Register(name string, p Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers = append(c.providers, catalogEntry{name: name, provider: p})
}

// RegisterListeners adds listeners shared by every document.
func (c *Catalog) RegisterListeners(name string, ls Listeners) {
	c.Register(name, ProviderFunc(func(*Document) (Listeners, error) {
		return ls, nil
	}))
}

// Names returns provider names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.providers))
	for i, e := range c.providers {
		names[i] = e.name
	}
	return names
}

// Len returns the number of providers.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.providers)
}

// collect asks every provider for d's listeners. A failing provider is
// reported through d's failure log and skipped.
func (c *Catalog) collect(d *Document) Listeners {
	c.mu.RLock()
	entries := make([]catalogEntry, len(c.providers))
	copy(entries, c.providers)
	c.mu.RUnlock()

	var all Listeners
	for _, e := range entries {
		var ls Listeners
		d.isolate(namedProvider(e.name), HookProvide, func() error {
			var err error
			ls, err = e.provider.Provide(d)
			return err
		})
		all.Merge(ls)
	}
	return all
}

type namedProvider string

func (n namedProvider) Name() string { return string(n) }
