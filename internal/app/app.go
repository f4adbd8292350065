package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/document"
	"github.com/dshills/quill/internal/engine/grammar"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/mirror"
	"github.com/dshills/quill/internal/plugin"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty means the user config dir.
	ConfigPath string

	// LogLevel overrides the configured level when non-empty.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// PluginDirs are scanned before the configured plugin directories.
	PluginDirs []string

	// NoPlugins skips plugin discovery.
	NoPlugins bool

	// FS is the file system documents are read from and saved to.
	// Defaults to the OS file system.
	FS mirror.FS

	// ConfigOptions are passed to config.Load after the path.
	ConfigOptions []config.Option
}

// Application owns the shared pieces every document is built from and
// the set of open documents, keyed by absolute path.
type Application struct {
	config   *config.Config
	logger   *logging.Logger
	grammars *grammar.Registry
	catalog  *document.Catalog
	metrics  *document.Metrics
	fs       mirror.FS

	mu        sync.Mutex
	documents map[string]*document.Document
	shutdown  bool
}

// New builds an application: configuration, logger, grammars and the
// plugin catalog, in that order.
func New(opts Options) (*Application, error) {
	app := &Application{
		catalog:   document.NewCatalog(),
		metrics:   document.NewMetrics(),
		fs:        opts.FS,
		documents: make(map[string]*document.Document),
	}
	if app.fs == nil {
		app.fs = mirror.OSFS{}
	}

	if err := app.initConfig(opts); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	if err := app.initLogger(opts); err != nil {
		return nil, &InitError{Component: "logging", Err: err}
	}
	if err := app.initGrammars(); err != nil {
		return nil, &InitError{Component: "grammars", Err: err}
	}
	app.initPlugins(opts)

	app.logger.Debug("initialized with %d grammars and %d plugins",
		app.grammars.Len(), len(app.catalog.Names()))
	return app, nil
}

func (app *Application) initConfig(opts Options) error {
	var cfgOpts []config.Option
	if opts.ConfigPath != "" {
		cfgOpts = append(cfgOpts, config.WithPath(opts.ConfigPath))
	}
	cfgOpts = append(cfgOpts, opts.ConfigOptions...)
	cfg, err := config.Load(cfgOpts...)
	if err != nil {
		return err
	}
	app.config = cfg
	return nil
}

func (app *Application) initLogger(opts Options) error {
	level := app.config.LogLevel()
	if opts.LogLevel != "" {
		l, ok := logging.ParseLevel(opts.LogLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", opts.LogLevel)
		}
		level = l
	}
	cfg := logging.DefaultConfig()
	cfg.Level = level
	if opts.LogOutput != nil {
		cfg.Output = opts.LogOutput
	}
	app.logger = logging.New(cfg)
	if app.config.Source != "" {
		app.logger.Debug("loaded settings from %s", app.config.Source)
	}
	return nil
}

func (app *Application) initGrammars() error {
	app.grammars = grammar.NewBuiltinRegistry()
	for _, path := range app.config.Grammars.Files {
		n, err := app.grammars.LoadFile(path)
		if err != nil {
			return err
		}
		app.logger.Debug("loaded %d grammars from %s", n, path)
	}
	return nil
}

// initPlugins registers a provider per discovered script. Discovery
// problems are logged; the scripts that were found still load.
func (app *Application) initPlugins(opts Options) {
	if opts.NoPlugins || !app.config.Plugins.Enabled {
		return
	}
	dirs := append(append([]string(nil), opts.PluginDirs...), app.config.Plugins.Dirs...)
	if len(dirs) == 0 {
		return
	}
	sources, err := plugin.Discover(dirs...)
	if err != nil {
		app.logger.WithComponent("plugin").Warn("discovery: %v", err)
	}
	plugin.Register(app.catalog, sources,
		plugin.WithTimeout(app.config.PluginTimeout()),
		plugin.WithLogger(app.logger.WithComponent("plugin")),
	)
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Grammars returns the grammar registry shared by all documents.
func (app *Application) Grammars() *grammar.Registry {
	return app.grammars
}

// Catalog returns the listener catalog shared by all documents.
func (app *Application) Catalog() *document.Catalog {
	return app.catalog
}

// Metrics returns the hook metrics shared by all documents.
func (app *Application) Metrics() *document.Metrics {
	return app.metrics
}

// Open returns the document for path, opening it if needed. A path that
// does not exist yet opens as an empty document that Save creates.
func (app *Application) Open(path string) (*document.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}

	app.mu.Lock()
	defer app.mu.Unlock()
	if app.shutdown {
		return nil, NewOperationError("open", abs, ErrShutdown)
	}
	if d, ok := app.documents[abs]; ok {
		return d, nil
	}

	d := app.newDocument(abs)
	if err := d.SetMirror(mirror.NewFile(abs, mirror.WithFS(app.fs))); err != nil {
		if !errors.Is(err, mirror.ErrNotExist) {
			d.Close()
			return nil, NewOperationError("open", abs, err)
		}
		app.logger.Info("new file %s", abs)
	}
	app.documents[abs] = d
	return d, nil
}

// Scratch creates a document without a mirror. It is not tracked.
func (app *Application) Scratch(text string) *document.Document {
	return app.newDocument("", document.WithText(text))
}

func (app *Application) newDocument(path string, extra ...document.Option) *document.Document {
	cfg := app.config
	opts := []document.Option{
		document.WithCatalog(app.catalog),
		document.WithLogger(app.logger),
		document.WithMetrics(app.metrics),
		document.WithGrammars(app.grammars),
		document.WithDefaultDelimiter(cfg.Delimiter()),
		document.WithFailureLogSize(cfg.Document.FailureLogSize),
		document.WithView(document.NewHeadlessView(40, cfg.Editor.TabWidth, cfg.Editor.SoftTabs)),
	}
	if path != "" {
		opts = append(opts, document.WithFilename(filepath.Base(path)))
	}
	return document.New(append(opts, extra...)...)
}

// Document returns the open document for path.
func (app *Application) Document(path string) (*document.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOperationError("lookup", path, err)
	}
	app.mu.Lock()
	defer app.mu.Unlock()
	d, ok := app.documents[abs]
	if !ok {
		return nil, NewOperationError("lookup", abs, ErrDocumentNotFound)
	}
	return d, nil
}

// Documents returns the paths of all open documents, sorted.
func (app *Application) Documents() []string {
	app.mu.Lock()
	defer app.mu.Unlock()
	paths := make([]string, 0, len(app.documents))
	for p := range app.documents {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Save saves the document open at path.
func (app *Application) Save(ctx context.Context, path string) error {
	d, err := app.Document(path)
	if err != nil {
		return err
	}
	if err := d.Save(ctx); err != nil {
		return NewOperationError("save", d.Path(), err)
	}
	return nil
}

// CloseDocument closes the document at path and forgets it.
func (app *Application) CloseDocument(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return NewOperationError("close", path, err)
	}
	app.mu.Lock()
	d, ok := app.documents[abs]
	delete(app.documents, abs)
	app.mu.Unlock()

	if !ok {
		return NewOperationError("close", abs, ErrDocumentNotFound)
	}
	if err := d.Close(); err != nil {
		return NewOperationError("close", abs, err)
	}
	return nil
}

// Shutdown closes every open document. It is safe to call more than
// once.
func (app *Application) Shutdown() error {
	app.mu.Lock()
	if app.shutdown {
		app.mu.Unlock()
		return nil
	}
	app.shutdown = true
	docs := app.documents
	app.documents = make(map[string]*document.Document)
	app.mu.Unlock()

	var errs []error
	for path, d := range docs {
		if d.Modified() {
			app.logger.Warn("closing %s with unsaved changes", path)
		}
		if err := d.Close(); err != nil {
			errs = append(errs, NewOperationError("close", path, err))
		}
	}
	return errors.Join(errs...)
}
