package document

import (
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/grammar"
	"github.com/dshills/quill/internal/engine/mark"
	"github.com/dshills/quill/internal/engine/word"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/mirror"
)

// DefaultFailureLogSize is the number of listener failures a document
// keeps unless configured otherwise.
const DefaultFailureLogSize = 64

// Document is the controller of one text document.
//
// Document is not safe for concurrent use. All calls, including the
// listener hooks it runs, happen on the caller's goroutine.
type Document struct {
	id uuid.UUID

	buf      *buffer.Buffer
	marks    *mark.Registry
	state    *cursor.State
	words    *word.Resolver
	grammars *grammar.Registry
	grammar  *grammar.Grammar

	view       View
	mirror     mirror.Mirror
	singleLine bool
	modified   bool

	listeners Listeners
	observers observers

	phase   phase
	pending *change
	queue   []change

	logger     *logging.Logger
	metrics    *Metrics
	failures   []ListenerFailure
	failureCap int
	onFailure  func(ListenerFailure)

	closed bool
}

type options struct {
	view       View
	catalog    *Catalog
	listeners  []any
	logger     *logging.Logger
	metrics    *Metrics
	grammars   *grammar.Registry
	grammarID  string
	filename   string
	text       string
	delimiter  *buffer.Delimiter
	fallback   buffer.Delimiter
	singleLine bool
	failureCap int
	onFailure  func(ListenerFailure)
}

// Option configures a Document.
type Option func(*options)

// WithView sets the view the document is shown in. Without one the
// document uses a HeadlessView.
func WithView(v View) Option {
	return func(o *options) {
		o.view = v
	}
}

// WithCatalog sets the catalog the document pulls listeners from.
func WithCatalog(c *Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithListener registers a per-document listener implementing one or
// more listener interfaces.
func WithListener(l any) Option {
	return func(o *options) {
		o.listeners = append(o.listeners, l)
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the collector for listener statistics, which may be
// shared between documents.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithGrammars sets the grammar registry.
func WithGrammars(r *grammar.Registry) Option {
	return func(o *options) {
		o.grammars = r
	}
}

// WithGrammar selects a grammar by ID.
func WithGrammar(id string) Option {
	return func(o *options) {
		o.grammarID = id
	}
}

// WithFilename selects the grammar for a file name when no grammar ID is
// given.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithText sets the initial text. No listener sees it.
func WithText(text string) Option {
	return func(o *options) {
		o.text = text
	}
}

// WithDelimiter fixes the line delimiter instead of detecting it.
func WithDelimiter(d buffer.Delimiter) Option {
	return func(o *options) {
		o.delimiter = &d
	}
}

// WithDefaultDelimiter sets the delimiter used when the text has no line
// break to detect one from.
func WithDefaultDelimiter(d buffer.Delimiter) Option {
	return func(o *options) {
		o.fallback = d
	}
}

// WithSingleLine makes the document strip line breaks from every edit.
func WithSingleLine() Option {
	return func(o *options) {
		o.singleLine = true
	}
}

// WithFailureLogSize bounds the failure log. Zero disables it.
func WithFailureLogSize(n int) Option {
	return func(o *options) {
		o.failureCap = n
	}
}

// WithFailureHandler sets a function called with every listener
// failure.
func WithFailureHandler(fn func(ListenerFailure)) Option {
	return func(o *options) {
		o.onFailure = fn
	}
}

// New creates a document. Listeners are collected from the catalog and
// the WithListener options, in that order.
func New(opts ...Option) *Document {
	o := &options{
		failureCap: DefaultFailureLogSize,
		fallback:   buffer.DelimiterLF,
	}
	for _, opt := range opts {
		opt(o)
	}

	d := &Document{
		id:         uuid.New(),
		view:       o.view,
		singleLine: o.singleLine,
		logger:     o.logger,
		metrics:    o.metrics,
		failureCap: o.failureCap,
		onFailure:  o.onFailure,
		grammars:   o.grammars,
	}
	if d.view == nil {
		d.view = NewHeadlessView(40, 4, true)
	}
	if d.logger == nil {
		d.logger = logging.Nop()
	}
	d.logger = d.logger.WithComponent("document").WithField("document", d.id.String())
	if d.metrics == nil {
		d.metrics = NewMetrics()
	}
	if d.grammars == nil {
		d.grammars = grammar.NewBuiltinRegistry()
	}

	delim := o.fallback
	if o.delimiter != nil {
		delim = *o.delimiter
	} else if hasLineBreak(o.text) {
		delim = buffer.DetectDelimiter(o.text)
	}
	text := o.text
	if d.singleLine {
		text = stripLineBreaks(text)
	}
	d.buf = buffer.NewFromString(text, buffer.WithDelimiter(delim))
	d.marks = mark.NewRegistry(d.buf)
	d.state = cursor.NewState(d.buf,
		cursor.WithTabWidth(d.view.TabWidth()),
		cursor.WithNotifier(stateNotifier{d}),
	)

	d.grammar = d.selectGrammar(o.grammarID, o.filename)
	d.words = word.NewResolver(d.buf, d.grammar)

	if o.catalog != nil {
		d.listeners.Merge(o.catalog.collect(d))
	}
	for _, l := range o.listeners {
		d.listeners.Add(l)
	}

	d.logger.Debug("document created with %d listeners", d.listeners.Len())
	return d
}

func (d *Document) selectGrammar(id, filename string) *grammar.Grammar {
	if id != "" {
		g, err := d.grammars.Lookup(id)
		if err == nil {
			return g
		}
		d.logger.Warn("grammar %q: %v; using default", id, err)
	}
	if filename != "" {
		return d.grammars.ForFile(filename)
	}
	return d.grammars.Default()
}

// ID returns the document's unique ID.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// View returns the view the document is shown in.
func (d *Document) View() View {
	return d.view
}

// Metrics returns the listener statistics collector.
func (d *Document) Metrics() *Metrics {
	return d.metrics
}

// Logger returns the document's logger.
func (d *Document) Logger() *logging.Logger {
	return d.logger
}

// SingleLine reports whether line breaks are stripped from edits.
func (d *Document) SingleLine() bool {
	return d.singleLine
}

// Modified reports whether the text differs from the last load or save.
func (d *Document) Modified() bool {
	return d.modified
}

// Listeners returns a copy of the registered listeners.
func (d *Document) Listeners() Listeners {
	var ls Listeners
	ls.Merge(d.listeners)
	return ls
}

// AddListener registers a per-document listener. It returns false if l
// implements none of the listener interfaces.
func (d *Document) AddListener(l any) bool {
	return d.listeners.Add(l)
}

// Compound runs fn as one compound edit on views that group edits.
func (d *Document) Compound(fn func() error) error {
	if c, ok := d.view.(Compounder); ok {
		c.BeginCompound()
		defer c.EndCompound()
	}
	return fn()
}

// Close releases the document's marks and closes every listener that
// implements io.Closer. The document cannot be edited afterwards.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.marks.Close()
	d.observers = observers{}

	var errs []error
	seen := make(map[any]bool)
	closeOnce := func(l any) {
		c, ok := l.(io.Closer)
		if !ok || !comparableKey(l) || seen[l] {
			return
		}
		seen[l] = true
		if err := c.Close(); err != nil {
			errs = append(errs, ListenerFailure{Listener: listenerName(l), Hook: HookClose, Err: err})
		}
	}
	for _, l := range d.listeners.Modification {
		closeOnce(l)
	}
	for _, l := range d.listeners.Newline {
		closeOnce(l)
	}
	for _, l := range d.listeners.Cursor {
		closeOnce(l)
	}
	for _, l := range d.listeners.Save {
		closeOnce(l)
	}
	return errors.Join(errs...)
}

// Closed reports whether Close has been called.
func (d *Document) Closed() bool {
	return d.closed
}

func comparableKey(v any) bool {
	return reflect.TypeOf(v).Comparable()
}

func hasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

var lineBreaks = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

func stripLineBreaks(s string) string {
	if !hasLineBreak(s) {
		return s
	}
	return lineBreaks.Replace(s)
}

// stateNotifier forwards selection state notifications to the document.
type stateNotifier struct {
	d *Document
}

func (n stateNotifier) NotifySelection(start, end int) {
	n.d.notifySelection(start, end)
}

func (n stateNotifier) NotifyCursor(offset int) {
	n.d.runCursorListeners(offset)
}
