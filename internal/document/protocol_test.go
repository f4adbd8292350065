package document

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/mark"
)

// recorder is a listener that logs every hook call.
type recorder struct {
	name       string
	events     []string
	failBefore error
	panicAfter bool
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) BeforeModify(start, end int, text string) error {
	r.events = append(r.events, fmt.Sprintf("before %d %d %q", start, end, text))
	return r.failBefore
}

func (r *recorder) AfterModify() error {
	r.events = append(r.events, "after")
	if r.panicAfter {
		panic("after modify exploded")
	}
	return nil
}

func (r *recorder) AfterNewline(line int) error {
	r.events = append(r.events, fmt.Sprintf("newline %d", line))
	return nil
}

func (r *recorder) CursorMoved(offset int) error {
	r.events = append(r.events, fmt.Sprintf("cursor %d", offset))
	return nil
}

func equalEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected events %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestReplaceRunsProtocolInOrder(t *testing.T) {
	r := &recorder{name: "r"}
	d := New(WithText("hello"), WithListener(r))

	changed := 0
	d.OnChanged(func() {
		changed++
		if d.phase != phaseNotifying || d.pending != nil {
			t.Errorf("changed observer ran in phase %s with pending %v", d.phase, d.pending)
		}
	})

	if err := d.Insert(5, " world"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if d.Text() != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", d.Text())
	}
	if !d.Modified() {
		t.Error("expected document to be modified")
	}
	if changed != 1 {
		t.Errorf("expected 1 change notification, got %d", changed)
	}
	if d.phase != phaseIdle {
		t.Errorf("expected idle phase, got %s", d.phase)
	}
	equalEvents(t, r.events, []string{`before 5 5 " world"`, "after"})
}

func TestListenerFailureIsolation(t *testing.T) {
	failing := &recorder{name: "failing", failBefore: errors.New("boom")}
	panicking := &recorder{name: "panicking", panicAfter: true}
	healthy := &recorder{name: "healthy"}

	var handled []ListenerFailure
	d := New(
		WithText("abc"),
		WithListener(failing),
		WithListener(panicking),
		WithListener(healthy),
		WithFailureHandler(func(f ListenerFailure) { handled = append(handled, f) }),
	)

	if err := d.Replace(1, 1, "X"); err != nil {
		t.Fatalf("Replace should succeed despite listener failures: %v", err)
	}
	if d.Text() != "aXc" {
		t.Errorf("expected %q, got %q", "aXc", d.Text())
	}

	equalEvents(t, failing.events, []string{`before 1 2 "X"`, "after"})
	equalEvents(t, healthy.events, []string{`before 1 2 "X"`, "after"})

	failures := d.Failures()
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failures))
	}
	if failures[0].Listener != "failing" || failures[0].Hook != HookBeforeModify || failures[0].Panicked {
		t.Errorf("unexpected first failure %+v", failures[0])
	}
	if failures[1].Listener != "panicking" || failures[1].Hook != HookAfterModify || !failures[1].Panicked {
		t.Errorf("unexpected second failure %+v", failures[1])
	}
	var pe *PanicError
	if !errors.As(failures[1], &pe) {
		t.Error("expected panic failure to wrap *PanicError")
	}
	if len(handled) != 2 {
		t.Errorf("expected failure handler to see 2 failures, got %d", len(handled))
	}

	m := d.Metrics()
	if m.TotalFailures() != 2 || m.TotalPanics() != 1 {
		t.Errorf("expected 2 failures and 1 panic, got %d and %d", m.TotalFailures(), m.TotalPanics())
	}
	stats, ok := m.HookStats("healthy", HookAfterModify)
	if !ok || stats.CallCount != 1 {
		t.Errorf("unexpected healthy stats %+v", stats)
	}
}

func TestFailureLogIsBounded(t *testing.T) {
	failing := &recorder{name: "failing", failBefore: errors.New("boom")}
	d := New(WithListener(failing), WithFailureLogSize(2))

	for i := 0; i < 3; i++ {
		if err := d.Insert(0, "x"); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(d.Failures()); got != 2 {
		t.Errorf("expected 2 retained failures, got %d", got)
	}
	d.ClearFailures()
	if len(d.Failures()) != 0 {
		t.Error("expected empty failure log after clear")
	}
}

func TestAfterNewline(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		insert string
		want   []string
	}{
		{"lf break", "ab\ncd", 4, "\n", []string{"newline 2"}},
		{"break on first line", "ab\ncd", 1, "\n", []string{"newline 1"}},
		{"plain text", "ab\ncd", 1, "x", nil},
		{"crlf in lf document", "ab\ncd", 1, "\r\n", nil},
		{"crlf document", "ab\r\ncd", 0, "\r\n", []string{"newline 1"}},
		{"break with text", "ab\ncd", 1, "\nx", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{name: "r"}
			d := New(WithText(tt.text))
			d.AddListener(NewlineFunc(func(line int) error {
				return r.AfterNewline(line)
			}))
			if err := d.Insert(tt.offset, tt.insert); err != nil {
				t.Fatal(err)
			}
			equalEvents(t, r.events, tt.want)
		})
	}
}

func TestSingleLineStripsDelimiters(t *testing.T) {
	d := New(WithText("abc"), WithSingleLine())
	before := d.Len()

	if err := d.Insert(1, "x\ny\r\nz"); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "axyzbc" {
		t.Errorf("expected %q, got %q", "axyzbc", d.Text())
	}
	if d.Len() != before+3 {
		t.Errorf("expected length %d, got %d", before+3, d.Len())
	}
	if d.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", d.LineCount())
	}
}

func TestReentrantEditDuringVerify(t *testing.T) {
	d := New(WithText("abc"))
	var nested error
	d.AddListener(ModificationFuncs{
		ID: "nested",
		Before: func(start, end int, text string) error {
			nested = d.Insert(0, "!")
			return nil
		},
	})

	if err := d.Insert(3, "d"); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(nested, ErrReentrantEdit) {
		t.Errorf("expected ErrReentrantEdit, got %v", nested)
	}
	if d.Text() != "abcd" {
		t.Errorf("expected %q, got %q", "abcd", d.Text())
	}
}

func TestEditDuringNotifyIsDeferred(t *testing.T) {
	d := New(WithText("ab"))
	calls := 0
	d.AddListener(ModificationFuncs{
		ID: "bang",
		After: func() error {
			calls++
			if calls == 1 {
				return d.Insert(d.Len(), "!")
			}
			return nil
		},
	})

	if err := d.Insert(2, "c"); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "abc!" {
		t.Errorf("expected %q, got %q", "abc!", d.Text())
	}
	if calls != 2 {
		t.Errorf("expected 2 after-modify calls, got %d", calls)
	}
}

func TestDeferredEditErrorsReturned(t *testing.T) {
	d := New(WithText("ab"))
	once := false
	d.AddListener(ModificationFuncs{
		ID: "bad",
		After: func() error {
			if !once {
				once = true
				return d.Insert(100, "x")
			}
			return nil
		},
	})

	err := d.Insert(0, "z")
	if !errors.Is(err, buffer.ErrOffsetOutOfRange) {
		t.Errorf("expected deferred out-of-range error, got %v", err)
	}
	if d.Text() != "zab" {
		t.Errorf("expected %q, got %q", "zab", d.Text())
	}
}

func TestEditLoopIsStopped(t *testing.T) {
	d := New()
	d.AddListener(ModificationFuncs{
		ID: "loop",
		After: func() error {
			return d.Insert(0, "x")
		},
	})

	if err := d.Insert(0, "x"); !errors.Is(err, ErrEditLoop) {
		t.Errorf("expected ErrEditLoop, got %v", err)
	}
}

func TestAboutToBeChangedThenChanged(t *testing.T) {
	r := &recorder{name: "r"}
	d := New(WithText("abc"), WithListener(r))

	if err := d.AboutToBeChanged(0, 1, "x"); err != nil {
		t.Fatal(err)
	}
	equalEvents(t, r.events, []string{`before 0 1 "x"`})
	if d.Text() != "abc" {
		t.Error("text changed before Changed")
	}

	if err := d.Replace(0, 0, "y"); !errors.Is(err, ErrReentrantEdit) {
		t.Errorf("expected ErrReentrantEdit while pending, got %v", err)
	}
	if err := d.Changed(0, 1, "y"); !errors.Is(err, ErrUnexpectedChange) {
		t.Errorf("expected ErrUnexpectedChange, got %v", err)
	}
	if err := d.Changed(0, 1, "x"); err != nil {
		t.Fatalf("Changed failed: %v", err)
	}
	if d.Text() != "xbc" {
		t.Errorf("expected %q, got %q", "xbc", d.Text())
	}
	equalEvents(t, r.events, []string{`before 0 1 "x"`, "after"})

	if err := d.AboutToBeChanged(0, 0, "q"); err != nil {
		t.Fatal(err)
	}
	d.CancelChange()
	if err := d.Insert(0, "z"); err != nil {
		t.Errorf("expected edit after cancel to succeed, got %v", err)
	}
}

func TestReplaceOutOfRange(t *testing.T) {
	r := &recorder{name: "r"}
	d := New(WithText("abc"), WithListener(r))

	tests := []struct {
		offset, length int
	}{
		{-1, 0},
		{4, 0},
		{2, 2},
		{0, -1},
	}
	for _, tt := range tests {
		err := d.Replace(tt.offset, tt.length, "x")
		if !errors.Is(err, buffer.ErrOffsetOutOfRange) {
			t.Errorf("Replace(%d, %d): expected ErrOffsetOutOfRange, got %v", tt.offset, tt.length, err)
		}
		var oe *buffer.OutOfRangeError
		if !errors.As(err, &oe) || oe.Op != "Replace" {
			t.Errorf("Replace(%d, %d): expected *OutOfRangeError, got %v", tt.offset, tt.length, err)
		}
	}
	if len(r.events) != 0 {
		t.Errorf("listeners ran for rejected edits: %q", r.events)
	}
	if d.Modified() || d.Text() != "abc" {
		t.Error("rejected edits changed the document")
	}
}

func TestCursorListeners(t *testing.T) {
	r := &recorder{name: "r"}
	d := New(WithText("hello"))
	d.AddListener(CursorFunc(r.CursorMoved))

	if err := d.SetCursorOffset(3); err != nil {
		t.Fatal(err)
	}
	if err := d.Insert(0, "ab"); err != nil {
		t.Fatal(err)
	}
	if err := d.CursorMoved(5); err != nil {
		t.Fatal(err)
	}
	if err := d.CursorMoved(1); err != nil {
		t.Fatal(err)
	}
	equalEvents(t, r.events, []string{"cursor 3", "cursor 5", "cursor 5", "cursor 1"})
}

func TestSelectAllNotifiesOnce(t *testing.T) {
	d := New(WithText("0123456789"))
	var got [][2]int
	d.OnSelectionRangeChanged(func(start, end int) {
		got = append(got, [2]int{start, end})
	})

	d.SelectAll()

	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0] != [2]int{0, 10} {
		t.Errorf("expected (0, 10), got %v", got[0])
	}
	if d.CursorOffset() != 0 || d.SelectionOffset() != 10 {
		t.Errorf("expected cursor 0 and anchor 10, got %d and %d", d.CursorOffset(), d.SelectionOffset())
	}
	if !d.HasSelection() {
		t.Error("expected a selection")
	}
}

func TestSelectionRangeChangedEntryPoint(t *testing.T) {
	d := New(WithText("hello world"))
	var got [][2]int
	unsubscribe := d.OnSelectionRangeChanged(func(start, end int) {
		got = append(got, [2]int{start, end})
	})

	if err := d.SelectionRangeChanged(6, 11); err != nil {
		t.Fatal(err)
	}
	if d.CursorOffset() != 11 || d.SelectionOffset() != 6 {
		t.Errorf("expected cursor 11 anchor 6, got %d %d", d.CursorOffset(), d.SelectionOffset())
	}
	if err := d.SelectionRangeChanged(6, 11); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(got))
	}

	unsubscribe()
	d.SelectAll()
	if len(got) != 2 {
		t.Error("observer ran after unsubscribe")
	}
}

func TestCatalogProviders(t *testing.T) {
	shared := &recorder{name: "shared"}
	catalog := NewCatalog()
	catalog.RegisterListeners("shared", Listeners{Modification: []ModificationListener{shared}})
	catalog.Register("broken", ProviderFunc(func(*Document) (Listeners, error) {
		return Listeners{}, errors.New("no listeners today")
	}))
	var perDoc []*recorder
	catalog.Register("per-document", ProviderFunc(func(d *Document) (Listeners, error) {
		r := &recorder{name: "per-document"}
		perDoc = append(perDoc, r)
		var ls Listeners
		ls.Add(r)
		return ls, nil
	}))

	if got := catalog.Names(); len(got) != 3 || got[1] != "broken" {
		t.Errorf("unexpected provider names %v", got)
	}

	d1 := New(WithCatalog(catalog))
	d2 := New(WithCatalog(catalog))

	if len(perDoc) != 2 {
		t.Fatalf("expected a listener per document, got %d", len(perDoc))
	}
	ls := d1.Listeners()
	if len(ls.Modification) != 2 || len(ls.Newline) != 1 || len(ls.Cursor) != 1 {
		t.Errorf("unexpected listener counts %d/%d/%d", len(ls.Modification), len(ls.Newline), len(ls.Cursor))
	}

	failures := d2.Failures()
	if len(failures) != 1 || failures[0].Listener != "broken" || failures[0].Hook != HookProvide {
		t.Errorf("unexpected provider failures %+v", failures)
	}

	if err := d1.Insert(0, "x"); err != nil {
		t.Fatal(err)
	}
	if len(shared.events) != 2 || len(perDoc[1].events) != 0 {
		t.Errorf("listeners crossed documents: shared=%q second=%q", shared.events, perDoc[1].events)
	}
}

type closingListener struct {
	recorder
	closed int
}

func (c *closingListener) Close() error {
	c.closed++
	return nil
}

func TestClose(t *testing.T) {
	l := &closingListener{recorder: recorder{name: "closer"}}
	d := New(WithText("abc"), WithListener(l))
	m, err := d.CreateMark(1, mark.GravityRight)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if l.closed != 1 {
		t.Errorf("expected listener closed once, got %d", l.closed)
	}
	if !m.Released() {
		t.Error("expected marks released")
	}
	if err := d.Insert(0, "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}
