package mirror

import "sync"

// Memory is a mirror that keeps its content in memory.
type Memory struct {
	mu      sync.Mutex
	title   string
	text    string
	exists  bool
	changed bool
	commits int
}

// Ensure Memory implements Mirror.
var _ Mirror = (*Memory)(nil)

// NewMemory creates an existing in-memory mirror holding text.
func NewMemory(title, text string) *Memory {
	return &Memory{title: title, text: text, exists: true, changed: true}
}

// Title returns the mirror's title.
func (m *Memory) Title() string {
	return m.title
}

// Exists reports whether the mirror holds content.
func (m *Memory) Exists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exists
}

// Changed reports whether Write was called since the last Read or Commit.
func (m *Memory) Changed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changed
}

// Read returns the content.
func (m *Memory) Read() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return "", ErrNotExist
	}
	m.changed = false
	return m.text, nil
}

// Commit stores text.
func (m *Memory) Commit(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.exists = true
	m.changed = false
	m.commits++
	return nil
}

// Write replaces the content as an outside writer would, marking the
// mirror changed.
func (m *Memory) Write(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.exists = true
	m.changed = true
}

// Text returns the stored content without touching the baseline.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Commits returns the number of successful commits.
func (m *Memory) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}
