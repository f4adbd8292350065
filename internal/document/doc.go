// Package document implements the document controller: the owner of a
// buffer and everything derived from it.
//
// A Document ties together the text buffer, the mark registry, the
// selection state and the word resolver, and runs every edit through a
// fixed protocol:
//
//	Idle → Verifying → Mutating → Notifying → Idle
//
// While verifying, each ModificationListener sees the pending change
// before it is applied. The buffer is then spliced, marks and selections
// follow the edit, and the notify phase runs AfterModify, AfterNewline
// when a line break was typed, and the document's change observers.
//
// # Listener Isolation
//
// Listener hooks run inline. An error or panic from an edit-time or
// cursor-time hook is captured as a ListenerFailure, logged, and kept in
// a bounded failure log; the remaining listeners and the edit itself
// carry on. Save hooks are different: a failing SaveHook aborts Save.
//
// # Re-entrancy
//
// Edits issued from a BeforeModify hook fail with ErrReentrantEdit.
// Edits issued from the notify phase are queued and applied in order
// once the current edit has finished.
//
// # Listeners
//
// Listeners come from an explicit Catalog handed to New and from
// AddListener. Both are append-only for the life of the document.
package document
