// Package grammar describes the languages a document can be edited in.
//
// A Grammar is a data-only descriptor: an identifier, the file
// extensions it claims, the chroma lexer used for scope lookup, the word
// pattern used by word-boundary queries, and the line comment token. A
// Registry holds grammars by ID and picks one for a file name; there is no
// package-level registry, callers construct and pass one explicitly.
//
// Grammars can be added from YAML:
//
//	grammars:
//	  - id: lua
//	    name: Lua
//	    extensions: [".lua"]
//	    lexer: lua
//	    word: '^\w+$'
//	    comment: "--"
package grammar
