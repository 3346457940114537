// Package parser provides Python source parsing built on tree-sitter.
//
// The parser produces raw tree-sitter syntax trees; the analyzer package
// walks those trees directly. Syntax errors surface as parse errors so that
// callers can record them as per-file failures instead of aborting a batch.
package parser
