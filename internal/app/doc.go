// Package app assembles the dependency graph: it builds a store.Context
// from a Config selecting one of the shipped backends, defaulting the
// crypto provider when none is supplied.
package app
