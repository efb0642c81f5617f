// Package graph holds the editable block graph: node and edge records, the
// node factory and the store that applies the surface's incremental changes.
package graph
