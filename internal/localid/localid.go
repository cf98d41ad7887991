// Package localid issues provisional ids for entities created optimistically
// on the client before the server has confirmed them.
package localid

import "sync/atomic"

// Generator hands out provisional ids. Ids are negative so they can never
// collide with server-assigned ones, and strictly decreasing so an id is
// never reused within a session.
type Generator struct {
	last atomic.Int64
}

// New creates a Generator starting a fresh id sequence.
func New() *Generator {
	return &Generator{}
}

// Next returns the next provisional id.
func (g *Generator) Next() int64 {
	return -g.last.Add(1)
}

// IsProvisional reports whether id was issued by a client-side generator
// rather than assigned by the server.
func IsProvisional(id int64) bool {
	return id < 0
}
