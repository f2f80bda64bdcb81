// Package idgen allocates surrogate primary keys for rows the core inserts
// itself (bookings, tickets) rather than relying on a database sequence,
// reusing the same google/uuid dependency the domain layer already pulls in
// for collision resistance.
package idgen

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// NewID returns a positive int64 derived from a random UUIDv4's high bits.
func NewID() int64 {
	id := uuid.New()
	n := int64(binary.BigEndian.Uint64(id[:8]))
	if n < 0 {
		n = -n
	}
	return n
}
