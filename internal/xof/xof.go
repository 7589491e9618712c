// Package xof implements the extendable-output hash collaborator
// described in §6.1: an incremental absorb/squeeze interface plus a
// 4-way batched variant used for throughput when hashing four
// independent byte streams with identical structure (four parties, or
// four rounds).
//
// Grounded on golang.org/x/crypto/sha3's SHAKE256, the XOF both SPRUCE
// and sphinx-core-go depend on. The "batching" here is SIMD-style per
// §5: four independent sha3.ShakeHash instances driven by one call,
// not concurrency — callers observe a single linearized sequence.
package xof

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// HashPrefix1 is the domain-separation prefix byte used when iterating
// the Fiat-Shamir state during challenge expansion (§6.2).
const HashPrefix1 byte = 0x01

// State wraps a single SHAKE256 absorb/squeeze context.
type State struct {
	h          sha3.ShakeHash
	digestSize int
}

// Init starts a fresh context for a digest of digestSize bytes.
func Init(digestSize int) *State {
	return &State{h: sha3.NewShake256(), digestSize: digestSize}
}

// InitPrefix starts a context that first absorbs a single
// domain-separation byte, matching hash_init_prefix in the reference
// implementation.
func InitPrefix(digestSize int, prefix byte) *State {
	s := Init(digestSize)
	s.Update([]byte{prefix})
	return s
}

// Update absorbs bytes into the running state.
func (s *State) Update(b []byte) { s.h.Write(b) }

// UpdateU16LE absorbs a little-endian uint16.
func (s *State) UpdateU16LE(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	s.Update(buf[:])
}

// UpdateU16sLE absorbs four little-endian uint16s in order, matching
// hash_update_x4_uint16s_le's single-lane counterpart.
func (s *State) UpdateU16sLE(v [4]uint16) {
	for _, x := range v {
		s.UpdateU16LE(x)
	}
}

// Final has no effect for a sponge construction beyond marking that
// absorption is complete; it exists so callers mirror the reference
// init/update/final/squeeze/clear life cycle exactly.
func (s *State) Final() {}

// Squeeze reads len(out) bytes of output.
func (s *State) Squeeze(out []byte) {
	if _, err := s.h.Read(out); err != nil {
		// sha3's ShakeHash.Read never returns an error; this is
		// unreachable, but keep the failure loud rather than silent.
		panic("xof: squeeze failed: " + err.Error())
	}
}

// Digest squeezes exactly digestSize bytes, the common case.
func (s *State) Digest() []byte {
	out := make([]byte, s.digestSize)
	s.Squeeze(out)
	return out
}

// Clear releases the underlying sponge state. Go's GC reclaims the
// memory regardless; this exists to mirror hash_clear's call site so a
// future swap to a pooled/arena-backed implementation is a one-line
// change at the State, not at every call site.
func (s *State) Clear() { s.h = nil }

// StateX4 drives four independent State instances with one call per
// operation, the batched variant from §6.1.
type StateX4 struct {
	lanes      [4]sha3.ShakeHash
	digestSize int
}

// InitX4 starts four fresh lanes.
func InitX4(digestSize int) *StateX4 {
	x := &StateX4{digestSize: digestSize}
	for i := range x.lanes {
		x.lanes[i] = sha3.NewShake256()
	}
	return x
}

// Update4 absorbs four independent, equal-length byte slices, one per
// lane, matching hash_update_x4_4.
func (x *StateX4) Update4(a, b, c, d []byte) {
	x.lanes[0].Write(a)
	x.lanes[1].Write(b)
	x.lanes[2].Write(c)
	x.lanes[3].Write(d)
}

// Update1 absorbs the same bytes into all four lanes, matching
// hash_update_x4_1 (used for salt, which is shared across lanes).
func (x *StateX4) Update1(b []byte) {
	for i := range x.lanes {
		x.lanes[i].Write(b)
	}
}

// UpdateU16LE absorbs the same little-endian uint16 into all four
// lanes, matching hash_update_x4_uint16_le (used for the shared round
// index t).
func (x *StateX4) UpdateU16LE(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	x.Update1(buf[:])
}

// UpdateU16sLE absorbs four distinct little-endian uint16s, one per
// lane, matching hash_update_x4_uint16s_le (used for the four party
// indices j..j+3).
func (x *StateX4) UpdateU16sLE(v [4]uint16) {
	for i, lane := range v {
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], lane)
		x.lanes[i].Write(buf[:])
	}
}

// Final is a life-cycle no-op, see State.Final.
func (x *StateX4) Final() {}

// Squeeze4 reads len(outs[i]) bytes from each lane into outs[i].
func (x *StateX4) Squeeze4(a, b, c, d []byte) {
	_, _ = x.lanes[0].Read(a)
	_, _ = x.lanes[1].Read(b)
	_, _ = x.lanes[2].Read(c)
	_, _ = x.lanes[3].Read(d)
}

// Digest4 squeezes digestSize bytes from each lane.
func (x *StateX4) Digest4() (a, b, c, d []byte) {
	a = make([]byte, x.digestSize)
	b = make([]byte, x.digestSize)
	c = make([]byte, x.digestSize)
	d = make([]byte, x.digestSize)
	x.Squeeze4(a, b, c, d)
	return
}

// Clear releases the underlying lanes.
func (x *StateX4) Clear() {
	for i := range x.lanes {
		x.lanes[i] = nil
	}
}
