package sequencer

import (
	"encoding/binary"
	"math/bits"
)

// trackSet is a bitset over track indices. Values are treated as immutable:
// without returns a copy.
type trackSet []uint64

func fullSet(n int) trackSet {
	s := make(trackSet, (n+63)/64)
	for i := 0; i < n; i++ {
		s[i/64] |= 1 << (uint(i) % 64)
	}
	return s
}

func (s trackSet) has(i int) bool {
	return s[i/64]&(1<<(uint(i)%64)) != 0
}

func (s trackSet) without(i int) trackSet {
	out := make(trackSet, len(s))
	copy(out, s)
	out[i/64] &^= 1 << (uint(i) % 64)
	return out
}

func (s trackSet) count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// members appends the set's indices in ascending order to dst.
func (s trackSet) members(dst []int) []int {
	for wi, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			dst = append(dst, wi*64+b)
			w &= w - 1
		}
	}
	return dst
}

// appendKey appends a fixed-width binary encoding of the set to dst.
func (s trackSet) appendKey(dst []byte) []byte {
	for _, w := range s {
		dst = binary.LittleEndian.AppendUint64(dst, w)
	}
	return dst
}
