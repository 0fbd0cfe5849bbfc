package sequencer

import (
	"encoding/binary"
	"strings"
)

// state is one partial ordering. prefix holds track indices; the last one is current.
type state struct {
	prefix    []int
	remaining trackSet
	g         float64
	h         float64
}

func (s *state) current() int { return s.prefix[len(s.prefix)-1] }

func (s *state) f() float64 { return s.g + s.h }

// frontier is a min-heap of *state implementing container/heap.
// Order: f ascending, then shorter prefix, then lexicographic prefix IDs.
type frontier struct {
	items []*state
	ids   []string
}

func (pq *frontier) Len() int { return len(pq.items) }

func (pq *frontier) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if fa, fb := a.f(), b.f(); fa != fb {
		return fa < fb
	}
	if len(a.prefix) != len(b.prefix) {
		return len(a.prefix) < len(b.prefix)
	}
	for k := range a.prefix {
		if a.prefix[k] != b.prefix[k] {
			return strings.Compare(pq.ids[a.prefix[k]], pq.ids[b.prefix[k]]) < 0
		}
	}
	return false
}

func (pq *frontier) Swap(i, j int) { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

func (pq *frontier) Push(x any) { pq.items = append(pq.items, x.(*state)) }

func (pq *frontier) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	pq.items = old[:n-1]
	return item
}

// visitedSet remembers expanded states according to the configured VisitMode.
type visitedSet struct {
	mode VisitMode
	ids  []string
	best map[string]float64
	seen map[string]struct{}
	buf  []byte
}

func newVisitedSet(mode VisitMode, ids []string) *visitedSet {
	v := &visitedSet{mode: mode, ids: ids}
	if mode == VisitByPrefix {
		v.seen = make(map[string]struct{})
	} else {
		v.best = make(map[string]float64)
	}
	return v
}

// dominated reports whether s can be discarded without expanding it.
func (v *visitedSet) dominated(s *state) bool {
	switch v.mode {
	case VisitByPrefix:
		_, ok := v.seen[v.prefixKey(s)]
		return ok
	default:
		g, ok := v.best[v.setKey(s)]
		return ok && g <= s.g
	}
}

// mark records s as expanded.
func (v *visitedSet) mark(s *state) {
	switch v.mode {
	case VisitByPrefix:
		v.seen[v.prefixKey(s)] = struct{}{}
	default:
		v.best[v.setKey(s)] = s.g
	}
}

func (v *visitedSet) setKey(s *state) string {
	v.buf = binary.LittleEndian.AppendUint32(v.buf[:0], uint32(s.current()))
	v.buf = s.remaining.appendKey(v.buf)
	return string(v.buf)
}

func (v *visitedSet) prefixKey(s *state) string {
	var b strings.Builder
	b.WriteString(v.ids[s.current()])
	for _, i := range s.prefix {
		b.WriteByte(0)
		b.WriteString(v.ids[i])
	}
	return b.String()
}
