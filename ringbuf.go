package ringbuf

import (
	"iter"
	"math"
	"sync"
	"unsafe"
)

const maxCapacity = math.MaxInt / 2

// Ring is a fixed-capacity circular buffer backed by mirrored storage: the
// underlying slice is twice the requested capacity, and every element is
// written both at its position and at position+capacity. This way the occupied
// region is always readable as a single flat slice, no matter where the
// logical stream is currently rotated to, and readers never do any modulo
// arithmetic.
//
// The ring is built for a producer and a consumer cooperating over it, e.g.
// staging bytes between a socket and a polling loop. Mutating operations are
// guarded by a mutex; observers (Len, Free, Data, At) are deliberately not,
// so their results are an instantaneous snapshot. Re-read Len together with
// Data right before acting on them.
type Ring[T comparable] struct {
	mu         sync.Mutex
	storage    []T
	begin, end int
	usable     int
	preserve   bool
}

// New returns a ring of the requested capacity. The preserve flag selects the
// overflow policy: if true, pushes into a full ring are rejected and the
// oldest elements stay untouched; otherwise the oldest elements are evicted
// to admit new ones.
//
// A non-positive capacity, or one whose doubled storage would overflow int,
// yields an invalid ring instead of panicking: it reports zero sizes and
// every mutator no-ops, returning failure.
func New[T comparable](capacity int, preserve bool) *Ring[T] {
	if capacity <= 0 || capacity > maxCapacity {
		return &Ring[T]{preserve: preserve}
	}

	return &Ring[T]{
		storage:  make([]T, 2*capacity),
		usable:   capacity,
		preserve: preserve,
	}
}

// Valid reports whether the ring owns live storage. An invalid ring (bad
// requested capacity, or a moved-from source) is completely inert.
func (r *Ring[T]) Valid() bool {
	return r.storage != nil
}

// Len returns the number of elements currently occupied.
//
// WARNING: the value is volatile. The producer or consumer on the other side
// may change it at any moment, so re-read it every time the ring is used.
func (r *Ring[T]) Len() int {
	return r.end - r.begin
}

// Empty reports whether there's nothing to consume.
func (r *Ring[T]) Empty() bool {
	return r.Len() == 0 || !r.Valid()
}

// Free returns the number of elements that still fit without evicting
// occupied ones. Just like Len, the value is volatile.
func (r *Ring[T]) Free() int {
	if !r.Valid() {
		return 0
	}

	return r.usable - r.Len()
}

// Data returns the occupied region as a flat slice, oldest element first.
// The view is transient: it stays valid only until the next mutating call,
// as mutations may rotate the region underneath it.
func (r *Ring[T]) Data() []T {
	if !r.Valid() {
		return nil
	}

	return r.storage[r.begin:r.end]
}

// At returns the i-th oldest occupied element. Out-of-range indices yield
// T's zero value, never an out-of-bounds access.
func (r *Ring[T]) At(i int) (v T) {
	if !r.Valid() || i < 0 || i >= r.Len() {
		return v
	}

	return r.storage[r.begin+i]
}

// Iter returns an iterator over the occupied region. Same volatility rules
// as Data apply.
func (r *Ring[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range r.Data() {
			if !yield(v) {
				break
			}
		}
	}
}

// Clear forgets the contents. Returns false only on an invalid ring.
func (r *Ring[T]) Clear() bool {
	if !r.Valid() {
		return false
	}

	r.mu.Lock()
	r.begin, r.end = 0, 0
	r.mu.Unlock()

	return true
}

// Pop removes up to n oldest elements, returning the number actually removed.
// Popping more than is occupied simply empties the ring.
func (r *Ring[T]) Pop(n int) int {
	if !r.Valid() || n <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pop(n)
}

func (r *Ring[T]) pop(n int) int {
	occupied := r.end - r.begin
	if occupied == 0 {
		return 0
	}

	if n >= occupied {
		r.begin, r.end = 0, 0
		return occupied
	}

	r.begin += n
	if r.begin >= r.usable {
		// begin crossed into the mirror half; shift both cursors back so
		// working values stay inside the first half
		r.begin -= r.usable
		r.end -= r.usable
	}

	return n
}

// Push appends a single element. On a full ring the preserve policy decides:
// either the push is rejected, or the oldest element is evicted first.
func (r *Ring[T]) Push(v T) bool {
	if !r.Valid() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.end-r.begin == r.usable {
		if r.preserve {
			return false
		}

		r.begin++
		if r.begin >= r.usable {
			r.begin -= r.usable
			r.end -= r.usable
		}
	}

	r.set(r.end, v)
	r.end++

	return true
}

// set writes the element to its slot and to the mirror slot.
func (r *Ring[T]) set(pos int, v T) {
	r.storage[pos] = v

	if pos >= r.usable {
		r.storage[pos-r.usable] = v
	} else {
		r.storage[pos+r.usable] = v
	}
}

// PushBulk appends the whole src in one shot. An empty src, or a src aliasing
// the ring's own storage, is refused: a self-referencing insert would read
// elements the same call is overwriting.
//
// When src doesn't fit the free space: under the preserve policy the call
// fails entirely, leaving the ring untouched; otherwise src is first clipped
// to its last `capacity` elements (older ones could never survive anyway),
// then just enough oldest occupied elements are evicted to make room.
func (r *Ring[T]) PushBulk(src []T) bool {
	if !r.Valid() || len(src) == 0 || r.aliases(src) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	free := r.usable - (r.end - r.begin)
	if len(src) > free {
		if r.preserve {
			return false
		}

		if len(src) > r.usable {
			src = src[len(src)-r.usable:]
		}

		r.pop(len(src) - free)
	}

	copy(r.storage[r.end:], src)

	switch {
	case r.end >= r.usable:
		// writing into the mirror half, duplicate into the first one
		copy(r.storage[r.end-r.usable:], src)
	case r.end+r.usable+len(src) <= len(r.storage):
		copy(r.storage[r.end+r.usable:], src)
	default:
		// the mirror copy would run past the storage, so it is split: the
		// head lands at the tail of the mirror half, the rest wraps to the
		// very beginning
		head := len(r.storage) - (r.end + r.usable)
		copy(r.storage[r.end+r.usable:], src[:head])
		copy(r.storage, src[head:])
	}

	r.end += len(src)

	return true
}

// aliases reports whether src overlaps the ring's backing storage.
func (r *Ring[T]) aliases(src []T) bool {
	if len(src) == 0 || len(r.storage) == 0 {
		return false
	}

	var zero T
	size := unsafe.Sizeof(zero)
	sbegin := uintptr(unsafe.Pointer(&src[0]))
	send := sbegin + uintptr(len(src))*size
	rbegin := uintptr(unsafe.Pointer(&r.storage[0]))
	rend := rbegin + uintptr(len(r.storage))*size

	return sbegin < rend && rbegin < send
}

// CopyTo copies up to len(dst) oldest elements into dst, returning the number
// actually copied. Unlike Data, the result is a stable snapshot the caller
// owns. If consume is set, the copied prefix is removed as well.
func (r *Ring[T]) CopyTo(dst []T, consume bool) int {
	if !r.Valid() || dst == nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.end - r.begin
	if len(dst) < n {
		n = len(dst)
	}

	copy(dst, r.storage[r.begin:r.begin+n])
	if consume && n > 0 {
		r.pop(n)
	}

	return n
}

// Equal reports whether both rings are valid, equally sized and element-wise
// equal over their occupied regions. Capacity and policy don't participate.
func (r *Ring[T]) Equal(other *Ring[T]) bool {
	if !r.Valid() || other == nil || !other.Valid() {
		return false
	}

	a, b := r.Data(), other.Data()
	if len(a) != len(b) {
		return false
	}

	for i, v := range a {
		if v != b[i] {
			return false
		}
	}

	return true
}

// Clone returns an independent ring with the same capacity, policy and
// logical content. The content is re-inserted through the regular bulk path,
// so the clone starts un-rotated regardless of the source's cursor positions.
// Cloning an invalid ring yields an invalid ring.
func (r *Ring[T]) Clone() *Ring[T] {
	if !r.Valid() {
		return &Ring[T]{preserve: r.preserve}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := New[T](r.usable, r.preserve)
	if occupied := r.storage[r.begin:r.end]; len(occupied) > 0 {
		c.PushBulk(occupied)
	}

	return c
}

// Move transfers the storage ownership to a fresh ring and resets the source
// to the invalid state, so no two rings ever share the same storage. Moving
// an invalid ring yields another invalid one.
func (r *Ring[T]) Move() *Ring[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	moved := &Ring[T]{
		storage:  r.storage,
		begin:    r.begin,
		end:      r.end,
		usable:   r.usable,
		preserve: r.preserve,
	}
	r.storage = nil
	r.begin, r.end, r.usable = 0, 0, 0

	return moved
}

// Raw exposes the doubled backing storage. Sensible in a debug context only:
// the second half mirrors the first, and unoccupied slots hold stale values.
func (r *Ring[T]) Raw() []T {
	return r.storage
}

// RawLen returns the real length of the backing storage, which is twice the
// requested capacity on a valid ring and 0 otherwise.
func (r *Ring[T]) RawLen() int {
	return len(r.storage)
}
