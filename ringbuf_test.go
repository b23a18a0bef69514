package ringbuf

import (
	"testing"

	"github.com/dchest/uniuri"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, ring *Ring[int], values ...int) {
	for _, v := range values {
		require.True(t, ring.Push(v))
	}
}

func TestRing(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		ring := New[int](8, true)
		fill(t, ring, 1, 2, 3, 4, 5)
		require.Equal(t, 5, ring.Len())
		require.Equal(t, 3, ring.Free())
		require.Equal(t, []int{1, 2, 3, 4, 5}, ring.Data())
		require.Equal(t, 5, ring.Pop(5))
		require.True(t, ring.Empty())
	})

	t.Run("PushFullPreserve", func(t *testing.T) {
		ring := New[int](4, true)
		fill(t, ring, 1, 2, 3, 4)
		require.False(t, ring.Push(5))
		require.Equal(t, 4, ring.Len())
		require.Equal(t, []int{1, 2, 3, 4}, ring.Data())
	})

	t.Run("PushFullEvict", func(t *testing.T) {
		ring := New[int](4, false)
		fill(t, ring, 1, 2, 3, 4)
		require.True(t, ring.Push(5))
		require.Equal(t, 4, ring.Len())
		require.Equal(t, []int{2, 3, 4, 5}, ring.Data())
	})

	t.Run("BulkOversizedEvict", func(t *testing.T) {
		ring := New[int](4, false)
		require.True(t, ring.PushBulk([]int{1, 2, 3, 4, 5, 6, 7}))
		require.Equal(t, []int{4, 5, 6, 7}, ring.Data())
	})

	t.Run("BulkOverflowPreserve", func(t *testing.T) {
		ring := New[int](4, true)
		fill(t, ring, 1, 2)
		require.False(t, ring.PushBulk([]int{3, 4, 5}))
		require.Equal(t, []int{1, 2}, ring.Data())
	})

	t.Run("BulkRefusals", func(t *testing.T) {
		ring := New[int](4, false)
		require.False(t, ring.PushBulk(nil))
		require.False(t, ring.PushBulk([]int{}))
		fill(t, ring, 1, 2)
		require.False(t, ring.PushBulk(ring.Data()), "self-referencing insert")
		require.False(t, ring.PushBulk(ring.Raw()[6:]))
		require.Equal(t, []int{1, 2}, ring.Data())
	})

	t.Run("MirrorFlatRead", func(t *testing.T) {
		ring := New[byte](3, false)
		require.True(t, ring.PushBulk([]byte("abc")))
		require.Equal(t, 1, ring.Pop(1))
		require.True(t, ring.Push('d'))
		// the region spans the wrap point, yet reads as one flat slice
		require.Equal(t, 3, ring.Len())
		require.Equal(t, "bcd", string(ring.Data()))
	})

	t.Run("Pop", func(t *testing.T) {
		ring := New[int](4, true)
		require.Equal(t, 0, ring.Pop(1))
		fill(t, ring, 1, 2, 3)
		require.Equal(t, 3, ring.Pop(10))
		require.True(t, ring.Empty())
		require.Equal(t, 0, ring.Pop(10))
	})

	t.Run("Clear", func(t *testing.T) {
		ring := New[int](4, true)
		fill(t, ring, 1, 2, 3)
		require.True(t, ring.Clear())
		require.Equal(t, 0, ring.Len())
		require.Equal(t, 4, ring.Free())
	})

	t.Run("At", func(t *testing.T) {
		ring := New[int](4, false)
		fill(t, ring, 7, 8, 9)
		require.Equal(t, 7, ring.At(0))
		require.Equal(t, 9, ring.At(2))
		require.Zero(t, ring.At(3))
		require.Zero(t, ring.At(-1))
	})

	t.Run("Equal", func(t *testing.T) {
		a, b := New[int](4, true), New[int](4, true)
		fill(t, a, 1, 2, 3)
		fill(t, b, 1, 2, 3)
		require.True(t, a.Equal(b))
		require.True(t, b.Equal(a))
		require.True(t, b.Push(4))
		require.False(t, a.Equal(b))
	})

	t.Run("EqualIgnoresRotation", func(t *testing.T) {
		a, b := New[int](4, false), New[int](8, false)
		fill(t, a, 0, 1, 2, 3, 4, 5)
		fill(t, b, 2, 3, 4, 5)
		require.True(t, a.Equal(b))
	})

	t.Run("CopyTo", func(t *testing.T) {
		ring := New[int](4, true)
		fill(t, ring, 1, 2, 3)
		dst := make([]int, 2)
		require.Equal(t, 2, ring.CopyTo(dst, false))
		require.Equal(t, []int{1, 2}, dst)
		require.Equal(t, 3, ring.Len())

		require.Equal(t, 2, ring.CopyTo(dst, true))
		require.Equal(t, []int{1, 2}, dst)
		require.Equal(t, []int{3}, ring.Data())

		require.Equal(t, 0, ring.CopyTo(nil, false))
	})

	t.Run("Iter", func(t *testing.T) {
		ring := New[int](4, true)
		fill(t, ring, 1, 2, 3)
		sum := 0
		for v := range ring.Iter() {
			sum += v
		}
		require.Equal(t, 6, sum)
	})
}

func TestRingInvalid(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		ring := New[byte](capacity, false)
		require.False(t, ring.Valid())
		require.True(t, ring.Empty())
		require.Equal(t, 0, ring.Len())
		require.Equal(t, 0, ring.Free())
		require.Nil(t, ring.Data())
		require.False(t, ring.Push('a'))
		require.False(t, ring.PushBulk([]byte("abc")))
		require.False(t, ring.Clear())
		require.Equal(t, 0, ring.Pop(1))
		require.Zero(t, ring.At(0))
		require.Equal(t, 0, ring.CopyTo(make([]byte, 4), true))
		require.Equal(t, 0, ring.RawLen())
	}
}

func TestRingCloneMove(t *testing.T) {
	t.Run("Clone", func(t *testing.T) {
		ring := New[int](4, false)
		fill(t, ring, 1, 2, 3, 4, 5, 6) // rotated twice past capacity
		clone := ring.Clone()
		require.True(t, clone.Valid())
		require.True(t, ring.Equal(clone))
		require.True(t, clone.Push(7))
		require.False(t, ring.Equal(clone), "clone is independent")
	})

	t.Run("CloneInvalid", func(t *testing.T) {
		require.False(t, New[int](0, true).Clone().Valid())
	})

	t.Run("Move", func(t *testing.T) {
		ring := New[int](4, true)
		fill(t, ring, 1, 2, 3)
		moved := ring.Move()
		require.False(t, ring.Valid(), "source is left inert")
		require.Equal(t, 0, ring.Free())
		require.False(t, ring.Push(4))
		require.True(t, moved.Valid())
		require.Equal(t, []int{1, 2, 3}, moved.Data())
	})

	t.Run("MoveInvalid", func(t *testing.T) {
		require.False(t, New[int](-5, true).Move().Valid())
	})
}

// TestRingRotationStress drives the ring through many wrap-arounds, verifying
// the occupied region against a plain reference queue after every step.
func TestRingRotationStress(t *testing.T) {
	const capacity = 16
	ring := New[byte](capacity, false)
	var reference []byte

	for i := 0; i < 100; i++ {
		chunk := []byte(uniuri.NewLen(1 + i%7))
		require.True(t, ring.PushBulk(chunk))
		reference = append(reference, chunk...)
		if len(reference) > capacity {
			reference = reference[len(reference)-capacity:]
		}
		require.Equal(t, string(reference), string(ring.Data()))

		n := i % 3
		popped := ring.Pop(n)
		reference = reference[popped:]
		require.Equal(t, string(reference), string(ring.Data()))
	}
}

func BenchmarkRing(b *testing.B) {
	small := []byte(uniuri.NewLen(60))
	big := []byte(uniuri.NewLen(1024))

	b.Run("push", func(b *testing.B) {
		ring := New[byte](1024, false)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_ = ring.Push('x')
		}
	})

	b.Run("bulk small", func(b *testing.B) {
		ring := New[byte](1024, false)
		b.ReportAllocs()
		b.SetBytes(int64(len(small)))
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_ = ring.PushBulk(small)
		}
	})

	b.Run("bulk wrapping", func(b *testing.B) {
		ring := New[byte](1024, false)
		b.ReportAllocs()
		b.SetBytes(int64(len(big)))
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_ = ring.PushBulk(big)
		}
	})
}
