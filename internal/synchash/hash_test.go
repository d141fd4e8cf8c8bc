package synchash

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash_FoldMatchesRotateXor(t *testing.T) {
	h := New(0)
	h.Fold(4, 2, 3)
	want := uint32(4)<<18 ^ uint32(2)<<12 ^ uint32(3)<<3
	assert.Equal(t, want, h.Sum32())

	h.Fold(1, 0, 1)
	want = bits.RotateLeft32(want, 5) ^ 1<<18 ^ 1<<3
	assert.Equal(t, want, h.Sum32())
}

func TestHash_RotationWrapsHighBits(t *testing.T) {
	h := New(0x80000000)
	h.Fold(0, 0, 0)
	assert.Equal(t, uint32(0x10), h.Sum32(), "bit 31 rotates into bit 4")
}

func TestHash_OrderSensitive(t *testing.T) {
	a, b := New(0), New(0)
	a.Fold(1, 0, 1)
	a.Fold(2, 0, 1)
	b.Fold(2, 0, 1)
	b.Fold(1, 0, 1)
	assert.NotEqual(t, a.Sum32(), b.Sum32())
}

func TestHash_String(t *testing.T) {
	assert.Equal(t, "0000ABCD", New(0xABCD).String())
}

func TestRand_Deterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
	assert.Equal(t, a.Seed(), b.Seed())
}

func TestRand_Intn(t *testing.T) {
	r := NewRand(7)
	for i := 0; i < 100; i++ {
		v := r.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
	seed := r.Seed()
	assert.Equal(t, 0, r.Intn(0))
	assert.Equal(t, seed, r.Seed())
}
