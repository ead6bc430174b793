package numkit

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnceComputesExactlyOnce(t *testing.T) {
	var calls int
	var mu sync.Mutex
	o := NewOnce(func() int {
		mu.Lock()
		calls++
		mu.Unlock()
		return 42
	})

	var wg sync.WaitGroup
	results := make([]int, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = o.Get()
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, 42, r)
	}
	assert.Equal(t, 1, calls)
}

func TestDeterminantSingularDegrades(t *testing.T) {
	d := NewDeterminant(0, 123.0)
	assert.Equal(t, 0, d.Sign())
	assert.True(t, math.IsInf(d.LogAbsDet(), -1))
	assert.Equal(t, 0.0, d.Det())
}

func TestDeterminantAccumulatorLU4(t *testing.T) {
	// An odd row permutation (parity -1) and four pivots whose product is
	// 129, giving a determinant of -129.
	acc := NewDeterminantAccumulator()
	acc.MultiplyParity(-1)
	for _, pivot := range []float64{2, 6, 5.0 / 2, 129.0 / (2 * 6 * 2.5)} {
		acc.MultiplyScalar(pivot)
	}
	det := acc.Determinant()
	assert.Equal(t, -1, det.Sign())
	assert.InDelta(t, 129.0, math.Exp(det.LogAbsDet()), 1e-9)
	assert.InDelta(t, -129.0, det.Det(), 1e-9)
}

func TestNorm2RescaledMatchesDirect(t *testing.T) {
	xs := []float64{3, 4}
	assert.InDelta(t, 5.0, Norm2(xs), 1e-12)
}

func TestNorm2RescaledAvoidsOverflow(t *testing.T) {
	big := math.MaxFloat64 / 4
	xs := []float64{big, big}
	n := Norm2(xs)
	assert.False(t, math.IsInf(n, 0))
	assert.False(t, math.IsNaN(n))
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, math.MaxFloat64, Canonicalize(math.Inf(1)))
	assert.Equal(t, -math.MaxFloat64, Canonicalize(math.Inf(-1)))
	assert.Equal(t, 0.0, Canonicalize(math.NaN()))
	assert.Equal(t, 1.5, Canonicalize(1.5))
}
