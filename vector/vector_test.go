package vector

import (
	"math"
	"testing"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustVec(t *testing.T, xs ...float64) *Vector {
	t.Helper()
	d, err := dimension.NewVectorDim(len(xs))
	require.NoError(t, err)
	b := ZeroBuilder(d)
	require.NoError(t, b.SetEntryValue(xs))
	v, err := b.Build()
	require.NoError(t, err)
	return v
}

func TestBuilderSingleUse(t *testing.T) {
	d, err := dimension.NewVectorDim(3)
	require.NoError(t, err)
	b := ZeroBuilder(d)
	_, err = b.Build()
	require.NoError(t, err)

	err = b.SetValue(0, 1)
	require.ErrorIs(t, err, denseerr.ErrIllegalState)

	_, err = b.Build()
	require.ErrorIs(t, err, denseerr.ErrIllegalState)
}

func TestCanonicalization(t *testing.T) {
	d, _ := dimension.NewVectorDim(3)
	b := ZeroBuilder(d)
	require.NoError(t, b.SetValue(0, math.Inf(1)))
	require.NoError(t, b.SetValue(1, math.Inf(-1)))
	require.NoError(t, b.SetValue(2, math.NaN()))
	v, err := b.Build()
	require.NoError(t, err)

	x0, _ := v.ValueAt(0)
	x1, _ := v.ValueAt(1)
	x2, _ := v.ValueAt(2)
	assert.Equal(t, math.MaxFloat64, x0)
	assert.Equal(t, -math.MaxFloat64, x1)
	assert.Equal(t, 0.0, x2)
}

func TestSetValueOrElseThrow(t *testing.T) {
	d, _ := dimension.NewVectorDim(1)
	b := ZeroBuilder(d)
	sentinel := denseerr.ErrIllegalArgument
	err := b.SetValueOrElseThrow(0, math.NaN(), func(float64) error { return sentinel })
	require.ErrorIs(t, err, sentinel)
}

func TestArithmetic(t *testing.T) {
	a := mustVec(t, 1, 2, 3)
	b := mustVec(t, 4, 5, 6)

	sum, err := a.Plus(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7, 9}, sum.EntryAsArray())

	diff, err := a.Minus(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, -3, -3}, diff.EntryAsArray())

	pct, err := a.PlusCTimes(b, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 12, 15}, pct.EntryAsArray())

	dot, err := a.Dot(b)
	require.NoError(t, err)
	assert.InDelta(t, 32.0, dot, 1e-12)

	assert.Equal(t, []float64{-1, -2, -3}, a.Negated().EntryAsArray())
	assert.Equal(t, []float64{2, 4, 6}, a.Times(2).EntryAsArray())
}

func TestNorms(t *testing.T) {
	v := mustVec(t, 3, 4)
	assert.InDelta(t, 7.0, v.Norm1(), 1e-12)
	assert.InDelta(t, 5.0, v.Norm2(), 1e-12)
	assert.InDelta(t, 25.0, v.Norm2Square(), 1e-12)
	assert.InDelta(t, 4.0, v.NormMax(), 1e-12)
}

func TestNormalizedEuclidean(t *testing.T) {
	v := mustVec(t, 3, 4)
	n := v.NormalizedEuclidean()
	assert.InDelta(t, 1.0, n.Norm2(), 1e-12)

	zero := mustVec(t, 0, 0, 0)
	assert.Same(t, zero, zero.NormalizedEuclidean())
}

func TestDimensionMismatch(t *testing.T) {
	a := mustVec(t, 1, 2)
	b := mustVec(t, 1, 2, 3)
	_, err := a.Plus(b)
	require.ErrorIs(t, err, denseerr.ErrMatrixFormatMismatch)
}

func TestEntryAsArrayIsDefensiveCopy(t *testing.T) {
	v := mustVec(t, 1, 2, 3)
	arr := v.EntryAsArray()
	arr[0] = 999
	x0, _ := v.ValueAt(0)
	assert.Equal(t, 1.0, x0)
}

func TestString(t *testing.T) {
	v := mustVec(t, 1, 2, 3)
	assert.Equal(t, "[1, 2, 3]", v.String())
}

func TestEqual(t *testing.T) {
	a := mustVec(t, 1, 2, 3)
	b := mustVec(t, 1, 2, 3)
	c := mustVec(t, 1, 2)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestEqualApprox(t *testing.T) {
	a := mustVec(t, 1, 2, 3)
	b := mustVec(t, 1+1e-9, 2, 3)
	assert.True(t, a.EqualApprox(b, 1e-6))
	assert.False(t, a.EqualApprox(b, 0))
}
