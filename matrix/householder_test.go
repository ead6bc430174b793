package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/matrix"
)

// HouseholderSuite exercises HouseholderMatrix and its construction
// helpers.
type HouseholderSuite struct {
	suite.Suite
}

func TestHouseholderSuite(t *testing.T) {
	suite.Run(t, new(HouseholderSuite))
}

// TestReflectionVectorZeroesTailOfColumn verifies the reflector built by
// ReflectionVectorFromColumn eliminates every entry but the first.
func (s *HouseholderSuite) TestReflectionVectorZeroesTailOfColumn() {
	col := []float64{3, 4}
	u, ok := matrix.ReflectionVectorFromColumn(col)
	require.True(s.T(), ok)
	h, err := matrix.NewHouseholderFromDense(vecOf(s.T(), u))
	require.NoError(s.T(), err)
	out := operate(s.T(), h, col)
	require.InDelta(s.T(), 0.0, out[1], 1e-9)
	require.InDelta(s.T(), 25.0, out[0]*out[0], 1e-6) // |out[0]| == norm of col
}

// TestOperateIsSelfInverse verifies applying a HouseholderMatrix twice
// recovers the original vector.
func (s *HouseholderSuite) TestOperateIsSelfInverse() {
	u, ok := matrix.ReflectionVectorFromColumn([]float64{1, 2, 2})
	require.True(s.T(), ok)
	h, err := matrix.NewHouseholderFromDense(vecOf(s.T(), u))
	require.NoError(s.T(), err)
	once := operate(s.T(), h, []float64{5, -1, 3})
	twice := operate(s.T(), h, once)
	almostEqual(s.T(), twice, []float64{5, -1, 3}, 1e-9)
}

// TestDeterminantIsAlwaysMinusOne verifies every Householder reflector
// has determinant -1.
func (s *HouseholderSuite) TestDeterminantIsAlwaysMinusOne() {
	u, ok := matrix.ReflectionVectorFromColumn([]float64{1, 0})
	require.True(s.T(), ok)
	h, err := matrix.NewHouseholderFromDense(vecOf(s.T(), u))
	require.NoError(s.T(), err)
	require.InDelta(s.T(), -1.0, h.Determinant(), 1e-12)
	require.Equal(s.T(), -1, h.SignOfDeterminant())
}

// TestFromSourceToTargetCarriesSourceToTarget verifies the combined
// reflector maps source onto target (up to sign, both unit vectors).
func (s *HouseholderSuite) TestFromSourceToTargetCarriesSourceToTarget() {
	source := vecOf(s.T(), []float64{1, 0}).NormalizedEuclidean()
	target := vecOf(s.T(), []float64{0, 1}).NormalizedEuclidean()
	h, err := matrix.FromSourceToTarget(source, target)
	require.NoError(s.T(), err)
	out := operate(s.T(), h, source.EntryAsArray())
	almostEqual(s.T(), out, target.EntryAsArray(), 1e-9)
}

// TestFromSourceToTargetRejectsEqualVectors verifies that a zero
// difference (source == target) is rejected rather than silently
// building a degenerate reflector that would still claim det == -1.
func (s *HouseholderSuite) TestFromSourceToTargetRejectsEqualVectors() {
	source := vecOf(s.T(), []float64{1, 0}).NormalizedEuclidean()
	target := vecOf(s.T(), []float64{1, 0}).NormalizedEuclidean()
	_, err := matrix.FromSourceToTarget(source, target)
	require.Error(s.T(), err)
}
