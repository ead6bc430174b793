package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/matrix"
)

// RenderSuite exercises String rendering and Equal/EqualApprox across
// concrete EntryReadable matrix types.
type RenderSuite struct {
	suite.Suite
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderSuite))
}

// TestStringRendersBracketedRows verifies the row-bracket format used by
// every concrete type's String method.
func (s *RenderSuite) TestStringRendersBracketedRows() {
	m := denseOf(s.T(), 2, 2, []float64{1, 2, 3, 4})
	require.Equal(s.T(), "[1, 2]\n[3, 4]\n", m.String())
}

// TestStringOnBandMatrixReadsZeroOutsideBand verifies off-band entries
// render as 0 rather than being skipped.
func (s *RenderSuite) TestStringOnBandMatrixReadsZeroOutsideBand() {
	m := bandOf(s.T(), 3, 1, 1, []float64{
		1, 2, 0,
		3, 4, 5,
		0, 6, 7,
	})
	require.Equal(s.T(), "[1, 2, 0]\n[3, 4, 5]\n[0, 6, 7]\n", m.String())
}

// TestEqualIsTrueForIdenticalEntries verifies Equal compares shape and
// every entry exactly.
func (s *RenderSuite) TestEqualIsTrueForIdenticalEntries() {
	a := denseOf(s.T(), 2, 2, []float64{1, 2, 3, 4})
	b := denseOf(s.T(), 2, 2, []float64{1, 2, 3, 4})
	require.True(s.T(), matrix.Equal(a, b))
}

// TestEqualIsFalseForDifferingShape verifies a shape mismatch is
// rejected before any entry comparison.
func (s *RenderSuite) TestEqualIsFalseForDifferingShape() {
	a := denseOf(s.T(), 2, 2, []float64{1, 2, 3, 4})
	b := denseOf(s.T(), 2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.False(s.T(), matrix.Equal(a, b))
}

// TestEqualApproxToleratesSmallDifferences verifies entries within tol
// compare equal while entries outside it do not.
func (s *RenderSuite) TestEqualApproxToleratesSmallDifferences() {
	a := denseOf(s.T(), 1, 2, []float64{1.0, 2.0})
	b := denseOf(s.T(), 1, 2, []float64{1.0 + 1e-9, 2.0})
	require.True(s.T(), matrix.EqualApprox(a, b, 1e-6))
	require.False(s.T(), matrix.EqualApprox(a, b, 0))
}
