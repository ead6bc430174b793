package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/solver"
)

// LUBandSuite exercises banded LU factorization with pivoting restricted
// to the band's own reach.
type LUBandSuite struct {
	suite.Suite
}

func TestLUBandSuite(t *testing.T) {
	suite.Run(t, new(LUBandSuite))
}

// TestTridiagonal verifies a strictly diagonally dominant tridiagonal
// system (bL = bU = 1, no pivoting needed) round-trips through its
// inverse.
func (s *LUBandSuite) TestTridiagonal() {
	n := 5
	a := bandOf(s.T(), n, 1, 1, []float64{
		4, -1, 0, 0, 0,
		-1, 4, -1, 0, 0,
		0, -1, 4, -1, 0,
		0, 0, -1, 4, -1,
		0, 0, 0, -1, 4,
	})
	exec := solver.NewLUBandExecutor()
	f, err := exec.ApplyDefault(a)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), f)

	rhs := []float64{1, 2, 3, 4, 5}
	x := operate(s.T(), f.Inverse(), rhs)
	back := operate(s.T(), a, x)
	almostEqual(s.T(), back, rhs, 1e-8)
}

// TestPivotWithinBand verifies a band matrix whose diagonal is not
// dominant, requiring a within-band row swap, still factors correctly.
func (s *LUBandSuite) TestPivotWithinBand() {
	a := bandOf(s.T(), 3, 1, 1, []float64{
		0, 2, 0,
		1, 3, 1,
		0, 1, 2,
	})
	exec := solver.NewLUBandExecutor()
	f, err := exec.ApplyDefault(a)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), f)

	rhs := []float64{1, 1, 1}
	x := operate(s.T(), f.Inverse(), rhs)
	back := operate(s.T(), a, x)
	almostEqual(s.T(), back, rhs, 1e-8)
}
