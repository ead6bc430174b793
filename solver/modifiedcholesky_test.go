package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/solver"
)

// ModifiedCholeskySuite exercises dense symmetric indefinite factorization
// A = L B L^T with 1x1/2x2 block pivoting.
type ModifiedCholeskySuite struct {
	suite.Suite
}

func TestModifiedCholeskySuite(t *testing.T) {
	suite.Run(t, new(ModifiedCholeskySuite))
}

// TestIndefiniteRequiresBlockPivot verifies a symmetric indefinite matrix
// whose leading entry is exactly zero (forcing a 2x2 pivot on the first
// step) factors successfully and its block diagonal's determinant agrees
// with the whole factorization's determinant.
func (s *ModifiedCholeskySuite) TestIndefiniteRequiresBlockPivot() {
	a := symOf(s.T(), 3, []float64{
		0, 1, 0,
		1, 0, 0,
		0, 0, 5,
	})
	exec := solver.NewModifiedCholeskyExecutor()
	f, err := exec.ApplyDefault(a)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), f)

	b := f.BlockDiagonal()
	require.InDelta(s.T(), b.Determinant(), f.Determinant(), 1e-9)
	// The leading 2x2 block [[0,1],[1,0]] has determinant -1, times the
	// trailing 1x1 block 5, gives det(A) == -5.
	require.InDelta(s.T(), -5.0, f.Determinant(), 1e-9)
}

// TestInverseRoundTrip verifies the inverse operator solves A x = b for a
// positive-definite matrix that takes the all-1x1-pivot path.
func (s *ModifiedCholeskySuite) TestInverseRoundTrip() {
	a := symOf(s.T(), 3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})
	exec := solver.NewModifiedCholeskyExecutor()
	f, err := exec.ApplyDefault(a)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), f)

	rhs := []float64{1, 2, 3}
	x := operate(s.T(), f.Inverse(), rhs)
	back := operate(s.T(), a, x)
	almostEqual(s.T(), back, rhs, 1e-8)
}

// TestKnownAnswerBlockDiagonalDeterminant reproduces the published
// block-diagonal scenario: B = diag([[-13,3;3,14]], [-15], [[16,2;2,17]],
// [-18]), whose determinant is the product of each block's determinant:
// (-191)*(-15)*(268)*(-18) = -13,820,760.
func (s *ModifiedCholeskySuite) TestKnownAnswerBlockDiagonalDeterminant() {
	a := symOf(s.T(), 6, []float64{
		-13, 3, 0, 0, 0, 0,
		3, 14, 0, 0, 0, 0,
		0, 0, -15, 0, 0, 0,
		0, 0, 0, 16, 2, 0,
		0, 0, 0, 2, 17, 0,
		0, 0, 0, 0, 0, -18,
	})
	exec := solver.NewModifiedCholeskyExecutor()
	f, err := exec.ApplyDefault(a)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), f)

	require.InDelta(s.T(), -13820760.0, f.Determinant(), 1e-3)
	require.Equal(s.T(), -1, f.SignOfDeterminant())
}

// TestSingular verifies a rank-deficient symmetric matrix yields a nil
// factorization.
func (s *ModifiedCholeskySuite) TestSingular() {
	a := symOf(s.T(), 2, []float64{
		0, 0,
		0, 0,
	})
	exec := solver.NewModifiedCholeskyExecutor()
	f, err := exec.ApplyDefault(a)
	require.NoError(s.T(), err)
	require.Nil(s.T(), f)
}
