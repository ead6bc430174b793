package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/solver"
)

// HouseholderQRSuite exercises dense Householder QR factorization.
type HouseholderQRSuite struct {
	suite.Suite
}

func TestHouseholderQRSuite(t *testing.T) {
	suite.Run(t, new(HouseholderQRSuite))
}

// TestFourByThree verifies Q R reconstructs a rectangular full-column-rank
// 4x3 matrix and that Q is orthogonal (Q^T Q == I on a probe vector).
func (s *HouseholderQRSuite) TestFourByThree() {
	a := denseOf(s.T(), 4, 3, []float64{
		1, 1, 0,
		1, 0, 1,
		0, 1, 1,
		1, 1, 1,
	})
	exec := solver.NewHouseholderQRExecutor()
	f, err := exec.ApplyDefault(a)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), f)

	for _, col := range [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		r := operate(s.T(), f.R(), col)
		qv := operate(s.T(), f.Q(), r)
		almostEqual(s.T(), qv, operate(s.T(), a, col), 1e-9)
	}

	probe := vecOf(s.T(), []float64{1, 2, 3, 4})
	qtq, err := f.Q().OperateTranspose(probe)
	require.NoError(s.T(), err)
	back, err := f.Q().Operate(qtq)
	require.NoError(s.T(), err)
	almostEqual(s.T(), back.EntryAsArray(), probe.EntryAsArray(), 1e-9)
}

// TestRankDeficientColumn verifies a matrix with a zero column yields a
// nil factorization.
func (s *HouseholderQRSuite) TestRankDeficientColumn() {
	a := denseOf(s.T(), 3, 2, []float64{
		1, 0,
		2, 0,
		3, 0,
	})
	exec := solver.NewHouseholderQRExecutor()
	f, err := exec.ApplyDefault(a)
	require.NoError(s.T(), err)
	require.Nil(s.T(), f)
}

// TestSquareDeterminant verifies the determinant of a square orthogonal-
// adjacent matrix via its Householder factorization matches the known
// value for a simple permutation-like matrix.
func (s *HouseholderQRSuite) TestSquareDeterminant() {
	a := denseOf(s.T(), 2, 2, []float64{0, 1, 1, 0})
	exec := solver.NewHouseholderQRExecutor()
	f, err := exec.ApplyDefault(a)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), f)
	require.InDelta(s.T(), -1.0, f.Determinant(), 1e-9)
}

// TestPseudoInverseSolvesLeastSquares verifies the generalized inverse
// recovers the unique solution of a consistent overdetermined system.
func (s *HouseholderQRSuite) TestPseudoInverseSolvesLeastSquares() {
	a := denseOf(s.T(), 3, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
	})
	exec := solver.NewHouseholderQRExecutor()
	f, err := exec.ApplyDefault(a)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), f)

	x := []float64{2, 3}
	b := operate(s.T(), a, x)
	recovered := operate(s.T(), f.Inverse(), b)
	almostEqual(s.T(), recovered, x, 1e-8)
}

// TestKnownAnswerHouseholder4x3 reproduces the published Householder4x3
// scenario: a full-column-rank 4x3 matrix whose Moore-Penrose pseudo-
// inverse A+ satisfies A A+ A == A and A+ A == I3.
func (s *HouseholderQRSuite) TestKnownAnswerHouseholder4x3() {
	a := denseOf(s.T(), 4, 3, []float64{
		-1, 2, 3,
		2, 3, 2,
		1, 1, 2,
		0, 5, 6,
	})
	exec := solver.NewHouseholderQRExecutor()
	f, err := exec.ApplyDefault(a)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), f)

	for _, e := range [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		av := operate(s.T(), a, e)
		pinvAv := operate(s.T(), f.Inverse(), av)
		almostEqual(s.T(), pinvAv, e, 1e-9) // A+ A == I3

		aPinvAv := operate(s.T(), a, pinvAv)
		almostEqual(s.T(), aPinvAv, av, 1e-9) // A A+ A == A
	}
}
