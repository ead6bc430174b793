package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/matrix"
)

// SignatureSuite exercises SignatureMatrix, the +-1 diagonal matrix used
// to absorb Householder sign corrections.
type SignatureSuite struct {
	suite.Suite
}

func TestSignatureSuite(t *testing.T) {
	suite.Run(t, new(SignatureSuite))
}

func sigOf(t *testing.T, positives []bool) *matrix.SignatureMatrix {
	t.Helper()
	b, err := matrix.NewSignatureBuilder(len(positives))
	require.NoError(t, err)
	for i, p := range positives {
		require.NoError(t, b.SetSign(i, p))
	}
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

// TestOperateFlipsNegativeSigns verifies Operate negates only the
// entries whose sign was set negative.
func (s *SignatureSuite) TestOperateFlipsNegativeSigns() {
	m := sigOf(s.T(), []bool{true, false, true})
	out := operate(s.T(), m, []float64{1, 2, 3})
	almostEqual(s.T(), out, []float64{1, -2, 3}, 1e-12)
}

// TestParityIsProductOfSigns verifies Parity/Determinant/
// SignOfDeterminant match the product of the diagonal signs.
func (s *SignatureSuite) TestParityIsProductOfSigns() {
	m := sigOf(s.T(), []bool{false, false, true})
	require.Equal(s.T(), 1, m.Parity())
	require.InDelta(s.T(), 1.0, m.Determinant(), 1e-12)
	require.Equal(s.T(), 1, m.SignOfDeterminant())

	m2 := sigOf(s.T(), []bool{false, true, true})
	require.Equal(s.T(), -1, m2.Parity())
}

// TestInverseIsSelf verifies a signature matrix is its own inverse.
func (s *SignatureSuite) TestInverseIsSelf() {
	m := sigOf(s.T(), []bool{true, false})
	require.Same(s.T(), m, m.Inverse())
}
