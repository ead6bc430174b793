package numkit

import "math"

// Determinant is an overflow-resistant (sign, log|det|) representation:
// sign is in {-1, 0, 1}; when sign != 0, det = sign * exp(logAbs); a
// singular factor degrades cleanly to (-Inf, 0, 0).
type Determinant struct {
	sign   int
	logAbs float64
}

// Singular is the Determinant value of a singular (non-invertible) matrix:
// sign 0, logAbs -Inf, Det() 0.
var Singular = Determinant{sign: 0, logAbs: math.Inf(-1)}

// NewDeterminant constructs a Determinant directly from a sign and log|det|.
// sign must be -1, 0, or +1; passing 0 always yields Singular regardless
// of logAbs, matching the invariant that a singular factor's triple is
// exactly (-Inf, 0, 0).
func NewDeterminant(sign int, logAbs float64) Determinant {
	if sign == 0 {
		return Singular
	}
	if sign > 0 {
		sign = 1
	} else {
		sign = -1
	}
	return Determinant{sign: sign, logAbs: logAbs}
}

// Sign returns -1, 0, or 1.
func (d Determinant) Sign() int { return d.sign }

// LogAbsDet returns log|det|, or -Inf if singular.
func (d Determinant) LogAbsDet() float64 { return d.logAbs }

// Det returns sign * exp(logAbs), i.e. 0 if singular.
func (d Determinant) Det() float64 {
	if d.sign == 0 {
		return 0
	}
	return float64(d.sign) * math.Exp(d.logAbs)
}

// DeterminantAccumulator composes a determinant as the running product of
// per-stage pivots/diagonal entries (LU pivots, Cholesky diagonal squares,
// QR diagonal entries, Bunch-Kaufman block determinants) while avoiding
// overflow/underflow by accumulating in log space.
//
type DeterminantAccumulator struct {
	sign   int
	logAbs float64
}

// NewDeterminantAccumulator starts an accumulation at determinant 1
// (sign +1, logAbs 0).
func NewDeterminantAccumulator() *DeterminantAccumulator {
	return &DeterminantAccumulator{sign: 1, logAbs: 0}
}

// MultiplyScalar folds a single real factor (e.g. one LU/Cholesky pivot,
// one signature entry, one permutation-parity contribution of +-1) into
// the running product.
func (a *DeterminantAccumulator) MultiplyScalar(x float64) {
	if a.sign == 0 {
		return
	}
	if x == 0 {
		a.sign = 0
		a.logAbs = math.Inf(-1)
		return
	}
	if x < 0 {
		a.sign = -a.sign
		x = -x
	}
	a.logAbs += math.Log(x)
}

// MultiplyParity folds in a permutation-parity sign (+1 or -1) without
// touching the magnitude.
func (a *DeterminantAccumulator) MultiplyParity(sign int) {
	if a.sign == 0 {
		return
	}
	if sign < 0 {
		a.sign = -a.sign
	}
}

// Determinant returns the accumulated (sign, log|det|) triple.
func (a *DeterminantAccumulator) Determinant() Determinant {
	return NewDeterminant(a.sign, a.logAbs)
}
