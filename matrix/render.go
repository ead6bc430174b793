package matrix

import "fmt"

// renderString renders a as a bracketed row-major string, one row per
// line, matching the informal debug format every EntryReadable concrete
// matrix type exposes through its own String() method.
func renderString(a EntryReadable) string {
	dim := a.Dim()
	var s string
	for i := 0; i < dim.Rows(); i++ {
		s += "["
		for j := 0; j < dim.Cols(); j++ {
			v, err := a.ValueAt(i, j)
			if err != nil {
				v = 0
			}
			s += fmt.Sprintf("%g", v)
			if j < dim.Cols()-1 {
				s += ", "
			}
		}
		s += "]\n"
	}
	return s
}

// Equal reports whether a and b have the same shape and identical
// entries.
func Equal(a, b EntryReadable) bool {
	return EqualApprox(a, b, 0)
}

// String renders m as bracketed rows, e.g. "[1, 0]\n[0, 1]\n".
func (m *GeneralMatrix) String() string { return renderString(m) }

// String renders m as bracketed rows.
func (m *SymmetricMatrix) String() string { return renderString(m) }

// String renders m as bracketed rows, reading zero outside the band.
func (m *GeneralBandMatrix) String() string { return renderString(m) }

// String renders m as bracketed rows, reading zero outside the band.
func (m *SymmetricBandMatrix) String() string { return renderString(m) }

// String renders m as bracketed rows.
func (m *DiagonalMatrix) String() string { return renderString(m) }

// String renders m as bracketed rows.
func (m *UnitMatrix) String() string { return renderString(m) }

// String renders m as bracketed rows.
func (m *ZeroMatrix) String() string { return renderString(m) }

// String renders m as bracketed rows.
func (m *SignatureMatrix) String() string { return renderString(m) }

// String renders m as bracketed rows.
func (m *PermutationMatrix) String() string { return renderString(m) }

// String renders m as bracketed rows.
func (m *LowerUnitriangularDense) String() string { return renderString(m) }

// String renders m as bracketed rows, reading zero outside the band.
func (m *LowerUnitriangularBand) String() string { return renderString(m) }

// String renders m as bracketed rows.
func (m *Block2OrderSymmetricDiagonalMatrix) String() string { return renderString(m) }

// String renders m as bracketed rows, resolving each entry through its
// owning block (0 for an absent one).
func (m *BlockMatrixEntryReadable) String() string { return renderString(m) }

// EqualApprox reports whether a and b have the same shape and every
// entry differs by at most tol.
func EqualApprox(a, b EntryReadable, tol float64) bool {
	da, db := a.Dim(), b.Dim()
	if da.Rows() != db.Rows() || da.Cols() != db.Cols() {
		return false
	}
	for i := 0; i < da.Rows(); i++ {
		for j := 0; j < da.Cols(); j++ {
			va, err := a.ValueAt(i, j)
			if err != nil {
				return false
			}
			vb, err := b.ValueAt(i, j)
			if err != nil {
				return false
			}
			d := va - vb
			if d < 0 {
				d = -d
			}
			if d > tol {
				return false
			}
		}
	}
	return true
}
