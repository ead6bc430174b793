// Package denseq is a thread-safe, zero-dependency (aside from its test
// tooling) library for dense and banded linear algebra in Go: immutable
// matrix/vector types and the direct solvers built on them.
//
// Everything is organized under five subpackages:
//
//	dimension/ — shape validation and capacity acceptance for dense/band storage
//	vector/    — immutable vectors with a one-shot builder
//	matrix/    — dense, symmetric, band, diagonal, permutation, signature,
//	             block, and Householder matrix types, all built through a
//	             one-shot builder and operating via Operate/OperateTranspose
//	numkit/    — overflow-aware norms, determinant accumulation, lazy caching
//	solver/    — LU, Cholesky, modified Cholesky, and Householder QR
//	             factorization, each with a dense and banded variant
//
// A factorization is requested through an Executor, whose Accepts method
// reports whether a given matrix's shape is within that algorithm's
// capacity before Apply does any numerical work:
//
//	exec := solver.NewLUPivotingExecutor()
//	if !exec.Accepts(a).IsAccepted() {
//	    // shape rejected; inspect the acceptance's error
//	}
//	lu, err := exec.ApplyDefault(a)
//	if err != nil {
//	    // caller-input validation failed
//	}
//	if lu == nil {
//	    // the numerical process itself failed (e.g. the matrix is singular)
//	}
package denseq
