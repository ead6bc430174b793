// Package matrix provides the polymorphic Matrix operator interface and
// its concrete representations: dense general/symmetric, banded
// general/symmetric, diagonal, signature, permutation, unit, zero,
// lower-unitriangular (dense and band), Householder reflectors (dense and
// sparse-backed), block composites, and the orthogonal-product /
// matrix-product / LDLᵀ structural composites.
//
// All concrete types are immutable once built: a builder owns the
// mutation window and enforces a single-shot build, tripping
// ErrIllegalState on reuse rather than panicking.
package matrix
