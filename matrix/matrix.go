// Package matrix implements the GF(256) linear algebra shared by rs and
// sss: Vandermonde and Cauchy matrix generation, submatrix extraction,
// Gaussian-elimination inversion, and the row-by-shard multiply that is
// the hot path of both Reed-Solomon encoding and general-path decoding.
package matrix

import (
	"fmt"

	"github.com/shardkit/shardkit/gf256"
)

// Matrix is a dense row-major GF(256) matrix.
type Matrix [][]byte

// New allocates a rows x cols zero matrix.
func New(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]byte, cols)
	}
	return m
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}
	return m
}

// Clone returns a deep copy of m. Matrices returned from the cache (or
// from any generator below) must be cloned before the caller mutates them.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]byte(nil), row...)
	}
	return out
}

// Rows returns the rows of m at the given indices, in the order given,
// each cloned. Used by the decoder to extract an arbitrary k-subset of
// rows of the full encoding matrix (the general reconstruction path).
func (m Matrix) Rows(indices []int) (Matrix, error) {
	out := make(Matrix, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(m) {
			return nil, fmt.Errorf("matrix: row index %d out of range [0,%d)", idx, len(m))
		}
		out[i] = append([]byte(nil), m[idx]...)
	}
	return out, nil
}

// SubMatrix returns the rows x cols block of m starting at (rowStart, colStart).
func (m Matrix) SubMatrix(rowStart, colStart, rows, cols int) (Matrix, error) {
	if rowStart < 0 || colStart < 0 || rows < 0 || cols < 0 {
		return nil, fmt.Errorf("matrix: negative submatrix bounds")
	}
	if rowStart+rows > len(m) {
		return nil, fmt.Errorf("matrix: submatrix rows out of range")
	}
	out := New(rows, cols)
	for i := 0; i < rows; i++ {
		if colStart+cols > len(m[rowStart+i]) {
			return nil, fmt.Errorf("matrix: submatrix cols out of range")
		}
		copy(out[i], m[rowStart+i][colStart:colStart+cols])
	}
	return out, nil
}

// Multiply returns m x other.
func (m Matrix) Multiply(other Matrix) (Matrix, error) {
	if len(m) == 0 || len(other) == 0 {
		return nil, fmt.Errorf("matrix: cannot multiply empty matrix")
	}
	if len(m[0]) != len(other) {
		return nil, fmt.Errorf("matrix: inner dimensions %d and %d do not match", len(m[0]), len(other))
	}

	rows, cols := len(m), len(other[0])
	out := New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var acc byte
			for k := 0; k < len(other); k++ {
				acc = gf256.Add(acc, gf256.Mul(m[r][k], other[k][c]))
			}
			out[r][c] = acc
		}
	}
	return out, nil
}

// ErrSingular is returned by Invert when the matrix has no inverse over GF(256).
var ErrSingular = fmt.Errorf("matrix: singular, cannot invert")

// Invert computes the inverse of a square matrix via Gauss-Jordan
// elimination on the augmented [M | I] matrix.
func (m Matrix) Invert() (Matrix, error) {
	n := len(m)
	for _, row := range m {
		if len(row) != n {
			return nil, fmt.Errorf("matrix: Invert requires a square matrix")
		}
	}

	aug := New(n, 2*n)
	for i := 0; i < n; i++ {
		copy(aug[i], m[i])
		aug[i][n+i] = 1
	}

	for c := 0; c < n; c++ {
		pivot := -1
		for r := c; r < n; r++ {
			if aug[r][c] != 0 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			return nil, ErrSingular
		}
		aug[c], aug[pivot] = aug[pivot], aug[c]

		inv := gf256.Inv(aug[c][c])
		for col := 0; col < 2*n; col++ {
			aug[c][col] = gf256.Mul(aug[c][col], inv)
		}

		for r := 0; r < n; r++ {
			if r == c || aug[r][c] == 0 {
				continue
			}
			factor := aug[r][c]
			for col := 0; col < 2*n; col++ {
				aug[r][col] = gf256.Add(aug[r][col], gf256.Mul(factor, aug[c][col]))
			}
		}
	}

	out := New(n, n)
	for i := 0; i < n; i++ {
		copy(out[i], aug[i][n:])
	}
	return out, nil
}

// CodeRows multiplies the given matrix rows by the full set of input
// shard buffers, writing each output row's result into the corresponding
// output buffer. This is the hot path shared by RS parity generation and
// general-path reconstruction; rows are evaluated in parallel once their
// count reaches parallelThreshold.
//
// len(rows[i]) must equal len(inputs); every input/output buffer must be
// the same length.
func CodeRows(rows Matrix, inputs, outputs [][]byte) error {
	if len(outputs) != len(rows) {
		return fmt.Errorf("matrix: %d output rows requested but matrix has %d rows", len(outputs), len(rows))
	}
	if len(inputs) == 0 {
		return fmt.Errorf("matrix: no input shards")
	}
	byteCount := len(inputs[0])
	for _, in := range inputs {
		if len(in) != byteCount {
			return fmt.Errorf("matrix: mismatched input shard lengths")
		}
	}
	for _, out := range outputs {
		if len(out) != byteCount {
			return fmt.Errorf("matrix: output buffer length %d does not match shard length %d", len(out), byteCount)
		}
	}

	const parallelThreshold = 4

	if len(rows) >= parallelThreshold {
		codeRowsParallel(rows, inputs, outputs, byteCount)
		return nil
	}
	codeRowsSequential(rows, inputs, outputs, byteCount)
	return nil
}

func codeRowsSequential(rows Matrix, inputs, outputs [][]byte, byteCount int) {
	for r, coeffs := range rows {
		codeOneRow(coeffs, inputs, outputs[r], byteCount)
	}
}

func codeOneRow(coeffs []byte, inputs [][]byte, output []byte, byteCount int) {
	for b := 0; b < byteCount; b++ {
		var acc byte
		for j, in := range inputs {
			acc = gf256.Add(acc, gf256.Mul(coeffs[j], in[b]))
		}
		output[b] = acc
	}
}
