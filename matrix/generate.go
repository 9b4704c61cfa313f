package matrix

import (
	"fmt"

	"github.com/shardkit/shardkit/gf256"
)

// Type identifies which MDS construction produced an encoding matrix,
// used as part of the cache key.
type Type int

const (
	// TypeVandermonde is the systematic construction derived from an
	// n x k Vandermonde matrix over the distinct points 0..n-1,
	// normalized so the top k rows form the identity; every k-subset of
	// rows stays invertible (the MDS property, verified exhaustively for
	// small k, n in matrix_test.go).
	TypeVandermonde Type = iota

	// TypeCauchy is the alternative generator: raw Cauchy
	// matrix C[i][j] = inv(x_i XOR y_j) over disjoint point sets,
	// normalized to systematic form via the top-square-inverse trick.
	TypeCauchy
)

// BuildEncodingMatrix returns the full (k+m) x k systematic Reed-Solomon
// encoding matrix for k data shards and n = k+m total shards, using the
// construction named by typ.
func BuildEncodingMatrix(k, n int, typ Type) (Matrix, error) {
	if k <= 0 || n <= k {
		return nil, fmt.Errorf("matrix: invalid shard counts k=%d n=%d", k, n)
	}
	if n > 256 {
		return nil, fmt.Errorf("matrix: n=%d exceeds field size 256", n)
	}

	switch typ {
	case TypeVandermonde:
		return buildVandermonde(k, n)
	case TypeCauchy:
		return buildCauchy(k, n)
	default:
		return nil, fmt.Errorf("matrix: unknown matrix type %d", typ)
	}
}

// buildVandermonde builds the n x k Vandermonde matrix over the distinct
// points 0..n-1 (row r, column j = r^j), then normalizes it to systematic
// form by multiplying by the inverse of its own top k x k block. Any k rows
// of a Vandermonde matrix over distinct points are invertible, and the
// normalization preserves that.
func buildVandermonde(k, n int) (Matrix, error) {
	raw := New(n, k)
	for r := 0; r < n; r++ {
		for j := 0; j < k; j++ {
			raw[r][j] = gf256.Pow(byte(r), j)
		}
	}

	top, err := raw.SubMatrix(0, 0, k, k)
	if err != nil {
		return nil, err
	}
	topInv, err := top.Invert()
	if err != nil {
		return nil, err
	}
	return raw.Multiply(topInv)
}

// buildCauchy constructs the alternative MDS matrix: C[i][j] = inv(x_i XOR
// y_j) for disjoint evaluation-point sets x (one per row) and y (one per
// data column), then normalizes it to systematic form by multiplying by
// the inverse of its own top k x k block.
func buildCauchy(k, n int) (Matrix, error) {
	if k+n > 256 {
		return nil, fmt.Errorf("matrix: cauchy requires k+n <= 256, got k=%d n=%d", k, n)
	}

	// Point sets are taken from the raw field values 0..k-1 and k..k+n-1.
	// These never overlap for k+n <= 256, unlike exp-table points, which
	// wrap at exp(255) = exp(0) and would collide at the top of the range.
	ys := make([]byte, k)
	for j := 0; j < k; j++ {
		ys[j] = byte(j)
	}
	xs := make([]byte, n)
	for i := 0; i < n; i++ {
		xs[i] = byte(k + i)
	}

	raw := New(n, k)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			raw[i][j] = gf256.Inv(gf256.Sub(xs[i], ys[j]))
		}
	}

	top, err := raw.SubMatrix(0, 0, k, k)
	if err != nil {
		return nil, err
	}
	topInv, err := top.Invert()
	if err != nil {
		return nil, err
	}
	return raw.Multiply(topInv)
}
