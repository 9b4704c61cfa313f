package rs

import "github.com/shardkit/shardkit/matrix"

// defaultMatrixCache is shared by every Encode/Decode call in the process;
// encoding matrices depend only on (k, n, MatrixType), so callers that
// reuse an EncodingConfig across many operations avoid re-inverting the
// same matrix every time.
var defaultMatrixCache = matrix.NewLRUCache(matrix.DefaultCacheCapacity)

func encodingMatrixFor(cfg EncodingConfig) (matrix.Matrix, error) {
	return matrix.CachedBuildEncodingMatrix(defaultMatrixCache, cfg.DataShards, cfg.TotalShards(), cfg.MatrixType)
}
