package matrix

import "sync"

// codeRowsParallel dispatches one goroutine per matrix row once the row
// count reaches the parallel threshold in CodeRows. The caller observes
// the same deterministic result regardless of dispatch:
// each row's output only depends on its own coefficients and the shared,
// read-only input shards.
func codeRowsParallel(rows Matrix, inputs, outputs [][]byte, byteCount int) {
	var wg sync.WaitGroup
	wg.Add(len(rows))
	for r, coeffs := range rows {
		go func(coeffs []byte, output []byte) {
			defer wg.Done()
			codeOneRow(coeffs, inputs, output, byteCount)
		}(coeffs, outputs[r])
	}
	wg.Wait()
}
