package rs

import (
	"crypto/sha256"
	"encoding/hex"
	"iter"
	"sort"

	"github.com/shardkit/shardkit/matrix"
	fielderrors "github.com/shardkit/shardkit/pkg/errors"
)

// Result is the output of a successful Decode.
type Result struct {
	Data        []byte
	Checksum    string
	Diagnostics Diagnostics
}

// Diagnostics reports how a decode was satisfied: which shards (by
// global index) contributed, and which path produced the data.
type Diagnostics struct {
	UsedIndices []int
	Strategy    Strategy
}

// Strategy names the reconstruction path a decode took.
type Strategy string

const (
	// StrategyFastPath means every chunk had all k data shards present
	// and no matrix inversion was needed.
	StrategyFastPath Strategy = "fast_path"

	// StrategyGeneral means at least one chunk was rebuilt by inverting
	// a k x k submatrix over a mix of data and parity shards.
	StrategyGeneral Strategy = "general"

	// StrategyFallback means the defense-in-depth alternative-subset
	// search fired, after a singular submatrix or a checksum mismatch.
	StrategyFallback Strategy = "fallback"
)

// DebugLogf, when set, receives one line each time the general decode
// path falls back to an alternative shard subset after a singular
// submatrix, or retries a chunk after a checksum mismatch. This package
// performs no other I/O; the CLI wires this to its debug logger.
var DebugLogf func(format string, args ...any)

// maxSubsetAttempts bounds the alternative-subset search so a pathological
// number of available shards cannot turn a single decode into a
// combinatorial search. The MDS construction means the first subset tried
// always succeeds in practice; this cap only bounds the defense-in-depth
// fallback.
const maxSubsetAttempts = 256

func logDebugf(format string, args ...any) {
	if DebugLogf != nil {
		DebugLogf(format, args...)
	}
}

// Decode reconstructs the original data from any cfg.DataShards shards
// per chunk, verifying the recorded checksum before returning.
func Decode(shards []Shard) (*Result, error) {
	if len(shards) == 0 {
		return nil, fielderrors.Wrap(ErrInsufficientShards, nil, "no shards given")
	}

	cfg, checksum, originalSize, err := consistentMetadata(shards)
	if err != nil {
		return nil, err
	}
	if err := validateShardInputs(shards, cfg); err != nil {
		return nil, err
	}

	byChunk := groupByChunk(shards)
	if missing := missingChunkCount(byChunk, cfg, originalSize); missing > 0 {
		return nil, fielderrors.Wrap(ErrInsufficientShards, nil,
			"%d chunk(s) have no shards at all", missing)
	}
	chunkIndices := make([]int, 0, len(byChunk))
	for idx := range byChunk {
		chunkIndices = append(chunkIndices, idx)
	}
	sort.Ints(chunkIndices)

	diag := Diagnostics{Strategy: StrategyFastPath}
	out := make([]byte, 0, cfg.chunkPayloadSize()*len(chunkIndices))
	for _, idx := range chunkIndices {
		payload, trace, err := decodeChunk(byChunk[idx], cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, payload...)
		diag.UsedIndices = append(diag.UsedIndices, trace.usedIndices...)
		if trace.strategy.outranks(diag.Strategy) {
			diag.Strategy = trace.strategy
		}
	}

	if uint64(len(out)) < originalSize {
		return nil, fielderrors.Wrap(ErrCorruptedShards, nil,
			"reconstructed %d bytes, expected at least %d", len(out), originalSize)
	}
	out = out[:originalSize]

	sum := sha256.Sum256(out)
	if hex.EncodeToString(sum[:]) != checksum {
		// Defense in depth: a corrupted shard inside the subset picked
		// for decoding produces this mismatch even though the general
		// path always inverts successfully. When the
		// data spans a single chunk, retry with alternative subsets of
		// the same available shards before surfacing CORRUPTED_SHARDS.
		if len(chunkIndices) == 1 {
			if result, ok := retryChunkForChecksum(byChunk[chunkIndices[0]], cfg, checksum, originalSize); ok {
				return result, nil
			}
		}
		return nil, fielderrors.Wrap(ErrCorruptedShards, nil, "checksum mismatch after reconstruction")
	}

	return &Result{Data: out, Checksum: checksum, Diagnostics: diag}, nil
}

// outranks orders strategies by how much machinery they needed, so a
// multi-chunk decode reports the most involved path any chunk took.
func (s Strategy) outranks(other Strategy) bool {
	rank := func(s Strategy) int {
		switch s {
		case StrategyFallback:
			return 2
		case StrategyGeneral:
			return 1
		default:
			return 0
		}
	}
	return rank(s) > rank(other)
}

// retryChunkForChecksum re-decodes a single chunk's shards via each
// reconstruction candidate beyond the one Decode already tried, returning
// the first whose checksum matches.
func retryChunkForChecksum(shards []Shard, cfg EncodingConfig, checksum string, originalSize uint64) (*Result, bool) {
	attempt := 0
	for candidate := range decodeChunkCandidates(shards, cfg) {
		attempt++
		if attempt == 1 {
			continue
		}
		if uint64(len(candidate.payload)) < originalSize {
			continue
		}
		data := candidate.payload[:originalSize]
		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) == checksum {
			logDebugf("rs: chunk recovered via alternative subset after checksum mismatch (attempt %d)", attempt)
			return &Result{
				Data:     data,
				Checksum: checksum,
				Diagnostics: Diagnostics{
					UsedIndices: candidate.usedIndices,
					Strategy:    StrategyFallback,
				},
			}, true
		}
	}
	return nil, false
}

// CanReconstruct reports whether shards share consistent metadata, pass
// input validation, cover every chunk implied by original_size, and hold
// at least cfg.DataShards distinct local indices for each chunk, without
// attempting the (more expensive) matrix inversion Decode performs.
func CanReconstruct(shards []Shard) bool {
	if len(shards) == 0 {
		return false
	}
	cfg, _, originalSize, err := consistentMetadata(shards)
	if err != nil {
		return false
	}
	if err := validateShardInputs(shards, cfg); err != nil {
		return false
	}
	byChunk := groupByChunk(shards)
	if missingChunkCount(byChunk, cfg, originalSize) > 0 {
		return false
	}
	for _, chunkShards := range byChunk {
		if len(distinctLocalIndices(chunkShards, cfg)) < cfg.DataShards {
			return false
		}
	}
	return true
}

// DecodeChunks decodes each chunk as soon as its shards are available,
// without holding the whole reconstructed payload in memory. Iteration
// stops, yielding a final error, at the first chunk that cannot be
// decoded.
func DecodeChunks(shardsByChunk map[int][]Shard) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if len(shardsByChunk) == 0 {
			yield(nil, fielderrors.Wrap(ErrInsufficientShards, nil, "no shards given"))
			return
		}

		var all []Shard
		for _, s := range shardsByChunk {
			all = append(all, s...)
		}
		cfg, _, _, err := consistentMetadata(all)
		if err != nil {
			yield(nil, err)
			return
		}
		// Shard indices may be local to each chunk here (EncodeChunk output
		// restarts at 0 per chunk), so validate duplicates chunk by chunk
		// rather than across the whole map.
		for _, chunkShards := range shardsByChunk {
			if err := validateShardInputs(chunkShards, cfg); err != nil {
				yield(nil, err)
				return
			}
		}

		indices := make([]int, 0, len(shardsByChunk))
		for idx := range shardsByChunk {
			indices = append(indices, idx)
		}
		sort.Ints(indices)

		for _, idx := range indices {
			payload, _, err := decodeChunk(shardsByChunk[idx], cfg)
			if !yield(payload, err) || err != nil {
				return
			}
		}
	}
}

// chunkTrace records which shards one chunk's reconstruction consumed
// and which path produced it.
type chunkTrace struct {
	usedIndices []int // global shard indices
	strategy    Strategy
}

// decodeChunk reconstructs the full k-shard payload for one chunk from
// any cfg.DataShards of its shards.
func decodeChunk(shards []Shard, cfg EncodingConfig) ([]byte, chunkTrace, error) {
	k, n := cfg.DataShards, cfg.TotalShards()

	byLocalIndex := make(map[int]Shard, len(shards))
	for _, s := range shards {
		local := s.Index % n
		if _, dup := byLocalIndex[local]; dup {
			continue
		}
		byLocalIndex[local] = s
	}
	if len(byLocalIndex) < k {
		return nil, chunkTrace{}, fielderrors.Wrap(ErrInsufficientShards, nil,
			"chunk has %d distinct shards, need %d", len(byLocalIndex), k)
	}

	if dataShards, ok := fastPathDataShards(byLocalIndex, cfg); ok {
		trace := chunkTrace{strategy: StrategyFastPath}
		for local := 0; local < k; local++ {
			trace.usedIndices = append(trace.usedIndices, byLocalIndex[local].Index)
		}
		return flatten(dataShards, cfg.ShardSize), trace, nil
	}

	return generalPathDecode(byLocalIndex, cfg)
}

// chunkCandidate is one possible reconstruction of a chunk's payload and
// the global shard indices that produced it.
type chunkCandidate struct {
	payload     []byte
	usedIndices []int
}

// decodeChunkCandidates yields every reconstruction candidate for one
// chunk's shards: the fast-path concatenation first (when all of local
// indices [0,k) are present), then each k-subset of the available shards
// in turn. retryChunkForChecksum walks these past the first to recover
// from a corrupted shard that happened to land in the primary subset.
func decodeChunkCandidates(shards []Shard, cfg EncodingConfig) iter.Seq[chunkCandidate] {
	return func(yield func(chunkCandidate) bool) {
		k, n := cfg.DataShards, cfg.TotalShards()

		byLocalIndex := make(map[int]Shard, len(shards))
		for _, s := range shards {
			local := s.Index % n
			if _, dup := byLocalIndex[local]; dup {
				continue
			}
			byLocalIndex[local] = s
		}
		if len(byLocalIndex) < k {
			return
		}

		globals := func(locals []int) []int {
			out := make([]int, len(locals))
			for i, local := range locals {
				out[i] = byLocalIndex[local].Index
			}
			return out
		}

		if dataShards, ok := fastPathDataShards(byLocalIndex, cfg); ok {
			locals := make([]int, k)
			for i := range locals {
				locals[i] = i
			}
			if !yield(chunkCandidate{payload: flatten(dataShards, cfg.ShardSize), usedIndices: globals(locals)}) {
				return
			}
		}

		available := make([]int, 0, len(byLocalIndex))
		for idx := range byLocalIndex {
			available = append(available, idx)
		}
		sort.Ints(available)

		encMatrix, err := encodingMatrixFor(cfg)
		if err != nil {
			return
		}

		attempt := 0
		for locals := range kSubsets(available, k) {
			attempt++
			if attempt > maxSubsetAttempts {
				return
			}
			payload, err := decodeSubset(encMatrix, byLocalIndex, locals, cfg)
			if err != nil {
				continue
			}
			if !yield(chunkCandidate{payload: payload, usedIndices: globals(locals)}) {
				return
			}
		}
	}
}

// fastPathDataShards returns the k data shards directly when all of
// local indices [0,k) are present, avoiding matrix inversion entirely.
func fastPathDataShards(byLocalIndex map[int]Shard, cfg EncodingConfig) ([][]byte, bool) {
	out := make([][]byte, cfg.DataShards)
	for i := 0; i < cfg.DataShards; i++ {
		s, ok := byLocalIndex[i]
		if !ok {
			return nil, false
		}
		out[i] = s.Data
	}
	return out, true
}

// generalPathDecode picks any k available shards, inverts the
// corresponding k x k submatrix of the encoding matrix, and multiplies it
// by those shards' data to recover all k data shards. If the first
// (lowest-index) subset yields a singular submatrix it retries with
// successive k-subsets of the available shards; the MDS construction
// means this should never be needed in practice, so every subset that
// fails (and so triggers a retry) is logged.
func generalPathDecode(byLocalIndex map[int]Shard, cfg EncodingConfig) ([]byte, chunkTrace, error) {
	k := cfg.DataShards

	available := make([]int, 0, len(byLocalIndex))
	for idx := range byLocalIndex {
		available = append(available, idx)
	}
	sort.Ints(available)

	encMatrix, err := encodingMatrixFor(cfg)
	if err != nil {
		return nil, chunkTrace{}, fielderrors.Wrap(ErrMathError, err, "building encoding matrix")
	}

	var lastErr error
	attempt := 0
	for locals := range kSubsets(available, k) {
		attempt++
		if attempt > maxSubsetAttempts {
			break
		}
		payload, err := decodeSubset(encMatrix, byLocalIndex, locals, cfg)
		if err != nil {
			lastErr = err
			logDebugf("rs: subset %v singular, trying alternative subset (attempt %d)", locals, attempt)
			continue
		}
		trace := chunkTrace{strategy: StrategyGeneral}
		if attempt > 1 {
			trace.strategy = StrategyFallback
		}
		for _, local := range locals {
			trace.usedIndices = append(trace.usedIndices, byLocalIndex[local].Index)
		}
		return payload, trace, nil
	}

	return nil, chunkTrace{}, fielderrors.Wrap(ErrMatrixInversionFailed, lastErr,
		"no invertible %d-subset of %d available shards found", k, len(available))
}

// decodeSubset inverts the encoding matrix rows at locals and multiplies
// by the corresponding shard data to recover the k data shards.
func decodeSubset(encMatrix matrix.Matrix, byLocalIndex map[int]Shard, locals []int, cfg EncodingConfig) ([]byte, error) {
	k := cfg.DataShards

	sub, err := encMatrix.Rows(locals)
	if err != nil {
		return nil, fielderrors.Wrap(ErrMathError, err, "selecting shard rows")
	}
	inv, err := sub.Invert()
	if err != nil {
		return nil, err
	}

	inputs := make([][]byte, k)
	for i, idx := range locals {
		inputs[i] = byLocalIndex[idx].Data
	}
	outputs := make([][]byte, k)
	for i := range outputs {
		outputs[i] = make([]byte, cfg.ShardSize)
	}
	if err := matrix.CodeRows(inv, inputs, outputs); err != nil {
		return nil, fielderrors.Wrap(ErrMathError, err, "reconstructing data shards")
	}

	return flatten(outputs, cfg.ShardSize), nil
}

// kSubsets yields every k-combination of available (sorted ascending) in
// lexicographic order, so the lowest-index subset — the common case where
// no fallback is needed — is tried first.
func kSubsets(available []int, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		n := len(available)
		if k <= 0 || k > n {
			return
		}
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		emit := func() bool {
			subset := make([]int, k)
			for i, j := range idx {
				subset[i] = available[j]
			}
			return yield(subset)
		}
		if !emit() {
			return
		}
		for {
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
			if !emit() {
				return
			}
		}
	}
}

func flatten(shards [][]byte, shardSize int) []byte {
	out := make([]byte, 0, len(shards)*shardSize)
	for _, s := range shards {
		out = append(out, s...)
	}
	return out
}

func distinctLocalIndices(shards []Shard, cfg EncodingConfig) map[int]struct{} {
	n := cfg.TotalShards()
	out := make(map[int]struct{}, len(shards))
	for _, s := range shards {
		out[s.Index%n] = struct{}{}
	}
	return out
}

// missingChunkCount reports how many of the chunks implied by
// original_size have no shards present at all. Chunks merely below k
// shards are reported by the per-chunk check instead.
func missingChunkCount(byChunk map[int][]Shard, cfg EncodingConfig, originalSize uint64) int {
	payload := uint64(cfg.chunkPayloadSize())
	expected := int((originalSize + payload - 1) / payload)
	missing := 0
	for i := 0; i < expected; i++ {
		if _, ok := byChunk[i]; !ok {
			missing++
		}
	}
	return missing
}

func groupByChunk(shards []Shard) map[int][]Shard {
	out := make(map[int][]Shard)
	for _, s := range shards {
		idx := 0
		if s.Metadata.ChunkIndex != nil {
			idx = *s.Metadata.ChunkIndex
		}
		out[idx] = append(out[idx], s)
	}
	return out
}

// validateShardInputs rejects malformed shards before any matrix work:
// negative indices, duplicate indices, and data buffers that are not
// exactly shard_size bytes all surface as INVALID_CONFIGURATION.
func validateShardInputs(shards []Shard, cfg EncodingConfig) error {
	seen := make(map[int]struct{}, len(shards))
	for _, s := range shards {
		if s.Index < 0 {
			return fielderrors.Wrap(ErrInvalidConfiguration, nil, "shard index %d is negative", s.Index)
		}
		if len(s.Data) != cfg.ShardSize {
			return fielderrors.Wrap(ErrInvalidConfiguration, nil,
				"shard %d has %d bytes, config declares shard_size %d", s.Index, len(s.Data), cfg.ShardSize)
		}
		if _, dup := seen[s.Index]; dup {
			return fielderrors.Wrap(ErrInvalidConfiguration, nil, "duplicate shard index %d", s.Index)
		}
		seen[s.Index] = struct{}{}
	}
	return nil
}

// consistentMetadata verifies every shard carries the same Config,
// Checksum and OriginalSize, returning them, or ErrIncompatibleShards on
// a mismatch.
func consistentMetadata(shards []Shard) (EncodingConfig, string, uint64, error) {
	first := shards[0].Metadata
	for _, s := range shards[1:] {
		if s.Metadata.Config != first.Config ||
			s.Metadata.Checksum != first.Checksum ||
			s.Metadata.OriginalSize != first.OriginalSize {
			return EncodingConfig{}, "", 0, fielderrors.Wrap(ErrIncompatibleShards, nil,
				"shards carry mismatched metadata")
		}
	}
	return first.Config, first.Checksum, first.OriginalSize, nil
}
