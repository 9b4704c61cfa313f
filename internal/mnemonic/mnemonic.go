// Package mnemonic presents Shamir share bytes as BIP-39 wordlist
// phrases — an alternative, human-writable serialization for
// sss.SecretShare alongside its base64 record form.
//
// Only the wordlist and 11-bit packing convention of BIP-39 are reused
// here; this package does not use BIP-39's checksum or seed derivation,
// because SSS share bytes are not BIP-39 entropy. Share integrity is
// checked via the data/secret hashes carried in ShareMetadata, not a
// BIP-39 checksum word.
package mnemonic

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39"
)

// bitsPerWord is fixed by the BIP-39 wordlist size (2048 = 2^11).
const bitsPerWord = 11

// Encode packs data into a sequence of words drawn from the BIP-39
// English wordlist. The encoding is lossless for any byte length: the
// final partial group of bits is zero-padded on encode and the padding
// is discarded on Decode using the known original byte length.
func Encode(data []byte) string {
	wordlist := bip39.GetWordList()

	bits := newBitWriter()
	for _, b := range data {
		bits.writeByte(b)
	}
	groups := bits.groups(bitsPerWord)

	words := make([]string, len(groups))
	for i, g := range groups {
		words[i] = wordlist[g]
	}
	return strings.Join(words, " ")
}

// Decode reverses Encode, given the expected output length in bytes.
// The length must be supplied because the word phrase alone does not
// distinguish real trailing zero bits from pad bits.
func Decode(phrase string, length int) ([]byte, error) {
	indexOf := wordIndex()

	fields := strings.Fields(NormalizeInput(phrase))
	bits := newBitReader()
	for _, w := range fields {
		idx, ok := indexOf[w]
		if !ok {
			return nil, fmt.Errorf("mnemonic: unknown word %q", w)
		}
		bits.writeGroup(idx, bitsPerWord)
	}

	out, err := bits.readBytes(length)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeInput lowercases and collapses whitespace, matching how a
// human is likely to paste a phrase back in.
func NormalizeInput(input string) string {
	return strings.Join(strings.Fields(strings.ToLower(input)), " ")
}

var (
	wordIndexOnce  sync.Once
	wordIndexCache map[string]int
)

// wordIndex returns the word-to-index map for the wordlist, built once;
// Decode may be called from concurrent goroutines.
func wordIndex() map[string]int {
	wordIndexOnce.Do(func() {
		wordlist := bip39.GetWordList()
		idx := make(map[string]int, len(wordlist))
		for i, w := range wordlist {
			idx[w] = i
		}
		wordIndexCache = idx
	})
	return wordIndexCache
}
