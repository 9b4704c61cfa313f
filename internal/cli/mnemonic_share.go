package cli

import (
	"github.com/shardkit/shardkit/internal/mnemonic"
	"github.com/shardkit/shardkit/sss"
)

// shareMnemonicTagSize is how many leading bytes of a share's
// share_set_id are folded into its mnemonic phrase, letting a human spot
// shares from mismatched sets without opening the metadata file. The
// full share_set_id travels separately in that file, since it carries
// no secret material.
const shareMnemonicTagSize = 4

// encodeShareMnemonic packs a share's index, data, and share_set_id tag
// into a BIP-39 wordlist phrase suitable for writing on paper.
func encodeShareMnemonic(share sss.SecretShare) string {
	payload := make([]byte, 0, 1+len(share.Data)+shareMnemonicTagSize)
	payload = append(payload, byte(share.Index))
	payload = append(payload, share.Data...)
	payload = append(payload, share.Metadata.ShareSetID[:shareMnemonicTagSize]...)
	return mnemonic.Encode(payload)
}

// decodeShareMnemonic reverses encodeShareMnemonic, given the secret size
// recorded in the accompanying metadata file.
func decodeShareMnemonic(phrase string, secretSize int) (index int, data []byte, tag [shareMnemonicTagSize]byte, err error) {
	raw, decErr := mnemonic.Decode(phrase, 1+secretSize+shareMnemonicTagSize)
	if decErr != nil {
		err = decErr
		return
	}
	index = int(raw[0])
	data = raw[1 : 1+secretSize]
	copy(tag[:], raw[1+secretSize:])
	return
}
