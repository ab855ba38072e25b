// Package digest computes the content identifiers that anchor peerbench
// provenance: a CIDv1 (multihash sha2-256) plus a hex-encoded SHA-256 for
// any blob. Both are pure functions of the input bytes, so re-hashing the
// same logical content always reproduces the same identifiers.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

// Multicodec tags for the CID wrapper. Structured (JSON-like) content is
// tagged with the json codec, opaque text and binary with raw. Callers must
// use the same tag for the same kind of input every time.
const (
	codecRaw  = 0x55
	codecJSON = 0x0200
)

// Digest pairs the two content identifiers computed for one blob.
type Digest struct {
	// CID is the CIDv1 string (base32, sha2-256 multihash).
	CID string
	// SHA256 is the hex-encoded SHA-256 of the same bytes.
	SHA256 string
}

// Sum computes the digests of raw bytes using the raw multicodec.
func Sum(data []byte) Digest {
	return sum(data, codecRaw)
}

// SumString computes the digests of the UTF-8 bytes of s using the raw
// multicodec. Equivalent to Sum([]byte(s)).
func SumString(s string) Digest {
	return sum([]byte(s), codecRaw)
}

// SumJSON serializes v to canonical JSON and computes its digests using the
// json multicodec. A non-serializable value is the only failure mode.
func SumJSON(v any) (Digest, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Digest{}, fmt.Errorf("encode for content addressing: %w", err)
	}
	return sum(data, codecJSON), nil
}

func sum(data []byte, codec uint64) Digest {
	hash, err := mh.Sum(data, mh.SHA2_256, -1)
	if err != nil {
		// mh.Sum over sha2-256 cannot fail for any input length.
		panic(fmt.Sprintf("digest: multihash sum: %v", err))
	}
	raw := sha256.Sum256(data)
	return Digest{
		CID:    cid.NewCidV1(codec, hash).String(),
		SHA256: hex.EncodeToString(raw[:]),
	}
}
