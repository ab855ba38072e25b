package output

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Ed25519Signer is a local development signer. Production deployments plug
// in their own Signer; the saved content identifier the signature covers is
// the same either way.
type Ed25519Signer struct {
	key ed25519.PrivateKey
}

// NewEd25519Signer builds a signer from a hex-encoded private key seed.
func NewEd25519Signer(seedHex string) (*Ed25519Signer, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("decode signer seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signer seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Ed25519Signer{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign returns the hex-encoded ed25519 signature of message.
func (s *Ed25519Signer) Sign(message string) (string, error) {
	return hex.EncodeToString(ed25519.Sign(s.key, []byte(message))), nil
}

// PublicKey returns the hex-encoded public key for verification.
func (s *Ed25519Signer) PublicKey() string {
	return hex.EncodeToString(s.key.Public().(ed25519.PublicKey))
}
