package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/cloudflare/circl/sign/ed25519"
)

// Ed25519Signer is a Solana-style wallet. Its base58 public key is the wallet address.
type Ed25519Signer struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

func GenerateEd25519Key() (*Ed25519Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &Ed25519Signer{privateKey: priv, publicKey: pub}, nil
}

// Ed25519FromSeedHex rebuilds a signer from a 32-byte hex seed.
func Ed25519FromSeedHex(hexSeed string) (*Ed25519Signer, error) {
	seed, err := hex.DecodeString(hexSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Ed25519Signer{privateKey: priv, publicKey: priv.Public().(ed25519.PublicKey)}, nil
}

func (s *Ed25519Signer) PublicKey() []byte { return s.publicKey }

// Address is the base58 public key.
func (s *Ed25519Signer) Address() string { return EncodeBase58(s.publicKey) }

// SeedHex returns the private seed. Keep it secret.
func (s *Ed25519Signer) SeedHex() string { return hex.EncodeToString(s.privateKey.Seed()) }

func (s *Ed25519Signer) SignMessage(message []byte) ([]byte, error) {
	return ed25519.Sign(s.privateKey, message), nil
}

func verifyEd25519(publicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}

var _ MessageSigner = (*Ed25519Signer)(nil)
