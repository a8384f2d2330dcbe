package crypto

import (
	"fmt"

	"github.com/mr-tron/base58"
)

func EncodeBase58(b []byte) string { return base58.Encode(b) }

func DecodeBase58(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base58: %w", err)
	}
	return b, nil
}

// VerifyMessage checks signature over message for publicKey. The scheme follows
// the key length: 32 bytes is ed25519, 33 or 65 bytes is secp256k1.
func VerifyMessage(publicKey, message, signature []byte) bool {
	switch len(publicKey) {
	case 32:
		return verifyEd25519(publicKey, message, signature)
	case 33, 65:
		return verifyEth(publicKey, message, signature)
	default:
		return false
	}
}

// NewWallet loads a wallet of the given kind from key, or generates one when key is empty.
func NewWallet(kind, key string) (MessageSigner, error) {
	switch kind {
	case "", "ed25519":
		if key == "" {
			return GenerateEd25519Key()
		}
		return Ed25519FromSeedHex(key)
	case "eth":
		if key == "" {
			return GenerateEthKey()
		}
		return EthFromPrivateKeyHex(key)
	default:
		return nil, fmt.Errorf("unknown wallet kind %q", kind)
	}
}
