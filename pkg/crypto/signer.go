package crypto

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is a connected wallet. PublicKey is the raw key whose base58 form
// identifies the wallet in request paths.
type Wallet interface {
	PublicKey() []byte
}

// MessageSigner is implemented by wallets that support signing arbitrary messages.
// Callers type-assert for it; a wallet without it can still request orders unsigned.
type MessageSigner interface {
	Wallet
	SignMessage(message []byte) ([]byte, error)
}

// ReadOnlyWallet is connected but cannot sign.
type ReadOnlyWallet struct {
	Key []byte
}

func (w ReadOnlyWallet) PublicKey() []byte { return w.Key }

// EthSigner manages a secp256k1 key pair (Ethereum-compatible)
type EthSigner struct {
	privateKey *ecdsa.PrivateKey
}

// GenerateEthKey creates a new random secp256k1 key pair
func GenerateEthKey() (*EthSigner, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &EthSigner{privateKey: privateKey}, nil
}

// EthFromPrivateKeyHex creates a signer from a hex-encoded private key
// Format: "0x1234..." or "1234..." (64 hex chars)
func EthFromPrivateKeyHex(hexKey string) (*EthSigner, error) {
	if len(hexKey) > 1 && hexKey[0] == '0' && (hexKey[1] == 'x' || hexKey[1] == 'X') {
		hexKey = hexKey[2:]
	}
	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &EthSigner{privateKey: privateKey}, nil
}

// PublicKey returns the 33-byte compressed public key
func (s *EthSigner) PublicKey() []byte {
	return crypto.CompressPubkey(&s.privateKey.PublicKey)
}

// Address returns the Ethereum address derived from the public key, 0x-prefixed
func (s *EthSigner) Address() string {
	return crypto.PubkeyToAddress(s.privateKey.PublicKey).Hex()
}

// PrivateKeyHex returns the private key as hex string (WITHOUT 0x prefix)
// WARNING: Keep this secret! Never expose to users or logs
func (s *EthSigner) PrivateKeyHex() string {
	return fmt.Sprintf("%x", crypto.FromECDSA(s.privateKey))
}

// SignMessage signs the EIP-191 personal-message hash of message.
// Returns signature in [R || S || V] format (65 bytes), V in {0, 1}
func (s *EthSigner) SignMessage(message []byte) ([]byte, error) {
	signature, err := crypto.Sign(accounts.TextHash(message), s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return signature, nil
}

// verifyEth checks a [R || S || V] or [R || S] signature against a compressed
// or uncompressed secp256k1 public key.
func verifyEth(publicKey, message, signature []byte) bool {
	if len(signature) != 65 && len(signature) != 64 {
		return false
	}
	return crypto.VerifySignature(publicKey, accounts.TextHash(message), signature[:64])
}

var (
	_ MessageSigner = (*EthSigner)(nil)
	_ Wallet        = ReadOnlyWallet{}
)
