package main

import (
	"fmt"
	"os"
	"time"

	"github.com/uhyunpark/dexbook/params"
	"github.com/uhyunpark/dexbook/pkg/crypto"
	"github.com/uhyunpark/dexbook/pkg/viewer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: sign-message <token-address>")
		os.Exit(2)
	}
	address := os.Args[1]
	cfg := params.LoadFromEnv("")

	// Step 1: Generate or load key
	if cfg.Viewer.WalletKey == "" {
		fmt.Printf("Generating new %s keypair...\n", cfg.Viewer.WalletKind)
	}
	wallet, err := crypto.NewWallet(cfg.Viewer.WalletKind, cfg.Viewer.WalletKey)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	pub := crypto.EncodeBase58(wallet.PublicKey())
	fmt.Printf("Wallet: %s\n", pub)
	switch w := wallet.(type) {
	case *crypto.Ed25519Signer:
		fmt.Printf("Seed: %s (KEEP SECRET!)\n\n", w.SeedHex())
	case *crypto.EthSigner:
		fmt.Printf("Address: %s\n", w.Address())
		fmt.Printf("Private Key: %s (KEEP SECRET!)\n\n", w.PrivateKeyHex())
	}

	// Step 2: Build attestation
	msg := crypto.BuildAttestation(address, time.Now())
	fmt.Println("Message:")
	fmt.Println(msg)
	fmt.Println()

	// Step 3: Sign
	sig, err := wallet.SignMessage([]byte(msg))
	if err != nil {
		fmt.Printf("Error signing: %v\n", err)
		os.Exit(1)
	}
	sigB58 := crypto.EncodeBase58(sig)
	fmt.Printf("Signature: %s\n\n", sigB58)

	// Step 4: Verify signature
	fmt.Println("Verifying signature...")
	if !crypto.VerifyMessage(wallet.PublicKey(), []byte(msg), sig) {
		fmt.Println("✗ Signature INVALID")
		os.Exit(1)
	}
	fmt.Println("✓ Signature VALID")
	fmt.Println()

	// Step 5: Show how to query the proxy
	fmt.Println("To fetch orders (a verifying proxy accepts this minute and the next):")
	fmt.Printf("  GET %s%s\n", cfg.Viewer.ProxyURL, viewer.OrdersPath(address, pub, sigB58))
}
