package api

import (
	"errors"
	"time"

	"github.com/uhyunpark/dexbook/pkg/crypto"
)

var (
	errSignatureRequired = errors.New("signature required")
	errInvalidSignature  = errors.New("invalid signature")
)

// verifyAttestation accepts a signature over the attestation for the current
// minute or the one before it, covering a request signed just before the boundary.
func (s *Server) verifyAttestation(address, wallet, signature string) error {
	if wallet == "" || signature == "" {
		return errSignatureRequired
	}
	pub, err := crypto.DecodeBase58(wallet)
	if err != nil {
		return errInvalidSignature
	}
	sig, err := crypto.DecodeBase58(signature)
	if err != nil {
		return errInvalidSignature
	}

	now := s.opts.Clock.Now()
	for _, t := range []time.Time{now, now.Add(-time.Minute)} {
		msg := crypto.BuildAttestation(address, t)
		if crypto.VerifyMessage(pub, []byte(msg), sig) {
			return nil
		}
	}
	return errInvalidSignature
}
