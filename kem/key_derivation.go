package kem

import (
	"errors"
	"fmt"
)

type keyDeriver func(*dhkem, []byte) (PublicKey, PrivateKey, error)

// bitmaskDeriver implements the rejection-sampling DeriveKeyPair procedure
// RFC 9180 defines for the NIST curves: candidate scalars are expanded from
// the seed, top-bit masked, and retried until one parses as a valid scalar.
func bitmaskDeriver(bitMask byte) keyDeriver {
	return func(kem *dhkem, seed []byte) (PublicKey, PrivateKey, error) {
		if len(seed) != int(kem.nSk) {
			return nil, nil, errors.New("invalid seed size")
		}

		dkpPrk := kem.labeledExtract([]byte(""), []byte("dkp_prk"), seed)
		counter := 0

		var sk PrivateKey
		for {
			if counter > 255 {
				return nil, nil, errors.New("unable to derive keypair from seed")
			}

			bytes, err := kem.labeledExpand(dkpPrk, []byte("candidate"), []byte{uint8(counter)}, kem.nSk)
			if err != nil {
				return nil, nil, fmt.Errorf("unable to expand seed prk: %w", err)
			}
			bytes[0] &= bitMask

			sk, err = kem.DeserializePrivateKey(bytes)
			if err == nil {
				break
			}

			counter++
		}

		return sk.Public(), sk, nil
	}
}

// xDeriver implements the DeriveKeyPair procedure RFC 9180 defines for
// Montgomery curves (X25519, X448): a single labeled expand, no rejection
// sampling, since every output is a valid scalar.
func xDeriver(kem *dhkem, seed []byte) (PublicKey, PrivateKey, error) {
	if len(seed) != int(kem.nSk) {
		return nil, nil, errors.New("invalid seed size")
	}

	dkpPrk := kem.labeledExtract([]byte(""), []byte("dkp_prk"), seed)
	skRaw, err := kem.labeledExpand(dkpPrk, []byte("sk"), []byte(""), kem.nSk)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to generate secret key seed: %w", err)
	}

	sk, err := kem.ops.NewPrivateKey(skRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid secret key: %w", err)
	}

	return sk.Public(), sk, nil
}
