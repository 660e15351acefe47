package hpke

import (
	"fmt"

	"github.com/nyxhpke/hpke-core/kem"
)

// Seal runs a full HPKE encryption pass: it encapsulates a fresh ephemeral
// key against pkR, derives the key schedule, and seals pt under the
// resulting key and nonce. It returns the encapsulated key enc, the
// ciphertext ct, and exp, the Exporter bound to this call's key schedule
// (RFC 9180 section 5.3). Callers that have no use for exported keying
// material may discard exp, but must still call exp.Zeroize() on it first —
// Seal itself never zeroizes the exporter secret, since doing so
// unconditionally is what made Export unreachable in the first place.
//
// mode selects which of WithPSK / WithSenderKey are required:
//   - ModeBase: neither.
//   - ModePSK: WithPSK.
//   - ModeAuth: WithSenderKey.
//   - ModePSKAuth: both.
func Seal(mode Mode, suite Suite, pkR kem.PublicKey, info, aad, pt []byte, opts ...Option) (enc, ct []byte, exp Exporter, err error) {
	if !mode.valid() {
		return nil, nil, nil, wrapErr(BadMode, fmt.Errorf("mode value %d is not one of base/psk/auth/psk+auth", mode))
	}

	o := resolveOptions(opts)
	if mode.authenticated() && o.skS == nil {
		return nil, nil, nil, wrapErr(BadInput, fmt.Errorf("mode %s requires WithSenderKey", mode))
	}

	kemInfo, err := lookupKEM(suite.KEMID)
	if err != nil {
		return nil, nil, nil, err
	}
	scheme := kemInfo.scheme()

	var ss []byte
	if mode.authenticated() {
		ss, enc, err = scheme.AuthEncapsulate(pkR, o.skS)
	} else {
		ss, enc, err = scheme.Encapsulate(pkR)
	}
	if err != nil {
		return nil, nil, nil, wrapErr(InternalCryptoError, err)
	}
	defer wipe(ss)

	ksOut, err := keySchedule(suite, mode, ss, info, o.psk, o.pskID)
	if err != nil {
		return nil, nil, nil, err
	}

	aeadCipher, err := ksOut.newAEAD()
	if err != nil {
		ksOut.Zeroize()
		return nil, nil, nil, err
	}

	nonce := computeNonce(ksOut.BaseNonce, o.seq)
	ct = aeadCipher.Seal(nil, nonce, pt, aad)
	wipe(ksOut.Key)
	wipe(ksOut.BaseNonce)

	return enc, ct, ksOut, nil
}

// SealWithSenderKeyPair is Seal's variant for callers that already hold an
// ephemeral key pair (skE, pkE) rather than letting Seal generate one. The
// returned enc is always equal to the serialized pkE; this function only
// returns ct and exp, mirroring Seal's exporter handle.
func SealWithSenderKeyPair(mode Mode, suite Suite, pkR kem.PublicKey, skE kem.PrivateKey, pkE kem.PublicKey, info, aad, pt []byte, opts ...Option) (ct []byte, exp Exporter, err error) {
	if !mode.valid() {
		return nil, nil, wrapErr(BadMode, fmt.Errorf("mode value %d is not one of base/psk/auth/psk+auth", mode))
	}

	o := resolveOptions(opts)
	if mode.authenticated() && o.skS == nil {
		return nil, nil, wrapErr(BadInput, fmt.Errorf("mode %s requires WithSenderKey", mode))
	}

	kemInfo, err := lookupKEM(suite.KEMID)
	if err != nil {
		return nil, nil, err
	}
	scheme := kemInfo.scheme()

	var ss []byte
	if mode.authenticated() {
		ss, _, err = scheme.AuthEncapsulateWithKeyPair(pkE, skE, pkR, o.skS)
	} else {
		ss, _, err = scheme.EncapsulateWithKeyPair(pkE, skE, pkR)
	}
	if err != nil {
		return nil, nil, wrapErr(InternalCryptoError, err)
	}
	defer wipe(ss)

	ksOut, err := keySchedule(suite, mode, ss, info, o.psk, o.pskID)
	if err != nil {
		return nil, nil, err
	}

	aeadCipher, err := ksOut.newAEAD()
	if err != nil {
		ksOut.Zeroize()
		return nil, nil, err
	}

	nonce := computeNonce(ksOut.BaseNonce, o.seq)
	ct = aeadCipher.Seal(nil, nonce, pt, aad)
	wipe(ksOut.Key)
	wipe(ksOut.BaseNonce)

	return ct, ksOut, nil
}
