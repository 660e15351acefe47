package hpke

import (
	"fmt"

	"github.com/nyxhpke/hpke-core/kem"
)

// Open is the mirror of Seal: it decapsulates enc against skR, derives the
// same key schedule Seal produced, and opens ct. If AEAD authentication
// fails, it returns an *Error with Kind OpenFailed and no other detail —
// internal byte-level distinctions (bad enc, bad nonce, bad tag) are
// collapsed so a caller cannot use the error to build a padding oracle.
// exp is nil whenever err is non-nil; on success it is the Exporter bound
// to this call's key schedule, which the caller owns and must zeroize.
//
// mode selects which of WithPSK / WithSenderPublicKey are required,
// mirroring Seal's WithPSK / WithSenderKey.
func Open(mode Mode, suite Suite, skR kem.PrivateKey, enc, info, aad, ct []byte, opts ...Option) (pt []byte, exp Exporter, err error) {
	if !mode.valid() {
		return nil, nil, wrapErr(BadMode, fmt.Errorf("mode value %d is not one of base/psk/auth/psk+auth", mode))
	}

	o := resolveOptions(opts)
	if mode.authenticated() && o.pkS == nil {
		return nil, nil, wrapErr(BadInput, fmt.Errorf("mode %s requires WithSenderPublicKey", mode))
	}

	kemInfo, err := lookupKEM(suite.KEMID)
	if err != nil {
		return nil, nil, err
	}
	scheme := kemInfo.scheme()

	var ss []byte
	if mode.authenticated() {
		ss, err = scheme.AuthDecapsulate(enc, skR, o.pkS)
	} else {
		ss, err = scheme.Decapsulate(enc, skR)
	}
	if err != nil {
		return nil, nil, wrapErr(OpenFailed, nil)
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
	pt, err = aeadCipher.Open(nil, nonce, ct, aad)
	if err != nil {
		ksOut.Zeroize()
		return nil, nil, wrapErr(OpenFailed, nil)
	}
	wipe(ksOut.Key)
	wipe(ksOut.BaseNonce)

	return pt, ksOut, nil
}
