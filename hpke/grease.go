package hpke

import "crypto/rand"

// Grease produces a GREASE (RFC 8701) value set for clients that send decoy
// Encrypted ClientHello extensions: a chosen suite, a uniformly random
// fake sender public value sized for that suite's KEM, and a uniformly
// random byte string of the requested ciphertext length.
//
// If suiteIn is non-nil and supported, it is used as-is; otherwise a
// random registered suite is sampled.
func Grease(suiteIn *Suite, ctLen int) (suite Suite, randomPub, randomCt []byte, err error) {
	if suiteIn != nil && suiteIn.Supported() {
		suite = *suiteIn
	} else {
		suite, err = RandomSuite()
		if err != nil {
			return Suite{}, nil, nil, err
		}
	}

	kemInfo, err := lookupKEM(suite.KEMID)
	if err != nil {
		return Suite{}, nil, nil, err
	}

	randomPub = make([]byte, kemInfo.pubLen)
	if _, err := rand.Read(randomPub); err != nil {
		return Suite{}, nil, nil, wrapErr(InternalCryptoError, err)
	}

	randomCt = make([]byte, ctLen)
	if _, err := rand.Read(randomCt); err != nil {
		return Suite{}, nil, nil, wrapErr(InternalCryptoError, err)
	}

	return suite, randomPub, randomCt, nil
}
